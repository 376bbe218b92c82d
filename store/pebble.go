package store

import (
	"fmt"

	"github.com/cockroachdb/pebble"
)

var recordPrefix = []byte("cap:")

// Pebble is a RecordStore backed by an embedded Pebble database.
type Pebble struct {
	db *pebble.DB
}

// OpenPebble opens (or creates) a Pebble-backed store in dir.
func OpenPebble(dir string) (*Pebble, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open pebble db: %w", err)
	}
	return &Pebble{db: db}, nil
}

func recordKey(cid [32]byte) []byte {
	return append(append([]byte{}, recordPrefix...), cid[:]...)
}

func (s *Pebble) Save(cid [32]byte, data []byte) error {
	return s.db.Set(recordKey(cid), data, pebble.Sync)
}

func (s *Pebble) Load(cid [32]byte) ([]byte, error) {
	val, closer, err := s.db.Get(recordKey(cid))
	if err != nil {
		if err == pebble.ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	defer closer.Close()
	cp := make([]byte, len(val))
	copy(cp, val)
	return cp, nil
}

func (s *Pebble) Delete(cid [32]byte) error {
	return s.db.Delete(recordKey(cid), pebble.Sync)
}

func (s *Pebble) All(fn func(cid [32]byte, data []byte) error) error {
	upper := append([]byte{}, recordPrefix...)
	upper[len(upper)-1]++
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: recordPrefix,
		UpperBound: upper,
	})
	if err != nil {
		return err
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		key := iter.Key()
		if len(key) != len(recordPrefix)+32 {
			return fmt.Errorf("corrupt record key of %d bytes", len(key))
		}
		var cid [32]byte
		copy(cid[:], key[len(recordPrefix):])
		val := make([]byte, len(iter.Value()))
		copy(val, iter.Value())
		if err := fn(cid, val); err != nil {
			return err
		}
	}
	return iter.Error()
}

func (s *Pebble) Close() error {
	return s.db.Close()
}
