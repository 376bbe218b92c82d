package capability

import (
	"fmt"
	"sync"

	"amulet.dev/core/frame"
	"amulet.dev/core/store"
)

const tableShards = 256

type tableShard struct {
	mu sync.RWMutex
	m  map[frame.CID]*Record
}

// Table is the CID-keyed record table.
//
// It is sharded by the leading CID byte: operations on the same CID
// serialize on one shard lock while unrelated CIDs proceed in parallel.
// Lookup is an exact 32-byte match.
//
// When built with a store, every accepted mutation is persisted before
// it becomes visible in memory, so a crash never leaves the table ahead
// of the store.
type Table struct {
	shards [tableShards]tableShard
	store  store.RecordStore
}

// NewTable returns an empty in-memory table.
func NewTable() *Table {
	t := &Table{}
	for i := range t.shards {
		t.shards[i].m = make(map[frame.CID]*Record)
	}
	return t
}

// NewTableWithStore returns a table preloaded from the store and
// writing every mutation through to it.
func NewTableWithStore(s store.RecordStore) (*Table, error) {
	t := NewTable()
	t.store = s
	err := s.All(func(cid [32]byte, data []byte) error {
		r, err := DecodeRecord(data)
		if err != nil {
			return fmt.Errorf("cid %x: %w", cid[:4], err)
		}
		if r.CID != frame.CID(cid) {
			return fmt.Errorf("cid %x: record carries mismatched cid", cid[:4])
		}
		sh := &t.shards[cid[0]]
		sh.m[r.CID] = r
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load record table: %w", err)
	}
	return t, nil
}

func (t *Table) shard(cid frame.CID) *tableShard {
	return &t.shards[cid[0]]
}

// Get returns a copy of the record for cid, resolving lazy expiry
// against now. The expiry transition is applied in memory only; the
// stored expiry tick already implies it on reload.
func (t *Table) Get(cid frame.CID, now Tick) (Record, bool) {
	sh := t.shard(cid)
	sh.mu.RLock()
	r, ok := sh.m[cid]
	if !ok {
		sh.mu.RUnlock()
		return Record{}, false
	}
	if r.EffectiveState(now) == r.State {
		cp := *r
		sh.mu.RUnlock()
		return cp, true
	}
	sh.mu.RUnlock()

	sh.mu.Lock()
	defer sh.mu.Unlock()
	r, ok = sh.m[cid]
	if !ok {
		return Record{}, false
	}
	r.State = r.EffectiveState(now)
	return *r, true
}

// Update runs fn with the shard write lock held. fn receives a copy of
// the current record (nil if absent) and returns the replacement, or
// nil for no change. The replacement is persisted before it is
// installed; a persistence failure leaves the table unchanged.
func (t *Table) Update(cid frame.CID, fn func(cur *Record) (*Record, error)) error {
	sh := t.shard(cid)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	var cur *Record
	if r, ok := sh.m[cid]; ok {
		cp := *r
		cur = &cp
	}
	next, err := fn(cur)
	if err != nil {
		return err
	}
	if next == nil {
		return nil
	}
	if t.store != nil {
		data, err := EncodeRecord(next)
		if err != nil {
			return wrapError(KindInternal, "AMU-VAL-190", "encode record", err)
		}
		if err := t.store.Save(cid, data); err != nil {
			return wrapError(KindInternal, "AMU-VAL-191", "persist record", err)
		}
	}
	cp := *next
	sh.m[cid] = &cp
	return nil
}

// Len returns the number of records in the table.
func (t *Table) Len() int {
	n := 0
	for i := range t.shards {
		sh := &t.shards[i]
		sh.mu.RLock()
		n += len(sh.m)
		sh.mu.RUnlock()
	}
	return n
}

// Range calls fn with a copy of every record until fn returns false.
// No lock ordering is implied across shards; records mutated during the
// walk may or may not be observed.
func (t *Table) Range(fn func(Record) bool) {
	for i := range t.shards {
		sh := &t.shards[i]
		sh.mu.RLock()
		for _, r := range sh.m {
			cp := *r
			if !fn(cp) {
				sh.mu.RUnlock()
				return
			}
		}
		sh.mu.RUnlock()
	}
}
