package store

import (
	"bytes"
	"errors"
	"testing"
)

func testCID(b byte) [32]byte {
	var id [32]byte
	for i := range id {
		id[i] = b
	}
	return id
}

func testStore(t *testing.T, s RecordStore) {
	t.Helper()

	a, b := testCID(0xA1), testCID(0xB2)

	if _, err := s.Load(a); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load missing: err = %v, want ErrNotFound", err)
	}
	if err := s.Save(a, []byte("one")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Save(b, []byte("two")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	// Save is an overwrite.
	if err := s.Save(a, []byte("one-v2")); err != nil {
		t.Fatalf("Save overwrite: %v", err)
	}

	got, err := s.Load(a)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !bytes.Equal(got, []byte("one-v2")) {
		t.Fatalf("Load = %q, want one-v2", got)
	}

	seen := map[[32]byte]string{}
	if err := s.All(func(cid [32]byte, data []byte) error {
		seen[cid] = string(data)
		return nil
	}); err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(seen) != 2 || seen[a] != "one-v2" || seen[b] != "two" {
		t.Fatalf("All visited %v", seen)
	}

	if err := s.Delete(b); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Load(b); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load deleted: err = %v, want ErrNotFound", err)
	}
}

func TestMemory(t *testing.T) {
	s := NewMemory()
	defer s.Close()
	testStore(t, s)
}

func TestPebble(t *testing.T) {
	s, err := OpenPebble(t.TempDir())
	if err != nil {
		t.Fatalf("OpenPebble: %v", err)
	}
	defer s.Close()
	testStore(t, s)
}

func TestPebble_Reopen(t *testing.T) {
	dir := t.TempDir()
	s, err := OpenPebble(dir)
	if err != nil {
		t.Fatalf("OpenPebble: %v", err)
	}
	cid := testCID(0xC3)
	if err := s.Save(cid, []byte("persisted")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s, err = OpenPebble(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	got, err := s.Load(cid)
	if err != nil {
		t.Fatalf("Load after reopen: %v", err)
	}
	if !bytes.Equal(got, []byte("persisted")) {
		t.Fatalf("Load = %q", got)
	}
}
