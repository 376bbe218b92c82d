// Package store persists encoded capability records keyed by CID.
//
// Backends hold opaque encoded bytes; the capability package owns the
// record codec. Persistence of the CID table is optional: a nil store
// keeps the table purely in memory.
package store

import "errors"

// ErrNotFound is returned by Load when no record exists for the CID.
var ErrNotFound = errors.New("record not found")

// RecordStore is a minimal keyed store for encoded capability records.
//
// Contract:
// - Save MUST be idempotent and overwrite any previous value.
// - Load MUST return ErrNotFound when the CID is absent.
// - All MUST visit every stored record exactly once.
type RecordStore interface {
	Save(cid [32]byte, data []byte) error
	Load(cid [32]byte) ([]byte, error)
	Delete(cid [32]byte) error
	All(fn func(cid [32]byte, data []byte) error) error
	Close() error
}
