package store

import "sync"

// Memory is an in-process RecordStore for tests and memory-backed
// deployments.
type Memory struct {
	mu sync.RWMutex
	m  map[[32]byte][]byte
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{m: make(map[[32]byte][]byte)}
}

func (s *Memory) Save(cid [32]byte, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	s.m[cid] = cp
	return nil
}

func (s *Memory) Load(cid [32]byte) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.m[cid]
	if !ok {
		return nil, ErrNotFound
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

func (s *Memory) Delete(cid [32]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, cid)
	return nil
}

func (s *Memory) All(fn func(cid [32]byte, data []byte) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for cid, data := range s.m {
		cp := make([]byte, len(data))
		copy(cp, data)
		if err := fn(cid, cp); err != nil {
			return err
		}
	}
	return nil
}

func (s *Memory) Close() error { return nil }
