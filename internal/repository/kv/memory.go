package kv

import (
	"context"
	"sync"
)

// MemoryStore is the in-memory KVStore used by default and in tests.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	// FailSaves makes every Save fail; tests use it to exercise the
	// ledger's no-partial-apply guarantee.
	FailSaves error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Load(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	val, ok := s.data[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	cp := make([]byte, len(val))
	copy(cp, val)
	return cp, nil
}

func (s *MemoryStore) Save(ctx context.Context, key string, value []byte) error {
	if s.FailSaves != nil {
		return s.FailSaves
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := make([]byte, len(value))
	copy(cp, value)
	s.data[key] = cp
	return nil
}
