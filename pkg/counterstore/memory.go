package counterstore

import (
	"context"
	"math/big"
	"sync"
)

// MemoryStore 进程内存储
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]*big.Int
}

// NewMemoryStore 创建内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]*big.Int)}
}

func (s *MemoryStore) Load(_ context.Context, key string) (*big.Int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	if !ok {
		return nil, false, nil
	}
	return new(big.Int).Set(v), true, nil
}

func (s *MemoryStore) Save(_ context.Context, key string, v *big.Int) error {
	if err := checkValue(key, v); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = new(big.Int).Set(v)
	return nil
}

func (s *MemoryStore) Update(_ context.Context, key string, fn UpdateFunc) (*big.Int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.values[key]
	if ok {
		cur = new(big.Int).Set(cur)
	}
	next := fn(cur, ok)
	if err := checkValue(key, next); err != nil {
		return nil, err
	}
	s.values[key] = new(big.Int).Set(next)
	return new(big.Int).Set(next), nil
}

func (s *MemoryStore) Close() error {
	return nil
}
