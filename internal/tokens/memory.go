package tokens

import (
	"context"
	"sync"
)

// NewMemoryStore returns a Store backed by an in-memory map.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// MemoryStore implements Store for tests and throwaway sessions.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
	reads  int
}

// Get returns the stored token or "".
func (s *MemoryStore) Get(_ context.Context, key string) (string, error) {
	if err := validKey(key); err != nil {
		return "", err
	}
	s.mu.Lock()
	s.reads++
	v := s.values[key]
	s.mu.Unlock()
	return v, nil
}

// Set stores a token; an empty value removes it.
func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	if err := validKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	if value == "" {
		delete(s.values, key)
	} else {
		s.values[key] = value
	}
	s.mu.Unlock()
	return nil
}

// Delete removes a token.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	if err := validKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.values, key)
	s.mu.Unlock()
	return nil
}

// SavePair stores both tokens under one lock.
func (s *MemoryStore) SavePair(_ context.Context, pair Pair) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	setOrDelete(s.values, AccessTokenKey, pair.AccessToken)
	setOrDelete(s.values, RefreshTokenKey, pair.RefreshToken)
	return nil
}

// ClearPair removes both tokens under one lock.
func (s *MemoryStore) ClearPair(_ context.Context) error {
	s.mu.Lock()
	delete(s.values, AccessTokenKey)
	delete(s.values, RefreshTokenKey)
	s.mu.Unlock()
	return nil
}

// Reads reports how many Get calls were served. Useful for tests.
func (s *MemoryStore) Reads() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reads
}

func setOrDelete(m map[string]string, key, value string) {
	if value == "" {
		delete(m, key)
		return
	}
	m[key] = value
}
