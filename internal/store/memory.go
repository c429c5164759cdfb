package store

import (
	"context"
	"sync"
	"time"

	"github.com/smallwat3r/textdrop/internal/domain"
)

type entry struct {
	value    string
	expireAt time.Time
}

// MemoryStore is an in-process TextStore. It is only suitable for a single
// instance and for tests.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{value: value, expireAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) GetAndDelete(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return "", domain.ErrNotFound
	}
	delete(s.entries, key)
	if !s.now().Before(e.expireAt) {
		return "", domain.ErrNotFound
	}
	return e.value, nil
}

// PurgeExpired drops every expired entry and returns how many were removed.
func (s *MemoryStore) PurgeExpired(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	var n int64
	for k, e := range s.entries {
		if !now.Before(e.expireAt) {
			delete(s.entries, k)
			n++
		}
	}
	return n, nil
}

// Len returns the number of entries held, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
