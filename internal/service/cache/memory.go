package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

type memoryEntry struct {
	payload    []byte
	insertedAt time.Time
}

// MemoryStore is the in-process cache backend. Values are kept as
// marshalled bytes so a cache hit replays the exact snapshot that was
// written. Expired entries are dropped lazily on lookup, never swept.
type MemoryStore struct {
	ttl time.Duration

	mu      sync.Mutex
	entries map[string]memoryEntry

	now func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, key Key, dest any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key.String()]
	if !ok {
		return false, nil
	}

	if s.now().Sub(entry.insertedAt) > s.ttl {
		delete(s.entries, key.String())
		return false, nil
	}

	if err := json.Unmarshal(entry.payload, dest); err != nil {
		return false, err
	}

	return true, nil
}

func (s *MemoryStore) Put(_ context.Context, key Key, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key.String()] = memoryEntry{
		payload:    payload,
		insertedAt: s.now(),
	}

	return nil
}

func (s *MemoryStore) Invalidate(_ context.Context, keys ...Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		delete(s.entries, key.String())
	}

	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
