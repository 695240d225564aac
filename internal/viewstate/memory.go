package viewstate

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process Store used when no redis instance is
// configured, and by tests. Entries expire lazily on read.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	raw       []byte
	expiresAt time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = SessionTTL
	}
	return &MemoryStore{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Save(_ context.Context, userID, sessionID, screen string, snap Snapshot) error {
	raw, err := encode(snap)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key(userID, sessionID, screen)] = memoryEntry{
		raw:       raw,
		expiresAt: s.now().Add(s.ttl),
	}
	return nil
}

func (s *MemoryStore) Load(_ context.Context, userID, sessionID, screen string) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key(userID, sessionID, screen)
	entry, ok := s.entries[k]
	if !ok {
		return nil, nil
	}
	if s.now().After(entry.expiresAt) {
		delete(s.entries, k)
		return nil, nil
	}
	return decode(entry.raw)
}

func (s *MemoryStore) Clear(_ context.Context, userID, sessionID, screen string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key(userID, sessionID, screen))
	return nil
}
