package store

import (
	"context"
	"errors"
	"places-autocomplete/internal/ports"
	"strings"
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryCoordinateStore is the in-process CoordinateStore used when no Redis
// is configured. Expired entries are dropped lazily on read.
type MemoryCoordinateStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryCoordinateStore(ttl time.Duration) *MemoryCoordinateStore {
	return &MemoryCoordinateStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *MemoryCoordinateStore) Put(_ context.Context, sessionID string, value string) error {
	if strings.TrimSpace(sessionID) == "" {
		return errors.New("put coordinates: empty session id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e := memoryEntry{value: value}
	if s.ttl > 0 {
		e.expiresAt = s.now().Add(s.ttl)
	}
	s.entries[sessionID] = e
	return nil
}

func (s *MemoryCoordinateStore) Get(_ context.Context, sessionID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[sessionID]
	if !ok {
		return "", ports.ErrCoordinatesNotFound
	}
	if !e.expiresAt.IsZero() && s.now().After(e.expiresAt) {
		delete(s.entries, sessionID)
		return "", ports.ErrCoordinatesNotFound
	}
	return e.value, nil
}

func (s *MemoryCoordinateStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sessionID)
	return nil
}
