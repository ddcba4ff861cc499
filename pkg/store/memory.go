package store

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore keeps render history in process memory. Used in tests and
// when the server runs without a mongo URI.
type MemoryStore struct {
	mu      sync.RWMutex
	records []Record
	byID    map[string]int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]int)}
}

// Save stores a record.
func (s *MemoryStore) Save(ctx context.Context, rec *Record) error {
	stamp(rec)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[rec.ID] = len(s.records)
	s.records = append(s.records, *rec)
	return nil
}

// Get fetches a record by ID.
func (s *MemoryStore) Get(ctx context.Context, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.byID[id]
	if !ok {
		return nil, notFound(id)
	}
	rec := s.records[idx]
	return &rec, nil
}

// List returns the most recent records, newest first.
func (s *MemoryStore) List(ctx context.Context, limit int64) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := slices.Clone(s.records)
	slices.Reverse(out)
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Close does nothing.
func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

var _ Store = (*MemoryStore)(nil)
