// Package memstore implements store.LabeledPairStore in memory: a
// mutex-guarded map keyed by session ID, used in tests and for
// short-lived active-learning sessions that don't need SQLite.
package memstore

import (
	"context"
	"sync"

	"github.com/cognicore/erecon/pkg/erecon/model"
)

// Store is an in-memory store.LabeledPairStore.
type Store struct {
	mu       sync.RWMutex
	sessions map[string][]model.LabeledPair
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{sessions: make(map[string][]model.LabeledPair)}
}

// Close implements store.LabeledPairStore; memstore has nothing to
// release.
func (s *Store) Close() error { return nil }

// AppendLabeled records newly-labeled pairs for sessionID.
func (s *Store) AppendLabeled(ctx context.Context, sessionID string, pairs []model.LabeledPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = append(s.sessions[sessionID], pairs...)
	return nil
}

// LoadLabeled returns a copy of every labeled pair appended for
// sessionID, in append order.
func (s *Store) LoadLabeled(ctx context.Context, sessionID string) ([]model.LabeledPair, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	existing := s.sessions[sessionID]
	out := make([]model.LabeledPair, len(existing))
	copy(out, existing)
	return out, nil
}
