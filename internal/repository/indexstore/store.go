// Package indexstore maps document ids to their query index handles.
// A handle exists iff the owning document's status is ready.
package indexstore

import (
	"sync"

	"github.com/finsight-cloud/docqa/internal/domain"
)

// Store is an in-memory index handle store safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	indexes map[string]domain.QueryIndex
}

// New creates an empty index store.
func New() *Store {
	return &Store{indexes: make(map[string]domain.QueryIndex)}
}

// Put stores the index handle for a document.
func (s *Store) Put(id string, idx domain.QueryIndex) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.indexes[id] = idx
}

// Get returns the index handle for a document.
// Returns ErrIndexMissing when no handle is stored.
func (s *Store) Get(id string) (domain.QueryIndex, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.indexes[id]
	if !ok {
		return nil, domain.ErrIndexMissing
	}
	return idx, nil
}

// Delete removes the index handle for a document. Missing entries are a
// no-op so document deletion can cascade unconditionally.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.indexes, id)
}
