// Package docstore holds document lifecycle records in process memory.
// State is lost on restart; durability is out of scope for this service.
package docstore

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/finsight-cloud/docqa/internal/domain"
)

// Store is an in-memory document store safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	docs map[string]domain.Document
	seq  uint64
}

// New creates an empty document store.
func New() *Store {
	return &Store{docs: make(map[string]domain.Document)}
}

// Create allocates a fresh identifier and registers a processing-status
// document pointing at the persisted raw file.
func (s *Store) Create(filename, filePath string) domain.Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	doc := domain.Document{
		ID:         uuid.NewString(),
		Filename:   filename,
		UploadTime: time.Now().UTC(),
		Status:     domain.StatusProcessing,
		FilePath:   filePath,
		Seq:        s.seq,
	}
	s.docs[doc.ID] = doc
	return doc
}

// Get returns a document by id.
func (s *Store) Get(id string) (domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[id]
	if !ok {
		return domain.Document{}, domain.ErrNotFound
	}
	return doc, nil
}

// List returns all documents sorted by upload time, oldest first.
// Insertion sequence breaks ties for deterministic ordering.
func (s *Store) List() []domain.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]domain.Document, 0, len(s.docs))
	for _, doc := range s.docs {
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[j].After(docs[i])
	})
	return docs
}

// Latest returns the most recently uploaded document.
// Returns ErrNoDocuments when the store is empty.
func (s *Store) Latest() (domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.docs) == 0 {
		return domain.Document{}, domain.ErrNoDocuments
	}

	var latest domain.Document
	for _, doc := range s.docs {
		if latest.ID == "" || doc.After(latest) {
			latest = doc
		}
	}
	return latest, nil
}

// UpdateStatus transitions a document's lifecycle status and optionally
// sets its count. A nil count leaves the stored value untouched.
func (s *Store) UpdateStatus(id string, status domain.Status, count *int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[id]
	if !ok {
		return domain.ErrNotFound
	}
	if !doc.Status.CanTransitionTo(status) {
		return domain.ErrInvalidTransition
	}

	doc.Status = status
	if count != nil {
		doc.Count = count
	}
	// The raw file reference is only meaningful while processing is pending.
	if status == domain.StatusReady || status == domain.StatusError {
		doc.FilePath = ""
	}
	s.docs[id] = doc
	return nil
}

// Delete removes a document record.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.docs, id)
	return nil
}
