// Package document exposes the lifecycle API over the document store.
package document

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/finsight-cloud/docqa/internal/domain"
)

// Service handles list/get/delete over documents with index and file cascade.
type Service struct {
	docs    DocumentStore
	indexes IndexStore
	files   FileStore
	logger  *zap.Logger
}

// New creates a document lifecycle service.
func New(docs DocumentStore, indexes IndexStore, files FileStore, logger *zap.Logger) *Service {
	return &Service{docs: docs, indexes: indexes, files: files, logger: logger}
}

// List returns all documents, oldest upload first.
func (s *Service) List() []domain.Document {
	return s.docs.List()
}

// Get returns a single document by id.
func (s *Service) Get(id string) (domain.Document, error) {
	doc, err := s.docs.Get(id)
	if err != nil {
		return domain.Document{}, fmt.Errorf("get document %s: %w", id, err)
	}
	return doc, nil
}

// Delete removes a document together with its index handle and any
// persisted raw file.
func (s *Service) Delete(id string) error {
	doc, err := s.docs.Get(id)
	if err != nil {
		return fmt.Errorf("get document %s: %w", id, err)
	}

	if err := s.docs.Delete(id); err != nil {
		return fmt.Errorf("delete document %s: %w", id, err)
	}
	s.indexes.Delete(id)

	if doc.FilePath != "" {
		if err := s.files.Remove(doc.FilePath); err != nil {
			s.logger.Warn("failed to remove raw file of deleted document",
				zap.String("document_id", id),
				zap.Error(err),
			)
		}
	}
	return nil
}
