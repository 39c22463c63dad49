package document

import "github.com/finsight-cloud/docqa/internal/domain"

// DocumentStore reads and removes document records.
type DocumentStore interface {
	Get(id string) (domain.Document, error)
	List() []domain.Document
	Delete(id string) error
}

// IndexStore removes index handles when their owning document goes away.
type IndexStore interface {
	Delete(id string)
}

// FileStore removes persisted raw files left behind by deleted documents.
type FileStore interface {
	Remove(path string) error
}
