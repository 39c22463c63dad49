package ingest

import (
	"context"
	"io"

	"github.com/finsight-cloud/docqa/internal/domain"
)

// DocumentStore registers documents and records lifecycle transitions.
type DocumentStore interface {
	Create(filename, filePath string) domain.Document
	UpdateStatus(id string, status domain.Status, count *int) error
}

// IndexStore receives materialized index handles.
type IndexStore interface {
	Put(id string, idx domain.QueryIndex)
	Delete(id string)
}

// FileStore persists raw upload bytes while materialization is pending.
type FileStore interface {
	Save(name string, r io.Reader) (string, error)
	Remove(path string) error
}

// IndexBuilder materializes a query index from a persisted file.
// The returned count is pages for PDFs and data rows for CSVs.
type IndexBuilder interface {
	Build(ctx context.Context, path string) (domain.QueryIndex, int, error)
}

// TaskRunner schedules background work detached from the request.
type TaskRunner interface {
	Submit(task func()) bool
}
