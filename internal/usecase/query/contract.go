package query

import (
	"context"

	"github.com/finsight-cloud/docqa/internal/domain"
)

// DocumentFinder resolves query targets.
type DocumentFinder interface {
	Get(id string) (domain.Document, error)
	Latest() (domain.Document, error)
}

// IndexFinder retrieves materialized index handles.
type IndexFinder interface {
	Get(id string) (domain.QueryIndex, error)
}

// Refiner re-phrases a raw retrieval answer. Failures fall back to the
// raw answer; they never fail the request.
type Refiner interface {
	Refine(ctx context.Context, question, answer string) (string, error)
}
