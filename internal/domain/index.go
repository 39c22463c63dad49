package domain

import "context"

// QueryIndex is the per-document query capability. Concrete indexes
// (vector retrieval over PDF pages, table agent over CSV rows) are
// built once per successful ingestion and are immutable afterwards.
type QueryIndex interface {
	Query(ctx context.Context, question string) (IndexAnswer, error)
}

// IndexAnswer is the raw result of querying an index: generated text
// plus the source excerpts it was grounded on, best match first.
type IndexAnswer struct {
	Text    string
	Sources []string
}

// Answer is the client-facing result of the query dispatcher.
type Answer struct {
	Text string
	// Confidence is a configured placeholder, not computed from the
	// retrieval distribution.
	Confidence float64
	Sources    []string
	// DocumentContext is the originating document's filename.
	DocumentContext string
}
