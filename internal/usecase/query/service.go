package query

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/finsight-cloud/docqa/internal/domain"
)

// Service dispatches questions to per-document query indexes.
type Service struct {
	docs       DocumentFinder
	indexes    IndexFinder
	refiner    Refiner // nil disables refinement
	maxSources int
	previewLen int
	confidence float64
	logger     *zap.Logger
}

// New creates a query dispatcher. refiner may be nil.
func New(
	docs DocumentFinder,
	indexes IndexFinder,
	refiner Refiner,
	maxSources, previewLen int,
	confidence float64,
	logger *zap.Logger,
) *Service {
	if maxSources <= 0 {
		maxSources = 2
	}
	if previewLen <= 0 {
		previewLen = 100
	}
	return &Service{
		docs:       docs,
		indexes:    indexes,
		refiner:    refiner,
		maxSources: maxSources,
		previewLen: previewLen,
		confidence: confidence,
		logger:     logger,
	}
}

// Query resolves the target document (explicit id, or most recently
// uploaded when empty), forwards the question to its index and returns
// the answer with truncated source excerpts.
func (s *Service) Query(ctx context.Context, question, documentID string) (domain.Answer, error) {
	doc, err := s.resolve(documentID)
	if err != nil {
		return domain.Answer{}, err
	}

	if doc.Status != domain.StatusReady {
		return domain.Answer{}, domain.NewNotReady(doc.Status)
	}

	idx, err := s.indexes.Get(doc.ID)
	if err != nil {
		// Ready document without a handle: internal consistency fault.
		return domain.Answer{}, fmt.Errorf("document %s: %w", doc.ID, err)
	}

	raw, err := idx.Query(ctx, question)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("query index: %w", err)
	}

	answer := raw.Text
	if s.refiner != nil {
		refined, refineErr := s.refiner.Refine(ctx, question, raw.Text)
		if refineErr != nil {
			s.logger.Warn("answer refinement failed, using raw answer",
				zap.String("document_id", doc.ID),
				zap.Error(refineErr),
			)
		} else {
			answer = refined
		}
	}

	return domain.Answer{
		Text:            answer,
		Confidence:      s.confidence,
		Sources:         s.previewSources(raw.Sources),
		DocumentContext: doc.Filename,
	}, nil
}

func (s *Service) resolve(documentID string) (domain.Document, error) {
	if documentID != "" {
		doc, err := s.docs.Get(documentID)
		if err != nil {
			return domain.Document{}, fmt.Errorf("resolve document %s: %w", documentID, err)
		}
		return doc, nil
	}

	doc, err := s.docs.Latest()
	if err != nil {
		return domain.Document{}, fmt.Errorf("resolve latest document: %w", err)
	}
	return doc, nil
}

// previewSources keeps at most maxSources excerpts, each truncated to
// previewLen runes with an ellipsis marker.
func (s *Service) previewSources(sources []string) []string {
	if len(sources) > s.maxSources {
		sources = sources[:s.maxSources]
	}
	previews := make([]string, len(sources))
	for i, src := range sources {
		previews[i] = truncate(src, s.previewLen)
	}
	return previews
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) > limit {
		runes = runes[:limit]
	}
	return string(runes) + "..."
}
