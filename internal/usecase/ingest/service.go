package ingest

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/finsight-cloud/docqa/internal/domain"
	"github.com/finsight-cloud/docqa/internal/metrics"
)

// Service validates uploads, persists them and schedules background
// index materialization.
type Service struct {
	docs    DocumentStore
	indexes IndexStore
	files   FileStore
	builder IndexBuilder
	runner  TaskRunner
	ext     string
	logger  *zap.Logger
}

// New creates an ingestion service accepting uploads with the given
// extension (e.g. ".pdf").
func New(
	docs DocumentStore,
	indexes IndexStore,
	files FileStore,
	builder IndexBuilder,
	runner TaskRunner,
	ext string,
	logger *zap.Logger,
) *Service {
	return &Service{
		docs:    docs,
		indexes: indexes,
		files:   files,
		builder: builder,
		runner:  runner,
		ext:     strings.ToLower(ext),
		logger:  logger,
	}
}

// Ingest validates the filename extension, persists the bytes and
// registers a processing-status document. It returns before the index
// is materialized; callers observe completion by polling the document
// status.
func (s *Service) Ingest(_ context.Context, filename string, r io.Reader) (domain.Document, error) {
	if !strings.EqualFold(filepath.Ext(filename), s.ext) {
		metrics.IngestTotal.WithLabelValues("invalid_format").Inc()
		return domain.Document{}, fmt.Errorf(
			"only %s files are supported: %w", s.ext, domain.ErrInvalidFormat,
		)
	}

	path, err := s.files.Save(uuid.NewString()+s.ext, r)
	if err != nil {
		return domain.Document{}, fmt.Errorf("persist upload: %w", err)
	}

	doc := s.docs.Create(filename, path)
	metrics.IngestTotal.WithLabelValues("accepted").Inc()

	if ok := s.runner.Submit(func() { s.materialize(doc.ID, filename, path) }); !ok {
		// Pool already stopped (shutdown in progress). The document
		// would otherwise stay in processing forever.
		s.logger.Warn("materialization not scheduled, pool stopped",
			zap.String("document_id", doc.ID),
		)
		s.failDocument(doc.ID, path)
	}

	return doc, nil
}

// materialize runs in the background: it builds the index from the
// persisted file and flips the document to ready or error. Failures are
// recorded on the document, never propagated; nothing is retried.
func (s *Service) materialize(id, filename, path string) {
	start := time.Now()
	log := s.logger.With(
		zap.String("document_id", id),
		zap.String("filename", filename),
	)
	log.Info("materializing index")

	// Detached from the upload request's lifecycle on purpose.
	ctx := context.Background()

	idx, count, err := s.builder.Build(ctx, path)
	if err != nil {
		log.Error("index materialization failed", zap.Error(err))
		metrics.IngestTotal.WithLabelValues("error").Inc()
		s.failDocument(id, path)
		return
	}

	s.indexes.Put(id, idx)
	if err := s.docs.UpdateStatus(id, domain.StatusReady, &count); err != nil {
		// Document deleted while processing; drop the orphaned handle
		// so the index-iff-ready invariant holds.
		log.Warn("document vanished during materialization", zap.Error(err))
		s.indexes.Delete(id)
		s.removeFile(id, path)
		return
	}

	s.removeFile(id, path)
	metrics.IngestTotal.WithLabelValues("ready").Inc()
	metrics.IngestDuration.Observe(time.Since(start).Seconds())
	log.Info("document ready",
		zap.Int("count", count),
		zap.Duration("took", time.Since(start)),
	)
}

func (s *Service) failDocument(id, path string) {
	if err := s.docs.UpdateStatus(id, domain.StatusError, nil); err != nil {
		s.logger.Warn("failed to record error status",
			zap.String("document_id", id),
			zap.Error(err),
		)
	}
	s.removeFile(id, path)
}

func (s *Service) removeFile(id, path string) {
	if err := s.files.Remove(path); err != nil {
		s.logger.Warn("failed to remove upload file",
			zap.String("document_id", id),
			zap.String("path", path),
			zap.Error(err),
		)
	}
}
