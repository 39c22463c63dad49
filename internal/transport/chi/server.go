// Package chi exposes the document Q&A HTTP API.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/finsight-cloud/docqa/internal/domain"
	documentuc "github.com/finsight-cloud/docqa/internal/usecase/document"
	healthuc "github.com/finsight-cloud/docqa/internal/usecase/health"
	ingestuc "github.com/finsight-cloud/docqa/internal/usecase/ingest"
	queryuc "github.com/finsight-cloud/docqa/internal/usecase/query"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server holds the HTTP handlers over the use case services.
type Server struct {
	ingest         *ingestuc.Service
	query          *queryuc.Service
	documents      *documentuc.Service
	health         *healthuc.Service
	maxUploadBytes int64
	logger         *zap.Logger
	errorHandlers  []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	ingest *ingestuc.Service,
	query *queryuc.Service,
	documents *documentuc.Service,
	health *healthuc.Service,
	maxUploadBytes int64,
	logger *zap.Logger,
) *Server {
	s := &Server{
		ingest:         ingest,
		query:          query,
		documents:      documents,
		health:         health,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
	s.errorHandlers = []errorHandler{
		notReadyHandler,
		sentinelHandler(domain.ErrInvalidFormat, http.StatusBadRequest, CodeInvalidFormat),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeDocumentNotFound),
		sentinelHandler(domain.ErrNoDocuments, http.StatusBadRequest, CodeNoDocuments),
		sentinelHandler(domain.ErrProviderError, http.StatusBadGateway, CodeProviderError),
		sentinelHandler(domain.ErrIndexMissing, http.StatusInternalServerError, CodeIndexMissing),
	}
	return s
}

// Routes mounts all API routes on the router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/upload", s.Upload)
	r.Post("/query", s.Query)
	r.Get("/documents", s.ListDocuments)
	r.Get("/documents/{id}", s.GetDocument)
	r.Delete("/documents/{id}", s.DeleteDocument)
	r.Get("/health", s.Health)
	r.Handle("/metrics", promhttp.Handler())
}

// Upload handles POST /upload (multipart, field "file").
func (s *Server) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, CodeTooLarge, "upload exceeds size limit")
			return
		}
		writeError(w, http.StatusBadRequest, CodeBadRequest, "multipart field \"file\" is required")
		return
	}
	defer func() { _ = file.Close() }()

	doc, err := s.ingest.Ingest(r.Context(), header.Filename, file)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, UploadResponse{
		DocumentID: doc.ID,
		Filename:   doc.Filename,
		Status:     string(doc.Status),
	})
}

// Query handles POST /query.
func (s *Server) Query(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "question is required")
		return
	}

	answer, err := s.query.Query(r.Context(), req.Question, req.DocumentID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, QueryResponse{
		Answer:          answer.Text,
		Confidence:      answer.Confidence,
		Sources:         answer.Sources,
		DocumentContext: answer.DocumentContext,
	})
}

// ListDocuments handles GET /documents.
func (s *Server) ListDocuments(w http.ResponseWriter, _ *http.Request) {
	docs := s.documents.List()

	items := make([]DocumentSummary, len(docs))
	for i, doc := range docs {
		items[i] = documentToSummary(doc)
	}
	writeJSON(w, http.StatusOK, DocumentListResponse{Items: items})
}

// GetDocument handles GET /documents/{id}.
func (s *Server) GetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.documents.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, documentToSummary(doc))
}

// DeleteDocument handles DELETE /documents/{id}.
func (s *Server) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := s.documents.Delete(chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Health handles GET /health.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for name, result := range report.Checks {
		checks[name] = string(result)
	}
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidFormat,
		domain.ErrNotFound,
		domain.ErrNoDocuments,
		domain.ErrNotReady,
		domain.ErrIndexMissing,
		domain.ErrProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// notReadyHandler handles ErrNotReady, surfacing the current status to the poller.
func notReadyHandler(w http.ResponseWriter, err error, msg string) bool {
	if !errors.Is(err, domain.ErrNotReady) {
		return false
	}
	var nre *domain.NotReadyError
	if errors.As(err, &nre) {
		msg = nre.Error()
	}
	writeError(w, http.StatusBadRequest, CodeNotReady, msg)
	return true
}
