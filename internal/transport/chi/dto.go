package chi

import (
	"time"

	"github.com/finsight-cloud/docqa/internal/domain"
)

// ErrorCode identifies a client-facing error category.
type ErrorCode string

const (
	CodeBadRequest       ErrorCode = "bad_request"
	CodeInvalidFormat    ErrorCode = "invalid_format"
	CodeDocumentNotFound ErrorCode = "document_not_found"
	CodeNoDocuments      ErrorCode = "no_documents"
	CodeNotReady         ErrorCode = "document_not_ready"
	CodeIndexMissing     ErrorCode = "index_missing"
	CodeProviderError    ErrorCode = "llm_provider_error"
	CodeTooLarge         ErrorCode = "upload_too_large"
	CodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the error body shape for every endpoint.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// UploadResponse is returned by POST /upload.
type UploadResponse struct {
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename"`
	Status     string `json:"status"`
}

// QueryRequest is the body of POST /query.
type QueryRequest struct {
	Question   string `json:"question"`
	DocumentID string `json:"document_id,omitempty"`
}

// QueryResponse is returned by POST /query.
type QueryResponse struct {
	Answer          string   `json:"answer"`
	Confidence      float64  `json:"confidence"`
	Sources         []string `json:"sources"`
	DocumentContext string   `json:"document_context,omitempty"`
}

// DocumentSummary describes a document in list/get responses.
type DocumentSummary struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	UploadTime time.Time `json:"upload_time"`
	Status     string    `json:"status"`
	Count      *int      `json:"count,omitempty"`
}

// DocumentListResponse is returned by GET /documents.
type DocumentListResponse struct {
	Items []DocumentSummary `json:"items"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func documentToSummary(doc domain.Document) DocumentSummary {
	return DocumentSummary{
		ID:         doc.ID,
		Filename:   doc.Filename,
		UploadTime: doc.UploadTime,
		Status:     string(doc.Status),
		Count:      doc.Count,
	}
}
