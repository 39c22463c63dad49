package docqa

import (
	"errors"
	"fmt"
)

// Sentinel errors mapped from API error codes. Use errors.Is to check.
var (
	ErrInvalidFormat = errors.New("docqa: unsupported file format")
	ErrNotFound      = errors.New("docqa: document not found")
	ErrNoDocuments   = errors.New("docqa: no documents uploaded")
	ErrNotReady      = errors.New("docqa: document not ready")
	ErrTooLarge      = errors.New("docqa: upload too large")
	ErrProvider      = errors.New("docqa: llm provider error")
	ErrServer        = errors.New("docqa: server error")
)

// APIError carries the structured error body returned by the service.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("docqa: %s (%s, http %d)", e.Message, e.Code, e.StatusCode)
}

// Unwrap maps the API error code to a package sentinel.
func (e *APIError) Unwrap() error {
	switch e.Code {
	case "invalid_format":
		return ErrInvalidFormat
	case "document_not_found":
		return ErrNotFound
	case "no_documents":
		return ErrNoDocuments
	case "document_not_ready":
		return ErrNotReady
	case "upload_too_large":
		return ErrTooLarge
	case "llm_provider_error":
		return ErrProvider
	case "index_missing", "internal_error":
		return ErrServer
	default:
		return nil
	}
}
