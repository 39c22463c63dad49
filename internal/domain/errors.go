package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFormat signals an upload with an unsupported file extension.
	ErrInvalidFormat = errors.New("invalid file format")
	// ErrNotFound signals an unknown document id.
	ErrNotFound = errors.New("document not found")
	// ErrNoDocuments signals an empty store when no document id was given.
	ErrNoDocuments = errors.New("no documents available")
	// ErrNotReady signals a document whose index is not materialized yet.
	ErrNotReady = errors.New("document not ready")
	// ErrIndexMissing signals a ready document without an index handle.
	// Must never occur; treated as an internal fault.
	ErrIndexMissing = errors.New("document index missing")
	// ErrInvalidTransition signals a forbidden lifecycle status change.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrProviderError signals an LLM or embedding provider failure.
	ErrProviderError = errors.New("llm provider error")
)

// NotReadyError wraps ErrNotReady with the document's current status.
type NotReadyError struct {
	Status Status
}

func (e *NotReadyError) Error() string {
	return fmt.Sprintf("%s: current status is %s", ErrNotReady.Error(), e.Status)
}

func (e *NotReadyError) Unwrap() error { return ErrNotReady }

// NewNotReady creates a not-ready error carrying the current status.
func NewNotReady(status Status) error {
	return &NotReadyError{Status: status}
}
