package domain

import "time"

// Status is the document lifecycle state.
type Status string

const (
	// StatusUploaded marks a document whose bytes were accepted.
	StatusUploaded Status = "uploaded"
	// StatusProcessing marks a document whose index is being materialized.
	StatusProcessing Status = "processing"
	// StatusReady marks a document with a queryable index.
	StatusReady Status = "ready"
	// StatusError marks a document whose materialization failed.
	StatusError Status = "error"
)

// CanTransitionTo reports whether a status change is allowed.
// Ready and error are terminal for an ingestion attempt.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusUploaded:
		return next == StatusProcessing || next == StatusReady || next == StatusError
	case StatusProcessing:
		return next == StatusReady || next == StatusError
	default:
		return false
	}
}

// Document is a registered upload and its lifecycle state.
type Document struct {
	ID         string
	Filename   string
	UploadTime time.Time
	Status     Status
	// Count holds pages for PDF uploads and data rows for CSV uploads.
	// Nil until materialization completes.
	Count *int
	// FilePath points at the persisted raw file while processing is pending.
	FilePath string
	// Seq is the insertion sequence, used as the tie-break when two
	// documents share an upload timestamp.
	Seq uint64
}

// After reports whether d was uploaded after other, falling back to the
// insertion sequence on equal timestamps.
func (d Document) After(other Document) bool {
	if d.UploadTime.Equal(other.UploadTime) {
		return d.Seq > other.Seq
	}
	return d.UploadTime.After(other.UploadTime)
}
