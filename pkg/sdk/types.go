package docqa

import "time"

// Document lifecycle statuses as reported by the API.
const (
	StatusProcessing = "processing"
	StatusReady      = "ready"
	StatusError      = "error"
)

// Document describes an upload and its lifecycle state.
type Document struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	UploadTime time.Time `json:"upload_time"`
	Status     string    `json:"status"`
	// Count holds pages for PDF uploads and data rows for CSV uploads.
	// Nil until materialization completes.
	Count *int `json:"count,omitempty"`
}

// Upload is the response of a successful upload.
type Upload struct {
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename"`
	Status     string `json:"status"`
}

// Answer is the response to a question.
type Answer struct {
	Answer          string   `json:"answer"`
	Confidence      float64  `json:"confidence"`
	Sources         []string `json:"sources"`
	DocumentContext string   `json:"document_context,omitempty"`
}

// Health is the service health report.
type Health struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

type documentList struct {
	Items []Document `json:"items"`
}

type queryRequest struct {
	Question   string `json:"question"`
	DocumentID string `json:"document_id,omitempty"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
