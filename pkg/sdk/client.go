package docqa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 90 * time.Second

// Client talks to a document Q&A service over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option customizes the Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New creates a client for the service at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Upload submits a file for ingestion. The returned status is
// processing; poll Document until it flips to ready or error.
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (Upload, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return Upload{}, fmt.Errorf("docqa: build multipart body: %w", err)
	}
	if _, err := io.Copy(fw, r); err != nil {
		return Upload{}, fmt.Errorf("docqa: build multipart body: %w", err)
	}
	if err := mw.Close(); err != nil {
		return Upload{}, fmt.Errorf("docqa: build multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", &body)
	if err != nil {
		return Upload{}, fmt.Errorf("docqa: build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out Upload
	if err := c.do(req, http.StatusCreated, &out); err != nil {
		return Upload{}, err
	}
	return out, nil
}

// Query asks a question. An empty documentID targets the most recently
// uploaded document.
func (c *Client) Query(ctx context.Context, question, documentID string) (Answer, error) {
	var out Answer
	err := c.postJSON(ctx, "/query", queryRequest{Question: question, DocumentID: documentID}, &out)
	if err != nil {
		return Answer{}, err
	}
	return out, nil
}

// Documents lists all uploads, oldest first.
func (c *Client) Documents(ctx context.Context) ([]Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/documents", http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("docqa: build request: %w", err)
	}

	var out documentList
	if err := c.do(req, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// Document returns a single document by id.
func (c *Client) Document(ctx context.Context, id string) (Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/documents/"+id, http.NoBody)
	if err != nil {
		return Document{}, fmt.Errorf("docqa: build request: %w", err)
	}

	var out Document
	if err := c.do(req, http.StatusOK, &out); err != nil {
		return Document{}, err
	}
	return out, nil
}

// Delete removes a document and its index.
func (c *Client) Delete(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/documents/"+id, http.NoBody)
	if err != nil {
		return fmt.Errorf("docqa: build request: %w", err)
	}
	return c.do(req, http.StatusNoContent, nil)
}

// Health returns the service health report.
func (c *Client) Health(ctx context.Context) (Health, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", http.NoBody)
	if err != nil {
		return Health{}, fmt.Errorf("docqa: build request: %w", err)
	}

	var out Health
	if err := c.do(req, http.StatusOK, &out); err != nil {
		return Health{}, err
	}
	return out, nil
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("docqa: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("docqa: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, http.StatusOK, out)
}

// do executes the request, decodes the success body into out and turns
// non-success responses into *APIError.
func (c *Client) do(req *http.Request, wantStatus int, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("docqa: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != wantStatus {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("docqa: decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var body errorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Code == "" {
		return &APIError{
			StatusCode: resp.StatusCode,
			Code:       "unknown",
			Message:    fmt.Sprintf("unexpected status %d", resp.StatusCode),
		}
	}
	return &APIError{
		StatusCode: resp.StatusCode,
		Code:       body.Code,
		Message:    body.Message,
	}
}
