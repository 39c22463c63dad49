package docqa

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/finsight-cloud/docqa/internal/domain"
	"github.com/finsight-cloud/docqa/internal/repository/docstore"
	"github.com/finsight-cloud/docqa/internal/repository/filestore"
	"github.com/finsight-cloud/docqa/internal/repository/indexstore"
	chiTransport "github.com/finsight-cloud/docqa/internal/transport/chi"
	documentuc "github.com/finsight-cloud/docqa/internal/usecase/document"
	healthuc "github.com/finsight-cloud/docqa/internal/usecase/health"
	ingestuc "github.com/finsight-cloud/docqa/internal/usecase/ingest"
	queryuc "github.com/finsight-cloud/docqa/internal/usecase/query"
)

type fixedIndex struct {
	answer  string
	sources []string
}

func (f *fixedIndex) Query(_ context.Context, _ string) (domain.IndexAnswer, error) {
	return domain.IndexAnswer{Text: f.answer, Sources: f.sources}, nil
}

type fixedBuilder struct {
	idx   domain.QueryIndex
	count int
}

func (f *fixedBuilder) Build(_ context.Context, _ string) (domain.QueryIndex, int, error) {
	return f.idx, f.count, nil
}

type inlineRunner struct{}

func (inlineRunner) Submit(task func()) bool {
	task()
	return true
}

// newTestServer wires the real HTTP surface over a fake index builder.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := zap.NewNop()
	docs := docstore.New()
	indexes := indexstore.New()
	files, err := filestore.New(t.TempDir())
	if err != nil {
		t.Fatalf("filestore.New: %v", err)
	}

	builder := &fixedBuilder{idx: &fixedIndex{answer: "the answer", sources: []string{"excerpt"}}, count: 3}
	ingestSvc := ingestuc.New(docs, indexes, files, builder, inlineRunner{}, ".pdf", logger)
	querySvc := queryuc.New(docs, indexes, nil, 2, 100, 0.85, logger)
	docSvc := documentuc.New(docs, indexes, files, logger)
	healthSvc := healthuc.New(nil)

	server := chiTransport.NewServer(ingestSvc, querySvc, docSvc, healthSvc, 1024*1024, logger)
	r := chi.NewRouter()
	server.Routes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_UploadQueryDelete(t *testing.T) {
	srv := newTestServer(t)
	client := New(srv.URL)
	ctx := context.Background()

	up, err := client.Upload(ctx, "report.pdf", strings.NewReader("%PDF"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if up.Status != StatusProcessing {
		t.Errorf("expected processing on upload, got %q", up.Status)
	}

	doc, err := client.Document(ctx, up.DocumentID)
	if err != nil {
		t.Fatalf("get document: %v", err)
	}
	if doc.Status != StatusReady {
		t.Errorf("expected ready, got %q", doc.Status)
	}
	if doc.Count == nil || *doc.Count != 3 {
		t.Errorf("expected count 3, got %v", doc.Count)
	}

	ans, err := client.Query(ctx, "what is it?", up.DocumentID)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if ans.Answer != "the answer" {
		t.Errorf("expected answer, got %q", ans.Answer)
	}
	if ans.Confidence != 0.85 {
		t.Errorf("expected confidence 0.85, got %v", ans.Confidence)
	}

	list, err := client.Documents(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 document, got %d", len(list))
	}

	if err := client.Delete(ctx, up.DocumentID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := client.Document(ctx, up.DocumentID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestClient_QueryLatest(t *testing.T) {
	srv := newTestServer(t)
	client := New(srv.URL)
	ctx := context.Background()

	if _, err := client.Upload(ctx, "first.pdf", strings.NewReader("x")); err != nil {
		t.Fatalf("upload: %v", err)
	}
	if _, err := client.Upload(ctx, "second.pdf", strings.NewReader("x")); err != nil {
		t.Fatalf("upload: %v", err)
	}

	ans, err := client.Query(ctx, "q", "")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if ans.DocumentContext != "second.pdf" {
		t.Errorf("expected latest document targeted, got %q", ans.DocumentContext)
	}
}

func TestClient_ErrorMapping(t *testing.T) {
	srv := newTestServer(t)
	client := New(srv.URL)
	ctx := context.Background()

	if _, err := client.Query(ctx, "q", ""); !errors.Is(err, ErrNoDocuments) {
		t.Errorf("expected ErrNoDocuments, got %v", err)
	}
	if _, err := client.Upload(ctx, "notes.txt", strings.NewReader("x")); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("expected ErrInvalidFormat, got %v", err)
	}
	if _, err := client.Document(ctx, "nonexistent"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	var apiErr *APIError
	_, err := client.Document(ctx, "nonexistent")
	if !errors.As(err, &apiErr) {
		t.Fatal("expected *APIError")
	}
	if apiErr.StatusCode != 404 || apiErr.Code != "document_not_found" {
		t.Errorf("unexpected api error: %+v", apiErr)
	}
}

func TestClient_Health(t *testing.T) {
	srv := newTestServer(t)
	client := New(srv.URL)

	h, err := client.Health(context.Background())
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	if h.Status != "degraded" {
		t.Errorf("expected degraded without provider, got %q", h.Status)
	}
	if h.Checks["llm_provider"] != "error" {
		t.Errorf("expected provider check error, got %v", h.Checks)
	}
}
