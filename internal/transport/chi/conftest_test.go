package chi

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/finsight-cloud/docqa/internal/domain"
	"github.com/finsight-cloud/docqa/internal/repository/docstore"
	"github.com/finsight-cloud/docqa/internal/repository/filestore"
	"github.com/finsight-cloud/docqa/internal/repository/indexstore"
	documentuc "github.com/finsight-cloud/docqa/internal/usecase/document"
	healthuc "github.com/finsight-cloud/docqa/internal/usecase/health"
	ingestuc "github.com/finsight-cloud/docqa/internal/usecase/ingest"
	queryuc "github.com/finsight-cloud/docqa/internal/usecase/query"
)

// indexFunc adapts a function to domain.QueryIndex.
type indexFunc func(ctx context.Context, question string) (domain.IndexAnswer, error)

func (f indexFunc) Query(ctx context.Context, question string) (domain.IndexAnswer, error) {
	return f(ctx, question)
}

type fakeBuilder struct {
	idx   domain.QueryIndex
	count int
	err   error
}

func (f *fakeBuilder) Build(_ context.Context, _ string) (domain.QueryIndex, int, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	return f.idx, f.count, nil
}

// syncRunner materializes inline so handlers observe the final state.
type syncRunner struct{}

func (syncRunner) Submit(task func()) bool {
	task()
	return true
}

// idleRunner accepts tasks without running them, keeping documents in
// processing for as long as the test needs.
type idleRunner struct{}

func (idleRunner) Submit(_ func()) bool { return true }

type harness struct {
	router  chi.Router
	docs    *docstore.Store
	indexes *indexstore.Store
}

func newHarness(t *testing.T, builder ingestuc.IndexBuilder, runner ingestuc.TaskRunner) *harness {
	t.Helper()

	logger := zap.NewNop()
	docs := docstore.New()
	indexes := indexstore.New()
	files, err := filestore.New(t.TempDir())
	if err != nil {
		t.Fatalf("filestore.New: %v", err)
	}

	ingestSvc := ingestuc.New(docs, indexes, files, builder, runner, ".pdf", logger)
	querySvc := queryuc.New(docs, indexes, nil, 2, 100, 0.85, logger)
	docSvc := documentuc.New(docs, indexes, files, logger)
	healthSvc := healthuc.New(nil)

	server := NewServer(ingestSvc, querySvc, docSvc, healthSvc, 1024*1024, logger)

	r := chi.NewRouter()
	server.Routes(r)

	return &harness{router: r, docs: docs, indexes: indexes}
}

func (h *harness) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.router.ServeHTTP(rr, req)
	return rr
}

// uploadRequest builds a multipart POST /upload with a single file field.
func uploadRequest(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}
