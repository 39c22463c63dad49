package pdfindex

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/finsight-cloud/docqa/internal/domain"
)

type mockEmbedder struct {
	vectors map[string][]float32
	err     error
}

func (m *mockEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vectors[text]}, nil
}

type mockChat struct {
	reply  string
	err    error
	prompt string
}

func (m *mockChat) Complete(_ context.Context, _, prompt string) (string, error) {
	m.prompt = prompt
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

func testIndex(embedder domain.Embedder, chat domain.ChatClient, topK int, entries []entry) *Index {
	return &Index{entries: entries, embedder: embedder, chat: chat, topK: topK}
}

// --- Query tests ---

func TestQuery(t *testing.T) {
	embedder := &mockEmbedder{vectors: map[string][]float32{
		"what about revenue?": {1, 0},
	}}
	chat := &mockChat{reply: "revenue grew 12%"}
	idx := testIndex(embedder, chat, 2, []entry{
		{text: "costs fell.", vector: []float32{0, 1}},
		{text: "revenue grew.", vector: []float32{1, 0}},
		{text: "mixed quarter.", vector: []float32{0.7, 0.7}},
	})

	ans, err := idx.Query(context.Background(), "what about revenue?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ans.Text != "revenue grew 12%" {
		t.Errorf("expected model reply, got %q", ans.Text)
	}
	if len(ans.Sources) != 2 {
		t.Fatalf("expected topK sources, got %d", len(ans.Sources))
	}
	if ans.Sources[0] != "revenue grew." {
		t.Errorf("expected best match first, got %q", ans.Sources[0])
	}
	if !strings.Contains(chat.prompt, "[1] revenue grew.") {
		t.Errorf("expected numbered excerpts in prompt, got %q", chat.prompt)
	}
	if !strings.Contains(chat.prompt, "what about revenue?") {
		t.Error("expected question in prompt")
	}
}

func TestQuery_EmbedError(t *testing.T) {
	embedErr := errors.New("provider down")
	idx := testIndex(&mockEmbedder{err: embedErr}, &mockChat{}, 2, []entry{{text: "a", vector: []float32{1}}})

	if _, err := idx.Query(context.Background(), "q"); !errors.Is(err, embedErr) {
		t.Errorf("expected embed error wrapped, got %v", err)
	}
}

func TestQuery_ChatError(t *testing.T) {
	chatErr := errors.New("rate limited")
	embedder := &mockEmbedder{vectors: map[string][]float32{"q": {1}}}
	idx := testIndex(embedder, &mockChat{err: chatErr}, 2, []entry{{text: "a", vector: []float32{1}}})

	if _, err := idx.Query(context.Background(), "q"); !errors.Is(err, chatErr) {
		t.Errorf("expected chat error wrapped, got %v", err)
	}
}

func TestQuery_EmptyIndex(t *testing.T) {
	embedder := &mockEmbedder{vectors: map[string][]float32{"q": {1}}}
	idx := testIndex(embedder, &mockChat{}, 2, nil)

	if _, err := idx.Query(context.Background(), "q"); err == nil {
		t.Fatal("expected error for empty index")
	}
}

// --- Retrieval tests ---

func TestTopMatches_Order(t *testing.T) {
	idx := testIndex(nil, nil, 3, []entry{
		{text: "far", vector: []float32{0, 1}},
		{text: "near", vector: []float32{1, 0}},
		{text: "mid", vector: []float32{1, 1}},
	})

	top := idx.topMatches([]float32{1, 0}, 3)
	want := []string{"near", "mid", "far"}
	for i, w := range want {
		if top[i].text != w {
			t.Errorf("position %d: expected %q, got %q", i, w, top[i].text)
		}
	}
}

func TestTopMatches_KLargerThanEntries(t *testing.T) {
	idx := testIndex(nil, nil, 10, []entry{
		{text: "only", vector: []float32{1}},
	})

	top := idx.topMatches([]float32{1}, 10)
	if len(top) != 1 {
		t.Errorf("expected 1 match, got %d", len(top))
	}
}

// --- Cosine tests ---

func TestCosine(t *testing.T) {
	cases := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2}, []float32{1, 2}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, 0},
		{"dim mismatch", []float32{1}, []float32{1, 0}, 0},
		{"empty", nil, nil, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := cosine(tc.a, tc.b)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("cosine(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}
