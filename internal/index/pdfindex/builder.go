// Package pdfindex materializes an in-memory vector retrieval index
// over the pages of a PDF document.
package pdfindex

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"

	"github.com/finsight-cloud/docqa/internal/chunker"
	"github.com/finsight-cloud/docqa/internal/domain"
)

// Builder constructs query indexes for PDF uploads.
type Builder struct {
	embedder domain.Embedder
	chat     domain.ChatClient
	chunker  *chunker.SentenceChunker
	topK     int
	logger   *zap.Logger
}

// NewBuilder creates a PDF index builder.
func NewBuilder(
	embedder domain.Embedder,
	chat domain.ChatClient,
	ch *chunker.SentenceChunker,
	topK int,
	logger *zap.Logger,
) *Builder {
	if topK <= 0 {
		topK = 3
	}
	return &Builder{
		embedder: embedder,
		chat:     chat,
		chunker:  ch,
		topK:     topK,
		logger:   logger,
	}
}

// Build extracts page text, chunks it, embeds every chunk and returns
// the resulting index together with the page count.
func (b *Builder) Build(ctx context.Context, path string) (domain.QueryIndex, int, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open pdf: %w", err)
	}
	defer func() { _ = f.Close() }()

	pages := reader.NumPage()
	if pages == 0 {
		return nil, 0, fmt.Errorf("pdf has no pages")
	}

	var texts []string
	for pageNum := 1; pageNum <= pages; pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			b.logger.Warn("failed to extract page text",
				zap.String("path", path),
				zap.Int("page", pageNum),
				zap.Error(err),
			)
			continue
		}
		texts = append(texts, b.chunker.Chunk(text)...)
	}
	if len(texts) == 0 {
		return nil, 0, fmt.Errorf("no extractable text in pdf")
	}

	entries := make([]entry, 0, len(texts))
	for _, text := range texts {
		result, err := b.embedder.Embed(ctx, text)
		if err != nil {
			return nil, 0, fmt.Errorf("embed chunk: %w", err)
		}
		entries = append(entries, entry{text: text, vector: result.Embedding})
	}

	idx := &Index{
		entries:  entries,
		embedder: b.embedder,
		chat:     b.chat,
		topK:     b.topK,
	}
	return idx, pages, nil
}

type entry struct {
	text   string
	vector []float32
}

// Index answers questions via cosine top-k retrieval plus a grounded
// chat completion. Immutable after Build.
type Index struct {
	entries  []entry
	embedder domain.Embedder
	chat     domain.ChatClient
	topK     int
}

const answerSystemPrompt = "You answer questions about an uploaded document. " +
	"Use only the provided excerpts. If the excerpts do not contain the answer, say so."

// Query implements domain.QueryIndex.
func (i *Index) Query(ctx context.Context, question string) (domain.IndexAnswer, error) {
	result, err := i.embedder.Embed(ctx, question)
	if err != nil {
		return domain.IndexAnswer{}, fmt.Errorf("embed question: %w", err)
	}

	top := i.topMatches(result.Embedding, i.topK)
	if len(top) == 0 {
		return domain.IndexAnswer{}, fmt.Errorf("index is empty: %w", domain.ErrIndexMissing)
	}

	var sb strings.Builder
	sb.WriteString("Document excerpts:\n")
	for n, e := range top {
		fmt.Fprintf(&sb, "[%d] %s\n", n+1, e.text)
	}
	fmt.Fprintf(&sb, "\nQuestion: %s\nAnswer:", question)

	text, err := i.chat.Complete(ctx, answerSystemPrompt, sb.String())
	if err != nil {
		return domain.IndexAnswer{}, fmt.Errorf("generate answer: %w", err)
	}

	sources := make([]string, len(top))
	for n, e := range top {
		sources[n] = e.text
	}
	return domain.IndexAnswer{Text: text, Sources: sources}, nil
}

// topMatches returns the k entries most similar to vec, best first.
func (i *Index) topMatches(vec []float32, k int) []entry {
	type scored struct {
		entry entry
		score float64
	}
	all := make([]scored, 0, len(i.entries))
	for _, e := range i.entries {
		all = append(all, scored{entry: e, score: cosine(vec, e.vector)})
	}

	// Selection over a handful of entries; no need for a heap.
	var top []entry
	for n := 0; n < k && len(all) > 0; n++ {
		best := 0
		for j := 1; j < len(all); j++ {
			if all[j].score > all[best].score {
				best = j
			}
		}
		top = append(top, all[best].entry)
		all = append(all[:best], all[best+1:]...)
	}
	return top
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
