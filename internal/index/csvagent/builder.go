// Package csvagent materializes a table agent over the rows of a CSV
// upload. Questions are answered by a chat completion grounded on the
// rows most lexically similar to the question.
package csvagent

import (
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/finsight-cloud/docqa/internal/domain"
)

// Builder constructs query indexes for CSV uploads.
type Builder struct {
	chat   domain.ChatClient
	topK   int
	logger *zap.Logger
}

// NewBuilder creates a CSV agent builder. topK bounds the number of
// rows surfaced to the model per question.
func NewBuilder(chat domain.ChatClient, topK int, logger *zap.Logger) *Builder {
	if topK <= 0 {
		topK = 3
	}
	return &Builder{chat: chat, topK: topK, logger: logger}
}

// Build parses the CSV and returns the agent together with the data row count.
func (b *Builder) Build(_ context.Context, path string) (domain.QueryIndex, int, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, 0, fmt.Errorf("open csv: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // ragged rows are the uploader's problem, not ours

	records, err := r.ReadAll()
	if err != nil {
		return nil, 0, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, 0, fmt.Errorf("csv is empty")
	}

	agent := &Agent{
		header: records[0],
		rows:   records[1:],
		chat:   b.chat,
		topK:   b.topK,
	}
	return agent, len(agent.rows), nil
}

// Agent answers questions over parsed CSV records. Immutable after Build.
type Agent struct {
	header []string
	rows   [][]string
	chat   domain.ChatClient
	topK   int
}

const agentSystemPrompt = "You answer questions about tabular data. " +
	"Use only the provided rows. Give exact values from the table when possible."

// Query implements domain.QueryIndex.
func (a *Agent) Query(ctx context.Context, question string) (domain.IndexAnswer, error) {
	rows := a.relevantRows(question)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Columns: %s\n", strings.Join(a.header, ", "))
	fmt.Fprintf(&sb, "Total data rows: %d\n", len(a.rows))
	sb.WriteString("Relevant rows:\n")
	for _, row := range rows {
		fmt.Fprintf(&sb, "- %s\n", strings.Join(row, ", "))
	}
	fmt.Fprintf(&sb, "\nQuestion: %s\nAnswer:", question)

	text, err := a.chat.Complete(ctx, agentSystemPrompt, sb.String())
	if err != nil {
		return domain.IndexAnswer{}, fmt.Errorf("generate answer: %w", err)
	}

	sources := make([]string, len(rows))
	for i, row := range rows {
		sources[i] = strings.Join(row, ", ")
	}
	return domain.IndexAnswer{Text: text, Sources: sources}, nil
}

// relevantRows ranks rows by lexical overlap with the question, best
// first. Falls back to the leading rows when nothing overlaps so the
// model always sees a sample of the table.
func (a *Agent) relevantRows(question string) [][]string {
	qset := tokenSet(question)

	type scored struct {
		idx   int
		score float64
	}
	scores := make([]scored, len(a.rows))
	for i, row := range a.rows {
		scores[i] = scored{i, overlapOchiai(qset, strings.Join(row, " "))}
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })

	k := a.topK
	if k > len(scores) {
		k = len(scores)
	}

	rows := make([][]string, 0, k)
	for i := 0; i < k; i++ {
		rows = append(rows, a.rows[scores[i].idx])
	}
	return rows
}

var wordRe = regexp.MustCompile(`\p{L}[\p{L}\p{N}]*|\p{N}+`)

func tokenSet(s string) map[string]struct{} {
	tokens := wordRe.FindAllString(strings.ToLower(s), -1)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}

// overlapOchiai scores token overlap: |A∩B| / sqrt(|A||B|).
func overlapOchiai(qset map[string]struct{}, text string) float64 {
	toks := wordRe.FindAllString(strings.ToLower(text), -1)
	seen := make(map[string]struct{}, len(toks))
	inter := 0
	for _, t := range toks {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := qset[t]; ok {
			inter++
		}
	}
	if len(qset) == 0 || len(seen) == 0 {
		return 0
	}
	return float64(inter) / (math.Sqrt(float64(len(qset))) * math.Sqrt(float64(len(seen))))
}
