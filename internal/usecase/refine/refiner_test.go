package refine

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type mockChat struct {
	reply  string
	err    error
	system string
	prompt string
}

func (m *mockChat) Complete(_ context.Context, system, prompt string) (string, error) {
	m.system = system
	m.prompt = prompt
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

func TestRefine(t *testing.T) {
	chat := &mockChat{reply: "Revenue was $1.2M, up 12% year over year."}
	r := New(chat)

	got, err := r.Refine(context.Background(), "what was revenue?", "revenue 1.2M up 12%")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != chat.reply {
		t.Errorf("expected model reply, got %q", got)
	}
	if !strings.Contains(chat.prompt, "what was revenue?") {
		t.Error("expected question substituted into prompt")
	}
	if !strings.Contains(chat.prompt, "revenue 1.2M up 12%") {
		t.Error("expected raw answer substituted as context")
	}
	if strings.Contains(chat.prompt, "{context}") || strings.Contains(chat.prompt, "{question}") {
		t.Errorf("expected all placeholders filled, got %q", chat.prompt)
	}
}

func TestRefine_ChatError(t *testing.T) {
	chatErr := errors.New("rate limited")
	r := New(&mockChat{err: chatErr})

	_, err := r.Refine(context.Background(), "q", "a")
	if !errors.Is(err, chatErr) {
		t.Errorf("expected chat error wrapped, got %v", err)
	}
}

func TestRefine_EmptyReply(t *testing.T) {
	r := New(&mockChat{reply: "   \n"})

	_, err := r.Refine(context.Background(), "q", "a")
	if err == nil {
		t.Fatal("expected error for blank refinement")
	}
}
