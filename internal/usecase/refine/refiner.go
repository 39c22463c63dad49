// Package refine re-phrases raw retrieval answers through a templated
// prompt against the chat model.
package refine

import (
	"context"
	"fmt"
	"strings"

	"github.com/finsight-cloud/docqa/internal/domain"
)

const systemPrompt = "You are a financial document analysis assistant. " +
	"You provide accurate, specific answers based on document content."

const promptTemplate = `Context from the document analysis:
{context}

User Question: {question}

Instructions:
1. Analyze the provided context carefully
2. Provide specific, accurate answers based on the data
3. If exact figures are mentioned, include them in your response
4. If the information is not available in the context, clearly state that
5. Format numerical values clearly (e.g., currency, percentages)

Answer:`

// Refiner improves answer phrasing via a second prompt round-trip.
type Refiner struct {
	chat domain.ChatClient
}

// New creates a refiner over the given chat client.
func New(chat domain.ChatClient) *Refiner {
	return &Refiner{chat: chat}
}

// Refine fills the prompt template with the raw answer as context and
// asks the model for an improved phrasing.
func (r *Refiner) Refine(ctx context.Context, question, answer string) (string, error) {
	prompt := strings.NewReplacer(
		"{context}", answer,
		"{question}", question,
	).Replace(promptTemplate)

	refined, err := r.chat.Complete(ctx, systemPrompt, prompt)
	if err != nil {
		return "", fmt.Errorf("refine answer: %w", err)
	}
	if strings.TrimSpace(refined) == "" {
		return "", fmt.Errorf("refinement produced empty answer")
	}
	return refined, nil
}
