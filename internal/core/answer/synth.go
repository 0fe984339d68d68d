package answer

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/agenthands/biokag/internal/llm"
)

// Synthesizer produces answer text from a question and its retrieved context.
type Synthesizer interface {
	Synthesize(ctx context.Context, question, context string) (string, error)
}

const (
	StubPrefix       = "(Stub answer - configure an LLM synthesizer for real answers)\n"
	stubContextLimit = 500
)

// StubSynthesizer echoes the question and the head of the context. It needs
// no external service.
type StubSynthesizer struct{}

func (StubSynthesizer) Synthesize(_ context.Context, question, kgContext string) (string, error) {
	if utf8.RuneCountInString(kgContext) > stubContextLimit {
		kgContext = string([]rune(kgContext)[:stubContextLimit])
	}
	return strings.Join([]string{
		StubPrefix,
		"Question: " + question,
		fmt.Sprintf("Relevant context (truncated to %d chars):", stubContextLimit),
		kgContext,
	}, "\n"), nil
}

const DefaultPrompt = `You are a biomedical research assistant. Answer the question using only the knowledge graph facts below. If the facts are insufficient, say so.

Knowledge graph facts:
{{context}}

Question: {{question}}

Answer:`

// LLMSynthesizer fills Prompt and sends it to an LLM client.
type LLMSynthesizer struct {
	Client llm.LLMClient
	Prompt string
}

func NewLLMSynthesizer(client llm.LLMClient, prompt string) *LLMSynthesizer {
	if prompt == "" {
		prompt = DefaultPrompt
	}
	return &LLMSynthesizer{Client: client, Prompt: prompt}
}

func (s *LLMSynthesizer) Synthesize(ctx context.Context, question, kgContext string) (string, error) {
	prompt := strings.NewReplacer("{{context}}", kgContext, "{{question}}", question).Replace(s.Prompt)
	out, err := s.Client.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to generate answer: %w", err)
	}
	return out, nil
}
