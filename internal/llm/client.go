package llm

import (
	"context"
)

// LLMClient is a text-in, text-out language model.
type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
