package llm

import (
	"context"
	"testing"

	"github.com/agenthands/biokag/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientProviders(t *testing.T) {
	ctx := context.Background()

	c, err := NewClient(ctx, config.LLMConfig{Provider: "OpenAI", Model: "gpt-4o-mini", APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &OpenAIClient{}, c)

	c, err = NewClient(ctx, config.LLMConfig{Provider: "claude", Model: "claude-3-haiku", APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &ClaudeClient{}, c)

	c, err = NewClient(ctx, config.LLMConfig{Provider: "ollama", Model: "llama3", BaseURL: "http://ollama:11434/"})
	require.NoError(t, err)
	assert.IsType(t, &OpenAIClient{}, c)

	_, err = NewClient(ctx, config.LLMConfig{Provider: "palm"})
	assert.EqualError(t, err, "unsupported llm provider: palm")
}

func TestOllamaBaseURL(t *testing.T) {
	assert.Equal(t, "http://localhost:11434/v1", ollamaBaseURL(""))
	assert.Equal(t, "http://ollama:11434/v1", ollamaBaseURL("http://ollama:11434/"))
	assert.Equal(t, "http://ollama:11434/v1", ollamaBaseURL("http://ollama:11434/v1"))
}

func TestClaudeDefaultMaxTokens(t *testing.T) {
	c := NewClaudeClient("k", "m", "", 0)
	assert.Equal(t, defaultClaudeMaxTokens, c.maxTokens)
}
