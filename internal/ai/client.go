package ai

import (
	"context"
	"errors"

	"github.com/sashabaranov/go-openai"
	"mincc/internal/logger"
)

var (
	ErrMissingAPIKey      = errors.New("OPENROUTER_API_KEY not found in environment or .env file")
	ErrEmptyResponse      = errors.New("model returned no choices")
	ErrMalformedArguments = errors.New("malformed tool call arguments")
	ErrMaxIterations      = errors.New("reached maximum tool call iterations")
)

// ChatCompleter is the part of the go-openai client the agent and the
// compaction service depend on. *openai.Client satisfies it.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// NewClient creates an OpenAI-compatible client pointed at baseURL.
func NewClient(apiKey, baseURL string) (*openai.Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	logger.Successf("Model client initialized for %s", cfg.BaseURL)
	return openai.NewClientWithConfig(cfg), nil
}

// createContext bounds a single model call.
func (a *Agent) createContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, a.config.APITimeout)
}
