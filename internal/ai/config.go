package ai

import (
	"time"

	"mincc/internal"
)

// Config holds the agent settings that stay fixed for one session.
type Config struct {
	Model        string
	SystemPrompt string
	// APITimeout bounds every model call.
	APITimeout time.Duration
	// MaxIterations caps model round-trips per turn; 0 means unlimited.
	MaxIterations int
}

const defaultSystemPrompt = "You are a Min-CC (Mini Claude Code), an extremely minimal but capable coding agent." +
	"Use your tools to help the user with their tasks. "

func DefaultConfig() *Config {
	return &Config{
		Model:         internal.DEFAULT_MODEL,
		SystemPrompt:  defaultSystemPrompt,
		APITimeout:    internal.DEFAULT_API_TIMEOUT * time.Second,
		MaxIterations: 0,
	}
}

// withDefaults fills zero fields so a partially populated Config is usable.
func (c *Config) withDefaults() *Config {
	def := DefaultConfig()
	if c == nil {
		return def
	}
	out := *c
	if out.Model == "" {
		out.Model = def.Model
	}
	if out.SystemPrompt == "" {
		out.SystemPrompt = def.SystemPrompt
	}
	if out.APITimeout <= 0 {
		out.APITimeout = def.APITimeout
	}
	return &out
}
