package ai

import (
	"context"
	"fmt"
	"strings"

	"mincc/internal"
	"mincc/internal/logger"
)

type modelList struct {
	Data []struct {
		ID            string `json:"id"`
		ContextLength int    `json:"context_length"`
	} `json:"data"`
}

// ModelContextLength looks model up in the endpoint's /models listing and
// returns its context window in tokens.
func ModelContextLength(ctx context.Context, baseURL, apiKey, model string) (int, error) {
	if baseURL == "" {
		baseURL = internal.DEFAULT_BASE_URL
	}
	url := strings.TrimRight(baseURL, "/") + "/models"

	var list modelList
	if err := fetchJSON(ctx, CreateHTTPClient(0), url, apiKey, &list); err != nil {
		return 0, fmt.Errorf("failed to list models: %w", err)
	}

	for _, m := range list.Data {
		if m.ID == model {
			return m.ContextLength, nil
		}
	}
	return 0, fmt.Errorf("model '%s' not found", model)
}

// TokenLimit is the compaction budget for a context window: a fixed share
// of it, or the fallback when the window is unknown.
func TokenLimit(contextLength int) int {
	if contextLength <= 0 {
		return internal.TOKEN_LIMIT_FALLBACK
	}
	return int(float64(contextLength) * internal.TOKEN_LIMIT_PERCENTAGE)
}

// ResolveTokenLimit queries the context window and derives the budget,
// logging and falling back when the lookup fails.
func ResolveTokenLimit(ctx context.Context, baseURL, apiKey, model string) (limit, contextLength int) {
	contextLength, err := ModelContextLength(ctx, baseURL, apiKey, model)
	if err != nil {
		logger.Warnf("Could not determine context length for %s: %v", model, err)
		return internal.TOKEN_LIMIT_FALLBACK, 0
	}
	return TokenLimit(contextLength), contextLength
}
