package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// SummaryPrefix marks the synthetic message that replaces summarized history.
const SummaryPrefix = "[CONVERSATION SUMMARY]: "

const summaryInstruction = "Summarize the following conversation history concisely while preserving key details, decisions, and outcomes."

// renderHistory writes one "role: content" line per message.
func renderHistory(messages []Message) string {
	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		content := m.Content
		if content == "" {
			content = "Tool calls..."
		}
		lines = append(lines, fmt.Sprintf("%s: %s", m.Role, content))
	}
	return strings.Join(lines, "\n")
}

// GenerateSummary asks the model for a concise summary of messages.
func GenerateSummary(ctx context.Context, client ChatCompleter, model string, messages []Message) (string, error) {
	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: summaryInstruction,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: renderHistory(messages),
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("summary request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	return resp.Choices[0].Message.Content, nil
}
