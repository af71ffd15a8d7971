package ai

import (
	"context"
	"encoding/json"
	"strings"
	"unicode/utf8"

	"mincc/internal"
	"mincc/internal/logger"
)

// CompactionStrategy selects how an over-budget history is shrunk.
type CompactionStrategy string

const (
	StrategyTruncate  CompactionStrategy = "truncate"
	StrategySummarize CompactionStrategy = "summarize"
)

// ParseStrategy maps a user-supplied name to a strategy. Anything other than
// "summarize" selects truncate.
func ParseStrategy(name string) CompactionStrategy {
	if strings.EqualFold(strings.TrimSpace(name), string(StrategySummarize)) {
		return StrategySummarize
	}
	return StrategyTruncate
}

// CompactionService keeps the transcript within TokenLimit estimated tokens.
type CompactionService struct {
	TokenLimit int
	Strategy   CompactionStrategy
	// KeepCount is the number of recent non-system messages truncate keeps.
	KeepCount int
	// PreserveCount is the number of recent non-system messages summarize
	// leaves intact.
	PreserveCount int
}

type CompactionOption func(*CompactionService)

func WithKeepCount(n int) CompactionOption {
	return func(s *CompactionService) { s.KeepCount = n }
}

func WithPreserveCount(n int) CompactionOption {
	return func(s *CompactionService) { s.PreserveCount = n }
}

func NewCompactionService(tokenLimit int, strategy CompactionStrategy, opts ...CompactionOption) *CompactionService {
	s := &CompactionService{
		TokenLimit:    tokenLimit,
		Strategy:      strategy,
		KeepCount:     internal.TRUNCATE_KEEP_COUNT,
		PreserveCount: internal.SUMMARIZE_PRESERVE_COUNT,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EstimateSize approximates the token cost of messages as the characters of
// each content plus its JSON encoded tool call list, divided by four.
func EstimateSize(messages []Message) float64 {
	total := 0
	for _, m := range messages {
		total += utf8.RuneCountInString(m.Content)
		total += toolCallsSize(m.ToolCalls)
	}
	return float64(total) / internal.CHARS_PER_TOKEN
}

func toolCallsSize(calls []ToolCall) int {
	if len(calls) == 0 {
		return len("[]")
	}
	data, err := json.Marshal(calls)
	if err != nil {
		return 0
	}
	return utf8.RuneCount(data)
}

// Compact returns messages unchanged while they fit the budget, otherwise a
// shorter history built by the configured strategy. It never fails: when
// summarizing is impossible it truncates instead.
func (s *CompactionService) Compact(ctx context.Context, messages []Message, client ChatCompleter, model string) []Message {
	size := EstimateSize(messages)
	if size <= float64(s.TokenLimit) {
		return messages
	}

	logger.AgentDebugf("Compacting history using %s... estimated %.0f tokens", s.Strategy, size)

	if s.Strategy == StrategySummarize {
		return s.summarize(ctx, messages, client, model)
	}
	return s.truncate(messages)
}

func splitSystem(messages []Message) (system, others []Message) {
	for _, m := range messages {
		if m.Role == RoleSystem {
			system = append(system, m)
		} else {
			others = append(others, m)
		}
	}
	return system, others
}

func lastN(messages []Message, n int) []Message {
	if n <= 0 {
		return nil
	}
	if n >= len(messages) {
		return messages
	}
	return messages[len(messages)-n:]
}

// withoutOrphanResults drops tool results at the head of a kept tail whose
// assistant tool-call message was cut off. The endpoint rejects a tool
// message that does not follow the call that issued it.
func withoutOrphanResults(tail []Message) []Message {
	for len(tail) > 0 && tail[0].Role == RoleTool {
		tail = tail[1:]
	}
	return tail
}

func (s *CompactionService) truncate(messages []Message) []Message {
	system, others := splitSystem(messages)
	kept := withoutOrphanResults(lastN(others, s.KeepCount))

	result := make([]Message, 0, len(system)+len(kept))
	result = append(result, system...)
	return append(result, kept...)
}

func (s *CompactionService) summarize(ctx context.Context, messages []Message, client ChatCompleter, model string) []Message {
	if client == nil || model == "" {
		logger.Warnf("Summarization unavailable without a model client. Falling back to truncation.")
		return s.truncate(messages)
	}

	system, others := splitSystem(messages)
	preserved := withoutOrphanResults(lastN(others, s.PreserveCount))
	old := others[:len(others)-len(preserved)]
	if len(old) == 0 {
		return messages
	}

	summary, err := GenerateSummary(ctx, client, model, old)
	if err != nil {
		logger.Warnf("Summarization failed: %v. Falling back to truncation.", err)
		return s.truncate(messages)
	}

	result := make([]Message, 0, len(system)+1+len(preserved))
	result = append(result, system...)
	result = append(result, Message{Role: RoleAssistant, Content: SummaryPrefix + summary})
	return append(result, preserved...)
}
