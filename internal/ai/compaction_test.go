package ai

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"
)

// fakeCompleter replays canned responses and records every request.
type fakeCompleter struct {
	responses []openai.ChatCompletionResponse
	errs      []error
	requests  []openai.ChatCompletionRequest
}

func (f *fakeCompleter) CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.requests = append(f.requests, request)
	i := len(f.requests) - 1
	if i < len(f.errs) && f.errs[i] != nil {
		return openai.ChatCompletionResponse{}, f.errs[i]
	}
	if i >= len(f.responses) {
		return openai.ChatCompletionResponse{}, fmt.Errorf("unexpected call %d", i+1)
	}
	return f.responses[i], nil
}

func textResponse(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{
			Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content},
		}},
	}
}

func conversation(exchanges int) []Message {
	msgs := []Message{{Role: RoleSystem, Content: "System prompt"}}
	for i := 1; i <= exchanges; i++ {
		msgs = append(msgs,
			Message{Role: RoleUser, Content: fmt.Sprintf("Request %d", i)},
			Message{Role: RoleAssistant, Content: fmt.Sprintf("Response %d", i)},
		)
	}
	return msgs
}

func TestEstimateSize(t *testing.T) {
	tests := []struct {
		name     string
		messages []Message
		want     float64
	}{
		{"empty", nil, 0},
		{"text only", []Message{{Role: RoleUser, Content: "abcd"}}, 1.5},
		{"multibyte counts characters", []Message{{Role: RoleUser, Content: "héé"}}, 1.25},
		{
			"tool calls serialized",
			[]Message{{Role: RoleAssistant, ToolCalls: []ToolCall{{ID: "1", Name: "x", Arguments: "{}"}}}},
			10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateSize(tt.messages); got != tt.want {
				t.Fatalf("EstimateSize = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseStrategy(t *testing.T) {
	tests := map[string]CompactionStrategy{
		"summarize":   StrategySummarize,
		" SUMMARIZE ": StrategySummarize,
		"truncate":    StrategyTruncate,
		"":            StrategyTruncate,
		"bogus":       StrategyTruncate,
	}
	for in, want := range tests {
		if got := ParseStrategy(in); got != want {
			t.Fatalf("ParseStrategy(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestCompactUnderBudgetIsIdentity(t *testing.T) {
	client := &fakeCompleter{}
	for _, strategy := range []CompactionStrategy{StrategyTruncate, StrategySummarize} {
		service := NewCompactionService(1_000_000, strategy)
		msgs := conversation(4)

		got := service.Compact(context.Background(), msgs, client, "m")
		if len(got) != len(msgs) || &got[0] != &msgs[0] {
			t.Fatalf("%s: history changed under budget", strategy)
		}
		again := service.Compact(context.Background(), got, client, "m")
		if !reflect.DeepEqual(again, msgs) {
			t.Fatalf("%s: second compaction changed history", strategy)
		}
	}
	if len(client.requests) != 0 {
		t.Fatalf("model called %d times under budget", len(client.requests))
	}

	empty := NewCompactionService(0, StrategyTruncate).Compact(context.Background(), nil, nil, "")
	if len(empty) != 0 {
		t.Fatalf("empty history compacted to %v", empty)
	}
}

func TestTruncate(t *testing.T) {
	long := Message{Role: RoleUser, Content: strings.Repeat("A very long message ", 20)}

	t.Run("short history kept whole", func(t *testing.T) {
		msgs := append([]Message{conversation(0)[0], long}, conversation(2)[1:]...)
		got := NewCompactionService(10, StrategyTruncate).Compact(context.Background(), msgs, nil, "")
		if !reflect.DeepEqual(got, msgs) {
			t.Fatalf("got %v", got)
		}
	})

	t.Run("keeps system and last ten", func(t *testing.T) {
		msgs := conversation(8)
		got := NewCompactionService(0, StrategyTruncate).Compact(context.Background(), msgs, nil, "")
		if len(got) != 11 {
			t.Fatalf("len = %d, want 11", len(got))
		}
		if !reflect.DeepEqual(got[0], msgs[0]) {
			t.Fatalf("first = %+v", got[0])
		}
		if !reflect.DeepEqual(got[1:], msgs[len(msgs)-10:]) {
			t.Fatalf("tail = %v", got[1:])
		}
	})

	t.Run("all system messages first in order", func(t *testing.T) {
		msgs := []Message{
			{Role: RoleSystem, Content: "s1"},
			{Role: RoleUser, Content: "u1"},
			{Role: RoleSystem, Content: "s2"},
			{Role: RoleUser, Content: "u2"},
			{Role: RoleAssistant, Content: "a2"},
		}
		got := NewCompactionService(-1, StrategyTruncate, WithKeepCount(2)).Compact(context.Background(), msgs, nil, "")
		want := []Message{msgs[0], msgs[2], msgs[3], msgs[4]}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("got %v, want %v", got, want)
		}
	})

	t.Run("keep count zero leaves only system", func(t *testing.T) {
		got := NewCompactionService(0, StrategyTruncate, WithKeepCount(0)).Compact(context.Background(), conversation(3), nil, "")
		if len(got) != 1 || got[0].Role != RoleSystem {
			t.Fatalf("got %v", got)
		}
	})
}

func TestSummarize(t *testing.T) {
	msgs := []Message{
		{Role: RoleSystem, Content: "System"},
		{Role: RoleUser, Content: "Message 1"},
		{Role: RoleAssistant, Content: "Message 2"},
		{Role: RoleUser, Content: "Message 3"},
		{Role: RoleAssistant, Content: "Message 4"},
	}
	client := &fakeCompleter{responses: []openai.ChatCompletionResponse{textResponse("Summary of progress")}}

	got := NewCompactionService(5, StrategySummarize).Compact(context.Background(), msgs, client, "test-model")

	want := []Message{
		msgs[0],
		{Role: RoleAssistant, Content: "[CONVERSATION SUMMARY]: Summary of progress"},
		msgs[2], msgs[3], msgs[4],
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	if len(client.requests) != 1 {
		t.Fatalf("requests = %d", len(client.requests))
	}
	req := client.requests[0]
	if req.Model != "test-model" || len(req.Tools) != 0 {
		t.Fatalf("request = %+v", req)
	}
	if req.Messages[0].Role != openai.ChatMessageRoleSystem || req.Messages[0].Content != summaryInstruction {
		t.Fatalf("instruction = %+v", req.Messages[0])
	}
	if req.Messages[1].Content != "user: Message 1" {
		t.Fatalf("history = %q", req.Messages[1].Content)
	}
}

func TestSummarizeRendersToolCallPlaceholder(t *testing.T) {
	msgs := []Message{
		{Role: RoleSystem, Content: "System"},
		{Role: RoleUser, Content: "list files"},
		{Role: RoleAssistant, ToolCalls: []ToolCall{{ID: "c1", Name: "bash", Arguments: `{"command":"ls"}`}}},
		{Role: RoleTool, Content: "a.go", ToolCallID: "c1"},
		{Role: RoleAssistant, Content: "one file"},
	}
	client := &fakeCompleter{responses: []openai.ChatCompletionResponse{textResponse("s")}}

	NewCompactionService(0, StrategySummarize, WithPreserveCount(1)).Compact(context.Background(), msgs, client, "m")

	want := "user: list files\nassistant: Tool calls...\ntool: a.go"
	if got := client.requests[0].Messages[1].Content; got != want {
		t.Fatalf("history = %q, want %q", got, want)
	}
}

func TestSummarizeFallsBackToTruncate(t *testing.T) {
	msgs := conversation(8)
	truncated := NewCompactionService(0, StrategyTruncate).Compact(context.Background(), msgs, nil, "")

	empty := openai.ChatCompletionResponse{}
	tests := []struct {
		name      string
		client    ChatCompleter
		model     string
		wantCalls int
	}{
		{"no client", nil, "m", 0},
		{"no model", &fakeCompleter{}, "", 0},
		{"request error", &fakeCompleter{errs: []error{errors.New("boom")}}, "m", 1},
		{"empty choices", &fakeCompleter{responses: []openai.ChatCompletionResponse{empty}}, "m", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewCompactionService(0, StrategySummarize).Compact(context.Background(), msgs, tt.client, tt.model)
			if !reflect.DeepEqual(got, truncated) {
				t.Fatalf("got %v, want truncation %v", got, truncated)
			}
			if fc, ok := tt.client.(*fakeCompleter); ok && len(fc.requests) != tt.wantCalls {
				t.Fatalf("calls = %d, want %d", len(fc.requests), tt.wantCalls)
			}
		})
	}
}

func TestSummarizeWithNothingOld(t *testing.T) {
	msgs := conversation(1)
	client := &fakeCompleter{}

	got := NewCompactionService(0, StrategySummarize).Compact(context.Background(), msgs, client, "m")
	if !reflect.DeepEqual(got, msgs) {
		t.Fatalf("got %v", got)
	}
	if len(client.requests) != 0 {
		t.Fatalf("model called with empty history")
	}
}

// toolBatches builds a user request followed by batches of one assistant
// message issuing callsPerBatch tool calls and their results.
func toolBatches(batches, callsPerBatch int) []Message {
	msgs := []Message{{Role: RoleSystem, Content: "System"}, {Role: RoleUser, Content: "do work"}}
	for b := 0; b < batches; b++ {
		var calls []ToolCall
		for c := 0; c < callsPerBatch; c++ {
			calls = append(calls, ToolCall{ID: fmt.Sprintf("b%dc%d", b, c), Name: "bash", Arguments: `{"command":"ls"}`})
		}
		msgs = append(msgs, Message{Role: RoleAssistant, ToolCalls: calls})
		for _, call := range calls {
			msgs = append(msgs, Message{Role: RoleTool, Content: "out " + call.ID, ToolCallID: call.ID})
		}
	}
	return msgs
}

// checkToolPairing fails when a tool message does not answer a call issued
// by an earlier assistant message.
func checkToolPairing(t *testing.T, msgs []Message) {
	t.Helper()
	issued := map[string]bool{}
	for i, m := range msgs {
		for _, call := range m.ToolCalls {
			issued[call.ID] = true
		}
		if m.Role == RoleTool && !issued[m.ToolCallID] {
			t.Fatalf("message %d answers %q, which no kept assistant message issued", i, m.ToolCallID)
		}
	}
}

func TestTruncateKeepsToolResultsWithTheirCall(t *testing.T) {
	msgs := toolBatches(4, 2)

	got := NewCompactionService(0, StrategyTruncate).Compact(context.Background(), msgs, nil, "")

	checkToolPairing(t, got)
	if got[1].Role != RoleAssistant || got[1].ToolCalls[0].ID != "b1c0" {
		t.Fatalf("first kept = %+v, want the assistant issuing b1c0", got[1])
	}
	if len(got) != 10 {
		t.Fatalf("len = %d, want system plus 9", len(got))
	}
	if !reflect.DeepEqual(got[1:], msgs[len(msgs)-9:]) {
		t.Fatalf("tail = %v", got[1:])
	}
}

func TestSummarizeKeepsToolResultsWithTheirCall(t *testing.T) {
	msgs := toolBatches(3, 1)
	client := &fakeCompleter{responses: []openai.ChatCompletionResponse{textResponse("s")}}

	got := NewCompactionService(0, StrategySummarize).Compact(context.Background(), msgs, client, "m")

	checkToolPairing(t, got)
	want := []Message{
		msgs[0],
		{Role: RoleAssistant, Content: SummaryPrefix + "s"},
		msgs[len(msgs)-2], msgs[len(msgs)-1],
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	history := client.requests[0].Messages[1].Content
	if !strings.HasSuffix(history, "tool: out b1c0") {
		t.Fatalf("cut-off tool result not summarized: %q", history)
	}
}
