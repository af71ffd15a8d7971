package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sashabaranov/go-openai"
	"mincc/internal"
	"mincc/internal/ai/tools"
	"mincc/internal/logger"
)

// ToolEvent is reported to the caller before each tool runs.
type ToolEvent struct {
	Name      string
	Arguments string
}

// Agent drives the turn loop: it compacts the transcript, asks the model for
// the next step, runs requested tools and repeats until the model answers
// without tool calls. An Agent is not safe for concurrent use.
type Agent struct {
	client     ChatCompleter
	config     *Config
	registry   *tools.ToolRegistry
	compaction *CompactionService
	state      *AgentState
}

// NewAgent creates an agent seeded with the configured system prompt. A nil
// registry gets the builtin tools and a nil compaction service truncates at
// the fallback token limit.
func NewAgent(client ChatCompleter, cfg *Config, registry *tools.ToolRegistry, compaction *CompactionService) *Agent {
	cfg = cfg.withDefaults()
	if registry == nil {
		registry = tools.DefaultRegistry(tools.Options{SafeMode: true})
	}
	if compaction == nil {
		compaction = NewCompactionService(internal.TOKEN_LIMIT_FALLBACK, StrategyTruncate)
	}

	state := NewAgentState(cfg.SystemPrompt)
	state.Metadata[MetaSessionID] = uuid.New().String()

	return &Agent{
		client:     client,
		config:     cfg,
		registry:   registry,
		compaction: compaction,
		state:      state,
	}
}

func (a *Agent) State() *AgentState {
	return a.state
}

func (a *Agent) SessionID() string {
	id, _ := a.state.Metadata[MetaSessionID].(string)
	return id
}

func (a *Agent) Model() string {
	return a.config.Model
}

func (a *Agent) Registry() *tools.ToolRegistry {
	return a.registry
}

// ClearHistory drops everything but a fresh system message. Metadata such as
// the session id survives.
func (a *Agent) ClearHistory() {
	a.state.Messages = []Message{{Role: RoleSystem, Content: a.config.SystemPrompt}}
	logger.AgentDebugf("[%s] history cleared", a.SessionID())
}

// Run processes one user input and returns the model's final answer.
// onEvent may be nil.
func (a *Agent) Run(ctx context.Context, input string, onEvent func(ToolEvent)) (string, error) {
	a.state.Append(Message{Role: RoleUser, Content: input})
	a.state.incr(MetaTurns)

	for iteration := 0; ; iteration++ {
		if a.config.MaxIterations > 0 && iteration >= a.config.MaxIterations {
			logger.Warnf("Reached maximum tool call iterations (%d)", a.config.MaxIterations)
			return "", fmt.Errorf("%w (%d)", ErrMaxIterations, a.config.MaxIterations)
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}

		if EstimateSize(a.state.Messages) > float64(a.compaction.TokenLimit) {
			a.state.incr(MetaCompactions)
		}
		a.state.Messages = a.compaction.Compact(ctx, a.state.Messages, a.client, a.config.Model)

		reply, err := a.complete(ctx)
		if err != nil {
			return "", err
		}
		a.state.Append(reply)

		if len(reply.ToolCalls) == 0 {
			return reply.Content, nil
		}

		logger.AgentDebugf("[%s] iteration %d: %d tool calls", a.SessionID(), iteration, len(reply.ToolCalls))
		if err := a.runTools(ctx, reply.ToolCalls, onEvent); err != nil {
			return "", err
		}
	}
}

// runTools answers every call of one batch, in order. Malformed arguments
// abort the turn, but the remaining calls are still answered so the
// transcript stays valid for the next turn.
func (a *Agent) runTools(ctx context.Context, calls []ToolCall, onEvent func(ToolEvent)) error {
	for i, call := range calls {
		if onEvent != nil {
			onEvent(ToolEvent{Name: call.Name, Arguments: call.Arguments})
		}

		args, err := decodeArguments(call.Arguments)
		if err != nil {
			for _, pending := range calls[i:] {
				a.state.Append(Message{
					Role:       RoleTool,
					Content:    "Error: malformed tool call arguments.",
					ToolCallID: pending.ID,
				})
			}
			logger.AgentDebugf("Malformed arguments for tool %s: %v", call.Name, err)
			return fmt.Errorf("%w for %s: %v", ErrMalformedArguments, call.Name, err)
		}

		result := a.registry.CallTool(ctx, call.Name, args)
		logger.AgentDebugf("Tool %s executed, response length: %d chars", call.Name, len(result))

		a.state.Append(Message{Role: RoleTool, Content: result, ToolCallID: call.ID})
	}
	return nil
}

// decodeArguments parses the raw argument string. An empty string is
// treated as an empty object since some models send it for tools without
// parameters.
func decodeArguments(raw string) (tools.Args, error) {
	args := tools.Args{}
	if strings.TrimSpace(raw) == "" {
		return args, nil
	}
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, err
	}
	if args == nil {
		args = tools.Args{}
	}
	return args, nil
}

func (a *Agent) complete(ctx context.Context) (Message, error) {
	callCtx, cancel := a.createContext(ctx)
	defer cancel()

	request := a.createChatRequest(toOpenAIMessages(a.state.Messages))
	resp, err := a.client.CreateChatCompletion(callCtx, request)
	if err != nil {
		logger.AgentDebugf("Model API error: %v", err)
		return Message{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Message{}, ErrEmptyResponse
	}

	return fromOpenAIMessage(resp.Choices[0].Message), nil
}

func (a *Agent) createChatRequest(messages []openai.ChatCompletionMessage) openai.ChatCompletionRequest {
	request := openai.ChatCompletionRequest{
		Model:    a.config.Model,
		Messages: messages,
	}

	if availableTools := a.registry.GetOpenAITools(); len(availableTools) > 0 {
		request.Tools = availableTools
		request.ToolChoice = "auto"
	}

	return request
}

func toOpenAIMessages(messages []Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		msg := openai.ChatCompletionMessage{
			Role:       string(m.Role),
			Content:    m.Content,
			ToolCallID: m.ToolCallID,
		}
		for _, tc := range m.ToolCalls {
			msg.ToolCalls = append(msg.ToolCalls, openai.ToolCall{
				ID:   tc.ID,
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      tc.Name,
					Arguments: tc.Arguments,
				},
			})
		}
		out = append(out, msg)
	}
	return out
}

func fromOpenAIMessage(m openai.ChatCompletionMessage) Message {
	msg := Message{Role: RoleAssistant, Content: m.Content}
	for _, tc := range m.ToolCalls {
		msg.ToolCalls = append(msg.ToolCalls, ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}
	return msg
}
