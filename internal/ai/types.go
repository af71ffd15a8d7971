// Package ai implements the coding agent: the message model, history
// compaction, the turn loop and the model endpoint helpers.
package ai

type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleTool      MessageRole = "tool"
)

// Message is one entry of the transcript. An empty Content means the
// message carries no text, which is normal for assistant messages that only
// request tools.
type Message struct {
	Role       MessageRole `json:"role"`
	Content    string      `json:"content,omitempty"`
	ToolCalls  []ToolCall  `json:"tool_calls,omitempty"`
	ToolCallID string      `json:"tool_call_id,omitempty"` // For tool response messages
}

// ToolCall is a request from the model to run a named tool. Arguments is the
// raw JSON string exactly as the endpoint sent it.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// AgentState owns the ordered transcript and an open metadata map.
type AgentState struct {
	Messages []Message
	Metadata map[string]any
}

const (
	MetaSessionID   = "session_id"
	MetaTurns       = "turns"
	MetaCompactions = "compactions"
)

func NewAgentState(systemPrompt string) *AgentState {
	return &AgentState{
		Messages: []Message{{Role: RoleSystem, Content: systemPrompt}},
		Metadata: make(map[string]any),
	}
}

func (s *AgentState) Append(msg Message) {
	s.Messages = append(s.Messages, msg)
}

func (s *AgentState) incr(key string) {
	n, _ := s.Metadata[key].(int)
	s.Metadata[key] = n + 1
}
