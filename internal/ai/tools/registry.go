// Package tools provides the tool capability the coding agent exposes to the
// model, the registry that dispatches calls by name, and the builtin shell,
// file and search tools.
package tools

import (
	"context"
	"sync"

	"github.com/sashabaranov/go-openai"
	"mincc/internal/logger"
)

// ToolRegistry manages the collection of available tools.
// It provides thread-safe registration, retrieval, and execution of tools.
// Listing follows registration order.
type ToolRegistry struct {
	tools map[string]Tool
	order []string
	mu    sync.RWMutex
}

// NewToolRegistry creates a new tool registry.
// This function initializes an empty registry without any tools.
// Use RegisterTool to add tools to the registry.
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{
		tools: make(map[string]Tool),
	}
}

// RegisterTool adds a new tool to the registry.
// If a tool with the same name already exists, it is replaced in place.
func (r *ToolRegistry) RegisterTool(tool Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := tool.Name()
	if _, exists := r.tools[name]; exists {
		logger.Warnf("Replacing existing tool: %s", name)
	} else {
		r.order = append(r.order, name)
	}

	r.tools[name] = tool
	logger.AgentDebugf("Registered tool: %s", name)
}

// DeregisterTool removes a tool from the registry.
// If the tool doesn't exist, this operation is a no-op.
func (r *ToolRegistry) DeregisterTool(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[name]; !exists {
		return
	}
	delete(r.tools, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	logger.AgentDebugf("Deregistered tool: %s", name)
}

// GetTool returns a tool by name.
func (r *ToolRegistry) GetTool(name string) (Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tool, exists := r.tools[name]
	if !exists {
		return nil, newToolError(KindToolNotFound, nil, "Error: Tool %s not found.", name)
	}

	return tool, nil
}

// GetAllTools returns all registered tools in registration order.
func (r *ToolRegistry) GetAllTools() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		tools = append(tools, r.tools[name])
	}

	return tools
}

// GetOpenAITools converts all registered tools to OpenAI's Tool format.
// This is the catalog advertised with every chat completion request.
func (r *ToolRegistry) GetOpenAITools() []openai.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]openai.Tool, 0, len(r.order))
	for _, name := range r.order {
		tools = append(tools, r.tools[name].ToOpenAITool())
	}

	return tools
}

// ExecuteTool executes a named tool with the provided arguments.
// Returns the tool's output, or a *ToolError describing why it failed.
// A panic inside a tool is recovered and reported as KindInternal.
func (r *ToolRegistry) ExecuteTool(ctx context.Context, name string, args Args) (result string, err error) {
	tool, err := r.GetTool(name)
	if err != nil {
		return "", err
	}

	defer func() {
		if rec := recover(); rec != nil {
			logger.Errorf("Tool %s panicked: %v", name, rec)
			result = ""
			err = newToolError(KindInternal, nil, "Error: tool %s failed: %v", name, rec)
		}
	}()

	logger.AgentDebugf("Executing tool: %s with args: %v", name, args)
	result, err = tool.Execute(ctx, args)
	if err != nil {
		logger.AgentDebugf("Tool %s returned %s error: %v", name, KindOf(err), err)
		return "", err
	}

	return result, nil
}

// CallTool runs a tool and always returns text: either the tool's output or
// a human-readable error. It never fails.
func (r *ToolRegistry) CallTool(ctx context.Context, name string, args Args) string {
	return ResultText(r.ExecuteTool(ctx, name, args))
}

// Len reports how many tools are registered.
func (r *ToolRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
