package tools

import (
	"context"

	"github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
)

// Tool is a named local capability the model can invoke. Execute receives
// the decoded arguments and returns the text handed back to the model.
// Failures are returned as *ToolError so callers can inspect the kind; the
// registry turns them into plain text before they reach the transcript.
type Tool interface {
	Name() string
	Description() string
	Parameters() jsonschema.Definition
	Execute(ctx context.Context, args Args) (string, error)
	ToOpenAITool() openai.Tool
}

type BaseTool struct {
	ToolName        string
	ToolDescription string
	ToolParameters  jsonschema.Definition
}

func (b *BaseTool) Name() string {
	return b.ToolName
}

func (b *BaseTool) Description() string {
	return b.ToolDescription
}

func (b *BaseTool) Parameters() jsonschema.Definition {
	return b.ToolParameters
}

func (b *BaseTool) ToOpenAITool() openai.Tool {
	return openai.Tool{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        b.Name(),
			Description: b.Description(),
			Parameters:  b.Parameters(),
		},
	}
}
