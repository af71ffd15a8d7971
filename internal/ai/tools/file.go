package tools

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sashabaranov/go-openai/jsonschema"
)

var pathParam = jsonschema.Definition{
	Type:        jsonschema.String,
	Description: "Path to the file",
}

// ReadFileTool returns the full content of a file.
type ReadFileTool struct {
	BaseTool
}

func NewReadFileTool() *ReadFileTool {
	return &ReadFileTool{
		BaseTool: BaseTool{
			ToolName:        "read_file",
			ToolDescription: "Read the content of a file.",
			ToolParameters: jsonschema.Definition{
				Type:       jsonschema.Object,
				Properties: map[string]jsonschema.Definition{"path": pathParam},
				Required:   []string{"path"},
			},
		},
	}
}

func (t *ReadFileTool) Execute(ctx context.Context, args Args) (string, error) {
	path, err := args.String("path")
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", newToolError(KindNotFound, err, "Error: File %s not found.", path)
		}
		return "", newToolError(KindIO, err, "Error reading file: %v", err)
	}

	return string(data), nil
}

// WriteFileTool creates or overwrites a file.
type WriteFileTool struct {
	BaseTool
}

func NewWriteFileTool() *WriteFileTool {
	return &WriteFileTool{
		BaseTool: BaseTool{
			ToolName:        "write_file",
			ToolDescription: "Create a new file or overwrite an existing file with new content.",
			ToolParameters: jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"path": pathParam,
					"content": {
						Type:        jsonschema.String,
						Description: "The content to write to the file",
					},
				},
				Required: []string{"path", "content"},
			},
		},
	}
}

func (t *WriteFileTool) Execute(ctx context.Context, args Args) (string, error) {
	path, err := args.String("path")
	if err != nil {
		return "", err
	}
	content, err := args.String("content")
	if err != nil {
		return "", err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", newToolError(KindIO, err, "Error writing file: %v", err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", newToolError(KindIO, err, "Error writing file: %v", err)
	}

	return "Successfully wrote to " + path + ".", nil
}

// ReplaceFileContentTool replaces the first verbatim occurrence of
// old_content. The file is left untouched when old_content is absent.
type ReplaceFileContentTool struct {
	BaseTool
}

func NewReplaceFileContentTool() *ReplaceFileContentTool {
	return &ReplaceFileContentTool{
		BaseTool: BaseTool{
			ToolName:        "replace_file_content",
			ToolDescription: "Replace a section of a file with new content.",
			ToolParameters: jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"path": pathParam,
					"old_content": {
						Type:        jsonschema.String,
						Description: "The content to be replaced",
					},
					"new_content": {
						Type:        jsonschema.String,
						Description: "The new content",
					},
				},
				Required: []string{"path", "old_content", "new_content"},
			},
		},
	}
}

func (t *ReplaceFileContentTool) Execute(ctx context.Context, args Args) (string, error) {
	path, err := args.String("path")
	if err != nil {
		return "", err
	}
	oldContent, err := args.String("old_content")
	if err != nil {
		return "", err
	}
	newContent, err := args.String("new_content")
	if err != nil {
		return "", err
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", newToolError(KindNotFound, err, "Error: File %s not found.", path)
		}
		return "", newToolError(KindIO, err, "Error replacing content: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", newToolError(KindIO, err, "Error replacing content: %v", err)
	}

	content := string(data)
	if !strings.Contains(content, oldContent) {
		return "", newToolError(KindNotFound, nil, "Error: old_content not found in file.")
	}

	updated := strings.Replace(content, oldContent, newContent, 1)
	if err := os.WriteFile(path, []byte(updated), info.Mode().Perm()); err != nil {
		return "", newToolError(KindIO, err, "Error replacing content: %v", err)
	}

	return "Successfully updated " + path + ".", nil
}
