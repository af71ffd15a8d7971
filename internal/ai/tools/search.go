package tools

import (
	"bufio"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/sashabaranov/go-openai/jsonschema"
	"mincc/internal"
)

const (
	defaultExcludeDirPattern = `^\.`
	maxScanLine              = 1024 * 1024
)

// GrepTool searches files line by line for a regular expression.
type GrepTool struct {
	BaseTool
	LineChars int
}

func NewGrepTool() *GrepTool {
	return &GrepTool{
		BaseTool: BaseTool{
			ToolName:        "grep",
			ToolDescription: "Search for a pattern in files within a directory.",
			ToolParameters: jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"pattern": {
						Type:        jsonschema.String,
						Description: "Regex pattern to search for",
					},
					"directory": {
						Type:        jsonschema.String,
						Description: "Directory (or single file) to search in. Defaults to \".\"",
					},
					"exclude_dir_pattern": {
						Type:        jsonschema.String,
						Description: "Regex pattern for directories to exclude. Defaults to \"^\\.\"",
					},
				},
				Required: []string{"pattern"},
			},
		},
		LineChars: internal.GREP_LINE_CHAR,
	}
}

func (t *GrepTool) Execute(ctx context.Context, args Args) (string, error) {
	pattern, err := args.String("pattern")
	if err != nil {
		return "", err
	}
	root, err := args.OptionalString("directory", ".")
	if err != nil {
		return "", err
	}
	exclude, err := args.OptionalString("exclude_dir_pattern", defaultExcludeDirPattern)
	if err != nil {
		return "", err
	}

	regex, err := regexp.Compile(pattern)
	if err != nil {
		return "", newToolError(KindInvalidPattern, err, "Error: Invalid regex pattern: %v", err)
	}
	excludeRegex, err := regexp.Compile(exclude)
	if err != nil {
		return "", newToolError(KindInvalidPattern, err, "Error: Invalid regex pattern: %v", err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return "", newToolError(KindNotFound, err, "Error: %s is not a valid file or directory.", root)
	}

	var results []string
	if !info.IsDir() {
		results = t.searchFile(root, regex, results)
	} else {
		walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				// Unreadable entries are skipped, like unreadable files.
				if d != nil && d.IsDir() && path != root {
					return filepath.SkipDir
				}
				return nil
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if d.IsDir() {
				if path != root && excludeRegex.MatchString(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if d.Type().IsRegular() {
				results = t.searchFile(path, regex, results)
			}
			return nil
		})
		if walkErr != nil {
			return "", newToolError(KindIO, walkErr, "Error: search aborted: %v", walkErr)
		}
	}

	if len(results) == 0 {
		return "No matches found.", nil
	}
	return strings.Join(results, "\n"), nil
}

// searchFile appends "path:line:text" for every matching line. Files that
// cannot be read are skipped silently.
func (t *GrepTool) searchFile(path string, regex *regexp.Regexp, results []string) []string {
	file, err := os.Open(path)
	if err != nil {
		return results
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxScanLine)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if !regex.MatchString(line) {
			continue
		}
		display := TruncateWithEllipsis(trimRightSpace(line), t.LineChars)
		results = append(results, fmt.Sprintf("%s:%d:%s", path, lineNo, display))
	}

	return results
}

// GlobTool lists files matching a glob pattern.
type GlobTool struct {
	BaseTool
}

func NewGlobTool() *GlobTool {
	return &GlobTool{
		BaseTool: BaseTool{
			ToolName:        "glob",
			ToolDescription: "List files matching a glob pattern (e.g., '**/*.py').",
			ToolParameters: jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"pattern": {
						Type:        jsonschema.String,
						Description: "Glob pattern to match",
					},
					"recursive": {
						Type:        jsonschema.Boolean,
						Description: "Whether '**' matches across directories. Defaults to true",
					},
				},
				Required: []string{"pattern"},
			},
		},
	}
}

func (t *GlobTool) Execute(ctx context.Context, args Args) (string, error) {
	pattern, err := args.String("pattern")
	if err != nil {
		return "", err
	}
	recursive, err := args.Bool("recursive", true)
	if err != nil {
		return "", err
	}

	var files []string
	if recursive {
		files, err = doublestar.FilepathGlob(pattern)
	} else {
		files, err = filepath.Glob(pattern)
	}
	if err != nil {
		return "", newToolError(KindInvalidPattern, err, "Error running glob: %v", err)
	}

	if len(files) == 0 {
		return "No files matched the pattern.", nil
	}
	return strings.Join(files, "\n"), nil
}
