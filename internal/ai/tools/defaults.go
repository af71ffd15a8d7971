package tools

import (
	"os/exec"
	"time"

	"mincc/internal/logger"
)

// Options configures the builtin tool set.
type Options struct {
	BashTimeout time.Duration
	// SafeMode enables the shell denylist/allowlist.
	SafeMode bool
}

// lookPath is swapped in tests.
var lookPath = exec.LookPath

// DefaultRegistry returns a registry holding the builtin tools. The bash
// tool is only registered when a bash binary is on PATH.
func DefaultRegistry(opts Options) *ToolRegistry {
	registry := NewToolRegistry()

	var policy *ShellPolicy
	if opts.SafeMode {
		policy = DefaultShellPolicy()
	} else {
		logger.Warnf("Shell safe mode is disabled; commands run unchecked")
	}

	var defaultTools []Tool
	if _, err := lookPath("bash"); err == nil {
		defaultTools = append(defaultTools, NewBashTool(opts.BashTimeout, policy))
	} else {
		logger.Warnf("bash not found on PATH; shell tool disabled")
	}
	defaultTools = append(defaultTools,
		NewReadFileTool(),
		NewWriteFileTool(),
		NewReplaceFileContentTool(),
		NewGrepTool(),
		NewGlobTool(),
	)

	for _, tool := range defaultTools {
		registry.RegisterTool(tool)
	}

	logger.AgentDebugf("Initialized tool registry with %d default tools", len(defaultTools))
	return registry
}
