package tools

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/sashabaranov/go-openai/jsonschema"
	"mincc/internal"
	"mincc/internal/logger"
)

// BashTool embeds BaseTool and runs shell commands with a hard timeout.
type BashTool struct {
	BaseTool
	Timeout time.Duration
	// Policy is consulted before every command; nil disables safety checks.
	Policy *ShellPolicy
}

// NewBashTool creates a BashTool. A nil policy runs commands unchecked.
func NewBashTool(timeout time.Duration, policy *ShellPolicy) *BashTool {
	if timeout <= 0 {
		timeout = internal.DEFAULT_BASH_TIMEOUT * time.Second
	}
	return &BashTool{
		BaseTool: BaseTool{
			ToolName:        "bash",
			ToolDescription: "Execute a SAFE bash command in the current directory. Avoid destructive commands (rm -rf, sudo, dd, mkfs, network fetches like curl|wget|fetch). Use for ls, cat, grep, uv, pytest, etc.",
			ToolParameters: jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"command": {
						Type:        jsonschema.String,
						Description: "The SAFE command to run (no rm -rf, sudo, network)",
					},
				},
				Required: []string{"command"},
			},
		},
		Timeout: timeout,
		Policy:  policy,
	}
}

// Execute runs the command through bash and reports stdout, stderr and a
// non-zero exit code as text.
func (b *BashTool) Execute(ctx context.Context, args Args) (string, error) {
	command, err := args.String("command")
	if err != nil {
		return "", err
	}

	if b.Policy != nil {
		if err := b.Policy.Check(command); err != nil {
			logger.Warnf("Blocked shell command: %s", command)
			return "", err
		}
	}

	return runShell(ctx, command, b.Timeout)
}

func runShell(ctx context.Context, command string, timeout time.Duration) (string, error) {
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, "bash", "-c", command)
	killProcessGroup(cmd)
	// Children that left the process group may keep the pipes open.
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", newToolError(KindExecution, ctxErr, "Error executing command: %v", ctxErr)
	}
	if runCtx.Err() == context.DeadlineExceeded {
		return "", newToolError(KindTimeout, runCtx.Err(), "Command timed out after %s.", timeout)
	}

	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return "", newToolError(KindExecution, err, "Error executing command: %v", err)
	}

	output := stdout.String()
	if stderr.Len() > 0 {
		output += "\nErrors:\n" + stderr.String()
	}
	if exitErr != nil && exitErr.ExitCode() != 0 {
		output += fmt.Sprintf("\nExit code: %d", exitErr.ExitCode())
	}
	if output == "" {
		return "Command executed with no output.", nil
	}

	return output, nil
}
