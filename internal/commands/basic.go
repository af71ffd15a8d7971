package commands

import (
	"context"
	"fmt"
	"strings"

	"mincc/internal/logger"
)

func clearCmd(ctx context.Context, env *Env, args []string) error {
	env.Agent.ClearHistory()
	env.UI.ClearScreen()
	env.UI.ShowBanner()
	return nil
}

func exitCmd(ctx context.Context, env *Env, args []string) error {
	env.UI.Info("Goodbye!")
	return ErrExit
}

func helpCmd(ctx context.Context, env *Env, args []string) error {
	var b strings.Builder
	b.WriteString("Available Commands:\n")
	for _, cmd := range env.Registry.List() {
		fmt.Fprintf(&b, "- %s: %s\n", cmd.Name, cmd.Description)
	}

	env.UI.ShowPanel("Help", strings.TrimRight(b.String(), "\n"))
	return nil
}

func initCmd(ctx context.Context, env *Env, args []string) error {
	env.UI.Info("Initializing Min-CC.md...")

	response, err := env.Agent.Run(ctx, initPrompt, env.UI.ShowToolEvent)
	if err != nil {
		logger.AgentDebugf("Error during initialization: %v", err)
		env.UI.Error(fmt.Sprintf("Error during initialization: %v", err))
		return nil
	}

	env.UI.ShowAnswer(response)
	return nil
}

const initPrompt = `
Please analyze this codebase and create a Min-CC.md file, which will be given to future instances of Min-CC to operate in this repository.

What to add:

1. Commands that will be commonly used, such as how to build, lint, and run tests. Include the necessary commands to develop in this codebase, such as how to run a single test.
2. High-level code architecture and structure so that future instances can be productive more quickly. Focus on the "big picture" architecture that requires reading multiple files to understand

Usage notes:

- If there's already a Min-CC.md, suggest improvements to it.
- When you make the initial Min-CC.md, do not repeat yourself and do not include obvious instructions like "Provide helpful error messages to users", "Write unit tests for all new utilities", "Never include sensitive information (API keys, tokens) in code or commits"
- Avoid listing every component or file structure that can be easily discovered
- Don't include generic development practices
- If there are Cursor rules (in .cursor/rules/ or .cursorrules) or Copilot rules (in .github/copilot-instructions.md), make sure to include the important parts.
- If there is a README.md, make sure to include the important parts.
- Do not make up information such as "Common Development Tasks", "Tips for Development", "Support and Documentation" unless this is expressly included in other files that you read.
- Be sure to prefix the file with the following text:

# Min-CC.md
`
