// Package commands implements the slash commands typed at the prompt.
package commands

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"mincc/internal/ai"
	"mincc/internal/logger"
)

// ErrExit is returned by a command that ends the session.
var ErrExit = errors.New("exit requested")

// Agent is the part of *ai.Agent the commands act on.
type Agent interface {
	Run(ctx context.Context, input string, onEvent func(ai.ToolEvent)) (string, error)
	ClearHistory()
}

// UI is the terminal surface commands write to.
type UI interface {
	ClearScreen()
	ShowBanner()
	ShowAnswer(markdown string)
	ShowToolEvent(ev ai.ToolEvent)
	ShowPanel(title, body string)
	Info(msg string)
	Error(msg string)
}

// Env is handed to every command.
type Env struct {
	Agent    Agent
	UI       UI
	Registry *Registry
}

type CommandFunc func(ctx context.Context, env *Env, args []string) error

type Command struct {
	Name        string
	Description string
	Handler     CommandFunc
}

type Registry struct {
	commands map[string]Command
}

func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]Command)}
}

func (r *Registry) RegisterCommand(name string, description string, handler CommandFunc) {
	r.commands[name] = Command{
		Name:        name,
		Description: description,
		Handler:     handler,
	}
}

func (r *Registry) GetCommand(name string) (Command, bool) {
	cmd, exists := r.commands[name]
	return cmd, exists
}

// List returns all commands sorted by name.
func (r *Registry) List() []Command {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)

	list := make([]Command, 0, len(names))
	for _, name := range names {
		list = append(list, r.commands[name])
	}
	return list
}

// Complete returns the commands whose name starts with prefix.
func (r *Registry) Complete(prefix string) []Command {
	var matches []Command
	for _, cmd := range r.List() {
		if strings.HasPrefix(cmd.Name, prefix) {
			matches = append(matches, cmd)
		}
	}
	return matches
}

// IsCommand reports whether a line of input should be dispatched here.
func IsCommand(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "/")
}

// HandleCommand runs the command named by the first word of line. It returns
// ErrExit when the session should end.
func (r *Registry) HandleCommand(ctx context.Context, env *Env, line string) error {
	parts := strings.Fields(strings.TrimSpace(line))
	if len(parts) == 0 {
		return nil
	}

	name, args := parts[0], parts[1:]
	cmd, exists := r.GetCommand(name)
	if !exists {
		msg := fmt.Sprintf("Unknown command: %s", name)
		if matches := r.Complete(name); len(matches) > 0 {
			names := make([]string, 0, len(matches))
			for _, m := range matches {
				names = append(names, m.Name)
			}
			msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(names, ", "))
		}
		env.UI.Error(msg)
		return nil
	}

	logger.AgentDebugf("Running command %s %v", name, args)
	if env.Registry == nil {
		env.Registry = r
	}
	return cmd.Handler(ctx, env, args)
}
