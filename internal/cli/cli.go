// Package cli runs the interactive prompt loop.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"mincc/internal/ai"
	"mincc/internal/commands"
	"mincc/internal/logger"
)

const maxLineSize = 1024 * 1024

// sessionUI mirrors what the user sees into the session transcript.
type sessionUI struct {
	*Terminal
	transcript *logger.TranscriptLogger
}

func (u *sessionUI) ShowToolEvent(ev ai.ToolEvent) {
	if u.transcript != nil {
		u.transcript.LogToolCall(ev.Name, ev.Arguments)
	}
	u.Terminal.ShowToolEvent(ev)
}

func (u *sessionUI) ShowAnswer(content string) {
	if u.transcript != nil {
		u.transcript.LogAssistant(content)
	}
	u.Terminal.ShowAnswer(content)
}

func (u *sessionUI) ClearScreen() {
	if u.transcript != nil {
		u.transcript.LogEvent("history cleared")
	}
	u.Terminal.ClearScreen()
}

func (u *sessionUI) Error(msg string) {
	if u.transcript != nil {
		u.transcript.LogEvent("error: " + msg)
	}
	u.Terminal.Error(msg)
}

type Session struct {
	agent    commands.Agent
	commands *commands.Registry
	ui       *sessionUI
	in       io.Reader
}

// NewSession wires an agent to a terminal. transcript may be nil.
func NewSession(agent commands.Agent, registry *commands.Registry, term *Terminal, in io.Reader, transcript *logger.TranscriptLogger) *Session {
	if registry == nil {
		registry = commands.DefaultRegistry()
	}
	return &Session{
		agent:    agent,
		commands: registry,
		ui:       &sessionUI{Terminal: term, transcript: transcript},
		in:       in,
	}
}

// readLines feeds lines from in until end of input or until done is closed.
// A reader blocked in a read returns once the read does.
func readLines(in io.Reader, done <-chan struct{}) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		if err := scanner.Err(); err != nil {
			logger.Errorf("Prompt error: %v", err)
		}
	}()
	return lines
}

// Run reads input until /exit, end of input or ctx is cancelled. Errors from
// a turn are shown and the session continues.
func (s *Session) Run(ctx context.Context) error {
	s.ui.ShowBanner()

	env := &commands.Env{Agent: s.agent, UI: s.ui, Registry: s.commands}
	done := make(chan struct{})
	defer close(done)
	lines := readLines(s.in, done)

	for {
		s.ui.Prompt()

		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(s.ui.out)
			s.ui.Info("Goodbye!")
			return nil
		case l, ok := <-lines:
			if !ok {
				fmt.Fprintln(s.ui.out)
				s.ui.Info("Goodbye!")
				return nil
			}
			line = strings.TrimSpace(l)
		}

		if line == "" {
			continue
		}
		if s.ui.transcript != nil {
			s.ui.transcript.LogUser(line)
		}

		if commands.IsCommand(line) {
			err := s.commands.HandleCommand(ctx, env, line)
			if errors.Is(err, commands.ErrExit) {
				return nil
			}
			if err != nil {
				s.ui.Error(err.Error())
			}
			continue
		}

		s.ui.Thinking()
		answer, err := s.agent.Run(ctx, line, s.ui.ShowToolEvent)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			s.ui.Error(fmt.Sprintf("Error during execution: %v", err))
			continue
		}
		s.ui.ShowAnswer(answer)
	}
}
