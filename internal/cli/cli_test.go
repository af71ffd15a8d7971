package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"mincc/internal/ai"
	"mincc/internal/logger"
)

type scriptedAgent struct {
	inputs  []string
	answers map[string]string
	cleared int
}

func (s *scriptedAgent) Run(ctx context.Context, input string, onEvent func(ai.ToolEvent)) (string, error) {
	s.inputs = append(s.inputs, input)
	if input == "fail" {
		return "", errors.New("chat completion: connection refused")
	}
	if onEvent != nil {
		onEvent(ai.ToolEvent{Name: "read_file", Arguments: `{"path":"` + strings.Repeat("p", 60) + `"}`})
	}
	return s.answers[input], nil
}

func (s *scriptedAgent) ClearHistory() { s.cleared++ }

func newTestSession(input string, transcript *logger.TranscriptLogger) (*Session, *scriptedAgent, *bytes.Buffer) {
	out := &bytes.Buffer{}
	agent := &scriptedAgent{answers: map[string]string{"hello": "**Hi there**"}}
	term := NewTerminal(out, DefaultTheme(), BannerInfo{Model: "x-ai/grok-4.1-fast", ContextLength: 2_000_000, Strategy: "truncate", TokenLimit: 800_000})
	return NewSession(agent, nil, term, strings.NewReader(input), transcript), agent, out
}

func TestSessionRun(t *testing.T) {
	dir := t.TempDir()
	transcript := logger.NewTranscriptLogger(dir, "session-1")
	defer transcript.Close()

	s, agent, out := newTestSession("hello\n\nfail\n/clear\n/bogus\nafter error\n/exit\nnever\n", transcript)
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := strings.Join(agent.inputs, "|"); got != "hello|fail|after error" {
		t.Fatalf("agent inputs = %s", got)
	}
	if agent.cleared != 1 {
		t.Fatalf("cleared = %d", agent.cleared)
	}

	text := out.String()
	for _, want := range []string{
		"Min-CC: Mini Claude Code",
		"Model: x-ai/grok-4.1-fast (2M ctx)",
		"Compaction: truncate @ 800k",
		"Executing Tool:",
		`Args: {"path":"` + strings.Repeat("p", 50) + `..."}`,
		"Hi there",
		"Error during execution: chat completion: connection refused",
		"Unknown command: /bogus",
		"Goodbye!",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("output missing %q:\n%s", want, text)
		}
	}

	log, err := os.ReadFile(transcript.Path())
	if err != nil {
		t.Fatalf("read transcript: %v", err)
	}
	for _, want := range []string{"<user> hello", "* tool read_file", "<assistant> **Hi there**", "-- error: Error during execution", "-- history cleared"} {
		if !strings.Contains(string(log), want) {
			t.Fatalf("transcript missing %q:\n%s", want, log)
		}
	}
}

func TestSessionEndsAtEOF(t *testing.T) {
	s, agent, out := newTestSession("hello\n", nil)
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(agent.inputs) != 1 || !strings.Contains(out.String(), "Goodbye!") {
		t.Fatalf("inputs = %v", agent.inputs)
	}
}

func TestSessionStopsOnCancel(t *testing.T) {
	reader, writer, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	defer writer.Close()
	defer reader.Close()

	out := &bytes.Buffer{}
	s := NewSession(&scriptedAgent{}, nil, NewTerminal(out, DefaultTheme(), BannerInfo{}), reader, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return after cancel")
	}
}

func TestReadLinesStopsWhenDone(t *testing.T) {
	reader, writer := io.Pipe()
	defer writer.Close()
	go writer.Write([]byte("first\nsecond\n"))

	done := make(chan struct{})
	lines := readLines(reader, done)
	if got := <-lines; got != "first" {
		t.Fatalf("line = %q", got)
	}

	close(done)
	// Give the reader time to pick done over the pending send.
	time.Sleep(100 * time.Millisecond)

	select {
	case line, ok := <-lines:
		if ok {
			t.Fatalf("reader still sending after done: %q", line)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("reader goroutine did not exit")
	}
}

func TestFormatNumber(t *testing.T) {
	tests := map[int]string{
		0:         "0",
		999:       "999",
		1000:      "1k",
		1500:      "1.5k",
		12800:     "12.8k",
		131072:    "131.1k",
		1_000_000: "1M",
		2_000_000: "2M",
		1_048_576: "1M",
		1_500_000: "1.5M",
	}
	for in, want := range tests {
		if got := FormatNumber(in); got != want {
			t.Fatalf("FormatNumber(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatToolArgs(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`{"command":"ls -la"}`, `{"command":"ls -la"}`},
		{`{"content":"` + strings.Repeat("x", 55) + `","n":3}`, `{"content":"` + strings.Repeat("x", 50) + `...","n":3}`},
		{`{"pattern":"<a>"}`, `{"pattern":"<a>"}`},
		{`not json`, `not json`},
	}
	for _, tt := range tests {
		if got := FormatToolArgs(tt.raw); got != tt.want {
			t.Fatalf("FormatToolArgs(%s) = %s, want %s", tt.raw, got, tt.want)
		}
	}
}

func TestRenderMarkdown(t *testing.T) {
	if got := RenderMarkdown("", 80); got != "" {
		t.Fatalf("empty render = %q", got)
	}
	got := RenderMarkdown("# Title\n\nSome *text* here.", 80)
	if !strings.Contains(got, "Title") || !strings.Contains(got, "text") {
		t.Fatalf("render = %q", got)
	}
}
