package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
	"mincc/internal"
	"mincc/internal/ai"
	"mincc/internal/ai/tools"
)

const defaultWidth = 80

// BannerInfo is shown at startup and after /clear.
type BannerInfo struct {
	Model         string
	ContextLength int
	Strategy      string
	TokenLimit    int
}

func (b BannerInfo) lines() []string {
	ctx := "unknown"
	if b.ContextLength > 0 {
		ctx = FormatNumber(b.ContextLength)
	}
	return []string{
		fmt.Sprintf("Model: %s (%s ctx)", b.Model, ctx),
		fmt.Sprintf("Compaction: %s @ %s", b.Strategy, FormatNumber(b.TokenLimit)),
	}
}

// Terminal writes the session to a terminal or any other writer.
type Terminal struct {
	out    io.Writer
	theme  Theme
	banner BannerInfo
	// tty enables screen clearing and width detection.
	tty bool
	fd  int
}

func NewTerminal(out io.Writer, theme Theme, banner BannerInfo) *Terminal {
	t := &Terminal{out: out, theme: theme, banner: banner}
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		t.tty = true
		t.fd = int(f.Fd())
	}
	return t
}

// Width is the current terminal width, or 80 when it cannot be determined.
func (t *Terminal) Width() int {
	if t.tty {
		if w, _, err := term.GetSize(t.fd); err == nil && w > 0 {
			return w
		}
	}
	return defaultWidth
}

func (t *Terminal) ClearScreen() {
	if t.tty {
		fmt.Fprint(t.out, "\033[H\033[2J")
	}
}

func (t *Terminal) ShowBanner() {
	title := t.theme.Title.Render(internal.APP_NAME + ": Mini Claude Code")
	body := t.theme.muted().Render(strings.Join(t.banner.lines(), "\n"))

	fmt.Fprintln(t.out, t.theme.Banner.Render(title+"\n"+body))
	fmt.Fprintln(t.out, t.theme.Dim.Sprint("Type '/help' for commands, or '/exit' to end the session."))
	fmt.Fprintln(t.out)
}

func (t *Terminal) Prompt() {
	fmt.Fprint(t.out, t.theme.Prompt.Sprint("User"), ": ")
}

func (t *Terminal) Thinking() {
	fmt.Fprintln(t.out, t.theme.Thinking.Sprint("Thinking..."))
}

func (t *Terminal) rule() string {
	return strings.Repeat("─", t.Width())
}

func (t *Terminal) ShowAnswer(content string) {
	fmt.Fprintln(t.out)
	fmt.Fprintln(t.out, t.rule())
	if rendered := RenderMarkdown(content, t.Width()); rendered != "" {
		fmt.Fprintln(t.out, rendered)
	}
	fmt.Fprintln(t.out, t.rule())
	fmt.Fprintln(t.out)
}

// ShowToolEvent prints the tool name and its arguments with long string
// values shortened.
func (t *Terminal) ShowToolEvent(ev ai.ToolEvent) {
	fmt.Fprintf(t.out, "%s %s\n", t.theme.Tool.Sprint("Executing Tool:"), t.theme.ToolName.Sprint(ev.Name))
	fmt.Fprintln(t.out, t.theme.Dim.Sprintf("   Args: %s", FormatToolArgs(ev.Arguments)))
}

// FormatToolArgs renders raw JSON arguments for display. Unparseable
// arguments are shown as they are.
func FormatToolArgs(raw string) string {
	var args tools.Args
	if err := json.Unmarshal([]byte(raw), &args); err != nil || args == nil {
		return raw
	}
	var b strings.Builder
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(tools.TrimArgs(args, internal.TRIM_TOOL_CALL_ARGS)); err != nil {
		return raw
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (t *Terminal) ShowPanel(title, body string) {
	content := t.theme.Title.Render(title) + "\n" + body
	fmt.Fprintln(t.out, t.theme.Panel.Render(content))
}

func (t *Terminal) Info(msg string) {
	fmt.Fprintln(t.out, t.theme.Dim.Sprint(msg))
}

func (t *Terminal) Error(msg string) {
	fmt.Fprintln(t.out, t.theme.Error.Sprint(msg))
}
