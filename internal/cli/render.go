package cli

import (
	"fmt"
	"strings"

	markdown "github.com/MichaelMure/go-term-markdown"
	gomarkdown "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"
)

const minRenderWidth = 20

// RenderMarkdown renders model output for the terminal.
func RenderMarkdown(content string, width int) string {
	if strings.TrimSpace(content) == "" {
		return ""
	}
	if width < minRenderWidth {
		width = minRenderWidth
	}

	// Plain URLs stay plain text so the terminal can detect them.
	p := parser.NewWithExtensions(markdown.Extensions() &^ parser.Autolink)
	r := markdown.NewRenderer(width, 0)
	doc := p.Parse([]byte(content))

	return strings.TrimRight(string(gomarkdown.Render(doc, r)), "\n")
}

// FormatNumber shortens large counts with k and M suffixes: 1500 → "1.5k",
// 2000000 → "2M".
func FormatNumber(n int) string {
	switch {
	case n >= 1_000_000:
		return trimZero(fmt.Sprintf("%.1f", float64(n)/1_000_000)) + "M"
	case n >= 1_000:
		return trimZero(fmt.Sprintf("%.1f", float64(n)/1_000)) + "k"
	}
	return fmt.Sprint(n)
}

func trimZero(s string) string {
	return strings.TrimSuffix(s, ".0")
}
