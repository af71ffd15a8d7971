package cli

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
)

const (
	accentColor = "#F44F00"
	mutedColor  = "#7a391a"
)

// Theme groups the colors used by the terminal UI. It is built once and
// passed to the Terminal explicitly.
type Theme struct {
	Prompt   *color.Color
	Tool     *color.Color
	ToolName *color.Color
	Dim      *color.Color
	Error    *color.Color
	Success  *color.Color
	Thinking *color.Color

	Banner lipgloss.Style
	Panel  lipgloss.Style
	Title  lipgloss.Style
}

func DefaultTheme() Theme {
	accent := lipgloss.Color(accentColor)

	return Theme{
		Prompt:   color.New(color.FgHiRed, color.Bold),
		Tool:     color.New(color.FgHiRed, color.Bold),
		ToolName: color.New(color.FgHiRed),
		Dim:      color.New(color.Faint),
		Error:    color.New(color.FgRed, color.Bold),
		Success:  color.New(color.FgGreen, color.Bold),
		Thinking: color.New(color.FgRed),

		Banner: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent),
	}
}

func (t Theme) muted() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(mutedColor))
}
