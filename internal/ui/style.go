package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	boldStyle = lipgloss.NewStyle().Bold(true)

	statusStyles = map[string]lipgloss.Style{
		"pending":     lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		"in-progress": lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		"done":        lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	}
)

// colorEnabled reports whether styled output should be emitted.
var colorEnabled = func() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// IsTerminal reports whether stdout is an interactive terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// TerminalWidth returns the stdout width, or fallback when unknown.
func TerminalWidth(fallback int) int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return fallback
	}
	return width
}

// Bold renders value in bold when color is enabled.
func Bold(value string) string {
	if value == "" || !colorEnabled() {
		return value
	}
	return boldStyle.Render(value)
}

// Status colors a status wire tag when color is enabled.
func Status(tag string) string {
	style, ok := statusStyles[tag]
	if !ok || !colorEnabled() {
		return tag
	}
	return style.Render(tag)
}
