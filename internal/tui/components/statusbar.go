package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/adpace/internal/tui/theme"
)

// RenderStatusBar renders the bottom status bar. message is shown on the right;
// isError colors it as a failure.
func RenderStatusBar(width int, hints, message string, isError bool) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Width(width)

	msgColor := t.TextMuted
	if isError {
		msgColor = t.Bad
	}

	left := " " + hints
	right := ""
	if message != "" {
		right = lipgloss.NewStyle().Foreground(msgColor).Render(message) + " "
	}

	padding := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return style.Render(left + strings.Repeat(" ", padding) + right)
}
