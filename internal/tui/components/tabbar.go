package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/adpace/internal/tui/theme"
)

// Tab represents a single tab in the tab bar.
type Tab struct {
	Name   string
	Key    rune
	KeyPos int // position of the shortcut letter in the name (-1 if not in name)
}

// Tabs defines all available tabs.
var Tabs = []Tab{
	{Name: "Plan", Key: 'p', KeyPos: 0},
	{Name: "Schedule", Key: 'd', KeyPos: 4},
	{Name: "Ads", Key: 'a', KeyPos: 0},
	{Name: "Settings", Key: 'x', KeyPos: -1}, // x is not in "Settings"
}

const tabSeparator = "  "

// TabLabel renders one tab, highlighting its shortcut unless it is active.
func TabLabel(tab Tab, active bool) string {
	t := theme.Active

	activeStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	inactiveStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	dimKeyStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	if active {
		return activeStyle.Render(tab.Name)
	}
	if tab.KeyPos >= 0 && tab.KeyPos < len(tab.Name) {
		before := tab.Name[:tab.KeyPos]
		key := string(tab.Name[tab.KeyPos])
		after := tab.Name[tab.KeyPos+1:]
		return inactiveStyle.Render(before) +
			dimKeyStyle.Render("[") + keyStyle.Render(key) + dimKeyStyle.Render("]") +
			inactiveStyle.Render(after)
	}
	return inactiveStyle.Render(tab.Name) +
		dimKeyStyle.Render("[") + keyStyle.Render(string(tab.Key)) + dimKeyStyle.Render("]")
}

// RenderTabBar renders the tab bar with the given active index.
func RenderTabBar(activeIdx int, width int) string {
	parts := make([]string, len(Tabs))
	for i, tab := range Tabs {
		parts[i] = TabLabel(tab, i == activeIdx)
	}
	bar := " " + strings.Join(parts, tabSeparator)
	return lipgloss.NewStyle().MaxWidth(width).Render(bar)
}

// TabAtX returns the tab index under screen column x of the tab bar, or -1.
// The active tab renders without its shortcut brackets, so it shifts the rest.
func TabAtX(x, activeIdx int) int {
	pos := 1 // leading space
	for i, tab := range Tabs {
		w := lipgloss.Width(TabLabel(tab, i == activeIdx))
		if x >= pos && x < pos+w {
			return i
		}
		pos += w + len(tabSeparator)
	}
	return -1
}

// TabIdxByKey returns the tab index for a given key press, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}
