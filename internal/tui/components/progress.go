package components

import (
	"fmt"
	"math"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/adpace/internal/model"
	"github.com/theirongolddev/adpace/internal/tui/theme"
)

// BudgetBar renders a labeled bar of spent versus total budget.
func BudgetBar(label string, spent, total float64, labelW, barWidth int) string {
	t := theme.Active

	used := 0.0
	if total > 0 {
		used = spent / total
	}
	fill := math.Min(math.Max(used, 0), 1)
	color := t.UsageColor(used)

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) +
		spaceStyle.Render(" ") +
		bar.ViewAs(fill) +
		spaceStyle.Render(" ") +
		pctStyle.Render(fmt.Sprintf("%3.0f%%", used*100))
}

// PacingGauge renders pacing on a 0-200% scale; the midpoint marks a perfect pace.
// Undefined pacing renders an empty gauge.
func PacingGauge(p *model.Pacing, barWidth int) string {
	t := theme.Active
	color := t.PacingColor(p)

	pos := 0.0
	label := "n/a"
	if p != nil {
		pos = math.Min(math.Max(p.Percentage/200, 0), 1)
		label = fmt.Sprintf("%.0f%%", p.Percentage)
	}

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	markStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	half := barWidth / 2
	scale := markStyle.Render(fmt.Sprintf("%-*s%s", half, "0%", "100%"))

	return bar.ViewAs(pos) + spaceStyle.Render(" ") + pctStyle.Render(label) + "\n" + scale
}
