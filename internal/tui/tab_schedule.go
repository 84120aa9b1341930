package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/adpace/internal/cli"
	"github.com/theirongolddev/adpace/internal/model"
	"github.com/theirongolddev/adpace/internal/tui/components"
	"github.com/theirongolddev/adpace/internal/tui/theme"
)

const scheduleChartHeight = 8

// scheduleState tracks the first visible row of the schedule table.
type scheduleState struct {
	offset int
}

func (a App) updateScheduleKeys(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "j", "down":
		if a.sched.offset < len(a.schedule)-1 {
			a.sched.offset++
		}
	case "k", "up":
		if a.sched.offset > 0 {
			a.sched.offset--
		}
	case "g":
		a.sched.offset = 0
	case "G":
		a.sched.offset = max(len(a.schedule)-1, 0)
	}
	return a, nil
}

// phaseColor colors a schedule day by where it falls relative to the checkpoint.
func phaseColor(t theme.Theme, ph model.DayPhase) lipgloss.Color {
	switch ph {
	case model.PhaseElapsed:
		return t.TextMuted
	case model.PhaseCheckpoint:
		return t.Warn
	case model.PhaseRemaining:
		return t.Accent
	default:
		return t.Info
	}
}

func (a App) renderScheduleTab(cw, h int) string {
	t := theme.Active

	if len(a.schedule) == 0 {
		dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
		return components.ContentCard("Schedule",
			dim.Render("Enter a budget above zero and both dates on the Plan tab to see a schedule."), cw)
	}

	var b strings.Builder

	innerW := components.CardInnerWidth(cw)
	bars := make([]components.Bar, len(a.schedule))
	for i, d := range a.schedule {
		bars[i] = components.Bar{
			Value: d.Recommended,
			Label: d.Date.Format("Jan 2"),
			Color: phaseColor(t, d.Phase),
		}
	}
	title := fmt.Sprintf("Daily Spend  %s over %s", cli.FormatCurrency(a.plan.TotalBudget), cli.FormatDays(len(a.schedule)))
	b.WriteString(components.ContentCard(title, components.SpendChart(bars, innerW, scheduleChartHeight), cw))
	b.WriteString("\n")

	// Whatever height is left goes to the table: chart card, card borders,
	// title, header and rule.
	chartH := lipgloss.Height(b.String())
	rowsH := max(h-chartH-5, 1)
	b.WriteString(components.ContentCard("Days", a.renderScheduleTable(innerW, rowsH), cw))

	return b.String()
}

func (a App) renderScheduleTable(innerW, maxRows int) string {
	t := theme.Active

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	const row = "%-12s %-4s %-11s %12s %12s %13s"

	var body strings.Builder
	body.WriteString(headerStyle.Render(fmt.Sprintf(row, "Date", "Day", "Phase", "Planned", "Spend", "Cumulative")))
	body.WriteString("\n")
	body.WriteString(mutedStyle.Render(strings.Repeat("─", innerW)))

	start := min(a.sched.offset, len(a.schedule))
	end := min(start+maxRows, len(a.schedule))
	for _, d := range a.schedule[start:end] {
		phaseStyle := lipgloss.NewStyle().Foreground(phaseColor(t, d.Phase)).Background(t.Surface)
		body.WriteString("\n")
		body.WriteString(valueStyle.Render(fmt.Sprintf("%-12s %-4s ",
			d.Date.Format(isoDate), cli.FormatDayOfWeek(int(d.Date.Weekday())))))
		body.WriteString(phaseStyle.Render(fmt.Sprintf("%-11s", d.Phase.Label())))
		body.WriteString(valueStyle.Render(fmt.Sprintf(" %12s %12s %13s",
			cli.FormatCurrency(d.Planned),
			cli.FormatCurrency(d.Recommended),
			cli.FormatCurrency(d.Cumulative))))
	}

	if end < len(a.schedule) || start > 0 {
		body.WriteString("\n")
		body.WriteString(mutedStyle.Render(fmt.Sprintf("%d-%d of %d", start+1, end, len(a.schedule))))
	}

	return body.String()
}
