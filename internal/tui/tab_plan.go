package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/theirongolddev/adpace/internal/campaign"
	"github.com/theirongolddev/adpace/internal/cli"
	"github.com/theirongolddev/adpace/internal/logger"
	"github.com/theirongolddev/adpace/internal/tui/components"
	"github.com/theirongolddev/adpace/internal/tui/theme"
)

const isoDate = "2006-01-02"

const (
	planFieldStart = iota
	planFieldEnd
	planFieldBudget
	planFieldCheckpoint
	planFieldCheckpointDate
	planFieldSpent
	planFieldCount // sentinel
)

// planState tracks the plan tab's field cursor and inline editor.
type planState struct {
	cursor  int
	editing bool
	input   textinput.Model
}

// planFieldEnabled reports whether a field accepts input. Checkpoint fields
// are locked while tracking is off.
func (a App) planFieldEnabled(field int) bool {
	switch field {
	case planFieldCheckpointDate, planFieldSpent:
		return a.plan.CheckpointEnabled
	}
	return true
}

func (a App) updatePlanKeys(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "j", "down":
		if a.planState.cursor < planFieldCount-1 {
			a.planState.cursor++
		}
	case "k", "up":
		if a.planState.cursor > 0 {
			a.planState.cursor--
		}
	case " ":
		a.toggleCheckpoint()
	case "enter":
		if a.planState.cursor == planFieldCheckpoint {
			a.toggleCheckpoint()
			return a, nil
		}
		if !a.planFieldEnabled(a.planState.cursor) {
			a.setStatus("Turn on checkpoint tracking first (Space)", true)
			return a, nil
		}
		return a.planStartEdit()
	case "[":
		a.shiftPlanDate(-1)
	case "]":
		a.shiftPlanDate(1)
	case "1", "2", "3", "4", "5":
		idx := int(key[0] - '1')
		if idx < len(campaign.QuickRanges) {
			a.applyQuickRange(campaign.QuickRanges[idx])
		}
	}
	return a, nil
}

func (a *App) toggleCheckpoint() {
	a.setPlan(a.ctrl.ToggleCheckpoint(a.plan, !a.plan.CheckpointEnabled))
	if a.plan.CheckpointEnabled {
		a.setStatus("Checkpoint set to "+cli.FormatDate(a.plan.CheckpointDate), false)
	} else {
		a.setStatus("Checkpoint tracking off", false)
	}
}

func (a *App) applyQuickRange(name string) {
	p, err := a.ctrl.ApplyQuickRange(a.plan, name)
	if err != nil {
		a.setStatus(err.Error(), true)
		return
	}
	a.setPlan(p)
	a.setStatus(fmt.Sprintf("Range %s: %s to %s", name,
		cli.FormatShortDate(p.StartDate), cli.FormatShortDate(p.EndDate)), false)
}

// shiftPlanDate moves the date under the cursor by delta days.
func (a *App) shiftPlanDate(delta int) {
	p := a.plan
	today := a.ctrl.Today()
	from := func(d time.Time) time.Time {
		if d.IsZero() {
			return today
		}
		return d.AddDate(0, 0, delta)
	}

	switch a.planState.cursor {
	case planFieldStart:
		p = a.ctrl.SetStartDate(p, from(p.StartDate))
	case planFieldEnd:
		p = a.ctrl.SetEndDate(p, from(p.EndDate))
	case planFieldCheckpointDate:
		p = a.ctrl.SetCheckpointDate(p, from(p.CheckpointDate))
	default:
		return
	}
	a.setPlan(p)
}

func (a App) planStartEdit() (tea.Model, tea.Cmd) {
	ti := textinput.New()
	ti.CharLimit = 32
	ti.Width = 24

	formatDate := func(d time.Time) string {
		if d.IsZero() {
			return ""
		}
		return d.Format(isoDate)
	}

	switch a.planState.cursor {
	case planFieldStart:
		ti.Placeholder = "YYYY-MM-DD or today"
		ti.SetValue(formatDate(a.plan.StartDate))
	case planFieldEnd:
		ti.Placeholder = "YYYY-MM-DD or tomorrow"
		ti.SetValue(formatDate(a.plan.EndDate))
	case planFieldBudget:
		ti.Placeholder = "1000"
		ti.SetValue(strconv.FormatFloat(a.plan.TotalBudget, 'f', 2, 64))
	case planFieldCheckpointDate:
		ti.Placeholder = "YYYY-MM-DD or yesterday (empty clears)"
		ti.SetValue(formatDate(a.plan.CheckpointDate))
	case planFieldSpent:
		ti.Placeholder = "0.00"
		ti.SetValue(strconv.FormatFloat(a.plan.SpentAmount, 'f', 2, 64))
	}

	ti.Focus()
	a.planState.input = ti
	a.planState.editing = true
	return a, ti.Cursor.BlinkCmd()
}

func (a App) updatePlanInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.planState.editing = false
		if err := a.applyPlanInput(a.planState.input.Value()); err != nil {
			a.setStatus(err.Error(), true)
		}
		return a, nil
	case "esc":
		a.planState.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.planState.input, cmd = a.planState.input.Update(msg)
	return a, cmd
}

// applyPlanInput parses val for the field under the cursor and routes it
// through the controller. Out-of-range values are corrected, not rejected;
// only unparsable input is an error.
func (a *App) applyPlanInput(val string) error {
	val = strings.TrimSpace(val)
	today := a.ctrl.Today()
	p := a.plan

	switch a.planState.cursor {
	case planFieldStart, planFieldEnd:
		d, err := cli.ParseDate(val, today)
		if err != nil {
			return err
		}
		if a.planState.cursor == planFieldStart {
			p = a.ctrl.SetStartDate(p, d)
		} else {
			p = a.ctrl.SetEndDate(p, d)
		}
	case planFieldCheckpointDate:
		var d time.Time
		if val != "" {
			var err error
			if d, err = cli.ParseDate(val, today); err != nil {
				return err
			}
		}
		p = a.ctrl.SetCheckpointDate(p, d)
	case planFieldBudget:
		v, err := cli.ParseAmount(val)
		if err != nil {
			return err
		}
		p = a.ctrl.SetBudget(p, v)
	case planFieldSpent:
		v, err := cli.ParseAmount(val)
		if err != nil {
			return err
		}
		p = a.ctrl.SetSpentAmount(p, v)
		if p.SpentAmount != v {
			logger.Log.WithFields(logrus.Fields{
				"requested": v,
				"applied":   p.SpentAmount,
			}).Debug("Spent amount adjusted to fit budget")
			a.setStatus("Spent capped at the total budget", false)
		}
	}

	a.setPlan(p)
	return nil
}

func (a App) renderPlanTab(cw int) string {
	t := theme.Active
	m := a.metrics

	var b strings.Builder

	metrics := []components.Metric{
		{Label: "Daily Budget", Value: cli.Placeholder},
		{Label: "Duration", Value: cli.Placeholder},
		{Label: "Total Budget", Value: cli.FormatCurrency(a.plan.TotalBudget)},
	}
	if a.complete {
		metrics[0].Value = cli.FormatCurrency(m.DailyBudget)
		metrics[0].Color = t.Info
		metrics[1].Value = cli.FormatDays(m.TotalDays)
		metrics[1].Detail = cli.FormatShortDate(a.plan.StartDate) + " to " + cli.FormatShortDate(a.plan.EndDate)
	}
	if a.complete && m.HasCheckpoint {
		adjusted := cli.FormatCurrency(m.AdjustedDailyBudget)
		if m.DaysRemaining == 0 {
			adjusted = cli.Placeholder
		}
		pacing := components.Metric{Label: "Pacing", Value: cli.Placeholder, Color: t.PacingColor(m.Pacing)}
		if m.Pacing != nil {
			pacing.Value = cli.FormatPercent(m.Pacing.Percentage / 100)
			pacing.Detail = m.Pacing.Status.Label()
		}
		metrics = append(metrics,
			components.Metric{
				Label:  "Adjusted Daily",
				Value:  adjusted,
				Detail: cli.FormatDays(m.DaysRemaining) + " left",
				Color:  t.Accent,
			},
			pacing,
		)
	}
	b.WriteString(components.MetricCardRow(metrics, cw))
	b.WriteString("\n")

	b.WriteString(components.ContentCard("Campaign", a.renderPlanForm(cw), cw))

	if a.complete && m.HasCheckpoint {
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Checkpoint", a.renderPacing(cw), cw))
	}

	return b.String()
}

func (a App) renderPlanForm(cw int) string {
	t := theme.Active

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceHover).Bold(true)
	selectedLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceHover).Bold(true)
	markerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceHover)
	accentStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)

	dateValue := func(d time.Time) string {
		if d.IsZero() {
			return cli.Placeholder
		}
		return cli.FormatDate(d)
	}
	tracking := "off"
	if a.plan.CheckpointEnabled {
		tracking = "on"
	}

	fields := []struct{ label, value string }{
		{"Start date", dateValue(a.plan.StartDate)},
		{"End date", dateValue(a.plan.EndDate)},
		{"Total budget", cli.FormatCurrency(a.plan.TotalBudget)},
		{"Checkpoint", tracking},
		{"Checkpoint date", dateValue(a.plan.CheckpointDate)},
		{"Spent so far", cli.FormatCurrency(a.plan.SpentAmount)},
	}

	innerW := components.CardInnerWidth(cw)

	var body strings.Builder
	for i, f := range fields {
		label := fmt.Sprintf("%-16s ", f.label+":")

		switch {
		case a.planState.editing && i == a.planState.cursor:
			body.WriteString(markerStyle.Render("▸ "))
			body.WriteString(accentStyle.Render(label))
			body.WriteString(a.planState.input.View())
		case i == a.planState.cursor:
			line := markerStyle.Render("▸ ") + selectedLabelStyle.Render(label) + selectedStyle.Render(f.value)
			body.WriteString(line)
			if pad := innerW - lipgloss.Width(line); pad > 0 {
				body.WriteString(lipgloss.NewStyle().Background(t.SurfaceHover).Render(strings.Repeat(" ", pad)))
			}
		case !a.planFieldEnabled(i):
			body.WriteString(dimStyle.Render("  " + label + f.value))
		default:
			body.WriteString(labelStyle.Render("  " + label))
			body.WriteString(valueStyle.Render(f.value))
		}
		body.WriteString("\n")
	}

	if !a.complete {
		body.WriteString("\n")
		body.WriteString(dimStyle.Render("Enter a budget above zero and both dates to see the daily spend."))
		body.WriteString("\n")
	}

	ranges := make([]string, len(campaign.QuickRanges))
	for i, name := range campaign.QuickRanges {
		ranges[i] = fmt.Sprintf("[%d] %s", i+1, name)
	}
	body.WriteString("\n")
	body.WriteString(dimStyle.Render(strings.Join(ranges, "  ")))

	return body.String()
}

func (a App) renderPacing(cw int) string {
	t := theme.Active
	m := a.metrics

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	varianceStyle := lipgloss.NewStyle().Foreground(t.Good).Background(t.Surface)
	if m.ProjectedVariance > 0 {
		varianceStyle = varianceStyle.Foreground(t.Bad)
	}

	innerW := components.CardInnerWidth(cw)
	barW := max(innerW-24, 10)

	var b strings.Builder
	b.WriteString(components.BudgetBar("Spent", m.SpentAmount, a.plan.TotalBudget, 14, barW))
	b.WriteString("\n\n")
	b.WriteString(components.PacingGauge(m.Pacing, barW))
	b.WriteString("\n\n")

	rows := []struct{ label, value string }{
		{"Days elapsed", cli.FormatDays(m.DaysElapsed)},
		{"Remaining budget", cli.FormatCurrency(m.RemainingBudget)},
		{"Burn rate", cli.FormatCurrency(m.DailyBurnRate) + "/day"},
	}
	for _, r := range rows {
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-18s", r.label)))
		b.WriteString(valueStyle.Render(r.value))
		b.WriteString("\n")
	}
	b.WriteString(labelStyle.Render(fmt.Sprintf("%-18s", "Projected total")))
	b.WriteString(valueStyle.Render(cli.FormatCurrency(m.ProjectedSpend) + " "))
	b.WriteString(varianceStyle.Render("(" + cli.FormatVariance(m.ProjectedVariance) + ")"))

	return b.String()
}
