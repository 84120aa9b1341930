// Package budget computes daily budgets, checkpoint metrics and pacing for a campaign plan.
// Every function is pure; callers recompute on each change instead of caching results.
package budget

import (
	"math"
	"time"

	"github.com/theirongolddev/adpace/internal/model"
)

const day = 24 * time.Hour

// Pacing thresholds, in percentage points of deviation from 100.
const (
	onTrackBand  = 5.0
	slightlyBand = 10.0
)

// Day truncates t to midnight UTC of its calendar date. The zero time stays zero.
func Day(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the inclusive number of calendar days from start to end.
// The same day counts as 1. A reversed range yields 0 or less.
func DaysBetween(start, end time.Time) int {
	diff := Day(end).Sub(Day(start))
	return int(math.Floor(float64(diff)/float64(day))) + 1
}

// DatesBetween lists every calendar day from start to end inclusive.
func DatesBetween(start, end time.Time) []time.Time {
	n := DaysBetween(start, end)
	if n <= 0 {
		return nil
	}
	dates := make([]time.Time, 0, n)
	d := Day(start)
	for i := 0; i < n; i++ {
		dates = append(dates, d)
		d = d.AddDate(0, 0, 1)
	}
	return dates
}

// DailyBudget spreads total evenly over the inclusive range.
// Returns 0 when either date is unset or the range is empty.
func DailyBudget(total float64, start, end time.Time) float64 {
	if start.IsZero() || end.IsZero() {
		return 0
	}
	days := DaysBetween(start, end)
	if days <= 0 {
		return 0
	}
	return total / float64(days)
}

// ClassifyPacing compares the share of budget spent to the share of days elapsed.
// Returns nil when the ratio is undefined (no elapsed time or no budget).
func ClassifyPacing(daysElapsed, totalDays int, spent, total float64) *model.Pacing {
	if totalDays <= 0 || total <= 0 || daysElapsed <= 0 {
		return nil
	}
	timeRatio := float64(daysElapsed) / float64(totalDays)
	spendRatio := spent / total
	pct := spendRatio / timeRatio * 100

	return &model.Pacing{
		Percentage: pct,
		Status:     statusFor(pct - 100),
	}
}

func statusFor(deviation float64) model.PacingStatus {
	switch {
	case math.Abs(deviation) <= onTrackBand:
		return model.PacingOnTrack
	case deviation > slightlyBand:
		return model.PacingOverspending
	case deviation > onTrackBand:
		return model.PacingSlightlyOverspending
	case deviation < -slightlyBand:
		return model.PacingUnderspending
	default:
		return model.PacingSlightlyUnderspending
	}
}

// Derive computes all metrics for p. ok is false when the plan is incomplete
// (missing dates, a non-positive budget or a reversed range), which callers
// render as "no result".
func Derive(p model.CampaignPlan) (m model.DerivedMetrics, ok bool) {
	if !p.Complete() {
		return model.DerivedMetrics{}, false
	}

	start, end := Day(p.StartDate), Day(p.EndDate)
	m.TotalDays = DaysBetween(start, end)
	if m.TotalDays <= 0 {
		return model.DerivedMetrics{}, false
	}
	m.DailyBudget = p.TotalBudget / float64(m.TotalDays)

	if !p.HasCheckpoint() {
		return m, true
	}

	cp := Day(p.CheckpointDate)
	spent := sanitizeAmount(p.SpentAmount)

	m.HasCheckpoint = true
	m.DaysElapsed = max(0, DaysBetween(start, cp))
	m.DaysRemaining = max(0, DaysBetween(cp.AddDate(0, 0, 1), end))
	m.SpentAmount = spent
	m.RemainingBudget = math.Max(0, p.TotalBudget-spent)
	if m.DaysRemaining > 0 {
		m.AdjustedDailyBudget = m.RemainingBudget / float64(m.DaysRemaining)
	}
	m.Pacing = ClassifyPacing(m.DaysElapsed, m.TotalDays, spent, p.TotalBudget)

	if m.DaysElapsed > 0 {
		m.DailyBurnRate = spent / float64(m.DaysElapsed)
		m.ProjectedSpend = m.DailyBurnRate * float64(m.TotalDays)
		m.ProjectedVariance = m.ProjectedSpend - p.TotalBudget
	}

	return m, true
}

// Schedule lays out the plan day by day. Before a checkpoint every day carries the
// flat daily budget; with a checkpoint, days up to it carry the observed average
// spend and later days the adjusted budget. Returns nil for an incomplete plan.
func Schedule(p model.CampaignPlan) []model.DayAllocation {
	m, ok := Derive(p)
	if !ok {
		return nil
	}

	dates := DatesBetween(p.StartDate, p.EndDate)
	rows := make([]model.DayAllocation, 0, len(dates))
	cp := Day(p.CheckpointDate)

	var cumulative float64
	for _, d := range dates {
		row := model.DayAllocation{
			Date:        d,
			Planned:     m.DailyBudget,
			Recommended: m.DailyBudget,
			Phase:       model.PhasePlanned,
		}

		if m.HasCheckpoint {
			switch {
			case d.Before(cp):
				row.Phase = model.PhaseElapsed
				row.Recommended = m.DailyBurnRate
			case d.Equal(cp):
				row.Phase = model.PhaseCheckpoint
				row.Recommended = m.DailyBurnRate
			default:
				row.Phase = model.PhaseRemaining
				row.Recommended = m.AdjustedDailyBudget
			}
		}

		cumulative += row.Recommended
		row.Cumulative = cumulative
		rows = append(rows, row)
	}

	return rows
}

func sanitizeAmount(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}
