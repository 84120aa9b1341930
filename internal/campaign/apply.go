package campaign

import (
	"time"

	"github.com/theirongolddev/adpace/internal/budget"
	"github.com/theirongolddev/adpace/internal/model"
)

// FetchedSpend is a spend figure reported by an external source for a date range.
type FetchedSpend struct {
	Cost  float64
	Start time.Time
	End   time.Time
}

// RangeFor returns the range a spend fetch should cover for p: campaign start
// through the checkpoint. ok is false when p has no checkpoint.
func RangeFor(p model.CampaignPlan) (start, end time.Time, ok bool) {
	if !p.HasCheckpoint() || p.StartDate.IsZero() {
		return time.Time{}, time.Time{}, false
	}
	return p.StartDate, p.CheckpointDate, true
}

// ApplyFetchedSpend writes a fetched cost into the plan through SetSpentAmount.
// A plan without a checkpoint never accepts it. With discardStale, a result whose
// range no longer matches the plan's start and checkpoint is dropped; otherwise it
// is applied to the current plan as is. applied reports whether the cost was written.
func (c Controller) ApplyFetchedSpend(p model.CampaignPlan, f FetchedSpend, discardStale bool) (_ model.CampaignPlan, applied bool) {
	start, end, ok := RangeFor(p)
	if !ok {
		return p, false
	}
	if discardStale && IsStale(start, end, f) {
		return p, false
	}
	return c.SetSpentAmount(p, f.Cost), true
}

// IsStale reports whether f was requested for a range other than [start, end].
func IsStale(start, end time.Time, f FetchedSpend) bool {
	return !budget.Day(f.Start).Equal(budget.Day(start)) || !budget.Day(f.End).Equal(budget.Day(end))
}
