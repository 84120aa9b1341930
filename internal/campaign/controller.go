// Package campaign keeps a CampaignPlan internally consistent under field edits.
//
// Every Controller method takes the current plan and a new value and returns the
// corrected plan. Edits are never rejected: out-of-order dates and over-budget
// spend are pulled back into range instead.
package campaign

import (
	"math"
	"time"

	"github.com/theirongolddev/adpace/internal/budget"
	"github.com/theirongolddev/adpace/internal/model"
)

// CheckpointPolicy decides where the default checkpoint lands when tracking is
// switched on and yesterday falls outside the campaign.
type CheckpointPolicy string

const (
	// PolicyClampNearest moves yesterday to the nearer campaign bound.
	PolicyClampNearest CheckpointPolicy = "clamp"
	// PolicyFallbackStart uses the start date whenever yesterday is out of range.
	PolicyFallbackStart CheckpointPolicy = "start"
)

// ParsePolicy maps a config value to a policy, defaulting to PolicyClampNearest.
func ParsePolicy(s string) CheckpointPolicy {
	if CheckpointPolicy(s) == PolicyFallbackStart {
		return PolicyFallbackStart
	}
	return PolicyClampNearest
}

// DefaultBudget is the total budget of a freshly created plan.
const DefaultBudget = 1000.0

// Controller applies field edits to a plan. The zero value uses PolicyClampNearest
// and the wall clock.
type Controller struct {
	Policy CheckpointPolicy
	Now    func() time.Time
}

// New returns a Controller with the given checkpoint policy.
func New(policy CheckpointPolicy) Controller {
	return Controller{Policy: policy}
}

// Today returns the current calendar day.
func (c Controller) Today() time.Time {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return budget.Day(now())
}

// NewPlan builds a default plan for the given range variant ("week" or "month").
// A non-positive total falls back to DefaultBudget.
func (c Controller) NewPlan(variant string, total float64) model.CampaignPlan {
	if total <= 0 || math.IsNaN(total) {
		total = DefaultBudget
	}

	today := c.Today()
	p := model.CampaignPlan{TotalBudget: total}
	if variant == RangeVariantMonth {
		p.StartDate, p.EndDate = monthBounds(today)
	} else {
		p.StartDate, p.EndDate = today, today.AddDate(0, 0, 7)
	}
	return p
}

// SetStartDate moves the start, pulling the end and checkpoint forward if they
// would precede it.
func (c Controller) SetStartDate(p model.CampaignPlan, start time.Time) model.CampaignPlan {
	start = budget.Day(start)
	if start.IsZero() {
		return p
	}
	p.StartDate = start
	if p.EndDate.IsZero() || p.EndDate.Before(start) {
		p.EndDate = start
	}
	if !p.CheckpointDate.IsZero() && p.CheckpointDate.Before(start) {
		p.CheckpointDate = start
	}
	return p
}

// SetEndDate moves the end, pulling the start and checkpoint back if they
// would follow it.
func (c Controller) SetEndDate(p model.CampaignPlan, end time.Time) model.CampaignPlan {
	end = budget.Day(end)
	if end.IsZero() {
		return p
	}
	p.EndDate = end
	if p.StartDate.IsZero() || p.StartDate.After(end) {
		p.StartDate = end
	}
	if !p.CheckpointDate.IsZero() && p.CheckpointDate.After(end) {
		p.CheckpointDate = end
	}
	return p
}

// SetCheckpointDate moves the checkpoint within the campaign. Any change of
// date resets the spent amount, since it was measured through the old date.
// A zero date clears the checkpoint. Ignored while tracking is disabled.
func (c Controller) SetCheckpointDate(p model.CampaignPlan, cp time.Time) model.CampaignPlan {
	if !p.CheckpointEnabled {
		return p
	}

	cp = clampDay(budget.Day(cp), p.StartDate, p.EndDate)
	if !cp.Equal(p.CheckpointDate) {
		p.SpentAmount = 0
	}
	p.CheckpointDate = cp
	return p
}

// SetDateRange replaces both dates at once, as quick-select ranges do. A
// checkpoint that no longer fits is cleared together with the spent amount.
func (c Controller) SetDateRange(p model.CampaignPlan, start, end time.Time) model.CampaignPlan {
	start, end = budget.Day(start), budget.Day(end)
	if start.IsZero() || end.IsZero() {
		return p
	}
	if end.Before(start) {
		end = start
	}
	p.StartDate, p.EndDate = start, end

	if !p.CheckpointDate.IsZero() && (p.CheckpointDate.Before(start) || p.CheckpointDate.After(end)) {
		p.CheckpointDate = time.Time{}
		p.SpentAmount = 0
	}
	return p
}

// ToggleCheckpoint switches checkpoint tracking. Disabling forgets the
// checkpoint and spend; enabling places the checkpoint on yesterday, moved
// into the campaign according to the controller's policy. Enabling a plan that
// already has a checkpoint changes nothing.
func (c Controller) ToggleCheckpoint(p model.CampaignPlan, enabled bool) model.CampaignPlan {
	if !enabled {
		p.CheckpointEnabled = false
		p.CheckpointDate = time.Time{}
		p.SpentAmount = 0
		return p
	}
	if p.HasCheckpoint() {
		return p
	}

	p.CheckpointEnabled = true
	p.SpentAmount = 0
	p.CheckpointDate = c.defaultCheckpoint(p)
	return p
}

func (c Controller) defaultCheckpoint(p model.CampaignPlan) time.Time {
	yesterday := c.Today().AddDate(0, 0, -1)
	if p.StartDate.IsZero() || p.EndDate.IsZero() {
		return yesterday
	}

	inRange := !yesterday.Before(p.StartDate) && !yesterday.After(p.EndDate)
	if inRange {
		return yesterday
	}
	if c.Policy == PolicyFallbackStart {
		return p.StartDate
	}
	return clampDay(yesterday, p.StartDate, p.EndDate)
}

// SetBudget sets the total budget and clamps the spent amount down to it.
// Negative or NaN budgets become 0.
func (c Controller) SetBudget(p model.CampaignPlan, total float64) model.CampaignPlan {
	if math.IsNaN(total) || total < 0 {
		total = 0
	}
	p.TotalBudget = total
	if p.SpentAmount > total {
		p.SpentAmount = total
	}
	return p
}

// SetSpentAmount sets the spend through the checkpoint, clamped to [0, budget].
func (c Controller) SetSpentAmount(p model.CampaignPlan, spent float64) model.CampaignPlan {
	switch {
	case math.IsNaN(spent) || spent < 0:
		spent = 0
	case spent > p.TotalBudget:
		spent = p.TotalBudget
	}
	p.SpentAmount = spent
	return p
}

// clampDay limits d to [lo, hi]; unset bounds are ignored.
func clampDay(d, lo, hi time.Time) time.Time {
	if d.IsZero() {
		return d
	}
	if !lo.IsZero() && d.Before(lo) {
		return lo
	}
	if !hi.IsZero() && d.After(hi) {
		return hi
	}
	return d
}
