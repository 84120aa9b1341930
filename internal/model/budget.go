package model

import "time"

// CampaignPlan holds the user-editable inputs of a campaign.
// Dates are calendar days normalized to UTC midnight; a zero time means unset.
type CampaignPlan struct {
	StartDate   time.Time
	EndDate     time.Time
	TotalBudget float64

	CheckpointEnabled bool
	CheckpointDate    time.Time
	SpentAmount       float64
}

// HasCheckpoint reports whether checkpoint tracking is on and a date is chosen.
func (p CampaignPlan) HasCheckpoint() bool {
	return p.CheckpointEnabled && !p.CheckpointDate.IsZero()
}

// Complete reports whether the plan has enough input to compute a daily budget.
func (p CampaignPlan) Complete() bool {
	return !p.StartDate.IsZero() && !p.EndDate.IsZero() && p.TotalBudget > 0
}
