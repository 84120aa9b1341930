package model

import "time"

// PacingStatus classifies the spend rate against the elapsed share of the campaign.
type PacingStatus string

const (
	PacingOnTrack               PacingStatus = "on-track"
	PacingSlightlyOverspending  PacingStatus = "slightly-overspending"
	PacingSlightlyUnderspending PacingStatus = "slightly-underspending"
	PacingOverspending          PacingStatus = "overspending"
	PacingUnderspending         PacingStatus = "underspending"
)

// Label returns the human-readable form of the status.
func (s PacingStatus) Label() string {
	switch s {
	case PacingOnTrack:
		return "On track"
	case PacingSlightlyOverspending:
		return "Slightly overspending"
	case PacingSlightlyUnderspending:
		return "Slightly underspending"
	case PacingOverspending:
		return "Overspending"
	case PacingUnderspending:
		return "Underspending"
	default:
		return string(s)
	}
}

// Pacing compares the spend rate to the time rate. 100 means perfectly on pace.
type Pacing struct {
	Percentage float64
	Status     PacingStatus
}

// DerivedMetrics holds everything computed from a CampaignPlan.
// Checkpoint fields are only meaningful when HasCheckpoint is true.
type DerivedMetrics struct {
	TotalDays   int
	DailyBudget float64

	HasCheckpoint       bool
	DaysElapsed         int
	DaysRemaining       int
	SpentAmount         float64
	RemainingBudget     float64
	AdjustedDailyBudget float64
	Pacing              *Pacing // nil when pacing is undefined

	DailyBurnRate     float64
	ProjectedSpend    float64
	ProjectedVariance float64 // projected minus total budget; positive means over
}

// DayPhase tags a schedule day relative to the checkpoint.
type DayPhase string

const (
	PhasePlanned    DayPhase = "planned"
	PhaseElapsed    DayPhase = "elapsed"
	PhaseCheckpoint DayPhase = "checkpoint"
	PhaseRemaining  DayPhase = "remaining"
)

// Label names the phase as schedules display it.
func (p DayPhase) Label() string {
	switch p {
	case PhaseElapsed:
		return "spent"
	case PhaseCheckpoint:
		return "checkpoint"
	case PhaseRemaining:
		return "adjusted"
	default:
		return "planned"
	}
}

// DayAllocation is one row of the day-by-day schedule.
type DayAllocation struct {
	Date        time.Time
	Planned     float64 // flat daily budget
	Recommended float64 // adjusted budget after the checkpoint, else Planned
	Cumulative  float64 // running total of Recommended (actual spend up to the checkpoint)
	Phase       DayPhase
}
