package campaign

import (
	"fmt"
	"time"

	"github.com/theirongolddev/adpace/internal/budget"
	"github.com/theirongolddev/adpace/internal/model"
)

// Range variants for a new plan's default dates.
const (
	RangeVariantWeek  = "week"
	RangeVariantMonth = "month"
)

// QuickRanges lists the names accepted by QuickRange, in menu order.
var QuickRanges = []string{
	"this-month",
	"next-month",
	"next-7-days",
	"next-30-days",
	"rest-of-month",
}

// QuickRange resolves a named preset relative to today.
func QuickRange(name string, today time.Time) (start, end time.Time, err error) {
	today = budget.Day(today)
	switch name {
	case "this-month":
		start, end = monthBounds(today)
	case "next-month":
		start, end = monthBounds(firstOfMonth(today).AddDate(0, 1, 0))
	case "next-7-days":
		start, end = today, today.AddDate(0, 0, 6)
	case "next-30-days":
		start, end = today, today.AddDate(0, 0, 29)
	case "rest-of-month":
		_, last := monthBounds(today)
		start, end = today, last
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("unknown range %q (want one of %v)", name, QuickRanges)
	}
	return start, end, nil
}

// ApplyQuickRange sets the plan's dates to a named preset.
func (c Controller) ApplyQuickRange(p model.CampaignPlan, name string) (model.CampaignPlan, error) {
	start, end, err := QuickRange(name, c.Today())
	if err != nil {
		return p, err
	}
	return c.SetDateRange(p, start, end), nil
}

func firstOfMonth(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func monthBounds(d time.Time) (first, last time.Time) {
	first = firstOfMonth(d)
	last = first.AddDate(0, 1, -1)
	return first, last
}
