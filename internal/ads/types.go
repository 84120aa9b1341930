package ads

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for range bounds in CostData.
const DateLayout = "2006-01-02"

// Account is an ads account the token can read.
type Account struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CostData is the total spend of an account over an inclusive date range.
type CostData struct {
	Cost      float64 `json:"cost"`
	Currency  string  `json:"currency"`
	StartDate string  `json:"startDate"`
	EndDate   string  `json:"endDate"`
}

// Range parses the StartDate and EndDate fields.
func (c CostData) Range() (start, end time.Time, err error) {
	start, err = time.Parse(DateLayout, c.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("ads: parsing start date: %w", err)
	}
	end, err = time.Parse(DateLayout, c.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("ads: parsing end date: %w", err)
	}
	return start, end, nil
}

// AccountsData is the TUI-ready result of an accounts lookup.
type AccountsData struct {
	Accounts  []Account
	FetchedAt time.Time
	Error     error
}
