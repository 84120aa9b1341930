package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNegativeAmount is returned by ParseAmount for values below zero.
var ErrNegativeAmount = errors.New("amount must not be negative")

var dateLayouts = []string{
	"2006-01-02",
	DateLayout,
	"Jan 2, 2006",
	"Jan 2 2006",
	"01/02/2006",
}

// ParseDate reads a calendar date. Besides the layouts above it accepts
// "today", "yesterday" and "tomorrow" relative to today.
func ParseDate(s string, today time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "":
		return time.Time{}, errors.New("empty date")
	case "today":
		return today, nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q (use YYYY-MM-DD)", s)
}

// ParseAmount reads a currency amount such as "1,250.50" or "$300".
// An empty string is 0.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	if d.IsNegative() {
		return 0, ErrNegativeAmount
	}
	return d.Round(2).InexactFloat64(), nil
}
