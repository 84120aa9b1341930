// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/adpace/internal/model"
)

// DateLayout is the long display form, e.g. "January 2, 2006".
const DateLayout = "January 2, 2006"

// Placeholder stands in for values that cannot be computed yet.
const Placeholder = "—"

// FormatCurrency formats a USD amount with two decimals and comma grouping.
// e.g., 0 -> "$0.00", 1234.5 -> "$1,234.50", -12 -> "-$12.00"
func FormatCurrency(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "$0.00"
	}

	d := decimal.NewFromFloat(amount).Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}

	fixed := d.StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")
	return sign + "$" + groupDigits(whole) + "." + frac
}

// FormatDate renders a calendar date in long form, or "" for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// FormatShortDate renders a date as "Jan 2".
func FormatShortDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2")
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}
	return groupDigits(strconv.FormatInt(n, 10))
}

func groupDigits(s string) string {
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatDays formats a day count with the right plural.
func FormatDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

// FormatPacing renders a pacing result as "120.0% (Overspending)", or
// Placeholder when pacing is undefined.
func FormatPacing(p *model.Pacing) string {
	if p == nil {
		return Placeholder
	}
	return fmt.Sprintf("%.1f%% (%s)", p.Percentage, p.Status.Label())
}

// FormatVariance formats a signed amount relative to budget.
// e.g., 200 -> "+$200.00", -35.5 -> "-$35.50"
func FormatVariance(v float64) string {
	if v >= 0 {
		return "+" + FormatCurrency(v)
	}
	return FormatCurrency(v)
}

// FormatDayOfWeek returns a 3-letter day abbreviation from a weekday number.
func FormatDayOfWeek(weekday int) string {
	days := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	if weekday >= 0 && weekday < 7 {
		return days[weekday]
	}
	return "???"
}
