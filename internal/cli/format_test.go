package cli

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/adpace/internal/model"
)

func TestFormatCurrency(t *testing.T) {
	cases := map[float64]string{
		0:          "$0.00",
		1234.5:     "$1,234.50",
		1000.0 / 7: "$142.86",
		0.005:      "$0.01",
		999999.999: "$1,000,000.00",
		-12:        "-$12.00",
		80:         "$80.00",
	}
	for in, want := range cases {
		if got := FormatCurrency(in); got != want {
			t.Fatalf("FormatCurrency(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatCurrency_NaN(t *testing.T) {
	if got := FormatCurrency(math.NaN()); got != "$0.00" {
		t.Fatalf("FormatCurrency(NaN) = %q, want $0.00", got)
	}
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2025, time.March, 7, 0, 0, 0, 0, time.UTC)
	if got := FormatDate(d); got != "March 7, 2025" {
		t.Fatalf("FormatDate = %q, want %q", got, "March 7, 2025")
	}
	if got := FormatDate(time.Time{}); got != "" {
		t.Fatalf("FormatDate(zero) = %q, want empty", got)
	}
}

func TestFormatNumber(t *testing.T) {
	if got := FormatNumber(1234567); got != "1,234,567" {
		t.Fatalf("FormatNumber = %q", got)
	}
	if got := FormatNumber(-1000); got != "-1,000" {
		t.Fatalf("FormatNumber(-1000) = %q", got)
	}
	if got := FormatNumber(999); got != "999" {
		t.Fatalf("FormatNumber(999) = %q", got)
	}
}

func TestFormatDays(t *testing.T) {
	if got := FormatDays(1); got != "1 day" {
		t.Fatalf("FormatDays(1) = %q", got)
	}
	if got := FormatDays(0); got != "0 days" {
		t.Fatalf("FormatDays(0) = %q", got)
	}
}

func TestFormatPacing(t *testing.T) {
	if got := FormatPacing(nil); got != Placeholder {
		t.Fatalf("FormatPacing(nil) = %q, want placeholder", got)
	}
	got := FormatPacing(&model.Pacing{Percentage: 120, Status: model.PacingOverspending})
	if got != "120.0% (Overspending)" {
		t.Fatalf("FormatPacing = %q", got)
	}
}

func TestFormatVariance(t *testing.T) {
	if got := FormatVariance(200); got != "+$200.00" {
		t.Fatalf("FormatVariance(200) = %q", got)
	}
	if got := FormatVariance(-35.5); got != "-$35.50" {
		t.Fatalf("FormatVariance(-35.5) = %q", got)
	}
}

func TestParseDate(t *testing.T) {
	today := time.Date(2025, time.May, 20, 0, 0, 0, 0, time.UTC)
	want := time.Date(2025, time.May, 3, 0, 0, 0, 0, time.UTC)

	for _, in := range []string{"2025-05-03", "May 3, 2025", " 05/03/2025 "} {
		got, err := ParseDate(in, today)
		if err != nil {
			t.Fatalf("ParseDate(%q): %v", in, err)
		}
		if !got.Equal(want) {
			t.Fatalf("ParseDate(%q) = %s, want %s", in, got, want)
		}
	}

	got, err := ParseDate("Yesterday", today)
	if err != nil || !got.Equal(today.AddDate(0, 0, -1)) {
		t.Fatalf("ParseDate(yesterday) = %s, %v", got, err)
	}

	if _, err := ParseDate("next tuesday", today); err == nil {
		t.Fatal("ParseDate accepted an unknown format")
	}
	if _, err := ParseDate("", today); err == nil {
		t.Fatal("ParseDate accepted an empty string")
	}
}

func TestParseAmount(t *testing.T) {
	cases := map[string]float64{
		"":          0,
		"1000":      1000,
		"$1,250.50": 1250.5,
		" 42.129 ":  42.13,
	}
	for in, want := range cases {
		got, err := ParseAmount(in)
		if err != nil {
			t.Fatalf("ParseAmount(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseAmount(%q) = %v, want %v", in, got, want)
		}
	}

	if _, err := ParseAmount("-5"); !errors.Is(err, ErrNegativeAmount) {
		t.Fatalf("ParseAmount(-5) err = %v, want ErrNegativeAmount", err)
	}
	if _, err := ParseAmount("12abc"); err == nil {
		t.Fatal("ParseAmount accepted garbage")
	}
}

func TestRenderTable_SeparatorAndWidths(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Daily budget", "$142.86"},
			{"---"},
			{"Pacing", Placeholder},
		},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 7 {
		t.Fatalf("RenderTable produced %d lines, want 7:\n%s", len(lines), out)
	}
	width := len([]rune(stripANSI(lines[0])))
	for i, l := range lines {
		if n := len([]rune(stripANSI(l))); n != width {
			t.Fatalf("line %d width %d, want %d: %q", i, n, width, l)
		}
	}
}

func TestRenderBudgetBar(t *testing.T) {
	got := stripANSI(RenderBudgetBar(600, 1000, 10))
	if got != "[██████░░░░] $600.00 of $1,000.00" {
		t.Fatalf("RenderBudgetBar = %q", got)
	}
	if RenderBudgetBar(1, 0, 10) != "" {
		t.Fatal("RenderBudgetBar with zero budget should be empty")
	}
}

func TestRenderSparkline(t *testing.T) {
	if got := RenderSparkline([]float64{0, 50, 100}); got != "▁▄█" {
		t.Fatalf("RenderSparkline = %q", got)
	}
}

// stripANSI removes SGR escape sequences so widths can be compared.
func stripANSI(s string) string {
	var b strings.Builder
	inEsc := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEsc = true
		case inEsc && r == 'm':
			inEsc = false
		case !inEsc:
			b.WriteRune(r)
		}
	}
	return b.String()
}
