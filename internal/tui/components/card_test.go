package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/theirongolddev/adpace/internal/model"
	"github.com/theirongolddev/adpace/internal/tui/theme"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestLayoutRow(t *testing.T) {
	widths := LayoutRow(100, 3)
	if len(widths) != 3 {
		t.Fatalf("LayoutRow returned %d widths, want 3", len(widths))
	}
	sum := 0
	for _, w := range widths {
		sum += w
	}
	if sum != 100 {
		t.Fatalf("widths sum to %d, want 100", sum)
	}
	if widths[0] != 34 || widths[2] != 33 {
		t.Fatalf("remainder not given to first items: %v", widths)
	}
	if LayoutRow(10, 0) != nil {
		t.Fatal("LayoutRow(10, 0) should be nil")
	}
}

func TestCardRowBackgroundFill(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "Content", 22)
	tallCard := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)

	shortLines := len(strings.Split(shortCard, "\n"))
	tallLines := len(strings.Split(tallCard, "\n"))
	if shortLines >= tallLines {
		t.Fatal("test setup error: short card should be shorter than tall card")
	}

	joined := CardRow([]string{tallCard, shortCard})
	lines := strings.Split(joined, "\n")
	if len(lines) != tallLines {
		t.Fatalf("joined height = %d, want %d", len(lines), tallLines)
	}

	for i := shortLines; i < len(lines); i++ {
		if !strings.Contains(lines[i], "\x1b[") {
			t.Errorf("padding line %d has no ANSI styling: %q", i, lines[i])
		}
	}
}

func TestMetricCardRowWidth(t *testing.T) {
	theme.SetActive("flexoki-dark")

	row := MetricCardRow([]Metric{
		{Label: "Daily budget", Value: "$142.86"},
		{Label: "Remaining", Value: "$400.00", Detail: "5 days"},
		{Label: "Pacing", Value: "120%", Color: theme.Active.Bad},
	}, 90)

	for i, line := range strings.Split(row, "\n") {
		if w := lipgloss.Width(line); w != 90 {
			t.Fatalf("line %d width = %d, want 90", i, w)
		}
	}
}

func TestTabAtX(t *testing.T) {
	theme.SetActive("flexoki-dark")

	if got := TabAtX(1, 0); got != 0 {
		t.Fatalf("TabAtX(1) = %d, want 0 (Plan)", got)
	}
	if got := TabAtX(0, 0); got != -1 {
		t.Fatalf("TabAtX(0) = %d, want -1 (leading space)", got)
	}

	// Walk the rendered bar and check each label maps back to its own index.
	pos := 1
	for i, tab := range Tabs {
		w := lipgloss.Width(TabLabel(tab, i == 2))
		if got := TabAtX(pos+w-1, 2); got != i {
			t.Fatalf("TabAtX at end of %q = %d, want %d", tab.Name, got, i)
		}
		pos += w + len(tabSeparator)
	}
	if got := TabAtX(pos+50, 2); got != -1 {
		t.Fatalf("TabAtX past the bar = %d, want -1", got)
	}
}

func TestTabIdxByKey(t *testing.T) {
	if TabIdxByKey('d') != 1 || TabIdxByKey('x') != 3 || TabIdxByKey('z') != -1 {
		t.Fatal("TabIdxByKey returned wrong indexes")
	}
}

func TestPacingGaugeUndefined(t *testing.T) {
	out := PacingGauge(nil, 20)
	if !strings.Contains(out, "n/a") {
		t.Fatalf("PacingGauge(nil) = %q, want n/a label", out)
	}
	out = PacingGauge(&model.Pacing{Percentage: 120, Status: model.PacingOverspending}, 20)
	if !strings.Contains(out, "120%") {
		t.Fatalf("PacingGauge = %q, want 120%% label", out)
	}
}

func TestSpendChartFallsBackToSparkline(t *testing.T) {
	out := SpendChart([]Bar{{Value: 1}, {Value: 2}}, 10, 2)
	if strings.Contains(out, "│") {
		t.Fatalf("small chart should be a sparkline, got %q", out)
	}
	if SpendChart(nil, 80, 10) != "" {
		t.Fatal("empty chart should render nothing")
	}
}

func TestSpendChartHeight(t *testing.T) {
	theme.SetActive("flexoki-dark")
	bars := make([]Bar, 10)
	for i := range bars {
		bars[i] = Bar{Value: float64(50 + i*10), Label: "d", Color: theme.Active.Accent}
	}
	out := SpendChart(bars, 60, 8)
	lines := strings.Split(out, "\n")
	// 8 chart rows, axis line, label line.
	if len(lines) != 10 {
		t.Fatalf("SpendChart rendered %d lines, want 10:\n%s", len(lines), out)
	}
}
