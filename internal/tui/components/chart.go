package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/adpace/internal/tui/theme"
)

// Bar is one column of a SpendChart.
type Bar struct {
	Value float64
	Label string
	Color lipgloss.Color
}

// Sparkline renders a unicode sparkline from values.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	peak := values[0]
	for _, v := range values[1:] {
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		peak = 1
	}

	style := lipgloss.NewStyle().Foreground(color).Background(t.Surface)

	var buf strings.Builder
	for _, v := range values {
		idx := int(v / peak * float64(len(blocks)-1))
		idx = min(max(idx, 0), len(blocks)-1)
		buf.WriteRune(blocks[idx])
	}

	return style.Render(buf.String())
}

// SpendChart renders daily amounts as vertical bars with a dollar y-axis.
// Each bar keeps its own color so phases of a schedule stay distinguishable.
// When the area is too small it falls back to a sparkline.
func SpendChart(bars []Bar, width, height int) string {
	if len(bars) == 0 {
		return ""
	}
	t := theme.Active
	if width < 15 || height < 3 {
		values := make([]float64, len(bars))
		for i, b := range bars {
			values[i] = b.Value
		}
		return Sparkline(values, t.Accent)
	}

	maxVal := 0.0
	for _, b := range bars {
		maxVal = math.Max(maxVal, b.Value)
	}
	if maxVal == 0 {
		maxVal = 1
	}

	tickStep := chartTickStep(maxVal)
	maxIntervals := max(height/2, 2)
	for int(math.Ceil(maxVal/tickStep)) > maxIntervals {
		tickStep *= 2
	}
	ceiling := math.Ceil(maxVal/tickStep) * tickStep
	numIntervals := max(int(math.Round(ceiling/tickStep)), 1)
	rowsPerTick := max(height/numIntervals, 2)
	chartH := rowsPerTick * numIntervals

	yLabelW := max(len(formatChartLabel(ceiling))+1, 5)
	tickLabels := make(map[int]string, numIntervals)
	for i := 1; i <= numIntervals; i++ {
		tickLabels[i*rowsPerTick] = formatChartLabel(tickStep * float64(i))
	}

	chartW := max(width-yLabelW-1, 5)
	bars = fitBars(bars, chartW)
	n := len(bars)

	gap := 1
	if n <= 1 {
		gap = 0
	}
	barW := chartW
	if n > 1 {
		barW = (chartW - (n - 1)) / n
	}
	barW = min(max(barW, 1), 6)
	axisLen := n*barW + max(0, n-1)*gap

	blocks := []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	blank := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	for row := chartH; row >= 1; row-- {
		rowTop := ceiling * float64(row) / float64(chartH)
		rowBottom := ceiling * float64(row-1) / float64(chartH)

		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, tickLabels[row])))
		b.WriteString(axisStyle.Render("│"))

		for i, bar := range bars {
			if i > 0 && gap > 0 {
				b.WriteString(blank.Render(strings.Repeat(" ", gap)))
			}
			style := lipgloss.NewStyle().Foreground(bar.Color).Background(t.Surface)
			switch {
			case bar.Value >= rowTop:
				b.WriteString(style.Render(strings.Repeat("█", barW)))
			case bar.Value > rowBottom:
				idx := int((bar.Value - rowBottom) / (rowTop - rowBottom) * 8)
				idx = min(max(idx, 1), 8)
				b.WriteString(style.Render(strings.Repeat(string(blocks[idx]), barW)))
			default:
				b.WriteString(blank.Render(strings.Repeat(" ", barW)))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, "$0")))
	b.WriteString(axisStyle.Render("└"))
	b.WriteString(axisStyle.Render(strings.Repeat("─", axisLen)))

	if labels := axisLabels(bars, barW, gap, axisLen); labels != "" {
		b.WriteString("\n")
		b.WriteString(blank.Render(strings.Repeat(" ", yLabelW+1)))
		b.WriteString(axisStyle.Render(labels))
	}

	return b.String()
}

// fitBars samples bars evenly when they cannot all be drawn at least one cell wide.
func fitBars(bars []Bar, chartW int) []Bar {
	n := len(bars)
	maxN := (chartW + 1) / 2
	if n <= maxN || maxN < 2 {
		return bars
	}
	sampled := make([]Bar, maxN)
	for i := range sampled {
		sampled[i] = bars[i*(n-1)/(maxN-1)]
	}
	return sampled
}

// axisLabels places the first, last and evenly spaced labels under the bars
// without letting them overlap.
func axisLabels(bars []Bar, barW, gap, axisLen int) string {
	n := len(bars)
	if n == 0 || bars[0].Label == "" {
		return ""
	}

	buf := []rune(strings.Repeat(" ", axisLen))
	place := func(pos int, lbl string) bool {
		r := []rune(lbl)
		if pos < 0 || pos+len(r) > axisLen {
			return false
		}
		copy(buf[pos:], r)
		return true
	}

	step := max(1, (n*8)/(axisLen+1))
	lastEnd := -1
	for i := 0; i < n; i += step {
		pos := i * (barW + gap)
		if pos <= lastEnd {
			continue
		}
		if place(pos, bars[i].Label) {
			lastEnd = pos + len([]rune(bars[i].Label))
		}
	}

	last := bars[n-1].Label
	pos := axisLen - len([]rune(last))
	if n > 1 && pos > lastEnd {
		place(pos, last)
	}

	return strings.TrimRight(string(buf), " ")
}

// chartTickStep computes a nice tick interval targeting ~5 ticks.
func chartTickStep(maxVal float64) float64 {
	if maxVal <= 0 {
		return 1
	}
	rough := maxVal / 5
	exp := math.Floor(math.Log10(rough))
	base := math.Pow(10, exp)
	frac := rough / base

	switch {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}

func formatChartLabel(v float64) string {
	switch {
	case v >= 1e6:
		return fmt.Sprintf("$%.1fM", v/1e6)
	case v >= 1e3:
		if v == math.Trunc(v/1e3)*1e3 {
			return fmt.Sprintf("$%.0fk", v/1e3)
		}
		return fmt.Sprintf("$%.1fk", v/1e3)
	case v >= 1:
		return fmt.Sprintf("$%.0f", v)
	default:
		return fmt.Sprintf("$%.2f", v)
	}
}
