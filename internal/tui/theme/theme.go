// Package theme defines color themes for the adpace TUI.
package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/adpace/internal/model"
)

// Theme defines the color roles used throughout the TUI.
type Theme struct {
	Name         string
	Background   lipgloss.Color // Main app background
	Surface      lipgloss.Color // Card/panel backgrounds
	SurfaceHover lipgloss.Color // Selected row, active tab
	Border       lipgloss.Color
	BorderAccent lipgloss.Color // Focused field
	TextDim      lipgloss.Color // Hints, disabled fields
	TextMuted    lipgloss.Color // Labels
	TextPrimary  lipgloss.Color
	Accent       lipgloss.Color
	AccentDim    lipgloss.Color
	Good         lipgloss.Color // On track
	Warn         lipgloss.Color // Slightly off pace
	Bad          lipgloss.Color // Off pace, errors
	Info         lipgloss.Color // Amounts
}

// Active is the currently selected theme.
var Active = FlexokiDark

// FlexokiDark is the default theme - warm, paper-inspired dark theme.
var FlexokiDark = Theme{
	Name:         "flexoki-dark",
	Background:   lipgloss.Color("#100F0F"),
	Surface:      lipgloss.Color("#1C1B1A"),
	SurfaceHover: lipgloss.Color("#282726"),
	Border:       lipgloss.Color("#403E3C"),
	BorderAccent: lipgloss.Color("#3AA99F"),
	TextDim:      lipgloss.Color("#575653"),
	TextMuted:    lipgloss.Color("#878580"),
	TextPrimary:  lipgloss.Color("#FFFCF0"),
	Accent:       lipgloss.Color("#3AA99F"),
	AccentDim:    lipgloss.Color("#1A3533"),
	Good:         lipgloss.Color("#879A39"),
	Warn:         lipgloss.Color("#D0A215"),
	Bad:          lipgloss.Color("#D14D41"),
	Info:         lipgloss.Color("#4385BE"),
}

// CatppuccinMocha is a warm pastel theme with soft, soothing colors.
var CatppuccinMocha = Theme{
	Name:         "catppuccin-mocha",
	Background:   lipgloss.Color("#1E1E2E"),
	Surface:      lipgloss.Color("#313244"),
	SurfaceHover: lipgloss.Color("#45475A"),
	Border:       lipgloss.Color("#585B70"),
	BorderAccent: lipgloss.Color("#89B4FA"),
	TextDim:      lipgloss.Color("#6C7086"),
	TextMuted:    lipgloss.Color("#A6ADC8"),
	TextPrimary:  lipgloss.Color("#CDD6F4"),
	Accent:       lipgloss.Color("#89B4FA"),
	AccentDim:    lipgloss.Color("#293147"),
	Good:         lipgloss.Color("#A6E3A1"),
	Warn:         lipgloss.Color("#F9E2AF"),
	Bad:          lipgloss.Color("#F38BA8"),
	Info:         lipgloss.Color("#89B4FA"),
}

// TokyoNight is a cool blue/purple theme inspired by Tokyo city lights.
var TokyoNight = Theme{
	Name:         "tokyo-night",
	Background:   lipgloss.Color("#1A1B26"),
	Surface:      lipgloss.Color("#24283B"),
	SurfaceHover: lipgloss.Color("#343A52"),
	Border:       lipgloss.Color("#565F89"),
	BorderAccent: lipgloss.Color("#7AA2F7"),
	TextDim:      lipgloss.Color("#565F89"),
	TextMuted:    lipgloss.Color("#A9B1D6"),
	TextPrimary:  lipgloss.Color("#C0CAF5"),
	Accent:       lipgloss.Color("#7AA2F7"),
	AccentDim:    lipgloss.Color("#252B3F"),
	Good:         lipgloss.Color("#9ECE6A"),
	Warn:         lipgloss.Color("#E0AF68"),
	Bad:          lipgloss.Color("#F7768E"),
	Info:         lipgloss.Color("#7DCFFF"),
}

// Terminal uses ANSI 16 colors only - maximum compatibility.
var Terminal = Theme{
	Name:         "terminal",
	Background:   lipgloss.Color("0"),
	Surface:      lipgloss.Color("0"),
	SurfaceHover: lipgloss.Color("8"),
	Border:       lipgloss.Color("8"),
	BorderAccent: lipgloss.Color("6"),
	TextDim:      lipgloss.Color("8"),
	TextMuted:    lipgloss.Color("7"),
	TextPrimary:  lipgloss.Color("15"),
	Accent:       lipgloss.Color("6"),
	AccentDim:    lipgloss.Color("0"),
	Good:         lipgloss.Color("2"),
	Warn:         lipgloss.Color("3"),
	Bad:          lipgloss.Color("1"),
	Info:         lipgloss.Color("4"),
}

// All available themes.
var All = []Theme{FlexokiDark, CatppuccinMocha, TokyoNight, Terminal}

// ByName returns a theme by its name, defaulting to FlexokiDark.
func ByName(name string) Theme {
	for _, t := range All {
		if t.Name == name {
			return t
		}
	}
	return FlexokiDark
}

// SetActive sets the active theme by name.
func SetActive(name string) {
	Active = ByName(name)
}

// PacingColor maps a pacing result to Good, Warn or Bad. Undefined pacing is dim.
func (t Theme) PacingColor(p *model.Pacing) lipgloss.Color {
	if p == nil {
		return t.TextDim
	}
	switch p.Status {
	case model.PacingOnTrack:
		return t.Good
	case model.PacingSlightlyOverspending, model.PacingSlightlyUnderspending:
		return t.Warn
	default:
		return t.Bad
	}
}

// UsageColor colors a 0-1 budget usage fraction.
func (t Theme) UsageColor(used float64) lipgloss.Color {
	switch {
	case used >= 1:
		return t.Bad
	case used >= 0.8:
		return t.Warn
	default:
		return t.Good
	}
}
