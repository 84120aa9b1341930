package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/adpace/internal/campaign"
	"github.com/theirongolddev/adpace/internal/cli"
	"github.com/theirongolddev/adpace/internal/config"
	"github.com/theirongolddev/adpace/internal/tui/components"
	"github.com/theirongolddev/adpace/internal/tui/theme"
)

const (
	settingsFieldBudget = iota
	settingsFieldRange
	settingsFieldPolicy
	settingsFieldDiscardStale
	settingsFieldLatency
	settingsFieldTheme
	settingsFieldLogLevel
	settingsFieldCount // sentinel
)

// settingsState tracks the settings tab state.
type settingsState struct {
	cursor  int
	editing bool
	input   textinput.Model
	saved   bool  // flash "saved" message briefly
	saveErr error // non-nil if last save failed
}

func newSettingsInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 64
	ti.Width = 40
	return ti
}

func (a App) updateSettingsKeys(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "j", "down":
		if a.settings.cursor < settingsFieldCount-1 {
			a.settings.cursor++
		}
	case "k", "up":
		if a.settings.cursor > 0 {
			a.settings.cursor--
		}
	case "enter":
		return a.settingsStartEdit()
	}
	return a, nil
}

func (a App) settingsStartEdit() (tea.Model, tea.Cmd) {
	cfg := a.cfg
	a.settings.editing = true
	a.settings.saved = false

	ti := newSettingsInput()

	switch a.settings.cursor {
	case settingsFieldBudget:
		ti.Placeholder = "1000"
		ti.SetValue(strconv.FormatFloat(cfg.General.DefaultBudget, 'f', 2, 64))
	case settingsFieldRange:
		ti.Placeholder = "week or month"
		ti.SetValue(cfg.General.DefaultRange)
	case settingsFieldPolicy:
		ti.Placeholder = "clamp or start"
		ti.SetValue(cfg.Checkpoint.DefaultPolicy)
	case settingsFieldDiscardStale:
		ti.Placeholder = "true or false"
		ti.SetValue(strconv.FormatBool(cfg.Ads.DiscardStale))
	case settingsFieldLatency:
		ti.Placeholder = "1200 (milliseconds)"
		ti.SetValue(strconv.Itoa(cfg.Ads.LatencyMS))
	case settingsFieldTheme:
		ti.Placeholder = "flexoki-dark, catppuccin-mocha, tokyo-night, terminal"
		ti.SetValue(cfg.Appearance.Theme)
	case settingsFieldLogLevel:
		ti.Placeholder = "debug, info, warn, error"
		ti.SetValue(cfg.Log.Level)
	}

	ti.Focus()
	a.settings.input = ti
	return a, ti.Cursor.BlinkCmd()
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.settingsSave()
		a.settings.editing = false
		a.settings.saved = a.settings.saveErr == nil
		return a, nil
	case "esc":
		a.settings.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

// settingsSave validates the edited value and writes the config. Invalid
// values are reported and nothing is saved.
func (a *App) settingsSave() {
	cfg := a.cfg
	val := strings.TrimSpace(a.settings.input.Value())

	switch a.settings.cursor {
	case settingsFieldBudget:
		v, err := cli.ParseAmount(val)
		if err != nil {
			a.settings.saveErr = err
			return
		}
		cfg.General.DefaultBudget = v
	case settingsFieldRange:
		cfg.General.DefaultRange = strings.ToLower(val)
	case settingsFieldPolicy:
		cfg.Checkpoint.DefaultPolicy = strings.ToLower(val)
	case settingsFieldDiscardStale:
		b, err := strconv.ParseBool(val)
		if err != nil {
			a.settings.saveErr = fmt.Errorf("want true or false, got %q", val)
			return
		}
		cfg.Ads.DiscardStale = b
	case settingsFieldLatency:
		ms, err := strconv.Atoi(val)
		if err != nil || ms < 0 {
			a.settings.saveErr = fmt.Errorf("want milliseconds, got %q", val)
			return
		}
		cfg.Ads.LatencyMS = ms
	case settingsFieldTheme:
		found := false
		for _, t := range theme.All {
			if t.Name == val {
				found = true
				break
			}
		}
		if !found {
			a.settings.saveErr = fmt.Errorf("unknown theme %q", val)
			return
		}
		cfg.Appearance.Theme = val
	case settingsFieldLogLevel:
		cfg.Log.Level = strings.ToLower(val)
	}

	if err := config.Validate(cfg); err != nil {
		a.settings.saveErr = err
		return
	}

	a.settings.saveErr = config.Save(cfg)
	if a.settings.saveErr != nil {
		return
	}

	a.cfg = cfg
	a.ctrl.Policy = campaign.ParsePolicy(cfg.Checkpoint.DefaultPolicy)
	theme.SetActive(cfg.Appearance.Theme)
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active
	cfg := a.cfg

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceHover).Bold(true)
	selectedLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceHover).Bold(true)
	accentStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	goodStyle := lipgloss.NewStyle().Foreground(t.Good).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceHover)

	fields := []struct{ label, value string }{
		{"Default Budget", cli.FormatCurrency(cfg.General.DefaultBudget)},
		{"Default Range", cfg.General.DefaultRange},
		{"Checkpoint Policy", cfg.Checkpoint.DefaultPolicy},
		{"Discard Stale", strconv.FormatBool(cfg.Ads.DiscardStale)},
		{"Ads Latency", fmt.Sprintf("%dms", cfg.Ads.LatencyMS)},
		{"Theme", cfg.Appearance.Theme},
		{"Log Level", cfg.Log.Level},
	}

	var formBody strings.Builder
	for i, f := range fields {
		if a.settings.editing && i == a.settings.cursor {
			formBody.WriteString(markerStyle.Render("▸ "))
			formBody.WriteString(accentStyle.Render(fmt.Sprintf("%-18s ", f.label)))
			formBody.WriteString(a.settings.input.View())
			formBody.WriteString("\n")
			continue
		}

		if i == a.settings.cursor {
			marker := markerStyle.Render("▸ ")
			label := selectedLabelStyle.Render(fmt.Sprintf("%-18s ", f.label+":"))
			value := selectedStyle.Render(f.value)
			formBody.WriteString(marker + label + value)
			usedWidth := lipgloss.Width(marker) + lipgloss.Width(label) + lipgloss.Width(value)
			if padLen := components.CardInnerWidth(cw) - usedWidth; padLen > 0 {
				formBody.WriteString(lipgloss.NewStyle().Background(t.SurfaceHover).Render(strings.Repeat(" ", padLen)))
			}
		} else {
			formBody.WriteString(lipgloss.NewStyle().Background(t.Surface).Render("  "))
			formBody.WriteString(labelStyle.Render(fmt.Sprintf("%-18s ", f.label+":")))
			formBody.WriteString(valueStyle.Render(f.value))
		}
		formBody.WriteString("\n")
	}

	if a.settings.saveErr != nil {
		warnStyle := lipgloss.NewStyle().Foreground(t.Warn).Background(t.Surface)
		formBody.WriteString("\n")
		formBody.WriteString(warnStyle.Render(fmt.Sprintf("Save failed: %s", a.settings.saveErr)))
	} else if a.settings.saved {
		formBody.WriteString("\n")
		formBody.WriteString(goodStyle.Render("Saved!"))
	}

	connected := "no"
	if config.IsAdsAuthenticated(cfg) {
		connected = "yes"
	}

	var infoBody strings.Builder
	infoBody.WriteString(labelStyle.Render("Config file:    ") + valueStyle.Render(config.Path()) + "\n")
	infoBody.WriteString(labelStyle.Render("Log file:       ") + valueStyle.Render(config.LogPath(cfg)) + "\n")
	infoBody.WriteString(labelStyle.Render("Ads connected:  ") + valueStyle.Render(connected))

	var b strings.Builder
	b.WriteString(components.ContentCard("Settings", formBody.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("General", infoBody.String(), cw))

	return b.String()
}
