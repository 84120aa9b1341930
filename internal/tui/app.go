// Package tui provides the interactive Bubble Tea dashboard for adpace.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/adpace/internal/budget"
	"github.com/theirongolddev/adpace/internal/campaign"
	"github.com/theirongolddev/adpace/internal/config"
	"github.com/theirongolddev/adpace/internal/logger"
	"github.com/theirongolddev/adpace/internal/model"
	"github.com/theirongolddev/adpace/internal/tui/components"
	"github.com/theirongolddev/adpace/internal/tui/theme"
)

// Tab indices, in components.Tabs order.
const (
	tabPlan = iota
	tabSchedule
	tabAds
	tabSettings
)

// App is the root Bubble Tea model. It owns the campaign plan; every edit goes
// through the campaign controller and recomputes the derived metrics.
type App struct {
	cfg  config.Config
	ctrl campaign.Controller

	// Plan and everything derived from it
	plan     model.CampaignPlan
	metrics  model.DerivedMetrics
	complete bool
	schedule []model.DayAllocation

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool

	// Status line
	status      string
	statusIsErr bool

	// Per-tab state
	planState planState
	sched     scheduleState
	adsState  adsState
	settings  settingsState

	spinner spinner.Model

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals setupValues
	needSetup bool
}

const (
	minTerminalWidth = 80
	maxContentWidth  = 160
	minContentHeight = 5
)

// NewApp creates the dashboard for plan. Without a config file on disk the
// first-run setup form is shown before the dashboard.
func NewApp(cfg config.Config, ctrl campaign.Controller, plan model.CampaignPlan) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent)

	a := App{
		cfg:       cfg,
		ctrl:      ctrl,
		plan:      plan,
		spinner:   sp,
		needSetup: !config.Exists(),
		adsState: adsState{
			token:     config.GetAdsToken(cfg),
			accountID: cfg.Ads.AccountID,
		},
	}
	a.adsState.loadingAccounts = a.adsState.token != ""
	a.recompute()

	if a.needSetup {
		a.setupVals = setupValuesFrom(cfg)
		a.setupForm = newSetupForm(&a.setupVals)
	}
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.EnableMouseCellMotion}
	if a.setupForm != nil {
		cmds = append(cmds, a.setupForm.Init())
	}
	if client := a.adsClient(); client != nil {
		cmds = append(cmds, a.spinner.Tick, fetchAccountsCmd(client))
	}
	return tea.Batch(cmds...)
}

// recompute refreshes everything derived from the plan.
func (a *App) recompute() {
	a.metrics, a.complete = budget.Derive(a.plan)
	a.schedule = budget.Schedule(a.plan)
	if a.sched.offset > len(a.schedule) {
		a.sched.offset = 0
	}
}

// setPlan installs an edited plan.
func (a *App) setPlan(p model.CampaignPlan) {
	a.plan = p
	a.recompute()
}

func (a *App) setStatus(msg string, isErr bool) {
	a.status = msg
	a.statusIsErr = isErr
}

// saveConfig persists a.cfg, reporting failures on the status line.
func (a *App) saveConfig() bool {
	if err := config.Save(a.cfg); err != nil {
		logger.Log.WithError(err).Error("Failed to save config")
		a.setStatus(fmt.Sprintf("Save failed: %s", err), true)
		return false
	}
	return true
}

// busy reports whether an ads request is in flight.
func (a App) busy() bool {
	return a.adsState.connecting || a.adsState.loadingAccounts || a.adsState.fetching
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if a.showHelp || a.setupForm != nil {
			return a, nil
		}
		if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress && msg.Y == 0 {
			if tab := components.TabAtX(msg.X, a.activeTab); tab >= 0 {
				a.activeTab = tab
			}
		}
		return a, nil

	case tea.KeyMsg:
		return a.updateKey(msg)

	case spinner.TickMsg:
		if !a.busy() {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case AuthMsg:
		return a.handleAuth(msg)

	case AccountsMsg:
		return a.handleAccounts(msg)

	case CostFetchedMsg:
		return a.handleCostFetched(msg)
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}

	// First-run setup intercepts all keys
	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	// Text inputs own the keyboard while open
	if a.activeTab == tabPlan && a.planState.editing {
		return a.updatePlanInput(msg)
	}
	if a.activeTab == tabSettings && a.settings.editing {
		return a.updateSettingsInput(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "left":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil
	case "right":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	}
	if len(msg.Runes) == 1 {
		if idx := components.TabIdxByKey(msg.Runes[0]); idx >= 0 {
			a.activeTab = idx
			return a, nil
		}
	}

	switch a.activeTab {
	case tabPlan:
		return a.updatePlanKeys(key)
	case tabSchedule:
		return a.updateScheduleKeys(key)
	case tabAds:
		return a.updateAdsKeys(key)
	case tabSettings:
		return a.updateSettingsKeys(key)
	}
	return a, nil
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		a.cfg = a.setupVals.apply(a.cfg)
		theme.SetActive(a.cfg.Appearance.Theme)
		a.ctrl.Policy = campaign.ParsePolicy(a.cfg.Checkpoint.DefaultPolicy)
		if a.saveConfig() {
			a.setStatus("Saved to "+config.Path(), false)
		}
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}

	return a, cmd
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if a.setupForm != nil {
		return a.setupForm.View()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  adpace needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Info).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	sections := []struct {
		title    string
		bindings []struct{ key, desc string }
	}{
		{"Navigation", []struct{ key, desc string }{
			{"p d a x", "Jump to tab"},
			{"← →", "Previous / Next tab"},
			{"j k", "Move between fields and rows"},
		}},
		{"Plan", []struct{ key, desc string }{
			{"Enter", "Edit field"},
			{"Space", "Toggle checkpoint tracking"},
			{"[ ]", "Move date one day"},
			{"1-5", "Quick date range"},
		}},
		{"Ads", []struct{ key, desc string }{
			{"c", "Connect"},
			{"f", "Fetch spend through checkpoint"},
			{"Enter", "Use selected account"},
			{"D", "Disconnect"},
		}},
		{"General", []struct{ key, desc string }{
			{"Esc", "Cancel edit"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, s := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(s.title))
		b.WriteString("\n")
		for _, bind := range s.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-8s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()

	header := components.RenderTabBar(a.activeTab, w)
	statusBar := components.RenderStatusBar(w, a.statusHints(), a.statusMessage(), a.statusIsErr)

	contentH := max(a.height-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch a.activeTab {
	case tabPlan:
		content = a.renderPlanTab(cw)
	case tabSchedule:
		content = a.renderScheduleTab(cw, contentH)
	case tabAds:
		content = a.renderAdsTab(cw)
	case tabSettings:
		content = a.renderSettingsTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, a.height, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) statusHints() string {
	switch a.activeTab {
	case tabPlan:
		if a.planState.editing {
			return "[Enter] apply  [Esc] cancel"
		}
		return "[j/k] field  [Enter] edit  [Space] checkpoint  [?] help  [q] quit"
	case tabSchedule:
		return "[j/k] scroll  [?] help  [q] quit"
	case tabAds:
		return "[c] connect  [f] fetch  [j/k] account  [?] help  [q] quit"
	default:
		if a.settings.editing {
			return "[Enter] save  [Esc] cancel"
		}
		return "[j/k] field  [Enter] edit  [?] help  [q] quit"
	}
}

func (a App) statusMessage() string {
	if a.busy() {
		return a.spinner.View() + " " + a.status
	}
	return a.status
}

// ─── Helpers ────────────────────────────────────────────────────

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color so
// gaps between cards keep the theme background.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		result.WriteString(lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg)))
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}
