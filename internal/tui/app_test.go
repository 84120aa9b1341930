package tui

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/adpace/internal/ads"
	"github.com/theirongolddev/adpace/internal/campaign"
	"github.com/theirongolddev/adpace/internal/config"
	"github.com/theirongolddev/adpace/internal/logger"
	"github.com/theirongolddev/adpace/internal/model"
	"github.com/theirongolddev/adpace/internal/tui/components"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(isoDate, s)
	require.NoError(t, err)
	return d
}

// isolateConfig points the config directory at a temp dir and clears the
// token override.
func isolateConfig(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(config.EnvAdsToken, "")
	logger.Log.SetOutput(io.Discard)
}

// newTestApp returns a sized dashboard on Jan 1-10 2025 with $1000, where
// today is Jan 6 2025. A config file exists so setup is skipped.
func newTestApp(t *testing.T) App {
	t.Helper()
	isolateConfig(t)

	cfg := config.DefaultConfig()
	cfg.Ads.LatencyMS = 0
	require.NoError(t, config.Save(cfg))

	now := day(t, "2025-01-06").Add(15 * time.Hour)
	ctrl := campaign.Controller{Policy: campaign.PolicyClampNearest, Now: func() time.Time { return now }}
	plan := model.CampaignPlan{
		StartDate:   day(t, "2025-01-01"),
		EndDate:     day(t, "2025-01-10"),
		TotalBudget: 1000,
	}

	a := NewApp(cfg, ctrl, plan)
	require.Nil(t, a.setupForm)
	return send(t, a, tea.WindowSizeMsg{Width: 120, Height: 40})
}

func send(t *testing.T, a App, msgs ...tea.Msg) App {
	t.Helper()
	for _, msg := range msgs {
		m, _ := a.Update(msg)
		var ok bool
		a, ok = m.(App)
		require.True(t, ok)
	}
	return a
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
	keyLeft  = tea.KeyMsg{Type: tea.KeyLeft}
)

func TestTabKeysSwitchTabs(t *testing.T) {
	a := newTestApp(t)

	a = send(t, a, runes("d"))
	assert.Equal(t, tabSchedule, a.activeTab)
	a = send(t, a, runes("a"))
	assert.Equal(t, tabAds, a.activeTab)
	a = send(t, a, runes("x"))
	assert.Equal(t, tabSettings, a.activeTab)
	a = send(t, a, keyRight)
	assert.Equal(t, tabPlan, a.activeTab, "right wraps around")
	a = send(t, a, keyLeft)
	assert.Equal(t, tabSettings, a.activeTab, "left wraps around")
	a = send(t, a, runes("p"))
	assert.Equal(t, tabPlan, a.activeTab)
}

func TestMouseClickSwitchesTab(t *testing.T) {
	a := newTestApp(t)

	x := -1
	for i := 0; i < 80; i++ {
		if components.TabAtX(i, a.activeTab) == tabAds {
			x = i
			break
		}
	}
	require.GreaterOrEqual(t, x, 0)

	a = send(t, a, tea.MouseMsg{X: x, Y: 0, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	assert.Equal(t, tabAds, a.activeTab)

	a = send(t, a, tea.MouseMsg{X: 1, Y: 5, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	assert.Equal(t, tabAds, a.activeTab, "clicks below the tab bar are ignored")
}

func TestSpaceTogglesCheckpoint(t *testing.T) {
	a := newTestApp(t)

	a = send(t, a, keySpace)
	require.True(t, a.plan.CheckpointEnabled)
	assert.Equal(t, day(t, "2025-01-05"), a.plan.CheckpointDate, "defaults to yesterday")
	assert.True(t, a.metrics.HasCheckpoint)

	a.plan.SpentAmount = 300
	a = send(t, a, keySpace)
	assert.False(t, a.plan.CheckpointEnabled)
	assert.True(t, a.plan.CheckpointDate.IsZero())
	assert.Zero(t, a.plan.SpentAmount)
	assert.False(t, a.metrics.HasCheckpoint)
}

func TestEditBudgetThroughInput(t *testing.T) {
	a := newTestApp(t)
	a.planState.cursor = planFieldBudget

	a = send(t, a, keyEnter)
	require.True(t, a.planState.editing)
	a.planState.input.SetValue("$2,500")

	a = send(t, a, keyEnter)
	assert.False(t, a.planState.editing)
	assert.Equal(t, 2500.0, a.plan.TotalBudget)
	assert.InDelta(t, 250.0, a.metrics.DailyBudget, 1e-9)
}

func TestEditInvalidDateKeepsPlan(t *testing.T) {
	a := newTestApp(t)
	before := a.plan

	a = send(t, a, keyEnter)
	require.True(t, a.planState.editing)
	a.planState.input.SetValue("someday")
	a = send(t, a, keyEnter)

	assert.Equal(t, before, a.plan)
	assert.True(t, a.statusIsErr)
}

func TestEditEndBeforeStartHeals(t *testing.T) {
	a := newTestApp(t)
	a.planState.cursor = planFieldEnd

	a = send(t, a, keyEnter)
	a.planState.input.SetValue("2024-12-25")
	a = send(t, a, keyEnter)

	assert.Equal(t, day(t, "2024-12-25"), a.plan.EndDate)
	assert.Equal(t, day(t, "2024-12-25"), a.plan.StartDate, "start follows end back")
}

func TestCheckpointFieldsLockedWhileTrackingOff(t *testing.T) {
	a := newTestApp(t)
	a.planState.cursor = planFieldSpent

	a = send(t, a, keyEnter)
	assert.False(t, a.planState.editing)
	assert.True(t, a.statusIsErr)
}

func TestSpentCappedAtBudget(t *testing.T) {
	a := newTestApp(t)
	a = send(t, a, keySpace)
	a.planState.cursor = planFieldSpent

	a = send(t, a, keyEnter)
	a.planState.input.SetValue("1500")
	a = send(t, a, keyEnter)

	assert.Equal(t, 1000.0, a.plan.SpentAmount)
}

func TestBracketKeysShiftDates(t *testing.T) {
	a := newTestApp(t)

	a = send(t, a, runes("]"))
	assert.Equal(t, day(t, "2025-01-02"), a.plan.StartDate)

	a.planState.cursor = planFieldEnd
	a = send(t, a, runes("["), runes("["))
	assert.Equal(t, day(t, "2025-01-08"), a.plan.EndDate)
	assert.Equal(t, 7, a.metrics.TotalDays)
}

func TestQuickRangeKeys(t *testing.T) {
	a := newTestApp(t)
	require.Equal(t, "this-month", campaign.QuickRanges[0])

	a = send(t, a, runes("1"))
	assert.Equal(t, day(t, "2025-01-01"), a.plan.StartDate)
	assert.Equal(t, day(t, "2025-01-31"), a.plan.EndDate)
	assert.Len(t, a.schedule, 31)
}

func checkpointApp(t *testing.T) App {
	t.Helper()
	a := newTestApp(t)
	a = send(t, a, keySpace)
	require.Equal(t, day(t, "2025-01-05"), a.plan.CheckpointDate)
	return a
}

func TestCostFetchedAppliesSpend(t *testing.T) {
	a := checkpointApp(t)

	a = send(t, a, CostFetchedMsg{
		AccountID: "1234567890",
		Cost:      600,
		Start:     day(t, "2025-01-01"),
		End:       day(t, "2025-01-05"),
	})

	assert.Equal(t, 600.0, a.plan.SpentAmount)
	require.NotNil(t, a.metrics.Pacing)
	assert.InDelta(t, 120.0, a.metrics.Pacing.Percentage, 1e-9)
	assert.Equal(t, model.PacingOverspending, a.metrics.Pacing.Status)
	assert.False(t, a.statusIsErr)
	assert.False(t, a.adsState.lastFetch.IsZero())
}

func TestCostFetchedForStaleRangeIsDiscarded(t *testing.T) {
	a := checkpointApp(t)
	a.adsState.fetching = true

	stale := CostFetchedMsg{
		Cost:  600,
		Start: day(t, "2025-01-01"),
		End:   day(t, "2025-01-04"),
	}

	discarded := send(t, a, stale)
	assert.Zero(t, discarded.plan.SpentAmount)
	assert.True(t, discarded.statusIsErr)
	assert.False(t, discarded.adsState.fetching)

	a.cfg.Ads.DiscardStale = false
	accepted := send(t, a, stale)
	assert.Equal(t, 600.0, accepted.plan.SpentAmount)
}

func TestCostFetchedWithoutCheckpointIsDiscarded(t *testing.T) {
	a := newTestApp(t)
	a.cfg.Ads.DiscardStale = false

	a = send(t, a, CostFetchedMsg{Cost: 600, Start: day(t, "2025-01-01"), End: day(t, "2025-01-05")})
	assert.Zero(t, a.plan.SpentAmount)
}

func TestCostFetchErrorLeavesPlan(t *testing.T) {
	a := checkpointApp(t)
	a.plan.SpentAmount = 250
	a.recompute()

	a = send(t, a, CostFetchedMsg{Err: errors.New("boom")})
	assert.Equal(t, 250.0, a.plan.SpentAmount)
	assert.True(t, a.statusIsErr)
	assert.Contains(t, a.status, "boom")
}

func TestFetchNeedsConnection(t *testing.T) {
	a := checkpointApp(t)
	a.activeTab = tabAds

	m, cmd := a.Update(runes("f"))
	a = m.(App)
	assert.Nil(t, cmd)
	assert.False(t, a.adsState.fetching)
	assert.True(t, a.statusIsErr)
}

func TestFetchNeedsCheckpoint(t *testing.T) {
	a := newTestApp(t)
	a.activeTab = tabAds
	a.adsState.token = "mock_token_1"
	a.adsState.accountID = "1234567890"

	m, cmd := a.Update(runes("f"))
	a = m.(App)
	assert.Nil(t, cmd)
	assert.False(t, a.adsState.fetching)
}

func TestFetchRoundTrip(t *testing.T) {
	a := checkpointApp(t)
	a.activeTab = tabAds
	a.adsState.token = "mock_token_1"
	a.adsState.accountID = "1234567890"

	m, cmd := a.Update(runes("f"))
	a = m.(App)
	require.NotNil(t, cmd)
	assert.True(t, a.adsState.fetching)

	client := a.adsClient()
	require.NotNil(t, client)
	msg := fetchCostCmd(client, a.adsState.accountID, a.plan.StartDate, a.plan.CheckpointDate)()
	fetched, ok := msg.(CostFetchedMsg)
	require.True(t, ok)
	require.NoError(t, fetched.Err)

	a = send(t, a, fetched)
	assert.False(t, a.adsState.fetching)
	assert.Equal(t, fetched.Cost, a.plan.SpentAmount)
	assert.Greater(t, a.plan.SpentAmount, 0.0)
}

func TestFetchUnknownAccountReportsError(t *testing.T) {
	a := checkpointApp(t)
	a.adsState.token = "mock_token_1"

	msg := fetchCostCmd(a.adsClient(), "nope", a.plan.StartDate, a.plan.CheckpointDate)()
	fetched := msg.(CostFetchedMsg)
	require.ErrorIs(t, fetched.Err, ads.ErrUnknownAccount)

	a = send(t, a, fetched)
	assert.Zero(t, a.plan.SpentAmount)
	assert.True(t, a.statusIsErr)
}

func TestAuthStoresTokenAndLoadsAccounts(t *testing.T) {
	a := newTestApp(t)

	m, cmd := a.Update(AuthMsg{Token: "mock_token_42"})
	a = m.(App)
	assert.Equal(t, "mock_token_42", a.adsState.token)
	assert.True(t, a.adsState.loadingAccounts)
	assert.NotNil(t, cmd)

	saved, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "mock_token_42", saved.Ads.Token)
}

func TestAccountsMsgSelectsConfiguredAccount(t *testing.T) {
	a := newTestApp(t)
	a.adsState.token = "mock_token_1"
	a.adsState.accountID = "3456789012"
	a.adsState.loadingAccounts = true

	accounts, err := a.adsClient().FetchAccounts(context.Background())
	require.NoError(t, err)

	a = send(t, a, AccountsMsg{Data: &ads.AccountsData{Accounts: accounts}})
	assert.False(t, a.adsState.loadingAccounts)
	assert.Len(t, a.adsState.accounts, len(accounts))
	assert.Equal(t, "3456789012", a.adsState.accounts[a.adsState.cursor].ID)
}

func TestSelectAccountPersists(t *testing.T) {
	a := newTestApp(t)
	a.activeTab = tabAds
	a.adsState.token = "mock_token_1"
	a.adsState.accounts = []ads.Account{
		{ID: "1234567890", Name: "Main Marketing Account"},
		{ID: "2345678901", Name: "Brand Awareness Campaign"},
	}

	a = send(t, a, runes("j"), keyEnter)
	assert.Equal(t, "2345678901", a.adsState.accountID)

	saved, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "2345678901", saved.Ads.AccountID)
}

func TestDisconnectClearsToken(t *testing.T) {
	a := newTestApp(t)
	a.activeTab = tabAds
	a.adsState.token = "mock_token_1"
	a.cfg.Ads.Token = "mock_token_1"

	a = send(t, a, runes("D"))
	assert.Empty(t, a.adsState.token)
	assert.Nil(t, a.adsClient())
}

func TestSettingsRejectsUnknownTheme(t *testing.T) {
	a := newTestApp(t)
	a.activeTab = tabSettings
	a.settings.cursor = settingsFieldTheme

	a = send(t, a, keyEnter)
	require.True(t, a.settings.editing)
	a.settings.input.SetValue("neon")
	a = send(t, a, keyEnter)

	assert.Error(t, a.settings.saveErr)
	assert.Equal(t, "flexoki-dark", a.cfg.Appearance.Theme)
}

func TestSettingsPolicyUpdatesController(t *testing.T) {
	a := newTestApp(t)
	a.activeTab = tabSettings
	a.settings.cursor = settingsFieldPolicy

	a = send(t, a, keyEnter)
	a.settings.input.SetValue("start")
	a = send(t, a, keyEnter)

	require.NoError(t, a.settings.saveErr)
	assert.True(t, a.settings.saved)
	assert.Equal(t, campaign.PolicyFallbackStart, a.ctrl.Policy)

	saved, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "start", saved.Checkpoint.DefaultPolicy)
}

func TestViewRendersEveryTab(t *testing.T) {
	a := checkpointApp(t)

	want := []string{"Daily Budget", "Daily Spend", "Ads Connection", "Config file"}
	for tab, text := range want {
		a.activeTab = tab
		view := a.View()
		assert.Contains(t, view, text, "tab %d", tab)
		assert.Len(t, strings.Split(view, "\n"), a.height, "tab %d fills the terminal", tab)
	}
}

func TestViewTooNarrow(t *testing.T) {
	a := newTestApp(t)
	a = send(t, a, tea.WindowSizeMsg{Width: 60, Height: 20})
	assert.Contains(t, a.View(), "Terminal too narrow")
}

func TestHelpToggle(t *testing.T) {
	a := newTestApp(t)

	a = send(t, a, runes("?"))
	assert.True(t, a.showHelp)
	assert.Contains(t, a.View(), "Keyboard Shortcuts")

	a = send(t, a, runes("d"))
	assert.False(t, a.showHelp)
	assert.Equal(t, tabPlan, a.activeTab, "the dismissing key is swallowed")
}

func TestSetupFormShownWithoutConfig(t *testing.T) {
	isolateConfig(t)

	a := NewApp(config.DefaultConfig(), campaign.New(campaign.PolicyClampNearest), model.CampaignPlan{})
	assert.True(t, a.needSetup)
	assert.NotNil(t, a.setupForm)
}

func TestSetupValuesApply(t *testing.T) {
	cfg := config.DefaultConfig()
	vals := setupValuesFrom(cfg)
	assert.Equal(t, "1000", vals.budget)

	vals.budget = "2,500.50"
	vals.rangeVariant = "month"
	vals.policy = "start"
	vals.discardStale = false
	vals.theme = "tokyo-night"

	got := vals.apply(cfg)
	assert.Equal(t, 2500.5, got.General.DefaultBudget)
	assert.Equal(t, "month", got.General.DefaultRange)
	assert.Equal(t, "start", got.Checkpoint.DefaultPolicy)
	assert.False(t, got.Ads.DiscardStale)
	assert.Equal(t, "tokyo-night", got.Appearance.Theme)
	require.NoError(t, config.Validate(got))

	vals.budget = ""
	assert.Equal(t, cfg.General.DefaultBudget, vals.apply(cfg).General.DefaultBudget, "empty keeps the default")
	assert.Error(t, validateBudget("-5"))
	assert.NoError(t, validateBudget(""))
}
