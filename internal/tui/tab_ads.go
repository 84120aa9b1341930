package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/adpace/internal/ads"
	"github.com/theirongolddev/adpace/internal/campaign"
	"github.com/theirongolddev/adpace/internal/cli"
	"github.com/theirongolddev/adpace/internal/config"
	"github.com/theirongolddev/adpace/internal/logger"
	"github.com/theirongolddev/adpace/internal/tui/components"
	"github.com/theirongolddev/adpace/internal/tui/theme"
)

const adsTimeout = 30 * time.Second

// AuthMsg is sent when connecting to the ads platform completes.
type AuthMsg struct {
	Token string
	Err   error
}

// AccountsMsg is sent when the account list fetch completes.
type AccountsMsg struct {
	Data *ads.AccountsData
}

// CostFetchedMsg is sent when a spend fetch completes. Start and End are the
// range the source reported the cost for.
type CostFetchedMsg struct {
	AccountID string
	Cost      float64
	Start     time.Time
	End       time.Time
	Err       error
}

// adsState tracks the ads connection and the in-flight requests.
type adsState struct {
	token     string
	accountID string
	accounts  []ads.Account
	cursor    int
	lastFetch time.Time

	connecting      bool
	loadingAccounts bool
	fetching        bool
}

// adsClient returns a client for the current token, or nil when disconnected.
func (a App) adsClient() *ads.MockClient {
	return ads.NewMockClient(a.adsState.token,
		ads.WithLatency(config.AdsLatency(a.cfg)),
		ads.WithLogger(logger.Log),
	)
}

func authCmd(latency time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), adsTimeout)
		defer cancel()
		token, err := ads.Authenticate(ctx, latency)
		return AuthMsg{Token: token, Err: err}
	}
}

func fetchAccountsCmd(client *ads.MockClient) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), adsTimeout)
		defer cancel()
		return AccountsMsg{Data: client.FetchAccountsData(ctx)}
	}
}

// fetchCostCmd fetches spend in a background goroutine. The plan may change
// while the request is in flight; the handler decides whether the result
// still applies.
func fetchCostCmd(src ads.SpendSource, accountID string, start, end time.Time) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), adsTimeout)
		defer cancel()

		msg := CostFetchedMsg{AccountID: accountID}
		data, err := src.FetchCost(ctx, accountID, start, end)
		if err != nil {
			msg.Err = err
			return msg
		}
		msg.Start, msg.End, msg.Err = data.Range()
		msg.Cost = data.Cost
		return msg
	}
}

func (a App) updateAdsKeys(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "j", "down":
		if a.adsState.cursor < len(a.adsState.accounts)-1 {
			a.adsState.cursor++
		}
	case "k", "up":
		if a.adsState.cursor > 0 {
			a.adsState.cursor--
		}
	case "enter":
		if a.adsState.cursor < len(a.adsState.accounts) {
			acct := a.adsState.accounts[a.adsState.cursor]
			a.adsState.accountID = acct.ID
			a.cfg.Ads.AccountID = acct.ID
			if a.saveConfig() {
				a.setStatus("Using "+acct.Name, false)
			}
		}
	case "c":
		return a.startConnect()
	case "f":
		return a.startFetch()
	case "D":
		a.disconnect()
	}
	return a, nil
}

func (a App) startConnect() (tea.Model, tea.Cmd) {
	if a.busy() {
		return a, nil
	}
	if a.adsState.token != "" {
		a.setStatus("Already connected", false)
		return a, nil
	}
	a.adsState.connecting = true
	a.setStatus("Connecting to ads platform...", false)
	return a, tea.Batch(a.spinner.Tick, authCmd(config.AdsLatency(a.cfg)))
}

func (a App) startFetch() (tea.Model, tea.Cmd) {
	if a.adsState.fetching {
		return a, nil
	}
	client := a.adsClient()
	if client == nil {
		a.setStatus("Not connected; press c to connect", true)
		return a, nil
	}
	if a.adsState.accountID == "" {
		a.setStatus("Select an account first (j/k, Enter)", true)
		return a, nil
	}
	start, end, ok := campaign.RangeFor(a.plan)
	if !ok {
		a.setStatus("Turn on checkpoint tracking to fetch spend", true)
		return a, nil
	}

	a.adsState.fetching = true
	a.setStatus(fmt.Sprintf("Fetching spend for %s to %s...",
		cli.FormatShortDate(start), cli.FormatShortDate(end)), false)
	return a, tea.Batch(a.spinner.Tick, fetchCostCmd(client, a.adsState.accountID, start, end))
}

func (a *App) disconnect() {
	a.adsState.token = ""
	a.adsState.accounts = nil
	a.adsState.cursor = 0
	a.cfg.Ads.Token = ""
	if !a.saveConfig() {
		return
	}
	logger.Log.Info("Disconnected from ads platform")
	a.setStatus("Disconnected", false)
}

func (a App) handleAuth(msg AuthMsg) (tea.Model, tea.Cmd) {
	a.adsState.connecting = false
	if msg.Err != nil {
		logger.Log.WithError(msg.Err).Error("Failed to connect to ads platform")
		a.setStatus("Connect failed: "+msg.Err.Error(), true)
		return a, nil
	}

	a.adsState.token = msg.Token
	a.cfg.Ads.Token = msg.Token
	if a.saveConfig() {
		a.setStatus("Connected", false)
	}
	logger.Log.Info("Connected to ads platform")

	client := a.adsClient()
	if client == nil {
		return a, nil
	}
	a.adsState.loadingAccounts = true
	return a, tea.Batch(a.spinner.Tick, fetchAccountsCmd(client))
}

func (a App) handleAccounts(msg AccountsMsg) (tea.Model, tea.Cmd) {
	a.adsState.loadingAccounts = false
	if msg.Data == nil {
		return a, nil
	}
	if msg.Data.Error != nil {
		logger.Log.WithError(msg.Data.Error).Error("Failed to fetch ads accounts")
		a.setStatus("Accounts failed: "+msg.Data.Error.Error(), true)
		return a, nil
	}

	a.adsState.accounts = msg.Data.Accounts
	a.adsState.cursor = 0
	for i, acct := range a.adsState.accounts {
		if acct.ID == a.adsState.accountID {
			a.adsState.cursor = i
		}
	}
	return a, nil
}

// handleCostFetched applies a fetched cost as the spent amount. Failures and
// stale results leave the plan untouched.
func (a App) handleCostFetched(msg CostFetchedMsg) (tea.Model, tea.Cmd) {
	a.adsState.fetching = false
	log := logger.Log.WithField("account_id", msg.AccountID)

	if msg.Err != nil {
		log.WithError(msg.Err).Error("Failed to fetch spend")
		a.setStatus("Fetch failed: "+msg.Err.Error(), true)
		return a, nil
	}

	p, applied := a.ctrl.ApplyFetchedSpend(a.plan, campaign.FetchedSpend{
		Cost:  msg.Cost,
		Start: msg.Start,
		End:   msg.End,
	}, a.cfg.Ads.DiscardStale)
	if !applied {
		log.Warn("Discarded spend for a stale date range")
		a.setStatus("Plan changed during fetch; result discarded", true)
		return a, nil
	}

	a.setPlan(p)
	a.adsState.lastFetch = time.Now()
	a.setStatus("Spent set to "+cli.FormatCurrency(p.SpentAmount), false)
	return a, nil
}

func (a App) renderAdsTab(cw int) string {
	t := theme.Active

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	goodStyle := lipgloss.NewStyle().Foreground(t.Good).Background(t.Surface)
	badStyle := lipgloss.NewStyle().Foreground(t.Bad).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceHover).Bold(true)
	markerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceHover)

	var conn strings.Builder
	conn.WriteString(labelStyle.Render(fmt.Sprintf("%-14s", "Status")))
	if a.adsState.token != "" {
		conn.WriteString(goodStyle.Render("connected"))
	} else {
		conn.WriteString(badStyle.Render("not connected"))
	}
	conn.WriteString("\n")

	account := cli.Placeholder
	if acct, ok := ads.FindAccount(a.adsState.accountID); ok {
		account = fmt.Sprintf("%s (%s)", acct.Name, acct.ID)
	}
	conn.WriteString(labelStyle.Render(fmt.Sprintf("%-14s", "Account")) + valueStyle.Render(account) + "\n")

	fetchRange := "turn on checkpoint tracking"
	if start, end, ok := campaign.RangeFor(a.plan); ok {
		fetchRange = cli.FormatDate(start) + " to " + cli.FormatDate(end)
	}
	conn.WriteString(labelStyle.Render(fmt.Sprintf("%-14s", "Fetch range")) + valueStyle.Render(fetchRange) + "\n")

	lastFetch := "never"
	if !a.adsState.lastFetch.IsZero() {
		lastFetch = a.adsState.lastFetch.Format("15:04:05")
	}
	conn.WriteString(labelStyle.Render(fmt.Sprintf("%-14s", "Last fetch")) + valueStyle.Render(lastFetch) + "\n")

	stale := "discard"
	if !a.cfg.Ads.DiscardStale {
		stale = "apply anyway"
	}
	conn.WriteString(labelStyle.Render(fmt.Sprintf("%-14s", "Stale results")) + valueStyle.Render(stale))

	var list strings.Builder
	switch {
	case a.adsState.token == "":
		list.WriteString(dimStyle.Render("Press c to connect."))
	case a.adsState.loadingAccounts:
		list.WriteString(dimStyle.Render("Loading accounts..."))
	case len(a.adsState.accounts) == 0:
		list.WriteString(dimStyle.Render("No accounts."))
	default:
		innerW := components.CardInnerWidth(cw)
		for i, acct := range a.adsState.accounts {
			mark := "  "
			if acct.ID == a.adsState.accountID {
				mark = "* "
			}
			text := fmt.Sprintf("%s%-32s %s", mark, acct.Name, acct.ID)
			if i == a.adsState.cursor {
				line := markerStyle.Render("▸ ") + selectedStyle.Render(text)
				if pad := innerW - lipgloss.Width(line); pad > 0 {
					line += lipgloss.NewStyle().Background(t.SurfaceHover).Render(strings.Repeat(" ", pad))
				}
				list.WriteString(line)
			} else {
				list.WriteString(labelStyle.Render("  ") + valueStyle.Render(text))
			}
			if i < len(a.adsState.accounts)-1 {
				list.WriteString("\n")
			}
		}
	}

	var b strings.Builder
	b.WriteString(components.ContentCard("Ads Connection", conn.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("Accounts", list.String(), cw))
	return b.String()
}
