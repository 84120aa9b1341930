package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/adpace/internal/ads"
	"github.com/theirongolddev/adpace/internal/budget"
	"github.com/theirongolddev/adpace/internal/campaign"
	"github.com/theirongolddev/adpace/internal/cli"
	"github.com/theirongolddev/adpace/internal/config"
	"github.com/theirongolddev/adpace/internal/logger"
	"github.com/theirongolddev/adpace/internal/model"
)

const fetchTimeout = 30 * time.Second

var (
	flagFetchSpent bool
	flagAccount    string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Daily budget and checkpoint pacing for a campaign",
	Example: `  adpace plan --start 2025-01-01 --end 2025-01-10 --budget 1000
  adpace plan -r this-month -b 3000 --checkpoint yesterday --spent 1250
  adpace plan -r this-month --checkpoint yesterday --fetch-spent --account 1234567890`,
	RunE: runPlan,
}

func init() {
	planCmd.Flags().BoolVar(&flagFetchSpent, "fetch-spent", false, "Fetch the spent amount from the connected ads account")
	planCmd.Flags().StringVar(&flagAccount, "account", "", "Ads account ID (defaults to ads.account_id)")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, _ []string) error {
	ctrl := newController()
	p, err := buildPlan(cmd, ctrl)
	if err != nil {
		return err
	}

	if flagFetchSpent {
		p, err = fetchSpent(cmd.Context(), ctrl, p)
		if err != nil {
			return err
		}
	}

	m, ok := budget.Derive(p)

	fmt.Println()
	fmt.Println(cli.RenderTitle(planTitle(p)))
	fmt.Println()

	if !ok {
		fmt.Println("  Enter a budget above zero and both campaign dates to see the daily spend.")
		return nil
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Campaign", "Value"},
		Rows:    planRows(p, m),
	}))

	if m.HasCheckpoint {
		fmt.Println()
		fmt.Println("  " + cli.RenderBudgetBar(m.SpentAmount, p.TotalBudget, 30))
		fmt.Println("  Pacing: " + cli.RenderPacing(m.Pacing))
		if m.DaysRemaining == 0 {
			note("The checkpoint is the last campaign day; nothing is left to allocate.")
		}
	} else {
		note("Add --checkpoint and --spent to track pacing mid-campaign.")
	}
	fmt.Println()

	return nil
}

func planTitle(p model.CampaignPlan) string {
	if p.StartDate.IsZero() || p.EndDate.IsZero() {
		return "CAMPAIGN PLAN"
	}
	return fmt.Sprintf("CAMPAIGN PLAN  %s to %s", cli.FormatShortDate(p.StartDate), cli.FormatDate(p.EndDate))
}

func planRows(p model.CampaignPlan, m model.DerivedMetrics) [][]string {
	rows := [][]string{
		{"Start", cli.FormatDate(p.StartDate)},
		{"End", cli.FormatDate(p.EndDate)},
		{"Duration", cli.FormatDays(m.TotalDays)},
		{"Total budget", cli.FormatCurrency(p.TotalBudget)},
		{"---"},
		{"Daily budget", cli.FormatCurrency(m.DailyBudget)},
	}
	if !m.HasCheckpoint {
		return rows
	}

	adjusted := cli.FormatCurrency(m.AdjustedDailyBudget)
	if m.DaysRemaining == 0 {
		adjusted = cli.Placeholder
	}

	rows = append(rows,
		[]string{"---"},
		[]string{"Checkpoint", cli.FormatDate(p.CheckpointDate)},
		[]string{"Days elapsed", cli.FormatDays(m.DaysElapsed)},
		[]string{"Days remaining", cli.FormatDays(m.DaysRemaining)},
		[]string{"Spent", cli.FormatCurrency(m.SpentAmount)},
		[]string{"Remaining budget", cli.FormatCurrency(m.RemainingBudget)},
		[]string{"Adjusted daily", adjusted},
		[]string{"Pacing", cli.FormatPacing(m.Pacing)},
		[]string{"---"},
		[]string{"Burn rate", cli.FormatCurrency(m.DailyBurnRate) + "/day"},
		[]string{"Projected total", fmt.Sprintf("%s (%s)", cli.FormatCurrency(m.ProjectedSpend), cli.FormatVariance(m.ProjectedVariance))},
	)
	return rows
}

// fetchSpent replaces the plan's spent amount with the connected account's
// cost from campaign start through the checkpoint. A failed fetch leaves the
// plan unchanged.
func fetchSpent(ctx context.Context, ctrl campaign.Controller, p model.CampaignPlan) (model.CampaignPlan, error) {
	start, end, ok := campaign.RangeFor(p)
	if !ok {
		return p, errors.New("--fetch-spent needs a --checkpoint date")
	}

	client := newAdsClient()
	if client == nil {
		return p, errNotConnected
	}
	accountID := resolveAccount()
	if accountID == "" {
		return p, errors.New("no ads account selected; pass --account or run `adpace ads use <id>`")
	}

	note("Fetching spend for %s to %s...", cli.FormatDate(start), cli.FormatDate(end))

	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	data, err := client.FetchCost(ctx, accountID, start, end)
	if err != nil {
		logger.Log.WithError(err).WithField("account_id", accountID).Error("Failed to fetch spend")
		note("Could not fetch spend (%v); keeping %s.", err, cli.FormatCurrency(p.SpentAmount))
		return p, nil
	}

	fetchedStart, fetchedEnd, err := data.Range()
	if err != nil {
		logger.Log.WithError(err).Error("Malformed spend response")
		return p, nil
	}

	p, applied := ctrl.ApplyFetchedSpend(p, campaign.FetchedSpend{
		Cost:  data.Cost,
		Start: fetchedStart,
		End:   fetchedEnd,
	}, appConfig.Ads.DiscardStale)
	if !applied {
		logger.Log.WithField("account_id", accountID).Warn("Discarded spend for a stale date range")
	}
	return p, nil
}

func newAdsClient() *ads.MockClient {
	return ads.NewMockClient(config.GetAdsToken(appConfig),
		ads.WithLatency(config.AdsLatency(appConfig)),
		ads.WithLogger(logger.Log),
	)
}

func resolveAccount() string {
	if flagAccount != "" {
		return flagAccount
	}
	return appConfig.Ads.AccountID
}
