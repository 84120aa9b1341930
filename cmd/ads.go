package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/adpace/internal/ads"
	"github.com/theirongolddev/adpace/internal/campaign"
	"github.com/theirongolddev/adpace/internal/cli"
	"github.com/theirongolddev/adpace/internal/config"
	"github.com/theirongolddev/adpace/internal/logger"
)

var adsCmd = &cobra.Command{
	Use:   "ads",
	Short: "Connect to the (mock) ads platform and read campaign spend",
}

var adsLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Connect an ads account and store the token",
	Args:  cobra.NoArgs,
	RunE:  runAdsLogin,
}

var adsLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored ads token",
	Args:  cobra.NoArgs,
	RunE:  runAdsLogout,
}

var adsAccountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "List ads accounts visible to the token",
	Args:  cobra.NoArgs,
	RunE:  runAdsAccounts,
}

var adsUseCmd = &cobra.Command{
	Use:   "use <account-id>",
	Short: "Select the default ads account",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdsUse,
}

var adsFetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch spend from campaign start through the checkpoint (or end)",
	Args:  cobra.NoArgs,
	RunE:  runAdsFetch,
}

func init() {
	adsFetchCmd.Flags().StringVar(&flagAccount, "account", "", "Ads account ID (defaults to ads.account_id)")
	adsCmd.AddCommand(adsLoginCmd, adsLogoutCmd, adsAccountsCmd, adsUseCmd, adsFetchCmd)
	rootCmd.AddCommand(adsCmd)
}

func runAdsLogin(cmd *cobra.Command, _ []string) error {
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Connecting to ads platform...\n")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), fetchTimeout)
	defer cancel()

	token, err := ads.Authenticate(ctx, config.AdsLatency(appConfig))
	if err != nil {
		return err
	}

	cfg := appConfig
	cfg.Ads.Token = token
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving token: %w", err)
	}
	logger.Log.Info("Connected to ads platform")

	fmt.Println()
	fmt.Println("  Connected. Token saved to " + config.Path())
	fmt.Println("  Run `adpace ads accounts` to pick an account.")
	fmt.Println()
	return nil
}

func runAdsLogout(_ *cobra.Command, _ []string) error {
	cfg := appConfig
	cfg.Ads.Token = ""
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("clearing token: %w", err)
	}
	logger.Log.Info("Disconnected from ads platform")

	fmt.Println("\n  Disconnected from the ads platform.")
	if os.Getenv(config.EnvAdsToken) != "" {
		fmt.Printf("  Note: %s is still set in the environment.\n", config.EnvAdsToken)
	}
	fmt.Println()
	return nil
}

func runAdsAccounts(cmd *cobra.Command, _ []string) error {
	client := newAdsClient()
	if client == nil {
		return errNotConnected
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), fetchTimeout)
	defer cancel()

	accounts, err := client.FetchAccounts(ctx)
	if err != nil {
		return fmt.Errorf("fetching accounts: %w", err)
	}

	rows := make([][]string, 0, len(accounts))
	for _, a := range accounts {
		marker := ""
		if a.ID == appConfig.Ads.AccountID {
			marker = "*"
		}
		rows = append(rows, []string{a.Name, a.ID, marker})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Ads accounts",
		Headers: []string{"Name", "ID", "Default"},
		Rows:    rows,
	}))
	fmt.Println()
	return nil
}

func runAdsUse(_ *cobra.Command, args []string) error {
	a, ok := ads.FindAccount(args[0])
	if !ok {
		return fmt.Errorf("%w: %q", ads.ErrUnknownAccount, args[0])
	}

	cfg := appConfig
	cfg.Ads.AccountID = a.ID
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving account: %w", err)
	}
	fmt.Printf("\n  Default account: %s (%s)\n\n", a.Name, a.ID)
	return nil
}

func runAdsFetch(cmd *cobra.Command, _ []string) error {
	p, err := buildPlan(cmd, newController())
	if err != nil {
		return err
	}

	start, end, ok := campaign.RangeFor(p)
	if !ok {
		start, end = p.StartDate, p.EndDate
	}

	client := newAdsClient()
	if client == nil {
		return errNotConnected
	}
	accountID := resolveAccount()
	if accountID == "" {
		return errors.New("no ads account selected; pass --account or run `adpace ads use <id>`")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), fetchTimeout)
	defer cancel()

	data, err := client.FetchCost(ctx, accountID, start, end)
	if err != nil {
		return fmt.Errorf("fetching spend: %w", err)
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Ads spend",
		Headers: []string{"Account", "From", "Through", "Cost"},
		Rows: [][]string{{
			accountID,
			data.StartDate,
			data.EndDate,
			cli.FormatCurrency(data.Cost) + " " + data.Currency,
		}},
	}))
	fmt.Println()
	return nil
}

var errNotConnected = errors.New("not connected to an ads account; run `adpace ads login`")
