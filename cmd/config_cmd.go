package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/adpace/internal/cli"
	"github.com/theirongolddev/adpace/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg := appConfig

	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Default budget: %s\n", cli.FormatCurrency(cfg.General.DefaultBudget))
	fmt.Printf("    Default range:  %s\n", cfg.General.DefaultRange)
	fmt.Println()

	fmt.Println("  [Checkpoint]")
	fmt.Printf("    Default placement: %s\n", cfg.Checkpoint.DefaultPolicy)
	fmt.Println()

	fmt.Println("  [Ads]")
	token := config.GetAdsToken(cfg)
	if token != "" {
		fmt.Printf("    Token:         %s\n", maskToken(token))
	} else {
		fmt.Println("    Token:         not connected")
	}
	if cfg.Ads.AccountID != "" {
		fmt.Printf("    Account ID:    %s\n", cfg.Ads.AccountID)
	}
	fmt.Printf("    Discard stale: %v\n", cfg.Ads.DiscardStale)
	fmt.Printf("    Latency:       %s\n", config.AdsLatency(cfg))
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Log]")
	fmt.Printf("    Level:  %s\n", config.GetLogLevel(cfg))
	fmt.Printf("    Format: %s\n", cfg.Log.Format)
	fmt.Printf("    TUI log file: %s\n", config.LogPath(cfg))
	fmt.Println()

	fmt.Println("  Run `adpace setup` to reconfigure.")
	return nil
}

func maskToken(key string) string {
	if len(key) > 16 {
		return key[:8] + "..." + key[len(key)-4:]
	}
	if len(key) > 4 {
		return key[:4] + "..."
	}
	return "****"
}
