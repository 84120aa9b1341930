// Package cmd implements the adpace CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/adpace/internal/campaign"
	"github.com/theirongolddev/adpace/internal/cli"
	"github.com/theirongolddev/adpace/internal/config"
	"github.com/theirongolddev/adpace/internal/logger"
	"github.com/theirongolddev/adpace/internal/model"
)

var (
	flagStart      string
	flagEnd        string
	flagRange      string
	flagBudget     float64
	flagCheckpoint string
	flagSpent      float64
	flagPolicy     string
	flagQuiet      bool
	flagLogLevel   string
)

// appConfig is loaded once per invocation by the root pre-run hook.
var appConfig = config.DefaultConfig()

var rootCmd = &cobra.Command{
	Use:   "adpace",
	Short: "Ad campaign budget pacing calculator",
	Long: "Work out how much to spend per day on an ad campaign, and whether a " +
		"running campaign is on pace for its budget.",
	SilenceUsage:      true,
	PersistentPreRunE: loadEnvironment,
	RunE:              runPlan,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagStart, "start", "s", "", "Campaign start date (YYYY-MM-DD, today, tomorrow)")
	rootCmd.PersistentFlags().StringVarP(&flagEnd, "end", "e", "", "Campaign end date (inclusive)")
	rootCmd.PersistentFlags().StringVarP(&flagRange, "range", "r", "", "Quick range: this-month, next-month, next-7-days, next-30-days, rest-of-month")
	rootCmd.PersistentFlags().Float64VarP(&flagBudget, "budget", "b", 0, "Total campaign budget in USD")
	rootCmd.PersistentFlags().StringVarP(&flagCheckpoint, "checkpoint", "c", "", "Checkpoint date for mid-campaign tracking (enables tracking)")
	rootCmd.PersistentFlags().Float64Var(&flagSpent, "spent", 0, "Amount spent through the checkpoint")
	rootCmd.PersistentFlags().StringVar(&flagPolicy, "policy", "", "Default checkpoint placement: clamp or start (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress notes and progress output")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
}

// loadEnvironment reads .env, the config file and sets up logging.
func loadEnvironment(_ *cobra.Command, _ []string) error {
	config.LoadEnv()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid config %s: %w", config.Path(), err)
	}
	appConfig = cfg

	level := config.GetLogLevel(cfg)
	if flagLogLevel != "" {
		level = flagLogLevel
	}
	logger.Init(level, cfg.Log.Format, os.Stderr)
	return nil
}

func newController() campaign.Controller {
	policy := appConfig.Checkpoint.DefaultPolicy
	if flagPolicy != "" {
		policy = flagPolicy
	}
	return campaign.New(campaign.ParsePolicy(policy))
}

// buildPlan applies the plan flags on top of the configured defaults, in the
// same order a user would edit the fields.
func buildPlan(cmd *cobra.Command, ctrl campaign.Controller) (model.CampaignPlan, error) {
	flags := cmd.Flags()

	p := ctrl.NewPlan(appConfig.General.DefaultRange, appConfig.General.DefaultBudget)
	if flags.Changed("budget") {
		p = ctrl.SetBudget(p, flagBudget)
	}

	today := ctrl.Today()

	if flagRange != "" {
		var err error
		if p, err = ctrl.ApplyQuickRange(p, flagRange); err != nil {
			return p, err
		}
	}
	if flagStart != "" {
		d, err := cli.ParseDate(flagStart, today)
		if err != nil {
			return p, fmt.Errorf("--start: %w", err)
		}
		p = ctrl.SetStartDate(p, d)
	}
	if flagEnd != "" {
		d, err := cli.ParseDate(flagEnd, today)
		if err != nil {
			return p, fmt.Errorf("--end: %w", err)
		}
		p = ctrl.SetEndDate(p, d)
	}

	if flagCheckpoint != "" {
		d, err := cli.ParseDate(flagCheckpoint, today)
		if err != nil {
			return p, fmt.Errorf("--checkpoint: %w", err)
		}
		p = ctrl.ToggleCheckpoint(p, true)
		p = ctrl.SetCheckpointDate(p, d)
	}

	if flags.Changed("spent") {
		if !p.HasCheckpoint() {
			return p, fmt.Errorf("--spent needs a --checkpoint date")
		}
		p = ctrl.SetSpentAmount(p, flagSpent)
		if p.SpentAmount != flagSpent {
			logger.Log.WithFields(logrus.Fields{
				"requested": flagSpent,
				"applied":   p.SpentAmount,
			}).Debug("Spent amount adjusted to fit budget")
		}
	}

	return p, nil
}

// note prints an explanatory line unless --quiet is set.
func note(format string, args ...any) {
	if flagQuiet {
		return
	}
	fmt.Fprintln(os.Stderr, cli.RenderNote(fmt.Sprintf(format, args...)))
}
