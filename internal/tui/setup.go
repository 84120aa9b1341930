package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/theirongolddev/adpace/internal/cli"
	"github.com/theirongolddev/adpace/internal/config"
	"github.com/theirongolddev/adpace/internal/tui/theme"
)

// setupValues holds the first-run form answers as the form edits them.
type setupValues struct {
	budget       string
	rangeVariant string
	policy       string
	discardStale bool
	theme        string
}

func setupValuesFrom(cfg config.Config) setupValues {
	return setupValues{
		budget:       strconv.FormatFloat(cfg.General.DefaultBudget, 'f', -1, 64),
		rangeVariant: cfg.General.DefaultRange,
		policy:       cfg.Checkpoint.DefaultPolicy,
		discardStale: cfg.Ads.DiscardStale,
		theme:        cfg.Appearance.Theme,
	}
}

// apply copies the answers onto cfg. The budget was validated by the form.
func (v setupValues) apply(cfg config.Config) config.Config {
	if amount, err := cli.ParseAmount(v.budget); err == nil && amount > 0 {
		cfg.General.DefaultBudget = amount
	}
	cfg.General.DefaultRange = v.rangeVariant
	cfg.Checkpoint.DefaultPolicy = v.policy
	cfg.Ads.DiscardStale = v.discardStale
	cfg.Appearance.Theme = v.theme
	return cfg
}

func validateBudget(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	_, err := cli.ParseAmount(s)
	return err
}

func newSetupForm(vals *setupValues) *huh.Form {
	themeOpts := make([]huh.Option[string], len(theme.All))
	for i, t := range theme.All {
		themeOpts[i] = huh.NewOption(t.Name, t.Name)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to adpace").
				Description("A few defaults for new campaign plans.\nEverything can be changed later in Settings."),

			huh.NewInput().
				Title("Default campaign budget").
				Description("Total USD for a new plan.").
				Placeholder("1000").
				Value(&vals.budget).
				Validate(validateBudget),

			huh.NewSelect[string]().
				Title("Default campaign dates").
				Options(
					huh.NewOption("Today plus 7 days", "week"),
					huh.NewOption("This calendar month", "month"),
				).
				Value(&vals.rangeVariant),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("When yesterday is outside the campaign, place a new checkpoint on").
				Options(
					huh.NewOption("The nearest campaign day", "clamp"),
					huh.NewOption("The start date", "start"),
				).
				Value(&vals.policy),

			huh.NewConfirm().
				Title("Discard ads spend fetched for an outdated date range?").
				Affirmative("Discard").
				Negative("Apply anyway").
				Value(&vals.discardStale),

			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&vals.theme),
		),
	).WithTheme(huh.ThemeDracula()).WithShowHelp(true)
}

// RunSetup runs the setup form standalone and returns cfg with the answers
// applied. The caller saves it.
func RunSetup(cfg config.Config) (config.Config, error) {
	vals := setupValuesFrom(cfg)
	if err := newSetupForm(&vals).Run(); err != nil {
		return cfg, err
	}
	return vals.apply(cfg), nil
}
