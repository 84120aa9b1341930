package cmd

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/adpace/internal/config"
	"github.com/theirongolddev/adpace/internal/tui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	cfg, err := tui.RunSetup(appConfig)
	if errors.Is(err, huh.ErrUserAborted) {
		fmt.Println("\n  Setup cancelled; nothing saved.")
		return nil
	}
	if err != nil {
		return err
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.Path())
	fmt.Println("  Run `adpace ads login` to connect an ads account.")
	fmt.Println()

	return nil
}
