package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/adpace/internal/config"
	"github.com/theirongolddev/adpace/internal/logger"
	"github.com/theirongolddev/adpace/internal/tui"
	"github.com/theirongolddev/adpace/internal/tui/theme"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive campaign planner",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	ctrl := newController()
	p, err := buildPlan(cmd, ctrl)
	if err != nil {
		return err
	}

	// The alt screen owns the terminal, so logs go to a file.
	if f, err := logger.OpenFile(config.LogPath(appConfig)); err == nil {
		defer f.Close()
		level := config.GetLogLevel(appConfig)
		if flagLogLevel != "" {
			level = flagLogLevel
		}
		logger.Init(level, appConfig.Log.Format, f)
	} else {
		logger.Log.WithError(err).Warn("Could not open log file; logging to stderr")
	}

	theme.SetActive(appConfig.Appearance.Theme)

	// Force TrueColor so background styling always produces ANSI codes.
	lipgloss.SetColorProfile(termenv.TrueColor)

	app := tui.NewApp(appConfig, ctrl, p)
	prog := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := prog.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
