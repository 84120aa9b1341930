package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/adpace/internal/budget"
	"github.com/theirongolddev/adpace/internal/cli"
)

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Day-by-day spend schedule",
	RunE:  runDaily,
}

func init() {
	rootCmd.AddCommand(dailyCmd)
}

func runDaily(cmd *cobra.Command, _ []string) error {
	p, err := buildPlan(cmd, newController())
	if err != nil {
		return err
	}

	days := budget.Schedule(p)
	if len(days) == 0 {
		fmt.Println("\n  Enter a budget above zero and both campaign dates to see a schedule.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("DAILY SCHEDULE  %s", cli.FormatDays(len(days)))))
	fmt.Println()

	rows := make([][]string, 0, len(days))
	amounts := make([]float64, 0, len(days))
	for _, d := range days {
		rows = append(rows, []string{
			d.Date.Format("2006-01-02"),
			cli.FormatDayOfWeek(int(d.Date.Weekday())),
			d.Phase.Label(),
			cli.FormatCurrency(d.Planned),
			cli.FormatCurrency(d.Recommended),
			cli.FormatCurrency(d.Cumulative),
		})
		amounts = append(amounts, d.Recommended)
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Date", "Day", "Phase", "Planned", "Spend", "Cumulative"},
		Rows:    rows,
	}))
	fmt.Println()
	fmt.Printf("  %s\n", cli.RenderSparkline(amounts))

	if p.HasCheckpoint() {
		note("Days through the checkpoint show the average actual spend.")
	}
	return nil
}
