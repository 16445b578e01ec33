// Package stats prints the current month's ledger summary.
package stats

import (
	"fmt"

	"github.com/spf13/cobra"

	"mlebedev/ledgerbot/cmd/root"
	"mlebedev/ledgerbot/internal/container"
)

var spreadsheetID string

// Cmd is the stats command.
var Cmd = &cobra.Command{
	Use:   "stats",
	Short: "Show monthly statistics for a spreadsheet",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := container.NewContainer(root.Cfg)
		if err != nil {
			return err
		}

		id := spreadsheetID
		if id == "" {
			if len(root.Cfg.Sheets.SpreadsheetIDs) == 0 {
				return fmt.Errorf("no spreadsheet configured; set sheets.spreadsheet_ids or pass --spreadsheet")
			}
			id = root.Cfg.Sheets.SpreadsheetIDs[0]
		}

		ledger, err := c.Sheets(cmd.Context())
		if err != nil {
			return err
		}

		stats, err := ledger.MonthlyStatistics(cmd.Context(), id)
		if err != nil {
			return err
		}

		fmt.Printf("Income:             %s\n", stats.TotalIncome.StringFixed(2))
		fmt.Printf("Expense:            %s\n", stats.TotalExpense.StringFixed(2))
		fmt.Printf("Avg daily expense:  %s\n", stats.AvgDailyExpense.StringFixed(2))
		fmt.Println("Top expenses:")
		for _, top := range stats.TopExpenses {
			fmt.Printf("  %s: %s\n", top.Category, top.Amount.StringFixed(2))
		}
		return nil
	},
}

func init() {
	Cmd.Flags().StringVar(&spreadsheetID, "spreadsheet", "", "Spreadsheet id (defaults to the first configured)")
}
