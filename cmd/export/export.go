// Package export writes the current month's ledger rows as CSV.
package export

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mlebedev/ledgerbot/cmd/root"
	"mlebedev/ledgerbot/internal/container"
)

var (
	spreadsheetID string
	outputFile    string
)

// Cmd is the export command.
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export the current month's transactions as CSV",
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

		out := os.Stdout
		if outputFile != "" {
			f, err := os.Create(outputFile)
			if err != nil {
				return fmt.Errorf("create output file: %w", err)
			}
			defer func() { _ = f.Close() }()
			out = f
		}

		return ledger.ExportMonth(cmd.Context(), id, out)
	},
}

func init() {
	Cmd.Flags().StringVar(&spreadsheetID, "spreadsheet", "", "Spreadsheet id (defaults to the first configured)")
	Cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (defaults to stdout)")
}
