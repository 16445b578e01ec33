package sheets

import (
	"context"
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"mlebedev/ledgerbot/internal/models"
)

// ExportMonth writes the current month's ledger rows as CSV.
func (c *Client) ExportMonth(ctx context.Context, spreadsheetID string, w io.Writer) error {
	values, err := c.monthValues(ctx, spreadsheetID)
	if err != nil {
		return err
	}

	rows := RowsFromValues(values)
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// RowsFromValues converts raw sheet values into ledger rows, skipping rows
// that are too short or have unparseable amounts.
func RowsFromValues(values [][]interface{}) []models.LedgerRow {
	rows := []models.LedgerRow{}
	for _, v := range values {
		if len(v) < 4 {
			continue
		}
		amount, err := parseCellAmount(v[3])
		if err != nil {
			continue
		}
		row := models.LedgerRow{
			Date:     fmt.Sprint(v[0]),
			Type:     fmt.Sprint(v[1]),
			Category: fmt.Sprint(v[2]),
			Amount:   amount,
		}
		if len(v) > 4 {
			row.Source = fmt.Sprint(v[4])
		}
		if len(v) > 5 {
			row.Comment = fmt.Sprint(v[5])
		}
		rows = append(rows, row)
	}
	return rows
}
