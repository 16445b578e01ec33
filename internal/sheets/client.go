// Package sheets is the ledger persistence layer: confirmed transactions are
// appended to a Google Sheets spreadsheet, one sheet per calendar month, and
// monthly summary statistics are computed from the same rows.
package sheets

import (
	"context"
	"fmt"
	"time"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"mlebedev/ledgerbot/internal/logging"
	"mlebedev/ledgerbot/internal/models"
)

const summarySheetName = "Summary"

// SpreadsheetInfo names one selectable destination spreadsheet.
type SpreadsheetInfo struct {
	Title string
	ID    string
}

// Client wraps the Sheets API for the ledger's needs.
type Client struct {
	svc    *gsheet.Service
	logger logging.Logger
	now    func() time.Time
}

// NewClient builds a Sheets client from service-account credentials.
func NewClient(ctx context.Context, credentialsFile string, logger logging.Logger) (*Client, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsFile(credentialsFile),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &Client{svc: svc, logger: logger, now: time.Now}, nil
}

// MonthSheetName returns the sheet name for the current month, e.g.
// "January 2006".
func (c *Client) MonthSheetName() string {
	return c.now().Format("January 2006")
}

// ensureSheetExists creates the named sheet with the ledger header row if it
// is not present yet.
func (c *Client) ensureSheetExists(ctx context.Context, spreadsheetID, sheetName string) error {
	exists, _, err := c.findSheet(ctx, spreadsheetID, sheetName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	c.logger.WithFields(
		logging.Field{Key: "spreadsheet", Value: spreadsheetID},
		logging.Field{Key: "sheet", Value: sheetName},
	).Info("Creating month sheet")

	_, err = c.svc.Spreadsheets.BatchUpdate(spreadsheetID, &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			AddSheet: &gsheet.AddSheetRequest{
				Properties: &gsheet.SheetProperties{Title: sheetName},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("add sheet %q: %w", sheetName, err)
	}

	headers := make([]interface{}, len(models.SheetHeaders))
	for i, h := range models.SheetHeaders {
		headers[i] = h
	}
	_, err = c.svc.Spreadsheets.Values.Update(spreadsheetID,
		fmt.Sprintf("%s!A1:F1", sheetName),
		&gsheet.ValueRange{Values: [][]interface{}{headers}},
	).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write header row: %w", err)
	}
	return nil
}

// findSheet reports whether the named sheet exists and its sheet id.
func (c *Client) findSheet(ctx context.Context, spreadsheetID, sheetName string) (bool, int64, error) {
	spreadsheet, err := c.svc.Spreadsheets.Get(spreadsheetID).Context(ctx).Do()
	if err != nil {
		return false, 0, fmt.Errorf("get spreadsheet %s: %w", spreadsheetID, err)
	}
	for _, s := range spreadsheet.Sheets {
		if s.Properties != nil && s.Properties.Title == sheetName {
			return true, s.Properties.SheetId, nil
		}
	}
	return false, 0, nil
}

// AddTransaction appends one confirmed transaction to the current month
// sheet, creating the sheet on first use.
func (c *Client) AddTransaction(ctx context.Context, spreadsheetID string, row models.LedgerRow) error {
	sheetName := c.MonthSheetName()
	if err := c.ensureSheetExists(ctx, spreadsheetID, sheetName); err != nil {
		return err
	}

	values := [][]interface{}{{
		row.Date,
		row.Type,
		row.Category,
		row.Amount.String(),
		row.Source,
		row.Comment,
	}}

	_, err := c.svc.Spreadsheets.Values.Append(spreadsheetID,
		fmt.Sprintf("%s!A:F", sheetName),
		&gsheet.ValueRange{Values: values},
	).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append transaction row: %w", err)
	}

	c.logger.WithFields(
		logging.Field{Key: "spreadsheet", Value: spreadsheetID},
		logging.Field{Key: "sheet", Value: sheetName},
		logging.Field{Key: "category", Value: row.Category},
	).Info("Appended transaction")
	return nil
}

// monthValues reads the data rows of the current month sheet. A missing
// sheet yields no rows.
func (c *Client) monthValues(ctx context.Context, spreadsheetID string) ([][]interface{}, error) {
	sheetName := c.MonthSheetName()
	resp, err := c.svc.Spreadsheets.Values.Get(spreadsheetID,
		fmt.Sprintf("%s!A2:F", sheetName)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read month sheet: %w", err)
	}
	return resp.Values, nil
}

// MonthlyStatistics computes the current month's summary.
func (c *Client) MonthlyStatistics(ctx context.Context, spreadsheetID string) (models.MonthlyStatistics, error) {
	values, err := c.monthValues(ctx, spreadsheetID)
	if err != nil {
		// A month without transactions has no sheet yet; report zeros.
		c.logger.WithError(err).Warn("Reading month sheet failed, returning empty statistics")
		return models.MonthlyStatistics{}, nil
	}
	return ComputeMonthlyStatistics(values, c.now().Day()), nil
}

// AvailableSheets resolves spreadsheet titles for the select-table menu.
// Unreachable spreadsheets are skipped with a warning.
func (c *Client) AvailableSheets(ctx context.Context, spreadsheetIDs []string) ([]SpreadsheetInfo, error) {
	var infos []SpreadsheetInfo
	for _, id := range spreadsheetIDs {
		if id == "" {
			continue
		}
		spreadsheet, err := c.svc.Spreadsheets.Get(id).Context(ctx).Do()
		if err != nil {
			c.logger.WithError(err).WithField("spreadsheet", id).Warn("Skipping unreachable spreadsheet")
			continue
		}
		title := id
		if spreadsheet.Properties != nil && spreadsheet.Properties.Title != "" {
			title = spreadsheet.Properties.Title
		}
		infos = append(infos, SpreadsheetInfo{Title: title, ID: id})
	}
	if len(infos) == 0 {
		return nil, fmt.Errorf("no reachable spreadsheets among %d configured", len(spreadsheetIDs))
	}
	return infos, nil
}
