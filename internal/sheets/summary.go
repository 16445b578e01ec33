package sheets

import (
	"context"
	"fmt"

	gsheet "google.golang.org/api/sheets/v4"
)

// EnsureSummarySheet creates the "Summary" sheet with its charts when the
// spreadsheet does not have one yet. Existing summary sheets are left alone,
// including any formulas the owner added by hand.
func (c *Client) EnsureSummarySheet(ctx context.Context, spreadsheetID string) error {
	exists, sheetID, err := c.findSheet(ctx, spreadsheetID, summarySheetName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	resp, err := c.svc.Spreadsheets.BatchUpdate(spreadsheetID, &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			AddSheet: &gsheet.AddSheetRequest{
				Properties: &gsheet.SheetProperties{Title: summarySheetName},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("add summary sheet: %w", err)
	}
	if len(resp.Replies) > 0 && resp.Replies[0].AddSheet != nil {
		sheetID = resp.Replies[0].AddSheet.Properties.SheetId
	}

	c.logger.WithField("spreadsheet", spreadsheetID).Info("Created summary sheet")
	return c.addSummaryCharts(ctx, spreadsheetID, sheetID)
}

// addSummaryCharts adds the two standing charts: a pie of expenses by
// category and a column chart of income versus expense by day. Both read
// from fixed ranges that the owner's summary formulas fill in.
func (c *Client) addSummaryCharts(ctx context.Context, spreadsheetID string, sheetID int64) error {
	pie := &gsheet.Request{
		AddChart: &gsheet.AddChartRequest{
			Chart: &gsheet.EmbeddedChart{
				Spec: &gsheet.ChartSpec{
					Title: "Расходы по категориям",
					PieChart: &gsheet.PieChartSpec{
						LegendPosition: "RIGHT_LEGEND",
						Domain: &gsheet.ChartData{
							SourceRange: &gsheet.ChartSourceRange{
								Sources: []*gsheet.GridRange{{
									SheetId:          sheetID,
									StartRowIndex:    2,
									EndRowIndex:      22,
									StartColumnIndex: 3,
									EndColumnIndex:   4,
								}},
							},
						},
						Series: &gsheet.ChartData{
							SourceRange: &gsheet.ChartSourceRange{
								Sources: []*gsheet.GridRange{{
									SheetId:          sheetID,
									StartRowIndex:    2,
									EndRowIndex:      22,
									StartColumnIndex: 4,
									EndColumnIndex:   5,
								}},
							},
						},
					},
				},
				Position: &gsheet.EmbeddedObjectPosition{
					OverlayPosition: &gsheet.OverlayPosition{
						AnchorCell: &gsheet.GridCoordinate{
							SheetId:     sheetID,
							RowIndex:    1,
							ColumnIndex: 8,
						},
					},
				},
			},
		},
	}

	daily := &gsheet.Request{
		AddChart: &gsheet.AddChartRequest{
			Chart: &gsheet.EmbeddedChart{
				Spec: &gsheet.ChartSpec{
					Title: "Доходы и расходы по дням",
					BasicChart: &gsheet.BasicChartSpec{
						ChartType:      "COLUMN",
						LegendPosition: "BOTTOM_LEGEND",
						Domains: []*gsheet.BasicChartDomain{{
							Domain: &gsheet.ChartData{
								SourceRange: &gsheet.ChartSourceRange{
									Sources: []*gsheet.GridRange{{
										SheetId:          sheetID,
										StartRowIndex:    2,
										EndRowIndex:      33,
										StartColumnIndex: 7,
										EndColumnIndex:   8,
									}},
								},
							},
						}},
						Series: []*gsheet.BasicChartSeries{
							{
								Series: &gsheet.ChartData{
									SourceRange: &gsheet.ChartSourceRange{
										Sources: []*gsheet.GridRange{{
											SheetId:          sheetID,
											StartRowIndex:    2,
											EndRowIndex:      33,
											StartColumnIndex: 8,
											EndColumnIndex:   9,
										}},
									},
								},
								TargetAxis: "LEFT_AXIS",
							},
							{
								Series: &gsheet.ChartData{
									SourceRange: &gsheet.ChartSourceRange{
										Sources: []*gsheet.GridRange{{
											SheetId:          sheetID,
											StartRowIndex:    2,
											EndRowIndex:      33,
											StartColumnIndex: 9,
											EndColumnIndex:   10,
										}},
									},
								},
								TargetAxis: "LEFT_AXIS",
							},
						},
					},
				},
				Position: &gsheet.EmbeddedObjectPosition{
					OverlayPosition: &gsheet.OverlayPosition{
						AnchorCell: &gsheet.GridCoordinate{
							SheetId:     sheetID,
							RowIndex:    24,
							ColumnIndex: 8,
						},
					},
				},
			},
		},
	}

	_, err := c.svc.Spreadsheets.BatchUpdate(spreadsheetID, &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{pie, daily},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("add summary charts: %w", err)
	}
	return nil
}
