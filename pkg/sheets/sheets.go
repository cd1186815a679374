package sheets

import (
	"context"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Client wraps the Google Sheets v4 service for a single spreadsheet.
// Remote failures are never propagated: every operation logs the error
// with its range and returns nil (or an empty result) so callers only
// have to distinguish "worked" from "didn't".
type Client struct {
	service       *sheets.Service
	spreadsheetID string
}

func NewClient(ctx context.Context, credentialsPath, spreadsheetID string) (*Client, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet ID is not configured")
	}
	if _, err := os.Stat(credentialsPath); err != nil {
		return nil, fmt.Errorf("credentials file not found at %s: %w", credentialsPath, err)
	}

	service, err := sheets.NewService(ctx, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Client{
		service:       service,
		spreadsheetID: spreadsheetID,
	}, nil
}

// Get returns the stored rows for the range, exactly as the API reports
// them: trailing blank cells are omitted, so inner rows may be shorter
// than the table width. An empty slice is returned on any failure.
func (c *Client) Get(ctx context.Context, readRange string) [][]interface{} {
	resp, err := c.service.Spreadsheets.Values.Get(c.spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		log.WithFields(log.Fields{
			"spreadsheet": c.spreadsheetID,
			"range":       readRange,
		}).Errorf("Failed to get sheet data: %v", err)
		return nil
	}
	return resp.Values
}

// Append adds rows after the last populated row of the table containing
// the range. Values go in USER_ENTERED mode, so the service may
// reinterpret strings as dates or numbers. Returns nil on failure.
func (c *Client) Append(ctx context.Context, writeRange string, values [][]interface{}) *sheets.AppendValuesResponse {
	resp, err := c.service.Spreadsheets.Values.Append(c.spreadsheetID, writeRange, &sheets.ValueRange{
		Values: values,
	}).ValueInputOption("USER_ENTERED").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		log.WithFields(log.Fields{
			"spreadsheet": c.spreadsheetID,
			"range":       writeRange,
			"values":      values, // careful: may contain sensitive data
		}).Errorf("Failed to append sheet data: %v", err)
		return nil
	}
	return resp
}

// Update overwrites exactly the given range, row-major, USER_ENTERED.
// Returns nil on failure.
func (c *Client) Update(ctx context.Context, writeRange string, values [][]interface{}) *sheets.UpdateValuesResponse {
	resp, err := c.service.Spreadsheets.Values.Update(c.spreadsheetID, writeRange, &sheets.ValueRange{
		Values: values,
	}).ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		log.WithFields(log.Fields{
			"spreadsheet": c.spreadsheetID,
			"range":       writeRange,
			"values":      values,
		}).Errorf("Failed to update sheet data: %v", err)
		return nil
	}
	return resp
}

// Clear blanks the values in a range without removing rows.
func (c *Client) Clear(ctx context.Context, clearRange string) *sheets.ClearValuesResponse {
	resp, err := c.service.Spreadsheets.Values.Clear(c.spreadsheetID, clearRange, &sheets.ClearValuesRequest{}).Context(ctx).Do()
	if err != nil {
		log.WithFields(log.Fields{
			"spreadsheet": c.spreadsheetID,
			"range":       clearRange,
		}).Errorf("Failed to clear sheet data: %v", err)
		return nil
	}
	return resp
}

// DeleteRow removes one physical row at the zero-based index from the
// tab identified by sheetGID. Every row below shifts up by one, so any
// previously computed row indices are stale afterwards.
func (c *Client) DeleteRow(ctx context.Context, sheetGID int64, rowIndex int64) *sheets.BatchUpdateSpreadsheetResponse {
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{
				DeleteDimension: &sheets.DeleteDimensionRequest{
					Range: &sheets.DimensionRange{
						SheetId:    sheetGID,
						Dimension:  "ROWS",
						StartIndex: rowIndex,
						EndIndex:   rowIndex + 1,
					},
				},
			},
		},
	}
	resp, err := c.service.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		log.WithFields(log.Fields{
			"spreadsheet": c.spreadsheetID,
			"sheet_gid":   sheetGID,
			"row_index":   rowIndex,
		}).Errorf("Failed to delete sheet row: %v", err)
		return nil
	}
	return resp
}

// EnsureSheetExists checks spreadsheet metadata for a tab with the given
// title and adds it when missing. Used by the sheetinit command, not by
// the request path.
func (c *Client) EnsureSheetExists(ctx context.Context, title string) error {
	ss, err := c.service.Spreadsheets.Get(c.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return err
	}
	for _, sh := range ss.Sheets {
		if sh.Properties.Title == title {
			return nil
		}
	}
	addSheetReq := &sheets.Request{
		AddSheet: &sheets.AddSheetRequest{
			Properties: &sheets.SheetProperties{
				Title: title,
			},
		},
	}
	_, err = c.service.Spreadsheets.BatchUpdate(c.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{addSheetReq},
	}).Context(ctx).Do()
	return err
}
