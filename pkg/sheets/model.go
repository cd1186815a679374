package sheets

import (
	"context"

	"google.golang.org/api/sheets/v4"
)

// Gateway is the surface the inventory handlers depend on, so tests can
// substitute an in-memory sheet.
type Gateway interface {
	Get(ctx context.Context, readRange string) [][]interface{}
	Append(ctx context.Context, writeRange string, values [][]interface{}) *sheets.AppendValuesResponse
	Update(ctx context.Context, writeRange string, values [][]interface{}) *sheets.UpdateValuesResponse
	Clear(ctx context.Context, clearRange string) *sheets.ClearValuesResponse
	DeleteRow(ctx context.Context, sheetGID int64, rowIndex int64) *sheets.BatchUpdateSpreadsheetResponse
}
