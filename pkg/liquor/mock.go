package liquor

import (
	"context"

	gsheets "google.golang.org/api/sheets/v4"
)

// mockGateway is an in-memory stand-in for the sheet gateway. Rows
// include the header row, matching what the real API returns for the
// full-table range.
type mockGateway struct {
	Rows [][]interface{}

	FailAppend  bool
	FailUpdate  bool
	FailDelete  bool
	DeleteReply *gsheets.Response

	GetCalls    []string
	AppendCalls [][][]interface{}
	UpdateRange string
	UpdateRows  [][]interface{}
	DeletedRows []int64
}

func (m *mockGateway) Get(ctx context.Context, readRange string) [][]interface{} {
	m.GetCalls = append(m.GetCalls, readRange)
	return m.Rows
}

func (m *mockGateway) Append(ctx context.Context, writeRange string, values [][]interface{}) *gsheets.AppendValuesResponse {
	if m.FailAppend {
		return nil
	}
	m.AppendCalls = append(m.AppendCalls, values)
	m.Rows = append(m.Rows, values...)
	cells := 0
	for _, row := range values {
		cells += len(row)
	}
	return &gsheets.AppendValuesResponse{
		Updates: &gsheets.UpdateValuesResponse{UpdatedCells: int64(cells)},
	}
}

func (m *mockGateway) Update(ctx context.Context, writeRange string, values [][]interface{}) *gsheets.UpdateValuesResponse {
	if m.FailUpdate {
		return nil
	}
	m.UpdateRange = writeRange
	m.UpdateRows = values
	cells := 0
	for _, row := range values {
		cells += len(row)
	}
	return &gsheets.UpdateValuesResponse{UpdatedCells: int64(cells)}
}

func (m *mockGateway) Clear(ctx context.Context, clearRange string) *gsheets.ClearValuesResponse {
	return &gsheets.ClearValuesResponse{ClearedRange: clearRange}
}

func (m *mockGateway) DeleteRow(ctx context.Context, sheetGID int64, rowIndex int64) *gsheets.BatchUpdateSpreadsheetResponse {
	if m.FailDelete {
		return nil
	}
	m.DeletedRows = append(m.DeletedRows, rowIndex)
	if int(rowIndex) < len(m.Rows) {
		m.Rows = append(m.Rows[:rowIndex], m.Rows[rowIndex+1:]...)
	}
	reply := m.DeleteReply
	if reply == nil {
		reply = &gsheets.Response{}
	}
	return &gsheets.BatchUpdateSpreadsheetResponse{
		Replies: []*gsheets.Response{reply},
	}
}
