package liquor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColumnLetter(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{1, "A"},
		{2, "B"},
		{8, "H"},
		{26, "Z"},
		{27, "AA"},
		{28, "AB"},
		{52, "AZ"},
		{53, "BA"},
		{702, "ZZ"},
		{703, "AAA"},
	}
	for _, tt := range tests {
		got := ColumnLetter(tt.in)
		if got != tt.want {
			t.Errorf("ColumnLetter(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ID", "id"},
		{"Name", "name"},
		{"Volume (ml)", "volume_ml"},
		{"Last Updated", "last_updated"},
	}
	for _, tt := range tests {
		got := FormKey(tt.in)
		if got != tt.want {
			t.Errorf("FormKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestItemFromRowPadsShortRows(t *testing.T) {
	item := itemFromRow([]interface{}{"id-1", "Oak Whiskey"})
	assert.Equal(t, "id-1", item.ID)
	assert.Equal(t, "Oak Whiskey", item.Name)
	assert.Equal(t, "", item.Type)
	assert.Equal(t, "", item.LastUpdated)
}

func TestItemFromRowTruncatesLongRows(t *testing.T) {
	row := []interface{}{"id-1", "Oak Whiskey", "Whiskey", "Oakmont", "700", "49.99", "3", "2025-01-01 10:00:00", "extra", "columns"}
	item := itemFromRow(row)
	assert.Equal(t, "2025-01-01 10:00:00", item.LastUpdated)
	assert.Len(t, item.Values(), len(Headers))
}

func TestItemFromRowCoercesNonStringCells(t *testing.T) {
	item := itemFromRow([]interface{}{"id-1", "Oak Whiskey", nil, "Oakmont", 700, 49.99, 3, nil})
	assert.Equal(t, "700", item.Volume)
	assert.Equal(t, "49.99", item.Price)
	assert.Equal(t, "3", item.Quantity)
	assert.Equal(t, "", item.Type)
}

func TestIsBlankRow(t *testing.T) {
	tests := []struct {
		row  []interface{}
		want bool
	}{
		{[]interface{}{}, true},
		{[]interface{}{nil, nil}, true},
		{[]interface{}{"", "", ""}, true},
		{[]interface{}{nil, ""}, true},
		{[]interface{}{"", "x"}, false},
		{[]interface{}{0}, false},
	}
	for _, tt := range tests {
		if got := isBlankRow(tt.row); got != tt.want {
			t.Errorf("isBlankRow(%v) = %v, want %v", tt.row, got, tt.want)
		}
	}
}

func TestMatchesSearch(t *testing.T) {
	item := Item{Name: "Oak Whiskey", Type: "Whiskey"}
	assert.True(t, item.matchesSearch("OAK"))
	assert.True(t, item.matchesSearch("whis"))
	assert.True(t, item.matchesSearch("Whiskey"))
	assert.False(t, item.matchesSearch("gin"))
}

func TestFormFieldsExcludeSystemColumns(t *testing.T) {
	fields := FormFields()
	assert.Equal(t, []string{"Name", "Type", "Brand", "Volume (ml)", "Price", "Quantity"}, fields)
}
