package liquor

import (
	"fmt"
	"strings"
)

// Headers is the fixed header row of the inventory sheet, in column
// order. Do not reorder these: rows are mapped onto fields positionally.
var Headers = []string{
	"ID",
	"Name",
	"Type",
	"Brand",
	"Volume (ml)",
	"Price",
	"Quantity",
	"Last Updated",
}

const idColumn = 0

// Item is one inventory row keyed by its generated ID. All values are
// kept as strings; the sheet is the source of truth and cells come back
// untyped anyway.
type Item struct {
	ID          string
	Name        string
	Type        string
	Brand       string
	Volume      string
	Price       string
	Quantity    string
	LastUpdated string
}

// itemFromRow maps a raw sheet row onto an Item. Short rows are padded
// and long rows truncated to the header width first, so the positional
// mapping always lines up.
func itemFromRow(row []interface{}) Item {
	row = normalizeRow(row)
	get := func(i int) string {
		if row[i] == nil {
			return ""
		}
		return fmt.Sprint(row[i])
	}

	return Item{
		ID:          get(0),
		Name:        get(1),
		Type:        get(2),
		Brand:       get(3),
		Volume:      get(4),
		Price:       get(5),
		Quantity:    get(6),
		LastUpdated: get(7),
	}
}

// Values returns the item's fields in header order, for row rebuilding
// and for the list view.
func (it Item) Values() []string {
	return []string{
		it.ID,
		it.Name,
		it.Type,
		it.Brand,
		it.Volume,
		it.Price,
		it.Quantity,
		it.LastUpdated,
	}
}

// normalizeRow pads a short row with nils and truncates a long one so
// its length equals the header width.
func normalizeRow(row []interface{}) []interface{} {
	want := len(Headers)
	if len(row) < want {
		padded := make([]interface{}, want)
		copy(padded, row)
		return padded
	}
	return row[:want]
}

// isBlankRow reports whether every cell is nil or an empty string.
func isBlankRow(row []interface{}) bool {
	for _, cell := range row {
		if cell == nil {
			continue
		}
		if s, ok := cell.(string); ok && s == "" {
			continue
		}
		return false
	}
	return true
}

// matchesSearch is a case-insensitive substring match on Name or Type.
func (it Item) matchesSearch(term string) bool {
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(it.Name), term) ||
		strings.Contains(strings.ToLower(it.Type), term)
}

// FormKey converts a header label to the form field name used in
// requests: lower-cased, parentheses stripped, spaces to underscores.
// "Volume (ml)" becomes "volume_ml".
func FormKey(header string) string {
	key := strings.ToLower(header)
	key = strings.ReplaceAll(key, "(", "")
	key = strings.ReplaceAll(key, ")", "")
	key = strings.Join(strings.Fields(key), "_")
	return key
}

// FormFields is Headers minus the system-assigned columns, for the
// create and edit forms.
func FormFields() []string {
	fields := make([]string, 0, len(Headers)-2)
	for _, h := range Headers {
		if h == "ID" || h == "Last Updated" {
			continue
		}
		fields = append(fields, h)
	}
	return fields
}

// ColumnLetter converts a 1-based column number to A1 notation letters:
// 1 -> A, 26 -> Z, 27 -> AA.
func ColumnLetter(columnNumber int) string {
	letter := ""
	for columnNumber > 0 {
		rem := (columnNumber - 1) % 26
		letter = string(rune('A'+rem)) + letter
		columnNumber = (columnNumber - rem - 1) / 26
	}
	if letter == "" {
		return "A"
	}
	return letter
}
