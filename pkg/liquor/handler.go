package liquor

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	gsheets "google.golang.org/api/sheets/v4"

	"liquorstock/pkg/auth"
	"liquorstock/pkg/sheets"
	"liquorstock/pkg/view"
)

const timeLayout = "2006-01-02 15:04:05"

// Overridable in tests.
var (
	nowFunc = time.Now
	newID   = uuid.NewString
)

// Handler serves the inventory CRUD pages on top of the sheet gateway.
type Handler struct {
	sheet     sheets.Gateway
	sheetName string
	sheetGID  string
	sessions  *auth.SessionManager
	views     *view.Renderer
}

func NewHandler(sheet sheets.Gateway, sheetName, sheetGID string, sessions *auth.SessionManager, views *view.Renderer) *Handler {
	return &Handler{
		sheet:     sheet,
		sheetName: sheetName,
		sheetGID:  sheetGID,
		sessions:  sessions,
		views:     views,
	}
}

// readRange spans exactly the width of the fixed header set, all rows.
func (h *Handler) readRange() string {
	return fmt.Sprintf("%s!A:%s", h.sheetName, ColumnLetter(len(Headers)))
}

// listItems fetches the whole table and maps data rows onto Items. The
// first row is always treated as the header row; a label mismatch is
// only logged, mapping proceeds on column order regardless.
func (h *Handler) listItems(r *http.Request) []Item {
	raw := h.sheet.Get(r.Context(), h.readRange())
	if len(raw) == 0 {
		return nil
	}

	if !headersMatch(raw[0]) {
		log.WithFields(log.Fields{
			"sheet_headers":    fmt.Sprint(raw[0]),
			"expected_headers": fmt.Sprint(Headers),
		}).Warn("Sheet headers do not match expected headers")
	}

	var items []Item
	for _, row := range raw[1:] {
		if isBlankRow(row) {
			continue
		}
		items = append(items, itemFromRow(row))
	}
	return items
}

func headersMatch(actual []interface{}) bool {
	if len(actual) != len(Headers) {
		return false
	}
	for i, want := range Headers {
		if fmt.Sprint(actual[i]) != want {
			return false
		}
	}
	return true
}

// findRowByID scans data rows for the ID. It returns the mapped item
// and its zero-based position among data rows. The position is only
// valid until the next append or delete on the sheet; a concurrent
// writer can shift rows between this scan and a following mutation.
func (h *Handler) findRowByID(r *http.Request, id string) (Item, int, bool) {
	raw := h.sheet.Get(r.Context(), h.readRange())
	if len(raw) == 0 {
		return Item{}, 0, false
	}
	for i, row := range raw[1:] {
		if len(row) <= idColumn || row[idColumn] == nil {
			continue
		}
		if fmt.Sprint(row[idColumn]) == id {
			return itemFromRow(row), i, true
		}
	}
	return Item{}, 0, false
}

// Index renders the inventory list, optionally filtered by the search
// query on Name or Type.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	items := h.listItems(r)

	search := r.URL.Query().Get("search")
	if search != "" {
		filtered := items[:0]
		for _, it := range items {
			if it.matchesSearch(search) {
				filtered = append(filtered, it)
			}
		}
		items = filtered
	}

	h.views.Render(w, "index", map[string]interface{}{
		"Title":   "Inventory",
		"Headers": Headers,
		"Items":   items,
		"Search":  search,
		"Flashes": h.sessions.Flashes(w, r),
	})
}

// CreateForm renders the empty create form.
func (h *Handler) CreateForm(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, "create", map[string]interface{}{
		"Title":      "Add Item",
		"FormFields": buildFormFields(nil, nil),
		"Flashes":    h.sessions.Flashes(w, r),
	})
}

// Store validates the submitted fields, assigns the ID and timestamp
// and appends one row. On failure the form is re-rendered with the
// prior input.
func (h *Handler) Store(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	values, errs := validateForm(r.PostForm)
	if len(errs) > 0 {
		h.views.Render(w, "create", map[string]interface{}{
			"Title":      "Add Item",
			"FormFields": buildFormFields(values, errs),
			"Flashes":    h.sessions.Flashes(w, r),
		})
		return
	}

	row := make([]interface{}, 0, len(Headers))
	for _, header := range Headers {
		switch header {
		case "ID":
			row = append(row, newID())
		case "Last Updated":
			row = append(row, nowFunc().Format(timeLayout))
		default:
			row = append(row, values[FormKey(header)])
		}
	}

	resp := h.sheet.Append(r.Context(), h.sheetName, [][]interface{}{row})
	if resp != nil && resp.Updates != nil && resp.Updates.UpdatedCells > 0 {
		h.sessions.Flash(w, r, "success", "Liquor item added successfully.")
		http.Redirect(w, r, "/liquor", http.StatusSeeOther)
		return
	}

	log.Error("Failed to append row to sheet or no cells were updated")
	h.sessions.Flash(w, r, "error", "Failed to add liquor item. Please check logs.")
	h.views.Render(w, "create", map[string]interface{}{
		"Title":      "Add Item",
		"FormFields": buildFormFields(values, nil),
		"Flashes":    h.sessions.Flashes(w, r),
	})
}

// Edit renders the edit form for one item.
func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	item, position, found := h.findRowByID(r, id)
	if !found {
		log.Errorf("Item with ID %s not found for editing", id)
		h.sessions.Flash(w, r, "error", "Liquor item not found.")
		http.Redirect(w, r, "/liquor", http.StatusSeeOther)
		return
	}

	h.views.Render(w, "edit", map[string]interface{}{
		"Title":          "Edit Item",
		"ID":             id,
		"SheetRowNumber": position + 2,
		"FormFields":     buildFormFields(itemFormValues(item), nil),
		"Flashes":        h.sessions.Flashes(w, r),
	})
}

// Update rewrites the located row in place. The ID never changes and
// the timestamp is refreshed; fields missing from the form fall back to
// the stored value.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	values, errs := validateForm(r.PostForm)
	if len(errs) > 0 {
		h.views.Render(w, "edit", map[string]interface{}{
			"Title":      "Edit Item",
			"ID":         id,
			"FormFields": buildFormFields(values, errs),
			"Flashes":    h.sessions.Flashes(w, r),
		})
		return
	}

	item, position, found := h.findRowByID(r, id)
	if !found {
		log.Errorf("Item with ID %s not found for updating", id)
		h.sessions.Flash(w, r, "error", "Liquor item not found for update.")
		http.Redirect(w, r, "/liquor", http.StatusSeeOther)
		return
	}

	stored := itemFormValues(item)
	row := make([]interface{}, 0, len(Headers))
	for _, header := range Headers {
		switch header {
		case "ID":
			row = append(row, id)
		case "Last Updated":
			row = append(row, nowFunc().Format(timeLayout))
		default:
			key := FormKey(header)
			if _, ok := r.PostForm[key]; ok {
				row = append(row, values[key])
			} else {
				row = append(row, stored[key])
			}
		}
	}

	rowNumber := position + 2
	updateRange := fmt.Sprintf("%s!A%d:%s%d", h.sheetName, rowNumber, ColumnLetter(len(Headers)), rowNumber)

	resp := h.sheet.Update(r.Context(), updateRange, [][]interface{}{row})
	if resp != nil && resp.UpdatedCells > 0 {
		h.sessions.Flash(w, r, "success", "Liquor item updated successfully.")
		http.Redirect(w, r, "/liquor", http.StatusSeeOther)
		return
	}

	log.WithField("range", updateRange).Errorf("Failed to update sheet row for ID %s or no cells were updated", id)
	h.sessions.Flash(w, r, "error", "Failed to update liquor item. Please check logs.")
	h.views.Render(w, "edit", map[string]interface{}{
		"Title":          "Edit Item",
		"ID":             id,
		"SheetRowNumber": rowNumber,
		"FormFields":     buildFormFields(values, nil),
		"Flashes":        h.sessions.Flashes(w, r),
	})
}

// Destroy deletes the located row by physical index. The tab GID comes
// from configuration and is only validated here.
func (h *Handler) Destroy(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	_, position, found := h.findRowByID(r, id)
	if !found {
		log.Errorf("Item with ID %s not found for deletion", id)
		h.sessions.Flash(w, r, "error", "Liquor item not found to delete.")
		http.Redirect(w, r, "/liquor", http.StatusSeeOther)
		return
	}

	gid, err := strconv.ParseInt(h.sheetGID, 10, 64)
	if h.sheetGID == "" || err != nil {
		log.Error("GOOGLE_SHEET_GID is not configured or is not numeric; cannot delete row")
		h.sessions.Flash(w, r, "error", "Sheet configuration error. Cannot delete item.")
		http.Redirect(w, r, "/liquor", http.StatusSeeOther)
		return
	}

	// Header is physical row 0, so data row k lives at physical k+1.
	physicalIndex := int64(position + 1)

	resp := h.sheet.DeleteRow(r.Context(), gid, physicalIndex)
	if resp != nil && len(resp.Replies) > 0 {
		if replyIsEmpty(resp.Replies[0]) {
			h.sessions.Flash(w, r, "success", "Liquor item deleted successfully.")
		} else {
			log.WithField("reply", fmt.Sprint(resp.Replies[0])).Warnf("Delete reply was not the expected empty object for ID %s", id)
			// The delete likely still happened; tell the user to check.
			h.sessions.Flash(w, r, "success", "Liquor item deleted. Please verify.")
		}
	} else {
		log.WithField("row_index", physicalIndex).Errorf("Failed to delete sheet row for ID %s", id)
		h.sessions.Flash(w, r, "error", "Failed to delete liquor item. Please check logs.")
	}
	http.Redirect(w, r, "/liquor", http.StatusSeeOther)
}

// replyIsEmpty mirrors the lenient delete check: a reply that
// serializes to an empty object is a confirmed success.
func replyIsEmpty(reply *gsheets.Response) bool {
	if reply == nil {
		return false
	}
	b, err := reply.MarshalJSON()
	return err == nil && string(b) == "{}"
}

// formField is one input on the create/edit forms.
type formField struct {
	Label string
	Key   string
	Value string
	Error string
}

func buildFormFields(values, errs map[string]string) []formField {
	fields := make([]formField, 0, len(FormFields()))
	for _, label := range FormFields() {
		key := FormKey(label)
		fields = append(fields, formField{
			Label: label,
			Key:   key,
			Value: values[key],
			Error: errs[key],
		})
	}
	return fields
}

// itemFormValues maps an item's stored values onto form keys.
func itemFormValues(item Item) map[string]string {
	values := make(map[string]string, len(Headers))
	for i, header := range Headers {
		values[FormKey(header)] = item.Values()[i]
	}
	return values
}

// validateForm checks the non-system fields: everything is required,
// price and volume must be numeric, quantity must be an integer.
func validateForm(form url.Values) (map[string]string, map[string]string) {
	values := make(map[string]string)
	errs := make(map[string]string)

	for _, label := range FormFields() {
		key := FormKey(label)
		value := strings.TrimSpace(form.Get(key))
		values[key] = value

		if value == "" {
			errs[key] = fmt.Sprintf("The %s field is required.", label)
			continue
		}
		switch label {
		case "Price", "Volume (ml)":
			if _, err := strconv.ParseFloat(value, 64); err != nil {
				errs[key] = fmt.Sprintf("The %s field must be a number.", label)
			}
		case "Quantity":
			if _, err := strconv.Atoi(value); err != nil {
				errs[key] = fmt.Sprintf("The %s field must be an integer.", label)
			}
		}
	}
	return values, errs
}
