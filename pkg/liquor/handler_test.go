package liquor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gsheets "google.golang.org/api/sheets/v4"

	"liquorstock/pkg/auth"
	"liquorstock/pkg/view"
)

func sheetRows() [][]interface{} {
	return [][]interface{}{
		{"ID", "Name", "Type", "Brand", "Volume (ml)", "Price", "Quantity", "Last Updated"},
		{"id-1", "Oak Whiskey", "Whiskey", "Oakmont", "700", "49.99", "3", "2025-01-01 10:00:00"},
		{"id-2", "Dry Gin", "Gin", "Junip", "500", "32.50", "5", "2025-01-02 11:00:00"},
	}
}

func newTestHandler(t *testing.T, mock *mockGateway) *Handler {
	t.Helper()
	views, err := view.New()
	require.NoError(t, err)
	sessions := auth.NewSessionManager("test-secret")
	return NewHandler(mock, "Inventory", "123456", sessions, views)
}

func withID(r *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func postForm(path string, form url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func validForm() url.Values {
	return url.Values{
		"name":      {"Oak Whiskey"},
		"type":      {"Whiskey"},
		"brand":     {"Oakmont"},
		"volume_ml": {"700"},
		"price":     {"49.99"},
		"quantity":  {"3"},
	}
}

func TestIndexListsItemsInSheetOrder(t *testing.T) {
	mock := &mockGateway{Rows: sheetRows()}
	h := newTestHandler(t, mock)

	w := httptest.NewRecorder()
	h.Index(w, httptest.NewRequest(http.MethodGet, "/liquor", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Oak Whiskey")
	assert.Contains(t, body, "Dry Gin")
	assert.Less(t, strings.Index(body, "Oak Whiskey"), strings.Index(body, "Dry Gin"))
	assert.Equal(t, []string{"Inventory!A:H"}, mock.GetCalls)
}

func TestIndexEmptySheetProducesNoItems(t *testing.T) {
	mock := &mockGateway{Rows: nil}
	h := newTestHandler(t, mock)

	w := httptest.NewRecorder()
	h.Index(w, httptest.NewRequest(http.MethodGet, "/liquor", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No items found")
}

func TestIndexSkipsBlankAndNormalizesRaggedRows(t *testing.T) {
	rows := sheetRows()
	rows = append(rows,
		[]interface{}{"", "", nil},
		[]interface{}{"id-3", "Short Row"},
		[]interface{}{"id-4", "Long Row", "Rum", "Capt", "750", "19.99", "2", "2025-01-03", "spill", "over"},
	)
	mock := &mockGateway{Rows: rows}
	h := newTestHandler(t, mock)

	w := httptest.NewRecorder()
	h.Index(w, httptest.NewRequest(http.MethodGet, "/liquor", nil))

	body := w.Body.String()
	assert.Contains(t, body, "Short Row")
	assert.Contains(t, body, "Long Row")
	assert.NotContains(t, body, "spill")
}

func TestIndexSearchFiltersOnNameOrType(t *testing.T) {
	mock := &mockGateway{Rows: sheetRows()}
	h := newTestHandler(t, mock)

	w := httptest.NewRecorder()
	h.Index(w, httptest.NewRequest(http.MethodGet, "/liquor?search=OAK", nil))
	body := w.Body.String()
	assert.Contains(t, body, "Oak Whiskey")
	assert.NotContains(t, body, "Dry Gin")

	// Type matches too.
	w = httptest.NewRecorder()
	h.Index(w, httptest.NewRequest(http.MethodGet, "/liquor?search=gin", nil))
	body = w.Body.String()
	assert.Contains(t, body, "Dry Gin")
	assert.NotContains(t, body, "Oak Whiskey")
}

func TestStoreAppendsRowWithGeneratedIDAndTimestamp(t *testing.T) {
	fixedTime := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
	oldNow := nowFunc
	nowFunc = func() time.Time { return fixedTime }
	defer func() { nowFunc = oldNow }()

	mock := &mockGateway{Rows: sheetRows()}
	h := newTestHandler(t, mock)

	w := httptest.NewRecorder()
	h.Store(w, postForm("/liquor", validForm()))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/liquor", w.Result().Header.Get("Location"))
	require.Len(t, mock.AppendCalls, 1)
	row := mock.AppendCalls[0][0]
	require.Len(t, row, len(Headers))
	assert.NotEmpty(t, row[0])
	assert.Equal(t, "Oak Whiskey", row[1])
	assert.Equal(t, "700", row[4])
	assert.Equal(t, "2025-06-01 12:30:00", row[7])

	// A second create gets a distinct ID.
	w = httptest.NewRecorder()
	h.Store(w, postForm("/liquor", validForm()))
	require.Len(t, mock.AppendCalls, 2)
	assert.NotEqual(t, mock.AppendCalls[0][0][0], mock.AppendCalls[1][0][0])
}

func TestStoreRejectsInvalidInput(t *testing.T) {
	mock := &mockGateway{Rows: sheetRows()}
	h := newTestHandler(t, mock)

	form := validForm()
	form.Set("quantity", "three")
	form.Set("brand", "")

	w := httptest.NewRecorder()
	h.Store(w, postForm("/liquor", form))

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "must be an integer")
	assert.Contains(t, body, "Brand field is required")
	// Prior input is preserved for re-entry.
	assert.Contains(t, body, "Oak Whiskey")
	assert.Empty(t, mock.AppendCalls)
}

func TestStoreAppendFailureKeepsInput(t *testing.T) {
	mock := &mockGateway{Rows: sheetRows(), FailAppend: true}
	h := newTestHandler(t, mock)

	w := httptest.NewRecorder()
	h.Store(w, postForm("/liquor", validForm()))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Oak Whiskey")
}

func TestFindRowByID(t *testing.T) {
	mock := &mockGateway{Rows: sheetRows()}
	h := newTestHandler(t, mock)
	r := httptest.NewRequest(http.MethodGet, "/liquor", nil)

	item, position, found := h.findRowByID(r, "id-2")
	require.True(t, found)
	assert.Equal(t, 1, position)
	assert.Equal(t, "Dry Gin", item.Name)

	_, _, found = h.findRowByID(r, "no-such-id")
	assert.False(t, found)
}

func TestEditRendersCurrentValuesAndSheetRow(t *testing.T) {
	mock := &mockGateway{Rows: sheetRows()}
	h := newTestHandler(t, mock)

	w := httptest.NewRecorder()
	h.Edit(w, withID(httptest.NewRequest(http.MethodGet, "/liquor/id-2/edit", nil), "id-2"))

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Dry Gin")
	// Data row position 1, plus header row and 1-based numbering.
	assert.Contains(t, body, "Sheet row 3")
}

func TestEditUnknownIDRedirectsToList(t *testing.T) {
	mock := &mockGateway{Rows: sheetRows()}
	h := newTestHandler(t, mock)

	w := httptest.NewRecorder()
	h.Edit(w, withID(httptest.NewRequest(http.MethodGet, "/liquor/nope/edit", nil), "nope"))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/liquor", w.Result().Header.Get("Location"))
}

func TestUpdateWritesRowAtLocatedPosition(t *testing.T) {
	fixedTime := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	oldNow := nowFunc
	nowFunc = func() time.Time { return fixedTime }
	defer func() { nowFunc = oldNow }()

	mock := &mockGateway{Rows: sheetRows()}
	h := newTestHandler(t, mock)

	form := validForm()
	form.Set("name", "Dry Gin Reserve")

	w := httptest.NewRecorder()
	h.Update(w, withID(postForm("/liquor/id-2", form), "id-2"))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "Inventory!A3:H3", mock.UpdateRange)
	require.Len(t, mock.UpdateRows, 1)
	row := mock.UpdateRows[0]
	assert.Equal(t, "id-2", row[0])
	assert.Equal(t, "Dry Gin Reserve", row[1])
	assert.Equal(t, "2025-06-02 09:00:00", row[7])
}

func TestUpdateUnknownIDRedirectsToList(t *testing.T) {
	mock := &mockGateway{Rows: sheetRows()}
	h := newTestHandler(t, mock)

	w := httptest.NewRecorder()
	h.Update(w, withID(postForm("/liquor/nope", validForm()), "nope"))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/liquor", w.Result().Header.Get("Location"))
	assert.Empty(t, mock.UpdateRange)
}

func TestUpdateRejectsMissingRequiredFields(t *testing.T) {
	mock := &mockGateway{Rows: sheetRows()}
	h := newTestHandler(t, mock)

	form := validForm()
	form.Set("price", "")

	w := httptest.NewRecorder()
	h.Update(w, withID(postForm("/liquor/id-2", form), "id-2"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Price field is required")
	assert.Empty(t, mock.UpdateRange)
	// Validation rejects the request before any gateway call.
	assert.Empty(t, mock.GetCalls)
}

func TestDestroyDeletesPhysicalRow(t *testing.T) {
	mock := &mockGateway{Rows: sheetRows()}
	h := newTestHandler(t, mock)

	w := httptest.NewRecorder()
	h.Destroy(w, withID(postForm("/liquor/id-1", nil), "id-1"))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	// Data row position 0 is physical row 1, behind the header.
	assert.Equal(t, []int64{1}, mock.DeletedRows)
}

func TestDeleteFirstRowThenListShowsSecondRowFirst(t *testing.T) {
	mock := &mockGateway{Rows: sheetRows()}
	h := newTestHandler(t, mock)

	w := httptest.NewRecorder()
	h.Destroy(w, withID(postForm("/liquor/id-1", nil), "id-1"))
	require.Equal(t, http.StatusSeeOther, w.Code)

	w = httptest.NewRecorder()
	h.Index(w, httptest.NewRequest(http.MethodGet, "/liquor", nil))
	body := w.Body.String()
	assert.NotContains(t, body, "Oak Whiskey")
	assert.Contains(t, body, "Dry Gin")

	// The remaining item now sits at data-row position 0.
	_, position, found := h.findRowByID(httptest.NewRequest(http.MethodGet, "/liquor", nil), "id-2")
	require.True(t, found)
	assert.Equal(t, 0, position)
}

func TestDestroyWithoutSheetGIDIsAConfigError(t *testing.T) {
	mock := &mockGateway{Rows: sheetRows()}
	views, err := view.New()
	require.NoError(t, err)
	h := NewHandler(mock, "Inventory", "", auth.NewSessionManager("test-secret"), views)

	w := httptest.NewRecorder()
	h.Destroy(w, withID(postForm("/liquor/id-1", nil), "id-1"))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Empty(t, mock.DeletedRows)
}

func TestDestroyUnexpectedReplyStillReportsSuccess(t *testing.T) {
	mock := &mockGateway{
		Rows: sheetRows(),
		DeleteReply: &gsheets.Response{
			AddSheet: &gsheets.AddSheetResponse{
				Properties: &gsheets.SheetProperties{Title: "unexpected"},
			},
		},
	}
	h := newTestHandler(t, mock)

	w := httptest.NewRecorder()
	h.Destroy(w, withID(postForm("/liquor/id-1", nil), "id-1"))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, []int64{1}, mock.DeletedRows)

	// The hedged success flash shows on the next page render.
	req := httptest.NewRequest(http.MethodGet, "/liquor", nil)
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}
	w = httptest.NewRecorder()
	h.Index(w, req)
	assert.Contains(t, w.Body.String(), "Please verify")
}

func TestDestroyNilResponseReportsFailure(t *testing.T) {
	mock := &mockGateway{Rows: sheetRows(), FailDelete: true}
	h := newTestHandler(t, mock)

	w := httptest.NewRecorder()
	h.Destroy(w, withID(postForm("/liquor/id-1", nil), "id-1"))
	assert.Equal(t, http.StatusSeeOther, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/liquor", nil)
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}
	w = httptest.NewRecorder()
	h.Index(w, req)
	assert.Contains(t, w.Body.String(), "Failed to delete liquor item")
}

func TestReplyIsEmpty(t *testing.T) {
	assert.False(t, replyIsEmpty(nil))
	assert.True(t, replyIsEmpty(&gsheets.Response{}))
	assert.False(t, replyIsEmpty(&gsheets.Response{
		AddSheet: &gsheets.AddSheetResponse{Properties: &gsheets.SheetProperties{Title: "x"}},
	}))
}
