package handler_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buckeyeguy5511/meal-calendar/internal/handler"
	"github.com/buckeyeguy5511/meal-calendar/internal/middleware"
	"github.com/buckeyeguy5511/meal-calendar/internal/repo"
	"github.com/buckeyeguy5511/meal-calendar/internal/service"
)

// newAppServer wires the real services over the memory store, with "now"
// fixed at Monday 2024-05-13.
func newAppServer(t *testing.T) *httptest.Server {
	t.Helper()
	store := repo.NewMemoryEventRepo()
	clock := func() time.Time { return time.Date(2024, 5, 13, 9, 0, 0, 0, time.UTC) }
	srv := handler.NewServer(
		service.NewEventService(store, clock),
		service.NewCalendarService(store),
		service.NewExportService(store),
		&mockAuthenticator{},
	)
	ts := httptest.NewServer(srv.Handler(middleware.RequireUser(&mockAuthenticator{})))
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, ts *httptest.Server, method, path string, body any, out any) int {
	t.Helper()
	var reader io.Reader = http.NoBody
	if body != nil {
		reader = jsonBody(t, body)
	}
	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestServer_PlanAWeek(t *testing.T) {
	ts := newAppServer(t)

	// Last week: Monday and Wednesday.
	var tacos handler.Event
	require.Equal(t, http.StatusCreated, doJSON(t, ts, http.MethodPost, "/api/events", map[string]any{
		"meal_name": "Tacos", "meal_type": "dinner", "time": "18:00", "date": "2024-05-06",
		"protein": "beef", "rating": 5, "is_favorite": true,
	}, &tacos))
	require.Equal(t, http.StatusCreated, doJSON(t, ts, http.MethodPost, "/api/events", map[string]any{
		"meal_name": "Oatmeal", "meal_type": "breakfast", "time": "07:30", "date": "2024-05-08", "protein": "other",
	}, nil))

	var copies []handler.Event
	require.Equal(t, http.StatusCreated, doJSON(t, ts, http.MethodPost, "/api/calendar/repeat-last-week",
		map[string]string{"date": "2024-05-13"}, &copies))
	require.Len(t, copies, 2)
	assert.Equal(t, "2024-05-13", copies[0].Date)
	assert.Equal(t, "2024-05-15", copies[1].Date)
	assert.NotEqual(t, tacos.Id, copies[0].Id)

	// Drag the Tacos copy to Friday.
	var moved handler.Event
	require.Equal(t, http.StatusOK, doJSON(t, ts, http.MethodPut, "/api/events/"+copies[0].Id.String()+"/date",
		map[string]string{"date": "2024-05-17"}, &moved))
	assert.Equal(t, "2024-05-17", moved.Date)

	var page handler.CalendarPage
	require.Equal(t, http.StatusOK, doJSON(t, ts, http.MethodGet, "/api/calendar?view=week", nil, &page))
	assert.Equal(t, "Week 20, May 12 - May 18, 2024", page.Header)
	require.Len(t, page.Cells, 7)
	assert.Empty(t, page.Cells[1].Events)
	require.Len(t, page.Cells[5].Events, 1)
	assert.Equal(t, "Tacos", page.Cells[5].Events[0].MealName)

	var hint handler.Hint
	require.Equal(t, http.StatusOK, doJSON(t, ts, http.MethodGet, "/api/meals/last-made?name=Tacos", nil, &hint))
	require.NotNil(t, hint.Days)
	assert.Equal(t, 4, *hint.Days)

	var favs []handler.Favorite
	require.Equal(t, http.StatusOK, doJSON(t, ts, http.MethodGet, "/api/favorites", nil, &favs))
	require.Len(t, favs, 1)
	assert.Equal(t, tacos.Id, favs[0].Event.Id)

	var rows []handler.ExportRow
	require.Equal(t, http.StatusOK, doJSON(t, ts, http.MethodGet, "/api/export", nil, &rows))
	require.Len(t, rows, 4)
	assert.Equal(t, "2024-05-06", rows[0].Date)
	assert.Equal(t, "2024-05-17", rows[3].Date)
}

func TestServer_BlankNameDoesNotMutate(t *testing.T) {
	ts := newAppServer(t)

	status := doJSON(t, ts, http.MethodPost, "/api/events", map[string]any{"meal_name": "", "date": "2024-05-13"}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	var events []handler.Event
	require.Equal(t, http.StatusOK, doJSON(t, ts, http.MethodGet, "/api/events", nil, &events))
	assert.Empty(t, events)
}

func TestServer_APIRequiresUserWhenAuthEnabled(t *testing.T) {
	srv := handler.NewServer(&mockEventServicer{}, nil, nil, &mockAuthenticator{enabled: true})
	h := srv.Handler(middleware.RequireUser(&mockAuthenticator{enabled: true}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/options", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
