package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buckeyeguy5511/meal-calendar/internal/domain"
	"github.com/buckeyeguy5511/meal-calendar/internal/handler"
	"github.com/buckeyeguy5511/meal-calendar/internal/service"
)

func newCalendarHTTPHandler(events handler.EventServicer, cal handler.CalendarRenderer) http.Handler {
	return handler.NewServer(events, cal, nil, nil).Handler()
}

func TestGetCalendar_BindsQuery(t *testing.T) {
	var got service.CalendarQuery
	cal := &mockCalendarRenderer{
		render: func(_ context.Context, q service.CalendarQuery) (service.Page, error) {
			got = q
			return service.Page{
				View:   q.View,
				Date:   domain.FormatDate(q.Date),
				Header: "Week 20, May 12 - May 18, 2024",
				Prev:   "2024-05-06",
				Next:   "2024-05-20",
				Cells: []service.Cell{
					{Date: "2024-05-13", Day: 13, Events: []domain.Event{eventFixture()}},
				},
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/calendar?view=week&date=2024-05-13&q=chick", nil)
	rec := httptest.NewRecorder()
	newCalendarHTTPHandler(&mockEventServicer{}, cal).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, service.ViewWeek, got.View)
	assert.Equal(t, "2024-05-13", domain.FormatDate(got.Date))
	assert.Equal(t, "chick", got.Search)

	var resp handler.CalendarPage
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "week", resp.View)
	assert.Equal(t, "Week 20, May 12 - May 18, 2024", resp.Header)
	require.Len(t, resp.Cells, 1)
	require.Len(t, resp.Cells[0].Events, 1)
	assert.Equal(t, "Grilled Chicken", resp.Cells[0].Events[0].MealName)
}

func TestGetCalendar_DefaultsToMonthAndToday(t *testing.T) {
	var got service.CalendarQuery
	cal := &mockCalendarRenderer{
		render: func(_ context.Context, q service.CalendarQuery) (service.Page, error) {
			got = q
			return service.Page{View: q.View}, nil
		},
	}
	events := &mockEventServicer{today: func() string { return "2024-02-29" }}

	req := httptest.NewRequest(http.MethodGet, "/api/calendar", nil)
	rec := httptest.NewRecorder()
	newCalendarHTTPHandler(events, cal).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, service.ViewMonth, got.View)
	assert.Equal(t, "2024-02-29", domain.FormatDate(got.Date))

	var resp handler.CalendarPage
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotNil(t, resp.Cells)
}

func TestGetCalendar_400(t *testing.T) {
	for _, target := range []string{
		"/api/calendar?view=year",
		"/api/calendar?date=2024-13-01",
		"/api/calendar?date=yesterday",
	} {
		t.Run(target, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, target, nil)
			rec := httptest.NewRecorder()
			newCalendarHTTPHandler(&mockEventServicer{}, &mockCalendarRenderer{}).ServeHTTP(rec, req)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "bad_request", decodeError(t, rec.Body).Code)
		})
	}
}

func TestRepeatLastWeek_201(t *testing.T) {
	copyEvent := eventFixture()
	copyEvent.Date = "2024-05-20"
	svc := &mockEventServicer{
		repeatLastWeek: func(_ context.Context, current string) ([]domain.Event, error) {
			assert.Equal(t, "2024-05-13", current)
			return []domain.Event{copyEvent}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/calendar/repeat-last-week",
		jsonBody(t, map[string]string{"date": "2024-05-13"}))
	rec := httptest.NewRecorder()
	newHTTPHandler(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp []handler.Event
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "2024-05-20", resp[0].Date)
}

func TestRepeatLastWeek_EmptyBodyUsesToday(t *testing.T) {
	svc := &mockEventServicer{
		today: func() string { return "2024-01-03" },
		repeatLastWeek: func(_ context.Context, current string) ([]domain.Event, error) {
			assert.Equal(t, "2024-01-03", current)
			return []domain.Event{}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/calendar/repeat-last-week", http.NoBody)
	rec := httptest.NewRecorder()
	newHTTPHandler(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}
