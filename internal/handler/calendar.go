package handler

import (
	"net/http"

	"github.com/buckeyeguy5511/meal-calendar/internal/domain"
	"github.com/buckeyeguy5511/meal-calendar/internal/service"
)

// GetCalendar handles GET /api/calendar.
// ?view= is month (default), week or day; ?date= defaults to today;
// ?q= narrows every cell to matching events.
func (s *Server) GetCalendar(w http.ResponseWriter, r *http.Request) {
	viewParam, ok := queryString(w, r, "view")
	if !ok {
		return
	}
	view, err := service.ParseView(viewParam)
	if err != nil {
		badRequest(w, "invalid view: must be month, week or day")
		return
	}
	date, ok := queryDate(w, r, "date")
	if !ok {
		return
	}
	q, ok := queryString(w, r, "q")
	if !ok {
		return
	}

	query := service.CalendarQuery{View: view, Search: q}
	if date != nil {
		query.Date = date.Time
	} else {
		today, err := domain.ParseDate(s.events.Today())
		if err != nil {
			s.serviceError(w, r, err, "")
			return
		}
		query.Date = today
	}

	page, err := s.calendar.Render(r.Context(), query)
	if err != nil {
		s.serviceError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, pageToResponse(page))
}

// RepeatLastWeek handles POST /api/calendar/repeat-last-week.
// Every event of the week before the one containing body.date is copied
// seven days forward; the copies are returned.
func (s *Server) RepeatLastWeek(w http.ResponseWriter, r *http.Request) {
	var body DateRequest
	if !decodeBody(w, r, &body, true) {
		return
	}
	if body.Date == "" {
		body.Date = s.events.Today()
	}
	created, err := s.events.RepeatLastWeek(r.Context(), body.Date)
	if err != nil {
		s.serviceError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusCreated, eventsToResponse(created))
}
