package handler

import (
	"net/http"

	"github.com/buckeyeguy5511/meal-calendar/internal/domain"
	"github.com/buckeyeguy5511/meal-calendar/internal/service"
)

const eventNotFound = "event not found"

// ListEvents handles GET /api/events.
// ?q= filters by a case-insensitive substring of the meal name or notes.
func (s *Server) ListEvents(w http.ResponseWriter, r *http.Request) {
	q, ok := queryString(w, r, "q")
	if !ok {
		return
	}
	events, err := s.events.List(r.Context(), q)
	if err != nil {
		s.serviceError(w, r, err, eventNotFound)
		return
	}
	writeJSON(w, http.StatusOK, eventsToResponse(events))
}

// CreateEvent handles POST /api/events, the editor's submit in create mode.
func (s *Server) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var body EventRequest
	if !decodeBody(w, r, &body, false) {
		return
	}
	s.submit(w, r, requestToDraft(nil, body), http.StatusCreated)
}

// GetEvent handles GET /api/events/{id}.
func (s *Server) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	event, err := s.events.GetByID(r.Context(), id)
	if err != nil {
		s.serviceError(w, r, err, eventNotFound)
		return
	}
	writeJSON(w, http.StatusOK, eventToResponse(event))
}

// UpdateEvent handles PUT /api/events/{id}, the editor's submit in edit mode.
func (s *Server) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body EventRequest
	if !decodeBody(w, r, &body, false) {
		return
	}
	s.submit(w, r, requestToDraft(&id, body), http.StatusOK)
}

// submit runs d through the editor. The editor silently ignores a blank
// meal name; over HTTP that is reported as 422 so the client knows nothing
// was saved.
func (s *Server) submit(w http.ResponseWriter, r *http.Request, d service.Draft, status int) {
	saved, ok, err := s.editor.Submit(r.Context(), d)
	if err != nil {
		s.serviceError(w, r, err, eventNotFound)
		return
	}
	if !ok {
		validationFailed(w, "meal_name is required")
		return
	}
	writeJSON(w, status, eventToResponse(saved))
}

// DeleteEvent handles DELETE /api/events/{id}: the editor's delete button on
// the event opened for editing.
func (s *Server) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	event, err := s.events.GetByID(r.Context(), id)
	if err != nil {
		s.serviceError(w, r, err, eventNotFound)
		return
	}
	if err := s.editor.Delete(r.Context(), service.EditDraft(event)); err != nil {
		s.serviceError(w, r, err, eventNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MoveEvent handles PUT /api/events/{id}/date: the drop of a drag-and-drop.
// Only the date changes.
func (s *Server) MoveEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body DateRequest
	if !decodeBody(w, r, &body, false) {
		return
	}
	moved, err := s.events.Move(r.Context(), id, body.Date)
	if err != nil {
		s.serviceError(w, r, err, eventNotFound)
		return
	}
	writeJSON(w, http.StatusOK, eventToResponse(moved))
}

// DuplicateEvent handles GET /api/events/{id}/duplicate. It returns a
// create-mode draft copied from the event; nothing is stored until the
// draft is submitted to POST /api/events.
func (s *Server) DuplicateEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	d, err := s.events.Duplicate(r.Context(), id)
	if err != nil {
		s.serviceError(w, r, err, eventNotFound)
		return
	}
	hint, err := s.events.LastMadeHint(r.Context(), d.MealName)
	if err != nil {
		s.serviceError(w, r, err, eventNotFound)
		return
	}
	writeJSON(w, http.StatusOK, draftToResponse(d, hint))
}

// NewDraft handles GET /api/drafts/new, the editor opened on an empty date
// cell. ?date= defaults to today.
func (s *Server) NewDraft(w http.ResponseWriter, r *http.Request) {
	date, ok := queryDate(w, r, "date")
	if !ok {
		return
	}
	day := s.events.Today()
	if date != nil {
		day = domain.FormatDate(date.Time)
	}
	writeJSON(w, http.StatusOK, draftToResponse(service.NewDraft(day), service.Hint{}))
}

// GetLastMade handles GET /api/meals/last-made?name=, the hint shown while
// typing a meal name in the editor.
func (s *Server) GetLastMade(w http.ResponseWriter, r *http.Request) {
	name, ok := queryString(w, r, "name")
	if !ok {
		return
	}
	hint, err := s.events.LastMadeHint(r.Context(), name)
	if err != nil {
		s.serviceError(w, r, err, eventNotFound)
		return
	}
	writeJSON(w, http.StatusOK, hintToResponse(hint))
}
