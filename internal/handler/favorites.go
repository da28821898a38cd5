package handler

import "net/http"

// ListFavorites handles GET /api/favorites: one entry per favorite meal name,
// highest rated first, each with its last-made hint.
func (s *Server) ListFavorites(w http.ResponseWriter, r *http.Request) {
	favs, err := s.events.Favorites(r.Context())
	if err != nil {
		s.serviceError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, favoritesToResponse(favs))
}

// ScheduleFavorite handles POST /api/favorites/{id}/schedule. It creates a
// copy of the favorite on body.date, or today when the body is empty.
func (s *Server) ScheduleFavorite(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body DateRequest
	if !decodeBody(w, r, &body, true) {
		return
	}
	created, err := s.events.AddFromFavorite(r.Context(), id, body.Date)
	if err != nil {
		s.serviceError(w, r, err, "favorite not found")
		return
	}
	writeJSON(w, http.StatusCreated, eventToResponse(created))
}
