package handler

import (
	"net/http"

	"github.com/buckeyeguy5511/meal-calendar/internal/auth"
)

// MeResponse is the body of GET /auth/me. User is null when nobody is
// signed in.
type MeResponse struct {
	Enabled bool       `json:"enabled"`
	User    *auth.User `json:"user"`
}

// GetMe handles GET /auth/me, the current-user-or-none signal.
func (s *Server) GetMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, MeResponse{
		Enabled: s.auth.Enabled(),
		User:    s.auth.CurrentUser(r),
	})
}

// Login handles GET /auth/login by redirecting to the OIDC provider.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	if !s.auth.Enabled() {
		notFound(w, "sign-in is not configured")
		return
	}
	state, err := s.auth.GenerateState()
	if err != nil {
		s.serviceError(w, r, err, "")
		return
	}
	target, err := s.auth.BeginLogin(w, state)
	if err != nil {
		s.serviceError(w, r, err, "")
		return
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// Callback handles GET /auth/callback, the provider's redirect back after
// sign-in.
func (s *Server) Callback(w http.ResponseWriter, r *http.Request) {
	if !s.auth.CheckState(w, r) {
		badRequest(w, "invalid state")
		return
	}
	code := r.URL.Query().Get("code")
	if code == "" {
		badRequest(w, "missing code")
		return
	}
	sess, err := s.auth.HandleCallback(r.Context(), code)
	if err != nil {
		s.logger.WarnContext(r.Context(), "sign-in failed", "error", err)
		writeError(w, http.StatusUnauthorized, "unauthorized", "authentication failed")
		return
	}
	if err := s.auth.SetSession(w, sess); err != nil {
		s.serviceError(w, r, err, "")
		return
	}
	s.logger.InfoContext(r.Context(), "signed in", "subject", sess.User.Subject)
	http.Redirect(w, r, "/", http.StatusFound)
}

// SignOut handles POST /auth/signout. The local session is always cleared;
// provider-side revocation happens in the background.
func (s *Server) SignOut(w http.ResponseWriter, r *http.Request) {
	s.auth.SignOut(w, r)
	w.WriteHeader(http.StatusNoContent)
}
