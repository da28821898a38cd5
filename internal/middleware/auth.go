package middleware

import (
	"net/http"

	"github.com/buckeyeguy5511/meal-calendar/internal/auth"
)

// UserSource reports the signed-in user of a request.
type UserSource interface {
	Enabled() bool
	CurrentUser(r *http.Request) *auth.User
}

// RequireUser stores the current user in the request context. When auth is
// enabled, requests without a user are rejected with 401; when it is
// disabled every request passes as anonymous.
func RequireUser(users UserSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !users.Enabled() {
				next.ServeHTTP(w, r)
				return
			}
			u := users.CurrentUser(r)
			if u == nil {
				writeError(w, http.StatusUnauthorized, "unauthorized", "sign in required")
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), u)))
		})
	}
}
