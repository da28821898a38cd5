package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buckeyeguy5511/meal-calendar/internal/auth"
	"github.com/buckeyeguy5511/meal-calendar/internal/middleware"
)

type stubUsers struct {
	enabled bool
	user    *auth.User
}

func (s stubUsers) Enabled() bool { return s.enabled }
func (s stubUsers) CurrentUser(*http.Request) *auth.User { return s.user }

var _ middleware.UserSource = stubUsers{}

// userEcho answers 200 and reports the context user's subject.
var userEcho = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	if u := auth.UserFrom(r.Context()); u != nil {
		w.Header().Set("X-User", u.Subject)
	}
	w.WriteHeader(http.StatusOK)
})

func TestRequireUser_DisabledAllowsAnonymous(t *testing.T) {
	h := middleware.RequireUser(stubUsers{enabled: false})(userEcho)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/events", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-User"))
}

func TestRequireUser_EnabledWithoutUser(t *testing.T) {
	h := middleware.RequireUser(stubUsers{enabled: true})(userEcho)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/events", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":{"code":"unauthorized","message":"sign in required"}}`, rec.Body.String())
}

func TestRequireUser_EnabledWithUser(t *testing.T) {
	h := middleware.RequireUser(stubUsers{enabled: true, user: &auth.User{Subject: "abc"}})(userEcho)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/events", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc", rec.Header().Get("X-User"))
}
