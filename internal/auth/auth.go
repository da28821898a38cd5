// Package auth is the calendar's identity collaborator. It signs users in
// through an OpenID Connect provider, keeps the result in a signed session
// cookie, and reports the current user (or none) to the rest of the app.
// When no provider is configured, auth is disabled and every request is
// anonymous.
package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gorilla/securecookie"
	"golang.org/x/oauth2"
)

const (
	sessionCookie = "meal_session"
	stateCookie   = "oauth_state"
	sessionMaxAge = 30 * 24 * time.Hour
	revokeTimeout = 10 * time.Second
)

// ErrDisabled is returned by operations that need a configured provider.
var ErrDisabled = errors.New("auth: OIDC is not configured")

// User is the signed-in user as reported by the provider.
type User struct {
	Subject string `json:"sub"`
	Email   string `json:"email,omitempty"`
	Name    string `json:"name,omitempty"`
}

// Session is the result of a sign-in. Only User and an opaque id go into
// the cookie; AccessToken stays on the server so sign-out can revoke it.
type Session struct {
	User        User   `json:"user"`
	AccessToken string `json:"access_token,omitempty"`
}

// cookieSession is the encrypted session cookie payload.
type cookieSession struct {
	ID   string
	User User
}

// Config holds what the Service needs from the app configuration.
type Config struct {
	Issuer        string
	ClientID      string
	ClientSecret  string
	RedirectURL   string
	SessionSecret string
	// SecureCookies sets the Secure flag on cookies; enable behind HTTPS.
	SecureCookies bool
}

// Service implements sign-in, session lookup and sign-out.
type Service struct {
	oauth         *oauth2.Config
	verifier      *oidc.IDTokenVerifier
	revocationURL string
	cookies       *securecookie.SecureCookie
	tokens        *tokenStore
	secure        bool
	client        *http.Client
	logger        *slog.Logger
}

// New builds a Service. With an empty Issuer it returns a disabled Service
// that still signs cookies but never has a current user.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Service, error) {
	s := &Service{
		cookies: newCookieCodec(cfg.SessionSecret),
		tokens:  newTokenStore(),
		secure:  cfg.SecureCookies,
		client:  http.DefaultClient,
		logger:  logger,
	}
	if cfg.Issuer == "" {
		logger.Warn("OIDC not configured, auth will be disabled")
		return s, nil
	}

	provider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("auth.New: creating OIDC provider: %w", err)
	}
	var claims struct {
		RevocationEndpoint string `json:"revocation_endpoint"`
	}
	if err := provider.Claims(&claims); err != nil {
		return nil, fmt.Errorf("auth.New: reading provider claims: %w", err)
	}

	s.oauth = &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Endpoint:     provider.Endpoint(),
		Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
	}
	s.verifier = provider.Verifier(&oidc.Config{ClientID: cfg.ClientID})
	s.revocationURL = claims.RevocationEndpoint
	return s, nil
}

// Enabled reports whether a provider is configured.
func (s *Service) Enabled() bool {
	return s.oauth != nil
}

// GenerateState returns a random value for the OAuth2 state parameter.
func (s *Service) GenerateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("auth.GenerateState: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// BeginLogin stores state in a short-lived cookie and returns the provider
// URL to redirect the browser to.
func (s *Service) BeginLogin(w http.ResponseWriter, state string) (string, error) {
	if !s.Enabled() {
		return "", ErrDisabled
	}
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   300,
	})
	return s.oauth.AuthCodeURL(state), nil
}

// CheckState compares the state query parameter with the state cookie and
// clears the cookie.
func (s *Service) CheckState(w http.ResponseWriter, r *http.Request) bool {
	c, err := r.Cookie(stateCookie)
	if err != nil {
		return false
	}
	http.SetCookie(w, &http.Cookie{Name: stateCookie, Value: "", Path: "/", MaxAge: -1})
	return c.Value != "" && r.URL.Query().Get("state") == c.Value
}

// HandleCallback exchanges the authorization code and verifies the ID token.
func (s *Service) HandleCallback(ctx context.Context, code string) (Session, error) {
	if !s.Enabled() {
		return Session{}, ErrDisabled
	}
	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return Session{}, fmt.Errorf("auth.HandleCallback: exchanging code: %w", err)
	}
	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return Session{}, errors.New("auth.HandleCallback: no id_token in response")
	}
	idToken, err := s.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return Session{}, fmt.Errorf("auth.HandleCallback: verifying id token: %w", err)
	}

	var claims struct {
		Subject           string `json:"sub"`
		Email             string `json:"email"`
		Name              string `json:"name"`
		PreferredUsername string `json:"preferred_username"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return Session{}, fmt.Errorf("auth.HandleCallback: parsing claims: %w", err)
	}
	name := claims.Name
	if name == "" {
		name = claims.PreferredUsername
	}
	if name == "" {
		name = claims.Email
	}

	return Session{
		User:        User{Subject: claims.Subject, Email: claims.Email, Name: name},
		AccessToken: token.AccessToken,
	}, nil
}

// newCookieCodec signs cookies with secret and encrypts them with AES-256
// under a key derived from it.
func newCookieCodec(secret string) *securecookie.SecureCookie {
	blockKey := sha256.Sum256([]byte("meal-calendar session encryption:" + secret))
	c := securecookie.New([]byte(secret), blockKey[:])
	c.MaxAge(int(sessionMaxAge.Seconds()))
	return c
}

// SetSession writes sess to the session cookie. The access token is kept
// server-side under a fresh session id.
func (s *Service) SetSession(w http.ResponseWriter, sess Session) error {
	id, err := s.GenerateState()
	if err != nil {
		return fmt.Errorf("auth.SetSession: %w", err)
	}
	value, err := s.cookies.Encode(sessionCookie, cookieSession{ID: id, User: sess.User})
	if err != nil {
		return fmt.Errorf("auth.SetSession: encoding cookie: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(sessionMaxAge.Seconds()),
	})
	if sess.AccessToken != "" {
		s.tokens.put(id, sess.AccessToken, time.Now().Add(sessionMaxAge))
	}
	return nil
}

// session decodes the session cookie of r.
func (s *Service) session(r *http.Request) (cookieSession, bool) {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return cookieSession{}, false
	}
	var sess cookieSession
	if err := s.cookies.Decode(sessionCookie, c.Value, &sess); err != nil {
		return cookieSession{}, false
	}
	return sess, sess.User.Subject != ""
}

// CurrentUser returns the signed-in user, or nil when there is none.
// A disabled Service never has a current user.
func (s *Service) CurrentUser(r *http.Request) *User {
	if !s.Enabled() {
		return nil
	}
	sess, ok := s.session(r)
	if !ok {
		return nil
	}
	return &sess.User
}

// SignOut clears the session cookie and revokes the session's token at the
// provider in the background. Revocation failures are only logged. Tokens
// are held in memory, so sessions from before a restart are not revoked.
func (s *Service) SignOut(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(r)
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		MaxAge:   -1,
	})
	if !ok {
		return
	}
	token, found := s.tokens.take(sess.ID)
	if !found || s.revocationURL == "" {
		return
	}
	go s.revoke(context.WithoutCancel(r.Context()), token)
}

// revoke calls the provider's RFC 7009 revocation endpoint.
func (s *Service) revoke(ctx context.Context, token string) {
	ctx, cancel := context.WithTimeout(ctx, revokeTimeout)
	defer cancel()

	form := url.Values{"token": {token}, "token_type_hint": {"access_token"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.revocationURL, strings.NewReader(form.Encode()))
	if err != nil {
		s.logger.Error("sign-out: building revocation request", "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if s.oauth != nil {
		req.SetBasicAuth(url.QueryEscape(s.oauth.ClientID), url.QueryEscape(s.oauth.ClientSecret))
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Error("sign-out: revoking token", "error", err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		s.logger.Error("sign-out: revoking token", "status", resp.StatusCode)
		return
	}
	s.logger.Info("sign-out: token revoked")
}

type contextKey struct{}

// WithUser returns a copy of ctx carrying u.
func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, contextKey{}, u)
}

// UserFrom returns the user stored by WithUser, or nil.
func UserFrom(ctx context.Context) *User {
	u, _ := ctx.Value(contextKey{}).(*User)
	return u
}

// tokenStore holds access tokens by session id until sign-out or expiry.
type tokenStore struct {
	mu     sync.Mutex
	tokens map[string]storedToken
}

type storedToken struct {
	token   string
	expires time.Time
}

func newTokenStore() *tokenStore {
	return &tokenStore{tokens: make(map[string]storedToken)}
}

// put stores token under id and drops expired entries.
func (t *tokenStore) put(id, token string, expires time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := time.Now()
	for k, v := range t.tokens {
		if now.After(v.expires) {
			delete(t.tokens, k)
		}
	}
	t.tokens[id] = storedToken{token: token, expires: expires}
}

// take removes and returns the token stored under id.
func (t *tokenStore) take(id string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	st, ok := t.tokens[id]
	if !ok {
		return "", false
	}
	delete(t.tokens, id)
	return st.token, time.Now().Before(st.expires)
}
