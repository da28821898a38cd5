// Package handler implements the HTTP handlers for the meal calendar API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, event.go, calendar.go, etc.) but share the same Server
// struct so they can access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/buckeyeguy5511/meal-calendar/internal/auth"
	"github.com/buckeyeguy5511/meal-calendar/internal/domain"
	"github.com/buckeyeguy5511/meal-calendar/internal/service"
)

// EventServicer defines the event store operations the handlers depend on.
// It is declared here, in the consumer package, so handler tests can inject
// a mock without touching the store.
type EventServicer interface {
	Today() string
	Create(ctx context.Context, event domain.Event) (domain.Event, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Event, error)
	List(ctx context.Context, search string) ([]domain.Event, error)
	Update(ctx context.Context, event domain.Event) (domain.Event, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Move(ctx context.Context, id uuid.UUID, date string) (domain.Event, error)
	Duplicate(ctx context.Context, id uuid.UUID) (service.Draft, error)
	AddFromFavorite(ctx context.Context, id uuid.UUID, date string) (domain.Event, error)
	RepeatLastWeek(ctx context.Context, current string) ([]domain.Event, error)
	LastMadeHint(ctx context.Context, mealName string) (service.Hint, error)
	Favorites(ctx context.Context) ([]service.Favorite, error)
}

// CalendarRenderer renders month, week and day views.
type CalendarRenderer interface {
	Render(ctx context.Context, q service.CalendarQuery) (service.Page, error)
}

// ExportServicer produces the flat export of every event.
type ExportServicer interface {
	Export(ctx context.Context) ([]domain.ExportRow, error)
}

// Authenticator is the identity collaborator behind the /auth routes.
type Authenticator interface {
	Enabled() bool
	GenerateState() (string, error)
	BeginLogin(w http.ResponseWriter, state string) (string, error)
	CheckState(w http.ResponseWriter, r *http.Request) bool
	HandleCallback(ctx context.Context, code string) (auth.Session, error)
	SetSession(w http.ResponseWriter, sess auth.Session) error
	CurrentUser(r *http.Request) *auth.User
	SignOut(w http.ResponseWriter, r *http.Request)
}

// Server holds the dependencies of every handler.
type Server struct {
	events   EventServicer
	editor   *service.Editor
	calendar CalendarRenderer
	export   ExportServicer
	auth     Authenticator
	loc      *time.Location
	logger   *slog.Logger
}

// Option configures optional Server dependencies.
type Option func(*Server)

// WithLocation sets the time zone used for calendar exports. Defaults to UTC.
func WithLocation(loc *time.Location) Option {
	return func(s *Server) { s.loc = loc }
}

// WithLogger sets the logger for unexpected errors. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// NewServer constructs the Server with all its dependencies.
// Any dependency may be nil in tests that do not exercise its routes.
func NewServer(events EventServicer, calendar CalendarRenderer, export ExportServicer, authn Authenticator, opts ...Option) *Server {
	s := &Server{
		events:   events,
		calendar: calendar,
		export:   export,
		auth:     authn,
		loc:      time.UTC,
		logger:   slog.Default(),
	}
	if events != nil {
		s.editor = service.NewEditor(events)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(nil, nil, nil, nil)
}

// Handler returns the router for every route. apiMiddleware wraps only the
// /api group, which is where main installs the sign-in requirement.
func (s *Server) Handler(apiMiddleware ...func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)

	r.Route("/auth", func(r chi.Router) {
		r.Get("/me", s.GetMe)
		r.Get("/login", s.Login)
		r.Get("/callback", s.Callback)
		r.Post("/signout", s.SignOut)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(apiMiddleware...)

		r.Get("/options", s.GetOptions)

		r.Get("/events", s.ListEvents)
		r.Post("/events", s.CreateEvent)
		r.Route("/events/{id}", func(r chi.Router) {
			r.Get("/", s.GetEvent)
			r.Put("/", s.UpdateEvent)
			r.Delete("/", s.DeleteEvent)
			r.Put("/date", s.MoveEvent)
			r.Get("/duplicate", s.DuplicateEvent)
		})
		r.Get("/drafts/new", s.NewDraft)
		r.Get("/meals/last-made", s.GetLastMade)

		r.Get("/calendar", s.GetCalendar)
		r.Post("/calendar/repeat-last-week", s.RepeatLastWeek)

		r.Get("/favorites", s.ListFavorites)
		r.Post("/favorites/{id}/schedule", s.ScheduleFavorite)

		r.Get("/export", s.GetExport)
	})

	return r
}
