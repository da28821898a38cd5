package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/buckeyeguy5511/meal-calendar/internal/auth"
	"github.com/buckeyeguy5511/meal-calendar/internal/domain"
	"github.com/buckeyeguy5511/meal-calendar/internal/handler"
	"github.com/buckeyeguy5511/meal-calendar/internal/service"
)

// mockEventServicer is a test double for handler.EventServicer.
// Set only the method fields your test needs.
type mockEventServicer struct {
	today           func() string
	create          func(ctx context.Context, e domain.Event) (domain.Event, error)
	getByID         func(ctx context.Context, id uuid.UUID) (domain.Event, error)
	list            func(ctx context.Context, search string) ([]domain.Event, error)
	update          func(ctx context.Context, e domain.Event) (domain.Event, error)
	delete          func(ctx context.Context, id uuid.UUID) error
	move            func(ctx context.Context, id uuid.UUID, date string) (domain.Event, error)
	duplicate       func(ctx context.Context, id uuid.UUID) (service.Draft, error)
	addFromFavorite func(ctx context.Context, id uuid.UUID, date string) (domain.Event, error)
	repeatLastWeek  func(ctx context.Context, current string) ([]domain.Event, error)
	lastMadeHint    func(ctx context.Context, name string) (service.Hint, error)
	favorites       func(ctx context.Context) ([]service.Favorite, error)
}

func (m *mockEventServicer) Today() string {
	if m.today == nil {
		return "2024-05-13"
	}
	return m.today()
}
func (m *mockEventServicer) Create(ctx context.Context, e domain.Event) (domain.Event, error) {
	return m.create(ctx, e)
}
func (m *mockEventServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Event, error) {
	return m.getByID(ctx, id)
}
func (m *mockEventServicer) List(ctx context.Context, search string) ([]domain.Event, error) {
	return m.list(ctx, search)
}
func (m *mockEventServicer) Update(ctx context.Context, e domain.Event) (domain.Event, error) {
	return m.update(ctx, e)
}
func (m *mockEventServicer) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}
func (m *mockEventServicer) Move(ctx context.Context, id uuid.UUID, date string) (domain.Event, error) {
	return m.move(ctx, id, date)
}
func (m *mockEventServicer) Duplicate(ctx context.Context, id uuid.UUID) (service.Draft, error) {
	return m.duplicate(ctx, id)
}
func (m *mockEventServicer) AddFromFavorite(ctx context.Context, id uuid.UUID, date string) (domain.Event, error) {
	return m.addFromFavorite(ctx, id, date)
}
func (m *mockEventServicer) RepeatLastWeek(ctx context.Context, current string) ([]domain.Event, error) {
	return m.repeatLastWeek(ctx, current)
}
func (m *mockEventServicer) LastMadeHint(ctx context.Context, name string) (service.Hint, error) {
	return m.lastMadeHint(ctx, name)
}
func (m *mockEventServicer) Favorites(ctx context.Context) ([]service.Favorite, error) {
	return m.favorites(ctx)
}

// compile-time check: mockEventServicer must satisfy handler.EventServicer.
var _ handler.EventServicer = (*mockEventServicer)(nil)

type mockCalendarRenderer struct {
	render func(ctx context.Context, q service.CalendarQuery) (service.Page, error)
}

func (m *mockCalendarRenderer) Render(ctx context.Context, q service.CalendarQuery) (service.Page, error) {
	return m.render(ctx, q)
}

var _ handler.CalendarRenderer = (*mockCalendarRenderer)(nil)

type mockExportServicer struct {
	export func(ctx context.Context) ([]domain.ExportRow, error)
}

func (m *mockExportServicer) Export(ctx context.Context) ([]domain.ExportRow, error) {
	return m.export(ctx)
}

var _ handler.ExportServicer = (*mockExportServicer)(nil)

type mockAuthenticator struct {
	enabled        bool
	user           *auth.User
	stateOK        bool
	handleCallback func(ctx context.Context, code string) (auth.Session, error)
	sessions       []auth.Session
	signedOut      bool
}

func (m *mockAuthenticator) Enabled() bool { return m.enabled }
func (m *mockAuthenticator) GenerateState() (string, error) { return "state-123", nil }
func (m *mockAuthenticator) CurrentUser(*http.Request) *auth.User { return m.user }
func (m *mockAuthenticator) BeginLogin(_ http.ResponseWriter, state string) (string, error) {
	return "https://idp.example/authorize?state=" + state, nil
}
func (m *mockAuthenticator) CheckState(http.ResponseWriter, *http.Request) bool { return m.stateOK }
func (m *mockAuthenticator) HandleCallback(ctx context.Context, code string) (auth.Session, error) {
	return m.handleCallback(ctx, code)
}
func (m *mockAuthenticator) SetSession(_ http.ResponseWriter, sess auth.Session) error {
	m.sessions = append(m.sessions, sess)
	return nil
}
func (m *mockAuthenticator) SignOut(http.ResponseWriter, *http.Request) { m.signedOut = true }

var _ handler.Authenticator = (*mockAuthenticator)(nil)

// ---- helpers ---------------------------------------------------------------

// newHTTPHandler wires a Server with an event service mock, the same way
// main.go wires the real services.
func newHTTPHandler(events handler.EventServicer) http.Handler {
	return handler.NewServer(events, nil, nil, nil).Handler()
}

func eventFixture() domain.Event {
	return domain.Event{
		ID:       uuid.New(),
		MealName: "Grilled Chicken",
		MealType: domain.MealDinner,
		Time:     "18:30",
		Date:     "2024-05-13",
		Protein:  domain.ProteinChicken,
		Rating:   4,
		Tags:     []string{"Healthy"},
		Notes:    "lemon and herbs",
	}
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

// decodeError decodes an ErrorResponse body and returns its code.
func decodeError(t *testing.T, body *bytes.Buffer) handler.ErrorDetail {
	t.Helper()
	var resp handler.ErrorResponse
	require.NoError(t, json.NewDecoder(body).Decode(&resp))
	return resp.Error
}

func intPtr(n int) *int { return &n }
