package service

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/buckeyeguy5511/meal-calendar/internal/domain"
	"github.com/buckeyeguy5511/meal-calendar/internal/repo"
)

// View is the granularity of the calendar grid.
type View string

const (
	ViewMonth View = "month"
	ViewWeek  View = "week"
	ViewDay   View = "day"
)

// ParseView maps "" to ViewMonth and rejects unknown names.
func ParseView(s string) (View, error) {
	switch v := View(s); v {
	case "":
		return ViewMonth, nil
	case ViewMonth, ViewWeek, ViewDay:
		return v, nil
	}
	return "", fmt.Errorf("%w: view must be month, week or day", domain.ErrValidation)
}

// MonthCellLimit is how many events a month cell lists before "+N more".
const MonthCellLimit = 3

// Cell is one date bucket of a rendered view. Blank cells pad the month grid
// before the 1st and after the last day and never hold events.
type Cell struct {
	Date   string
	Day    int
	Blank  bool
	Events []domain.Event
	// More counts matching events left out by MonthCellLimit.
	More int
}

// Page is a rendered calendar view.
type Page struct {
	View   View
	Date   string
	Header string
	Prev   string
	Next   string
	Cells  []Cell
}

// CalendarQuery selects what Render shows.
type CalendarQuery struct {
	View   View
	Date   time.Time
	Search string
}

// CalendarService projects the event store onto month, week and day grids.
// It only reads from the store.
type CalendarService struct {
	events repo.EventRepo
}

// NewCalendarService constructs a CalendarService reading from events.
func NewCalendarService(events repo.EventRepo) *CalendarService {
	return &CalendarService{events: events}
}

// Render builds the page for q.
func (s *CalendarService) Render(ctx context.Context, q CalendarQuery) (Page, error) {
	var cells []Cell
	switch q.View {
	case ViewMonth:
		cells = MonthCells(q.Date.Year(), q.Date.Month())
	case ViewWeek:
		cells = WeekCells(q.Date)
	case ViewDay:
		cells = DayCells(q.Date)
	default:
		return Page{}, fmt.Errorf("service.CalendarService.Render: %w: unknown view %q", domain.ErrValidation, q.View)
	}

	from, to, ok := cellRange(cells)
	var events []domain.Event
	if ok {
		var err error
		events, err = s.events.ListBetween(ctx, from, to)
		if err != nil {
			return Page{}, fmt.Errorf("service.CalendarService.Render: %w", err)
		}
	}

	limit := 0
	if q.View == ViewMonth {
		limit = MonthCellLimit
	}
	FillCells(cells, events, q.Search, limit)

	return Page{
		View:   q.View,
		Date:   domain.FormatDate(q.Date),
		Header: HeaderText(q.View, q.Date),
		Prev:   domain.FormatDate(Navigate(q.View, q.Date, -1)),
		Next:   domain.FormatDate(Navigate(q.View, q.Date, 1)),
		Cells:  cells,
	}, nil
}

// MonthCells returns full weeks covering month: blanks before the 1st, one
// cell per day, and blanks after the last day up to Saturday.
func MonthCells(year int, month time.Month) []Cell {
	lead := int(domain.FirstWeekdayOfMonth(year, month))
	days := domain.DaysInMonth(year, month)

	cells := make([]Cell, 0, 42)
	for range lead {
		cells = append(cells, Cell{Blank: true})
	}
	for d := 1; d <= days; d++ {
		date := time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
		cells = append(cells, Cell{Date: domain.FormatDate(date), Day: d})
	}
	for len(cells)%7 != 0 {
		cells = append(cells, Cell{Blank: true})
	}
	return cells
}

// WeekCells returns Sunday through Saturday of the week containing t.
func WeekCells(t time.Time) []Cell {
	start := domain.StartOfWeek(t)
	cells := make([]Cell, 7)
	for i := range cells {
		d := start.AddDate(0, 0, i)
		cells[i] = Cell{Date: domain.FormatDate(d), Day: d.Day()}
	}
	return cells
}

// DayCells returns the single cell for t.
func DayCells(t time.Time) []Cell {
	return []Cell{{Date: domain.FormatDate(t), Day: t.Day()}}
}

// FillCells places events into cells. An event lands in a cell only when its
// Date string equals the cell's exactly. A limit above zero caps the events
// kept per cell and records the remainder in More.
func FillCells(cells []Cell, events []domain.Event, search string, limit int) {
	for i := range cells {
		if cells[i].Blank {
			continue
		}
		matched := EventsForDate(events, cells[i].Date, search)
		if limit > 0 && len(matched) > limit {
			cells[i].More = len(matched) - limit
			matched = matched[:limit]
		}
		cells[i].Events = matched
	}
}

// EventsForDate selects the events on date that match search, ordered by
// time. Times compare as strings, which is correct for zero-padded HH:MM.
func EventsForDate(events []domain.Event, date, search string) []domain.Event {
	out := []domain.Event{}
	for _, e := range events {
		if e.Date == date && MatchesSearch(e, search) {
			out = append(out, e)
		}
	}
	slices.SortStableFunc(out, func(a, b domain.Event) int {
		return strings.Compare(a.Time, b.Time)
	})
	return out
}

// MatchesSearch reports whether term occurs in e's meal name or notes,
// ignoring case. An empty term matches everything.
func MatchesSearch(e domain.Event, term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(e.MealName), term) ||
		strings.Contains(strings.ToLower(e.Notes), term)
}

// Navigate moves t one period of v in direction dir (-1 or 1).
// Month steps use calendar normalization, so Jan 31 + 1 month is in March.
func Navigate(v View, t time.Time, dir int) time.Time {
	switch v {
	case ViewMonth:
		return t.AddDate(0, dir, 0)
	case ViewWeek:
		return t.AddDate(0, 0, 7*dir)
	default:
		return t.AddDate(0, 0, dir)
	}
}

// HeaderText is the title shown above the grid.
func HeaderText(v View, t time.Time) string {
	switch v {
	case ViewMonth:
		return t.Format("January 2006")
	case ViewWeek:
		start := domain.StartOfWeek(t)
		end := start.AddDate(0, 0, 6)
		week := int(math.Ceil(float64(t.YearDay()) / 7))
		return fmt.Sprintf("Week %d, %s - %s", week, start.Format("Jan 2"), end.Format("Jan 2, 2006"))
	default:
		return t.Format("Monday, January 2, 2006")
	}
}

// cellRange returns the [from, to) date range spanned by the non-blank cells.
func cellRange(cells []Cell) (from, to string, ok bool) {
	for _, c := range cells {
		if c.Blank {
			continue
		}
		if !ok || c.Date < from {
			from = c.Date
		}
		if !ok || c.Date > to {
			to = c.Date
		}
		ok = true
	}
	if !ok {
		return "", "", false
	}
	last, err := domain.ParseDate(to)
	if err != nil {
		return "", "", false
	}
	return from, domain.FormatDate(last.AddDate(0, 0, 1)), true
}
