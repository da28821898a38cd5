package handler

import (
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/buckeyeguy5511/meal-calendar/internal/domain"
	"github.com/buckeyeguy5511/meal-calendar/internal/service"
)

// Event is the JSON shape of a meal event.
type Event struct {
	Id           openapi_types.UUID `json:"id"`
	MealName     string             `json:"meal_name"`
	MealType     string             `json:"meal_type"`
	Time         string             `json:"time"`
	Date         string             `json:"date"`
	Protein      string             `json:"protein"`
	Color        string             `json:"color"`
	Rating       int                `json:"rating"`
	IsFavorite   bool               `json:"is_favorite"`
	HasLeftovers bool               `json:"has_leftovers"`
	Tags         []string           `json:"tags"`
	Notes        string             `json:"notes"`
}

// EventRequest is the editor form submitted to create or update an event.
// CustomTags is a comma-separated list merged after Tags.
type EventRequest struct {
	MealName     string   `json:"meal_name"`
	MealType     string   `json:"meal_type"`
	Time         string   `json:"time"`
	Date         string   `json:"date"`
	Protein      string   `json:"protein"`
	Rating       int      `json:"rating"`
	IsFavorite   bool     `json:"is_favorite"`
	HasLeftovers bool     `json:"has_leftovers"`
	Tags         []string `json:"tags"`
	CustomTags   string   `json:"custom_tags"`
	Notes        string   `json:"notes"`
}

// DateRequest carries a single date, e.g. the drop target of a move.
type DateRequest struct {
	Date string `json:"date"`
}

// Hint is the "last made N days ago" note.
type Hint struct {
	Days  *int `json:"days"`
	Show  bool `json:"show"`
	Stale bool `json:"stale"`
}

// Draft is the editor form state returned for new and duplicated events.
type Draft struct {
	Mode         string              `json:"mode"`
	SourceId     *openapi_types.UUID `json:"source_id,omitempty"`
	MealName     string              `json:"meal_name"`
	MealType     string              `json:"meal_type"`
	Time         string              `json:"time"`
	Date         string              `json:"date"`
	Protein      string              `json:"protein"`
	Rating       int                 `json:"rating"`
	IsFavorite   bool                `json:"is_favorite"`
	HasLeftovers bool                `json:"has_leftovers"`
	Tags         []string            `json:"tags"`
	CustomTags   string              `json:"custom_tags"`
	Notes        string              `json:"notes"`
	LastMade     Hint                `json:"last_made"`
}

// Cell is one date bucket of a calendar page.
type Cell struct {
	Date   string  `json:"date,omitempty"`
	Day    int     `json:"day,omitempty"`
	Blank  bool    `json:"blank"`
	Events []Event `json:"events"`
	More   int     `json:"more"`
}

// CalendarPage is a rendered month, week or day view.
type CalendarPage struct {
	View   string `json:"view"`
	Date   string `json:"date"`
	Header string `json:"header"`
	Prev   string `json:"prev"`
	Next   string `json:"next"`
	Cells  []Cell `json:"cells"`
}

// Favorite is one entry of the favorites panel.
type Favorite struct {
	Event     Event `json:"event"`
	DaysSince *int  `json:"days_since"`
	Stale     bool  `json:"stale"`
}

func eventToResponse(e domain.Event) Event {
	tags := e.Tags
	if tags == nil {
		tags = []string{}
	}
	return Event{
		Id:           e.ID,
		MealName:     e.MealName,
		MealType:     string(e.MealType),
		Time:         e.Time,
		Date:         e.Date,
		Protein:      string(e.Protein),
		Color:        e.Color(),
		Rating:       e.Rating,
		IsFavorite:   e.IsFavorite,
		HasLeftovers: e.HasLeftovers,
		Tags:         tags,
		Notes:        e.Notes,
	}
}

func eventsToResponse(events []domain.Event) []Event {
	out := make([]Event, len(events))
	for i, e := range events {
		out[i] = eventToResponse(e)
	}
	return out
}

// requestToDraft builds the editor draft for body. A non-nil id makes it an
// edit of that event.
func requestToDraft(id *openapi_types.UUID, body EventRequest) service.Draft {
	tags := body.Tags
	if tags == nil {
		tags = []string{}
	}
	return service.Draft{
		SourceID:     id,
		MealName:     body.MealName,
		MealType:     domain.MealType(body.MealType),
		Time:         body.Time,
		Date:         body.Date,
		Protein:      domain.Protein(body.Protein),
		Rating:       body.Rating,
		IsFavorite:   body.IsFavorite,
		HasLeftovers: body.HasLeftovers,
		Tags:         tags,
		Notes:        body.Notes,
		CustomTags:   body.CustomTags,
	}
}

func draftToResponse(d service.Draft, hint service.Hint) Draft {
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	return Draft{
		Mode:         string(d.Mode()),
		SourceId:     d.SourceID,
		MealName:     d.MealName,
		MealType:     string(d.MealType),
		Time:         d.Time,
		Date:         d.Date,
		Protein:      string(d.Protein),
		Rating:       d.Rating,
		IsFavorite:   d.IsFavorite,
		HasLeftovers: d.HasLeftovers,
		Tags:         tags,
		CustomTags:   d.CustomTags,
		Notes:        d.Notes,
		LastMade:     hintToResponse(hint),
	}
}

func hintToResponse(h service.Hint) Hint {
	return Hint{Days: h.Days, Show: h.Show, Stale: h.Stale}
}

func pageToResponse(p service.Page) CalendarPage {
	cells := make([]Cell, len(p.Cells))
	for i, c := range p.Cells {
		cells[i] = Cell{
			Date:   c.Date,
			Day:    c.Day,
			Blank:  c.Blank,
			Events: eventsToResponse(c.Events),
			More:   c.More,
		}
	}
	return CalendarPage{
		View:   string(p.View),
		Date:   p.Date,
		Header: p.Header,
		Prev:   p.Prev,
		Next:   p.Next,
		Cells:  cells,
	}
}

func favoritesToResponse(favs []service.Favorite) []Favorite {
	out := make([]Favorite, len(favs))
	for i, f := range favs {
		out[i] = Favorite{Event: eventToResponse(f.Event), DaysSince: f.DaysSince, Stale: f.Stale}
	}
	return out
}
