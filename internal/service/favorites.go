package service

import (
	"slices"
	"time"

	"github.com/buckeyeguy5511/meal-calendar/internal/domain"
)

// Favorite is one entry of the favorites panel.
type Favorite struct {
	Event domain.Event
	// DaysSince is nil when the meal has no dated history.
	DaysSince *int
	Stale     bool
}

// FavoriteEvents filters events to favorites, keeps the first event of each
// meal name, and sorts the result by rating, highest first. Ties keep store
// order.
func FavoriteEvents(events []domain.Event) []domain.Event {
	seen := map[string]bool{}
	out := []domain.Event{}
	for _, e := range events {
		if !e.IsFavorite || seen[e.MealName] {
			continue
		}
		seen[e.MealName] = true
		out = append(out, e)
	}
	slices.SortStableFunc(out, func(a, b domain.Event) int {
		return b.Rating - a.Rating
	})
	return out
}

// BuildFavorites returns the favorites panel with a last-made hint per entry.
// Unlike the editor hint, a zero-day gap is still reported.
func BuildFavorites(events []domain.Event, now time.Time) []Favorite {
	favs := FavoriteEvents(events)
	out := make([]Favorite, len(favs))
	for i, e := range favs {
		days := domain.DaysSinceLastMade(events, e.MealName, now)
		out[i] = Favorite{
			Event:     e,
			DaysSince: days,
			Stale:     days != nil && *days >= StaleAfterDays,
		}
	}
	return out
}
