// Package service contains the business logic of the meal calendar.
// Services validate inputs, enforce business rules, and orchestrate store
// calls. Every mutation of the event store goes through EventService.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/buckeyeguy5511/meal-calendar/internal/domain"
	"github.com/buckeyeguy5511/meal-calendar/internal/repo"
)

// Clock returns the current time in the calendar's time zone.
type Clock func() time.Time

// EventService owns the event store. Create, Update, Delete and Move are the
// only ways events change; duplicate, favorite and repeat operations are
// built on top of them.
type EventService struct {
	repo repo.EventRepo
	now  Clock
}

// NewEventService constructs an EventService backed by r.
// A nil clock means time.Now.
func NewEventService(r repo.EventRepo, clock Clock) *EventService {
	if clock == nil {
		clock = time.Now
	}
	return &EventService{repo: r, now: clock}
}

// Today returns the current date as YYYY-MM-DD.
func (s *EventService) Today() string {
	return domain.FormatDate(s.now())
}

// Create validates event, assigns it a fresh time-ordered ID and stores it.
// Any ID already set on event is ignored.
func (s *EventService) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	if err := validateEvent(event); err != nil {
		return domain.Event{}, fmt.Errorf("service.EventService.Create: %w", err)
	}
	id, err := uuid.NewV7()
	if err != nil {
		return domain.Event{}, fmt.Errorf("service.EventService.Create: new id: %w", err)
	}
	event.ID = id

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return domain.Event{}, fmt.Errorf("service.EventService.Create: %w", err)
	}
	return created, nil
}

// GetByID returns a single event.
// Returns domain.ErrNotFound if it does not exist.
func (s *EventService) GetByID(ctx context.Context, id uuid.UUID) (domain.Event, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("service.EventService.GetByID: %w", err)
	}
	return e, nil
}

// List returns every event in store order, keeping only those that match
// search when it is non-empty.
func (s *EventService) List(ctx context.Context, search string) ([]domain.Event, error) {
	events, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.EventService.List: %w", err)
	}
	out := []domain.Event{}
	for _, e := range events {
		if MatchesSearch(e, search) {
			out = append(out, e)
		}
	}
	return out, nil
}

// Update replaces every field of the stored event except its ID.
func (s *EventService) Update(ctx context.Context, event domain.Event) (domain.Event, error) {
	if err := validateEvent(event); err != nil {
		return domain.Event{}, fmt.Errorf("service.EventService.Update: %w", err)
	}
	updated, err := s.repo.Update(ctx, event)
	if err != nil {
		return domain.Event{}, fmt.Errorf("service.EventService.Update: %w", err)
	}
	return updated, nil
}

// Delete removes one event and no other.
func (s *EventService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.EventService.Delete: %w", err)
	}
	return nil
}

// Move changes only the date of an event.
func (s *EventService) Move(ctx context.Context, id uuid.UUID, date string) (domain.Event, error) {
	if _, err := domain.ParseDate(date); err != nil {
		return domain.Event{}, fmt.Errorf("service.EventService.Move: %w: date must be YYYY-MM-DD", domain.ErrValidation)
	}
	moved, err := s.repo.UpdateDate(ctx, id, date)
	if err != nil {
		return domain.Event{}, fmt.Errorf("service.EventService.Move: %w", err)
	}
	return moved, nil
}

// Duplicate returns a create-mode editor draft pre-filled from the event id.
// Submitting the draft creates a new event; the source is left untouched.
func (s *EventService) Duplicate(ctx context.Context, id uuid.UUID) (Draft, error) {
	src, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Draft{}, fmt.Errorf("service.EventService.Duplicate: %w", err)
	}
	return DuplicateDraft(src), nil
}

// AddFromFavorite copies every field of the event id into a new event on
// date. An empty date means today.
func (s *EventService) AddFromFavorite(ctx context.Context, id uuid.UUID, date string) (domain.Event, error) {
	src, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("service.EventService.AddFromFavorite: %w", err)
	}
	if date == "" {
		date = s.Today()
	}
	copied := src.Clone()
	copied.Date = date

	created, err := s.Create(ctx, copied)
	if err != nil {
		return domain.Event{}, fmt.Errorf("service.EventService.AddFromFavorite: %w", err)
	}
	return created, nil
}

// RepeatLastWeek copies every event of the week before the one containing
// current (weeks start on Sunday) forward by exactly seven days.
// Each copy gets a fresh ID. Calling it twice creates the copies twice.
func (s *EventService) RepeatLastWeek(ctx context.Context, current string) ([]domain.Event, error) {
	day, err := domain.ParseDate(current)
	if err != nil {
		return nil, fmt.Errorf("service.EventService.RepeatLastWeek: %w: date must be YYYY-MM-DD", domain.ErrValidation)
	}
	weekStart := domain.StartOfWeek(day)
	lastWeekStart := weekStart.AddDate(0, 0, -7)

	src, err := s.repo.ListBetween(ctx, domain.FormatDate(lastWeekStart), domain.FormatDate(weekStart))
	if err != nil {
		return nil, fmt.Errorf("service.EventService.RepeatLastWeek: %w", err)
	}

	copies := make([]domain.Event, 0, len(src))
	for _, e := range src {
		d, err := domain.ParseDate(e.Date)
		if err != nil {
			continue
		}
		id, err := uuid.NewV7()
		if err != nil {
			return nil, fmt.Errorf("service.EventService.RepeatLastWeek: new id: %w", err)
		}
		c := e.Clone()
		c.ID = id
		c.Date = domain.FormatDate(d.AddDate(0, 0, 7))
		copies = append(copies, c)
	}
	if len(copies) == 0 {
		return []domain.Event{}, nil
	}

	created, err := s.repo.CreateMany(ctx, copies)
	if err != nil {
		return nil, fmt.Errorf("service.EventService.RepeatLastWeek: %w", err)
	}
	return created, nil
}

// DaysSinceLastMade reports how many days ago mealName was last scheduled,
// or nil if it never was.
func (s *EventService) DaysSinceLastMade(ctx context.Context, mealName string) (*int, error) {
	events, err := s.repo.ListByMealName(ctx, mealName)
	if err != nil {
		return nil, fmt.Errorf("service.EventService.DaysSinceLastMade: %w", err)
	}
	return domain.DaysSinceLastMade(events, mealName, s.now()), nil
}

// LastMadeHint is the editor's "last made N days ago" hint for mealName.
func (s *EventService) LastMadeHint(ctx context.Context, mealName string) (Hint, error) {
	if mealName == "" {
		return Hint{}, nil
	}
	days, err := s.DaysSinceLastMade(ctx, mealName)
	if err != nil {
		return Hint{}, err
	}
	return NewEditorHint(days), nil
}

// Favorites returns the favorites panel built from the whole store.
func (s *EventService) Favorites(ctx context.Context) ([]Favorite, error) {
	events, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.EventService.Favorites: %w", err)
	}
	return BuildFavorites(events, s.now()), nil
}

// validateEvent enforces the rules common to Create and Update.
func validateEvent(e domain.Event) error {
	if strings.TrimSpace(e.MealName) == "" {
		return fmt.Errorf("%w: meal_name is required", domain.ErrValidation)
	}
	if _, err := domain.ParseDate(e.Date); err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD", domain.ErrValidation)
	}
	if _, err := domain.ParseClock(e.Time); err != nil || len(e.Time) != len(domain.ClockLayout) {
		return fmt.Errorf("%w: time must be HH:MM", domain.ErrValidation)
	}
	if !e.MealType.Valid() {
		return fmt.Errorf("%w: unknown meal_type %q", domain.ErrValidation, e.MealType)
	}
	if e.Rating < 0 || e.Rating > domain.MaxRating {
		return fmt.Errorf("%w: rating must be between 0 and %d", domain.ErrValidation, domain.MaxRating)
	}
	return nil
}
