package repo

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/buckeyeguy5511/meal-calendar/internal/domain"
)

// memoryEventRepo is the in-memory implementation of EventRepo.
// Events live in a slice in insertion order and are discarded on restart.
// Every read and write copies events so callers never share tag slices with
// the store.
type memoryEventRepo struct {
	mu     sync.RWMutex
	events []domain.Event
}

// NewMemoryEventRepo constructs an empty in-memory EventRepo.
func NewMemoryEventRepo() EventRepo {
	return &memoryEventRepo{}
}

func (r *memoryEventRepo) Create(_ context.Context, event domain.Event) (domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(event.ID) >= 0 {
		return domain.Event{}, fmt.Errorf("repo.EventRepo.Create: duplicate id %s", event.ID)
	}
	r.events = append(r.events, event.Clone())
	return event.Clone(), nil
}

func (r *memoryEventRepo) CreateMany(_ context.Context, events []domain.Event) ([]domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[uuid.UUID]bool, len(events))
	for _, e := range events {
		if seen[e.ID] || r.indexOf(e.ID) >= 0 {
			return nil, fmt.Errorf("repo.EventRepo.CreateMany: duplicate id %s", e.ID)
		}
		seen[e.ID] = true
	}

	created := make([]domain.Event, 0, len(events))
	for _, e := range events {
		r.events = append(r.events, e.Clone())
		created = append(created, e.Clone())
	}
	return created, nil
}

func (r *memoryEventRepo) GetByID(_ context.Context, id uuid.UUID) (domain.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return domain.Event{}, fmt.Errorf("repo.EventRepo.GetByID: %w", domain.ErrNotFound)
	}
	return r.events[i].Clone(), nil
}

func (r *memoryEventRepo) List(_ context.Context) ([]domain.Event, error) {
	return r.filter(func(domain.Event) bool { return true }), nil
}

// ListBetween compares dates as strings, which orders correctly because
// stored dates are always zero-padded YYYY-MM-DD.
func (r *memoryEventRepo) ListBetween(_ context.Context, from, to string) ([]domain.Event, error) {
	return r.filter(func(e domain.Event) bool {
		return e.Date >= from && e.Date < to
	}), nil
}

func (r *memoryEventRepo) ListByMealName(_ context.Context, name string) ([]domain.Event, error) {
	return r.filter(func(e domain.Event) bool { return e.MealName == name }), nil
}

func (r *memoryEventRepo) Update(_ context.Context, event domain.Event) (domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(event.ID)
	if i < 0 {
		return domain.Event{}, fmt.Errorf("repo.EventRepo.Update: %w", domain.ErrNotFound)
	}
	r.events[i] = event.Clone()
	return event.Clone(), nil
}

func (r *memoryEventRepo) UpdateDate(_ context.Context, id uuid.UUID, date string) (domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return domain.Event{}, fmt.Errorf("repo.EventRepo.UpdateDate: %w", domain.ErrNotFound)
	}
	r.events[i].Date = date
	return r.events[i].Clone(), nil
}

func (r *memoryEventRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return fmt.Errorf("repo.EventRepo.Delete: %w", domain.ErrNotFound)
	}
	r.events = slices.Delete(r.events, i, i+1)
	return nil
}

// indexOf must be called with mu held.
func (r *memoryEventRepo) indexOf(id uuid.UUID) int {
	return slices.IndexFunc(r.events, func(e domain.Event) bool { return e.ID == id })
}

func (r *memoryEventRepo) filter(keep func(domain.Event) bool) []domain.Event {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []domain.Event{}
	for _, e := range r.events {
		if keep(e) {
			out = append(out, e.Clone())
		}
	}
	return out
}
