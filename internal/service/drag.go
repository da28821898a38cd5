package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/buckeyeguy5511/meal-calendar/internal/domain"
)

// Drag is one drag-and-drop interaction. It captures the event at drag
// start and is consumed by the first Drop.
type Drag struct {
	event   domain.Event
	events  *EventService
	dropped bool
}

// StartDrag begins dragging the event id.
func (s *EventService) StartDrag(ctx context.Context, id uuid.UUID) (*Drag, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service.EventService.StartDrag: %w", err)
	}
	return &Drag{event: e, events: s}, nil
}

// Event returns the event captured at drag start.
func (d *Drag) Event() domain.Event {
	return d.event
}

// Drop moves the dragged event to date. Only the first call moves anything;
// later calls return ok == false.
func (d *Drag) Drop(ctx context.Context, date string) (moved domain.Event, ok bool, err error) {
	if d.dropped {
		return domain.Event{}, false, nil
	}
	moved, err = d.events.Move(ctx, d.event.ID, date)
	if err != nil {
		return domain.Event{}, false, fmt.Errorf("service.Drag.Drop: %w", err)
	}
	d.dropped = true
	return moved, true, nil
}
