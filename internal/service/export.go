package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/buckeyeguy5511/meal-calendar/internal/domain"
	"github.com/buckeyeguy5511/meal-calendar/internal/repo"
)

// ExportService assembles a flat export of every event.
type ExportService struct {
	events repo.EventRepo
}

// NewExportService constructs an ExportService reading from events.
func NewExportService(events repo.EventRepo) *ExportService {
	return &ExportService{events: events}
}

// Events returns every event ordered by date, then time, then store order.
func (s *ExportService) Events(ctx context.Context) ([]domain.Event, error) {
	events, err := s.events.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Events: %w", err)
	}
	slices.SortStableFunc(events, func(a, b domain.Event) int {
		return cmp.Or(cmp.Compare(a.Date, b.Date), cmp.Compare(a.Time, b.Time))
	})
	return events, nil
}

// Export returns one ExportRow per event in the order of Events.
func (s *ExportService) Export(ctx context.Context) ([]domain.ExportRow, error) {
	events, err := s.Events(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}
	rows := make([]domain.ExportRow, len(events))
	for i, e := range events {
		tags := e.Tags
		if tags == nil {
			tags = []string{}
		}
		rows[i] = domain.ExportRow{
			ID:           e.ID.String(),
			Date:         e.Date,
			Time:         e.Time,
			MealName:     e.MealName,
			MealType:     string(e.MealType),
			Protein:      string(e.Protein),
			Rating:       e.Rating,
			IsFavorite:   e.IsFavorite,
			HasLeftovers: e.HasLeftovers,
			Tags:         tags,
			Notes:        e.Notes,
		}
	}
	return rows, nil
}
