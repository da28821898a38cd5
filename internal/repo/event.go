// Package repo contains the event store of the meal calendar.
// EventRepo is the store contract; it has an in-memory implementation (the
// default) and a Postgres implementation. No business logic lives here.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/buckeyeguy5511/meal-calendar/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test.
type db interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// EventRepo defines the persistence operations for meal events.
// Every listing returns events in insertion order; callers that need a
// different order sort the result themselves.
type EventRepo interface {
	// Create stores a new event. The caller assigns the ID.
	Create(ctx context.Context, event domain.Event) (domain.Event, error)

	// CreateMany stores several events at once. Either all are stored or none.
	CreateMany(ctx context.Context, events []domain.Event) ([]domain.Event, error)

	// GetByID returns domain.ErrNotFound if no event with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Event, error)

	// List returns every event.
	List(ctx context.Context) ([]domain.Event, error)

	// ListBetween returns events dated in [from, to). Both bounds are YYYY-MM-DD.
	ListBetween(ctx context.Context, from, to string) ([]domain.Event, error)

	// ListByMealName returns events whose MealName equals name exactly.
	ListByMealName(ctx context.Context, name string) ([]domain.Event, error)

	// Update overwrites every field except the ID.
	// Returns domain.ErrNotFound if no event with that ID exists.
	Update(ctx context.Context, event domain.Event) (domain.Event, error)

	// UpdateDate replaces only the date of an event.
	// Returns domain.ErrNotFound if no event with that ID exists.
	UpdateDate(ctx context.Context, id uuid.UUID, date string) (domain.Event, error)

	// Delete returns domain.ErrNotFound if no event with that ID exists.
	Delete(ctx context.Context, id uuid.UUID) error
}

const eventColumns = `id, meal_name, meal_type, meal_time, meal_date, protein,
		rating, is_favorite, has_leftovers, tags, notes`

// pgEventRepo is the Postgres implementation of EventRepo.
type pgEventRepo struct {
	db db
}

// NewEventRepo constructs an EventRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewEventRepo(db db) EventRepo {
	return &pgEventRepo{db: db}
}

const insertEvent = `
		INSERT INTO meal_events (id, meal_name, meal_type, meal_time, meal_date, protein,
		                         rating, is_favorite, has_leftovers, tags, notes)
		VALUES (@id, @meal_name, @meal_type, @meal_time, @meal_date::date, @protein,
		        @rating, @is_favorite, @has_leftovers, @tags, @notes)
		RETURNING ` + eventColumns

// Create inserts a new event row and returns the full persisted record.
func (r *pgEventRepo) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	result, err := scanEvent(r.db.QueryRow(ctx, insertEvent, eventArgs(event)))
	if err != nil {
		return domain.Event{}, fmt.Errorf("repo.EventRepo.Create: %w", err)
	}
	return result, nil
}

// CreateMany inserts all events inside one transaction.
func (r *pgEventRepo) CreateMany(ctx context.Context, events []domain.Event) ([]domain.Event, error) {
	created := make([]domain.Event, 0, len(events))
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		for _, e := range events {
			result, err := scanEvent(tx.QueryRow(ctx, insertEvent, eventArgs(e)))
			if err != nil {
				return err
			}
			created = append(created, result)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("repo.EventRepo.CreateMany: %w", err)
	}
	return created, nil
}

// GetByID retrieves an event by primary key.
func (r *pgEventRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Event, error) {
	q := `SELECT ` + eventColumns + ` FROM meal_events WHERE id = @id`

	result, err := scanEvent(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Event{}, fmt.Errorf("repo.EventRepo.GetByID: %w", err)
	}
	return result, nil
}

// List returns all events in insertion order.
func (r *pgEventRepo) List(ctx context.Context) ([]domain.Event, error) {
	q := `SELECT ` + eventColumns + ` FROM meal_events ORDER BY seq`

	events, err := r.query(ctx, q, pgx.NamedArgs{})
	if err != nil {
		return nil, fmt.Errorf("repo.EventRepo.List: %w", err)
	}
	return events, nil
}

// ListBetween returns events with from <= meal_date < to.
func (r *pgEventRepo) ListBetween(ctx context.Context, from, to string) ([]domain.Event, error) {
	q := `SELECT ` + eventColumns + ` FROM meal_events
		WHERE meal_date >= @from::date AND meal_date < @to::date
		ORDER BY seq`

	events, err := r.query(ctx, q, pgx.NamedArgs{"from": from, "to": to})
	if err != nil {
		return nil, fmt.Errorf("repo.EventRepo.ListBetween: %w", err)
	}
	return events, nil
}

// ListByMealName returns the events named exactly name.
func (r *pgEventRepo) ListByMealName(ctx context.Context, name string) ([]domain.Event, error) {
	q := `SELECT ` + eventColumns + ` FROM meal_events WHERE meal_name = @name ORDER BY seq`

	events, err := r.query(ctx, q, pgx.NamedArgs{"name": name})
	if err != nil {
		return nil, fmt.Errorf("repo.EventRepo.ListByMealName: %w", err)
	}
	return events, nil
}

// Update overwrites the mutable fields of an event.
func (r *pgEventRepo) Update(ctx context.Context, event domain.Event) (domain.Event, error) {
	q := `
		UPDATE meal_events
		SET meal_name     = @meal_name,
		    meal_type     = @meal_type,
		    meal_time     = @meal_time,
		    meal_date     = @meal_date::date,
		    protein       = @protein,
		    rating        = @rating,
		    is_favorite   = @is_favorite,
		    has_leftovers = @has_leftovers,
		    tags          = @tags,
		    notes         = @notes,
		    updated_at    = now()
		WHERE id = @id
		RETURNING ` + eventColumns

	result, err := scanEvent(r.db.QueryRow(ctx, q, eventArgs(event)))
	if err != nil {
		return domain.Event{}, fmt.Errorf("repo.EventRepo.Update: %w", err)
	}
	return result, nil
}

// UpdateDate moves an event to another date without touching other columns.
func (r *pgEventRepo) UpdateDate(ctx context.Context, id uuid.UUID, date string) (domain.Event, error) {
	q := `
		UPDATE meal_events
		SET meal_date  = @meal_date::date,
		    updated_at = now()
		WHERE id = @id
		RETURNING ` + eventColumns

	result, err := scanEvent(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "meal_date": date}))
	if err != nil {
		return domain.Event{}, fmt.Errorf("repo.EventRepo.UpdateDate: %w", err)
	}
	return result, nil
}

// Delete removes an event by primary key.
func (r *pgEventRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM meal_events WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.EventRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.EventRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgEventRepo) query(ctx context.Context, q string, args pgx.NamedArgs) ([]domain.Event, error) {
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []domain.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return events, nil
}

func eventArgs(e domain.Event) pgx.NamedArgs {
	tags := e.Tags
	if tags == nil {
		tags = []string{} // the column is NOT NULL
	}
	return pgx.NamedArgs{
		"id":            e.ID,
		"meal_name":     e.MealName,
		"meal_type":     string(e.MealType),
		"meal_time":     e.Time,
		"meal_date":     e.Date,
		"protein":       string(e.Protein),
		"rating":        e.Rating,
		"is_favorite":   e.IsFavorite,
		"has_leftovers": e.HasLeftovers,
		"tags":          tags,
		"notes":         e.Notes,
	}
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanEvent to be
// reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanEvent maps a single database row into a domain.Event.
func scanEvent(s scanner) (domain.Event, error) {
	var (
		e        domain.Event
		id       pgtype.UUID
		date     pgtype.Date
		mealType string
		protein  string
	)

	err := s.Scan(&id, &e.MealName, &mealType, &e.Time, &date, &protein,
		&e.Rating, &e.IsFavorite, &e.HasLeftovers, &e.Tags, &e.Notes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Event{}, domain.ErrNotFound
		}
		return domain.Event{}, err
	}

	e.ID = uuid.UUID(id.Bytes)
	e.MealType = domain.MealType(mealType)
	e.Protein = domain.Protein(protein)
	e.Date = domain.FormatDate(date.Time)
	return e, nil
}
