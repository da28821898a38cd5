package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/buckeyeguy5511/meal-calendar/internal/domain"
)

// DraftMode tells whether submitting a draft creates or updates an event.
type DraftMode string

const (
	ModeCreate DraftMode = "create"
	ModeEdit   DraftMode = "edit"
)

// StaleAfterDays is the gap at which the last-made hint is flagged.
const StaleAfterDays = 30

// Draft is the event editor's form state. It mirrors domain.Event plus the
// free-text CustomTags buffer. SourceID is set only when the draft edits an
// existing event.
type Draft struct {
	SourceID     *uuid.UUID
	MealName     string
	MealType     domain.MealType
	Time         string
	Date         string
	Protein      domain.Protein
	Rating       int
	IsFavorite   bool
	HasLeftovers bool
	Tags         []string
	Notes        string
	CustomTags   string
}

// NewDraft returns a create-mode draft for date with the editor defaults.
func NewDraft(date string) Draft {
	return Draft{
		MealType: domain.MealLunch,
		Time:     "12:00",
		Date:     date,
		Protein:  domain.ProteinChicken,
		Tags:     []string{},
	}
}

// EditDraft returns an edit-mode draft pre-filled from e.
func EditDraft(e domain.Event) Draft {
	d := fromEvent(e)
	id := e.ID
	d.SourceID = &id
	return d
}

// DuplicateDraft returns a create-mode draft pre-filled from e, so that
// submitting it creates a copy instead of changing e.
func DuplicateDraft(e domain.Event) Draft {
	return fromEvent(e)
}

func fromEvent(e domain.Event) Draft {
	tags := slices.Clone(e.Tags)
	if tags == nil {
		tags = []string{}
	}
	return Draft{
		MealName:     e.MealName,
		MealType:     e.MealType,
		Time:         e.Time,
		Date:         e.Date,
		Protein:      e.Protein,
		Rating:       e.Rating,
		IsFavorite:   e.IsFavorite,
		HasLeftovers: e.HasLeftovers,
		Tags:         tags,
		Notes:        e.Notes,
	}
}

// Mode reports whether d creates or edits.
func (d Draft) Mode() DraftMode {
	if d.SourceID != nil {
		return ModeEdit
	}
	return ModeCreate
}

// ToggleTag selects tag if it is not selected, and deselects it otherwise.
func (d *Draft) ToggleTag(tag string) {
	if i := slices.Index(d.Tags, tag); i >= 0 {
		d.Tags = slices.Delete(slices.Clone(d.Tags), i, i+1)
		return
	}
	d.Tags = append(slices.Clone(d.Tags), tag)
}

// MergedTags returns the selected tags followed by every non-empty,
// trimmed, comma-separated entry of CustomTags. Duplicates are kept.
func (d Draft) MergedTags() []string {
	tags := slices.Clone(d.Tags)
	if tags == nil {
		tags = []string{}
	}
	for _, t := range strings.Split(d.CustomTags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// Event converts d into the event it would store.
func (d Draft) Event() domain.Event {
	e := domain.Event{
		MealName:     d.MealName,
		MealType:     d.MealType,
		Time:         d.Time,
		Date:         d.Date,
		Protein:      d.Protein,
		Rating:       d.Rating,
		IsFavorite:   d.IsFavorite,
		HasLeftovers: d.HasLeftovers,
		Tags:         d.MergedTags(),
		Notes:        d.Notes,
	}
	if d.SourceID != nil {
		e.ID = *d.SourceID
	}
	return e
}

// EventWriter is the subset of EventService the editor mutates through.
type EventWriter interface {
	Create(ctx context.Context, event domain.Event) (domain.Event, error)
	Update(ctx context.Context, event domain.Event) (domain.Event, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Editor turns drafts into store mutations.
type Editor struct {
	events EventWriter
}

// NewEditor constructs an Editor that writes through events.
func NewEditor(events EventWriter) *Editor {
	return &Editor{events: events}
}

// Submit saves d. A draft whose meal name is blank is ignored: ok is false,
// err is nil and the store is not touched.
func (ed *Editor) Submit(ctx context.Context, d Draft) (saved domain.Event, ok bool, err error) {
	if strings.TrimSpace(d.MealName) == "" {
		return domain.Event{}, false, nil
	}

	if d.Mode() == ModeEdit {
		saved, err = ed.events.Update(ctx, d.Event())
	} else {
		saved, err = ed.events.Create(ctx, d.Event())
	}
	if err != nil {
		return domain.Event{}, false, fmt.Errorf("service.Editor.Submit: %w", err)
	}
	return saved, true, nil
}

// Delete removes the event d edits. Create-mode drafts have nothing to delete.
func (ed *Editor) Delete(ctx context.Context, d Draft) error {
	if d.Mode() != ModeEdit {
		return fmt.Errorf("service.Editor.Delete: %w: only an existing event can be deleted", domain.ErrValidation)
	}
	if err := ed.events.Delete(ctx, *d.SourceID); err != nil {
		return fmt.Errorf("service.Editor.Delete: %w", err)
	}
	return nil
}

// Hint is the "last made N days ago" note shown under a meal name.
type Hint struct {
	// Days is nil when the meal was never scheduled.
	Days *int
	// Show is false when there is nothing worth displaying.
	Show bool
	// Stale marks a gap of StaleAfterDays or more.
	Stale bool
}

// NewEditorHint builds the editor hint, which is hidden for a zero-day gap.
func NewEditorHint(days *int) Hint {
	h := Hint{Days: days}
	if days != nil && *days > 0 {
		h.Show = true
		h.Stale = *days >= StaleAfterDays
	}
	return h
}
