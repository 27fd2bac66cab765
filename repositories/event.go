//go:generate go run go.uber.org/mock/mockgen -source=event.go -destination=../mocks/mock_event_repository.go -package=mocks
package repositories

import (
	"event-lab/domain"
	"event-lab/errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type IEventRepository interface {
	Create(cmd domain.CreateEventCommand) (domain.Event, error)
	FindByID(id uuid.UUID) (domain.Event, error)
	FindAll(filters domain.EventFilters) (domain.EventPage, error)
	Update(cmd domain.UpdateEventCommand) (domain.Event, error)
}

// EventRepository keeps the authoritative event collection in memory.
// All access goes through a single RWMutex: reads may run concurrently,
// mutations are serialized per store.
type EventRepository struct {
	mu     sync.RWMutex
	events []domain.Event
	log    *slog.Logger
	now    func() time.Time
}

func NewEventRepository(log *slog.Logger) *EventRepository {
	return &EventRepository{log: log, now: time.Now}
}

func (r *EventRepository) Create(cmd domain.CreateEventCommand) (domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	e := newEvent(cmd, now)
	r.events = append(r.events, e)
	r.log.Debug("Event created", "id", e.ID, "title", e.Title, "status", e.Status)
	return e, nil
}

func (r *EventRepository) FindByID(id uuid.UUID) (domain.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, found := lo.Find(r.events, func(e domain.Event) bool { return e.ID == id })
	if !found {
		return domain.Event{}, fmt.Errorf("%w: %s", errors.ErrEventNotFound, id)
	}
	return e, nil
}

func (r *EventRepository) FindAll(filters domain.EventFilters) (domain.EventPage, error) {
	r.mu.RLock()
	snapshot := make([]domain.Event, len(r.events))
	copy(snapshot, r.events)
	r.mu.RUnlock()

	return filterEvents(snapshot, filters, r.now().UTC()), nil
}

func (r *EventRepository) Update(cmd domain.UpdateEventCommand) (domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, idx, found := lo.FindIndexOf(r.events, func(e domain.Event) bool { return e.ID == cmd.ID })
	if !found {
		return domain.Event{}, fmt.Errorf("%w: %s", errors.ErrEventNotFound, cmd.ID)
	}

	e := r.events[idx]
	applyUpdate(&e, cmd, r.now().UTC())
	r.events[idx] = e
	r.log.Debug("Event updated", "id", e.ID, "status", e.Status)
	return e, nil
}

func newEvent(cmd domain.CreateEventCommand, now time.Time) domain.Event {
	status := domain.StatusDraft
	if cmd.Status != nil {
		status = *cmd.Status
	}
	e := domain.Event{
		ID:        uuid.New(),
		Title:     cmd.Title,
		Location:  cmd.Location,
		StartAt:   cmd.StartAt,
		EndAt:     cmd.EndAt,
		Status:    status,
		CreatedBy: cmd.CreatedBy,
		UpdatedAt: now,
	}
	if cmd.InternalNotes != nil {
		e.InternalNotes = *cmd.InternalNotes
	}
	e.IsUpcoming = e.Upcoming(now)
	return e
}

// applyUpdate copies the present fields of cmd onto e and refreshes the
// derived fields. Shared by the memory and badger repositories so both
// keep identical update semantics.
func applyUpdate(e *domain.Event, cmd domain.UpdateEventCommand, now time.Time) {
	if cmd.Status != nil {
		e.Status = *cmd.Status
	}
	if cmd.InternalNotes != nil {
		e.InternalNotes = *cmd.InternalNotes
	}
	if cmd.Title != nil {
		e.Title = *cmd.Title
	}
	if cmd.Location != nil {
		e.Location = *cmd.Location
	}
	if cmd.StartAt != nil {
		e.StartAt = *cmd.StartAt
	}
	if cmd.EndAt != nil {
		e.EndAt = *cmd.EndAt
	}
	e.IsUpcoming = e.Upcoming(now)
	e.UpdatedAt = now
}

// filterEvents runs the query engine: a sequential AND of independent
// predicates, each multi-value predicate being an OR across its values.
// IsUpcoming is recomputed for every candidate against "now" so stale
// stored values never leak into query results.
func filterEvents(events []domain.Event, f domain.EventFilters, now time.Time) domain.EventPage {
	matches := lo.Filter(events, func(e domain.Event, _ int) bool {
		return matchesFilters(e, f)
	})
	matches = lo.Map(matches, func(e domain.Event, _ int) domain.Event {
		e.IsUpcoming = e.Upcoming(now)
		return e
	})

	total := len(matches)
	if f.Page == nil && f.Limit == nil {
		return domain.EventPage{Events: matches, Total: total}
	}

	page := lo.FromPtrOr(f.Page, 1)
	limit := lo.FromPtrOr(f.Limit, 10)
	start := (page - 1) * limit
	if start < 0 || start >= total {
		return domain.EventPage{Events: []domain.Event{}, Total: total}
	}
	end := min(start+limit, total)
	return domain.EventPage{Events: matches[start:end], Total: total}
}

func matchesFilters(e domain.Event, f domain.EventFilters) bool {
	if len(f.Status) > 0 && !lo.Contains(f.Status, e.Status) {
		return false
	}
	if len(f.Locations) > 0 {
		location := strings.ToLower(e.Location)
		match := lo.SomeBy(f.Locations, func(wanted string) bool {
			return strings.Contains(location, strings.ToLower(strings.TrimSpace(wanted)))
		})
		if !match {
			return false
		}
	}
	if f.DateFrom != nil && e.StartAt.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && e.EndAt.After(*f.DateTo) {
		return false
	}
	return true
}
