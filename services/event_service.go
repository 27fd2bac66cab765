package services

import (
	"context"
	"event-lab/cache"
	"event-lab/contract"
	"event-lab/domain"
	"event-lab/domain/event"
	"event-lab/repositories"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

type ListQuery struct {
	Status    []domain.EventStatus
	Locations []string
	DateFrom  *time.Time
	DateTo    *time.Time
	Page      *int
	Limit     *int
}

type EventList struct {
	Events  []domain.Event
	Total   int
	Page    int
	Limit   int
	HasMore bool
}

type PublicEventList struct {
	Events  []domain.PublicEvent
	Total   int
	Page    int
	Limit   int
	HasMore bool
}

type IEventService interface {
	Create(ctx context.Context, cmd domain.CreateEventCommand) (domain.Event, error)
	Get(id uuid.UUID) (domain.Event, error)
	List(ctx context.Context, query ListQuery) (EventList, error)
	ListPublic(ctx context.Context, query ListQuery) (PublicEventList, error)
	Update(ctx context.Context, cmd domain.UpdateEventCommand) (domain.Event, error)
}

// EventService orchestrates the event lifecycle: it owns the update
// workflow (load, validate transition, persist, notify, invalidate
// cached summaries) and the admin/public listing rules.
type EventService struct {
	repository repositories.IEventRepository
	cache      cache.ICache
	sinks      []contract.NotificationSink
	log        *slog.Logger
	now        func() time.Time
}

func NewEventService(repository repositories.IEventRepository, c cache.ICache, log *slog.Logger, sinks ...contract.NotificationSink) *EventService {
	return &EventService{
		repository: repository,
		cache:      c,
		sinks:      sinks,
		log:        log,
		now:        time.Now,
	}
}

func (s *EventService) Create(ctx context.Context, cmd domain.CreateEventCommand) (domain.Event, error) {
	created, err := s.repository.Create(cmd)
	if err != nil {
		return domain.Event{}, err
	}
	s.notify(ctx, event.EventCreated{
		ID:    created.ID,
		Title: created.Title,
		At:    s.now().UTC(),
	})
	return created, nil
}

func (s *EventService) Get(id uuid.UUID) (domain.Event, error) {
	return s.repository.FindByID(id)
}

func (s *EventService) List(_ context.Context, query ListQuery) (EventList, error) {
	page, limit := clampPagination(query.Page, query.Limit)
	result, err := s.repository.FindAll(domain.EventFilters{
		Status:    query.Status,
		Locations: query.Locations,
		DateFrom:  query.DateFrom,
		DateTo:    query.DateTo,
		Page:      &page,
		Limit:     &limit,
	})
	if err != nil {
		return EventList{}, err
	}
	return EventList{
		Events:  result.Events,
		Total:   result.Total,
		Page:    page,
		Limit:   limit,
		HasMore: page*limit < result.Total,
	}, nil
}

// ListPublic fetches the unpaginated filtered set, keeps only statuses
// visible to the public, recounts, then paginates; counting before the
// visibility cut would leak how many drafts exist.
func (s *EventService) ListPublic(_ context.Context, query ListQuery) (PublicEventList, error) {
	page, limit := clampPagination(query.Page, query.Limit)
	result, err := s.repository.FindAll(domain.EventFilters{
		Locations: query.Locations,
		DateFrom:  query.DateFrom,
		DateTo:    query.DateTo,
	})
	if err != nil {
		return PublicEventList{}, err
	}

	visible := lo.Filter(result.Events, func(e domain.Event, _ int) bool {
		return e.Status.Public()
	})
	total := len(visible)

	start := (page - 1) * limit
	if start >= total {
		visible = nil
	} else {
		visible = visible[start:min(start+limit, total)]
	}

	return PublicEventList{
		Events:  lo.Map(visible, func(e domain.Event, _ int) domain.PublicEvent { return e.Public() }),
		Total:   total,
		Page:    page,
		Limit:   limit,
		HasMore: page*limit < total,
	}, nil
}

// Update runs the lifecycle workflow. Side effect order is persist,
// notify, invalidate; notification and cache failures are logged and
// never roll back the persisted update.
func (s *EventService) Update(ctx context.Context, cmd domain.UpdateEventCommand) (domain.Event, error) {
	current, err := s.repository.FindByID(cmd.ID)
	if err != nil {
		return domain.Event{}, err
	}

	if err := domain.CanTransition(current.Status, cmd.Status); err != nil {
		return domain.Event{}, err
	}

	updated, err := s.repository.Update(cmd)
	if err != nil {
		return domain.Event{}, err
	}

	if updated.Status != current.Status {
		s.notify(ctx, event.EventStatusChanged{
			ID:        updated.ID,
			Title:     updated.Title,
			OldStatus: current.Status,
			NewStatus: updated.Status,
			At:        s.now().UTC(),
		})
	}

	s.invalidateSummaries(current, updated)
	return updated, nil
}

func (s *EventService) notify(ctx context.Context, e event.DomainEvent) {
	for _, sink := range s.sinks {
		if err := sink.Consume(ctx, e); err != nil {
			s.log.Warn("Notification sink failed", "eventId", e.EventID(), "error", err)
		}
	}
}

// invalidateSummaries drops the cached summaries keyed by the old and
// new descriptive tuples when any of title/location/startAt/endAt
// changed. Deleting only the old key would let a future write collide
// with a fingerprint cached for different content.
func (s *EventService) invalidateSummaries(before, after domain.Event) {
	if !descriptiveChanged(before, after) {
		return
	}
	oldKey := Fingerprint(before.Title, before.Location, before.StartAt, before.EndAt)
	newKey := Fingerprint(after.Title, after.Location, after.StartAt, after.EndAt)

	s.cache.Delete(oldKey)
	if newKey != oldKey {
		s.cache.Delete(newKey)
	}
	s.log.Debug("Summary cache invalidated", "eventId", after.ID, "oldKey", oldKey, "newKey", newKey)
}

func descriptiveChanged(before, after domain.Event) bool {
	return before.Title != after.Title ||
		before.Location != after.Location ||
		!before.StartAt.Equal(after.StartAt) ||
		!before.EndAt.Equal(after.EndAt)
}

func clampPagination(page, limit *int) (int, int) {
	p := lo.FromPtrOr(page, DefaultPage)
	if p < 1 {
		p = 1
	}
	l := lo.FromPtrOr(limit, DefaultLimit)
	if l < 1 {
		l = DefaultLimit
	}
	return p, min(l, MaxLimit)
}
