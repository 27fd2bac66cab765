package event

import (
	"event-lab/domain"
	"time"

	"github.com/google/uuid"
)

type DomainEvent interface {
	EventID() uuid.UUID
}

type EventCreated struct {
	ID    uuid.UUID
	Title string
	At    time.Time
}

func (e EventCreated) EventID() uuid.UUID {
	return e.ID
}

type EventStatusChanged struct {
	ID        uuid.UUID
	Title     string
	OldStatus domain.EventStatus
	NewStatus domain.EventStatus
	At        time.Time
}

func (e EventStatusChanged) EventID() uuid.UUID {
	return e.ID
}
