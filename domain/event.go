package domain

import (
	"time"

	"github.com/google/uuid"
)

type EventStatus string

const (
	StatusDraft     EventStatus = "DRAFT"
	StatusPublished EventStatus = "PUBLISHED"
	StatusCancelled EventStatus = "CANCELLED"
)

// Valid reports whether the status is one of the three known values.
func (s EventStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusCancelled:
		return true
	}
	return false
}

// Public reports whether events carrying this status may appear in the
// public listing. DRAFT events are admin-only.
func (s EventStatus) Public() bool {
	return s == StatusPublished || s == StatusCancelled
}

type Event struct {
	ID            uuid.UUID   `json:"id"`
	Title         string      `json:"title"`
	Location      string      `json:"location"`
	StartAt       time.Time   `json:"startAt"`
	EndAt         time.Time   `json:"endAt"`
	Status        EventStatus `json:"status"`
	IsUpcoming    bool        `json:"isUpcoming"`
	InternalNotes string      `json:"internalNotes,omitempty"`
	CreatedBy     string      `json:"createdBy,omitempty"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// Upcoming is evaluated against "now" rather than stored at write time:
// a query running after startAt must not report the event as upcoming.
func (e Event) Upcoming(now time.Time) bool {
	return e.StartAt.After(now) && e.Status != StatusCancelled
}

// PublicEvent is the redacted projection served to unauthenticated
// callers. It deliberately has no slot for internalNotes, createdBy or
// updatedAt.
type PublicEvent struct {
	ID         uuid.UUID   `json:"id"`
	Title      string      `json:"title"`
	StartAt    time.Time   `json:"startAt"`
	EndAt      time.Time   `json:"endAt"`
	Location   string      `json:"location"`
	Status     EventStatus `json:"status"`
	IsUpcoming bool        `json:"isUpcoming"`
}

func (e Event) Public() PublicEvent {
	return PublicEvent{
		ID:         e.ID,
		Title:      e.Title,
		StartAt:    e.StartAt,
		EndAt:      e.EndAt,
		Location:   e.Location,
		Status:     e.Status,
		IsUpcoming: e.IsUpcoming,
	}
}
