package domain

import (
	"time"

	"github.com/google/uuid"
)

type CreateEventCommand struct {
	Title         string
	Location      string
	StartAt       time.Time
	EndAt         time.Time
	Status        *EventStatus
	InternalNotes *string
	CreatedBy     string
}

// UpdateEventCommand applies only the fields that are present; a nil
// pointer means "leave unchanged", never "clear".
//
// The HTTP surface only ever fills Status and InternalNotes. The
// descriptive fields exist so the update workflow can invalidate cached
// summary fingerprints for any caller that does rewrite them.
type UpdateEventCommand struct {
	ID            uuid.UUID
	Status        *EventStatus
	InternalNotes *string
	Title         *string
	Location      *string
	StartAt       *time.Time
	EndAt         *time.Time
}

type EventFilters struct {
	Status    []EventStatus
	Locations []string
	DateFrom  *time.Time
	DateTo    *time.Time
	Page      *int
	Limit     *int
}

// EventPage carries the page slice plus the match count before
// pagination was applied.
type EventPage struct {
	Events []Event
	Total  int
}
