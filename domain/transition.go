package domain

import (
	"event-lab/errors"
	"fmt"
)

// CanTransition checks a requested status change against the lifecycle
// state machine:
//
//	DRAFT -> PUBLISHED | CANCELLED
//	PUBLISHED -> CANCELLED
//	CANCELLED is terminal
//
// An omitted status (nil) or a same-status request is a no-op and always
// allowed. A rejected transition comes back as ErrInvalidTransition
// wrapped with the violated rule, so callers can surface the reason as a
// validation failure rather than a fault.
func CanTransition(current EventStatus, requested *EventStatus) error {
	if requested == nil {
		return nil
	}
	next := *requested
	if !next.Valid() {
		return fmt.Errorf("%w: unknown status %q", errors.ErrInvalidTransition, string(next))
	}
	if next == current {
		return nil
	}
	switch {
	case (current == StatusPublished || current == StatusCancelled) && next == StatusDraft:
		return fmt.Errorf("%w: cannot move from %s back to DRAFT", errors.ErrInvalidTransition, current)
	case current == StatusPublished && next != StatusCancelled:
		return fmt.Errorf("%w: PUBLISHED events can only be CANCELLED", errors.ErrInvalidTransition)
	case current == StatusCancelled:
		return fmt.Errorf("%w: CANCELLED events cannot be changed", errors.ErrInvalidTransition)
	}
	return nil
}
