//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"event-lab/domain/event"
)

// NotificationSink receives lifecycle notifications (event created,
// status changed). Sinks are best-effort: a failing sink is logged by the
// caller and never rolls back the write that produced the notification.
type NotificationSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}
