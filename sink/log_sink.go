package sink

import (
	"context"
	"event-lab/domain/event"
	"log/slog"
)

// LogNotifier writes lifecycle notifications to the structured log. It
// stands in for an outbound channel (mail, webhook) in the reference
// deployment.
type LogNotifier struct {
	log *slog.Logger
}

func NewLogNotifier(log *slog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (s *LogNotifier) Consume(_ context.Context, e event.DomainEvent) error {
	switch evt := e.(type) {
	case event.EventCreated:
		s.log.Info("New event created", "eventId", evt.ID, "title", evt.Title)
	case event.EventStatusChanged:
		s.log.Info("Event status changed",
			"eventId", evt.ID,
			"title", evt.Title,
			"from", evt.OldStatus,
			"to", evt.NewStatus,
		)
	}
	return nil
}
