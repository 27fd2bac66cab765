package sink

import (
	"context"
	"event-lab/domain"
	"event-lab/domain/event"
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func Test_AuditSink_RecordsStatusChanges(t *testing.T) {
	req := require.New(t)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	defer db.Close()

	auditSink := NewAuditSink(db, slog.Default())
	ctx := context.Background()
	at := time.Now().UTC().Truncate(time.Second)
	id := uuid.New()

	changes := []event.EventStatusChanged{
		{ID: id, Title: "Launch party", OldStatus: domain.StatusDraft, NewStatus: domain.StatusPublished, At: at},
		{ID: id, Title: "Launch party", OldStatus: domain.StatusPublished, NewStatus: domain.StatusCancelled, At: at.Add(time.Minute)},
	}
	for _, change := range changes {
		req.NoError(auditSink.Consume(ctx, change))
	}

	// Created events are not audited
	req.NoError(auditSink.Consume(ctx, event.EventCreated{ID: id, Title: "Launch party", At: at}))

	records, err := ReadAuditLog(db, 0)
	req.NoError(err)
	req.Len(records, 2)
	req.Equal(domain.StatusPublished, records[0].NewStatus)
	req.Equal(domain.StatusCancelled, records[1].NewStatus, "records iterate oldest first")

	limited, err := ReadAuditLog(db, 1)
	req.NoError(err)
	req.Len(limited, 1)
	req.Equal(domain.StatusPublished, limited[0].NewStatus)
}
