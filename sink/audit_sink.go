package sink

import (
	"context"
	"encoding/json"
	"event-lab/domain"
	"event-lab/domain/event"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// AuditKeyPrefix namespaces status-change records in badger, next to the
// "event:" records of the durable repository.
const AuditKeyPrefix = "audit:"

type AuditRecord struct {
	EventID   uuid.UUID          `json:"eventId"`
	Title     string             `json:"title"`
	OldStatus domain.EventStatus `json:"oldStatus"`
	NewStatus domain.EventStatus `json:"newStatus"`
	At        time.Time          `json:"at"`
}

// AuditSink persists status changes so eventctl can show a history
// after the fact. Keys embed a 19-digit zero-padded timestamp, which
// keeps badger's lexicographic iteration chronological.
type AuditSink struct {
	db  *badger.DB
	log *slog.Logger
}

func NewAuditSink(db *badger.DB, log *slog.Logger) *AuditSink {
	return &AuditSink{db: db, log: log}
}

func (s *AuditSink) Consume(_ context.Context, e event.DomainEvent) error {
	evt, ok := e.(event.EventStatusChanged)
	if !ok {
		return nil
	}

	record := AuditRecord{
		EventID:   evt.ID,
		Title:     evt.Title,
		OldStatus: evt.OldStatus,
		NewStatus: evt.NewStatus,
		At:        evt.At,
	}
	bytes, err := json.Marshal(record)
	if err != nil {
		return err
	}
	key := fmt.Sprintf("%s%019d:%s", AuditKeyPrefix, evt.At.UnixNano(), evt.ID)
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), bytes)
	})
}

// ReadAuditLog returns up to limit records, oldest first. limit <= 0
// means no limit.
func ReadAuditLog(db *badger.DB, limit int) ([]AuditRecord, error) {
	var records []AuditRecord
	err := db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(AuditKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(records) == limit {
				break
			}
			err := it.Item().Value(func(value []byte) error {
				var record AuditRecord
				if err := json.Unmarshal(value, &record); err != nil {
					return err
				}
				records = append(records, record)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return records, err
}
