package repositories

import (
	"encoding/json"
	"event-lab/domain"
	"event-lab/errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// EventKeyPrefix namespaces event records inside the shared badger
// keyspace; the audit sink writes under its own prefix.
const EventKeyPrefix = "event:"

// BadgerEventRepository is the durable counterpart of EventRepository.
// Records are stored as JSON under "event:{id}". Badger serializes
// writes per transaction, which gives the same single-writer semantics
// the in-memory store gets from its mutex.
type BadgerEventRepository struct {
	db  *badger.DB
	log *slog.Logger
	now func() time.Time
}

func NewBadgerEventRepository(db *badger.DB, log *slog.Logger) *BadgerEventRepository {
	return &BadgerEventRepository{db: db, log: log, now: time.Now}
}

func (r *BadgerEventRepository) Create(cmd domain.CreateEventCommand) (domain.Event, error) {
	e := newEvent(cmd, r.now().UTC())
	bytes, err := json.Marshal(e)
	if err != nil {
		return domain.Event{}, err
	}
	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(eventKey(e.ID), bytes)
	})
	if err != nil {
		return domain.Event{}, err
	}
	r.log.Debug("Event created", "id", e.ID, "title", e.Title, "status", e.Status)
	return e, nil
}

func (r *BadgerEventRepository) FindByID(id uuid.UUID) (domain.Event, error) {
	var e domain.Event
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(eventKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(value []byte) error {
			return json.Unmarshal(value, &e)
		})
	})
	switch {
	case err == badger.ErrKeyNotFound:
		return domain.Event{}, fmt.Errorf("%w: %s", errors.ErrEventNotFound, id)
	case err != nil:
		return domain.Event{}, err
	}
	return e, nil
}

func (r *BadgerEventRepository) FindAll(filters domain.EventFilters) (domain.EventPage, error) {
	var events []domain.Event
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(EventKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(value []byte) error {
				var e domain.Event
				if err := json.Unmarshal(value, &e); err != nil {
					return err
				}
				events = append(events, e)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.EventPage{}, err
	}
	return filterEvents(events, filters, r.now().UTC()), nil
}

func (r *BadgerEventRepository) Update(cmd domain.UpdateEventCommand) (domain.Event, error) {
	var e domain.Event
	err := r.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(eventKey(cmd.ID))
		if err != nil {
			return err
		}
		err = item.Value(func(value []byte) error {
			return json.Unmarshal(value, &e)
		})
		if err != nil {
			return err
		}
		applyUpdate(&e, cmd, r.now().UTC())
		bytes, err := json.Marshal(e)
		if err != nil {
			return err
		}
		return txn.Set(eventKey(e.ID), bytes)
	})
	switch {
	case err == badger.ErrKeyNotFound:
		return domain.Event{}, fmt.Errorf("%w: %s", errors.ErrEventNotFound, cmd.ID)
	case err != nil:
		return domain.Event{}, err
	}
	r.log.Debug("Event updated", "id", e.ID, "status", e.Status)
	return e, nil
}

func eventKey(id uuid.UUID) []byte {
	return []byte(EventKeyPrefix + id.String())
}
