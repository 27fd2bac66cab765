package main

import (
	"encoding/json"
	"event-lab/domain"
	"event-lab/repositories"
	"event-lab/sink"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
)

// eventctl inspects a badger-backed deployment: the event collection or
// the status-change audit trail.
func main() {
	dbPath := flag.String("db", "./data/events", "Path to badger DB")
	audit := flag.Bool("audit", false, "Show the status-change audit trail instead of events")
	limit := flag.Int("limit", 0, "Maximum rows to print (0 = all)")
	flag.Parse()

	// BypassLockGuard allows opening while the server holds the lock
	opts := badger.DefaultOptions(*dbPath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if *audit {
		if err := printAuditLog(db, *limit); err != nil {
			log.Fatalf("Failed to read audit log: %v", err)
		}
		return
	}
	if err := printEvents(db, *limit); err != nil {
		log.Fatalf("Failed to read events: %v", err)
	}
}

func printEvents(db *badger.DB, limit int) error {
	table := newTable([]string{"ID", "Title", "Location", "Start", "End", "Status", "Upcoming"})

	count := 0
	err := db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(repositories.EventKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && count == limit {
				break
			}
			err := it.Item().Value(func(value []byte) error {
				var e domain.Event
				if err := json.Unmarshal(value, &e); err != nil {
					fmt.Printf("Error unmarshaling key %s: %v\n", string(it.Item().Key()), err)
					return nil
				}
				table.Append([]string{
					e.ID.String()[:8],
					e.Title,
					e.Location,
					e.StartAt.Format(time.RFC822),
					e.EndAt.Format(time.RFC822),
					colorStatus(e.Status),
					fmt.Sprintf("%t", e.Upcoming(time.Now())),
				})
				count++
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	table.Render()
	return nil
}

func printAuditLog(db *badger.DB, limit int) error {
	records, err := sink.ReadAuditLog(db, limit)
	if err != nil {
		return err
	}
	table := newTable([]string{"At", "Event ID", "Title", "From", "To"})
	for _, record := range records {
		table.Append([]string{
			record.At.Format(time.RFC822),
			record.EventID.String()[:8],
			record.Title,
			colorStatus(record.OldStatus),
			colorStatus(record.NewStatus),
		})
	}
	table.Render()
	return nil
}

func newTable(headers []string) *tablewriter.Table {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(headers)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	return table
}

func colorStatus(status domain.EventStatus) string {
	switch status {
	case domain.StatusPublished:
		return color.Green.Sprint(status)
	case domain.StatusCancelled:
		return color.Red.Sprint(status)
	default:
		return color.Yellow.Sprint(status)
	}
}
