package store

import (
	"context"
	"database/sql"
	"log"

	"github.com/BoostersSCM/barcode-inventory/internal/history"
	"github.com/BoostersSCM/barcode-inventory/internal/infrastructure/kafka"
)

// PostgresHistoryStore appends movement log entries to PostgreSQL and
// publishes each appended entry to Kafka for downstream consumers.
type PostgresHistoryStore struct {
	db       *sql.DB
	producer *kafka.Producer
}

// NewPostgresHistoryStore creates a history store. producer may be nil
// when no broker is configured; entries are then only persisted.
func NewPostgresHistoryStore(db *sql.DB, producer *kafka.Producer) *PostgresHistoryStore {
	return &PostgresHistoryStore{
		db:       db,
		producer: producer,
	}
}

// Append persists the entry and publishes it. The publish is best
// effort: a broker outage must not lose warehouse movements, so a
// failed publish is logged and the append still succeeds.
func (s *PostgresHistoryStore) Append(ctx context.Context, ev history.Event) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO inout_history (id, ts, type, serial_number, product_code, product_name, quantity, handler)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		ev.ID,
		ev.Timestamp,
		ev.Type,
		ev.SerialNumber,
		ev.ProductCode,
		ev.ProductName,
		ev.Quantity,
		ev.Handler,
	)
	if err != nil {
		return storeErr(err)
	}

	if s.producer != nil {
		if err := s.producer.Publish(ctx, ev.ID, ev); err != nil {
			log.Printf("[PostgresHistoryStore] Failed to publish event %s: %v", ev.ID, err)
		}
	}
	return nil
}

// List returns the full movement log, newest first. Ordering is by the
// insertion sequence, not created_at alone: a committed batch lands
// several rows in the same instant and their relative order must not
// flap between reads.
func (s *PostgresHistoryStore) List(ctx context.Context) ([]history.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, ts, type, serial_number, product_code, product_name, quantity, handler
		 FROM inout_history
		 ORDER BY seq DESC`)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()

	var events []history.Event
	for rows.Next() {
		var ev history.Event
		if err := rows.Scan(&ev.ID, &ev.Timestamp, &ev.Type, &ev.SerialNumber,
			&ev.ProductCode, &ev.ProductName, &ev.Quantity, &ev.Handler); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}
