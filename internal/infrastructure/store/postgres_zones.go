package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/BoostersSCM/barcode-inventory/internal/location"
)

// PostgresZoneStore persists the zone layout in PostgreSQL.
type PostgresZoneStore struct {
	db *sql.DB
}

func NewPostgresZoneStore(db *sql.DB) *PostgresZoneStore {
	return &PostgresZoneStore{db: db}
}

func (s *PostgresZoneStore) Load(ctx context.Context) (*location.Config, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT code, name, rows, columns FROM zones`)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()

	cfg := location.NewConfig()
	for rows.Next() {
		var z location.Zone
		if err := rows.Scan(&z.Code, &z.Name, &z.Rows, &z.Columns); err != nil {
			return nil, err
		}
		cfg.Zones[z.Code] = z
	}
	return cfg, rows.Err()
}

// Save writes the layout as a whole: present zones are upserted and
// zones missing from cfg are deleted, all in one transaction.
func (s *PostgresZoneStore) Save(ctx context.Context, cfg *location.Config) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr(err)
	}
	defer tx.Rollback()

	codes := make([]string, 0, len(cfg.Zones))
	for _, z := range cfg.List() {
		codes = append(codes, z.Code)
		_, err := tx.ExecContext(ctx,
			`INSERT INTO zones (code, name, rows, columns)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (code) DO UPDATE SET name = $2, rows = $3, columns = $4`,
			z.Code, z.Name, z.Rows, z.Columns,
		)
		if err != nil {
			return fmt.Errorf("upsert zone %s: %w", z.Code, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM zones WHERE NOT (code = ANY($1))`, pq.Array(codes),
	); err != nil {
		return fmt.Errorf("prune zones: %w", err)
	}

	return tx.Commit()
}
