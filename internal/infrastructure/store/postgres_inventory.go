package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/lib/pq"

	"github.com/BoostersSCM/barcode-inventory/internal/inventory"
)

// serialInsertRetries bounds how often a racing insert is retried
// before giving up.
const serialInsertRetries = 3

// PostgresInventoryStore stores stock records in PostgreSQL
type PostgresInventoryStore struct {
	db *sql.DB
}

func NewPostgresInventoryStore(db *sql.DB) *PostgresInventoryStore {
	return &PostgresInventoryStore{db: db}
}

// Insert allocates the next serial and writes the record in a single
// statement. The serial comes from a MAX+1 subselect; when two inserts
// race, the loser hits the primary key and retries with a fresh value.
func (s *PostgresInventoryStore) Insert(ctx context.Context, rec *inventory.Record) (int64, error) {
	var lastErr error
	for attempt := 0; attempt < serialInsertRetries; attempt++ {
		var serial int64
		err := s.db.QueryRowContext(ctx,
			`INSERT INTO inventory_status (
				serial_number, category, product_code, product_name, lot,
				expiry_date, disposal_date, storage_location, version,
				inbound_at, status, outbound_at, outbound_handler
			)
			SELECT COALESCE(MAX(serial_number), 0) + 1, $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, '', ''
			FROM inventory_status
			RETURNING serial_number`,
			rec.Category,
			rec.ProductCode,
			rec.ProductName,
			rec.Lot,
			rec.ExpiryDate,
			rec.DisposalDate,
			rec.StorageLocation,
			rec.Version,
			rec.InboundAt,
			rec.Status,
		).Scan(&serial)
		if err == nil {
			return serial, nil
		}
		if !isUniqueViolation(err) {
			return 0, storeErr(err)
		}
		lastErr = err
	}
	return 0, fmt.Errorf("serial allocation kept colliding: %w", lastErr)
}

func (s *PostgresInventoryStore) FindBySerial(ctx context.Context, serial string) (*inventory.Record, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(serial), 10, 64)
	if err != nil {
		return nil, nil
	}

	row := s.db.QueryRowContext(ctx,
		selectRecordColumns+` FROM inventory_status WHERE serial_number = $1`, n)
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr(err)
	}
	return rec, nil
}

func (s *PostgresInventoryStore) GetAll(ctx context.Context) ([]inventory.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		selectRecordColumns+` FROM inventory_status ORDER BY serial_number ASC`)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()

	var records []inventory.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// Ship flips the record to shipped only when it is still in stock. Zero
// affected rows means either the record does not exist or it was
// already shipped; a follow-up probe tells the two apart.
func (s *PostgresInventoryStore) Ship(ctx context.Context, serial int64, handler, shippedAt string) (inventory.ShipOutcome, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE inventory_status
		 SET status = $1, outbound_at = $2, outbound_handler = $3
		 WHERE serial_number = $4 AND status = $5`,
		inventory.StatusShipped, shippedAt, handler, serial, inventory.StatusInStock,
	)
	if err != nil {
		return 0, storeErr(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if affected > 0 {
		return inventory.ShipOK, nil
	}

	var status string
	err = s.db.QueryRowContext(ctx,
		`SELECT status FROM inventory_status WHERE serial_number = $1`, serial,
	).Scan(&status)
	if err == sql.ErrNoRows {
		return inventory.ShipNotFound, nil
	}
	if err != nil {
		return 0, storeErr(err)
	}
	return inventory.ShipAlreadyShipped, nil
}

// UpdateFields applies an admin correction. Column names come from the
// UpdatableFields whitelist, never from the caller, so building the SET
// clause by hand is safe.
func (s *PostgresInventoryStore) UpdateFields(ctx context.Context, serial int64, fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}

	columns := make([]string, 0, len(fields))
	for field := range fields {
		if !inventory.UpdatableFields[field] {
			return fmt.Errorf("%w: %s", inventory.ErrInvalidField, field)
		}
		columns = append(columns, field)
	}
	sort.Strings(columns)

	assignments := make([]string, 0, len(columns))
	args := make([]any, 0, len(columns)+1)
	for i, column := range columns {
		assignments = append(assignments, fmt.Sprintf("%s = $%d", column, i+1))
		args = append(args, fields[column])
	}
	args = append(args, serial)

	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE inventory_status SET %s WHERE serial_number = $%d`,
			strings.Join(assignments, ", "), len(columns)+1),
		args...,
	)
	if err != nil {
		return storeErr(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: serial %d", inventory.ErrRecordNotFound, serial)
	}
	return nil
}

func (s *PostgresInventoryStore) Delete(ctx context.Context, serials []int64) error {
	if len(serials) == 0 {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM inventory_status WHERE serial_number = ANY($1)`,
		pq.Array(serials),
	)
	return storeErr(err)
}

const selectRecordColumns = `SELECT serial_number, category, product_code, product_name, lot,
	expiry_date, disposal_date, storage_location, version,
	inbound_at, status, outbound_at, outbound_handler`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*inventory.Record, error) {
	var rec inventory.Record
	err := row.Scan(
		&rec.SerialNumber,
		&rec.Category,
		&rec.ProductCode,
		&rec.ProductName,
		&rec.Lot,
		&rec.ExpiryDate,
		&rec.DisposalDate,
		&rec.StorageLocation,
		&rec.Version,
		&rec.InboundAt,
		&rec.Status,
		&rec.OutboundAt,
		&rec.OutboundHandler,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
