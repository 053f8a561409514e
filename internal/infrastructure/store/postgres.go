// Package store provides the persistence backends: PostgreSQL for
// production, Google Sheets for the legacy spreadsheet deployment and
// in-memory implementations for tests.
package store

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/lib/pq"

	"github.com/BoostersSCM/barcode-inventory/internal/inventory"
)

// uniqueViolation is the PostgreSQL error code for a unique constraint
// violation, raised when two inserts race for the same serial number.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == uniqueViolation
	}
	return false
}

// storeErr maps driver-level connectivity failures onto
// inventory.ErrStoreUnavailable, so a database that dies after startup
// still surfaces as unavailable rather than as a generic persistence
// error. Statement errors pass through unchanged.
func storeErr(err error) error {
	if err == nil {
		return nil
	}
	if isConnErr(err) {
		return fmt.Errorf("%w: %v", inventory.ErrStoreUnavailable, err)
	}
	return err
}

func isConnErr(err error) bool {
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// ConnectPostgres establishes a connection to PostgreSQL
func ConnectPostgres(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("%w: %v", inventory.ErrStoreUnavailable, err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

// EnsureSchema creates the tables the service needs if they do not
// exist yet.
func EnsureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS inventory_status (
			serial_number    BIGINT PRIMARY KEY,
			category         TEXT NOT NULL,
			product_code     TEXT NOT NULL,
			product_name     TEXT NOT NULL,
			lot              TEXT NOT NULL,
			expiry_date      TEXT NOT NULL,
			disposal_date    TEXT NOT NULL,
			storage_location TEXT NOT NULL,
			version          TEXT NOT NULL,
			inbound_at       TEXT NOT NULL,
			status           TEXT NOT NULL,
			outbound_at      TEXT NOT NULL DEFAULT '',
			outbound_handler TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS inout_history (
			seq           BIGSERIAL,
			id            TEXT PRIMARY KEY,
			ts            TEXT NOT NULL,
			type          TEXT NOT NULL,
			serial_number BIGINT NOT NULL,
			product_code  TEXT NOT NULL,
			product_name  TEXT NOT NULL,
			quantity      INTEGER NOT NULL,
			handler       TEXT NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			code    TEXT PRIMARY KEY,
			name    TEXT NOT NULL,
			barcode TEXT NOT NULL UNIQUE,
			active  BOOLEAN NOT NULL DEFAULT true
		)`,
		`CREATE TABLE IF NOT EXISTS zones (
			code    TEXT PRIMARY KEY,
			name    TEXT NOT NULL,
			rows    INTEGER NOT NULL,
			columns INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS operators (
			id            TEXT PRIMARY KEY,
			email         TEXT NOT NULL UNIQUE,
			name          TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			role          TEXT NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
