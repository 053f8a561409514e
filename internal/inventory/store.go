package inventory

import (
	"context"
	"errors"

	"github.com/BoostersSCM/barcode-inventory/internal/history"
)

var (
	// ErrStoreUnavailable indicates the backing store could not be
	// reached at all, as opposed to a failed operation against a
	// healthy store.
	ErrStoreUnavailable = errors.New("inventory store unavailable")

	ErrInvalidCode     = errors.New("invalid code")
	ErrInvalidCategory = errors.New("invalid category")
	ErrUnknownProduct  = errors.New("unknown product")
	ErrDuplicateItem   = errors.New("duplicate item in batch")
	ErrInvalidField    = errors.New("field not updatable")
	ErrRecordNotFound  = errors.New("record not found")
)

// UpdatableFields names the record fields an admin correction may
// change. Serial, status and the movement timestamps are off limits;
// those only move through Insert and Ship.
var UpdatableFields = map[string]bool{
	"lot":              true,
	"expiry_date":      true,
	"disposal_date":    true,
	"version":          true,
	"storage_location": true,
}

// ShipOutcome is the result of a shipment attempt against the store.
type ShipOutcome int

const (
	ShipOK ShipOutcome = iota
	ShipNotFound
	ShipAlreadyShipped
)

// Store persists stock records.
//
// Insert allocates the next serial number and writes the record in one
// step; implementations must guarantee no two concurrent inserts return
// the same serial. Ship transitions a record from in_stock to shipped
// at most once; implementations must guarantee a record already shipped
// reports ShipAlreadyShipped rather than silently updating again.
type Store interface {
	// Insert persists rec with a freshly allocated serial number and
	// returns that serial. rec.SerialNumber is ignored on input.
	Insert(ctx context.Context, rec *Record) (int64, error)

	// FindBySerial looks up a record by serial. The serial is accepted
	// as a string so scanned input needs no prior coercion; a value
	// that does not parse as a serial yields (nil, nil), as does a
	// serial with no record.
	FindBySerial(ctx context.Context, serial string) (*Record, error)

	// GetAll returns every record ordered by serial number.
	GetAll(ctx context.Context) ([]Record, error)

	// Ship marks the record as shipped with the given handler and
	// timestamp, only if it is currently in stock.
	Ship(ctx context.Context, serial int64, handler, shippedAt string) (ShipOutcome, error)

	// UpdateFields applies an admin correction to the named fields.
	// Fields outside UpdatableFields yield ErrInvalidField; an unknown
	// serial yields ErrRecordNotFound.
	UpdateFields(ctx context.Context, serial int64, fields map[string]string) error

	// Delete removes the given records. Unknown serials are ignored.
	Delete(ctx context.Context, serials []int64) error
}

// HistoryStore persists the movement log.
type HistoryStore interface {
	Append(ctx context.Context, ev history.Event) error
	List(ctx context.Context) ([]history.Event, error)
}
