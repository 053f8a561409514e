package inventory

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/BoostersSCM/barcode-inventory/internal/catalog"
	"github.com/BoostersSCM/barcode-inventory/internal/history"
)

// ShipStatus is the per-item outcome of an outbound attempt.
type ShipStatus string

const (
	// ShipStatusShipped means a serial-tracked record transitioned to
	// shipped and a log entry was appended.
	ShipStatusShipped ShipStatus = "shipped"

	// ShipStatusRecorded means a product-level scan was appended to
	// the log without touching any record.
	ShipStatusRecorded ShipStatus = "recorded"

	// ShipStatusReady is only returned by Lookup: the code resolved to
	// something a commit would accept.
	ShipStatusReady ShipStatus = "ready"

	ShipStatusNotFound       ShipStatus = "not_found"
	ShipStatusAlreadyShipped ShipStatus = "already_shipped"
)

// ShipResult reports what happened to one scanned identifier.
type ShipResult struct {
	Identifier   string     `json:"identifier"`
	Status       ShipStatus `json:"status"`
	SerialNumber int64      `json:"serial_number,omitempty"`
	ProductCode  string     `json:"product_code,omitempty"`
	ProductName  string     `json:"product_name,omitempty"`
	Quantity     int        `json:"quantity"`
}

// BatchItem is one queued scan.
type BatchItem struct {
	Identifier string `json:"identifier"`
	Quantity   int    `json:"quantity"`
}

// Batch is an explicit scan queue built up before committing an
// outbound run. It belongs to one request; nothing about it is shared
// or ambient. Add rejects malformed codes and duplicates at queue time
// so a double scan never reaches the store.
type Batch struct {
	items []BatchItem
	seen  map[string]struct{}
}

// NewBatch returns an empty scan queue.
func NewBatch() *Batch {
	return &Batch{seen: make(map[string]struct{})}
}

// Add queues one scanned identifier. Serial scans always ship one unit;
// product barcode scans carry the operator-entered quantity, defaulting
// to one when qty is not positive.
func (b *Batch) Add(identifier string, qty int) error {
	identifier = strings.TrimSpace(identifier)
	if ClassifyIdentifier(identifier) == KindInvalid {
		return fmt.Errorf("%w: %q", ErrInvalidCode, identifier)
	}
	if _, ok := b.seen[identifier]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateItem, identifier)
	}
	if qty < 1 {
		qty = 1
	}
	b.seen[identifier] = struct{}{}
	b.items = append(b.items, BatchItem{Identifier: identifier, Quantity: qty})
	return nil
}

// Items returns the queued scans in scan order.
func (b *Batch) Items() []BatchItem {
	return b.items
}

// Len returns the number of queued scans.
func (b *Batch) Len() int {
	return len(b.items)
}

// Outbound processes shipments. A scanned code is dispatched by format:
// serial numbers drive the record state machine, product barcodes are
// logged as product-level movements.
type Outbound struct {
	store   Store
	history HistoryStore
	catalog catalog.Store
	now     func() time.Time
	loc     *time.Location
}

// NewOutbound creates an outbound service over the given stores.
func NewOutbound(store Store, historyStore HistoryStore, catalogStore catalog.Store) *Outbound {
	return &Outbound{
		store:   store,
		history: historyStore,
		catalog: catalogStore,
		now:     time.Now,
		loc:     DefaultLocation(),
	}
}

// Lookup resolves a scanned identifier without shipping anything. It
// backs the scan pre-check: the operator sees what a code refers to
// before queueing it.
func (s *Outbound) Lookup(ctx context.Context, identifier string) (*ShipResult, error) {
	identifier = strings.TrimSpace(identifier)
	switch ClassifyIdentifier(identifier) {
	case KindSerial:
		rec, err := s.store.FindBySerial(ctx, identifier)
		if err != nil {
			return nil, fmt.Errorf("find serial %s: %w", identifier, err)
		}
		if rec == nil {
			return &ShipResult{Identifier: identifier, Status: ShipStatusNotFound}, nil
		}
		res := &ShipResult{
			Identifier:   identifier,
			SerialNumber: rec.SerialNumber,
			ProductCode:  rec.ProductCode,
			ProductName:  rec.ProductName,
			Quantity:     1,
			Status:       ShipStatusReady,
		}
		if rec.Status == StatusShipped {
			res.Status = ShipStatusAlreadyShipped
		}
		return res, nil
	case KindProductBarcode:
		product, err := s.catalog.FindByBarcode(ctx, identifier)
		if err != nil {
			return nil, fmt.Errorf("find barcode %s: %w", identifier, err)
		}
		if product == nil {
			return &ShipResult{Identifier: identifier, Status: ShipStatusNotFound}, nil
		}
		return &ShipResult{
			Identifier:  identifier,
			ProductCode: product.Code,
			ProductName: product.Name,
			Quantity:    1,
			Status:      ShipStatusReady,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidCode, identifier)
	}
}

// Ship processes a single scanned identifier. Serial scans ship exactly
// one unit regardless of qty; product barcode scans log qty units. The
// movement log is appended only for shipped and recorded outcomes.
func (s *Outbound) Ship(ctx context.Context, identifier, handler string, qty int) (*ShipResult, error) {
	identifier = strings.TrimSpace(identifier)
	if qty < 1 {
		qty = 1
	}
	switch ClassifyIdentifier(identifier) {
	case KindSerial:
		return s.shipSerial(ctx, identifier, handler)
	case KindProductBarcode:
		return s.shipProduct(ctx, identifier, handler, qty)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidCode, identifier)
	}
}

func (s *Outbound) shipSerial(ctx context.Context, identifier, handler string) (*ShipResult, error) {
	serial, err := strconv.ParseInt(identifier, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCode, identifier)
	}

	// Resolve the product fields before the transition; the log entry
	// must never carry blanks because a read failed after the update
	// already landed.
	rec, err := s.store.FindBySerial(ctx, identifier)
	if err != nil {
		return nil, fmt.Errorf("find serial %d: %w", serial, err)
	}
	res := &ShipResult{Identifier: identifier, SerialNumber: serial, Quantity: 1}
	if rec == nil {
		res.Status = ShipStatusNotFound
		return res, nil
	}
	res.ProductCode = rec.ProductCode
	res.ProductName = rec.ProductName

	now := s.now().In(s.loc)
	shippedAt := now.Format(TimestampLayout)

	outcome, err := s.store.Ship(ctx, serial, handler, shippedAt)
	if err != nil {
		return nil, fmt.Errorf("ship serial %d: %w", serial, err)
	}

	switch outcome {
	case ShipNotFound:
		res.Status = ShipStatusNotFound
		return res, nil
	case ShipAlreadyShipped:
		res.Status = ShipStatusAlreadyShipped
		return res, nil
	}

	res.Status = ShipStatusShipped
	ev := history.Event{
		ID:           uuid.New().String(),
		Timestamp:    shippedAt,
		Type:         history.TypeOutbound,
		SerialNumber: serial,
		ProductCode:  res.ProductCode,
		ProductName:  res.ProductName,
		Quantity:     1,
		Handler:      handler,
	}
	if err := s.history.Append(ctx, ev); err != nil {
		return res, fmt.Errorf("append history for serial %d: %w", serial, err)
	}
	return res, nil
}

func (s *Outbound) shipProduct(ctx context.Context, barcode, handler string, qty int) (*ShipResult, error) {
	product, err := s.catalog.FindByBarcode(ctx, barcode)
	if err != nil {
		return nil, fmt.Errorf("find barcode %s: %w", barcode, err)
	}
	if product == nil {
		return &ShipResult{Identifier: barcode, Status: ShipStatusNotFound, Quantity: qty}, nil
	}

	now := s.now().In(s.loc)
	ev := history.Event{
		ID:           uuid.New().String(),
		Timestamp:    now.Format(TimestampLayout),
		Type:         history.TypeOutbound,
		SerialNumber: history.SerialNone,
		ProductCode:  product.Code,
		ProductName:  product.Name,
		Quantity:     qty,
		Handler:      handler,
	}
	if err := s.history.Append(ctx, ev); err != nil {
		return nil, fmt.Errorf("append history for barcode %s: %w", barcode, err)
	}

	return &ShipResult{
		Identifier:  barcode,
		ProductCode: product.Code,
		ProductName: product.Name,
		Quantity:    qty,
		Status:      ShipStatusRecorded,
	}, nil
}

// Commit processes every queued scan in order. Per-item failures are
// reflected in the results; a store or log error aborts the run and
// returns the results accumulated so far.
func (s *Outbound) Commit(ctx context.Context, batch *Batch, handler string) ([]ShipResult, error) {
	results := make([]ShipResult, 0, batch.Len())
	for _, item := range batch.Items() {
		res, err := s.Ship(ctx, item.Identifier, handler, item.Quantity)
		if err != nil {
			return results, err
		}
		results = append(results, *res)
	}
	return results, nil
}
