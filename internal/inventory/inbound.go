package inventory

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/BoostersSCM/barcode-inventory/internal/catalog"
	"github.com/BoostersSCM/barcode-inventory/internal/history"
)

// InboundRequest is one unit to register. Quantity is always one: each
// registered unit gets its own serial number and label.
type InboundRequest struct {
	Category        Category  `json:"category"`
	ProductCode     string    `json:"product_code"`
	Lot             string    `json:"lot"`
	ExpiryDate      time.Time `json:"expiry_date"`
	Version         string    `json:"version"`
	StorageLocation string    `json:"storage_location"`
	Handler         string    `json:"handler"`
}

// Inbound registers new stock: it allocates a serial number, persists
// the record and appends an inbound entry to the movement log.
type Inbound struct {
	store   Store
	history HistoryStore
	catalog catalog.Store
	now     func() time.Time
	loc     *time.Location
}

// NewInbound creates an inbound service over the given stores.
func NewInbound(store Store, historyStore HistoryStore, catalogStore catalog.Store) *Inbound {
	return &Inbound{
		store:   store,
		history: historyStore,
		catalog: catalogStore,
		now:     time.Now,
		loc:     DefaultLocation(),
	}
}

// Register validates the request, resolves the product name from the
// catalog, allocates a serial and persists the record. The movement log
// entry is appended after the record is written; a log append failure
// does not roll the record back, it is reported so the operator can fix
// the log by hand.
func (s *Inbound) Register(ctx context.Context, req InboundRequest) (*Record, error) {
	if !req.Category.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, req.Category)
	}
	code := strings.TrimSpace(req.ProductCode)
	if code == "" {
		return nil, fmt.Errorf("product code is required")
	}
	if strings.TrimSpace(req.Handler) == "" {
		return nil, fmt.Errorf("handler is required")
	}

	product, err := s.catalog.FindByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("lookup product %s: %w", code, err)
	}
	if product == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProduct, code)
	}

	now := s.now().In(s.loc)
	rec := &Record{
		Category:        req.Category,
		ProductCode:     product.Code,
		ProductName:     product.Name,
		Lot:             strings.TrimSpace(req.Lot),
		ExpiryDate:      req.ExpiryDate.Format(DateLayout),
		DisposalDate:    DisposalDate(req.ExpiryDate),
		StorageLocation: strings.TrimSpace(req.StorageLocation),
		Version:         strings.TrimSpace(req.Version),
		InboundAt:       now.Format(TimestampLayout),
		Status:          StatusInStock,
	}

	// Sample stock tracks no lot or expiry; pin the sentinels so every
	// record carries the same versioned schema.
	if req.Category == CategorySample {
		rec.Lot = SampleLot
		rec.ExpiryDate = NotApplicable
		rec.DisposalDate = NotApplicable
		rec.Version = NotApplicable
	}

	serial, err := s.store.Insert(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("insert record: %w", err)
	}
	rec.SerialNumber = serial

	ev := history.Event{
		ID:           uuid.New().String(),
		Timestamp:    now.Format(TimestampLayout),
		Type:         history.TypeInbound,
		SerialNumber: serial,
		ProductCode:  rec.ProductCode,
		ProductName:  rec.ProductName,
		Quantity:     1,
		Handler:      strings.TrimSpace(req.Handler),
	}
	if err := s.history.Append(ctx, ev); err != nil {
		log.Printf("[Inbound] Record %d saved but history append failed: %v", serial, err)
		return rec, fmt.Errorf("append history for serial %d: %w", serial, err)
	}

	return rec, nil
}
