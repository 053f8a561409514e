package store

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/BoostersSCM/barcode-inventory/internal/auth"
	"github.com/BoostersSCM/barcode-inventory/internal/catalog"
	"github.com/BoostersSCM/barcode-inventory/internal/history"
	"github.com/BoostersSCM/barcode-inventory/internal/inventory"
	"github.com/BoostersSCM/barcode-inventory/internal/location"
)

// MemoryInventoryStore keeps stock records in memory. It backs tests
// and local development without a database; serial allocation reuses
// the same scan-the-column rule as the spreadsheet backend.
type MemoryInventoryStore struct {
	mu      sync.Mutex
	records map[int64]*inventory.Record

	// InsertErr, when set, fails the next Insert. Tests use it to
	// exercise store failure paths.
	InsertErr error
	ShipErr   error
}

func NewMemoryInventoryStore() *MemoryInventoryStore {
	return &MemoryInventoryStore{records: make(map[int64]*inventory.Record)}
}

func (s *MemoryInventoryStore) Insert(_ context.Context, rec *inventory.Record) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.InsertErr != nil {
		err := s.InsertErr
		s.InsertErr = nil
		return 0, err
	}

	existing := make([]string, 0, len(s.records))
	for serial := range s.records {
		existing = append(existing, strconv.FormatInt(serial, 10))
	}
	serial := inventory.NextSerial(existing)

	stored := *rec
	stored.SerialNumber = serial
	s.records[serial] = &stored
	return serial, nil
}

func (s *MemoryInventoryStore) FindBySerial(_ context.Context, serial string) (*inventory.Record, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(serial), 10, 64)
	if err != nil {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[n]
	if !ok {
		return nil, nil
	}
	copied := *rec
	return &copied, nil
}

func (s *MemoryInventoryStore) GetAll(_ context.Context) ([]inventory.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	serials := make([]int64, 0, len(s.records))
	for serial := range s.records {
		serials = append(serials, serial)
	}
	sort.Slice(serials, func(i, j int) bool { return serials[i] < serials[j] })

	records := make([]inventory.Record, 0, len(serials))
	for _, serial := range serials {
		records = append(records, *s.records[serial])
	}
	return records, nil
}

func (s *MemoryInventoryStore) Ship(_ context.Context, serial int64, handler, shippedAt string) (inventory.ShipOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ShipErr != nil {
		err := s.ShipErr
		s.ShipErr = nil
		return 0, err
	}

	rec, ok := s.records[serial]
	if !ok {
		return inventory.ShipNotFound, nil
	}
	if rec.Status != inventory.StatusInStock {
		return inventory.ShipAlreadyShipped, nil
	}
	rec.Status = inventory.StatusShipped
	rec.OutboundAt = shippedAt
	rec.OutboundHandler = handler
	return inventory.ShipOK, nil
}

func (s *MemoryInventoryStore) UpdateFields(_ context.Context, serial int64, fields map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for field := range fields {
		if !inventory.UpdatableFields[field] {
			return fmt.Errorf("%w: %s", inventory.ErrInvalidField, field)
		}
	}
	rec, ok := s.records[serial]
	if !ok {
		return fmt.Errorf("%w: serial %d", inventory.ErrRecordNotFound, serial)
	}
	for field, value := range fields {
		switch field {
		case "lot":
			rec.Lot = value
		case "expiry_date":
			rec.ExpiryDate = value
		case "disposal_date":
			rec.DisposalDate = value
		case "version":
			rec.Version = value
		case "storage_location":
			rec.StorageLocation = value
		}
	}
	return nil
}

func (s *MemoryInventoryStore) Delete(_ context.Context, serials []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, serial := range serials {
		delete(s.records, serial)
	}
	return nil
}

// MemoryHistoryStore records movement log appends in memory. AppendErr
// injects a failure for the next Append.
type MemoryHistoryStore struct {
	mu        sync.Mutex
	events    []history.Event
	AppendErr error
}

func NewMemoryHistoryStore() *MemoryHistoryStore {
	return &MemoryHistoryStore{}
}

func (s *MemoryHistoryStore) Append(_ context.Context, ev history.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.AppendErr != nil {
		err := s.AppendErr
		s.AppendErr = nil
		return err
	}
	s.events = append(s.events, ev)
	return nil
}

// List returns the log newest first, matching the SQL-backed store.
func (s *MemoryHistoryStore) List(_ context.Context) ([]history.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := make([]history.Event, len(s.events))
	for i, ev := range s.events {
		events[len(s.events)-1-i] = ev
	}
	return events, nil
}

// MemoryCatalogStore serves a fixed product master from memory.
type MemoryCatalogStore struct {
	mu       sync.Mutex
	products []catalog.Product
}

func NewMemoryCatalogStore(products ...catalog.Product) *MemoryCatalogStore {
	return &MemoryCatalogStore{products: products}
}

func (s *MemoryCatalogStore) FindByCode(_ context.Context, code string) (*catalog.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.Code == code {
			copied := p
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *MemoryCatalogStore) FindByBarcode(_ context.Context, barcode string) (*catalog.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.Barcode == barcode {
			copied := p
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *MemoryCatalogStore) List(_ context.Context) ([]catalog.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]catalog.Product(nil), s.products...), nil
}

// MemoryUserStore keeps operator accounts in memory.
type MemoryUserStore struct {
	mu    sync.Mutex
	users map[string]*auth.User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[string]*auth.User)}
}

func (s *MemoryUserStore) GetByEmail(_ context.Context, email string) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *MemoryUserStore) GetByID(_ context.Context, id string) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (s *MemoryUserStore) Create(_ context.Context, user *auth.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *user
	s.users[user.ID] = &copied
	return nil
}

// MemoryZoneStore keeps the zone layout in memory.
type MemoryZoneStore struct {
	mu  sync.Mutex
	cfg *location.Config
}

func NewMemoryZoneStore() *MemoryZoneStore {
	return &MemoryZoneStore{cfg: location.NewConfig()}
}

func (s *MemoryZoneStore) Load(_ context.Context) (*location.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := location.NewConfig()
	for code, z := range s.cfg.Zones {
		cfg.Zones[code] = z
	}
	return cfg, nil
}

func (s *MemoryZoneStore) Save(_ context.Context, cfg *location.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := location.NewConfig()
	for code, z := range cfg.Zones {
		copied.Zones[code] = z
	}
	s.cfg = copied
	return nil
}
