package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BoostersSCM/barcode-inventory/internal/history"
	"github.com/BoostersSCM/barcode-inventory/internal/infrastructure/store"
	"github.com/BoostersSCM/barcode-inventory/internal/inventory"
)

func newTestQueryHandler(t *testing.T) (*Handler, *store.MemoryInventoryStore, *store.MemoryHistoryStore) {
	t.Helper()
	invStore := store.NewMemoryInventoryStore()
	histStore := store.NewMemoryHistoryStore()
	handler := NewHandler(invStore, histStore)
	return handler, invStore, histStore
}

func seed(t *testing.T, invStore *store.MemoryInventoryStore, code, name string, status inventory.Status, disposal string) int64 {
	t.Helper()
	serial, err := invStore.Insert(context.Background(), &inventory.Record{
		Category:     inventory.CategoryManaged,
		ProductCode:  code,
		ProductName:  name,
		DisposalDate: disposal,
		Status:       inventory.StatusInStock,
	})
	require.NoError(t, err)
	if status == inventory.StatusShipped {
		_, err := invStore.Ship(context.Background(), serial, "Lee", "2026-08-29 10:00:00")
		require.NoError(t, err)
	}
	return serial
}

// ============================================
// Inventory Listing Tests
// ============================================

func TestHandler_ListInventory_All(t *testing.T) {
	handler, invStore, _ := newTestQueryHandler(t)
	seed(t, invStore, "P-100", "Collagen Powder", inventory.StatusInStock, "2028-01-15")
	seed(t, invStore, "P-100", "Collagen Powder", inventory.StatusShipped, "2028-01-15")

	records, err := handler.ListInventory(context.Background(), "")

	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestHandler_ListInventory_FilterByStatus(t *testing.T) {
	handler, invStore, _ := newTestQueryHandler(t)
	inStock := seed(t, invStore, "P-100", "Collagen Powder", inventory.StatusInStock, "2028-01-15")
	seed(t, invStore, "P-100", "Collagen Powder", inventory.StatusShipped, "2028-01-15")

	records, err := handler.ListInventory(context.Background(), inventory.StatusInStock)

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, inStock, records[0].SerialNumber)
}

func TestHandler_GetRecord(t *testing.T) {
	handler, invStore, _ := newTestQueryHandler(t)
	seed(t, invStore, "P-100", "Collagen Powder", inventory.StatusInStock, "2028-01-15")

	rec, err := handler.GetRecord(context.Background(), "1")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "P-100", rec.ProductCode)

	rec, err = handler.GetRecord(context.Background(), "99")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

// ============================================
// History Tests
// ============================================

func TestHandler_ListHistory_NewestFirst(t *testing.T) {
	handler, _, histStore := newTestQueryHandler(t)
	ctx := context.Background()

	require.NoError(t, histStore.Append(ctx, history.Event{ID: "first", Type: history.TypeInbound}))
	require.NoError(t, histStore.Append(ctx, history.Event{ID: "second", Type: history.TypeOutbound}))

	events, err := handler.ListHistory(ctx)

	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "second", events[0].ID)
	assert.Equal(t, "first", events[1].ID)
}

// ============================================
// Dashboard Tests
// ============================================

func TestHandler_StockSummary(t *testing.T) {
	handler, invStore, _ := newTestQueryHandler(t)
	seed(t, invStore, "P-100", "Collagen Powder", inventory.StatusInStock, "2028-01-15")
	seed(t, invStore, "P-100", "Collagen Powder", inventory.StatusShipped, "2028-01-15")
	seed(t, invStore, "P-200", "Vitamin C Serum", inventory.StatusInStock, "2027-06-01")

	summary, err := handler.StockSummary(context.Background())

	require.NoError(t, err)
	require.Len(t, summary, 2)

	assert.Equal(t, "P-100", summary[0].ProductCode)
	assert.Equal(t, 2, summary[0].Total)
	assert.Equal(t, 1, summary[0].InStock)
	assert.Equal(t, 1, summary[0].Shipped)

	assert.Equal(t, "P-200", summary[1].ProductCode)
	assert.Equal(t, 1, summary[1].InStock)
}

func TestHandler_DisposalDue(t *testing.T) {
	handler, invStore, _ := newTestQueryHandler(t)
	due := seed(t, invStore, "P-100", "Collagen Powder", inventory.StatusInStock, "2026-08-01")
	seed(t, invStore, "P-100", "Collagen Powder", inventory.StatusInStock, "2030-01-01")
	// Shipped records are out of scope even when overdue.
	seed(t, invStore, "P-100", "Collagen Powder", inventory.StatusShipped, "2026-08-01")
	// Samples have no disposal date.
	seed(t, invStore, "P-200", "Vitamin C Serum", inventory.StatusInStock, inventory.NotApplicable)

	records, err := handler.DisposalDue(context.Background(), "2026-08-30")

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, due, records[0].SerialNumber)
}
