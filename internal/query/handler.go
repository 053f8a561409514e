// Package query serves the read side: inventory listings, the movement
// log and the dashboard summaries.
package query

import (
	"context"
	"fmt"

	"github.com/BoostersSCM/barcode-inventory/internal/history"
	"github.com/BoostersSCM/barcode-inventory/internal/inventory"
)

// Handler answers read queries against the stores.
type Handler struct {
	store   inventory.Store
	history inventory.HistoryStore
}

// NewHandler creates a new query handler
func NewHandler(store inventory.Store, historyStore inventory.HistoryStore) *Handler {
	return &Handler{
		store:   store,
		history: historyStore,
	}
}

// ListInventory returns all records, optionally filtered by status.
// An empty status returns everything.
func (h *Handler) ListInventory(ctx context.Context, status inventory.Status) ([]inventory.Record, error) {
	records, err := h.store.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	if status == "" {
		return records, nil
	}

	filtered := make([]inventory.Record, 0, len(records))
	for _, rec := range records {
		if rec.Status == status {
			filtered = append(filtered, rec)
		}
	}
	return filtered, nil
}

// GetRecord looks up one record by serial. Returns (nil, nil) when the
// serial has no record.
func (h *Handler) GetRecord(ctx context.Context, serial string) (*inventory.Record, error) {
	return h.store.FindBySerial(ctx, serial)
}

// ListHistory returns the movement log, newest first.
func (h *Handler) ListHistory(ctx context.Context) ([]history.Event, error) {
	return h.history.List(ctx)
}

// StockSummary aggregates per-product counts for the dashboard.
func (h *Handler) StockSummary(ctx context.Context) ([]ProductStock, error) {
	records, err := h.store.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("stock summary: %w", err)
	}

	byCode := make(map[string]*ProductStock)
	var order []string
	for _, rec := range records {
		ps, ok := byCode[rec.ProductCode]
		if !ok {
			ps = &ProductStock{ProductCode: rec.ProductCode, ProductName: rec.ProductName}
			byCode[rec.ProductCode] = ps
			order = append(order, rec.ProductCode)
		}
		ps.Total++
		if rec.Status == inventory.StatusInStock {
			ps.InStock++
		} else {
			ps.Shipped++
		}
	}

	summary := make([]ProductStock, 0, len(order))
	for _, code := range order {
		summary = append(summary, *byCode[code])
	}
	return summary, nil
}

// DisposalDue returns in-stock records whose disposal date is on or
// before the given date. Records without a disposal date (samples)
// never come due.
func (h *Handler) DisposalDue(ctx context.Context, by string) ([]inventory.Record, error) {
	records, err := h.store.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("disposal due: %w", err)
	}

	var due []inventory.Record
	for _, rec := range records {
		if rec.Status != inventory.StatusInStock {
			continue
		}
		if rec.DisposalDate == inventory.NotApplicable {
			continue
		}
		// Dates are ISO formatted, so string order is date order.
		if rec.DisposalDate <= by {
			due = append(due, rec)
		}
	}
	return due, nil
}
