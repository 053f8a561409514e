package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/BoostersSCM/barcode-inventory/internal/api/middleware"
	"github.com/BoostersSCM/barcode-inventory/internal/catalog"
	"github.com/BoostersSCM/barcode-inventory/internal/inventory"
	"github.com/BoostersSCM/barcode-inventory/internal/label"
	"github.com/BoostersSCM/barcode-inventory/internal/location"
	"github.com/BoostersSCM/barcode-inventory/internal/query"
)

type Handlers struct {
	inbound      *inventory.Inbound
	outbound     *inventory.Outbound
	queryHandler *query.Handler
	store        inventory.Store
	catalog      catalog.Store
	zones        location.Store
}

func NewHandlers(inbound *inventory.Inbound, outbound *inventory.Outbound, queryHandler *query.Handler, store inventory.Store, catalogStore catalog.Store, zoneStore location.Store) *Handlers {
	return &Handlers{
		inbound:      inbound,
		outbound:     outbound,
		queryHandler: queryHandler,
		store:        store,
		catalog:      catalogStore,
		zones:        zoneStore,
	}
}

// Inbound Handlers

type inboundRequest struct {
	Category        string `json:"category"`
	ProductCode     string `json:"product_code"`
	Lot             string `json:"lot"`
	ExpiryDate      string `json:"expiry_date"`
	Version         string `json:"version"`
	StorageLocation string `json:"storage_location"`
	Handler         string `json:"handler"`
}

func (h *Handlers) RegisterInbound(w http.ResponseWriter, r *http.Request) {
	var req inboundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var expiry time.Time
	if inventory.Category(req.Category) != inventory.CategorySample {
		var err error
		expiry, err = time.Parse(inventory.DateLayout, req.ExpiryDate)
		if err != nil {
			respondJSONError(w, "expiry_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
	}

	rec, err := h.inbound.Register(r.Context(), inventory.InboundRequest{
		Category:        inventory.Category(req.Category),
		ProductCode:     req.ProductCode,
		Lot:             req.Lot,
		ExpiryDate:      expiry,
		Version:         req.Version,
		StorageLocation: req.StorageLocation,
		Handler:         handlerName(r, req.Handler),
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, rec)
}

// GetLabel renders the Code 128 label PNG for a record.
func (h *Handlers) GetLabel(w http.ResponseWriter, r *http.Request) {
	serial := extractPathParam(r.URL.Path, "/labels/")
	serial = strings.TrimSuffix(serial, ".png")

	rec, err := h.store.FindBySerial(r.Context(), serial)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if rec == nil {
		respondJSONError(w, "Record not found", http.StatusNotFound)
		return
	}

	img, err := label.Render(rec)
	if err != nil {
		respondJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(img)
}

// Outbound Handlers

type outboundItem struct {
	Identifier string `json:"identifier"`
	Quantity   int    `json:"quantity"`
}

type outboundRequest struct {
	Items   []outboundItem `json:"items"`
	Handler string         `json:"handler"`
}

type rejectedItem struct {
	Identifier string `json:"identifier"`
	Reason     string `json:"reason"`
}

type outboundResponse struct {
	Results  []inventory.ShipResult `json:"results"`
	Rejected []rejectedItem         `json:"rejected,omitempty"`
}

// CommitOutbound queues the scanned items into a batch and commits it.
// Malformed codes and duplicate scans never reach the store; they come
// back in the rejected list.
func (h *Handlers) CommitOutbound(w http.ResponseWriter, r *http.Request) {
	var req outboundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Items) == 0 {
		respondJSONError(w, "No items to ship", http.StatusBadRequest)
		return
	}

	batch := inventory.NewBatch()
	var rejected []rejectedItem
	for _, item := range req.Items {
		if err := batch.Add(item.Identifier, item.Quantity); err != nil {
			reason := "INVALID_CODE"
			if errors.Is(err, inventory.ErrDuplicateItem) {
				reason = "DUPLICATE"
			}
			rejected = append(rejected, rejectedItem{Identifier: item.Identifier, Reason: reason})
		}
	}

	results, err := h.outbound.Commit(r.Context(), batch, handlerName(r, req.Handler))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, outboundResponse{Results: results, Rejected: rejected})
}

// ScanOutbound is the pre-check: it resolves one scanned code so the
// operator sees what it refers to before committing.
func (h *Handlers) ScanOutbound(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Identifier string `json:"identifier"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	res, err := h.outbound.Lookup(r.Context(), req.Identifier)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

// Inventory Handlers

func (h *Handlers) ListInventory(w http.ResponseWriter, r *http.Request) {
	status := inventory.Status(r.URL.Query().Get("status"))
	records, err := h.queryHandler.ListInventory(r.Context(), status)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, records)
}

func (h *Handlers) GetRecord(w http.ResponseWriter, r *http.Request) {
	serial := extractPathParam(r.URL.Path, "/inventory/")
	rec, err := h.queryHandler.GetRecord(r.Context(), serial)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if rec == nil {
		respondJSONError(w, "Record not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

// UpdateRecord applies an admin correction to a record's descriptive
// fields (lot, dates, version, storage location). Serial, status and
// the movement timestamps cannot be edited this way.
func (h *Handlers) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	serial := extractPathParam(r.URL.Path, "/inventory/")
	n, err := strconv.ParseInt(serial, 10, 64)
	if err != nil {
		respondJSONError(w, "Invalid serial number", http.StatusBadRequest)
		return
	}

	var req struct {
		Fields map[string]string `json:"fields"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Fields) == 0 {
		respondJSONError(w, "No fields given", http.StatusBadRequest)
		return
	}

	if err := h.store.UpdateFields(r.Context(), n, req.Fields); err != nil {
		respondDomainError(w, err)
		return
	}

	rec, err := h.store.FindBySerial(r.Context(), serial)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

// DeleteRecords removes records by serial. Admin-only maintenance for
// mistaken registrations.
func (h *Handlers) DeleteRecords(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Serials []int64 `json:"serials"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Serials) == 0 {
		respondJSONError(w, "No serials given", http.StatusBadRequest)
		return
	}

	if err := h.store.Delete(r.Context(), req.Serials); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Records deleted"})
}

func (h *Handlers) GetHistory(w http.ResponseWriter, r *http.Request) {
	events, err := h.queryHandler.ListHistory(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, events)
}

// Dashboard Handlers

func (h *Handlers) GetStockSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.queryHandler.StockSummary(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (h *Handlers) GetDisposalDue(w http.ResponseWriter, r *http.Request) {
	by := r.URL.Query().Get("by")
	if by == "" {
		by = time.Now().In(inventory.DefaultLocation()).Format(inventory.DateLayout)
	}
	due, err := h.queryHandler.DisposalDue(r.Context(), by)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, due)
}

// Catalog Handlers

func (h *Handlers) GetProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.List(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

// Location Handlers

func (h *Handlers) GetLocations(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.zones.Load(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"zones":   cfg.List(),
		"options": cfg.AllOptions(),
	})
}

func (h *Handlers) GetZones(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.zones.Load(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cfg.List())
}

func (h *Handlers) CreateZone(w http.ResponseWriter, r *http.Request) {
	var zone location.Zone
	if err := json.NewDecoder(r.Body).Decode(&zone); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	cfg, err := h.zones.Load(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if err := cfg.Add(zone); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, location.ErrDuplicateZone) {
			status = http.StatusConflict
		}
		respondJSONError(w, err.Error(), status)
		return
	}
	if err := h.zones.Save(r.Context(), cfg); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, zone)
}

func (h *Handlers) DeleteZone(w http.ResponseWriter, r *http.Request) {
	code := extractPathParam(r.URL.Path, "/zones/")

	cfg, err := h.zones.Load(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if err := cfg.Remove(code); err != nil {
		respondJSONError(w, err.Error(), http.StatusNotFound)
		return
	}
	if err := h.zones.Save(r.Context(), cfg); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Zone deleted"})
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func extractPathParam(path, prefix string) string {
	return strings.TrimPrefix(path, prefix)
}

// respondDomainError maps domain errors onto HTTP statuses and the
// error codes the scan UI shows.
func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, inventory.ErrInvalidCode):
		respondJSONCode(w, "INVALID_CODE", err.Error(), http.StatusBadRequest)
	case errors.Is(err, inventory.ErrInvalidCategory):
		respondJSONCode(w, "INVALID_CATEGORY", err.Error(), http.StatusBadRequest)
	case errors.Is(err, inventory.ErrUnknownProduct):
		respondJSONCode(w, "UNKNOWN_PRODUCT", err.Error(), http.StatusNotFound)
	case errors.Is(err, inventory.ErrDuplicateItem):
		respondJSONCode(w, "DUPLICATE", err.Error(), http.StatusConflict)
	case errors.Is(err, inventory.ErrInvalidField):
		respondJSONCode(w, "INVALID_FIELD", err.Error(), http.StatusBadRequest)
	case errors.Is(err, inventory.ErrRecordNotFound):
		respondJSONCode(w, "NOT_FOUND", err.Error(), http.StatusNotFound)
	case errors.Is(err, inventory.ErrStoreUnavailable):
		respondJSONCode(w, "STORE_UNAVAILABLE", err.Error(), http.StatusServiceUnavailable)
	default:
		respondJSONCode(w, "ERROR", err.Error(), http.StatusInternalServerError)
	}
}

func respondJSONCode(w http.ResponseWriter, code, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"code": code, "error": message})
}

// handlerName resolves who performed an operation: the explicit value
// from the request body wins, otherwise the logged-in operator's name.
func handlerName(r *http.Request, explicit string) string {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		return explicit
	}
	if claims, ok := middleware.GetUserFromContext(r.Context()); ok {
		if claims.Name != "" {
			return claims.Name
		}
		return claims.Email
	}
	return ""
}
