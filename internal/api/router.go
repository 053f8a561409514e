package api

import (
	"net/http"
	"strings"

	"github.com/BoostersSCM/barcode-inventory/internal/api/middleware"
	"github.com/BoostersSCM/barcode-inventory/internal/auth"
)

// RouterConfig bundles what the router needs.
type RouterConfig struct {
	Handlers     *Handlers
	AuthHandlers *AuthHandlers
	JWTService   *auth.JWTService
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	requireAuth := middleware.AuthMiddleware(cfg.JWTService)
	requireAdmin := func(next http.Handler) http.Handler {
		return requireAuth(middleware.RequireRole(auth.RoleAdmin)(next))
	}

	// Auth
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		cfg.AuthHandlers.Login(w, r)
	})
	mux.HandleFunc("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		cfg.AuthHandlers.Logout(w, r)
	})
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		cfg.AuthHandlers.Refresh(w, r)
	})
	mux.Handle("/auth/me", requireAuth(http.HandlerFunc(cfg.AuthHandlers.Me)))
	mux.Handle("/auth/register", requireAdmin(methodHandler(http.MethodPost, cfg.AuthHandlers.Register)))

	// Inbound
	mux.Handle("/inbound", requireAuth(methodHandler(http.MethodPost, cfg.Handlers.RegisterInbound)))
	mux.Handle("/labels/", requireAuth(methodHandler(http.MethodGet, cfg.Handlers.GetLabel)))

	// Outbound
	mux.Handle("/outbound", requireAuth(methodHandler(http.MethodPost, cfg.Handlers.CommitOutbound)))
	mux.Handle("/outbound/scan", requireAuth(methodHandler(http.MethodPost, cfg.Handlers.ScanOutbound)))

	// Inventory
	mux.Handle("/inventory", requireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			cfg.Handlers.ListInventory(w, r)
		case http.MethodDelete:
			middleware.RequireRole(auth.RoleAdmin)(http.HandlerFunc(cfg.Handlers.DeleteRecords)).ServeHTTP(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})))
	mux.Handle("/inventory/", requireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			cfg.Handlers.GetRecord(w, r)
		case http.MethodPatch:
			middleware.RequireRole(auth.RoleAdmin)(http.HandlerFunc(cfg.Handlers.UpdateRecord)).ServeHTTP(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})))
	mux.Handle("/history", requireAuth(methodHandler(http.MethodGet, cfg.Handlers.GetHistory)))

	// Dashboard
	mux.Handle("/stock/summary", requireAuth(methodHandler(http.MethodGet, cfg.Handlers.GetStockSummary)))
	mux.Handle("/disposal/due", requireAuth(methodHandler(http.MethodGet, cfg.Handlers.GetDisposalDue)))

	// Catalog
	mux.Handle("/products", requireAuth(methodHandler(http.MethodGet, cfg.Handlers.GetProducts)))

	// Locations
	mux.Handle("/locations", requireAuth(methodHandler(http.MethodGet, cfg.Handlers.GetLocations)))
	mux.Handle("/zones", requireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			cfg.Handlers.GetZones(w, r)
		case http.MethodPost:
			middleware.RequireRole(auth.RoleAdmin)(http.HandlerFunc(cfg.Handlers.CreateZone)).ServeHTTP(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})))
	mux.Handle("/zones/", requireAdmin(methodHandler(http.MethodDelete, cfg.Handlers.DeleteZone)))

	// Health
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return withLogging(mux)
}

func methodHandler(method string, fn http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		fn(w, r)
	})
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/health") {
			println("[API]", r.Method, r.URL.Path)
		}
		next.ServeHTTP(w, r)
	})
}
