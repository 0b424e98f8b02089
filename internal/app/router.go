package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/varejo-erp/varejo/internal/platform/httpx"
)

// Mounter is implemented by domain handlers that attach their routes to a
// subrouter.
type Mounter interface {
	MountRoutes(chi.Router)
}

// RouterConfig collects everything the HTTP router needs.
type RouterConfig struct {
	Logger    *slog.Logger
	Config    *Config
	Products  Mounter
	Suppliers Mounter
	Customers Mounter
	Sales     Mounter
	Returns   Mounter
	Dashboard Mounter
	Health    func(r *http.Request) error
}

// NewRouter assembles the full HTTP surface.
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()
	for _, mw := range MiddlewareStack(MiddlewareConfig{Logger: cfg.Logger, Config: cfg.Config}) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if cfg.Health != nil {
			if err := cfg.Health(req); err != nil {
				cfg.Logger.Warn("health check failed", slog.Any("error", err))
				httpx.Problem(w, http.StatusServiceUnavailable, "Unavailable", "")
				return
			}
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mount := func(pattern string, m Mounter) {
		if m == nil {
			return
		}
		r.Route(pattern, m.MountRoutes)
	}
	mount("/products", cfg.Products)
	mount("/suppliers", cfg.Suppliers)
	mount("/customers", cfg.Customers)
	mount("/sales", cfg.Sales)
	mount("/returns", cfg.Returns)
	mount("/dashboard", cfg.Dashboard)

	return r
}
