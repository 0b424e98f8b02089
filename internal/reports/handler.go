package reports

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/varejo-erp/varejo/internal/platform/httpx"
)

// Handler exposes the dashboard HTTP surface.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers the dashboard routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/stats", h.MainStats)
	r.Get("/critical-products", h.CriticalProducts)
	r.Get("/top-products", h.TopProducts)
	r.Get("/birthdays", h.UpcomingBirthdays)
	r.Get("/recent-sales", h.RecentSales)
}

func (h *Handler) MainStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.MainStats(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, stats)
}

func (h *Handler) CriticalProducts(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.CriticalProducts(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) TopProducts(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.TopProducts(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) UpcomingBirthdays(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.UpcomingBirthdays(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) RecentSales(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.RecentSales(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	h.logger.Error("dashboard request failed", slog.Any("error", err))
	httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
}
