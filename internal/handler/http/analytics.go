package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/okarpov/storecore/internal/service"
	apperrors "github.com/okarpov/storecore/pkg/errors"
	"github.com/okarpov/storecore/pkg/httputil"
)

// AnalyticsHandler serves cross-entity query endpoints.
type AnalyticsHandler struct {
	svc *service.AnalyticsService
	log *slog.Logger
}

// NewAnalyticsHandler creates an analytics handler.
func NewAnalyticsHandler(svc *service.AnalyticsService, log *slog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc, log: log}
}

// TopProducts serves GET /analytics/top-products?limit=N.
func (h *AnalyticsHandler) TopProducts(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			httputil.WriteError(w, r, apperrors.InvalidInput("limit must be a positive integer"), h.log)
			return
		}
		limit = v
	}

	products, err := h.svc.TopProducts(r.Context(), limit)
	if err != nil {
		httputil.WriteError(w, r, err, h.log)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: products})
}

// CommonProducts serves GET /analytics/common-products?customerA=&customerB=.
func (h *AnalyticsHandler) CommonProducts(w http.ResponseWriter, r *http.Request) {
	customerA, errA := strconv.ParseInt(r.URL.Query().Get("customerA"), 10, 64)
	customerB, errB := strconv.ParseInt(r.URL.Query().Get("customerB"), 10, 64)
	if errA != nil || errB != nil || customerA <= 0 || customerB <= 0 {
		httputil.WriteError(w, r,
			apperrors.InvalidInput("customerA and customerB must be positive integers"), h.log)
		return
	}

	products, err := h.svc.CommonHighRated(r.Context(), customerA, customerB)
	if err != nil {
		httputil.WriteError(w, r, err, h.log)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: products})
}

// Stats serves GET /stats.
func (h *AnalyticsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.log)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: stats})
}
