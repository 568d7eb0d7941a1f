package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/okarpov/storecore/internal/domain"
	"github.com/okarpov/storecore/internal/service"
	apperrors "github.com/okarpov/storecore/pkg/errors"
	"github.com/okarpov/storecore/pkg/httputil"
	"github.com/okarpov/storecore/pkg/pagination"
	"github.com/okarpov/storecore/pkg/validator"
)

// OrderHandler serves order endpoints.
type OrderHandler struct {
	svc *service.OrderService
	log *slog.Logger
}

// NewOrderHandler creates an order handler.
func NewOrderHandler(svc *service.OrderService, log *slog.Logger) *OrderHandler {
	return &OrderHandler{svc: svc, log: log}
}

type createOrderRequest struct {
	CustomerID int64   `json:"customerId" validate:"required,gt=0"`
	ProductIDs []int64 `json:"productIds" validate:"required,min=1,dive,gt=0"`
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	order, err := h.svc.Create(r.Context(), req.CustomerID, req.ProductIDs)
	if err != nil {
		httputil.WriteError(w, r, err, h.log)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: order})
}

// List serves the order listing. With ?from= and ?to= (RFC 3339 or
// YYYY-MM-DD) it returns orders created in that window instead.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	fromRaw := r.URL.Query().Get("from")
	toRaw := r.URL.Query().Get("to")

	if fromRaw != "" || toRaw != "" {
		from, to, err := parseDateRange(fromRaw, toRaw)
		if err != nil {
			httputil.WriteError(w, r, err, h.log)
			return
		}

		orders, err := h.svc.ListBetween(r.Context(), from, to)
		if err != nil {
			httputil.WriteError(w, r, err, h.log)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: orders})
		return
	}

	params := pagination.FromRequest(r)
	orders, meta, err := h.svc.List(r.Context(), params)
	if err != nil {
		httputil.WriteError(w, r, err, h.log)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]any{"items": orders, "meta": meta},
	})
}

func parseDateRange(fromRaw, toRaw string) (time.Time, time.Time, error) {
	if fromRaw == "" || toRaw == "" {
		return time.Time{}, time.Time{}, apperrors.InvalidInput("both 'from' and 'to' are required")
	}

	from, err := parseDate(fromRaw, false)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.InvalidInput("invalid 'from' date: " + fromRaw)
	}
	to, err := parseDate(toRaw, true)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.InvalidInput("invalid 'to' date: " + toRaw)
	}
	return from, to, nil
}

// parseDate accepts RFC 3339 timestamps or bare dates. A bare 'to' date
// covers the whole day.
func parseDate(raw string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	order, err := h.svc.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.log)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: order})
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req updateOrderStatusRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	order, err := h.svc.UpdateStatus(r.Context(), id, domain.OrderStatus(req.Status))
	if err != nil {
		httputil.WriteError(w, r, err, h.log)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: order})
}

func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	order, err := h.svc.Cancel(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.log)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: order})
}
