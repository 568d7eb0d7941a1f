package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/okarpov/storecore/internal/service"
	"github.com/okarpov/storecore/pkg/httputil"
	"github.com/okarpov/storecore/pkg/pagination"
	"github.com/okarpov/storecore/pkg/validator"
)

// CustomerHandler serves customer endpoints.
type CustomerHandler struct {
	svc *service.CustomerService
	log *slog.Logger
}

// NewCustomerHandler creates a customer handler.
func NewCustomerHandler(svc *service.CustomerService, log *slog.Logger) *CustomerHandler {
	return &CustomerHandler{svc: svc, log: log}
}

type createCustomerRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=200"`
	Email string `json:"email" validate:"required,email"`
}

func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCustomerRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	customer, err := h.svc.Create(r.Context(), service.CreateCustomerInput{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.log)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: customer})
}

func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)
	customers, meta, err := h.svc.List(r.Context(), params)
	if err != nil {
		httputil.WriteError(w, r, err, h.log)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]any{"items": customers, "meta": meta},
	})
}

func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	customer, err := h.svc.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.log)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: customer})
}

func (h *CustomerHandler) Orders(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	orders, err := h.svc.Orders(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.log)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: orders})
}

func (h *CustomerHandler) Reviews(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	reviews, err := h.svc.Reviews(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.log)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: reviews})
}
