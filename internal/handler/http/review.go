package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/okarpov/storecore/internal/service"
	"github.com/okarpov/storecore/pkg/httputil"
	"github.com/okarpov/storecore/pkg/validator"
)

// ReviewHandler serves review endpoints.
type ReviewHandler struct {
	svc *service.ReviewService
	log *slog.Logger
}

// NewReviewHandler creates a review handler.
func NewReviewHandler(svc *service.ReviewService, log *slog.Logger) *ReviewHandler {
	return &ReviewHandler{svc: svc, log: log}
}

type createReviewRequest struct {
	ProductID  int64  `json:"productId" validate:"required,gt=0"`
	CustomerID int64  `json:"customerId" validate:"required,gt=0"`
	Rating     int    `json:"rating" validate:"required,min=1,max=5"`
	Comment    string `json:"comment" validate:"max=2000"`
}

func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createReviewRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	review, err := h.svc.Submit(r.Context(), service.SubmitReviewInput{
		ProductID:  req.ProductID,
		CustomerID: req.CustomerID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.log)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: review})
}

func (h *ReviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	review, err := h.svc.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.log)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: review})
}

// ListByProduct serves GET /products/{id}/reviews.
func (h *ReviewHandler) ListByProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	reviews, err := h.svc.ListByProduct(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.log)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: reviews})
}
