package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFound(t *testing.T) {
	err := NotFound("product", 101)

	assert.Equal(t, "NOT_FOUND", err.Code)
	assert.Equal(t, http.StatusNotFound, err.Status)
	assert.Contains(t, err.Message, "product with id 101")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestInsufficientStock(t *testing.T) {
	err := InsufficientStock(101, 3, 1)

	assert.Equal(t, "INSUFFICIENT_STOCK", err.Code)
	assert.Equal(t, http.StatusConflict, err.Status)
	assert.Contains(t, err.Message, "requested 3, available 1")
	assert.True(t, errors.Is(err, ErrInsufficientStock))
}

func TestInvalidTransition(t *testing.T) {
	err := InvalidTransition("Delivered", "Cancelled")

	assert.Equal(t, "INVALID_TRANSITION", err.Code)
	assert.Equal(t, http.StatusConflict, err.Status)
	assert.True(t, errors.Is(err, ErrInvalidTransition))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"app error", NotFound("order", 301), http.StatusNotFound},
		{"wrapped app error", fmt.Errorf("ctx: %w", InvalidTransition("Shipped", "Cancelled")), http.StatusConflict},
		{"sentinel not found", fmt.Errorf("get: %w", ErrNotFound), http.StatusNotFound},
		{"sentinel invalid input", ErrInvalidInput, http.StatusBadRequest},
		{"sentinel insufficient stock", ErrInsufficientStock, http.StatusConflict},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestAppError_ErrorString(t *testing.T) {
	err := InvalidInput("rating must be between 1 and 5")
	assert.Equal(t, "INVALID_INPUT: rating must be between 1 and 5", err.Error())

	wrapped := Internal(errors.New("db down"))
	assert.Contains(t, wrapped.Error(), "db down")
}
