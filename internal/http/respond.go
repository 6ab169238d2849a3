package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/lamasat/storefront/internal/cart"
	"github.com/lamasat/storefront/internal/catalog"
	"github.com/lamasat/storefront/internal/checkout"
	"github.com/lamasat/storefront/internal/notify"
)

type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
	Success bool              `json:"success"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "err", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleDomainError converts known domain errors to HTTP status codes.
func handleDomainError(w http.ResponseWriter, err error) {
	var fieldErrs checkout.FieldErrors

	switch {
	case errors.As(err, &fieldErrs):
		respondJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:  "بيانات الطلب غير صحيحة",
			Code:   "validation_failed",
			Fields: fieldErrs,
		})
	case errors.Is(err, checkout.ErrSubmissionInFlight):
		respondError(w, http.StatusConflict, "submission_in_flight", "a submission is already in progress")
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "empty_cart", "cart is empty")
	case errors.Is(err, notify.ErrNotConfigured):
		respondError(w, http.StatusInternalServerError, "notifier_not_configured", notify.ErrNotConfigured.Error())
	case errors.Is(err, catalog.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "not_found", "product not found")
	case errors.Is(err, catalog.ErrInvalidProduct):
		respondError(w, http.StatusBadRequest, "invalid_product", err.Error())
	case errors.Is(err, cart.ErrCartNotFound), errors.Is(err, cart.ErrItemNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, cart.ErrInvalidQuantity):
		respondError(w, http.StatusBadRequest, "invalid_quantity", cart.ErrInvalidQuantity.Error())
	default:
		slog.Error("internal error", "err", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
