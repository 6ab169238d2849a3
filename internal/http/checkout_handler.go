package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/lamasat/storefront/internal/checkout"
	"github.com/lamasat/storefront/internal/currency"
	"github.com/lamasat/storefront/internal/domain"
	"github.com/lamasat/storefront/internal/notify"
)

type CheckoutHandler struct {
	checkout  *checkout.Service
	converter *currency.Converter
	timeout   time.Duration
}

func NewCheckoutHandler(checkoutSvc *checkout.Service, converter *currency.Converter, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		checkout:  checkoutSvc,
		converter: converter,
		timeout:   timeout,
	}
}

type CheckoutRequestDTO struct {
	Name            string `json:"name"`
	Phone           string `json:"phone"`
	Address         string `json:"address"`
	City            string `json:"city"`
	DetailedAddress string `json:"detailed_address"`
	Notes           string `json:"notes"`
	DiscountCode    string `json:"discount_code"`
	Currency        string `json:"currency"`
}

type CheckoutResponseDTO struct {
	Success bool    `json:"success"`
	OrderID string  `json:"order_id"`
	Total   float64 `json:"total"`
	Message string  `json:"message"`
}

// POST /api/v1/checkout
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionIDFromContext(r.Context())

	var req CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	info := domain.CustomerInfo{
		Name:            req.Name,
		Phone:           req.Phone,
		Address:         req.Address,
		City:            req.City,
		DetailedAddress: req.DetailedAddress,
		Notes:           req.Notes,
		DiscountCode:    req.DiscountCode,
	}

	order, err := h.checkout.Submit(ctx, sessionID, info, h.converter.Normalize(req.Currency))
	if err != nil {
		handleCheckoutError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, CheckoutResponseDTO{
		Success: true,
		OrderID: order.ID,
		Total:   order.Total,
		Message: "تم إرسال الطلب بنجاح!",
	})
}

// GET /api/v1/checkout/cities
func (h *CheckoutHandler) Cities(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, checkout.Cities())
}

// handleCheckoutError adds the delivery-failure case on top of the shared
// domain mapping: a failed relay to the bot is an upstream problem, missing
// credentials are ours.
func handleCheckoutError(w http.ResponseWriter, err error) {
	if errors.Is(err, checkout.ErrDeliveryFailed) && !errors.Is(err, notify.ErrNotConfigured) {
		respondError(w, http.StatusBadGateway, "delivery_failed", "فشل إرسال الطلب، يرجى المحاولة مرة أخرى")
		return
	}
	handleDomainError(w, err)
}
