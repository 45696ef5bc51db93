package http

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/zedlink-test/My-Shop/internal/domain"
	"github.com/zedlink-test/My-Shop/internal/order"
)

type CheckoutService interface {
	PlaceOrder(ctx context.Context, sessionID string, info order.CheckoutInfo) (*domain.Order, error)
}

type CheckoutHandler struct {
	checkout CheckoutService
	timeout  time.Duration
	log      *zap.Logger
}

func NewCheckoutHandler(checkout CheckoutService, timeout time.Duration, log *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, timeout: timeout, log: log}
}

// Checkout places the session cart as an order. Field validation happens
// in the order package so the same rules apply outside HTTP.
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var info order.CheckoutInfo
	if err := decodeJSON(r, &info); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	placed, err := h.checkout.PlaceOrder(ctx, sessionIDFromContext(r.Context()), info)
	if err != nil {
		handleServiceError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusCreated, placed)
}
