package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/zedlink-test/My-Shop/internal/service"
)

type CartService interface {
	Get(ctx context.Context, sessionID string, regionID int) (*service.CartView, error)
	AddItem(ctx context.Context, sessionID, productID, size string) (*service.CartView, error)
	UpdateQuantity(ctx context.Context, sessionID, productID, size string, quantity int) (*service.CartView, error)
	RemoveItem(ctx context.Context, sessionID, productID, size string) (*service.CartView, error)
	Clear(ctx context.Context, sessionID string) (*service.CartView, error)
}

type CartHandler struct {
	carts    CartService
	validate *validator.Validate
	timeout  time.Duration
	log      *zap.Logger
}

func NewCartHandler(carts CartService, timeout time.Duration, log *zap.Logger) *CartHandler {
	return &CartHandler{
		carts:    carts,
		validate: newValidator(),
		timeout:  timeout,
		log:      log,
	}
}

type AddItemRequestDTO struct {
	ProductID string `json:"product_id" validate:"required"`
	Size      string `json:"size"`
}

// UpdateQuantityRequestDTO carries the new quantity. Quantities below one
// leave the line unchanged; use DELETE to remove it.
type UpdateQuantityRequestDTO struct {
	Size     string `json:"size"`
	Quantity int    `json:"quantity" validate:"lte=99"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	regionID := 0
	if raw := r.URL.Query().Get("region_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id < 0 {
			respondError(w, http.StatusBadRequest, "invalid_region_id", "region_id must be a non-negative integer")
			return
		}
		regionID = id
	}

	view, err := h.carts.Get(ctx, sessionIDFromContext(r.Context()), regionID)
	if err != nil {
		handleServiceError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, view)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondFieldErrors(w, err)
		return
	}

	view, err := h.carts.AddItem(ctx, sessionIDFromContext(r.Context()), req.ProductID, req.Size)
	if err != nil {
		handleServiceError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusCreated, view)
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req UpdateQuantityRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondFieldErrors(w, err)
		return
	}

	view, err := h.carts.UpdateQuantity(ctx, sessionIDFromContext(r.Context()),
		chi.URLParam(r, "product_id"), req.Size, req.Quantity)
	if err != nil {
		handleServiceError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, view)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	view, err := h.carts.RemoveItem(ctx, sessionIDFromContext(r.Context()),
		chi.URLParam(r, "product_id"), r.URL.Query().Get("size"))
	if err != nil {
		handleServiceError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, view)
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	view, err := h.carts.Clear(ctx, sessionIDFromContext(r.Context()))
	if err != nil {
		handleServiceError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, view)
}
