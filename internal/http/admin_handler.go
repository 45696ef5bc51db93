package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/zedlink-test/My-Shop/internal/domain"
	"github.com/zedlink-test/My-Shop/internal/service"
)

type AdminService interface {
	CreateProduct(ctx context.Context, p *domain.Product) error
	UpdateProduct(ctx context.Context, id string, p *domain.Product) error
	DeleteProduct(ctx context.Context, id string) error
	ListOrders(ctx context.Context) ([]*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
	DeleteOrder(ctx context.Context, id string) error
	CheckConnection(ctx context.Context) (*service.ConnectionStatus, error)
}

type AdminHandler struct {
	admin    AdminService
	validate *validator.Validate
	timeout  time.Duration
	log      *zap.Logger
}

func NewAdminHandler(admin AdminService, timeout time.Duration, log *zap.Logger) *AdminHandler {
	return &AdminHandler{
		admin:    admin,
		validate: newValidator(),
		timeout:  timeout,
		log:      log,
	}
}

type SizeDTO struct {
	Label string          `json:"size" validate:"required"`
	Price decimal.Decimal `json:"price"`
}

type ProductRequestDTO struct {
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Image       string          `json:"image" validate:"omitempty,url"`
	Sizes       []SizeDTO       `json:"sizes" validate:"dive"`
}

func (d ProductRequestDTO) toProduct() *domain.Product {
	p := &domain.Product{
		Name:        d.Name,
		Description: d.Description,
		Price:       d.Price,
		Category:    d.Category,
		Image:       d.Image,
	}
	for _, s := range d.Sizes {
		p.Sizes = append(p.Sizes, domain.SizeVariant{Label: s.Label, Price: s.Price})
	}
	return p
}

type StatusRequestDTO struct {
	Status domain.OrderStatus `json:"status" validate:"required"`
}

func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	req, ok := h.decodeProduct(w, r)
	if !ok {
		return
	}

	p := req.toProduct()
	if err := h.admin.CreateProduct(ctx, p); err != nil {
		handleServiceError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusCreated, p)
}

func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	req, ok := h.decodeProduct(w, r)
	if !ok {
		return
	}

	p := req.toProduct()
	if err := h.admin.UpdateProduct(ctx, chi.URLParam(r, "id"), p); err != nil {
		handleServiceError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, p)
}

func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.admin.DeleteProduct(ctx, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orders, err := h.admin.ListOrders(ctx)
	if err != nil {
		handleServiceError(w, h.log, err)
		return
	}
	if orders == nil {
		orders = []*domain.Order{}
	}

	respondJSON(w, http.StatusOK, orders)
}

func (h *AdminHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req StatusRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondFieldErrors(w, err)
		return
	}

	updated, err := h.admin.UpdateOrderStatus(ctx, chi.URLParam(r, "id"), req.Status)
	if err != nil {
		handleServiceError(w, h.log, err)
		return
	}

	h.log.Info("order status updated by admin",
		zap.String("order_id", updated.ID),
		zap.String("admin", adminSubjectFromContext(r.Context())))
	respondJSON(w, http.StatusOK, updated)
}

func (h *AdminHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.admin.DeleteOrder(ctx, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) CheckConnection(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	status, err := h.admin.CheckConnection(ctx)
	if err != nil {
		h.log.Warn("storage connection check failed", zap.Error(err))
		respondJSON(w, http.StatusServiceUnavailable, ErrorResponse{
			Error:   "storage is unreachable",
			Code:    "storage_unavailable",
			Details: err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, status)
}

func (h *AdminHandler) decodeProduct(w http.ResponseWriter, r *http.Request) (ProductRequestDTO, bool) {
	var req ProductRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return req, false
	}
	if err := h.validate.Struct(req); err != nil {
		respondFieldErrors(w, err)
		return req, false
	}
	return req, true
}
