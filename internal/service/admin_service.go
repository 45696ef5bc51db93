package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/zedlink-test/My-Shop/internal/domain"
	"github.com/zedlink-test/My-Shop/internal/repository"
)

// AdminStore is what the admin dashboard needs from storage.
type AdminStore interface {
	repository.ProductRepository
	repository.OrderRepository
	Ping(ctx context.Context) error
}

type ConnectionStatus struct {
	Status   string `json:"status"`
	Products int64  `json:"products"`
}

type AdminService struct {
	store AdminStore
	log   *zap.Logger
}

func NewAdminService(store AdminStore, log *zap.Logger) *AdminService {
	return &AdminService{store: store, log: log.Named("admin")}
}

func (s *AdminService) CreateProduct(ctx context.Context, p *domain.Product) error {
	p.ApplyDefaults()
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProduct, err)
	}
	if err := s.store.CreateProduct(ctx, p); err != nil {
		return err
	}
	s.log.Info("product created", zap.String("product_id", p.ID), zap.String("name", p.Name))
	return nil
}

func (s *AdminService) UpdateProduct(ctx context.Context, id string, p *domain.Product) error {
	p.ID = id
	p.ApplyDefaults()
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProduct, err)
	}
	if err := s.store.UpdateProduct(ctx, p); err != nil {
		return err
	}
	s.log.Info("product updated", zap.String("product_id", id))
	return nil
}

func (s *AdminService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.store.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.log.Info("product deleted", zap.String("product_id", id))
	return nil
}

func (s *AdminService) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	return s.store.ListOrders(ctx)
}

// UpdateOrderStatus moves an order forward along its lifecycle.
func (s *AdminService) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	o, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransitionTo(o.Status, status) {
		return nil, fmt.Errorf("%w: %s to %s", ErrIllegalTransition, o.Status, status)
	}

	if err := s.store.UpdateOrderStatus(ctx, id, o.Status, status); err != nil {
		if errors.Is(err, repository.ErrStatusChanged) {
			return nil, fmt.Errorf("%w: %w", ErrIllegalTransition, err)
		}
		return nil, err
	}
	s.log.Info("order status changed",
		zap.String("order_id", id),
		zap.String("from", o.Status.String()),
		zap.String("to", status.String()))

	o.Status = status
	return o, nil
}

func (s *AdminService) DeleteOrder(ctx context.Context, id string) error {
	if err := s.store.DeleteOrder(ctx, id); err != nil {
		return err
	}
	s.log.Info("order deleted", zap.String("order_id", id))
	return nil
}

// CheckConnection verifies that storage answers and can be read.
func (s *AdminService) CheckConnection(ctx context.Context) (*ConnectionStatus, error) {
	if err := s.store.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping storage: %w", err)
	}
	n, err := s.store.CountProducts(ctx)
	if err != nil {
		return nil, err
	}
	return &ConnectionStatus{Status: "ok", Products: n}, nil
}
