// Package repository is the storefront's persistence gateway for products
// and orders. The order insert is the authoritative record of a checkout.
package repository

import (
	"context"
	"errors"

	"github.com/zedlink-test/My-Shop/internal/domain"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrDuplicateOrder  = errors.New("order with this id already exists")
	ErrStatusChanged   = errors.New("order status changed concurrently")
)

type ProductRepository interface {
	// ListProducts returns products newest first. An empty category lists all.
	ListProducts(ctx context.Context, category string) ([]*domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	// CreateProduct assigns an id and creation time when they are unset.
	CreateProduct(ctx context.Context, p *domain.Product) error
	UpdateProduct(ctx context.Context, p *domain.Product) error
	DeleteProduct(ctx context.Context, id string) error
	CountProducts(ctx context.Context) (int64, error)
}

type OrderRepository interface {
	InsertOrder(ctx context.Context, o *domain.Order) error
	// ListOrders returns orders newest first.
	ListOrders(ctx context.Context) ([]*domain.Order, error)
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	// UpdateOrderStatus sets the status to `to` only while it is still `from`.
	// It returns ErrStatusChanged when the order exists with another status.
	UpdateOrderStatus(ctx context.Context, id string, from, to domain.OrderStatus) error
	DeleteOrder(ctx context.Context, id string) error
}

// Store is implemented by every storage backend.
type Store interface {
	ProductRepository
	OrderRepository
	Ping(ctx context.Context) error
	Close() error
}
