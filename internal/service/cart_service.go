package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/zedlink-test/My-Shop/internal/cart"
	"github.com/zedlink-test/My-Shop/internal/delivery"
	"github.com/zedlink-test/My-Shop/internal/domain"
	"github.com/zedlink-test/My-Shop/internal/metrics"
	"github.com/zedlink-test/My-Shop/internal/repository"
	"github.com/zedlink-test/My-Shop/internal/session"
)

// CartView is a cart priced for display. DeliveryFee is zero until a
// region is chosen.
type CartView struct {
	Lines       []domain.CartLine `json:"lines"`
	Count       int               `json:"count"`
	Subtotal    decimal.Decimal   `json:"subtotal"`
	RegionID    int               `json:"region_id,omitempty"`
	DeliveryFee decimal.Decimal   `json:"delivery_fee"`
	Total       decimal.Decimal   `json:"total"`
	Currency    string            `json:"currency"`
}

type CartService struct {
	products repository.ProductRepository
	sessions session.Store
	regions  *delivery.Table
	locks    *keyedMutex
	sfg      singleflight.Group // collapses concurrent reads of one session
	log      *zap.Logger
	metrics  *metrics.Metrics
}

func NewCartService(products repository.ProductRepository, sessions session.Store, regions *delivery.Table, log *zap.Logger, m *metrics.Metrics) *CartService {
	return &CartService{
		products: products,
		sessions: sessions,
		regions:  regions,
		locks:    newKeyedMutex(),
		log:      log.Named("cart"),
		metrics:  m,
	}
}

func (s *CartService) View(store *cart.Store, regionID int) *CartView {
	subtotal := store.Subtotal()
	fee := s.regions.FeeFor(regionID)
	return &CartView{
		Lines:       store.Lines(),
		Count:       store.Count(),
		Subtotal:    subtotal,
		RegionID:    regionID,
		DeliveryFee: fee,
		Total:       subtotal.Add(fee),
		Currency:    domain.Currency,
	}
}

// Get returns the session cart priced for regionID.
func (s *CartService) Get(ctx context.Context, sessionID string, regionID int) (*CartView, error) {
	// The shared load must not inherit the cancellation of whichever caller started it.
	v, err, _ := s.sfg.Do(sessionID, func() (interface{}, error) {
		return s.load(context.WithoutCancel(ctx), sessionID)
	})
	if err != nil {
		return nil, err
	}
	return s.View(v.(*cart.Store), regionID), nil
}

func (s *CartService) AddItem(ctx context.Context, sessionID, productID, size string) (*CartView, error) {
	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	return s.mutate(ctx, sessionID, "add", func(c *cart.Store) {
		c.Add(product, size)
	})
}

func (s *CartService) UpdateQuantity(ctx context.Context, sessionID, productID, size string, quantity int) (*CartView, error) {
	return s.mutate(ctx, sessionID, "update_quantity", func(c *cart.Store) {
		c.UpdateQuantity(productID, size, quantity)
	})
}

func (s *CartService) RemoveItem(ctx context.Context, sessionID, productID, size string) (*CartView, error) {
	return s.mutate(ctx, sessionID, "remove", func(c *cart.Store) {
		c.Remove(productID, size)
	})
}

func (s *CartService) Clear(ctx context.Context, sessionID string) (*CartView, error) {
	return s.mutate(ctx, sessionID, "clear", func(c *cart.Store) {
		c.Clear()
	})
}

// mutate applies fn under the session lock. Mutations read the store
// directly so they never observe a load shared with a concurrent reader.
func (s *CartService) mutate(ctx context.Context, sessionID, op string, fn func(*cart.Store)) (*CartView, error) {
	if sessionID == "" {
		return nil, ErrMissingSession
	}
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	store, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	fn(store)

	if err := s.sessions.Save(ctx, sessionID, store.Lines()); err != nil {
		s.log.Error("save cart failed", zap.String("session", sessionID), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrSessionUnavailable, err)
	}
	s.metrics.ObserveCartMutation(op)
	return s.View(store, 0), nil
}

func (s *CartService) load(ctx context.Context, sessionID string) (*cart.Store, error) {
	if sessionID == "" {
		return cart.New(), nil
	}
	lines, err := s.sessions.Load(ctx, sessionID)
	if errors.Is(err, session.ErrCartNotFound) {
		return cart.New(), nil
	}
	if err != nil {
		s.log.Error("load cart failed", zap.String("session", sessionID), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrSessionUnavailable, err)
	}
	return cart.FromLines(lines), nil
}
