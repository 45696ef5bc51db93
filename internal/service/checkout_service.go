package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/zedlink-test/My-Shop/internal/domain"
	"github.com/zedlink-test/My-Shop/internal/events"
	"github.com/zedlink-test/My-Shop/internal/metrics"
	"github.com/zedlink-test/My-Shop/internal/order"
	"github.com/zedlink-test/My-Shop/internal/repository"
)

// Notifier reports whether the operator was told about an order.
type Notifier interface {
	Notify(ctx context.Context, o *domain.Order) bool
}

type CheckoutService struct {
	carts     *CartService
	assembler *order.Assembler
	notifier  Notifier
	orders    repository.OrderRepository
	events    events.Publisher
	log       *zap.Logger
	metrics   *metrics.Metrics
}

func NewCheckoutService(
	carts *CartService,
	assembler *order.Assembler,
	notifier Notifier,
	orders repository.OrderRepository,
	publisher events.Publisher,
	log *zap.Logger,
	m *metrics.Metrics,
) *CheckoutService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &CheckoutService{
		carts:     carts,
		assembler: assembler,
		notifier:  notifier,
		orders:    orders,
		events:    publisher,
		log:       log.Named("checkout"),
		metrics:   m,
	}
}

// PlaceOrder turns the session cart into a persisted order.
//
// The operator notification is sent first and its outcome does not affect
// the result. The order insert is authoritative: when it fails the cart is
// left untouched and the error wraps ErrOrderNotPersisted. The cart is
// cleared only after a successful insert.
func (s *CheckoutService) PlaceOrder(ctx context.Context, sessionID string, info order.CheckoutInfo) (*domain.Order, error) {
	if sessionID == "" {
		return nil, ErrMissingSession
	}
	unlock := s.carts.locks.Lock(sessionID)
	defer unlock()

	store, err := s.carts.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	o, err := s.assembler.Assemble(store.Lines(), info)
	if err != nil {
		s.metrics.ObserveCheckout(metrics.CheckoutInvalid)
		return nil, err
	}

	log := s.log.With(zap.String("order_id", o.ID), zap.String("total", o.Total.String()))

	if delivered := s.notifier.Notify(ctx, o); !delivered {
		log.Warn("order notification not delivered")
	}

	if err := s.orders.InsertOrder(ctx, o); err != nil {
		log.Error("order insert failed", zap.Error(err))
		s.metrics.ObserveCheckout(metrics.CheckoutPersistenceFail)
		return nil, fmt.Errorf("%w: %w", ErrOrderNotPersisted, err)
	}

	store.Clear()
	if err := s.carts.sessions.Save(ctx, sessionID, store.Lines()); err != nil {
		log.Warn("clear cart after order failed, deleting session cart", zap.Error(err))
		if err := s.carts.sessions.Delete(ctx, sessionID); err != nil {
			log.Error("delete cart after order failed", zap.Error(err))
		}
	}

	if err := s.events.PublishOrderPlaced(ctx, o); err != nil {
		log.Warn("publish order event failed", zap.Error(err))
		s.metrics.ObserveEvent(false)
	} else {
		s.metrics.ObserveEvent(true)
	}

	log.Info("order placed", zap.Int("items", len(o.Items)), zap.String("wilaya", o.Customer.Wilaya))
	s.metrics.ObserveCheckout(metrics.CheckoutPlaced)
	return o, nil
}

// IsValidationError reports whether err came from checkout form checks.
func IsValidationError(err error) bool {
	return errors.Is(err, order.ErrInvalidCustomer) || errors.Is(err, order.ErrEmptyCart)
}
