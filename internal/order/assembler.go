// Package order turns a cart snapshot and a checkout form into an order.
package order

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/zedlink-test/My-Shop/internal/delivery"
	"github.com/zedlink-test/My-Shop/internal/domain"
)

type Assembler struct {
	regions  *delivery.Table
	validate *validator.Validate
	newID    func() string
	now      func() time.Time
}

type Option func(*Assembler)

func WithClock(now func() time.Time) Option {
	return func(a *Assembler) { a.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(a *Assembler) { a.newID = newID }
}

func NewAssembler(regions *delivery.Table, opts ...Option) *Assembler {
	a := &Assembler{
		regions:  regions,
		validate: defaultValidator,
		newID:    func() string { return uuid.NewString() },
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble builds a pending order from a cart snapshot. It refuses an empty
// snapshot or incomplete customer information. The delivery fee comes from
// the region table at assembly time; an unknown region costs nothing.
func (a *Assembler) Assemble(lines []domain.CartLine, info CheckoutInfo) (*domain.Order, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}
	info = info.Normalize()
	if err := validate(a.validate, info); err != nil {
		return nil, err
	}

	items := make([]domain.CartLine, len(lines))
	copy(items, lines)

	var wilaya string
	if r, ok := a.regions.Lookup(info.RegionID); ok {
		wilaya = r.Name
	}

	subtotal := domain.Subtotal(items)
	fee := a.regions.FeeFor(info.RegionID)

	return &domain.Order{
		ID: a.newID(),
		Customer: domain.Customer{
			FullName: info.FullName,
			Phone:    info.Phone,
			Address:  info.Address,
			Wilaya:   wilaya,
			Commune:  info.Commune,
		},
		Items:       items,
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Total:       subtotal.Add(fee),
		Status:      domain.OrderStatusPending,
		CreatedAt:   a.now().UTC(),
	}, nil
}
