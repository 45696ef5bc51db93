// Package cart holds the line items of one shopping session.
package cart

import (
	"github.com/shopspring/decimal"
	"github.com/zedlink-test/My-Shop/internal/domain"
	"github.com/zedlink-test/My-Shop/internal/pricing"
)

// Store is the cart of a single session. It is not safe for concurrent use;
// the owner serialises access. Lines keep insertion order for display.
type Store struct {
	lines []domain.CartLine
}

func New() *Store {
	return &Store{}
}

// FromLines rebuilds a store from persisted lines. Lines sharing a key are
// merged into the first one and lines with a quantity below one are dropped.
func FromLines(lines []domain.CartLine) *Store {
	s := &Store{lines: make([]domain.CartLine, 0, len(lines))}
	for _, l := range lines {
		if l.Quantity < 1 {
			continue
		}
		if i := s.index(l.ProductID, l.Size); i >= 0 {
			s.lines[i].Quantity += l.Quantity
			continue
		}
		s.lines = append(s.lines, l)
	}
	return s
}

// Add puts one unit of product in the cart. A repeated key only bumps the
// quantity; the price captured when the line was created is kept.
func (s *Store) Add(product *domain.Product, size string) {
	if i := s.index(product.ID, size); i >= 0 {
		s.lines[i].Quantity++
		return
	}
	s.lines = append(s.lines, domain.CartLine{
		ProductID:  product.ID,
		Name:       product.Name,
		Image:      product.Image,
		Size:       size,
		Quantity:   1,
		FinalPrice: pricing.Resolve(product, size),
	})
}

// Remove deletes the lines with exactly this key. An empty size only
// matches lines added without a size.
func (s *Store) Remove(productID, size string) {
	kept := s.lines[:0]
	for _, l := range s.lines {
		if !l.Matches(productID, size) {
			kept = append(kept, l)
		}
	}
	s.lines = kept
}

// UpdateQuantity sets the quantity of a line. Quantities below one are
// ignored, as are keys that are not in the cart.
func (s *Store) UpdateQuantity(productID, size string, quantity int) {
	if quantity < 1 {
		return
	}
	if i := s.index(productID, size); i >= 0 {
		s.lines[i].Quantity = quantity
	}
}

func (s *Store) Clear() {
	s.lines = nil
}

// Lines returns a copy of the current lines.
func (s *Store) Lines() []domain.CartLine {
	out := make([]domain.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

func (s *Store) Len() int {
	return len(s.lines)
}

func (s *Store) IsEmpty() bool {
	return len(s.lines) == 0
}

// Count is the number of units across all lines.
func (s *Store) Count() int {
	n := 0
	for _, l := range s.lines {
		n += l.Quantity
	}
	return n
}

func (s *Store) Subtotal() decimal.Decimal {
	return domain.Subtotal(s.lines)
}

func (s *Store) index(productID, size string) int {
	for i, l := range s.lines {
		if l.Matches(productID, size) {
			return i
		}
	}
	return -1
}
