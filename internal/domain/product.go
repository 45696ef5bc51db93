package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultCategory  = "General"
	PlaceholderImage = "https://via.placeholder.com/300"
)

var (
	ErrDuplicateSize = errors.New("duplicate size label")
	ErrNegativePrice = errors.New("price must not be negative")
)

// SizeVariant overrides the base price of a product for one size label.
type SizeVariant struct {
	Label string          `json:"size"`
	Price decimal.Decimal `json:"price"`
}

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	Sizes       []SizeVariant   `json:"sizes,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Validate checks the price and size-label invariants of a product.
func (p *Product) Validate() error {
	if p.Price.IsNegative() {
		return ErrNegativePrice
	}
	seen := make(map[string]struct{}, len(p.Sizes))
	for _, s := range p.Sizes {
		if s.Price.IsNegative() {
			return fmt.Errorf("size %q: %w", s.Label, ErrNegativePrice)
		}
		if _, ok := seen[s.Label]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateSize, s.Label)
		}
		seen[s.Label] = struct{}{}
	}
	return nil
}

// ApplyDefaults fills the category and image the admin form leaves empty.
func (p *Product) ApplyDefaults() {
	if p.Category == "" {
		p.Category = DefaultCategory
	}
	if p.Image == "" {
		p.Image = PlaceholderImage
	}
}

// FindSize returns the variant with the exact label.
func (p *Product) FindSize(label string) (SizeVariant, bool) {
	for _, s := range p.Sizes {
		if s.Label == label {
			return s, true
		}
	}
	return SizeVariant{}, false
}
