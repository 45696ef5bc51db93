// Package pricing derives the unit price of a product for a size selection.
package pricing

import (
	"github.com/shopspring/decimal"
	"github.com/zedlink-test/My-Shop/internal/domain"
)

// Resolve returns the unit price of product for size. An empty size, a
// product without variants or a label that matches no variant all resolve to
// the base price.
func Resolve(product *domain.Product, size string) decimal.Decimal {
	if size == "" || len(product.Sizes) == 0 {
		return product.Price
	}
	if v, ok := product.FindSize(size); ok {
		return v.Price
	}
	return product.Price
}
