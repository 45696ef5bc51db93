package domain

import "github.com/shopspring/decimal"

// CartLine is one cart entry. The pair (ProductID, Size) is unique within a
// cart; an empty Size means the product was added without a size.
type CartLine struct {
	ProductID  string          `json:"product_id"`
	Name       string          `json:"name"`
	Image      string          `json:"image,omitempty"`
	Size       string          `json:"size,omitempty"`
	Quantity   int             `json:"quantity"`
	FinalPrice decimal.Decimal `json:"final_price"`
}

func (l CartLine) Matches(productID, size string) bool {
	return l.ProductID == productID && l.Size == size
}

func (l CartLine) LineTotal() decimal.Decimal {
	return l.FinalPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Subtotal sums FinalPrice*Quantity over lines.
func Subtotal(lines []CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.LineTotal())
	}
	return total
}
