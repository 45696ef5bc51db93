package domain

import "github.com/shopspring/decimal"

// Region is a wilaya with its flat delivery fee.
type Region struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
}
