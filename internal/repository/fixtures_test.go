package repository

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/zedlink-test/My-Shop/internal/domain"
)

func newTestProduct(f *gofakeit.Faker, category string) *domain.Product {
	base := int64(f.IntRange(10, 200)) * 100
	return &domain.Product{
		Name:        f.ProductName(),
		Description: f.Sentence(8),
		Price:       decimal.NewFromInt(base),
		Category:    category,
		Image:       fmt.Sprintf("https://cdn.example.com/%s.jpg", f.UUID()),
		Sizes: []domain.SizeVariant{
			{Label: "50ml", Price: decimal.NewFromInt(base)},
			{Label: "100ml", Price: decimal.NewFromInt(base * 2)},
		},
	}
}

func newTestOrder(createdAt time.Time) *domain.Order {
	items := []domain.CartLine{
		{ProductID: "p-oud", Name: "Royal Oud", Size: "50ml", Quantity: 2, FinalPrice: decimal.NewFromInt(4500)},
	}
	subtotal := domain.Subtotal(items)
	fee := decimal.NewFromInt(400)
	return &domain.Order{
		ID: uuid.NewString(),
		Customer: domain.Customer{
			FullName: "Amina Benali",
			Phone:    "0555123456",
			Address:  "12 Rue Didouche Mourad",
			Wilaya:   "Alger",
			Commune:  "Sidi M'Hamed",
		},
		Items:       items,
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Total:       subtotal.Add(fee),
		Status:      domain.OrderStatusPending,
		CreatedAt:   createdAt.UTC(),
	}
}
