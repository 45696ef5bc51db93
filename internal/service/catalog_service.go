package service

import (
	"context"
	"sort"

	"github.com/zedlink-test/My-Shop/internal/delivery"
	"github.com/zedlink-test/My-Shop/internal/domain"
	"github.com/zedlink-test/My-Shop/internal/repository"
)

// CatalogService serves the public product and region listings.
type CatalogService struct {
	products repository.ProductRepository
	regions  *delivery.Table
}

func NewCatalogService(products repository.ProductRepository, regions *delivery.Table) *CatalogService {
	return &CatalogService{products: products, regions: regions}
}

func (s *CatalogService) ListProducts(ctx context.Context, category string) ([]*domain.Product, error) {
	return s.products.ListProducts(ctx, category)
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.GetProduct(ctx, id)
}

// Categories lists the distinct product categories in name order.
func (s *CatalogService) Categories(ctx context.Context) ([]string, error) {
	products, err := s.products.ListProducts(ctx, "")
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	categories := []string{}
	for _, p := range products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		categories = append(categories, p.Category)
	}
	sort.Strings(categories)
	return categories, nil
}

func (s *CatalogService) Regions() []domain.Region {
	return s.regions.All()
}
