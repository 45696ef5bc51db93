// Command seed fills the configured store with demo products.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/zedlink-test/My-Shop/internal/config"
	"github.com/zedlink-test/My-Shop/internal/domain"
	"github.com/zedlink-test/My-Shop/internal/logger"
	"github.com/zedlink-test/My-Shop/internal/repository"
)

var categories = []string{"Perfume", "Oils", "Incense", "Gift Sets"}

func main() {
	count := flag.Int("n", 20, "number of products to create")
	seed := flag.Uint64("seed", 0, "faker seed, 0 for random")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.DefaultConfig())
	defer log.Sync()

	ctx := context.Background()
	store, err := open(ctx, cfg.Storage)
	if err != nil {
		log.Fatal("failed to open storage", zap.Error(err))
	}
	defer store.Close()

	f := gofakeit.New(*seed)
	for i := 0; i < *count; i++ {
		p := fakeProduct(f)
		if err := store.CreateProduct(ctx, p); err != nil {
			log.Fatal("failed to create product", zap.String("name", p.Name), zap.Error(err))
		}
		log.Debug("product created", zap.String("id", p.ID), zap.String("name", p.Name))
	}

	total, err := store.CountProducts(ctx)
	if err != nil {
		log.Fatal("failed to count products", zap.Error(err))
	}
	log.Info("seed complete", zap.Int("created", *count), zap.Int64("total", total))
}

func fakeProduct(f *gofakeit.Faker) *domain.Product {
	base := int64(f.IntRange(8, 150)) * 100
	p := &domain.Product{
		Name:        f.ProductName(),
		Description: f.ProductDescription(),
		Price:       decimal.NewFromInt(base),
		Category:    categories[f.IntRange(0, len(categories)-1)],
		Image:       fmt.Sprintf("https://picsum.photos/seed/%s/300", f.UUID()),
	}
	if f.Bool() {
		p.Sizes = []domain.SizeVariant{
			{Label: "30ml", Price: decimal.NewFromInt(base)},
			{Label: "50ml", Price: decimal.NewFromInt(base * 3 / 2)},
			{Label: "100ml", Price: decimal.NewFromInt(base * 5 / 2)},
		}
	}
	return p
}

func open(ctx context.Context, cfg config.StorageConfig) (repository.Store, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		repo, err := repository.NewPostgresRepository(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		return repo, repo.RunMigrations()
	case config.DriverMongo:
		repo, err := repository.OpenMongoRepository(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return repo, nil
	default:
		repo, err := repository.NewSQLiteRepository(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return repo, repo.RunMigrations()
	}
}
