// Command order-events tails the order.placed topic and logs each order,
// giving the shop a record of orders independent of the Telegram chat.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/zedlink-test/My-Shop/internal/config"
	"github.com/zedlink-test/My-Shop/internal/events"
	"github.com/zedlink-test/My-Shop/internal/logger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	defer log.Sync()

	if len(cfg.Kafka.Brokers) == 0 {
		log.Fatal("kafka.brokers is not configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := events.NewConsumer(cfg.Kafka.Topic, cfg.App.Name+"-order-events", cfg.Kafka.Brokers,
		func(_ context.Context, e events.OrderPlaced) error {
			log.Info("order placed",
				zap.String("order_id", e.OrderID),
				zap.String("wilaya", e.Wilaya),
				zap.Int("items", e.ItemCount),
				zap.String("total", e.Total.String()+" "+e.Currency),
				zap.Time("placed_at", e.PlacedAt))
			return nil
		}, log)
	defer consumer.Close()

	log.Info("consuming order events", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	if err := consumer.Run(ctx); err != nil {
		log.Error("consumer stopped", zap.Error(err))
		os.Exit(1)
	}
	log.Info("consumer stopped")
}
