package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/zedlink-test/My-Shop/internal/config"
	"github.com/zedlink-test/My-Shop/internal/delivery"
	"github.com/zedlink-test/My-Shop/internal/events"
	h "github.com/zedlink-test/My-Shop/internal/http"
	"github.com/zedlink-test/My-Shop/internal/logger"
	"github.com/zedlink-test/My-Shop/internal/metrics"
	"github.com/zedlink-test/My-Shop/internal/notify"
	"github.com/zedlink-test/My-Shop/internal/order"
	"github.com/zedlink-test/My-Shop/internal/repository"
	"github.com/zedlink-test/My-Shop/internal/service"
	"github.com/zedlink-test/My-Shop/internal/session"
)

func main() {
	// .env is optional; real deployments set the environment directly.
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
	}).With(zap.String("service", cfg.App.Name), zap.String("env", cfg.App.Env))
	defer log.Sync()
	zap.ReplaceGlobals(log)

	ctx := context.Background()

	store, err := openStore(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal("failed to open storage", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	defer store.Close()

	sessions, closeSessions := openSessions(ctx, cfg.Redis, log)
	defer closeSessions()

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.Kafka.Topic, cfg.Kafka.Brokers...)
		log.Info("order events enabled", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}
	defer publisher.Close()

	m := metrics.New()
	regions := delivery.Default()

	notifier := notify.New(notify.Config{
		BotToken:      cfg.Telegram.BotToken,
		ChatID:        cfg.Telegram.ChatID,
		BaseURL:       cfg.Telegram.BaseURL,
		Timeout:       cfg.Telegram.Timeout,
		RatePerSecond: cfg.Telegram.RatePerSecond,
	}, notify.WithLogger(log), notify.WithMetrics(m))

	carts := service.NewCartService(store, sessions, regions, log, m)
	checkout := service.NewCheckoutService(carts, order.NewAssembler(regions), notifier, store, publisher, log, m)

	if cfg.Auth.JWTSecret == "" {
		log.Warn("auth.jwt_secret not set, admin endpoints disabled")
	}

	router := h.NewRouter(h.RouterConfig{
		RequestTimeout: cfg.HTTP.WriteTimeout,
		MaxBodySize:    cfg.HTTP.MaxBodySize,
		Session: h.SessionOptions{
			CookieName: cfg.Session.CookieName,
			MaxAge:     cfg.Session.MaxAge,
			Secure:     cfg.Session.Secure,
		},
		JWTSecret: cfg.Auth.JWTSecret,
		AdminRole: cfg.Auth.AdminRole,
	}, h.Services{
		Catalog:  service.NewCatalogService(store, regions),
		Carts:    carts,
		Checkout: checkout,
		Admin:    service.NewAdminService(store, log),
		Metrics:  m.Handler(),
	}, log)

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      otelhttp.NewHandler(router, cfg.App.Name),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("storefront starting", zap.String("addr", srv.Addr), zap.String("storage", cfg.Storage.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}

func openStore(ctx context.Context, cfg config.StorageConfig, log *zap.Logger) (repository.Store, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		repo, err := repository.NewPostgresRepository(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		if err := repo.RunMigrations(); err != nil {
			repo.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		log.Info("connected to postgres")
		return repo, nil

	case config.DriverMongo:
		repo, err := repository.OpenMongoRepository(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		log.Info("connected to mongodb", zap.String("database", cfg.MongoDatabase))
		return repo, nil

	default:
		repo, err := repository.NewSQLiteRepository(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := repo.RunMigrations(); err != nil {
			repo.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		log.Info("opened sqlite database", zap.String("path", cfg.SQLitePath))
		return repo, nil
	}
}

// openSessions uses Redis when an address is configured and falls back to
// process memory when Redis is absent or unreachable.
func openSessions(ctx context.Context, cfg config.RedisConfig, log *zap.Logger) (session.Store, func()) {
	if cfg.Addr == "" {
		log.Info("redis not configured, carts kept in memory")
		return session.NewMemoryStore(), func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("redis ping failed, carts kept in memory", zap.String("addr", cfg.Addr), zap.Error(err))
		client.Close()
		return session.NewMemoryStore(), func() {}
	}
	log.Info("redis ping succeeded", zap.String("addr", cfg.Addr))

	return session.NewRedisStore(client, cfg.CartTTL), func() { client.Close() }
}
