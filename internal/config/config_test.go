package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "storefront", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
		assert.Equal(t, "storefront.db", cfg.Storage.SQLitePath)
		assert.Equal(t, "orders", cfg.Kafka.Topic)
		assert.Empty(t, cfg.Kafka.Brokers)
		assert.Equal(t, "https://api.telegram.org", cfg.Telegram.BaseURL)
		assert.Equal(t, 5*time.Second, cfg.Telegram.Timeout)
		assert.Equal(t, "authenticated", cfg.Auth.AdminRole)
		assert.Equal(t, "sid", cfg.Session.CookieName)
		assert.Equal(t, "console", cfg.Log.Format)
	})

	t.Run("loads values from environment variables with STOREFRONT prefix", func(t *testing.T) {
		t.Setenv("STOREFRONT_APP_PORT", "9000")
		t.Setenv("STOREFRONT_STORAGE_DRIVER", "Postgres")
		t.Setenv("STOREFRONT_STORAGE_DSN", "postgres://shop@db/shop?sslmode=disable")
		t.Setenv("STOREFRONT_REDIS_ADDR", "redis:6379")
		t.Setenv("STOREFRONT_REDIS_CART_TTL", "2h")
		t.Setenv("STOREFRONT_KAFKA_BROKERS", "k1:9092, k2:9092")
		t.Setenv("STOREFRONT_TELEGRAM_TIMEOUT", "3s")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, DriverPostgres, cfg.Storage.Driver)
		assert.Equal(t, "postgres://shop@db/shop?sslmode=disable", cfg.Storage.DSN)
		assert.Equal(t, "redis:6379", cfg.Redis.Addr)
		assert.Equal(t, 2*time.Hour, cfg.Redis.CartTTL)
		assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
		assert.Equal(t, 3*time.Second, cfg.Telegram.Timeout)
	})

	t.Run("reads unprefixed telegram credentials", func(t *testing.T) {
		t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
		t.Setenv("TELEGRAM_CHAT_ID", "-100200")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "123:abc", cfg.Telegram.BotToken)
		assert.Equal(t, "-100200", cfg.Telegram.ChatID)
	})

	t.Run("prefixed telegram credentials win", func(t *testing.T) {
		t.Setenv("TELEGRAM_BOT_TOKEN", "fallback")
		t.Setenv("STOREFRONT_TELEGRAM_BOT_TOKEN", "primary")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "primary", cfg.Telegram.BotToken)
	})

	t.Run("production requires a jwt secret", func(t *testing.T) {
		t.Setenv("STOREFRONT_APP_ENV", "production")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "auth.jwt_secret")
	})

	t.Run("production accepts a complete configuration", func(t *testing.T) {
		t.Setenv("STOREFRONT_APP_ENV", "production")
		t.Setenv("STOREFRONT_AUTH_JWT_SECRET", strings.Repeat("s", 32))
		t.Setenv("STOREFRONT_SESSION_SECURE", "true")

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.IsProduction())
		assert.Equal(t, "json", cfg.Log.Format)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"unknown driver", func(c *Config) { c.Storage.Driver = "dynamo" }, "storage.driver"},
		{"postgres without dsn", func(c *Config) { c.Storage.Driver = DriverPostgres }, "storage.dsn"},
		{"mongo without uri", func(c *Config) { c.Storage.Driver = DriverMongo }, "storage.mongo_uri"},
		{"negative rate", func(c *Config) { c.Telegram.RatePerSecond = -1 }, "telegram.rate_per_second"},
		{"short production secret", func(c *Config) {
			c.App.Env = "production"
			c.Auth.JWTSecret = "short"
		}, "at least 32 characters"},
		{"insecure production cookie", func(c *Config) {
			c.App.Env = "production"
			c.Auth.JWTSecret = strings.Repeat("x", 40)
		}, "session.secure"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			applyDefaults(cfg)
			tt.mutate(cfg)

			err := cfg.validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, splitList([]string{"a,b", " c "}))
	assert.Nil(t, splitList([]string{""}))
}
