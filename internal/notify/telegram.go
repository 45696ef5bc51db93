// Package notify delivers best-effort order notifications to the shop
// operator's Telegram chat.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/zedlink-test/My-Shop/internal/domain"
	"github.com/zedlink-test/My-Shop/internal/logger"
	"github.com/zedlink-test/My-Shop/internal/metrics"
)

const (
	placeholderToken  = "YOUR_TELEGRAM_BOT_TOKEN"
	placeholderChatID = "YOUR_CHAT_ID"

	defaultBaseURL = "https://api.telegram.org"
	defaultTimeout = 5 * time.Second
)

// Notification outcomes as counted in metrics.
const (
	ResultDelivered = "delivered"
	ResultFailed    = "failed"
	ResultDisabled  = "disabled"
	ResultRejected  = "rejected"
	ResultThrottled = "throttled"
)

var ErrUnexpectedStatus = errors.New("telegram: unexpected status")

// errCallerGone marks a send abandoned because the caller's context ended.
// It says nothing about Telegram's health and is not counted by the breaker.
var errCallerGone = errors.New("caller context done")

type Config struct {
	BotToken      string
	ChatID        string
	BaseURL       string
	Timeout       time.Duration
	RatePerSecond float64
}

// Enabled is false when either credential is missing or still a placeholder.
func (c Config) Enabled() bool {
	token := strings.TrimSpace(c.BotToken)
	chat := strings.TrimSpace(c.ChatID)
	if token == "" || token == placeholderToken {
		return false
	}
	return chat != "" && chat != placeholderChatID
}

type Telegram struct {
	cfg     Config
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[struct{}]
	limiter *rate.Limiter
	log     *zap.Logger
	metrics *metrics.Metrics
}

type Option func(*Telegram)

func WithHTTPClient(c *http.Client) Option {
	return func(t *Telegram) { t.client = c }
}

func WithLogger(l *zap.Logger) Option {
	return func(t *Telegram) { t.log = l.Named("telegram") }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(t *Telegram) { t.metrics = m }
}

func New(cfg Config, opts ...Option) *Telegram {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = 1
	}

	t := &Telegram{
		cfg:     cfg,
		client:  &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 5),
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}

	t.breaker = gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "telegram",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errCallerGone)
		},
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			t.log.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	if cfg.Enabled() {
		t.log.Info("telegram notifications enabled", zap.String("token", logger.Mask(cfg.BotToken, 5)))
	} else {
		t.log.Warn("telegram bot token or chat id not set, notifications disabled")
	}

	return t
}

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// Notify sends the order summary and reports whether Telegram accepted it.
// Failures are logged and never returned; the caller decides nothing on
// the result beyond recording it.
func (t *Telegram) Notify(ctx context.Context, order *domain.Order) bool {
	if !t.cfg.Enabled() {
		t.metrics.ObserveNotification(ResultDisabled)
		return false
	}

	parent := ctx
	ctx, cancel := context.WithTimeout(ctx, t.cfg.Timeout)
	defer cancel()

	// Throttled calls never reach the breaker.
	if err := t.limiter.Wait(ctx); err != nil {
		t.log.Warn("order notification throttled", zap.String("order_id", order.ID), zap.Error(err))
		t.metrics.ObserveNotification(ResultThrottled)
		return false
	}

	_, err := t.breaker.Execute(func() (struct{}, error) {
		if err := t.send(ctx, FormatOrder(order)); err != nil {
			if parent.Err() != nil {
				return struct{}{}, fmt.Errorf("%w: %w", errCallerGone, err)
			}
			return struct{}{}, err
		}
		return struct{}{}, nil
	})
	if err != nil {
		result := ResultFailed
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			result = ResultRejected
		}
		t.log.Warn("order notification failed",
			zap.String("order_id", order.ID),
			zap.String("result", result),
			zap.Error(err))
		t.metrics.ObserveNotification(result)
		return false
	}

	t.log.Info("order notification delivered", zap.String("order_id", order.ID))
	t.metrics.ObserveNotification(ResultDelivered)
	return true
}

func (t *Telegram) send(ctx context.Context, text string) error {
	body, err := json.Marshal(sendMessageRequest{
		ChatID:    t.cfg.ChatID,
		Text:      text,
		ParseMode: "Markdown",
	})
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", t.cfg.BaseURL, t.cfg.BotToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		// The url carries the token; drop it from the error.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	return nil
}
