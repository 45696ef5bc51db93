package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// OrderPlacedHandler receives each decoded order.placed event.
type OrderPlacedHandler func(ctx context.Context, event OrderPlaced) error

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Consumer reads order events from the topic the storefront publishes to.
// Offsets are committed by the reader as messages are read, so a failing
// handler does not stop the stream.
type Consumer struct {
	reader  messageReader
	handler OrderPlacedHandler
	log     *zap.Logger
}

func NewConsumer(topic, groupID string, brokers []string, handler OrderPlacedHandler, log *zap.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MaxBytes: 10e6, // 10MB
	})
	return &Consumer{reader: reader, handler: handler, log: log.Named("consumer")}
}

// Run blocks until ctx is cancelled or the reader fails.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("read order event: %w", err)
		}
		c.process(ctx, m)
	}
}

func (c *Consumer) process(ctx context.Context, m kafka.Message) {
	log := c.log.With(zap.String("key", string(m.Key)), zap.Int64("offset", m.Offset))

	if t := eventType(m); t != "" && t != EventOrderPlaced {
		log.Debug("skipping event", zap.String("event_type", t))
		return
	}

	var event OrderPlaced
	if err := json.Unmarshal(m.Value, &event); err != nil {
		log.Warn("malformed order event", zap.Error(err))
		return
	}
	if event.OrderID == "" {
		log.Warn("order event without order id")
		return
	}

	if err := c.handler(ctx, event); err != nil {
		log.Error("order event handler failed", zap.String("order_id", event.OrderID), zap.Error(err))
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}

func eventType(m kafka.Message) string {
	for _, h := range m.Headers {
		if h.Key == "event_type" {
			return string(h.Value)
		}
	}
	return ""
}
