package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// scriptedReader replays messages, then blocks until the context ends.
type scriptedReader struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (r *scriptedReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.messages) > 0 {
		m := r.messages[0]
		r.messages = r.messages[1:]
		return m, nil
	}
	if r.err != nil {
		return kafka.Message{}, r.err
	}
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *scriptedReader) Close() error {
	r.closed = true
	return nil
}

func orderMessage(t *testing.T, id string, eventType string) kafka.Message {
	t.Helper()
	payload, err := json.Marshal(OrderPlaced{
		OrderID:  id,
		Total:    decimal.NewFromInt(9400),
		Currency: "DZD",
	})
	require.NoError(t, err)
	return kafka.Message{
		Key:     []byte(id),
		Value:   payload,
		Headers: []kafka.Header{{Key: "event_type", Value: []byte(eventType)}},
	}
}

func TestConsumer_DispatchesOrderPlaced(t *testing.T) {
	reader := &scriptedReader{messages: []kafka.Message{
		orderMessage(t, "o-1", EventOrderPlaced),
		orderMessage(t, "o-2", "order.cancelled"),
		{Key: []byte("bad"), Value: []byte("{not json")},
		orderMessage(t, "", EventOrderPlaced),
		orderMessage(t, "o-3", EventOrderPlaced),
	}}

	var got []OrderPlaced
	c := &Consumer{reader: reader, log: zap.NewNop(), handler: func(_ context.Context, e OrderPlaced) error {
		got = append(got, e)
		if e.OrderID == "o-1" {
			return errors.New("handler failed")
		}
		return nil
	}}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	require.NoError(t, c.Run(ctx))

	require.Len(t, got, 2)
	assert.Equal(t, "o-1", got[0].OrderID)
	assert.Equal(t, "o-3", got[1].OrderID)
	assert.True(t, decimal.NewFromInt(9400).Equal(got[1].Total))
}

func TestConsumer_ReturnsReaderError(t *testing.T) {
	boom := errors.New("broker unreachable")
	c := &Consumer{reader: &scriptedReader{err: boom}, log: zap.NewNop(), handler: func(context.Context, OrderPlaced) error { return nil }}

	err := c.Run(context.Background())

	assert.ErrorIs(t, err, boom)
}

func TestConsumer_Close(t *testing.T) {
	reader := &scriptedReader{}
	c := &Consumer{reader: reader, log: zap.NewNop()}

	require.NoError(t, c.Close())
	assert.True(t, reader.closed)
}
