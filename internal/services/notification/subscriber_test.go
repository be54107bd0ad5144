package notification

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snack-counter/internal/logger"
	"snack-counter/internal/messaging"
)

type scriptedConsumer struct {
	bodies  [][]byte
	results []error
	err     error
	closed  bool
}

func (c *scriptedConsumer) StartConsuming(ctx context.Context, handler messaging.MessageHandler) error {
	for _, body := range c.bodies {
		c.results = append(c.results, handler(ctx, body))
	}
	return c.err
}

func (c *scriptedConsumer) Close() error {
	c.closed = true
	return nil
}

func newTestSubscriber(consumer Consumer) (*Subscriber, *bytes.Buffer) {
	out := &bytes.Buffer{}
	s := NewSubscriber(consumer, logger.NewNop(), out)
	s.location = time.UTC
	return s, out
}

const placedBody = `{
	"order_number": "ORD_20261019_001",
	"user": "Ana",
	"items": [{"name": "Popcorn", "quantity": 2, "line_total": 2000}, {"name": "Soda", "quantity": 1, "line_total": 500}],
	"total": 2500,
	"placed_at": "2026-10-19T18:30:00Z"
}`

func TestHandleOrderPlaced_PrintsTicket(t *testing.T) {
	s, out := newTestSubscriber(nil)

	require.NoError(t, s.handleOrderPlaced(context.Background(), []byte(placedBody)))

	assert.Equal(t, "[18:30:00] ORD_20261019_001 for Ana: 2 x Popcorn, 1 x Soda\n", out.String())
}

func TestHandleOrderPlaced_RejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: "popcorn please"},
		{name: "missing number", body: `{"user":"Ana","items":[{"name":"Soda","quantity":1}]}`},
		{name: "no items", body: `{"order_number":"ORD_20261019_001","items":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, out := newTestSubscriber(nil)

			err := s.handleOrderPlaced(context.Background(), []byte(tt.body))
			assert.ErrorIs(t, err, messaging.ErrMalformed)
			assert.Empty(t, out.String())
		})
	}
}

func TestStart_ConsumesThenCloses(t *testing.T) {
	consumer := &scriptedConsumer{
		bodies: [][]byte{[]byte(placedBody), []byte("{")},
		err:    context.Canceled,
	}
	s, out := newTestSubscriber(consumer)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, s.Start(ctx))
	assert.True(t, consumer.closed)
	require.Len(t, consumer.results, 2)
	assert.NoError(t, consumer.results[0])
	assert.Error(t, consumer.results[1])
	assert.Contains(t, out.String(), "ORD_20261019_001 for Ana")
}

func TestStart_ReportsConsumerFailure(t *testing.T) {
	consumer := &scriptedConsumer{err: errors.New("channel closed")}
	s, _ := newTestSubscriber(consumer)

	err := s.Start(context.Background())
	require.Error(t, err)
	assert.True(t, consumer.closed)
}
