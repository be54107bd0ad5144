package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snack-counter/internal/logger"
	"snack-counter/internal/models"
)

type fakeAcknowledger struct {
	acked    []uint64
	nacked   []uint64
	requeued []bool
}

func (a *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	a.acked = append(a.acked, tag)
	return nil
}

func (a *fakeAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	a.nacked = append(a.nacked, tag)
	a.requeued = append(a.requeued, requeue)
	return nil
}

func (a *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	return a.Nack(tag, false, requeue)
}

func newTestConsumer() *Consumer {
	return NewConsumer(nil, logger.NewNop(), CounterDisplayQueue, "test", 1)
}

func TestProcessMessage_AcksOnSuccess(t *testing.T) {
	ack := &fakeAcknowledger{}
	delivery := amqp091.Delivery{Acknowledger: ack, DeliveryTag: 7, Body: []byte(`{}`)}

	var got []byte
	newTestConsumer().processMessage(context.Background(), delivery, func(ctx context.Context, body []byte) error {
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		got = body
		return nil
	})

	assert.Equal(t, []byte(`{}`), got)
	assert.Equal(t, []uint64{7}, ack.acked)
	assert.Empty(t, ack.nacked)
}

func TestProcessMessage_RequeuesOnFailure(t *testing.T) {
	ack := &fakeAcknowledger{}
	delivery := amqp091.Delivery{Acknowledger: ack, DeliveryTag: 8}

	newTestConsumer().processMessage(context.Background(), delivery, func(context.Context, []byte) error {
		return errors.New("display busy")
	})

	assert.Empty(t, ack.acked)
	assert.Equal(t, []uint64{8}, ack.nacked)
	assert.Equal(t, []bool{true}, ack.requeued)
}

func TestProcessMessage_DropsMalformed(t *testing.T) {
	ack := &fakeAcknowledger{}
	delivery := amqp091.Delivery{Acknowledger: ack, DeliveryTag: 9, Body: []byte("not json")}

	newTestConsumer().processMessage(context.Background(), delivery, func(_ context.Context, body []byte) error {
		var msg models.OrderPlacedMessage
		return ParseMessage(body, &msg)
	})

	assert.Equal(t, []uint64{9}, ack.nacked)
	assert.Equal(t, []bool{false}, ack.requeued)
}

func TestParseMessage(t *testing.T) {
	var msg models.OrderPlacedMessage
	require.NoError(t, ParseMessage([]byte(`{"order_number":"ORD_20261019_001","total":2000}`), &msg))
	assert.Equal(t, "ORD_20261019_001", msg.OrderNumber)
	assert.Equal(t, 2000, msg.Total)

	err := ParseMessage([]byte("{"), &msg)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestNewPublishing(t *testing.T) {
	now := time.Date(2026, 10, 19, 18, 30, 0, 0, time.UTC)
	msg := &models.OrderPlacedMessage{
		OrderNumber: "ORD_20261019_001",
		User:        "Ana",
		Items:       []models.OrderedItemInfo{{Name: "Popcorn", Quantity: 2, LineTotal: 2000}},
		Total:       2000,
		PlacedAt:    now,
	}

	publishing, err := newPublishing(msg, true, now)
	require.NoError(t, err)

	assert.Equal(t, "application/json", publishing.ContentType)
	assert.Equal(t, amqp091.Persistent, publishing.DeliveryMode)
	assert.Equal(t, now, publishing.Timestamp)

	var decoded models.OrderPlacedMessage
	require.NoError(t, json.Unmarshal(publishing.Body, &decoded))
	assert.Equal(t, "Ana", decoded.User)
	assert.Equal(t, 2, decoded.Items[0].Quantity)

	transient, err := newPublishing(msg, false, now)
	require.NoError(t, err)
	assert.Equal(t, amqp091.Transient, transient.DeliveryMode)
}

func TestNewPublishing_UnencodableMessage(t *testing.T) {
	_, err := newPublishing(make(chan int), true, time.Now())
	assert.Error(t, err)
}
