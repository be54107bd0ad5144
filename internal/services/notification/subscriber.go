package notification

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"snack-counter/internal/logger"
	"snack-counter/internal/messaging"
	"snack-counter/internal/models"
)

// Consumer delivers message bodies to a handler until ctx is done
type Consumer interface {
	StartConsuming(ctx context.Context, handler messaging.MessageHandler) error
	Close() error
}

// Subscriber prints a preparation ticket for every placed order
type Subscriber struct {
	consumer Consumer
	logger   *logger.Logger
	out      io.Writer
	location *time.Location
}

// NewSubscriber creates a counter display subscriber writing tickets to out
func NewSubscriber(consumer Consumer, log *logger.Logger, out io.Writer) *Subscriber {
	return &Subscriber{
		consumer: consumer,
		logger:   log,
		out:      out,
		location: time.Local,
	}
}

// Start consumes until ctx is cancelled, then shuts the consumer down
func (s *Subscriber) Start(ctx context.Context) error {
	requestID := logger.GenerateRequestID()

	s.logger.Info("service_started", "Counter display started", requestID, nil)

	err := s.consumer.StartConsuming(ctx, s.handleOrderPlaced)
	s.gracefulShutdown(requestID)

	if err != nil && ctx.Err() == nil {
		s.logger.Error("consumer_failed", "Counter display consumer failed", requestID, err, nil)
		return err
	}
	return nil
}

// handleOrderPlaced decodes one order-placed message and prints its ticket
func (s *Subscriber) handleOrderPlaced(ctx context.Context, body []byte) error {
	requestID := logger.GenerateRequestID()

	var msg models.OrderPlacedMessage
	if err := messaging.ParseMessage(body, &msg); err != nil {
		s.logger.Error("message_parsing_failed", "Failed to parse order placed message", requestID, err, nil)
		return fmt.Errorf("failed to parse order placed message: %w", err)
	}
	if msg.OrderNumber == "" || len(msg.Items) == 0 {
		err := fmt.Errorf("%w: order number and items are required", messaging.ErrMalformed)
		s.logger.Error("message_invalid", "Order placed message is incomplete", requestID, err, nil)
		return err
	}

	if _, err := fmt.Fprintln(s.out, s.formatTicket(&msg)); err != nil {
		return fmt.Errorf("failed to print ticket: %w", err)
	}

	s.logger.Info("ticket_displayed", "Order ticket displayed", requestID, map[string]interface{}{
		"order_number": msg.OrderNumber,
		"user":         msg.User,
		"items":        len(msg.Items),
		"total":        msg.Total,
	})

	return nil
}

// formatTicket renders "[15:04:05] <number> for <user>: 2 x Popcorn, 1 x Soda"
func (s *Subscriber) formatTicket(msg *models.OrderPlacedMessage) string {
	items := make([]string, 0, len(msg.Items))
	for _, item := range msg.Items {
		items = append(items, fmt.Sprintf("%d x %s", item.Quantity, item.Name))
	}

	return fmt.Sprintf("[%s] %s for %s: %s",
		msg.PlacedAt.In(s.location).Format("15:04:05"),
		msg.OrderNumber,
		msg.User,
		strings.Join(items, ", "),
	)
}

func (s *Subscriber) gracefulShutdown(requestID string) {
	s.logger.Info("graceful_shutdown", "Starting graceful shutdown", requestID, nil)

	if s.consumer != nil {
		if err := s.consumer.Close(); err != nil {
			s.logger.Error("consumer_close_failed", "Failed to close consumer", requestID, err, nil)
		}
	}

	s.logger.Info("graceful_shutdown", "Graceful shutdown completed", requestID, nil)
}
