package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"snack-counter/internal/logger"
	"snack-counter/internal/models"
)

const publishTimeout = 10 * time.Second

// ReceiptAppender records a receipt block for a placed order
type ReceiptAppender interface {
	Append(order models.Order) error
}

// Notifier announces placed orders to the counter display
type Notifier interface {
	PublishOrderPlaced(ctx context.Context, msg *models.OrderPlacedMessage) error
}

// CheckoutResult is a placed order plus the non-fatal problems met while recording it
type CheckoutResult struct {
	Order    models.Order
	Warnings []string
}

type Service struct {
	store    *Store
	receipts ReceiptAppender
	notifier Notifier
	logger   *logger.Logger
	now      func() time.Time
}

type Option func(*Service)

// WithClock overrides the wall clock used to stamp orders
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithNotifier enables order-placed announcements
func WithNotifier(n Notifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

func NewService(store *Store, receipts ReceiptAppender, log *logger.Logger, opts ...Option) *Service {
	if log == nil {
		log = logger.NewNop()
	}

	s := &Service{
		store:    store,
		receipts: receipts,
		logger:   log,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the order store backing the service
func (s *Service) Store() *Store {
	return s.store
}

// Checkout turns a confirmed cart into a stored order. Storage, receipt and
// publish failures are returned as warnings; the order stays placed.
func (s *Service) Checkout(ctx context.Context, user string, lines []models.CartLine) (*CheckoutResult, error) {
	requestID := logger.GenerateRequestID()

	if len(lines) == 0 {
		return nil, models.ErrEmptyCart
	}

	placedAt := s.now()
	number := models.GenerateOrderNumber(placedAt, models.NextOrderSequence(s.store.Orders(), placedAt))
	order := models.NewOrder(number, user, lines, placedAt)

	result := &CheckoutResult{Order: order}

	if err := s.store.Append(ctx, order); err != nil {
		if !errors.Is(err, ErrSaveFailed) {
			s.logger.Error("order_rejected", "Order failed validation", requestID, err, map[string]interface{}{
				"order_number": order.Number,
			})
			return nil, err
		}
		s.logger.Error("order_persist_failed", "Order kept in memory only", requestID, err, map[string]interface{}{
			"order_number": order.Number,
		})
		result.Warnings = append(result.Warnings, fmt.Sprintf("order could not be saved to storage: %v", err))
	}

	if s.receipts != nil {
		if err := s.receipts.Append(order); err != nil {
			s.logger.Error("receipt_write_failed", "Failed to append receipt", requestID, err, map[string]interface{}{
				"order_number": order.Number,
			})
			result.Warnings = append(result.Warnings, fmt.Sprintf("receipt could not be written: %v", err))
		}
	}

	if s.notifier != nil {
		pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
		err := s.notifier.PublishOrderPlaced(pubCtx, models.CreateOrderPlacedMessage(order, placedAt))
		cancel()
		if err != nil {
			s.logger.Error("order_publish_failed", "Failed to publish order placed message", requestID, err, map[string]interface{}{
				"order_number": order.Number,
			})
			result.Warnings = append(result.Warnings, fmt.Sprintf("counter display was not notified: %v", err))
		}
	}

	s.logger.Info("order_placed", "Order placed", requestID, map[string]interface{}{
		"order_number": order.Number,
		"user":         order.User,
		"total":        order.Total,
		"lines":        len(order.Cart),
	})

	return result, nil
}
