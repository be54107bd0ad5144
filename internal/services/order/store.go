package order

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"snack-counter/internal/logger"
	"snack-counter/internal/models"
	"snack-counter/internal/storage"
)

// ErrSaveFailed marks an order that is kept in memory but did not reach the backend
var ErrSaveFailed = errors.New("save orders")

// Store holds completed orders in insertion order and mirrors them to a backend.
// Backend writes are serialized so a shutdown flush cannot overlap a checkout.
type Store struct {
	backend storage.Backend
	logger  *logger.Logger

	mu     sync.Mutex
	orders []models.Order
	dirty  bool
}

func NewStore(backend storage.Backend, log *logger.Logger) *Store {
	if backend == nil {
		backend = storage.Memory{}
	}
	if log == nil {
		log = logger.NewNop()
	}

	return &Store{
		backend: backend,
		logger:  log,
	}
}

// Load replaces the in-memory list with the backend content. Read failures
// leave the store empty; records failing validation are skipped.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders = nil
	s.dirty = false

	orders, err := s.backend.Load(ctx)
	if err != nil {
		s.logger.Warn("store_load_failed", "Could not load stored orders, starting empty", "startup", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	for i := range orders {
		if err := orders[i].Validate(); err != nil {
			s.logger.Warn("store_record_skipped", "Skipping invalid stored order", "startup", map[string]interface{}{
				"index":        i,
				"order_number": orders[i].Number,
				"error":        err.Error(),
			})
			continue
		}
		s.orders = append(s.orders, orders[i])
	}

	s.logger.Info("store_loaded", fmt.Sprintf("Loaded %d orders", len(s.orders)), "startup", nil)
}

// Append stores a validated order and rewrites the backend. A backend failure
// returns an ErrSaveFailed error with the order already kept in memory.
func (s *Store) Append(ctx context.Context, order models.Order) error {
	if err := order.Validate(); err != nil {
		return fmt.Errorf("invalid order: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders = append(s.orders, order)

	if err := s.backend.Save(ctx, s.snapshot()); err != nil {
		s.dirty = true
		return fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}

	s.dirty = false
	return nil
}

// Orders returns a copy of the stored orders in insertion order
func (s *Store) Orders() []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Store) snapshot() []models.Order {
	orders := make([]models.Order, len(s.orders))
	copy(orders, s.orders)
	return orders
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

// Close retries a pending save, then releases the backend
func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var flushErr error
	if s.dirty {
		if err := s.backend.Save(ctx, s.snapshot()); err != nil {
			flushErr = fmt.Errorf("%w: final flush: %w", ErrSaveFailed, err)
		} else {
			s.dirty = false
			s.logger.Info("store_flushed", "Pending orders written on shutdown", "shutdown", nil)
		}
	}

	if err := s.backend.Close(); err != nil {
		return errors.Join(flushErr, fmt.Errorf("close backend: %w", err))
	}

	return flushErr
}
