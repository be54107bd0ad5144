// Package storage defines the durable backends behind the order store.
//
// Backends persist the whole ordered list of orders at once: Save always
// receives every order and replaces what was stored before, and Load returns
// them in the order they were saved. Implementations live in subpackages
// (jsonfile, sqlite) and in internal/database for PostgreSQL.
package storage

import (
	"context"

	"snack-counter/internal/models"
)

// Backend persists the full order list
type Backend interface {
	Load(ctx context.Context) ([]models.Order, error)
	Save(ctx context.Context, orders []models.Order) error
	Close() error
}

// Memory keeps nothing across restarts
type Memory struct{}

func (Memory) Load(ctx context.Context) ([]models.Order, error) {
	return nil, ctx.Err()
}

func (Memory) Save(ctx context.Context, _ []models.Order) error {
	return ctx.Err()
}

func (Memory) Close() error {
	return nil
}
