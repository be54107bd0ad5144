package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"snack-counter/internal/models"
)

// OrderStore persists the order list in PostgreSQL
type OrderStore struct {
	db *DB
}

func NewOrderStore(db *DB) *OrderStore {
	return &OrderStore{db: db}
}

// Load returns every stored order in saved order
func (s *OrderStore) Load(ctx context.Context) ([]models.Order, error) {
	rows, err := s.db.Query(ctx, GetAllOrdersSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}

	var orders []models.Order
	index := make(map[int]int)
	for rows.Next() {
		var (
			id    int
			order models.Order
		)
		if err := rows.Scan(&id, &order.Number, &order.User, &order.Total, &order.Time); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		index[id] = len(orders)
		orders = append(orders, order)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read orders: %w", err)
	}

	itemRows, err := s.db.Query(ctx, GetAllOrderItemsSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var (
			orderID int
			line    models.CartLine
		)
		if err := itemRows.Scan(&orderID, &line.Name, &line.Quantity, &line.LineTotal); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		if i, ok := index[orderID]; ok {
			orders[i].Cart = append(orders[i].Cart, line)
		}
	}
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read order items: %w", err)
	}

	return orders, nil
}

// Save replaces the stored list in one transaction
func (s *OrderStore) Save(ctx context.Context, orders []models.Order) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, DeleteAllOrderItemsSQL); err != nil {
		return fmt.Errorf("failed to clear order items: %w", err)
	}
	if _, err := tx.Exec(ctx, DeleteAllOrdersSQL); err != nil {
		return fmt.Errorf("failed to clear orders: %w", err)
	}

	for position, order := range orders {
		var orderID int
		err := tx.QueryRow(ctx, InsertOrderSQL,
			position, order.Number, order.User, order.Total, order.Time,
		).Scan(&orderID)
		if err != nil {
			return fmt.Errorf("failed to insert order %s: %w", order.Number, err)
		}

		batch := &pgx.Batch{}
		for lineNo, line := range order.Cart {
			batch.Queue(InsertOrderItemSQL, orderID, lineNo, line.Name, line.Quantity, line.LineTotal)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to insert items for order %s: %w", order.Number, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit orders: %w", err)
	}

	return nil
}

// Close releases the pool
func (s *OrderStore) Close() error {
	s.db.Close()
	return nil
}
