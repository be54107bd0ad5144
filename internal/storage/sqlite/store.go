package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"snack-counter/internal/models"
	"snack-counter/internal/storage/sqlite/migrations"
)

// Store provides SQLite-backed order persistence
type Store struct {
	sqlDB *sql.DB
}

// Open opens the database file and applies migrations
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if err := runMigrations(sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{sqlDB: sqlDB}, nil
}

func runMigrations(db *sql.DB) error {
	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("could not open migration source: %w", err)
	}

	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

// Close releases the SQLite connection
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Load returns every stored order in saved order
func (s *Store) Load(ctx context.Context) ([]models.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
		SELECT position, number, customer_name, total_amount, placed_at
		FROM orders
		ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	index := make(map[int64]int)
	for rows.Next() {
		var (
			position int64
			order    models.Order
		)
		if err := rows.Scan(&position, &order.Number, &order.User, &order.Total, &order.Time); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		index[position] = len(orders)
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}

	lineRows, err := s.sqlDB.QueryContext(ctx, `
		SELECT order_position, name, quantity, line_total
		FROM order_lines
		ORDER BY order_position, line_no`)
	if err != nil {
		return nil, fmt.Errorf("query order lines: %w", err)
	}
	defer lineRows.Close()

	for lineRows.Next() {
		var (
			position int64
			line     models.CartLine
		)
		if err := lineRows.Scan(&position, &line.Name, &line.Quantity, &line.LineTotal); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		i, ok := index[position]
		if !ok {
			continue
		}
		orders[i].Cart = append(orders[i].Cart, line)
	}
	if err := lineRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order lines: %w", err)
	}

	return orders, nil
}

// Save replaces the stored list in one transaction
func (s *Store) Save(ctx context.Context, orders []models.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM order_lines`); err != nil {
		return fmt.Errorf("clear order lines: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM orders`); err != nil {
		return fmt.Errorf("clear orders: %w", err)
	}

	for position, order := range orders {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO orders (position, number, customer_name, total_amount, placed_at)
			VALUES (?, ?, ?, ?, ?)`,
			position, order.Number, order.User, order.Total, order.Time,
		); err != nil {
			return fmt.Errorf("insert order %s: %w", order.Number, err)
		}

		for lineNo, line := range order.Cart {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO order_lines (order_position, line_no, name, quantity, line_total)
				VALUES (?, ?, ?, ?, ?)`,
				position, lineNo, line.Name, line.Quantity, line.LineTotal,
			); err != nil {
				return fmt.Errorf("insert line for order %s: %w", order.Number, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}
