package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"snack-counter/internal/models"
)

// Store keeps the order list as a single JSON array on disk
type Store struct {
	path string
}

// Open returns a store for the given file. The file is created on first save.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	return &Store{path: filepath.Clean(path)}, nil
}

// Path returns the backing file location
func (s *Store) Path() string {
	return s.path
}

// Load reads every stored order. A missing file is an empty list.
func (s *Store) Load(ctx context.Context) ([]models.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read orders file: %w", err)
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, nil
	}

	var orders []models.Order
	if err := json.Unmarshal(data, &orders); err != nil {
		return nil, fmt.Errorf("decode orders file: %w", err)
	}

	return orders, nil
}

// Save rewrites the whole file through a temp file and rename
func (s *Store) Save(ctx context.Context, orders []models.Order) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	if orders == nil {
		orders = []models.Order{}
	}
	payload, err := json.MarshalIndent(orders, "", "  ")
	if err != nil {
		return fmt.Errorf("encode orders: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp orders file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(append(payload, '\n')); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write orders file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync orders file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close orders file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("replace orders file: %w", err)
	}

	return nil
}

// Close is a no-op; every save closes its own file
func (s *Store) Close() error {
	return nil
}
