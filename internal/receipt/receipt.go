// Package receipt appends human-readable order receipts to a plain-text log.
package receipt

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"snack-counter/internal/models"
	"snack-counter/internal/money"
)

const separatorWidth = 40

// Separator closes every receipt block
var Separator = strings.Repeat("-", separatorWidth)

// Format renders one order as a receipt block, newline terminated
func Format(order models.Order, f *money.Formatter) string {
	var lines []string

	if order.Number != "" {
		lines = append(lines, fmt.Sprintf("Order: %s", order.Number))
	}
	lines = append(lines, fmt.Sprintf("User: %s", order.User))
	lines = append(lines, fmt.Sprintf("Time: %s", order.Time))
	for _, line := range order.Cart {
		lines = append(lines, "  "+FormatLine(line, f))
	}
	lines = append(lines, fmt.Sprintf("Total: %s", f.Format(order.Total)))
	lines = append(lines, Separator)

	return strings.Join(lines, "\n") + "\n"
}

// FormatLine renders a cart line as "- <name> x<qty> = <total>"
func FormatLine(line models.CartLine, f *money.Formatter) string {
	return fmt.Sprintf("- %s x%d = %s", line.Name, line.Quantity, f.Format(line.LineTotal))
}

// Writer appends receipt blocks to a log file. The file is never truncated.
type Writer struct {
	path      string
	formatter *money.Formatter
}

func NewWriter(path string, f *money.Formatter) (*Writer, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("receipt path is required")
	}
	if f == nil {
		f = money.Default()
	}

	return &Writer{
		path:      filepath.Clean(path),
		formatter: f,
	}, nil
}

// Append writes one receipt block for the order
func (w *Writer) Append(order models.Order) (err error) {
	file, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open receipt log: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close receipt log: %w", closeErr))
		}
	}()

	if _, err := file.WriteString(Format(order, w.formatter)); err != nil {
		return fmt.Errorf("write receipt: %w", err)
	}

	return nil
}
