package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeLayout is the fixed, sortable layout used for order timestamps
const TimeLayout = "2006-01-02 15:04:05"

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrTotalMismatch   = errors.New("order total does not match cart lines")
	ErrInvalidQuantity = errors.New("quantity must be greater than 0")
	ErrAmountOverflow  = errors.New("quantity is too large for the cart total")
)

// SnackDef represents a purchasable catalog item
type SnackDef struct {
	ID    int    `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Price int    `json:"price" yaml:"price"`
}

// CartLine represents one selection in a cart or a placed order
type CartLine struct {
	Name      string `json:"name" db:"name"`
	Quantity  int    `json:"qty" db:"quantity"`
	LineTotal int    `json:"total" db:"line_total"`
}

// Order represents a confirmed purchase
type Order struct {
	Number string     `json:"order_number" db:"number"`
	User   string     `json:"user" db:"customer_name"`
	Cart   []CartLine `json:"cart"`
	Total  int        `json:"total" db:"total_amount"`
	Time   string     `json:"time" db:"placed_at"`
}

// NewOrder snapshots the cart lines into an order placed at the given time
func NewOrder(number, user string, lines []CartLine, placedAt time.Time) Order {
	snapshot := make([]CartLine, len(lines))
	copy(snapshot, lines)

	return Order{
		Number: number,
		User:   user,
		Cart:   snapshot,
		Total:  CalculateTotalAmount(snapshot),
		Time:   placedAt.Format(TimeLayout),
	}
}

// CalculateTotalAmount sums the line totals
func CalculateTotalAmount(lines []CartLine) int {
	total := 0
	for _, line := range lines {
		total += line.LineTotal
	}
	return total
}

// Validate checks the order invariants
func (o *Order) Validate() error {
	if len(o.Cart) == 0 {
		return ErrEmptyCart
	}

	for i, line := range o.Cart {
		if line.Quantity <= 0 {
			return fmt.Errorf("cart[%d]: %w", i, ErrInvalidQuantity)
		}
	}

	if o.Total != CalculateTotalAmount(o.Cart) {
		return fmt.Errorf("%w: total %d, lines %d", ErrTotalMismatch, o.Total, CalculateTotalAmount(o.Cart))
	}

	return nil
}

// GenerateOrderNumber generates an order number in format ORD_YYYYMMDD_NNN
func GenerateOrderNumber(date time.Time, sequence int) string {
	dateStr := date.Format("20060102")
	return fmt.Sprintf("ORD_%s_%03d", dateStr, sequence)
}

// NextOrderSequence returns the next sequence for the given day based on the
// numbers already issued
func NextOrderSequence(orders []Order, date time.Time) int {
	prefix := fmt.Sprintf("ORD_%s_", date.Format("20060102"))

	last := 0
	for _, order := range orders {
		if !strings.HasPrefix(order.Number, prefix) {
			continue
		}
		seq, err := strconv.Atoi(strings.TrimPrefix(order.Number, prefix))
		if err != nil {
			continue
		}
		if seq > last {
			last = seq
		}
	}

	return last + 1
}
