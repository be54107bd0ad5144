package models

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var popcorn = SnackDef{ID: 1, Name: "Popcorn", Price: 1000}

func TestCart_AddComputesLineTotal(t *testing.T) {
	cart := NewCart()

	line, err := cart.Add(popcorn, 3)
	require.NoError(t, err)

	assert.Equal(t, CartLine{Name: "Popcorn", Quantity: 3, LineTotal: 3000}, line)
	assert.Equal(t, 3000, cart.Subtotal())
}

func TestCart_RepeatedSelectionIsNotMerged(t *testing.T) {
	cart := NewCart()

	_, err := cart.Add(popcorn, 1)
	require.NoError(t, err)
	_, err = cart.Add(popcorn, 1)
	require.NoError(t, err)

	assert.Equal(t, 2, cart.Len())
	assert.Equal(t, 2000, cart.Subtotal())
}

func TestCart_AddRejectsNonPositiveQuantity(t *testing.T) {
	cart := NewCart()

	_, err := cart.Add(popcorn, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	assert.True(t, cart.IsEmpty())
}

func TestCart_AddLargeQuantity(t *testing.T) {
	cart := NewCart()

	line, err := cart.Add(popcorn, 1000)
	require.NoError(t, err)

	assert.Equal(t, 1000*1000, line.LineTotal)
	assert.Equal(t, 1000*1000, cart.Subtotal())
}

func TestCart_AddRejectsOverflowingQuantity(t *testing.T) {
	cart := NewCart()
	_, err := cart.Add(popcorn, 2)
	require.NoError(t, err)

	_, err = cart.Add(popcorn, math.MaxInt/popcorn.Price)
	assert.ErrorIs(t, err, ErrAmountOverflow)
	assert.Equal(t, 1, cart.Len())
	assert.Equal(t, 2000, cart.Subtotal())
}

func TestCart_RemoveLastOnEmptyCart(t *testing.T) {
	cart := NewCart()

	_, ok := cart.RemoveLast()
	assert.False(t, ok)
	assert.Equal(t, 0, cart.Subtotal())
}

func TestCart_SubtotalTracksAddAndRemove(t *testing.T) {
	soda := SnackDef{ID: 2, Name: "Soda", Price: 500}
	cart := NewCart()

	ops := []struct {
		add    *SnackDef
		qty    int
		remove bool
	}{
		{add: &popcorn, qty: 2},
		{add: &soda, qty: 3},
		{remove: true},
		{add: &soda, qty: 1},
		{remove: true},
		{remove: true},
		{remove: true},
		{add: &popcorn, qty: 1},
	}

	for i, op := range ops {
		if op.remove {
			cart.RemoveLast()
		} else {
			_, err := cart.Add(*op.add, op.qty)
			require.NoError(t, err)
		}
		assert.Equal(t, CalculateTotalAmount(cart.Lines()), cart.Subtotal(), "step %d", i)
	}

	assert.Equal(t, 1000, cart.Subtotal())
}

func TestCart_LinesReturnsCopy(t *testing.T) {
	cart := NewCart()
	_, err := cart.Add(popcorn, 1)
	require.NoError(t, err)

	lines := cart.Lines()
	lines[0].Quantity = 99

	assert.Equal(t, 1, cart.Lines()[0].Quantity)
}

func TestNewOrder_SnapshotsCart(t *testing.T) {
	cart := NewCart()
	_, err := cart.Add(popcorn, 2)
	require.NoError(t, err)

	placedAt := time.Date(2026, 10, 19, 18, 30, 5, 0, time.Local)
	lines := cart.Lines()
	order := NewOrder("ORD_20261019_001", "Ana", lines, placedAt)
	lines[0].Name = "changed"

	assert.Equal(t, "Popcorn", order.Cart[0].Name)
	assert.Equal(t, 2000, order.Total)
	assert.Equal(t, "2026-10-19 18:30:05", order.Time)
	require.NoError(t, order.Validate())
}

func TestOrder_Validate(t *testing.T) {
	tests := []struct {
		name    string
		order   Order
		wantErr error
	}{
		{
			name:    "empty cart",
			order:   Order{User: "Ana"},
			wantErr: ErrEmptyCart,
		},
		{
			name: "total mismatch",
			order: Order{
				User:  "Ana",
				Cart:  []CartLine{{Name: "Popcorn", Quantity: 1, LineTotal: 1000}},
				Total: 900,
			},
			wantErr: ErrTotalMismatch,
		},
		{
			name: "zero quantity",
			order: Order{
				User: "Ana",
				Cart: []CartLine{{Name: "Popcorn", Quantity: 0, LineTotal: 0}},
			},
			wantErr: ErrInvalidQuantity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.order.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestGenerateOrderNumber(t *testing.T) {
	date := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "ORD_20261019_007", GenerateOrderNumber(date, 7))
}

func TestNextOrderSequence(t *testing.T) {
	today := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	orders := []Order{
		{Number: "ORD_20261018_009"},
		{Number: "ORD_20261019_001"},
		{Number: "ORD_20261019_002"},
		{Number: ""},
	}

	assert.Equal(t, 3, NextOrderSequence(orders, today))
	assert.Equal(t, 1, NextOrderSequence(nil, today))
}

func TestCreateOrderPlacedMessage(t *testing.T) {
	order := Order{
		Number: "ORD_20261019_001",
		User:   "Ana",
		Cart:   []CartLine{{Name: "Popcorn", Quantity: 2, LineTotal: 2000}},
		Total:  2000,
		Time:   "2026-10-19 18:30:05",
	}
	placedAt := time.Date(2026, 10, 19, 18, 30, 5, 0, time.UTC)

	msg := CreateOrderPlacedMessage(order, placedAt)

	assert.Equal(t, "ORD_20261019_001", msg.OrderNumber)
	assert.Equal(t, []OrderedItemInfo{{Name: "Popcorn", Quantity: 2, LineTotal: 2000}}, msg.Items)
	assert.Equal(t, 2000, msg.Total)
	assert.True(t, msg.PlacedAt.Equal(placedAt))
}
