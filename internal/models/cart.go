package models

import "math"

// Cart is the in-progress, mutable selection for one place-order interaction
type Cart struct {
	lines []CartLine
}

// NewCart creates an empty cart
func NewCart() *Cart {
	return &Cart{}
}

// Add appends a new line for the snack. Repeated selections are kept as
// independent lines.
func (c *Cart) Add(snack SnackDef, quantity int) (CartLine, error) {
	if quantity <= 0 {
		return CartLine{}, ErrInvalidQuantity
	}
	if snack.Price > 0 && quantity > (math.MaxInt-c.Subtotal())/snack.Price {
		return CartLine{}, ErrAmountOverflow
	}

	line := CartLine{
		Name:      snack.Name,
		Quantity:  quantity,
		LineTotal: snack.Price * quantity,
	}
	c.lines = append(c.lines, line)

	return line, nil
}

// RemoveLast pops the most recently added line. It reports false when the
// cart is empty.
func (c *Cart) RemoveLast() (CartLine, bool) {
	if len(c.lines) == 0 {
		return CartLine{}, false
	}

	last := c.lines[len(c.lines)-1]
	c.lines = c.lines[:len(c.lines)-1]

	return last, true
}

// Lines returns a copy of the current lines
func (c *Cart) Lines() []CartLine {
	lines := make([]CartLine, len(c.lines))
	copy(lines, c.lines)
	return lines
}

// Subtotal is always recomputed from the current lines
func (c *Cart) Subtotal() int {
	return CalculateTotalAmount(c.lines)
}

func (c *Cart) Len() int {
	return len(c.lines)
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}
