package models

import (
	"time"
)

// OrderPlacedMessage is published after a confirmed checkout
type OrderPlacedMessage struct {
	OrderNumber string            `json:"order_number"`
	User        string            `json:"user"`
	Items       []OrderedItemInfo `json:"items"`
	Total       int               `json:"total"`
	PlacedAt    time.Time         `json:"placed_at"`
}

// OrderedItemInfo is one line of an order-placed message
type OrderedItemInfo struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	LineTotal int    `json:"line_total"`
}

// CreateOrderPlacedMessage creates an OrderPlacedMessage from a stored order
func CreateOrderPlacedMessage(order Order, placedAt time.Time) *OrderPlacedMessage {
	items := make([]OrderedItemInfo, 0, len(order.Cart))
	for _, line := range order.Cart {
		items = append(items, OrderedItemInfo{
			Name:      line.Name,
			Quantity:  line.Quantity,
			LineTotal: line.LineTotal,
		})
	}

	return &OrderPlacedMessage{
		OrderNumber: order.Number,
		User:        order.User,
		Items:       items,
		Total:       order.Total,
		PlacedAt:    placedAt.UTC(),
	}
}
