package database

// Order queries
const (
	DeleteAllOrderItemsSQL = `DELETE FROM order_items`

	DeleteAllOrdersSQL = `DELETE FROM orders`

	InsertOrderSQL = `
		INSERT INTO orders (position, number, customer_name, total_amount, placed_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	InsertOrderItemSQL = `
		INSERT INTO order_items (order_id, line_no, name, quantity, line_total)
		VALUES ($1, $2, $3, $4, $5)`

	GetAllOrdersSQL = `
		SELECT id, number, customer_name, total_amount, placed_at
		FROM orders
		ORDER BY position ASC`

	GetAllOrderItemsSQL = `
		SELECT order_id, name, quantity, line_total
		FROM order_items
		ORDER BY order_id ASC, line_no ASC`
)
