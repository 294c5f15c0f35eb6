package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/siddarthanreddy/ministore/internal/models"
)

// CreateOrder persists the order and all its items in one transaction.
// Either every row is visible afterwards or none are. On success the
// order's ID and item IDs are filled in.
func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin order tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO orders (customer_name, customer_email, address, total, created_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, order.CustomerName, order.CustomerEmail, order.Address, order.Total.String())
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	orderID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for i := range order.Items {
		item := &order.Items[i]
		res, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_name, unit_price, quantity)
			VALUES (?, ?, ?, ?)
		`, orderID, item.ProductName, item.UnitPrice.String(), item.Quantity)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
		itemID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
		item.ID = int(itemID)
		item.OrderID = int(orderID)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit order tx: %w", err)
	}
	order.ID = int(orderID)
	return nil
}

func (s *Store) GetOrder(id int) (*models.Order, error) {
	row := s.DB.QueryRow(`
		SELECT id, COALESCE(customer_name, ''), COALESCE(customer_email, ''), COALESCE(address, ''), total, created_at
		FROM orders WHERE id = ?
	`, id)

	var o models.Order
	var totalStr string
	err := row.Scan(&o.ID, &o.CustomerName, &o.CustomerEmail, &o.Address, &totalStr, &o.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if o.Total, err = decimal.NewFromString(totalStr); err != nil {
		return nil, fmt.Errorf("scan order %d total: %w", o.ID, err)
	}

	if o.Items, err = s.orderItems(o.ID); err != nil {
		return nil, err
	}
	return &o, nil
}

// ListOrders returns orders newest first, items attached.
func (s *Store) ListOrders(limit, offset int) ([]models.Order, error) {
	rows, err := s.DB.Query(`
		SELECT id, COALESCE(customer_name, ''), COALESCE(customer_email, ''), COALESCE(address, ''), total, created_at
		FROM orders
		ORDER BY id DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var o models.Order
		var totalStr string
		if err := rows.Scan(&o.ID, &o.CustomerName, &o.CustomerEmail, &o.Address, &totalStr, &o.CreatedAt); err != nil {
			return nil, err
		}
		if o.Total, err = decimal.NewFromString(totalStr); err != nil {
			return nil, fmt.Errorf("scan order %d total: %w", o.ID, err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		if orders[i].Items, err = s.orderItems(orders[i].ID); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (s *Store) CountOrders() (int, error) {
	var count int
	err := s.DB.QueryRow(`SELECT COUNT(*) FROM orders`).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// DeleteOrder removes an order; the schema cascades to its items.
func (s *Store) DeleteOrder(id int) error {
	res, err := s.DB.Exec(`DELETE FROM orders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return requireRow(res)
}

func (s *Store) orderItems(orderID int) ([]models.OrderItem, error) {
	rows, err := s.DB.Query(`
		SELECT id, order_id, COALESCE(product_name, ''), unit_price, quantity
		FROM order_items WHERE order_id = ? ORDER BY id
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("order %d items: %w", orderID, err)
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var item models.OrderItem
		var priceStr string
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductName, &priceStr, &item.Quantity); err != nil {
			return nil, err
		}
		if item.UnitPrice, err = decimal.NewFromString(priceStr); err != nil {
			return nil, fmt.Errorf("scan order item %d price: %w", item.ID, err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
