// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"dropshop/internal/cart"
	"dropshop/internal/models"
)

// Checkout failure modes the handler maps to payload errors rather
// than server errors.
var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrNotPurchasable  = errors.New("product is not purchasable")
	ErrInsufficientQty = errors.New("insufficient inventory")
)

// OrderStore manages orders in the database.
type OrderStore struct {
	db *sql.DB
}

// NewOrderStore returns a new OrderStore.
func NewOrderStore(db *sql.DB) *OrderStore {
	return &OrderStore{db: db}
}

const orderColumns = `id, user_id, status, total, created_at`

func scanOrder(scanner interface{ Scan(...any) error }) (*models.Order, error) {
	var o models.Order
	err := scanner.Scan(&o.ID, &o.UserID, &o.Status, &o.Total, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// CreateFromCart turns a cart into a confirmed order in one
// transaction. Each product row is locked, checked for purchasability
// and stock, and decremented; any failure rolls the whole order back.
// Returns ErrNotPurchasable or ErrInsufficientQty wrapped with the
// offending product ID.
func (s *OrderStore) CreateFromCart(userID uuid.UUID, state cart.State, now time.Time) (*models.Order, error) {
	if len(state.Items) == 0 {
		return nil, ErrEmptyCart
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	total := decimal.Zero
	lines := make([]models.OrderItem, 0, len(state.Items))
	for _, it := range state.Items {
		var (
			name      string
			price     decimal.Decimal
			inventory int
			active    bool
			dropAt    *time.Time
		)
		err := tx.QueryRow(`
			SELECT name, price, inventory_count, active, drop_at
			FROM products WHERE id = $1 FOR UPDATE
		`, it.ProductID).Scan(&name, &price, &inventory, &active, &dropAt)
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("product %s: %w", it.ProductID, ErrNotPurchasable)
		}
		if err != nil {
			return nil, fmt.Errorf("lock product: %w", err)
		}

		p := models.Product{Active: active, DropAt: dropAt}
		if !p.Purchasable(now) {
			return nil, fmt.Errorf("product %s: %w", it.ProductID, ErrNotPurchasable)
		}
		if inventory < it.Quantity {
			return nil, fmt.Errorf("product %s: %w", it.ProductID, ErrInsufficientQty)
		}

		if _, err := tx.Exec(`
			UPDATE products SET inventory_count = inventory_count - $1, updated_at = NOW()
			WHERE id = $2
		`, it.Quantity, it.ProductID); err != nil {
			return nil, fmt.Errorf("decrement inventory: %w", err)
		}

		line := models.OrderItem{
			ProductID:   it.ProductID,
			ProductName: name,
			UnitPrice:   price,
			Quantity:    it.Quantity,
		}
		total = total.Add(line.LineTotal())
		lines = append(lines, line)
	}

	row := tx.QueryRow(`
		INSERT INTO orders (user_id, status, total)
		VALUES ($1, $2, $3)
		RETURNING `+orderColumns,
		userID, models.OrderConfirmed, total,
	)
	order, err := scanOrder(row)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	for i := range lines {
		lines[i].OrderID = order.ID
		err := tx.QueryRow(`
			INSERT INTO order_items (order_id, product_id, product_name, unit_price, quantity)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, order.ID, lines[i].ProductID, lines[i].ProductName, lines[i].UnitPrice, lines[i].Quantity).
			Scan(&lines[i].ID)
		if err != nil {
			return nil, fmt.Errorf("create order item: %w", err)
		}
	}
	order.Items = lines

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit order: %w", err)
	}
	return order, nil
}

// ListByUser returns a user's orders, newest first, with items.
func (s *OrderStore) ListByUser(userID uuid.UUID) ([]models.Order, error) {
	rows, err := s.db.Query(`
		SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		items, err := s.items(orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

// FindByID retrieves one order with its items. Returns nil if not
// found or if the order belongs to a different user.
func (s *OrderStore) FindByID(id, userID uuid.UUID) (*models.Order, error) {
	row := s.db.QueryRow(`
		SELECT `+orderColumns+` FROM orders WHERE id = $1 AND user_id = $2
	`, id, userID)
	o, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find order: %w", err)
	}

	if o.Items, err = s.items(o.ID); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *OrderStore) items(orderID uuid.UUID) ([]models.OrderItem, error) {
	rows, err := s.db.Query(`
		SELECT id, order_id, product_id, product_name, unit_price, quantity
		FROM order_items WHERE order_id = $1
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("order items: %w", err)
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.UnitPrice, &it.Quantity); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
