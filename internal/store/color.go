// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"dropshop/internal/models"
)

// sortOrderStep is the gap between successive default sort orders, so
// items can later be inserted between neighbours without renumbering.
const sortOrderStep = 10

// ColorStore manages colors in the database.
type ColorStore struct {
	db *sql.DB
}

// NewColorStore returns a new ColorStore.
func NewColorStore(db *sql.DB) *ColorStore {
	return &ColorStore{db: db}
}

const colorColumns = `id, name, display_name, hex_code, sort_order, created_at, updated_at`

func scanColor(scanner interface{ Scan(...any) error }) (*models.Color, error) {
	var c models.Color
	err := scanner.Scan(
		&c.ID, &c.Name, &c.DisplayName, &c.HexCode,
		&c.SortOrder, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all colors in manual sort order.
func (s *ColorStore) List() ([]models.Color, error) {
	rows, err := s.db.Query(`SELECT ` + colorColumns + ` FROM colors ORDER BY sort_order, name`)
	if err != nil {
		return nil, fmt.Errorf("list colors: %w", err)
	}
	defer rows.Close()

	var items []models.Color
	for rows.Next() {
		c, err := scanColor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan color: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// NextSortOrder returns max(existing sort_order) + 10, or 10 for an
// empty table. Used when a create payload omits sort_order.
func (s *ColorStore) NextSortOrder() (int, error) {
	var maxOrder sql.NullInt64
	if err := s.db.QueryRow(`SELECT MAX(sort_order) FROM colors`).Scan(&maxOrder); err != nil {
		return 0, fmt.Errorf("next color sort order: %w", err)
	}
	if maxOrder.Valid {
		return int(maxOrder.Int64) + sortOrderStep, nil
	}
	return sortOrderStep, nil
}

// Create inserts a new color and returns it. SortOrder must already be
// resolved by the caller (explicit value or NextSortOrder).
func (s *ColorStore) Create(c *models.Color) (*models.Color, error) {
	row := s.db.QueryRow(`
		INSERT INTO colors (name, display_name, hex_code, sort_order)
		VALUES ($1, $2, $3, $4)
		RETURNING `+colorColumns,
		c.Name, c.DisplayName, c.HexCode, c.SortOrder,
	)
	result, err := scanColor(row)
	if err != nil {
		return nil, fmt.Errorf("create color: %w", err)
	}
	return result, nil
}
