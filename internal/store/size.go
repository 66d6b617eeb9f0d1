// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"dropshop/internal/models"
)

// SizeStore manages sizes in the database.
type SizeStore struct {
	db *sql.DB
}

// NewSizeStore returns a new SizeStore.
func NewSizeStore(db *sql.DB) *SizeStore {
	return &SizeStore{db: db}
}

const sizeColumns = `id, name, display_name, sort_order, created_at, updated_at`

func scanSize(scanner interface{ Scan(...any) error }) (*models.Size, error) {
	var s models.Size
	err := scanner.Scan(
		&s.ID, &s.Name, &s.DisplayName, &s.SortOrder, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// List returns all sizes in manual sort order.
func (s *SizeStore) List() ([]models.Size, error) {
	rows, err := s.db.Query(`SELECT ` + sizeColumns + ` FROM sizes ORDER BY sort_order, name`)
	if err != nil {
		return nil, fmt.Errorf("list sizes: %w", err)
	}
	defer rows.Close()

	var items []models.Size
	for rows.Next() {
		sz, err := scanSize(rows)
		if err != nil {
			return nil, fmt.Errorf("scan size: %w", err)
		}
		items = append(items, *sz)
	}
	return items, rows.Err()
}

// NextSortOrder returns max(existing sort_order) + 10, or 10 for an
// empty table.
func (s *SizeStore) NextSortOrder() (int, error) {
	var maxOrder sql.NullInt64
	if err := s.db.QueryRow(`SELECT MAX(sort_order) FROM sizes`).Scan(&maxOrder); err != nil {
		return 0, fmt.Errorf("next size sort order: %w", err)
	}
	if maxOrder.Valid {
		return int(maxOrder.Int64) + sortOrderStep, nil
	}
	return sortOrderStep, nil
}

// Create inserts a new size and returns it.
func (s *SizeStore) Create(sz *models.Size) (*models.Size, error) {
	row := s.db.QueryRow(`
		INSERT INTO sizes (name, display_name, sort_order)
		VALUES ($1, $2, $3)
		RETURNING `+sizeColumns,
		sz.Name, sz.DisplayName, sz.SortOrder,
	)
	result, err := scanSize(row)
	if err != nil {
		return nil, fmt.Errorf("create size: %w", err)
	}
	return result, nil
}
