// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"dropshop/internal/models"
)

// CollectionStore manages collections in the database.
type CollectionStore struct {
	db *sql.DB
}

// NewCollectionStore returns a new CollectionStore.
func NewCollectionStore(db *sql.DB) *CollectionStore {
	return &CollectionStore{db: db}
}

const collectionColumns = `id, name, slug, description, active, featured, created_at, updated_at`

func scanCollection(scanner interface{ Scan(...any) error }) (*models.Collection, error) {
	var c models.Collection
	err := scanner.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description,
		&c.Active, &c.Featured, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all collections with product counts. When onlyActive is
// set, inactive collections are excluded.
func (s *CollectionStore) List(onlyActive bool) ([]models.Collection, error) {
	query := `
		SELECT c.id, c.name, c.slug, c.description, c.active, c.featured,
		       c.created_at, c.updated_at,
		       COUNT(pc.product_id) AS product_count
		FROM collections c
		LEFT JOIN product_collections pc ON pc.collection_id = c.id`
	if onlyActive {
		query += ` WHERE c.active`
	}
	query += ` GROUP BY c.id ORDER BY c.name`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	defer rows.Close()

	var items []models.Collection
	for rows.Next() {
		var c models.Collection
		err := rows.Scan(
			&c.ID, &c.Name, &c.Slug, &c.Description,
			&c.Active, &c.Featured, &c.CreatedAt, &c.UpdatedAt,
			&c.ProductCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan collection: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// FindByID retrieves a collection by ID. Returns nil if not found.
func (s *CollectionStore) FindByID(id uuid.UUID) (*models.Collection, error) {
	row := s.db.QueryRow(`SELECT `+collectionColumns+` FROM collections WHERE id = $1`, id)
	c, err := scanCollection(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find collection by id: %w", err)
	}
	return c, nil
}

// FindBySlug retrieves a collection by slug. Returns nil if not found.
func (s *CollectionStore) FindBySlug(slug string) (*models.Collection, error) {
	row := s.db.QueryRow(`SELECT `+collectionColumns+` FROM collections WHERE slug = $1`, slug)
	c, err := scanCollection(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find collection by slug: %w", err)
	}
	return c, nil
}

// Create inserts a new collection and returns it.
func (s *CollectionStore) Create(c *models.Collection) (*models.Collection, error) {
	row := s.db.QueryRow(`
		INSERT INTO collections (name, slug, description, active, featured)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+collectionColumns,
		c.Name, c.Slug, c.Description, c.Active, c.Featured,
	)
	result, err := scanCollection(row)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}
	return result, nil
}

// Update modifies an existing collection, leaving the slug untouched.
// Returns sql.ErrNoRows if the collection does not exist.
func (s *CollectionStore) Update(c *models.Collection) error {
	res, err := s.db.Exec(`
		UPDATE collections SET
			name = $1, description = $2, active = $3, featured = $4, updated_at = NOW()
		WHERE id = $5
	`, c.Name, c.Description, c.Active, c.Featured, c.ID)
	if err != nil {
		return fmt.Errorf("update collection: %w", err)
	}
	return requireAffected(res)
}

// Delete removes a collection by ID. Returns sql.ErrNoRows if absent.
func (s *CollectionStore) Delete(id uuid.UUID) error {
	res, err := s.db.Exec(`DELETE FROM collections WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete collection: %w", err)
	}
	return requireAffected(res)
}
