// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"dropshop/internal/models"
)

// ProductStore manages products and their associations in the database.
type ProductStore struct {
	db *sql.DB
}

// NewProductStore returns a new ProductStore.
func NewProductStore(db *sql.DB) *ProductStore {
	return &ProductStore{db: db}
}

const productColumns = `id, name, slug, description, price, inventory_count, active, drop_at, created_at, updated_at`

func scanProduct(scanner interface{ Scan(...any) error }) (*models.Product, error) {
	var p models.Product
	err := scanner.Scan(
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price,
		&p.InventoryCount, &p.Active, &p.DropAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListFilter narrows a product listing.
type ListFilter struct {
	OnlyActive     bool   // storefront listings hide inactive products
	CategorySlug   string // non-empty: only products linked to this category
	CollectionSlug string // non-empty: only products linked to this collection
}

// List returns products matching the filter, newest first, with their
// image URL lists populated.
func (s *ProductStore) List(f ListFilter) ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products p`
	var args []any
	var where []string

	if f.CategorySlug != "" {
		args = append(args, f.CategorySlug)
		query += ` JOIN product_categories pc ON pc.product_id = p.id
		           JOIN categories c ON c.id = pc.category_id`
		where = append(where, fmt.Sprintf("c.slug = $%d", len(args)))
	}
	if f.CollectionSlug != "" {
		args = append(args, f.CollectionSlug)
		query += ` JOIN product_collections pl ON pl.product_id = p.id
		           JOIN collections l ON l.id = pl.collection_id`
		where = append(where, fmt.Sprintf("l.slug = $%d", len(args)))
	}
	if f.OnlyActive {
		where = append(where, "p.active")
	}
	for i, cond := range where {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY p.created_at DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var items []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range items {
		images, err := s.images(items[i].ID)
		if err != nil {
			return nil, err
		}
		items[i].Images = images
	}
	return items, nil
}

// FindByID retrieves a product with all associations. Returns nil if
// not found.
func (s *ProductStore) FindByID(id uuid.UUID) (*models.Product, error) {
	row := s.db.QueryRow(`SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	return s.hydrate(row)
}

// FindBySlug retrieves a product with all associations by its slug.
// Returns nil if not found.
func (s *ProductStore) FindBySlug(slug string) (*models.Product, error) {
	row := s.db.QueryRow(`SELECT `+productColumns+` FROM products WHERE slug = $1`, slug)
	return s.hydrate(row)
}

// hydrate scans a product row and loads its associations.
func (s *ProductStore) hydrate(row *sql.Row) (*models.Product, error) {
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}

	if p.Images, err = s.images(p.ID); err != nil {
		return nil, err
	}
	if p.Categories, err = s.categories(p.ID); err != nil {
		return nil, err
	}
	if p.Collections, err = s.collections(p.ID); err != nil {
		return nil, err
	}
	if p.Sizes, err = s.sizes(p.ID); err != nil {
		return nil, err
	}
	if p.Colors, err = s.colors(p.ID); err != nil {
		return nil, err
	}
	if p.Variants, err = s.variants(p.ID); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProductStore) images(productID uuid.UUID) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT url FROM product_images WHERE product_id = $1 ORDER BY sort_order
	`, productID)
	if err != nil {
		return nil, fmt.Errorf("product images: %w", err)
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("scan product image: %w", err)
		}
		urls = append(urls, u)
	}
	return urls, rows.Err()
}

func (s *ProductStore) categories(productID uuid.UUID) ([]models.Category, error) {
	rows, err := s.db.Query(`
		SELECT c.id, c.name, c.slug, c.description, c.active, c.featured, c.created_at, c.updated_at
		FROM categories c
		JOIN product_categories pc ON pc.category_id = c.id
		WHERE pc.product_id = $1
		ORDER BY c.name
	`, productID)
	if err != nil {
		return nil, fmt.Errorf("product categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

func (s *ProductStore) collections(productID uuid.UUID) ([]models.Collection, error) {
	rows, err := s.db.Query(`
		SELECT c.id, c.name, c.slug, c.description, c.active, c.featured, c.created_at, c.updated_at
		FROM collections c
		JOIN product_collections pc ON pc.collection_id = c.id
		WHERE pc.product_id = $1
		ORDER BY c.name
	`, productID)
	if err != nil {
		return nil, fmt.Errorf("product collections: %w", err)
	}
	defer rows.Close()

	var items []models.Collection
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product collection: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

func (s *ProductStore) sizes(productID uuid.UUID) ([]models.Size, error) {
	rows, err := s.db.Query(`
		SELECT s.id, s.name, s.display_name, s.sort_order, s.created_at, s.updated_at
		FROM sizes s
		JOIN product_sizes ps ON ps.size_id = s.id
		WHERE ps.product_id = $1
		ORDER BY s.sort_order
	`, productID)
	if err != nil {
		return nil, fmt.Errorf("product sizes: %w", err)
	}
	defer rows.Close()

	var items []models.Size
	for rows.Next() {
		sz, err := scanSize(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product size: %w", err)
		}
		items = append(items, *sz)
	}
	return items, rows.Err()
}

func (s *ProductStore) colors(productID uuid.UUID) ([]models.Color, error) {
	rows, err := s.db.Query(`
		SELECT c.id, c.name, c.display_name, c.hex_code, c.sort_order, c.created_at, c.updated_at
		FROM colors c
		JOIN product_colors pc ON pc.color_id = c.id
		WHERE pc.product_id = $1
		ORDER BY c.sort_order
	`, productID)
	if err != nil {
		return nil, fmt.Errorf("product colors: %w", err)
	}
	defer rows.Close()

	var items []models.Color
	for rows.Next() {
		c, err := scanColor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product color: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

func (s *ProductStore) variants(productID uuid.UUID) ([]models.Variant, error) {
	rows, err := s.db.Query(`
		SELECT id, product_id, size_id, color_id, inventory_count, price_adjustment
		FROM product_variants WHERE product_id = $1
	`, productID)
	if err != nil {
		return nil, fmt.Errorf("product variants: %w", err)
	}
	defer rows.Close()

	var items []models.Variant
	for rows.Next() {
		var v models.Variant
		if err := rows.Scan(&v.ID, &v.ProductID, &v.SizeID, &v.ColorID, &v.InventoryCount, &v.PriceAdjustment); err != nil {
			return nil, fmt.Errorf("scan product variant: %w", err)
		}
		items = append(items, v)
	}
	return items, rows.Err()
}

// Associations carries the link collections supplied with a create or
// patch. A nil slice means "not supplied, leave untouched"; an empty
// non-nil slice means "clear all links of this kind".
type Associations struct {
	Images      *[]string
	Categories  *[]uuid.UUID
	Collections *[]uuid.UUID
	Sizes       *[]uuid.UUID
	Colors      *[]uuid.UUID
	Variants    *[]models.Variant
}

// Create inserts a new product with its associations in one transaction
// and returns the stored product.
func (s *ProductStore) Create(p *models.Product, assoc Associations) (*models.Product, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRow(`
		INSERT INTO products (name, slug, description, price, inventory_count, active, drop_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+productColumns,
		p.Name, p.Slug, p.Description, p.Price, p.InventoryCount, p.Active, p.DropAt,
	)
	created, err := scanProduct(row)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	if err := replaceAssociations(tx, created.ID, assoc); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create product: %w", err)
	}
	return s.FindByID(created.ID)
}

// Patch describes a partial product update. Only non-nil fields are
// applied; association collections follow the Associations convention.
type Patch struct {
	Name           *string
	Description    *string
	Price          *decimal.Decimal
	InventoryCount *int
	Active         *bool
	DropAt         *sql.NullTime // present: set (or clear via invalid NullTime)

	Associations
}

// Update applies a partial patch. Supplied association collections are
// replaced wholesale (all existing link rows deleted, new ones
// inserted); omitted ones are preserved. The whole patch runs in a
// single transaction, so a failure never leaves associations torn.
// Returns sql.ErrNoRows if the product does not exist.
func (s *ProductStore) Update(id uuid.UUID, patch Patch) (*models.Product, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	set := "updated_at = NOW()"
	var args []any
	add := func(column string, value any) {
		args = append(args, value)
		set += fmt.Sprintf(", %s = $%d", column, len(args))
	}

	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Price != nil {
		add("price", *patch.Price)
	}
	if patch.InventoryCount != nil {
		add("inventory_count", *patch.InventoryCount)
	}
	if patch.Active != nil {
		add("active", *patch.Active)
	}
	if patch.DropAt != nil {
		add("drop_at", *patch.DropAt)
	}

	args = append(args, id)
	res, err := tx.Exec(
		fmt.Sprintf("UPDATE products SET %s WHERE id = $%d", set, len(args)),
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return nil, err
	}

	if err := replaceAssociations(tx, id, patch.Associations); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update product: %w", err)
	}
	return s.FindByID(id)
}

// execer is satisfied by both *sql.Tx and *sql.DB.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// replaceAssociations applies the delete-all-then-insert replacement
// for every supplied collection.
func replaceAssociations(tx execer, productID uuid.UUID, assoc Associations) error {
	if assoc.Images != nil {
		if _, err := tx.Exec(`DELETE FROM product_images WHERE product_id = $1`, productID); err != nil {
			return fmt.Errorf("clear product images: %w", err)
		}
		for i, url := range *assoc.Images {
			if _, err := tx.Exec(`
				INSERT INTO product_images (product_id, url, sort_order) VALUES ($1, $2, $3)
			`, productID, url, i); err != nil {
				return fmt.Errorf("insert product image: %w", err)
			}
		}
	}

	if assoc.Categories != nil {
		if err := replaceLinks(tx, "product_categories", "category_id", productID, *assoc.Categories); err != nil {
			return err
		}
	}
	if assoc.Collections != nil {
		if err := replaceLinks(tx, "product_collections", "collection_id", productID, *assoc.Collections); err != nil {
			return err
		}
	}
	if assoc.Sizes != nil {
		if err := replaceLinks(tx, "product_sizes", "size_id", productID, *assoc.Sizes); err != nil {
			return err
		}
	}
	if assoc.Colors != nil {
		if err := replaceLinks(tx, "product_colors", "color_id", productID, *assoc.Colors); err != nil {
			return err
		}
	}

	if assoc.Variants != nil {
		if _, err := tx.Exec(`DELETE FROM product_variants WHERE product_id = $1`, productID); err != nil {
			return fmt.Errorf("clear product variants: %w", err)
		}
		for _, v := range *assoc.Variants {
			if _, err := tx.Exec(`
				INSERT INTO product_variants (product_id, size_id, color_id, inventory_count, price_adjustment)
				VALUES ($1, $2, $3, $4, $5)
			`, productID, v.SizeID, v.ColorID, v.InventoryCount, v.PriceAdjustment); err != nil {
				return fmt.Errorf("insert product variant: %w", err)
			}
		}
	}

	return nil
}

// replaceLinks swaps all rows of one join table for a product.
func replaceLinks(tx execer, table, column string, productID uuid.UUID, ids []uuid.UUID) error {
	if _, err := tx.Exec(
		fmt.Sprintf(`DELETE FROM %s WHERE product_id = $1`, table), productID,
	); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}
	for _, id := range ids {
		if _, err := tx.Exec(
			fmt.Sprintf(`INSERT INTO %s (product_id, %s) VALUES ($1, $2)`, table, column),
			productID, id,
		); err != nil {
			return fmt.Errorf("insert %s: %w", table, err)
		}
	}
	return nil
}

// Delete removes a product. Join rows and images cascade via foreign
// keys. Returns sql.ErrNoRows if the product does not exist.
func (s *ProductStore) Delete(id uuid.UUID) error {
	res, err := s.db.Exec(`DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return requireAffected(res)
}
