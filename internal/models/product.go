// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a sellable item, possibly scheduled as a drop.
type Product struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Slug           string          `json:"slug"`
	Description    string          `json:"description"`
	Price          decimal.Decimal `json:"price"`
	InventoryCount int             `json:"inventory_count"`
	Active         bool            `json:"active"`
	DropAt         *time.Time      `json:"drop_at"`
	Images         []string        `json:"images"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	// Association fields populated by store methods.
	Categories  []Category   `json:"categories,omitempty"`
	Collections []Collection `json:"collections,omitempty"`
	Sizes       []Size       `json:"sizes,omitempty"`
	Colors      []Color      `json:"colors,omitempty"`
	Variants    []Variant    `json:"variants,omitempty"`
}

// Purchasable reports whether the product can be checked out right now:
// it must be active and its drop time (if any) must have passed.
func (p *Product) Purchasable(now time.Time) bool {
	if !p.Active {
		return false
	}
	if p.DropAt != nil && p.DropAt.After(now) {
		return false
	}
	return true
}

// Variant is a size/color configuration of a product with its own
// inventory and price delta relative to the base price.
type Variant struct {
	ID              uuid.UUID       `json:"id"`
	ProductID       uuid.UUID       `json:"product_id"`
	SizeID          uuid.UUID       `json:"size_id"`
	ColorID         uuid.UUID       `json:"color_id"`
	InventoryCount  int             `json:"inventory_count"`
	PriceAdjustment decimal.Decimal `json:"price_adjustment"`
}
