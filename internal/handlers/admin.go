// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"dropshop/internal/apperr"
	"dropshop/internal/models"
	"dropshop/internal/slug"
	"dropshop/internal/storage"
	"dropshop/internal/store"
)

// Admin groups all admin panel HTTP handlers and their dependencies.
// Every route behind this group has already passed the authentication
// and admin-role middleware.
type Admin struct {
	products    *store.ProductStore
	categories  *store.CategoryStore
	collections *store.CollectionStore
	colors      *store.ColorStore
	sizes       *store.SizeStore
	users       *store.UserStore
	storage     *storage.Client // may be nil if S3 is not configured
}

// NewAdmin creates the admin handler group. storageClient may be nil if
// S3 is not configured; uploads are disabled and image cleanup skipped.
func NewAdmin(products *store.ProductStore, categories *store.CategoryStore, collections *store.CollectionStore, colors *store.ColorStore, sizes *store.SizeStore, users *store.UserStore, storageClient *storage.Client) *Admin {
	return &Admin{
		products:    products,
		categories:  categories,
		collections: collections,
		colors:      colors,
		sizes:       sizes,
		users:       users,
		storage:     storageClient,
	}
}

// urlID parses the {id} route parameter.
func urlID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, apperr.NewInvalidPayload("invalid id")
	}
	return id, nil
}

// --- Products ---

// productPayload is the admin create/update body for products. Price
// accepts both a JSON number and a quoted string; the admin panel has
// historically sent either. All association lists follow the
// omitted-preserves / empty-clears convention on update.
type productPayload struct {
	Name           *string           `json:"name"`
	Description    *string           `json:"description"`
	Price          *decimal.Decimal  `json:"price"`
	InventoryCount *int              `json:"inventory_count"`
	Active         *bool             `json:"active"`
	DropAt         json.RawMessage   `json:"drop_at"` // absent, null, or RFC 3339
	Images         *[]string         `json:"images"`
	Categories     *[]uuid.UUID      `json:"categories"`
	Collections    *[]uuid.UUID      `json:"collections"`
	Sizes          *[]uuid.UUID      `json:"sizes"`
	Colors         *[]uuid.UUID      `json:"colors"`
	Variants       *[]models.Variant `json:"variants"`
}

// dropAt resolves the tri-state drop_at field: (nil, false) when the
// key was absent, (invalid NullTime, true) for an explicit null, and a
// valid NullTime for a timestamp.
func (p *productPayload) dropAt() (*sql.NullTime, error) {
	if len(p.DropAt) == 0 {
		return nil, nil
	}
	if string(p.DropAt) == "null" {
		return &sql.NullTime{}, nil
	}
	var t time.Time
	if err := json.Unmarshal(p.DropAt, &t); err != nil {
		return nil, apperr.NewInvalidPayload("drop_at must be an RFC 3339 timestamp or null")
	}
	return &sql.NullTime{Time: t, Valid: true}, nil
}

// validate checks the supplied fields; only non-nil ones are examined,
// so the same method serves both create and partial update.
func (p *productPayload) validate() string {
	if p.Name != nil {
		if msg := validateName(*p.Name); msg != "" {
			return msg
		}
	}
	if p.Description != nil {
		if msg := validateDescription(*p.Description); msg != "" {
			return msg
		}
	}
	if p.Price != nil {
		if msg := validatePrice(*p.Price); msg != "" {
			return msg
		}
	}
	if p.InventoryCount != nil && *p.InventoryCount < 0 {
		return "Inventory count must not be negative."
	}
	if p.Images != nil {
		if msg := validateImages(*p.Images); msg != "" {
			return msg
		}
	}
	return ""
}

func (p *productPayload) associations() store.Associations {
	return store.Associations{
		Images:      p.Images,
		Categories:  p.Categories,
		Collections: p.Collections,
		Sizes:       p.Sizes,
		Colors:      p.Colors,
		Variants:    p.Variants,
	}
}

// ProductsList returns all products including inactive ones.
func (a *Admin) ProductsList(w http.ResponseWriter, r *http.Request) {
	products, err := a.products.List(store.ListFilter{})
	if err != nil {
		respondError(w, r, apperr.NewMutationFailed("product listing failed", err))
		return
	}
	respond(w, http.StatusOK, map[string]any{"products": products})
}

// ProductDetail returns one product with associations, active or not.
func (a *Admin) ProductDetail(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	p, err := a.products.FindByID(id)
	if err != nil {
		respondError(w, r, apperr.NewMutationFailed("product lookup failed", err))
		return
	}
	if p == nil {
		respondError(w, r, apperr.NewNotFound("product not found"))
		return
	}
	respond(w, http.StatusOK, map[string]any{"product": p})
}

// ProductCreate creates a product. The slug is derived from the name
// once, at creation time; later renames leave it stable.
func (a *Admin) ProductCreate(w http.ResponseWriter, r *http.Request) {
	var req productPayload
	if err := decode(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	if req.Name == nil {
		respondError(w, r, apperr.NewInvalidPayload("Name is required."))
		return
	}
	if msg := req.validate(); msg != "" {
		respondError(w, r, apperr.NewInvalidPayload(msg))
		return
	}
	drop, err := req.dropAt()
	if err != nil {
		respondError(w, r, err)
		return
	}

	p := &models.Product{
		Name: *req.Name,
		Slug: slug.Generate(*req.Name),
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.InventoryCount != nil {
		p.InventoryCount = *req.InventoryCount
	}
	if req.Active != nil {
		p.Active = *req.Active
	}
	if drop != nil && drop.Valid {
		p.DropAt = &drop.Time
	}

	created, err := a.products.Create(p, req.associations())
	if err != nil {
		respondError(w, r, apperr.NewMutationFailed("product create failed", err))
		return
	}

	slog.Info("product created", "product_id", created.ID, "slug", created.Slug)
	respond(w, http.StatusCreated, map[string]any{"product": created})
}

// ProductUpdate applies a partial update. Only supplied fields change;
// supplied association lists replace the existing links wholesale.
func (a *Admin) ProductUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req productPayload
	if err := decode(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if msg := req.validate(); msg != "" {
		respondError(w, r, apperr.NewInvalidPayload(msg))
		return
	}
	drop, err := req.dropAt()
	if err != nil {
		respondError(w, r, err)
		return
	}

	updated, err := a.products.Update(id, store.Patch{
		Name:           req.Name,
		Description:    req.Description,
		Price:          req.Price,
		InventoryCount: req.InventoryCount,
		Active:         req.Active,
		DropAt:         drop,
		Associations:   req.associations(),
	})
	if err != nil {
		respondError(w, r, apperr.FromStore("product", err))
		return
	}

	respond(w, http.StatusOK, map[string]any{"product": updated})
}

// ProductDelete removes a product and best-effort cleans up its stored
// images. A failed image delete is logged, never surfaced: the catalog
// row is already gone and the client should see success.
func (a *Admin) ProductDelete(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := a.deleteProduct(r, id); err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusNoContent, nil)
}

// ProductsBatchDelete removes several products in one request. The
// batch stops at the first failure; already-deleted products stay
// deleted.
func (a *Admin) ProductsBatchDelete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []uuid.UUID `json:"ids"`
	}
	if err := decode(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if len(req.IDs) == 0 {
		respondError(w, r, apperr.NewInvalidPayload("ids must not be empty"))
		return
	}

	for _, id := range req.IDs {
		if err := a.deleteProduct(r, id); err != nil {
			respondError(w, r, err)
			return
		}
	}
	respond(w, http.StatusNoContent, nil)
}

func (a *Admin) deleteProduct(r *http.Request, id uuid.UUID) error {
	// Load first so the image keys survive the row deletion.
	p, err := a.products.FindByID(id)
	if err != nil {
		return apperr.NewMutationFailed("product lookup failed", err)
	}
	if p == nil {
		return apperr.NewNotFound("product not found")
	}

	if err := a.products.Delete(id); err != nil {
		return apperr.FromStore("product", err)
	}

	if a.storage != nil {
		for _, url := range p.Images {
			key, ok := a.storage.ExtractKey(url)
			if !ok {
				continue
			}
			if err := a.storage.Delete(r.Context(), key); err != nil {
				slog.Error("image cleanup failed", "product_id", id, "key", key, "error", err)
			}
		}
	}

	slog.Info("product deleted", "product_id", id)
	return nil
}
