// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"dropshop/internal/apperr"
	"dropshop/internal/markdown"
	"dropshop/internal/models"
	"dropshop/internal/store"
)

// Storefront groups the public, read-only catalog endpoints. Inactive
// entities never leave these handlers; the admin endpoints are the only
// place they are visible.
type Storefront struct {
	products    *store.ProductStore
	categories  *store.CategoryStore
	collections *store.CollectionStore
	colors      *store.ColorStore
	sizes       *store.SizeStore
}

// NewStorefront creates the storefront handler group.
func NewStorefront(products *store.ProductStore, categories *store.CategoryStore, collections *store.CollectionStore, colors *store.ColorStore, sizes *store.SizeStore) *Storefront {
	return &Storefront{
		products:    products,
		categories:  categories,
		collections: collections,
		colors:      colors,
		sizes:       sizes,
	}
}

// productView decorates a product with rendered description HTML and
// the purchasable flag the storefront shows as a countdown or buy
// button.
type productView struct {
	models.Product
	DescriptionHTML string `json:"description_html"`
	Purchasable     bool   `json:"purchasable"`
}

func toView(p models.Product, now time.Time) productView {
	html, err := markdown.ToHTML(p.Description)
	if err != nil {
		slog.Error("description render failed", "product_id", p.ID, "error", err)
		html = ""
	}
	return productView{Product: p, DescriptionHTML: html, Purchasable: p.Purchasable(now)}
}

// ProductsList returns active products, optionally filtered by
// ?category= or ?collection= slug.
func (h *Storefront) ProductsList(w http.ResponseWriter, r *http.Request) {
	filter := store.ListFilter{
		OnlyActive:     true,
		CategorySlug:   r.URL.Query().Get("category"),
		CollectionSlug: r.URL.Query().Get("collection"),
	}
	products, err := h.products.List(filter)
	if err != nil {
		respondError(w, r, apperr.NewMutationFailed("product listing failed", err))
		return
	}

	now := time.Now()
	views := make([]productView, 0, len(products))
	for _, p := range products {
		views = append(views, toView(p, now))
	}
	respond(w, http.StatusOK, map[string]any{"products": views})
}

// ProductDetail returns one active product by slug, with associations.
func (h *Storefront) ProductDetail(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	p, err := h.products.FindBySlug(slug)
	if err != nil {
		respondError(w, r, apperr.NewMutationFailed("product lookup failed", err))
		return
	}
	if p == nil || !p.Active {
		respondError(w, r, apperr.NewNotFound("product not found"))
		return
	}

	respond(w, http.StatusOK, map[string]any{"product": toView(*p, time.Now())})
}

// CategoriesList returns active categories with product counts.
func (h *Storefront) CategoriesList(w http.ResponseWriter, r *http.Request) {
	items, err := h.categories.List(true)
	if err != nil {
		respondError(w, r, apperr.NewMutationFailed("category listing failed", err))
		return
	}
	respond(w, http.StatusOK, map[string]any{"categories": items})
}

// CollectionsList returns active collections with product counts.
func (h *Storefront) CollectionsList(w http.ResponseWriter, r *http.Request) {
	items, err := h.collections.List(true)
	if err != nil {
		respondError(w, r, apperr.NewMutationFailed("collection listing failed", err))
		return
	}
	respond(w, http.StatusOK, map[string]any{"collections": items})
}

// ColorsList returns all colors in sort order.
func (h *Storefront) ColorsList(w http.ResponseWriter, r *http.Request) {
	items, err := h.colors.List()
	if err != nil {
		respondError(w, r, apperr.NewMutationFailed("color listing failed", err))
		return
	}
	respond(w, http.StatusOK, map[string]any{"colors": items})
}

// SizesList returns all sizes in sort order.
func (h *Storefront) SizesList(w http.ResponseWriter, r *http.Request) {
	items, err := h.sizes.List()
	if err != nil {
		respondError(w, r, apperr.NewMutationFailed("size listing failed", err))
		return
	}
	respond(w, http.StatusOK, map[string]any{"sizes": items})
}
