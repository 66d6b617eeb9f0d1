// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"dropshop/internal/models"
	"dropshop/internal/store"
)

func TestStorefrontHidesInactiveProducts(t *testing.T) {
	env := newTestEnv(t)
	activeSlug := "front-active-tee"
	hiddenSlug := "front-hidden-tee"
	t.Cleanup(func() { cleanProducts(t, env.DB, activeSlug, hiddenSlug) })

	env.Products.Create(&models.Product{
		Name: "Front Active", Slug: activeSlug,
		Price: decimal.RequireFromString("10.00"), Active: true,
	}, store.Associations{})
	env.Products.Create(&models.Product{
		Name: "Front Hidden", Slug: hiddenSlug,
		Price: decimal.RequireFromString("10.00"), Active: false,
	}, store.Associations{})

	rec := httptest.NewRecorder()
	env.Storefront.ProductsList(rec, httptest.NewRequest("GET", "/api/products", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}

	body := rec.Body.String()
	if !strings.Contains(body, activeSlug) {
		t.Error("active product missing from storefront listing")
	}
	if strings.Contains(body, hiddenSlug) {
		t.Error("inactive product leaked into storefront listing")
	}

	// Detail of the inactive product is a 404, same as a missing one.
	rec = httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/products/"+hiddenSlug, nil)
	env.Storefront.ProductDetail(rec, withChiURLParam(req, "slug", hiddenSlug))
	if rec.Code != http.StatusNotFound {
		t.Errorf("inactive detail status: got %d, want 404", rec.Code)
	}
}

func TestStorefrontProductDetailRendersMarkdown(t *testing.T) {
	env := newTestEnv(t)
	slugName := "front-markdown-tee"
	t.Cleanup(func() { cleanProducts(t, env.DB, slugName) })

	env.Products.Create(&models.Product{
		Name: "Front Markdown", Slug: slugName,
		Description: "Soft **organic** cotton.",
		Price:       decimal.RequireFromString("35.00"), Active: true,
	}, store.Associations{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/products/"+slugName, nil)
	env.Storefront.ProductDetail(rec, withChiURLParam(req, "slug", slugName))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Product struct {
			DescriptionHTML string `json:"description_html"`
			Purchasable     bool   `json:"purchasable"`
		} `json:"product"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(resp.Product.DescriptionHTML, "<strong>organic</strong>") {
		t.Errorf("markdown not rendered: %q", resp.Product.DescriptionHTML)
	}
	if !resp.Product.Purchasable {
		t.Error("active product without drop time must be purchasable")
	}
}

func TestStorefrontCategoryFilter(t *testing.T) {
	env := newTestEnv(t)
	catSlug := "front-filter-cat"
	inSlug := "front-filter-in"
	outSlug := "front-filter-out"
	t.Cleanup(func() {
		cleanProducts(t, env.DB, inSlug, outSlug)
		cleanCategories(t, env.DB, catSlug)
	})

	cat, _ := env.Categories.Create(&models.Category{Name: "Filter Cat", Slug: catSlug, Active: true})
	catIDs := []uuid.UUID{cat.ID}

	env.Products.Create(&models.Product{
		Name: "Filter In", Slug: inSlug,
		Price: decimal.RequireFromString("10.00"), Active: true,
	}, store.Associations{Categories: &catIDs})
	env.Products.Create(&models.Product{
		Name: "Filter Out", Slug: outSlug,
		Price: decimal.RequireFromString("10.00"), Active: true,
	}, store.Associations{})

	rec := httptest.NewRecorder()
	env.Storefront.ProductsList(rec, httptest.NewRequest("GET", "/api/products?category="+catSlug, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}

	body := rec.Body.String()
	if !strings.Contains(body, inSlug) {
		t.Error("linked product missing from filtered listing")
	}
	if strings.Contains(body, outSlug) {
		t.Error("unlinked product leaked into filtered listing")
	}
}
