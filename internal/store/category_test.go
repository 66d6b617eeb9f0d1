// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"testing"

	"github.com/google/uuid"

	"dropshop/internal/models"
)

func TestCategoryStoreCreateAndFind(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)

	slug := "test-cat-create"
	t.Cleanup(func() { cleanCategories(t, db, slug) })

	created, err := s.Create(&models.Category{
		Name:        "Test Cat Create",
		Slug:        slug,
		Description: "a category",
		Active:      true,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Error("expected non-nil UUID")
	}
	if created.Slug != slug {
		t.Errorf("slug: got %q, want %q", created.Slug, slug)
	}

	found, err := s.FindBySlug(slug)
	if err != nil {
		t.Fatalf("FindBySlug: %v", err)
	}
	if found == nil || found.ID != created.ID {
		t.Fatalf("expected created category by slug, got %+v", found)
	}

	found, err = s.FindByID(created.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found == nil {
		t.Fatal("expected category by id")
	}
}

func TestCategoryStoreUpdateKeepsSlug(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)

	slug := "test-cat-update"
	t.Cleanup(func() { cleanCategories(t, db, slug) })

	created, err := s.Create(&models.Category{Name: "Before", Slug: slug, Active: true})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	created.Name = "After Rename"
	created.Featured = true
	if err := s.Update(created); err != nil {
		t.Fatalf("Update: %v", err)
	}

	found, _ := s.FindByID(created.ID)
	if found.Name != "After Rename" {
		t.Errorf("name: got %q, want %q", found.Name, "After Rename")
	}
	if found.Slug != slug {
		t.Errorf("slug changed on rename: got %q, want %q", found.Slug, slug)
	}
	if !found.Featured {
		t.Error("expected featured after update")
	}
}

func TestCategoryStoreUpdateMissing(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)

	err := s.Update(&models.Category{ID: uuid.New(), Name: "Ghost"})
	if err != sql.ErrNoRows {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestCategoryStoreDelete(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)

	created, err := s.Create(&models.Category{Name: "Delete Me", Slug: "test-cat-delete", Active: true})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := s.Delete(created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	found, _ := s.FindByID(created.ID)
	if found != nil {
		t.Error("expected nil after delete")
	}

	// Deleting again reports the missing row.
	if err := s.Delete(created.ID); err != sql.ErrNoRows {
		t.Errorf("expected sql.ErrNoRows on second delete, got %v", err)
	}
}

func TestCategoryStoreListActiveFilter(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)

	activeSlug := "test-cat-active"
	hiddenSlug := "test-cat-hidden"
	t.Cleanup(func() { cleanCategories(t, db, activeSlug, hiddenSlug) })

	s.Create(&models.Category{Name: "Active Cat", Slug: activeSlug, Active: true})
	s.Create(&models.Category{Name: "Hidden Cat", Slug: hiddenSlug, Active: false})

	all, err := s.List(false)
	if err != nil {
		t.Fatalf("List(false): %v", err)
	}
	if !containsCategorySlug(all, hiddenSlug) {
		t.Error("admin listing should include inactive categories")
	}

	active, err := s.List(true)
	if err != nil {
		t.Fatalf("List(true): %v", err)
	}
	if containsCategorySlug(active, hiddenSlug) {
		t.Error("storefront listing must exclude inactive categories")
	}
	if !containsCategorySlug(active, activeSlug) {
		t.Error("storefront listing should include active categories")
	}
}

func containsCategorySlug(items []models.Category, slug string) bool {
	for _, c := range items {
		if c.Slug == slug {
			return true
		}
	}
	return false
}

func TestCollectionStoreLifecycle(t *testing.T) {
	db := testDB(t)
	s := NewCollectionStore(db)

	slug := "test-coll-lifecycle"
	t.Cleanup(func() { cleanCollections(t, db, slug) })

	created, err := s.Create(&models.Collection{
		Name:   "Test Coll",
		Slug:   slug,
		Active: true,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	found, err := s.FindBySlug(slug)
	if err != nil {
		t.Fatalf("FindBySlug: %v", err)
	}
	if found == nil || found.ID != created.ID {
		t.Fatalf("expected created collection, got %+v", found)
	}

	created.Name = "Renamed Coll"
	if err := s.Update(created); err != nil {
		t.Fatalf("Update: %v", err)
	}
	found, _ = s.FindByID(created.ID)
	if found.Name != "Renamed Coll" {
		t.Errorf("name: got %q", found.Name)
	}
	if found.Slug != slug {
		t.Errorf("slug changed on rename: got %q", found.Slug)
	}

	if err := s.Delete(created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(created.ID); err != sql.ErrNoRows {
		t.Errorf("expected sql.ErrNoRows on second delete, got %v", err)
	}
}
