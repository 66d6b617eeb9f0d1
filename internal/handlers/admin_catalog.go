// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"dropshop/internal/apperr"
	"dropshop/internal/models"
	"dropshop/internal/slug"
)

// groupingPayload is the admin create/update body shared by categories
// and collections, which have the same shape.
type groupingPayload struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Active      *bool   `json:"active"`
	Featured    *bool   `json:"featured"`
}

func (p *groupingPayload) validate() string {
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
	return ""
}

// --- Categories ---

// CategoriesList returns all categories, including inactive ones.
func (a *Admin) CategoriesList(w http.ResponseWriter, r *http.Request) {
	items, err := a.categories.List(false)
	if err != nil {
		respondError(w, r, apperr.NewMutationFailed("category listing failed", err))
		return
	}
	respond(w, http.StatusOK, map[string]any{"categories": items})
}

// CategoryCreate creates a category with a slug derived from its name.
func (a *Admin) CategoryCreate(w http.ResponseWriter, r *http.Request) {
	var req groupingPayload
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

	c := &models.Category{
		Name: *req.Name,
		Slug: slug.Generate(*req.Name),
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
	if req.Active != nil {
		c.Active = *req.Active
	}
	if req.Featured != nil {
		c.Featured = *req.Featured
	}

	created, err := a.categories.Create(c)
	if err != nil {
		respondError(w, r, apperr.NewMutationFailed("category create failed", err))
		return
	}

	slog.Info("category created", "category_id", created.ID, "slug", created.Slug)
	respond(w, http.StatusCreated, map[string]any{"category": created})
}

// CategoryUpdate applies a partial update. The slug never changes.
func (a *Admin) CategoryUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req groupingPayload
	if err := decode(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if msg := req.validate(); msg != "" {
		respondError(w, r, apperr.NewInvalidPayload(msg))
		return
	}

	current, err := a.categories.FindByID(id)
	if err != nil {
		respondError(w, r, apperr.NewMutationFailed("category lookup failed", err))
		return
	}
	if current == nil {
		respondError(w, r, apperr.NewNotFound("category not found"))
		return
	}

	if req.Name != nil {
		current.Name = *req.Name
	}
	if req.Description != nil {
		current.Description = *req.Description
	}
	if req.Active != nil {
		current.Active = *req.Active
	}
	if req.Featured != nil {
		current.Featured = *req.Featured
	}

	if err := a.categories.Update(current); err != nil {
		respondError(w, r, apperr.FromStore("category", err))
		return
	}
	respond(w, http.StatusOK, map[string]any{"category": current})
}

// CategoryDelete removes a category. Product links cascade away;
// products themselves are untouched.
func (a *Admin) CategoryDelete(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := a.categories.Delete(id); err != nil {
		respondError(w, r, apperr.FromStore("category", err))
		return
	}
	slog.Info("category deleted", "category_id", id)
	respond(w, http.StatusNoContent, nil)
}

// --- Collections ---

// CollectionsList returns all collections, including inactive ones.
func (a *Admin) CollectionsList(w http.ResponseWriter, r *http.Request) {
	items, err := a.collections.List(false)
	if err != nil {
		respondError(w, r, apperr.NewMutationFailed("collection listing failed", err))
		return
	}
	respond(w, http.StatusOK, map[string]any{"collections": items})
}

// CollectionCreate creates a collection with a slug derived from its name.
func (a *Admin) CollectionCreate(w http.ResponseWriter, r *http.Request) {
	var req groupingPayload
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

	c := &models.Collection{
		Name: *req.Name,
		Slug: slug.Generate(*req.Name),
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
	if req.Active != nil {
		c.Active = *req.Active
	}
	if req.Featured != nil {
		c.Featured = *req.Featured
	}

	created, err := a.collections.Create(c)
	if err != nil {
		respondError(w, r, apperr.NewMutationFailed("collection create failed", err))
		return
	}

	slog.Info("collection created", "collection_id", created.ID, "slug", created.Slug)
	respond(w, http.StatusCreated, map[string]any{"collection": created})
}

// CollectionUpdate applies a partial update. The slug never changes.
func (a *Admin) CollectionUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req groupingPayload
	if err := decode(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if msg := req.validate(); msg != "" {
		respondError(w, r, apperr.NewInvalidPayload(msg))
		return
	}

	current, err := a.collections.FindByID(id)
	if err != nil {
		respondError(w, r, apperr.NewMutationFailed("collection lookup failed", err))
		return
	}
	if current == nil {
		respondError(w, r, apperr.NewNotFound("collection not found"))
		return
	}

	if req.Name != nil {
		current.Name = *req.Name
	}
	if req.Description != nil {
		current.Description = *req.Description
	}
	if req.Active != nil {
		current.Active = *req.Active
	}
	if req.Featured != nil {
		current.Featured = *req.Featured
	}

	if err := a.collections.Update(current); err != nil {
		respondError(w, r, apperr.FromStore("collection", err))
		return
	}
	respond(w, http.StatusOK, map[string]any{"collection": current})
}

// CollectionDelete removes a collection, leaving products untouched.
func (a *Admin) CollectionDelete(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := a.collections.Delete(id); err != nil {
		respondError(w, r, apperr.FromStore("collection", err))
		return
	}
	slog.Info("collection deleted", "collection_id", id)
	respond(w, http.StatusNoContent, nil)
}
