// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"dropshop/internal/apperr"
	"dropshop/internal/models"
)

// attributePayload is the admin create body for colors and sizes.
// SortOrder is optional: when omitted the new attribute lands after
// all existing ones (max + 10).
type attributePayload struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	HexCode     string `json:"hex_code"` // colors only
	SortOrder   *int   `json:"sort_order"`
}

func (p *attributePayload) validate() string {
	if msg := validateName(p.Name); msg != "" {
		return msg
	}
	if strings.TrimSpace(p.DisplayName) == "" {
		return "Display name is required."
	}
	if msg := validateHexCode(p.HexCode); msg != "" {
		return msg
	}
	if p.SortOrder != nil && *p.SortOrder < 0 {
		return "Sort order must not be negative."
	}
	return ""
}

// ColorCreate creates a color, defaulting its sort order to the end of
// the list.
func (a *Admin) ColorCreate(w http.ResponseWriter, r *http.Request) {
	var req attributePayload
	if err := decode(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if msg := req.validate(); msg != "" {
		respondError(w, r, apperr.NewInvalidPayload(msg))
		return
	}

	sortOrder, err := a.resolveSortOrder(req.SortOrder, a.colors.NextSortOrder)
	if err != nil {
		respondError(w, r, apperr.NewMutationFailed("color create failed", err))
		return
	}

	c := &models.Color{
		Name:        req.Name,
		DisplayName: req.DisplayName,
		SortOrder:   sortOrder,
	}
	if req.HexCode != "" {
		hex := strings.ToLower(req.HexCode)
		c.HexCode = &hex
	}

	created, err := a.colors.Create(c)
	if err != nil {
		respondError(w, r, apperr.NewMutationFailed("color create failed", err))
		return
	}

	slog.Info("color created", "color_id", created.ID, "sort_order", created.SortOrder)
	respond(w, http.StatusCreated, map[string]any{"color": created})
}

// SizeCreate creates a size, defaulting its sort order to the end of
// the list.
func (a *Admin) SizeCreate(w http.ResponseWriter, r *http.Request) {
	var req attributePayload
	if err := decode(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if msg := req.validate(); msg != "" {
		respondError(w, r, apperr.NewInvalidPayload(msg))
		return
	}

	sortOrder, err := a.resolveSortOrder(req.SortOrder, a.sizes.NextSortOrder)
	if err != nil {
		respondError(w, r, apperr.NewMutationFailed("size create failed", err))
		return
	}

	created, err := a.sizes.Create(&models.Size{
		Name:        req.Name,
		DisplayName: req.DisplayName,
		SortOrder:   sortOrder,
	})
	if err != nil {
		respondError(w, r, apperr.NewMutationFailed("size create failed", err))
		return
	}

	slog.Info("size created", "size_id", created.ID, "sort_order", created.SortOrder)
	respond(w, http.StatusCreated, map[string]any{"size": created})
}

// resolveSortOrder returns the explicit sort order or asks the store
// for the next free slot.
func (a *Admin) resolveSortOrder(explicit *int, next func() (int, error)) (int, error) {
	if explicit != nil {
		return *explicit, nil
	}
	return next()
}
