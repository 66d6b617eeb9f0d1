// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"dropshop/internal/apperr"
	"dropshop/internal/middleware"
	"dropshop/internal/models"
)

// PromoteUser grants a user the admin role. The role is written in its
// canonical lowercase form regardless of how the target row or the
// acting admin's row spells it.
func (a *Admin) PromoteUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID uuid.UUID `json:"user_id"`
	}
	if err := decode(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if req.UserID == uuid.Nil {
		respondError(w, r, apperr.NewInvalidPayload("user_id is required"))
		return
	}

	if err := a.users.SetRole(req.UserID, models.RoleAdmin); err != nil {
		respondError(w, r, apperr.FromStore("user", err))
		return
	}

	actorID, _ := middleware.PrincipalFromCtx(r.Context())
	slog.Info("user promoted to admin", "user_id", req.UserID, "by", actorID)

	user, err := a.users.FindByID(req.UserID)
	if err != nil {
		respondError(w, r, apperr.NewMutationFailed("user lookup failed", err))
		return
	}
	respond(w, http.StatusOK, map[string]any{"user": user})
}
