// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"dropshop/internal/apperr"
)

// presignTTL is how long an upload URL stays valid. Long enough for a
// slow connection, short enough not to be worth leaking.
const presignTTL = 15 * time.Minute

// allowedImageTypes are the content types accepted for product images.
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/avif": ".avif",
}

// PresignUpload returns a pre-signed PUT URL for a product image. The
// admin panel uploads directly to object storage; the image bytes never
// pass through this server. The stored key is random, so original
// filenames cannot collide or be probed.
func (a *Admin) PresignUpload(w http.ResponseWriter, r *http.Request) {
	if a.storage == nil {
		respondError(w, r, apperr.NewInvalidPayload("Image storage is not configured."))
		return
	}

	var req struct {
		Filename    string `json:"filename"`
		ContentType string `json:"content_type"`
	}
	if err := decode(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	ext, ok := allowedImageTypes[strings.ToLower(req.ContentType)]
	if !ok {
		respondError(w, r, apperr.NewInvalidPayload("Unsupported image type."))
		return
	}
	// Keep the original extension when it matches the content type's
	// family, otherwise use the canonical one.
	if orig := strings.ToLower(path.Ext(req.Filename)); orig == ext || (ext == ".jpg" && orig == ".jpeg") {
		ext = orig
	}

	key := "products/" + uuid.NewString() + ext

	uploadURL, err := a.storage.PresignUpload(r.Context(), key, req.ContentType, presignTTL)
	if err != nil {
		respondError(w, r, apperr.NewMutationFailed("upload presign failed", err))
		return
	}

	respond(w, http.StatusOK, map[string]any{
		"upload_url": uploadURL,
		"file_url":   a.storage.FileURL(key),
		"key":        key,
		"expires_in": int(presignTTL.Seconds()),
	})
}
