// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the dropshop API.
// Handlers are grouped by concern (auth, storefront, cart, orders,
// admin) and receive their dependencies through the handler struct.
// Every response body is JSON; errors follow the {"error": msg}
// contract with the status taken from the error's kind.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"dropshop/internal/apperr"
)

// maxBodyBytes caps request bodies. Catalog payloads are small; anything
// larger is rejected before decoding.
const maxBodyBytes = 1 << 20

// respond writes a JSON response with the given status.
func respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if body != nil {
		if err := json.NewEncoder(w).Encode(body); err != nil {
			slog.Error("response encode failed", "error", err)
		}
	}
}

// respondError maps any error to the JSON error contract. Server-side
// kinds are logged with their cause; the client only ever sees the
// normalized message.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	status := kind.HTTPStatus()
	if status >= 500 {
		slog.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
	}
	respond(w, status, map[string]string{"error": apperr.Normalize(err)})
}

// decode reads and unmarshals a JSON request body into dst. Returns an
// InvalidPayload error on malformed or oversized bodies.
func decode(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return apperr.NewInvalidPayload("request body too large")
		}
		return apperr.NewInvalidPayload("invalid JSON body")
	}
	return nil
}
