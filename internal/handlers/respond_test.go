// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"dropshop/internal/apperr"
)

func TestRespondErrorCarriesStoreMessage(t *testing.T) {
	cause := errors.New(`duplicate key value violates unique constraint "products_slug_key"`)
	req := httptest.NewRequest("POST", "/api/admin/products", nil)
	rec := httptest.NewRecorder()

	respondError(rec, req, apperr.FromStore("product", cause))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d, want 500", rec.Code)
	}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if !strings.Contains(body.Error, "products_slug_key") {
		t.Errorf("error body %q does not carry the store's message text", body.Error)
	}
}

func TestRespondErrorKeepsAuthzCausePrivate(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/admin/products", nil)
	rec := httptest.NewRecorder()

	respondError(rec, req, apperr.NewAuthzLookupFailed(errors.New("dial tcp: connection refused")))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d, want 500", rec.Code)
	}
	if got := rec.Body.String(); strings.Contains(got, "dial tcp") {
		t.Errorf("authz lookup cause leaked to the client: %q", got)
	}
}
