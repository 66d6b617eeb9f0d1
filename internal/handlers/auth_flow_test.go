// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dropshop/internal/models"
)

type tokenResponse struct {
	User   *models.User `json:"user"`
	Tokens struct {
		AccessToken  string    `json:"access_token"`
		ExpiresAt    time.Time `json:"expires_at"`
		RefreshToken string    `json:"refresh_token"`
	} `json:"tokens"`
}

func TestAuthSignupSigninFlow(t *testing.T) {
	env := newTestEnv(t)
	email := "flow@handler-test.local"
	t.Cleanup(func() { env.DB.Exec("DELETE FROM users WHERE email = $1", email) })

	// Signup.
	rec := httptest.NewRecorder()
	env.Auth.Signup(rec, postJSON("/api/auth/signup",
		`{"email": "`+email+`", "password": "longenough1", "display_name": "Flow"}`))
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup status: got %d: %s", rec.Code, rec.Body.String())
	}

	var signup tokenResponse
	if err := json.NewDecoder(rec.Body).Decode(&signup); err != nil {
		t.Fatalf("decode signup: %v", err)
	}
	if signup.User.Role != models.RoleCustomer {
		t.Errorf("new accounts must be customers, got %q", signup.User.Role)
	}
	if signup.Tokens.AccessToken == "" || signup.Tokens.RefreshToken == "" {
		t.Fatal("expected both tokens in signup response")
	}

	// The access token verifies to the new user's id.
	id, err := env.Tokens.VerifyAccess(signup.Tokens.AccessToken)
	if err != nil {
		t.Fatalf("VerifyAccess: %v", err)
	}
	if id != signup.User.ID {
		t.Errorf("token subject: got %s, want %s", id, signup.User.ID)
	}

	// Signin with the right password.
	rec = httptest.NewRecorder()
	env.Auth.Signin(rec, postJSON("/api/auth/signin",
		`{"email": "`+email+`", "password": "longenough1"}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("signin status: got %d: %s", rec.Code, rec.Body.String())
	}

	// Signin with the wrong password is a 401.
	rec = httptest.NewRecorder()
	env.Auth.Signin(rec, postJSON("/api/auth/signin",
		`{"email": "`+email+`", "password": "wrongpass99"}`))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong password status: got %d, want 401", rec.Code)
	}
}

func TestAuthSignupDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	email := "dupe@handler-test.local"
	t.Cleanup(func() { env.DB.Exec("DELETE FROM users WHERE email = $1", email) })

	body := `{"email": "` + email + `", "password": "longenough1"}`

	rec := httptest.NewRecorder()
	env.Auth.Signup(rec, postJSON("/api/auth/signup", body))
	if rec.Code != http.StatusCreated {
		t.Fatalf("first signup: got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	env.Auth.Signup(rec, postJSON("/api/auth/signup", body))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("duplicate signup: got %d, want 400", rec.Code)
	}
}

func TestAuthSignupWeakPassword(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	env.Auth.Signup(rec, postJSON("/api/auth/signup",
		`{"email": "weak@handler-test.local", "password": "short"}`))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}

func TestAuthRefreshRotation(t *testing.T) {
	env := newTestEnv(t)
	email := "rotate@handler-test.local"
	t.Cleanup(func() { env.DB.Exec("DELETE FROM users WHERE email = $1", email) })

	rec := httptest.NewRecorder()
	env.Auth.Signup(rec, postJSON("/api/auth/signup",
		`{"email": "`+email+`", "password": "longenough1"}`))
	var signup tokenResponse
	json.NewDecoder(rec.Body).Decode(&signup)
	first := signup.Tokens.RefreshToken

	// First rotation succeeds and returns a new pair.
	rec = httptest.NewRecorder()
	env.Auth.Refresh(rec, postJSON("/api/auth/refresh", `{"refresh_token": "`+first+`"}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh status: got %d: %s", rec.Code, rec.Body.String())
	}

	var refreshed tokenResponse
	json.NewDecoder(rec.Body).Decode(&refreshed)
	if refreshed.Tokens.RefreshToken == first {
		t.Error("rotation must mint a new refresh token")
	}

	// Replaying the consumed token fails.
	rec = httptest.NewRecorder()
	env.Auth.Refresh(rec, postJSON("/api/auth/refresh", `{"refresh_token": "`+first+`"}`))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("replayed refresh: got %d, want 401", rec.Code)
	}
}

func TestAuthMe(t *testing.T) {
	env := newTestEnv(t)
	user := testUser(t, env.Users, env.DB, "me@handler-test.local", models.RoleCustomer)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/auth/me", nil)
	env.Auth.Me(rec, asPrincipal(req, user.ID))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		User models.User `json:"user"`
	}
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp.User.ID != user.ID {
		t.Errorf("user: got %s, want %s", resp.User.ID, user.ID)
	}
	if resp.User.PasswordHash != "" {
		t.Error("password hash must never serialize")
	}
}

func TestAuthTOTPSetupAndVerify(t *testing.T) {
	env := newTestEnv(t)
	user := testUser(t, env.Users, env.DB, "totp@handler-test.local", models.RoleCustomer)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/auth/2fa/setup", nil)
	env.Auth.TOTPSetup(rec, asPrincipal(req, user.ID))
	if rec.Code != http.StatusOK {
		t.Fatalf("setup status: got %d: %s", rec.Code, rec.Body.String())
	}

	var setup struct {
		Secret string `json:"secret"`
		URL    string `json:"url"`
		QRPNG  string `json:"qr_png"`
	}
	json.NewDecoder(rec.Body).Decode(&setup)
	if setup.Secret == "" || setup.URL == "" || setup.QRPNG == "" {
		t.Fatal("expected secret, url, and QR code in setup response")
	}

	// 2FA is pending, not enabled, until a code is verified.
	after, _ := env.Users.FindByID(user.ID)
	if after.TOTPEnabled {
		t.Error("setup alone must not enable 2FA")
	}

	// A wrong code does not enable it either.
	rec = httptest.NewRecorder()
	req = postJSON("/api/auth/2fa/verify", `{"code": "000000"}`)
	env.Auth.TOTPVerify(rec, asPrincipal(req, user.ID))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("wrong code status: got %d, want 400", rec.Code)
	}
}
