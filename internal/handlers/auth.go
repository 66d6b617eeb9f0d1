// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/base64"
	"log/slog"
	"net/http"
	"time"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"dropshop/internal/apperr"
	"dropshop/internal/middleware"
	"dropshop/internal/models"
	"dropshop/internal/store"
	"dropshop/internal/token"
)

// Auth groups the account and session endpoints.
type Auth struct {
	users  *store.UserStore
	tokens *token.Service
}

// NewAuth creates the auth handler group.
func NewAuth(users *store.UserStore, tokens *token.Service) *Auth {
	return &Auth{users: users, tokens: tokens}
}

// tokenPair is the credential payload returned by signup, signin, and
// refresh.
type tokenPair struct {
	AccessToken  string    `json:"access_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	RefreshToken string    `json:"refresh_token"`
}

func (h *Auth) issuePair(r *http.Request, user *models.User) (*tokenPair, error) {
	access, expiresAt, err := h.tokens.IssueAccess(user.ID, user.Email)
	if err != nil {
		return nil, apperr.NewMutationFailed("token issue failed", err)
	}
	refresh, err := h.tokens.IssueRefresh(r.Context(), user.ID)
	if err != nil {
		return nil, apperr.NewMutationFailed("token issue failed", err)
	}
	return &tokenPair{AccessToken: access, ExpiresAt: expiresAt, RefreshToken: refresh}, nil
}

// Signup registers a new customer account and signs it in.
func (h *Auth) Signup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email       string `json:"email"`
		Password    string `json:"password"`
		DisplayName string `json:"display_name"`
	}
	if err := decode(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if msg := validateEmail(req.Email); msg != "" {
		respondError(w, r, apperr.NewInvalidPayload(msg))
		return
	}
	if msg := validatePassword(req.Password); msg != "" {
		respondError(w, r, apperr.NewInvalidPayload(msg))
		return
	}

	existing, err := h.users.FindByEmail(req.Email)
	if err != nil {
		respondError(w, r, apperr.NewMutationFailed("signup failed", err))
		return
	}
	if existing != nil {
		respondError(w, r, apperr.NewInvalidPayload("An account with this email already exists."))
		return
	}

	// Every self-registered account is a customer. Promotion to admin
	// only happens through the admin panel.
	user, err := h.users.Create(req.Email, req.Password, req.DisplayName, models.RoleCustomer)
	if err != nil {
		respondError(w, r, apperr.NewMutationFailed("signup failed", err))
		return
	}

	pair, err := h.issuePair(r, user)
	if err != nil {
		respondError(w, r, err)
		return
	}

	slog.Info("user signed up", "user_id", user.ID, "email", user.Email)
	respond(w, http.StatusCreated, map[string]any{"user": user, "tokens": pair})
}

// Signin authenticates with email and password, plus a TOTP code when
// the account has 2FA enabled. Wrong email and wrong password produce
// the same message, so the endpoint does not confirm which accounts
// exist.
func (h *Auth) Signin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		TOTPCode string `json:"totp_code"`
	}
	if err := decode(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	user, err := h.users.FindByEmail(req.Email)
	if err != nil {
		respondError(w, r, apperr.NewMutationFailed("signin failed", err))
		return
	}
	if user == nil || !h.users.CheckPassword(user, req.Password) {
		respondError(w, r, apperr.NewUnauthenticated("invalid email or password"))
		return
	}

	if user.TOTPEnabled {
		if user.TOTPSecret == nil {
			respondError(w, r, apperr.NewMutationFailed("signin failed", store.ErrProfileMissing))
			return
		}
		if !totp.Validate(req.TOTPCode, *user.TOTPSecret) {
			respondError(w, r, apperr.NewUnauthenticated("invalid two-factor code"))
			return
		}
	}

	pair, err := h.issuePair(r, user)
	if err != nil {
		respondError(w, r, err)
		return
	}

	slog.Info("user signed in", "user_id", user.ID)
	respond(w, http.StatusOK, map[string]any{"user": user, "tokens": pair})
}

// Refresh rotates a refresh token into a fresh access/refresh pair.
// The presented token is consumed; replaying it fails.
func (h *Auth) Refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := decode(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	userID, err := h.tokens.RotateRefresh(r.Context(), req.RefreshToken)
	if err == token.ErrInvalidToken {
		respondError(w, r, apperr.NewUnauthenticated("invalid or expired refresh token"))
		return
	}
	if err != nil {
		respondError(w, r, apperr.NewMutationFailed("refresh failed", err))
		return
	}

	user, err := h.users.FindByID(userID)
	if err != nil || user == nil {
		respondError(w, r, apperr.NewAuthzLookupFailed(err))
		return
	}

	pair, err := h.issuePair(r, user)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"tokens": pair})
}

// Logout revokes a refresh token. The access token simply expires.
func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := decode(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if err := h.tokens.RevokeRefresh(r.Context(), req.RefreshToken); err != nil {
		respondError(w, r, apperr.NewMutationFailed("logout failed", err))
		return
	}
	respond(w, http.StatusNoContent, nil)
}

// Me returns the authenticated user's own profile.
func (h *Auth) Me(w http.ResponseWriter, r *http.Request) {
	principalID, ok := middleware.PrincipalFromCtx(r.Context())
	if !ok {
		respondError(w, r, apperr.NewUnauthenticated("not authenticated"))
		return
	}
	user, err := h.users.FindByID(principalID)
	if err != nil {
		respondError(w, r, apperr.NewMutationFailed("profile lookup failed", err))
		return
	}
	if user == nil {
		respondError(w, r, apperr.NewAuthzLookupFailed(store.ErrProfileMissing))
		return
	}
	respond(w, http.StatusOK, map[string]any{"user": user})
}

// TOTPSetup generates a new TOTP secret for the authenticated user and
// returns the provisioning URI plus a QR code PNG (base64) to scan.
// 2FA is not active until TOTPVerify confirms a code.
func (h *Auth) TOTPSetup(w http.ResponseWriter, r *http.Request) {
	principalID, _ := middleware.PrincipalFromCtx(r.Context())
	user, err := h.users.FindByID(principalID)
	if err != nil || user == nil {
		respondError(w, r, apperr.NewAuthzLookupFailed(err))
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "dropshop",
		AccountName: user.Email,
	})
	if err != nil {
		respondError(w, r, apperr.NewMutationFailed("totp setup failed", err))
		return
	}

	if err := h.users.SetTOTPSecret(user.ID, key.Secret()); err != nil {
		respondError(w, r, apperr.NewMutationFailed("totp setup failed", err))
		return
	}

	png, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		respondError(w, r, apperr.NewMutationFailed("totp setup failed", err))
		return
	}

	respond(w, http.StatusOK, map[string]any{
		"secret": key.Secret(),
		"url":    key.URL(),
		"qr_png": base64.StdEncoding.EncodeToString(png),
	})
}

// TOTPVerify confirms a code against the pending secret and enables 2FA.
func (h *Auth) TOTPVerify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := decode(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	principalID, _ := middleware.PrincipalFromCtx(r.Context())
	user, err := h.users.FindByID(principalID)
	if err != nil || user == nil {
		respondError(w, r, apperr.NewAuthzLookupFailed(err))
		return
	}
	if user.TOTPSecret == nil {
		respondError(w, r, apperr.NewInvalidPayload("Run 2FA setup first."))
		return
	}
	if !totp.Validate(req.Code, *user.TOTPSecret) {
		respondError(w, r, apperr.NewInvalidPayload("Invalid two-factor code."))
		return
	}

	if err := h.users.EnableTOTP(user.ID); err != nil {
		respondError(w, r, apperr.NewMutationFailed("totp enable failed", err))
		return
	}

	slog.Info("totp enabled", "user_id", user.ID)
	respond(w, http.StatusOK, map[string]any{"totp_enabled": true})
}
