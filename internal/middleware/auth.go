// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"dropshop/internal/apperr"
	"dropshop/internal/models"
	"dropshop/internal/store"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// principalKey is the context key for the authenticated principal id.
	principalKey contextKey = "principal"
)

// Verifier validates an access token and returns the principal id.
type Verifier interface {
	VerifyAccess(tokenString string) (uuid.UUID, error)
}

// RoleLookup fetches a principal's profile through the privileged
// database handle (never the end-user credential).
type RoleLookup interface {
	FindByID(id uuid.UUID) (*models.User, error)
}

// Authenticate extracts the bearer token from the Authorization header,
// verifies it, and stores the principal id in the request context.
// Missing, malformed, or rejected tokens end the request with 401.
func Authenticate(verifier Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, apperr.NewUnauthenticated("missing authorization header"))
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				writeError(w, apperr.NewUnauthenticated("invalid authorization header format"))
				return
			}

			principalID, err := verifier.VerifyAccess(parts[1])
			if err != nil {
				writeError(w, apperr.NewUnauthenticated("invalid or expired token"))
				return
			}

			ctx := context.WithValue(r.Context(), principalKey, principalID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin looks up the authenticated principal's role and rejects
// everyone but admins. A failed or empty lookup is a 500, not a 403:
// a verified principal without a profile row is a data-integrity fault.
// The role comparison is case-insensitive (models.User.IsAdmin) because
// migrated rows carry both "admin" and "ADMIN" spellings.
// Must be applied after Authenticate.
func RequireAdmin(users RoleLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principalID, ok := PrincipalFromCtx(r.Context())
			if !ok {
				writeError(w, apperr.NewUnauthenticated("not authenticated"))
				return
			}

			user, err := users.FindByID(principalID)
			if err != nil {
				writeError(w, apperr.NewAuthzLookupFailed(err))
				return
			}
			if user == nil {
				writeError(w, apperr.NewAuthzLookupFailed(store.ErrProfileMissing))
				return
			}

			if !user.IsAdmin() {
				writeError(w, apperr.NewForbidden("admin access required"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// PrincipalFromCtx extracts the authenticated principal id from the
// request context. The second return is false when the request did not
// pass through Authenticate.
func PrincipalFromCtx(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(principalKey).(uuid.UUID)
	return id, ok
}

// CtxWithPrincipal returns a context carrying the principal id.
// Exported for handler tests that bypass the middleware chain.
func CtxWithPrincipal(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, principalKey, id)
}

// writeError converts a tagged error into the JSON error contract.
func writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(apperr.KindOf(err).HTTPStatus())
	json.NewEncoder(w).Encode(map[string]string{"error": apperr.Normalize(err)})
}
