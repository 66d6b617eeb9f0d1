// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package token issues and verifies the two credential types of the API:
// short-lived JWT access tokens and opaque, single-use refresh tokens
// stored in Redis with automatic TTL expiry.
package token

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// AccessTTL is the lifetime of an access token.
	AccessTTL = 15 * time.Minute

	// RefreshTTL is the lifetime of a refresh token.
	RefreshTTL = 30 * 24 * time.Hour

	// refreshPrefix namespaces refresh-token keys in Redis.
	refreshPrefix = "refresh:"

	// refreshLength is the byte length of the random refresh token.
	refreshLength = 32

	issuer = "dropshop"
)

// ErrInvalidToken is returned when a token fails verification, has
// expired, or (for refresh tokens) has already been used.
var ErrInvalidToken = errors.New("invalid token")

// Claims are the JWT claims carried by an access token. The subject is
// the principal's user id.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// Service issues and verifies tokens.
type Service struct {
	secret []byte
	client *redis.Client
	now    func() time.Time
}

// NewService creates a token service with the given signing secret and
// Redis client for refresh-token storage.
func NewService(secret string, client *redis.Client) *Service {
	return &Service{
		secret: []byte(secret),
		client: client,
		now:    time.Now,
	}
}

// IssueAccess signs a new access token for the given principal.
func (s *Service) IssueAccess(userID uuid.UUID, email string) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(AccessTTL)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Email: email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	return signed, expiresAt, nil
}

// VerifyAccess validates an access token and returns the principal id.
func (s *Service) VerifyAccess(tokenString string) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}

	return userID, nil
}

// IssueRefresh creates an opaque refresh token bound to the principal
// and stores it in Redis with TTL expiry.
func (s *Service) IssueRefresh(ctx context.Context, userID uuid.UUID) (string, error) {
	b := make([]byte, refreshLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("refresh token generate: %w", err)
	}
	tok := hex.EncodeToString(b)

	if err := s.client.Set(ctx, refreshPrefix+tok, userID.String(), RefreshTTL).Err(); err != nil {
		return "", fmt.Errorf("refresh token store: %w", err)
	}

	return tok, nil
}

// RotateRefresh consumes a refresh token and returns the principal it
// belonged to. The token is deleted atomically, so a token can only be
// redeemed once; a replayed token fails with ErrInvalidToken.
func (s *Service) RotateRefresh(ctx context.Context, tok string) (uuid.UUID, error) {
	val, err := s.client.GetDel(ctx, refreshPrefix+tok).Result()
	if err == redis.Nil {
		return uuid.Nil, ErrInvalidToken
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("refresh token lookup: %w", err)
	}

	userID, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}

	return userID, nil
}

// RevokeRefresh deletes a refresh token (logout).
func (s *Service) RevokeRefresh(ctx context.Context, tok string) error {
	return s.client.Del(ctx, refreshPrefix+tok).Err()
}
