// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cart

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// CookieName identifies the cart token cookie sent to the browser.
	CookieName = "ds_cart"

	// DefaultTTL is how long an idle cart lives in Redis before expiry.
	DefaultTTL = 30 * 24 * time.Hour

	// keyPrefix namespaces cart keys in Redis.
	keyPrefix = "cart:"

	// tokenLength is the byte length of the random cart token.
	tokenLength = 32
)

// Container exposes the cart state machine behind the
// current-state / dispatch / subscribe triple.
type Container interface {
	State(ctx context.Context, token string) (State, error)
	Dispatch(ctx context.Context, token string, e Event) (State, error)
	Subscribe(fn func(token string, s State)) (unsubscribe func())
}

// Store is a Redis-backed Container. States are stored as JSON with TTL
// expiry; each Dispatch loads, reduces, saves, and notifies subscribers.
type Store struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time

	mu      sync.Mutex
	subs    map[int]func(string, State)
	nextSub int
}

// NewStore creates a cart store backed by the given Redis client.
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
		ttl:    DefaultTTL,
		now:    time.Now,
		subs:   make(map[int]func(string, State)),
	}
}

// State loads the cart for a token. A missing or expired cart is an
// empty state, not an error.
func (s *Store) State(ctx context.Context, token string) (State, error) {
	payload, err := s.client.Get(ctx, keyPrefix+token).Bytes()
	if err == redis.Nil {
		return State{}, nil
	}
	if err != nil {
		return State{}, fmt.Errorf("cart get: %w", err)
	}

	var state State
	if err := json.Unmarshal(payload, &state); err != nil {
		return State{}, fmt.Errorf("cart unmarshal: %w", err)
	}
	return state, nil
}

// Dispatch applies an event to the cart identified by token and
// persists the result, resetting the TTL. Subscribers are notified
// synchronously with the new state.
func (s *Store) Dispatch(ctx context.Context, token string, e Event) (State, error) {
	current, err := s.State(ctx, token)
	if err != nil {
		return State{}, err
	}

	next := Reduce(current, e, s.now())

	payload, err := json.Marshal(next)
	if err != nil {
		return State{}, fmt.Errorf("cart marshal: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+token, payload, s.ttl).Err(); err != nil {
		return State{}, fmt.Errorf("cart store: %w", err)
	}

	s.notify(token, next)
	return next, nil
}

// Subscribe registers a listener called after every successful Dispatch.
// The returned function removes the listener.
func (s *Store) Subscribe(fn func(token string, state State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) notify(token string, state State) {
	s.mu.Lock()
	listeners := make([]func(string, State), 0, len(s.subs))
	for _, fn := range s.subs {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(token, state)
	}
}

// Drop deletes the cart for a token (after checkout).
func (s *Store) Drop(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, keyPrefix+token).Err(); err != nil {
		return fmt.Errorf("cart drop: %w", err)
	}
	return nil
}

// TokenFromRequest returns the cart token carried by the request
// cookie, or "" if there is none.
func TokenFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// EnsureToken returns the request's cart token, minting a new one and
// setting the cookie when the request has none.
func EnsureToken(w http.ResponseWriter, r *http.Request, secure bool) (string, error) {
	if tok := TokenFromRequest(r); tok != "" {
		return tok, nil
	}

	b := make([]byte, tokenLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("cart token generate: %w", err)
	}
	tok := hex.EncodeToString(b)

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    tok,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(DefaultTTL.Seconds()),
	})

	return tok, nil
}
