// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"dropshop/internal/apperr"
	"dropshop/internal/cart"
	"dropshop/internal/store"
)

// Cart groups the cart endpoints. Carts are keyed by an anonymous
// cookie token, so guests can fill a cart before signing in; checkout
// is the first point that requires an account.
type Cart struct {
	carts    cart.Container
	products *store.ProductStore
	secure   bool // Secure flag on the cart cookie (production)
}

// NewCart creates the cart handler group.
func NewCart(carts cart.Container, products *store.ProductStore, secure bool) *Cart {
	return &Cart{carts: carts, products: products, secure: secure}
}

// Get returns the current cart state, minting a cart token when the
// request has none.
func (h *Cart) Get(w http.ResponseWriter, r *http.Request) {
	tok, err := cart.EnsureToken(w, r, h.secure)
	if err != nil {
		respondError(w, r, apperr.NewMutationFailed("cart token failed", err))
		return
	}

	state, err := h.carts.State(r.Context(), tok)
	if err != nil {
		respondError(w, r, apperr.NewMutationFailed("cart load failed", err))
		return
	}
	respond(w, http.StatusOK, map[string]any{"cart": state})
}

// Dispatch applies one cart event and returns the resulting state.
// The event body mirrors the reducer's event shape.
func (h *Cart) Dispatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Kind      cart.EventKind `json:"kind"`
		ProductID uuid.UUID      `json:"product_id"`
		Quantity  int            `json:"quantity"`
	}
	if err := decode(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	event, err := h.buildEvent(r, req.Kind, req.ProductID, req.Quantity)
	if err != nil {
		respondError(w, r, err)
		return
	}

	tok, err := cart.EnsureToken(w, r, h.secure)
	if err != nil {
		respondError(w, r, apperr.NewMutationFailed("cart token failed", err))
		return
	}

	state, err := h.carts.Dispatch(r.Context(), tok, event)
	if err != nil {
		respondError(w, r, apperr.NewMutationFailed("cart update failed", err))
		return
	}
	respond(w, http.StatusOK, map[string]any{"cart": state})
}

// buildEvent validates the request fields for the given event kind and
// constructs the reducer event. Add events also confirm the product is
// real and active, so a cart can never accumulate phantom lines.
func (h *Cart) buildEvent(r *http.Request, kind cart.EventKind, productID uuid.UUID, qty int) (cart.Event, error) {
	switch kind {
	case cart.EventAddItem, cart.EventSetQuantity:
		if productID == uuid.Nil {
			return cart.Event{}, apperr.NewInvalidPayload("product_id is required")
		}
		if msg := validateQuantity(qty); msg != "" {
			return cart.Event{}, apperr.NewInvalidPayload(msg)
		}
		p, err := h.products.FindByID(productID)
		if err != nil {
			return cart.Event{}, apperr.NewMutationFailed("product lookup failed", err)
		}
		if p == nil || !p.Active {
			return cart.Event{}, apperr.NewNotFound("product not found")
		}
		if kind == cart.EventAddItem {
			return cart.AddItem(productID, qty), nil
		}
		return cart.SetQuantity(productID, qty), nil

	case cart.EventRemoveItem:
		if productID == uuid.Nil {
			return cart.Event{}, apperr.NewInvalidPayload("product_id is required")
		}
		return cart.RemoveItem(productID), nil

	case cart.EventClear:
		return cart.Clear(), nil

	default:
		return cart.Event{}, apperr.NewInvalidPayload("unknown cart event kind")
	}
}

// Clear empties the cart.
func (h *Cart) Clear(w http.ResponseWriter, r *http.Request) {
	tok := cart.TokenFromRequest(r)
	if tok == "" {
		// No cookie means no cart; clearing nothing succeeds.
		respond(w, http.StatusOK, map[string]any{"cart": cart.State{}})
		return
	}

	state, err := h.carts.Dispatch(r.Context(), tok, cart.Clear())
	if err != nil {
		respondError(w, r, apperr.NewMutationFailed("cart clear failed", err))
		return
	}
	respond(w, http.StatusOK, map[string]any{"cart": state})
}
