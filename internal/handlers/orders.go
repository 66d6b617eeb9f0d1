// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"dropshop/internal/apperr"
	"dropshop/internal/cart"
	"dropshop/internal/middleware"
	"dropshop/internal/store"
)

// Orders groups the checkout and order-history endpoints. All of them
// require an authenticated principal.
type Orders struct {
	orders *store.OrderStore
	carts  *cart.Store
}

// NewOrders creates the orders handler group.
func NewOrders(orders *store.OrderStore, carts *cart.Store) *Orders {
	return &Orders{orders: orders, carts: carts}
}

// Checkout converts the request's cart into a confirmed order. Stock
// and drop-time checks happen inside the order transaction; on success
// the cart is dropped.
func (h *Orders) Checkout(w http.ResponseWriter, r *http.Request) {
	principalID, ok := middleware.PrincipalFromCtx(r.Context())
	if !ok {
		respondError(w, r, apperr.NewUnauthenticated("not authenticated"))
		return
	}

	tok := cart.TokenFromRequest(r)
	if tok == "" {
		respondError(w, r, apperr.NewInvalidPayload("Cart is empty."))
		return
	}

	state, err := h.carts.State(r.Context(), tok)
	if err != nil {
		respondError(w, r, apperr.NewMutationFailed("cart load failed", err))
		return
	}

	order, err := h.orders.CreateFromCart(principalID, state, time.Now())
	switch {
	case errors.Is(err, store.ErrEmptyCart):
		respondError(w, r, apperr.NewInvalidPayload("Cart is empty."))
		return
	case errors.Is(err, store.ErrNotPurchasable):
		respondError(w, r, apperr.NewInvalidPayload("A product in the cart is not available for purchase."))
		return
	case errors.Is(err, store.ErrInsufficientQty):
		respondError(w, r, apperr.NewInvalidPayload("Not enough stock for a product in the cart."))
		return
	case err != nil:
		respondError(w, r, apperr.NewMutationFailed("checkout failed", err))
		return
	}

	if err := h.carts.Drop(r.Context(), tok); err != nil {
		// The order is committed; a stale cart is an annoyance, not a
		// failure.
		slog.Error("cart drop after checkout failed", "order_id", order.ID, "error", err)
	}

	slog.Info("order placed", "order_id", order.ID, "user_id", principalID, "total", order.Total)
	respond(w, http.StatusCreated, map[string]any{"order": order})
}

// List returns the authenticated user's orders, newest first.
func (h *Orders) List(w http.ResponseWriter, r *http.Request) {
	principalID, ok := middleware.PrincipalFromCtx(r.Context())
	if !ok {
		respondError(w, r, apperr.NewUnauthenticated("not authenticated"))
		return
	}

	orders, err := h.orders.ListByUser(principalID)
	if err != nil {
		respondError(w, r, apperr.NewMutationFailed("order listing failed", err))
		return
	}
	respond(w, http.StatusOK, map[string]any{"orders": orders})
}

// Detail returns one of the authenticated user's orders. Someone
// else's order id is a 404, not a 403: the endpoint does not reveal
// which ids exist.
func (h *Orders) Detail(w http.ResponseWriter, r *http.Request) {
	principalID, ok := middleware.PrincipalFromCtx(r.Context())
	if !ok {
		respondError(w, r, apperr.NewUnauthenticated("not authenticated"))
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, apperr.NewInvalidPayload("invalid order id"))
		return
	}

	order, err := h.orders.FindByID(orderID, principalID)
	if err != nil {
		respondError(w, r, apperr.NewMutationFailed("order lookup failed", err))
		return
	}
	if order == nil {
		respondError(w, r, apperr.NewNotFound("order not found"))
		return
	}
	respond(w, http.StatusOK, map[string]any{"order": order})
}
