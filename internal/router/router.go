// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// dropshop API. Routes split into three groups: the public storefront
// and cart, the authenticated account area, and the admin panel behind
// the authentication plus admin-role chain.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"dropshop/internal/handlers"
	"dropshop/internal/middleware"
	"dropshop/internal/store"
	"dropshop/internal/token"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(tokens *token.Service, users *store.UserStore, auth *handlers.Auth, front *handlers.Storefront, cartH *handlers.Cart, orders *handlers.Orders, admin *handlers.Admin) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	// Sliding-window limiter shared by the credential endpoints. Lives
	// for the life of the router.
	authLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Health check — no auth.
	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		// Account endpoints. Signin and signup are rate limited per IP
		// to slow down credential stuffing.
		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(authLimiter.Middleware)
				r.Post("/signup", auth.Signup)
				r.Post("/signin", auth.Signin)
			})
			r.Post("/refresh", auth.Refresh)
			r.Post("/logout", auth.Logout)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Authenticate(tokens))
				r.Get("/me", auth.Me)
				r.Post("/2fa/setup", auth.TOTPSetup)
				r.Post("/2fa/verify", auth.TOTPVerify)
			})
		})

		// Public storefront — read-only catalog.
		r.Get("/products", front.ProductsList)
		r.Get("/products/{slug}", front.ProductDetail)
		r.Get("/categories", front.CategoriesList)
		r.Get("/collections", front.CollectionsList)
		r.Get("/colors", front.ColorsList)
		r.Get("/sizes", front.SizesList)

		// Cart — anonymous, keyed by cookie token.
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartH.Get)
			r.Post("/", cartH.Dispatch)
			r.Delete("/", cartH.Clear)
		})

		// Checkout and order history require an account.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(tokens))
			r.Post("/checkout", orders.Checkout)
			r.Get("/orders", orders.List)
			r.Get("/orders/{id}", orders.Detail)
		})

		// Admin panel — authentication, then the admin-role check.
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.Authenticate(tokens))
			r.Use(middleware.RequireAdmin(users))

			r.Route("/products", func(r chi.Router) {
				r.Get("/", admin.ProductsList)
				r.Post("/", admin.ProductCreate)
				r.Post("/batch-delete", admin.ProductsBatchDelete)
				r.Get("/{id}", admin.ProductDetail)
				r.Patch("/{id}", admin.ProductUpdate)
				r.Delete("/{id}", admin.ProductDelete)
			})

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", admin.CategoriesList)
				r.Post("/", admin.CategoryCreate)
				r.Patch("/{id}", admin.CategoryUpdate)
				r.Delete("/{id}", admin.CategoryDelete)
			})

			r.Route("/collections", func(r chi.Router) {
				r.Get("/", admin.CollectionsList)
				r.Post("/", admin.CollectionCreate)
				r.Patch("/{id}", admin.CollectionUpdate)
				r.Delete("/{id}", admin.CollectionDelete)
			})

			r.Post("/colors", admin.ColorCreate)
			r.Post("/sizes", admin.SizeCreate)

			r.Post("/promote-user", admin.PromoteUser)
			r.Post("/uploads", admin.PresignUpload)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
