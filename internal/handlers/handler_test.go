// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler
// integration tests. Tests are skipped when PostgreSQL or Redis are
// unavailable.
package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"dropshop/internal/cart"
	"dropshop/internal/database"
	"dropshop/internal/middleware"
	"dropshop/internal/models"
	"dropshop/internal/store"
	"dropshop/internal/token"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "dropshop")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "dropshop")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testRedisClient returns a Redis client for handler tests on DB 15.
func testRedisClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("REDIS_HOST", "localhost")
	port := envOr("REDIS_PORT", "6379")
	password := os.Getenv("REDIS_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Redis not reachable: %v", err)
	}

	t.Cleanup(func() {
		for _, pattern := range []string{"cart:*", "refresh:*"} {
			keys, _ := client.Keys(ctx, pattern).Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		}
		client.Close()
	})

	return client
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB          *sql.DB
	Redis       *redis.Client
	Products    *store.ProductStore
	Categories  *store.CategoryStore
	Collections *store.CollectionStore
	Colors      *store.ColorStore
	Sizes       *store.SizeStore
	Users       *store.UserStore
	OrderStore  *store.OrderStore
	Carts       *cart.Store
	Tokens      *token.Service
	Admin       *Admin
	Auth        *Auth
	Storefront  *Storefront
	Cart        *Cart
	Orders      *Orders
}

// newTestEnv creates a complete test environment with all handler
// dependencies. S3 storage is left nil; upload and cleanup paths are
// covered by their own guards.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	rdb := testRedisClient(t)

	products := store.NewProductStore(db)
	categories := store.NewCategoryStore(db)
	collections := store.NewCollectionStore(db)
	colors := store.NewColorStore(db)
	sizes := store.NewSizeStore(db)
	users := store.NewUserStore(db)
	orders := store.NewOrderStore(db)
	carts := cart.NewStore(rdb)
	tokens := token.NewService("test-secret", rdb)

	return &testEnv{
		DB:          db,
		Redis:       rdb,
		Products:    products,
		Categories:  categories,
		Collections: collections,
		Colors:      colors,
		Sizes:       sizes,
		Users:       users,
		OrderStore:  orders,
		Carts:       carts,
		Tokens:      tokens,
		Admin:       NewAdmin(products, categories, collections, colors, sizes, users, nil),
		Auth:        NewAuth(users, tokens),
		Storefront:  NewStorefront(products, categories, collections, colors, sizes),
		Cart:        NewCart(carts, products, false),
		Orders:      NewOrders(orders, carts),
	}
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// asPrincipal stamps a request with an authenticated principal id, the
// way the Authenticate middleware would.
func asPrincipal(r *http.Request, id uuid.UUID) *http.Request {
	return r.WithContext(middleware.CtxWithPrincipal(r.Context(), id))
}

// testUser creates a user for the duration of the test.
func testUser(t *testing.T, users *store.UserStore, db *sql.DB, email string, role models.Role) *models.User {
	t.Helper()
	t.Cleanup(func() { db.Exec("DELETE FROM users WHERE email = $1", email) })
	u, err := users.Create(email, "testpass123", "Handler Test", role)
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	return u
}

// cleanProducts removes test products by slug.
func cleanProducts(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for _, s := range slugs {
		db.Exec("DELETE FROM products WHERE slug = $1", s)
	}
}

// cleanCategories removes test categories by slug.
func cleanCategories(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for _, s := range slugs {
		db.Exec("DELETE FROM categories WHERE slug = $1", s)
	}
}
