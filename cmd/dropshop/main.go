// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the dropshop API server.
// It loads configuration, connects to services, sets up routing, and
// starts the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dropshop/internal/cache"
	"dropshop/internal/cart"
	"dropshop/internal/config"
	"dropshop/internal/database"
	"dropshop/internal/handlers"
	"dropshop/internal/router"
	"dropshop/internal/storage"
	"dropshop/internal/store"
	"dropshop/internal/token"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Redis (cart container + refresh token store).
	redisClient, err := cache.Connect(cfg.RedisAddr(), cfg.RedisPassword)
	if err != nil {
		slog.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	// Initialize data stores.
	userStore := store.NewUserStore(db)
	productStore := store.NewProductStore(db)
	categoryStore := store.NewCategoryStore(db)
	collectionStore := store.NewCollectionStore(db)
	colorStore := store.NewColorStore(db)
	sizeStore := store.NewSizeStore(db)
	orderStore := store.NewOrderStore(db)

	// Token service for access and refresh credentials.
	tokens := token.NewService(cfg.JWTSecret, redisClient)

	// Cart container backed by Redis. Cart activity is mirrored into
	// the debug log through a subscriber.
	cartStore := cart.NewStore(redisClient)
	cartStore.Subscribe(func(tok string, s cart.State) {
		slog.Debug("cart updated", "lines", len(s.Items), "quantity", s.TotalQuantity())
	})

	// Connect to S3-compatible object storage (optional — app works
	// without it).
	storageClient, err := storage.New(
		cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
		cfg.S3Bucket, cfg.S3PublicURL,
	)
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	if storageClient != nil {
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	} else {
		slog.Warn("s3 storage not configured — image uploads disabled")
	}

	// In non-development environments, mark the cart cookie as
	// Secure (HTTPS-only).
	secureCookies := !cfg.IsDev()

	// Create handler groups with their dependencies.
	authHandlers := handlers.NewAuth(userStore, tokens)
	frontHandlers := handlers.NewStorefront(productStore, categoryStore, collectionStore, colorStore, sizeStore)
	cartHandlers := handlers.NewCart(cartStore, productStore, secureCookies)
	orderHandlers := handlers.NewOrders(orderStore, cartStore)
	adminHandlers := handlers.NewAdmin(productStore, categoryStore, collectionStore, colorStore, sizeStore, userStore, storageClient)

	// Set up the Chi router with all middleware and routes.
	r := router.New(tokens, userStore, authHandlers, frontHandlers, cartHandlers, orderHandlers, adminHandlers)

	// Create the HTTP server with sensible timeouts.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
