// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Seed populates the database with initial development data: a default
// admin user and a starter set of sizes and colors. It is a no-op if
// any users already exist.
func Seed(db *sql.DB) error {
	// Check if any users exist already.
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	// Hash the default admin password.
	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	// Insert default admin user. Role is the lowercase canonical sentinel.
	_, err = db.Exec(`
		INSERT INTO users (email, password_hash, display_name, role)
		VALUES ($1, $2, $3, $4)
	`, "admin@dropshop.local", string(hash), "Admin", "admin")
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	// Starter sizes, spaced by 10 so new ones slot between neighbours.
	sizes := []struct {
		name, display string
		order         int
	}{
		{"xs", "XS", 10}, {"s", "S", 20}, {"m", "M", 30},
		{"l", "L", 40}, {"xl", "XL", 50},
	}
	for _, s := range sizes {
		if _, err := db.Exec(`
			INSERT INTO sizes (name, display_name, sort_order) VALUES ($1, $2, $3)
		`, s.name, s.display, s.order); err != nil {
			return fmt.Errorf("seed insert size %s: %w", s.name, err)
		}
	}

	// Starter colors.
	colors := []struct {
		name, display, hex string
		order              int
	}{
		{"black", "Black", "#000000", 10},
		{"white", "White", "#ffffff", 20},
		{"sand", "Sand", "#d8c6a5", 30},
	}
	for _, c := range colors {
		if _, err := db.Exec(`
			INSERT INTO colors (name, display_name, hex_code, sort_order) VALUES ($1, $2, $3, $4)
		`, c.name, c.display, c.hex, c.order); err != nil {
			return fmt.Errorf("seed insert color %s: %w", c.name, err)
		}
	}

	slog.Info("database seeded with default admin user",
		"email", "admin@dropshop.local",
		"password", "admin",
	)

	return nil
}
