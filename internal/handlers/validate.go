// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Validation limits for catalog and account fields.
const (
	maxNameLen        = 200
	maxDescriptionLen = 20_000
	maxEmailLen       = 254
	maxDisplayNameLen = 100
	minPasswordLen    = 8
	maxImageCount     = 20
	maxImageURLLen    = 2_000
	maxCartQuantity   = 99
	maxHexCodeLen     = 7
)

// validateName checks a required display name shared by products,
// categories, collections, colors, and sizes. Returns the first error
// found, or "".
func validateName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Name is required."
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return "Name is too long (max 200 characters)."
	}
	return ""
}

// validateDescription checks an optional Markdown description.
func validateDescription(desc string) string {
	if utf8.RuneCountInString(desc) > maxDescriptionLen {
		return "Description is too long (max 20,000 characters)."
	}
	return ""
}

// validatePrice checks that a price is non-negative.
func validatePrice(price decimal.Decimal) string {
	if price.IsNegative() {
		return "Price must not be negative."
	}
	return ""
}

// validateImages checks an image URL list.
func validateImages(urls []string) string {
	if len(urls) > maxImageCount {
		return "Too many images (max 20)."
	}
	for _, u := range urls {
		if strings.TrimSpace(u) == "" {
			return "Image URL must not be empty."
		}
		if len(u) > maxImageURLLen {
			return "Image URL is too long."
		}
	}
	return ""
}

// validateHexCode checks an optional color hex code like "#1a2b3c".
func validateHexCode(hex string) string {
	if hex == "" {
		return ""
	}
	if len(hex) > maxHexCodeLen || !strings.HasPrefix(hex, "#") {
		return "Hex code must look like #rrggbb."
	}
	for _, c := range hex[1:] {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return "Hex code must look like #rrggbb."
		}
	}
	return ""
}

// validateEmail does a minimal shape check; the unique index is the
// real guard against junk accounts.
func validateEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return "Email is required."
	}
	if len(email) > maxEmailLen {
		return "Email is too long."
	}
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 {
		return "Email is not valid."
	}
	return ""
}

// validatePassword enforces the minimum length only. Composition rules
// push users toward predictable passwords; length is what matters.
func validatePassword(password string) string {
	if utf8.RuneCountInString(password) < minPasswordLen {
		return "Password must be at least 8 characters."
	}
	return ""
}

// validateQuantity checks a cart line quantity.
func validateQuantity(qty int) string {
	if qty < 1 {
		return "Quantity must be at least 1."
	}
	if qty > maxCartQuantity {
		return "Quantity is too large (max 99)."
	}
	return ""
}
