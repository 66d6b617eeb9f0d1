// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package cart models the shopping cart as an explicit state machine:
// a State value, a closed set of Events, and one pure reducer. The
// Container in container.go persists states in Redis and notifies
// subscribers; nothing in this file performs I/O.
package cart

import (
	"time"

	"github.com/google/uuid"
)

// Item is one cart line. Quantity is always >= 1; a line that would
// drop below 1 is removed instead.
type Item struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// State is the full cart contents at a point in time.
type State struct {
	Items     []Item    `json:"items"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TotalQuantity returns the summed quantity across all lines.
func (s State) TotalQuantity() int {
	total := 0
	for _, it := range s.Items {
		total += it.Quantity
	}
	return total
}

// Find returns the line for the given product, or nil.
func (s State) Find(productID uuid.UUID) *Item {
	for i := range s.Items {
		if s.Items[i].ProductID == productID {
			return &s.Items[i]
		}
	}
	return nil
}

// EventKind enumerates the cart events.
type EventKind string

const (
	EventAddItem     EventKind = "add_item"
	EventRemoveItem  EventKind = "remove_item"
	EventSetQuantity EventKind = "set_quantity"
	EventClear       EventKind = "clear"
)

// Event is one cart transition request.
type Event struct {
	Kind      EventKind `json:"kind"`
	ProductID uuid.UUID `json:"product_id,omitempty"`
	Quantity  int       `json:"quantity,omitempty"`
}

// AddItem adds quantity of a product, merging with an existing line.
func AddItem(productID uuid.UUID, quantity int) Event {
	return Event{Kind: EventAddItem, ProductID: productID, Quantity: quantity}
}

// RemoveItem drops a product's line entirely.
func RemoveItem(productID uuid.UUID) Event {
	return Event{Kind: EventRemoveItem, ProductID: productID}
}

// SetQuantity replaces a line's quantity.
func SetQuantity(productID uuid.UUID, quantity int) Event {
	return Event{Kind: EventSetQuantity, ProductID: productID, Quantity: quantity}
}

// Clear empties the cart.
func Clear() Event {
	return Event{Kind: EventClear}
}

// Reduce applies an event to a state and returns the next state. It is
// pure: the input state is never mutated, and the same (state, event)
// pair always produces the same result. Events that would violate the
// quantity >= 1 invariant leave the state unchanged; callers reject
// them with a validation error before dispatching.
func Reduce(s State, e Event, now time.Time) State {
	next := State{
		Items:     make([]Item, len(s.Items)),
		UpdatedAt: now,
	}
	copy(next.Items, s.Items)

	switch e.Kind {
	case EventAddItem:
		if e.Quantity < 1 {
			return s
		}
		for i := range next.Items {
			if next.Items[i].ProductID == e.ProductID {
				next.Items[i].Quantity += e.Quantity
				return next
			}
		}
		next.Items = append(next.Items, Item{ProductID: e.ProductID, Quantity: e.Quantity})
		return next

	case EventRemoveItem:
		filtered := next.Items[:0]
		for _, it := range next.Items {
			if it.ProductID != e.ProductID {
				filtered = append(filtered, it)
			}
		}
		next.Items = filtered
		return next

	case EventSetQuantity:
		if e.Quantity < 1 {
			return s
		}
		for i := range next.Items {
			if next.Items[i].ProductID == e.ProductID {
				next.Items[i].Quantity = e.Quantity
				return next
			}
		}
		// Setting a quantity on an absent line creates it.
		next.Items = append(next.Items, Item{ProductID: e.ProductID, Quantity: e.Quantity})
		return next

	case EventClear:
		next.Items = nil
		return next

	default:
		return s
	}
}
