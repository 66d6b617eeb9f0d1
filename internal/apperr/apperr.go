// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package apperr defines the application error taxonomy and its mapping
// to HTTP status codes. Every error that crosses a route boundary is one
// of these kinds; nothing propagates to the client as an unhandled fault.
package apperr

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
)

// Kind tags an error with its place in the taxonomy.
type Kind int

const (
	// KindUnauthenticated: missing, malformed, or rejected credential.
	KindUnauthenticated Kind = iota
	// KindForbidden: authenticated but not allowed.
	KindForbidden
	// KindAuthzLookupFailed: the role lookup itself errored or the profile
	// row is absent. A data-integrity condition, not a permissions one.
	KindAuthzLookupFailed
	// KindInvalidPayload: client-supplied data failed validation.
	KindInvalidPayload
	// KindNotFound: the target row does not exist.
	KindNotFound
	// KindMutationFailed: the store rejected the write.
	KindMutationFailed
)

// HTTPStatus returns the status code for this error kind.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindInvalidPayload:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		// AuthzLookupFailed and MutationFailed are server faults.
		return http.StatusInternalServerError
	}
}

// Error is a tagged application error.
type Error struct {
	Kind    Kind
	Message string
	Err     error // wrapped cause, may be nil
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the cause for errors.Is/As chains.
func (e *Error) Unwrap() error { return e.Err }

// NewUnauthenticated creates an Unauthenticated error.
func NewUnauthenticated(msg string) *Error {
	return &Error{Kind: KindUnauthenticated, Message: msg}
}

// NewForbidden creates a Forbidden error.
func NewForbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

// NewAuthzLookupFailed wraps a failed role lookup.
func NewAuthzLookupFailed(err error) *Error {
	return &Error{Kind: KindAuthzLookupFailed, Message: "authorization lookup failed", Err: err}
}

// NewInvalidPayload creates an InvalidPayload error with a
// human-readable reason.
func NewInvalidPayload(msg string) *Error {
	return &Error{Kind: KindInvalidPayload, Message: msg}
}

// NewNotFound creates a NotFound error.
func NewNotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// NewMutationFailed wraps a store write failure, carrying the store's
// message text.
func NewMutationFailed(op string, err error) *Error {
	return &Error{Kind: KindMutationFailed, Message: op, Err: err}
}

// FromStore maps a store error to the taxonomy: sql.ErrNoRows becomes
// NotFound (with the given subject in the message), anything else
// becomes MutationFailed.
func FromStore(subject string, err error) *Error {
	if errors.Is(err, sql.ErrNoRows) {
		return NewNotFound(subject + " not found")
	}
	return NewMutationFailed(subject+" mutation failed", err)
}

// KindOf extracts the Kind from any error. Untagged errors are treated
// as MutationFailed, the generic server fault.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindMutationFailed
}

// Normalize flattens any thrown value into a single textual message.
// The previous system produced errors as native errors, plain strings,
// or objects with a message field; this is the one place that deals
// with all of them.
func Normalize(v any) string {
	switch x := v.(type) {
	case nil:
		return "an unexpected error occurred"
	case *Error:
		// Mutation failures carry the store's own message text through
		// to the client; the other kinds stay at their summary message.
		if x.Kind == KindMutationFailed && x.Err != nil {
			return x.Error()
		}
		return x.Message
	case error:
		return x.Error()
	case string:
		if x == "" {
			return "an unexpected error occurred"
		}
		return x
	case interface{ Message() string }:
		return x.Message()
	case map[string]any:
		if msg, ok := x["message"].(string); ok && msg != "" {
			return msg
		}
		return "an unexpected error occurred"
	default:
		return fmt.Sprintf("%v", x)
	}
}
