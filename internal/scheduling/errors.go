/*
Copyright (C) 2026 StudioCast HQ

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package scheduling

import (
	"errors"
	"fmt"

	"github.com/studiocasthq/studiocast/internal/models"
)

// Kind classifies engine errors for callers that need to map them to
// transport semantics or bulk result records.
type Kind string

const (
	// KindMalformed marks structurally broken input; retrying without
	// fixing the payload cannot succeed.
	KindMalformed Kind = "malformed"
	// KindNotFound marks a missing schedule, snapshot, or reference.
	KindNotFound Kind = "not_found"
	// KindConflict marks optimistic-lock failures, already-published
	// schedules, completed uploads, and out-of-order chunks.
	KindConflict Kind = "conflict"
	// KindValidationFailed marks a structurally valid draft whose content
	// failed validation; the full error list rides along.
	KindValidationFailed Kind = "validation_failed"
	// KindUnknown marks unclassified downstream failures.
	KindUnknown Kind = "unknown"
)

// Error is the engine's error type. Details carry machine-readable context
// (expected vs. actual version, current upload progress) so clients can
// resynchronize.
type Error struct {
	Kind       Kind
	Message    string
	Details    map[string]any
	Violations []models.ValidationError
	wrapped    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.wrapped)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the wrapped cause.
func (e *Error) Unwrap() error {
	return e.wrapped
}

// Malformed builds a malformed-input error.
func Malformed(format string, args ...any) *Error {
	return &Error{Kind: KindMalformed, Message: fmt.Sprintf(format, args...)}
}

// NotFound builds a missing-resource error naming the resource and its
// identifier.
func NotFound(resource, uid string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s %q not found", resource, uid),
		Details: map[string]any{"resource": resource, "uid": uid},
	}
}

// Conflict builds a conflict error with resync context.
func Conflict(message string, details map[string]any) *Error {
	return &Error{Kind: KindConflict, Message: message, Details: details}
}

// ValidationFailed wraps a validation result's error list.
func ValidationFailed(violations []models.ValidationError) *Error {
	return &Error{
		Kind:       KindValidationFailed,
		Message:    fmt.Sprintf("draft failed validation with %d error(s)", len(violations)),
		Violations: violations,
	}
}

// Internal wraps an unclassified downstream failure.
func Internal(err error) *Error {
	return &Error{Kind: KindUnknown, Message: "internal error", wrapped: err}
}

// KindOf extracts the Kind from err, defaulting to KindUnknown for errors
// that did not originate in the engine.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
