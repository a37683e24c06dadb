/*
Copyright (C) 2026 StudioCast HQ

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package models

// ValidationErrorType classifies a draft validation error.
type ValidationErrorType string

const (
	ValidationTimeRange         ValidationErrorType = "time_range"
	ValidationRoomConflict      ValidationErrorType = "room_conflict"
	ValidationMcDoubleBooking   ValidationErrorType = "mc_double_booking"
	ValidationReferenceNotFound ValidationErrorType = "reference_not_found"
	ValidationInternalConflict  ValidationErrorType = "internal_conflict"
)

// ValidationError is a single defect found in a draft. ShowIndex and
// ShowTempID identify the offending plan show when the error is show-scoped.
type ValidationError struct {
	Type       ValidationErrorType `json:"type"`
	Message    string              `json:"message"`
	ShowIndex  *int                `json:"show_index,omitempty"`
	ShowTempID string              `json:"show_temp_id,omitempty"`
}

// ValidationResult is the outcome of validating one draft. It is produced
// fresh on each call and never persisted.
type ValidationResult struct {
	IsValid bool              `json:"is_valid"`
	Errors  []ValidationError `json:"errors"`
}

// Add appends an error and flips IsValid.
func (r *ValidationResult) Add(err ValidationError) {
	r.Errors = append(r.Errors, err)
	r.IsValid = false
}
