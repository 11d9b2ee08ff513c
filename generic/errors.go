/*
errors.go - Centralized error types for the staff ledger

PURPOSE:
  All error types in one place for consistency and discoverability.
  Ledgers and the facade return these; the API maps them onto status codes.

ERROR CATEGORIES:
  1. Validation errors - missing or out-of-range input, nothing written
  2. Not-found errors  - referenced record vanished
  3. Store errors      - I/O failure inside the record store
  4. Load failures     - a facade snapshot could not be assembled

USAGE:
  Callers branch with errors.Is / errors.As:

    if errors.Is(err, generic.ErrValidation) {
        var verr *generic.ValidationError
        errors.As(err, &verr) // verr.Field names the offending field
    }

SEE ALSO:
  - store.go: Record store contract that produces NotFoundError/StoreError
  - api/handlers.go: HTTP status mapping
*/
package generic

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidDate is matched by every *InvalidDateError.
	ErrInvalidDate = errors.New("invalid date")

	// ErrNotFound is returned when a referenced record doesn't exist.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned when an operation would break referential history,
	// e.g. removing a staff member who already has vacation records.
	ErrConflict = errors.New("conflicting state")

	// ErrStore is matched by every *StoreError.
	ErrStore = errors.New("record store failure")

	// ErrLoadFailed is matched by every *LoadFailedError.
	ErrLoadFailed = errors.New("load failed")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError names the field that failed and why. Returned before any
// write is attempted.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// InvalidDateError reports a value that is not a YYYY-MM-DD calendar date.
type InvalidDateError struct {
	Field string
	Value string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("%s: invalid date %q (use YYYY-MM-DD)", e.Field, e.Value)
}

func (e *InvalidDateError) Unwrap() error {
	return ErrInvalidDate
}

// NotFoundError identifies the missing record.
type NotFoundError struct {
	Kind string // "staff", "vacation", "absence", "swap"
	ID   string
}

func NewNotFoundError(kind, id string) *NotFoundError {
	return &NotFoundError{Kind: kind, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// StoreError wraps a failure raised by the record store.
// It matches ErrStore and unwraps to the underlying driver error.
type StoreError struct {
	Op  string
	Err error
}

func NewStoreError(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func (e *StoreError) Is(target error) bool {
	return target == ErrStore
}

// LoadFailedError is the single signal raised when any fetch behind a staff
// snapshot fails. Partial results are discarded.
type LoadFailedError struct {
	StaffID StaffID
	Err     error
}

func (e *LoadFailedError) Error() string {
	return fmt.Sprintf("load failed for staff %s: %v", e.StaffID, e.Err)
}

func (e *LoadFailedError) Unwrap() error {
	return e.Err
}

func (e *LoadFailedError) Is(target error) bool {
	return target == ErrLoadFailed
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrConflict)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
