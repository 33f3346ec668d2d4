package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// Public link failures. Distinct internally for logging; collapsed to one
	// generic external message at the API boundary.
	ErrLinkNotFound    = errors.New("public link not found")
	ErrLinkAlreadyUsed = errors.New("public link already used")
	ErrLinkExpired     = errors.New("public link expired")

	// ErrTokenInvalid covers malformed, tampered and expired approval tokens
	ErrTokenInvalid = errors.New("invalid token")

	// ErrAlreadyResolved signals a transition attempted against a request
	// that already left the state the transition requires. It is a no-op
	// signal, not a failure.
	ErrAlreadyResolved = errors.New("request already resolved")

	ErrPermissionDenied = errors.New("permission denied")

	ErrNotFound = errors.New("not found")
)

// Reason codes surfaced alongside the generic external failure message
const (
	ReasonInvalidLink     = "invalid_link"
	ReasonInvalidToken    = "invalid_token"
	ReasonAlreadyResolved = "already_resolved"
	ReasonInvalidPayload  = "invalid_payload"
)

// ValidationError rejects malformed input before any state is touched
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// SchedulingConflictError carries the overlapping events so an operator can
// resolve them manually
type SchedulingConflictError struct {
	Resource  string
	Conflicts []CalendarEvent
}

func (e *SchedulingConflictError) Error() string {
	ids := make([]string, 0, len(e.Conflicts))
	for _, ev := range e.Conflicts {
		ids = append(ids, fmt.Sprintf("%d", ev.ID))
	}
	return fmt.Sprintf("scheduling conflict on %s with events [%s]", e.Resource, strings.Join(ids, ", "))
}
