package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when an order id does not resolve.
	ErrNotFound = errors.New("rental order not found")

	// ErrConcurrentModification is returned when an optimistic-lock check
	// fails because another writer updated the order first.
	ErrConcurrentModification = errors.New("rental order was modified concurrently")
)

// InvalidTransitionError rejects a status change from the current status to
// a target that is not reachable from it in the transition table. AllowedFrom is safe to surface to the
// caller so they can see which states the target is reachable from.
type InvalidTransitionError struct {
	From        RentalStatus
	Target      RentalStatus
	AllowedFrom []RentalStatus
}

func (e *InvalidTransitionError) Error() string {
	allowed := make([]string, len(e.AllowedFrom))
	for i, s := range e.AllowedFrom {
		allowed[i] = string(s)
	}
	if len(allowed) == 0 {
		return fmt.Sprintf("cannot transition from %s to %s: %s is not a reachable status", e.From, e.Target, e.Target)
	}
	return fmt.Sprintf("cannot transition from %s to %s: allowed from %s", e.From, e.Target, strings.Join(allowed, ", "))
}

// PreconditionFailedError rejects a transition that is in the table but
// whose guard condition is unmet.
type PreconditionFailedError struct {
	Reason string
}

func (e *PreconditionFailedError) Error() string {
	return "precondition failed: " + e.Reason
}

// ValidationError rejects malformed input before it reaches the workflow.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
