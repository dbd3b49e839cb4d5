// Package workflow holds the rental lifecycle rules: the allowed-transition
// table and the guard predicates attached to individual transitions. It is
// pure data and pure functions so the rule set can be audited and tested in
// isolation from dispatch and persistence.
package workflow

import "rentaldesk-backend/internal/domain"

// allowedFrom maps a target status to the set of statuses it may be
// entered from. This table is the single source of truth; any pair not
// listed here is rejected.
var allowedFrom = map[domain.RentalStatus][]domain.RentalStatus{
	domain.RentalStatusApproved:        {domain.RentalStatusPending},
	domain.RentalStatusPaymentPending:  {domain.RentalStatusApproved},
	domain.RentalStatusConfirmed:       {domain.RentalStatusPaymentPending, domain.RentalStatusApproved},
	domain.RentalStatusPreparing:       {domain.RentalStatusConfirmed},
	domain.RentalStatusReadyForPickup:  {domain.RentalStatusPreparing},
	domain.RentalStatusOutForDelivery:  {domain.RentalStatusReadyForPickup},
	domain.RentalStatusDelivered:       {domain.RentalStatusOutForDelivery},
	domain.RentalStatusInProgress:      {domain.RentalStatusDelivered},
	domain.RentalStatusReturnRequested: {domain.RentalStatusInProgress},
	domain.RentalStatusReturning:       {domain.RentalStatusReturnRequested},
	domain.RentalStatusCompleted:       {domain.RentalStatusReturning, domain.RentalStatusInProgress},
	domain.RentalStatusCancelled:       {domain.RentalStatusPending, domain.RentalStatusApproved, domain.RentalStatusPaymentPending},
	domain.RentalStatusOverdue:         {domain.RentalStatusInProgress, domain.RentalStatusDelivered},
	domain.RentalStatusDispute:         {domain.RentalStatusInProgress, domain.RentalStatusDelivered, domain.RentalStatusReturnRequested},
}

// AllowedFrom returns the statuses target may be entered from. The result
// is a copy; callers may not mutate the table.
func AllowedFrom(target domain.RentalStatus) []domain.RentalStatus {
	from, ok := allowedFrom[target]
	if !ok {
		return nil
	}
	out := make([]domain.RentalStatus, len(from))
	copy(out, from)
	return out
}

// CanTransition reports whether moving from current to target is in the table.
func CanTransition(current, target domain.RentalStatus) bool {
	for _, s := range allowedFrom[target] {
		if s == current {
			return true
		}
	}
	return false
}

// Options carries caller-supplied business flags the engine cannot infer.
type Options struct {
	// PaymentWaived asserts that no payment is required for this order
	// (e.g. a zero-value rental). It is the only way to enter confirmed
	// directly from approved.
	PaymentWaived bool
}

// Evaluate checks a requested transition against the table and its guards.
// It returns nil when the transition may proceed, *InvalidTransitionError
// when the pair is not in the table, and *PreconditionFailedError when a
// guard rejects it. A request whose target equals the current status is
// accepted as a no-op; callers decide what to do with it.
func Evaluate(order *domain.RentalOrder, target domain.RentalStatus, opts Options) error {
	if order.Status == target {
		return nil
	}
	if !CanTransition(order.Status, target) {
		return &domain.InvalidTransitionError{
			From:        order.Status,
			Target:      target,
			AllowedFrom: AllowedFrom(target),
		}
	}
	for _, g := range guardsFor(order.Status, target) {
		if err := g.check(order, opts); err != nil {
			return err
		}
	}
	return nil
}
