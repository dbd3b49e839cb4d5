package workflow

import (
	"errors"
	"testing"

	"rentaldesk-backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

var everyStatus = []domain.RentalStatus{
	domain.RentalStatusPending,
	domain.RentalStatusApproved,
	domain.RentalStatusPaymentPending,
	domain.RentalStatusConfirmed,
	domain.RentalStatusPreparing,
	domain.RentalStatusReadyForPickup,
	domain.RentalStatusOutForDelivery,
	domain.RentalStatusDelivered,
	domain.RentalStatusInProgress,
	domain.RentalStatusReturnRequested,
	domain.RentalStatusReturning,
	domain.RentalStatusCompleted,
	domain.RentalStatusCancelled,
	domain.RentalStatusOverdue,
	domain.RentalStatusDispute,
}

func orderIn(status domain.RentalStatus) *domain.RentalOrder {
	return &domain.RentalOrder{
		ID:            1,
		Status:        status,
		PaymentStatus: domain.PaymentStatusPaid,
	}
}

func TestCanTransition_HappyPath(t *testing.T) {
	path := []domain.RentalStatus{
		domain.RentalStatusPending,
		domain.RentalStatusApproved,
		domain.RentalStatusPaymentPending,
		domain.RentalStatusConfirmed,
		domain.RentalStatusPreparing,
		domain.RentalStatusReadyForPickup,
		domain.RentalStatusOutForDelivery,
		domain.RentalStatusDelivered,
		domain.RentalStatusInProgress,
		domain.RentalStatusReturnRequested,
		domain.RentalStatusReturning,
		domain.RentalStatusCompleted,
	}
	for i := 1; i < len(path); i++ {
		assert.True(t, CanTransition(path[i-1], path[i]), "%s -> %s should be allowed", path[i-1], path[i])
	}
}

func TestEvaluate_RejectsEveryPairNotInTable(t *testing.T) {
	for _, from := range everyStatus {
		for _, target := range everyStatus {
			if from == target || CanTransition(from, target) {
				continue
			}
			err := Evaluate(orderIn(from), target, Options{PaymentWaived: true})
			var ite *domain.InvalidTransitionError
			if assert.Error(t, err, "%s -> %s must be rejected", from, target) {
				assert.True(t, errors.As(err, &ite), "%s -> %s must fail as InvalidTransitionError", from, target)
				assert.Equal(t, from, ite.From)
				assert.Equal(t, target, ite.Target)
			}
		}
	}
}

func TestEvaluate_TerminalStatesAbsorb(t *testing.T) {
	for _, terminal := range []domain.RentalStatus{domain.RentalStatusCompleted, domain.RentalStatusCancelled} {
		for _, target := range everyStatus {
			if target == terminal {
				continue
			}
			err := Evaluate(orderIn(terminal), target, Options{PaymentWaived: true})
			assert.Error(t, err, "no transition out of %s may succeed (tried %s)", terminal, target)
		}
	}
}

func TestEvaluate_SameStatusIsNoOp(t *testing.T) {
	for _, status := range everyStatus {
		assert.NoError(t, Evaluate(orderIn(status), status, Options{}), "target == current must be accepted for %s", status)
	}
}

func TestEvaluate_PaymentGuard(t *testing.T) {
	t.Run("ConfirmUnpaidRejected", func(t *testing.T) {
		order := orderIn(domain.RentalStatusPaymentPending)
		order.PaymentStatus = domain.PaymentStatusPending

		err := Evaluate(order, domain.RentalStatusConfirmed, Options{})
		var pfe *domain.PreconditionFailedError
		assert.True(t, errors.As(err, &pfe))
	})

	t.Run("ConfirmPaidAccepted", func(t *testing.T) {
		order := orderIn(domain.RentalStatusPaymentPending)
		assert.NoError(t, Evaluate(order, domain.RentalStatusConfirmed, Options{}))
	})

	t.Run("ConfirmFromApprovedNeedsWaiver", func(t *testing.T) {
		order := orderIn(domain.RentalStatusApproved)

		err := Evaluate(order, domain.RentalStatusConfirmed, Options{})
		var pfe *domain.PreconditionFailedError
		assert.True(t, errors.As(err, &pfe))

		assert.NoError(t, Evaluate(order, domain.RentalStatusConfirmed, Options{PaymentWaived: true}))
	})
}

func TestEvaluate_DeliveryGuard(t *testing.T) {
	t.Run("LeavingConfirmedWithoutAddress", func(t *testing.T) {
		// A delivery order with no address on file must stop here, not
		// advance and hard-block at out_for_delivery later.
		order := orderIn(domain.RentalStatusConfirmed)
		order.DeliveryRequired = true

		err := Evaluate(order, domain.RentalStatusPreparing, Options{})
		var pfe *domain.PreconditionFailedError
		assert.True(t, errors.As(err, &pfe))
	})

	t.Run("LeavingConfirmedWithAddress", func(t *testing.T) {
		order := orderIn(domain.RentalStatusConfirmed)
		order.DeliveryRequired = true
		order.DeliveryAddress = "12 Depot Rd"
		assert.NoError(t, Evaluate(order, domain.RentalStatusPreparing, Options{}))
	})

	t.Run("OutForDeliveryWithoutAddress", func(t *testing.T) {
		order := orderIn(domain.RentalStatusReadyForPickup)
		order.DeliveryRequired = true

		err := Evaluate(order, domain.RentalStatusOutForDelivery, Options{})
		var pfe *domain.PreconditionFailedError
		assert.True(t, errors.As(err, &pfe))
	})

	t.Run("OutForDeliveryWithAddress", func(t *testing.T) {
		order := orderIn(domain.RentalStatusReadyForPickup)
		order.DeliveryRequired = true
		order.DeliveryAddress = "12 Depot Rd"
		assert.NoError(t, Evaluate(order, domain.RentalStatusOutForDelivery, Options{}))
	})

	t.Run("DeliveredToInProgressWithoutAddress", func(t *testing.T) {
		order := orderIn(domain.RentalStatusDelivered)
		order.DeliveryRequired = true

		err := Evaluate(order, domain.RentalStatusInProgress, Options{})
		var pfe *domain.PreconditionFailedError
		assert.True(t, errors.As(err, &pfe))
	})

	t.Run("PickupOnlyOrderSkipsGuard", func(t *testing.T) {
		order := orderIn(domain.RentalStatusDelivered)
		order.DeliveryRequired = false
		assert.NoError(t, Evaluate(order, domain.RentalStatusInProgress, Options{}))
	})
}

func TestAllowedFrom_ReturnsCopy(t *testing.T) {
	first := AllowedFrom(domain.RentalStatusCancelled)
	assert.Len(t, first, 3)
	first[0] = domain.RentalStatusDispute

	second := AllowedFrom(domain.RentalStatusCancelled)
	assert.Equal(t, domain.RentalStatusPending, second[0])
}

func TestAllowedFrom_PendingIsUnreachable(t *testing.T) {
	// pending is the initial status and never a transition target.
	assert.Nil(t, AllowedFrom(domain.RentalStatusPending))
}
