package workflow

import "rentaldesk-backend/internal/domain"

// guard is a named precondition attached to a specific transition. Each
// check returns *domain.PreconditionFailedError on rejection so every
// guard can be unit-tested independently of the dispatch logic.
type guard struct {
	name  string
	check func(order *domain.RentalOrder, opts Options) error
}

type transitionPair struct {
	from   domain.RentalStatus
	target domain.RentalStatus
}

var deliveryAddressPresent = guard{
	name: "delivery_address_present",
	check: func(order *domain.RentalOrder, _ Options) error {
		if !order.HasDeliveryAddress() {
			return &domain.PreconditionFailedError{Reason: "delivery is required but no delivery address is on file"}
		}
		return nil
	},
}

var paymentSettled = guard{
	name: "payment_settled",
	check: func(order *domain.RentalOrder, _ Options) error {
		if order.PaymentStatus != domain.PaymentStatusPaid {
			return &domain.PreconditionFailedError{Reason: "payment has not been received"}
		}
		return nil
	},
}

var paymentWaived = guard{
	name: "payment_waived",
	check: func(_ *domain.RentalOrder, opts Options) error {
		if !opts.PaymentWaived {
			return &domain.PreconditionFailedError{Reason: "confirming without payment requires the payment_waived flag"}
		}
		return nil
	},
}

// transitionGuards attaches guards to exact (current, target) pairs.
var transitionGuards = map[transitionPair][]guard{
	{domain.RentalStatusConfirmed, domain.RentalStatusPreparing}:           {deliveryAddressPresent},
	{domain.RentalStatusReadyForPickup, domain.RentalStatusOutForDelivery}: {deliveryAddressPresent},
	{domain.RentalStatusDelivered, domain.RentalStatusInProgress}:          {deliveryAddressPresent},
	{domain.RentalStatusPaymentPending, domain.RentalStatusConfirmed}:      {paymentSettled},
	{domain.RentalStatusApproved, domain.RentalStatusConfirmed}:            {paymentWaived},
}

func guardsFor(current, target domain.RentalStatus) []guard {
	return transitionGuards[transitionPair{from: current, target: target}]
}
