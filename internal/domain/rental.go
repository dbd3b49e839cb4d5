package domain

import (
	"math"
	"time"
)

type RentalStatus string

const (
	RentalStatusPending         RentalStatus = "pending"
	RentalStatusApproved        RentalStatus = "approved"
	RentalStatusPaymentPending  RentalStatus = "payment_pending"
	RentalStatusConfirmed       RentalStatus = "confirmed"
	RentalStatusPreparing       RentalStatus = "preparing"
	RentalStatusReadyForPickup  RentalStatus = "ready_for_pickup"
	RentalStatusOutForDelivery  RentalStatus = "out_for_delivery"
	RentalStatusDelivered       RentalStatus = "delivered"
	RentalStatusInProgress      RentalStatus = "in_progress"
	RentalStatusReturnRequested RentalStatus = "return_requested"
	RentalStatusReturning       RentalStatus = "returning"
	RentalStatusCompleted       RentalStatus = "completed"
	RentalStatusCancelled       RentalStatus = "cancelled"
	RentalStatusOverdue         RentalStatus = "overdue"
	RentalStatusDispute         RentalStatus = "dispute"
)

var allStatuses = map[RentalStatus]bool{
	RentalStatusPending:         true,
	RentalStatusApproved:        true,
	RentalStatusPaymentPending:  true,
	RentalStatusConfirmed:       true,
	RentalStatusPreparing:       true,
	RentalStatusReadyForPickup:  true,
	RentalStatusOutForDelivery:  true,
	RentalStatusDelivered:       true,
	RentalStatusInProgress:      true,
	RentalStatusReturnRequested: true,
	RentalStatusReturning:       true,
	RentalStatusCompleted:       true,
	RentalStatusCancelled:       true,
	RentalStatusOverdue:         true,
	RentalStatusDispute:         true,
}

// IsValid reports whether s is one of the defined lifecycle statuses.
func (s RentalStatus) IsValid() bool {
	return allStatuses[s]
}

// IsTerminal reports whether no further transition out of s is ever valid.
func (s RentalStatus) IsTerminal() bool {
	return s == RentalStatusCompleted || s == RentalStatusCancelled
}

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPartial  PaymentStatus = "partial"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusOverdue  PaymentStatus = "overdue"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

func (p PaymentStatus) IsValid() bool {
	switch p {
	case PaymentStatusPending, PaymentStatusPartial, PaymentStatusPaid, PaymentStatusOverdue, PaymentStatusRefunded:
		return true
	}
	return false
}

// Financials holds the money fields of a rental order.
// All amounts are in cents. TotalCents is always derived from the other
// fee fields via ComputeTotal; it is never independently settable.
type Financials struct {
	DailyRateCents       int64 `json:"daily_rate_cents"`
	SubtotalCents        int64 `json:"subtotal_cents"`
	DeliveryFeeCents     int64 `json:"delivery_fee_cents"`
	InsuranceFeeCents    int64 `json:"insurance_fee_cents"`
	SecurityDepositCents int64 `json:"security_deposit_cents"`
	LateFeesCents        int64 `json:"late_fees_cents"`
	DamageFeesCents      int64 `json:"damage_fees_cents"`
	TotalCents           int64 `json:"total_cents"`
}

// ComputeTotal returns the sum of the constituent fee fields.
// DailyRateCents is a unit price, not a charge, so it is excluded.
func (f Financials) ComputeTotal() int64 {
	return f.SubtotalCents + f.DeliveryFeeCents + f.InsuranceFeeCents +
		f.SecurityDepositCents + f.LateFeesCents + f.DamageFeesCents
}

// Consistent reports whether TotalCents equals the computed sum.
func (f Financials) Consistent() bool {
	return f.TotalCents == f.ComputeTotal()
}

type RentalOrder struct {
	ID               int64         `json:"id"`
	CustomerRef      string        `json:"customer_ref"`
	EquipmentRef     string        `json:"equipment_ref"`
	Status           RentalStatus  `json:"status"`
	PaymentStatus    PaymentStatus `json:"payment_status"`
	StartDate        time.Time     `json:"start_date"`
	EndDate          time.Time     `json:"end_date"`
	DeliveryRequired bool          `json:"delivery_required"`
	DeliveryAddress  string        `json:"delivery_address,omitempty"`
	Financials       Financials    `json:"financials"`
	Notes            string        `json:"notes,omitempty"`
	CreatedOn        time.Time     `json:"created_on"`
	UpdatedOn        time.Time     `json:"updated_on"`

	// Populated on full reads only.
	History   []StatusHistoryEntry `json:"history,omitempty"`
	Documents []Document           `json:"documents,omitempty"`
}

// HasDeliveryAddress reports whether the order can enter a delivery leg:
// either no delivery is required, or a delivery address is on file.
func (o *RentalOrder) HasDeliveryAddress() bool {
	return !o.DeliveryRequired || o.DeliveryAddress != ""
}

// ProgressFraction returns how far through the rental period the order is
// at the given instant, clamped to [0, 1]. Returns 0 when the date range
// is empty or inverted.
func (o *RentalOrder) ProgressFraction(now time.Time) float64 {
	span := o.EndDate.Sub(o.StartDate)
	if span <= 0 {
		return 0
	}
	frac := float64(now.Sub(o.StartDate)) / float64(span)
	if frac < 0 {
		return 0
	}
	if frac > 1 {
		return 1
	}
	return frac
}

// DaysRemaining returns the number of whole days until EndDate, rounded
// up, never negative.
func (o *RentalOrder) DaysRemaining(now time.Time) int {
	remaining := o.EndDate.Sub(now)
	if remaining <= 0 {
		return 0
	}
	return int(math.Ceil(remaining.Hours() / 24))
}
