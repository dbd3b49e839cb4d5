package domain

import "time"

// StatusHistoryEntry is the immutable audit record of one accepted status
// change. The first entry of every order has an empty PreviousStatus and
// records the order entering its initial status.
type StatusHistoryEntry struct {
	ID                int64        `json:"id"`
	RentalID          int64        `json:"rental_id"`
	PreviousStatus    RentalStatus `json:"previous_status,omitempty"`
	NewStatus         RentalStatus `json:"new_status"`
	Notes             string       `json:"notes,omitempty"`
	ActorRef          string       `json:"actor_ref"`
	VisibleToCustomer bool         `json:"visible_to_customer"`
	CreatedOn         time.Time    `json:"created_on"`
}
