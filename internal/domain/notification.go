package domain

import "time"

// Notification is an outbox record handed to the customer-facing
// notification collaborator. The engine only writes these; delivery is
// someone else's job.
type Notification struct {
	ID          int64             `json:"id"`
	CustomerRef string            `json:"customer_ref"`
	Title       string            `json:"title"`
	Message     string            `json:"message"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	CreatedOn   time.Time         `json:"created_on"`
}
