package service

import (
	"context"
	"io"
	"time"

	"rentaldesk-backend/internal/clients"
	"rentaldesk-backend/internal/domain"
)

// CreateOrderInput carries everything needed to open a rental order.
type CreateOrderInput struct {
	CustomerRef      string
	EquipmentRef     string
	StartDate        time.Time
	EndDate          time.Time
	DeliveryRequired bool
	DeliveryAddress  string
	Financials       domain.Financials
	Notes            string
	Actor            string
}

// TransitionRequest carries one requested status change.
type TransitionRequest struct {
	Target            domain.RentalStatus
	Notes             string
	Actor             string
	VisibleToCustomer bool

	// PaymentWaived asserts that no payment is required; it is the only
	// way to confirm an order directly from approved.
	PaymentWaived bool
}

// AttachDocumentInput carries one document upload.
type AttachDocumentInput struct {
	Type              domain.DocumentType
	Title             string
	VisibleToCustomer bool
	ContentType       string
	Payload           io.Reader
}

// RentalWorkflowService owns the authoritative status of rental orders:
// it validates transitions against the allowed-transition table, applies
// guard conditions and records every accepted change in the immutable
// status history.
type RentalWorkflowService interface {
	CreateOrder(ctx context.Context, in CreateOrderInput) (*domain.RentalOrder, error)
	GetOrder(ctx context.Context, id int64) (*domain.RentalOrder, error)
	ListOrders(ctx context.Context, customerRef, status string, page, pageSize int32) ([]domain.RentalOrder, int32, error)

	RequestTransition(ctx context.Context, id int64, req TransitionRequest) (*domain.RentalOrder, error)
	Approve(ctx context.Context, id int64, actor, message string) (*domain.RentalOrder, error)
	Reject(ctx context.Context, id int64, actor, reason string) (*domain.RentalOrder, error)
	Cancel(ctx context.Context, id int64, actor, reason string) (*domain.RentalOrder, error)

	UpdateFinancials(ctx context.Context, id int64, f domain.Financials) (*domain.RentalOrder, error)

	AttachDocument(ctx context.Context, id int64, in AttachDocumentInput) (*domain.Document, error)
	GetDocument(ctx context.Context, id, docID int64) (*domain.Document, io.ReadCloser, error)
	RemoveDocument(ctx context.Context, id, docID int64) error
}

// NotificationService reports customer-visible status changes to the
// notification collaborator. Fire-and-forget: failures are logged and
// never fail the transition that triggered them.
type NotificationService interface {
	NotifyStatusChange(ctx context.Context, order *domain.RentalOrder, entry *domain.StatusHistoryEntry)
	ListNotifications(ctx context.Context, customerRef string, page, pageSize int32) ([]domain.Notification, int32, error)
}

// EmailService sends customer-facing emails.
type EmailService interface {
	SendStatusChangeNotification(ctx context.Context, toEmail, toName string, rentalID int64, newStatus domain.RentalStatus, notes string) error
}

// CustomerDirectory resolves opaque customer refs into contact details
// via the external customer read service.
type CustomerDirectory interface {
	GetCustomer(ctx context.Context, ref string) (*clients.Customer, error)
}
