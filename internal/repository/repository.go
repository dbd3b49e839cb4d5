package repository

import (
	"context"
	"time"

	"rentaldesk-backend/internal/domain"
)

type RentalRepository interface {
	// Create inserts the order together with its seed history entry in one
	// transaction. The order's ID, CreatedOn and UpdatedOn are filled in.
	Create(ctx context.Context, order *domain.RentalOrder, seed *domain.StatusHistoryEntry) error

	GetByID(ctx context.Context, id int64) (*domain.RentalOrder, error)

	List(ctx context.Context, customerRef string, status string, page, pageSize int32) ([]domain.RentalOrder, int32, error)

	// ApplyTransition updates status and updated_on and appends the history
	// entry atomically. The update is guarded by an optimistic check on the
	// order's loaded UpdatedOn; a lost race returns
	// domain.ErrConcurrentModification and leaves the row untouched.
	ApplyTransition(ctx context.Context, order *domain.RentalOrder, entry *domain.StatusHistoryEntry) error

	// UpdateFinancials replaces the order's money fields under the same
	// optimistic check as ApplyTransition.
	UpdateFinancials(ctx context.Context, order *domain.RentalOrder) error

	ListHistory(ctx context.Context, rentalID int64) ([]domain.StatusHistoryEntry, error)

	// ListOverdueCandidates returns ids of orders past their end date that
	// are still in a status eligible for the overdue transition.
	ListOverdueCandidates(ctx context.Context, asOf time.Time) ([]int64, error)
}

type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, rentalID, docID int64) (*domain.Document, error)
	ListByRental(ctx context.Context, rentalID int64) ([]domain.Document, error)
	Delete(ctx context.Context, rentalID, docID int64) error
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	ListByCustomer(ctx context.Context, customerRef string, limit, offset int32) ([]domain.Notification, int32, error)
}
