package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"rentaldesk-backend/internal/domain"
	"rentaldesk-backend/internal/repository"
)

type notificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	attrs, err := json.Marshal(n.Attributes)
	if err != nil {
		return err
	}

	ts := now()
	query := `INSERT INTO notifications (customer_ref, title, message, attributes, created_on)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, n.CustomerRef, n.Title, n.Message, attrs, ts).Scan(&n.ID); err != nil {
		return err
	}
	n.CreatedOn = ts
	return nil
}

func (r *notificationRepository) ListByCustomer(ctx context.Context, customerRef string, limit, offset int32) ([]domain.Notification, int32, error) {
	var count int32
	countQuery := `SELECT count(*) FROM notifications WHERE customer_ref = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, customerRef).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, customer_ref, title, message, attributes, created_on
	          FROM notifications WHERE customer_ref = $1 ORDER BY created_on DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, customerRef, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var notes []domain.Notification
	for rows.Next() {
		var n domain.Notification
		var attrs []byte
		if err := rows.Scan(&n.ID, &n.CustomerRef, &n.Title, &n.Message, &attrs, &n.CreatedOn); err != nil {
			return nil, 0, err
		}
		if len(attrs) > 0 {
			if err := json.Unmarshal(attrs, &n.Attributes); err != nil {
				return nil, 0, err
			}
		}
		notes = append(notes, n)
	}
	return notes, count, rows.Err()
}
