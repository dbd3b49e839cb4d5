package postgres

import (
	"context"
	"database/sql"
	"errors"

	"rentaldesk-backend/internal/domain"
	"rentaldesk-backend/internal/repository"
)

type documentRepository struct {
	db *sql.DB
}

func NewDocumentRepository(db *sql.DB) repository.DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(ctx context.Context, d *domain.Document) error {
	ts := now()
	query := `INSERT INTO rental_documents (rental_id, document_type, title, visible_to_customer, content_type, storage_key, uploaded_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, d.RentalID, d.Type, d.Title, d.VisibleToCustomer, d.ContentType, d.StorageKey, ts).Scan(&d.ID)
	if err != nil {
		return err
	}
	d.UploadedOn = ts
	return nil
}

func (r *documentRepository) GetByID(ctx context.Context, rentalID, docID int64) (*domain.Document, error) {
	d := &domain.Document{}
	query := `SELECT id, rental_id, document_type, title, visible_to_customer, content_type, storage_key, uploaded_on
	          FROM rental_documents WHERE id = $1 AND rental_id = $2`
	err := r.db.QueryRowContext(ctx, query, docID, rentalID).Scan(
		&d.ID, &d.RentalID, &d.Type, &d.Title, &d.VisibleToCustomer, &d.ContentType, &d.StorageKey, &d.UploadedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

func (r *documentRepository) ListByRental(ctx context.Context, rentalID int64) ([]domain.Document, error) {
	query := `SELECT id, rental_id, document_type, title, visible_to_customer, content_type, storage_key, uploaded_on
	          FROM rental_documents WHERE rental_id = $1 ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, query, rentalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		var d domain.Document
		if err := rows.Scan(&d.ID, &d.RentalID, &d.Type, &d.Title, &d.VisibleToCustomer, &d.ContentType, &d.StorageKey, &d.UploadedOn); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (r *documentRepository) Delete(ctx context.Context, rentalID, docID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM rental_documents WHERE id = $1 AND rental_id = $2`, docID, rentalID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
