package postgres_test

import (
	"context"
	"testing"
	"time"

	"rentaldesk-backend/internal/domain"
	"rentaldesk-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestDocumentRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewDocumentRepository(db)

	doc := &domain.Document{
		RentalID:          1,
		Type:              domain.DocumentTypeRentalAgreement,
		Title:             "Signed agreement",
		VisibleToCustomer: true,
		ContentType:       "application/pdf",
		StorageKey:        "rental-1-abc",
	}

	mock.ExpectQuery("INSERT INTO rental_documents").
		WithArgs(doc.RentalID, "rental_agreement", doc.Title, true, doc.ContentType, doc.StorageKey, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))

	err = repo.Create(context.Background(), doc)
	assert.NoError(t, err)
	assert.Equal(t, int64(5), doc.ID)
	assert.False(t, doc.UploadedOn.IsZero())
}

func TestDocumentRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewDocumentRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "rental_id", "document_type", "title", "visible_to_customer", "content_type", "storage_key", "uploaded_on"}).
			AddRow(5, 1, "invoice", "Invoice", false, "application/pdf", "rental-1-xyz", time.Now())
		mock.ExpectQuery("SELECT (.+) FROM rental_documents WHERE id").
			WithArgs(int64(5), int64(1)).
			WillReturnRows(rows)

		doc, err := repo.GetByID(ctx, 1, 5)
		assert.NoError(t, err)
		assert.Equal(t, domain.DocumentTypeInvoice, doc.Type)
	})

	t.Run("WrongRentalIsNotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM rental_documents WHERE id").
			WithArgs(int64(5), int64(2)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.GetByID(ctx, 2, 5)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestDocumentRepository_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewDocumentRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM rental_documents").
			WithArgs(int64(5), int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(ctx, 1, 5))
	})

	t.Run("MissingIsNotFound", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM rental_documents").
			WithArgs(int64(9), int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(ctx, 1, 9), domain.ErrNotFound)
	})
}
