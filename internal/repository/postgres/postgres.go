package postgres

import (
	"database/sql"

	"rentaldesk-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.RentalRepository
	repository.DocumentRepository
	repository.NotificationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		RentalRepository:       NewRentalRepository(db),
		DocumentRepository:     NewDocumentRepository(db),
		NotificationRepository: NewNotificationRepository(db),
	}
}
