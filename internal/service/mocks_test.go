package service_test

import (
	"context"
	"io"
	"time"

	"rentaldesk-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

type MockRentalRepo struct {
	mock.Mock
}

func (m *MockRentalRepo) Create(ctx context.Context, order *domain.RentalOrder, seed *domain.StatusHistoryEntry) error {
	args := m.Called(ctx, order, seed)
	return args.Error(0)
}

func (m *MockRentalRepo) GetByID(ctx context.Context, id int64) (*domain.RentalOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalOrder), args.Error(1)
}

func (m *MockRentalRepo) List(ctx context.Context, customerRef string, status string, page, pageSize int32) ([]domain.RentalOrder, int32, error) {
	args := m.Called(ctx, customerRef, status, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.RentalOrder), args.Get(1).(int32), args.Error(2)
}

func (m *MockRentalRepo) ApplyTransition(ctx context.Context, order *domain.RentalOrder, entry *domain.StatusHistoryEntry) error {
	args := m.Called(ctx, order, entry)
	return args.Error(0)
}

func (m *MockRentalRepo) UpdateFinancials(ctx context.Context, order *domain.RentalOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockRentalRepo) ListHistory(ctx context.Context, rentalID int64) ([]domain.StatusHistoryEntry, error) {
	args := m.Called(ctx, rentalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StatusHistoryEntry), args.Error(1)
}

func (m *MockRentalRepo) ListOverdueCandidates(ctx context.Context, asOf time.Time) ([]int64, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

type MockDocumentRepo struct {
	mock.Mock
}

func (m *MockDocumentRepo) Create(ctx context.Context, doc *domain.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepo) GetByID(ctx context.Context, rentalID, docID int64) (*domain.Document, error) {
	args := m.Called(ctx, rentalID, docID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentRepo) ListByRental(ctx context.Context, rentalID int64) ([]domain.Document, error) {
	args := m.Called(ctx, rentalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Document), args.Error(1)
}

func (m *MockDocumentRepo) Delete(ctx context.Context, rentalID, docID int64) error {
	args := m.Called(ctx, rentalID, docID)
	return args.Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyStatusChange(ctx context.Context, order *domain.RentalOrder, entry *domain.StatusHistoryEntry) {
	m.Called(ctx, order, entry)
}

func (m *MockNotifier) ListNotifications(ctx context.Context, customerRef string, page, pageSize int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, customerRef, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}

type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

func (m *MockNotificationRepo) ListByCustomer(ctx context.Context, customerRef string, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, customerRef, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Save(ctx context.Context, key string, reader io.Reader) error {
	args := m.Called(ctx, key, reader)
	return args.Error(0)
}

func (m *MockStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockStorage) Exists(ctx context.Context, key string) (bool, int64, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Get(1).(int64), args.Error(2)
}

func (m *MockStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
