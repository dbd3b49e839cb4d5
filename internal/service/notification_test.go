package service_test

import (
	"context"
	"errors"
	"testing"

	"rentaldesk-backend/internal/clients"
	"rentaldesk-backend/internal/domain"
	"rentaldesk-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockCustomerDirectory struct {
	mock.Mock
}

func (m *MockCustomerDirectory) GetCustomer(ctx context.Context, ref string) (*clients.Customer, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clients.Customer), args.Error(1)
}

type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendStatusChangeNotification(ctx context.Context, toEmail, toName string, rentalID int64, newStatus domain.RentalStatus, notes string) error {
	args := m.Called(ctx, toEmail, toName, rentalID, newStatus, notes)
	return args.Error(0)
}

func TestNotifyStatusChange(t *testing.T) {
	ctx := context.Background()
	order := &domain.RentalOrder{ID: 7, CustomerRef: "cust-42"}
	entry := &domain.StatusHistoryEntry{
		PreviousStatus:    domain.RentalStatusPending,
		NewStatus:         domain.RentalStatusApproved,
		Notes:             "see pickup desk",
		VisibleToCustomer: true,
	}

	t.Run("RecordsOutboxAndSendsEmail", func(t *testing.T) {
		noteRepo := new(MockNotificationRepo)
		customers := new(MockCustomerDirectory)
		emailSvc := new(MockEmailService)
		svc := service.NewNotificationService(noteRepo, customers, emailSvc)

		noteRepo.On("Create", ctx, mock.AnythingOfType("*domain.Notification")).Return(nil)
		customers.On("GetCustomer", ctx, "cust-42").Return(&clients.Customer{Ref: "cust-42", Name: "Dana", Email: "dana@test.com"}, nil)
		emailSvc.On("SendStatusChangeNotification", ctx, "dana@test.com", "Dana", int64(7), domain.RentalStatusApproved, "see pickup desk").Return(nil)

		svc.NotifyStatusChange(ctx, order, entry)

		noteRepo.AssertCalled(t, "Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.CustomerRef == "cust-42" && n.Attributes["new_status"] == "approved"
		}))
		emailSvc.AssertExpectations(t)
	})

	t.Run("OutboxOnlyWithoutCollaborators", func(t *testing.T) {
		noteRepo := new(MockNotificationRepo)
		svc := service.NewNotificationService(noteRepo, nil, nil)

		noteRepo.On("Create", ctx, mock.AnythingOfType("*domain.Notification")).Return(nil)
		svc.NotifyStatusChange(ctx, order, entry)
		noteRepo.AssertExpectations(t)
	})

	t.Run("CustomerLookupFailureSkipsEmail", func(t *testing.T) {
		noteRepo := new(MockNotificationRepo)
		customers := new(MockCustomerDirectory)
		emailSvc := new(MockEmailService)
		svc := service.NewNotificationService(noteRepo, customers, emailSvc)

		noteRepo.On("Create", ctx, mock.AnythingOfType("*domain.Notification")).Return(nil)
		customers.On("GetCustomer", ctx, "cust-42").Return(nil, errors.New("service unavailable"))

		svc.NotifyStatusChange(ctx, order, entry)

		emailSvc.AssertNotCalled(t, "SendStatusChangeNotification", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("OutboxFailureIsSwallowed", func(t *testing.T) {
		noteRepo := new(MockNotificationRepo)
		svc := service.NewNotificationService(noteRepo, nil, nil)

		noteRepo.On("Create", ctx, mock.AnythingOfType("*domain.Notification")).Return(errors.New("db down"))
		assert.NotPanics(t, func() {
			svc.NotifyStatusChange(ctx, order, entry)
		})
	})
}

func TestListNotifications(t *testing.T) {
	ctx := context.Background()

	t.Run("TranslatesPaginationToLimitOffset", func(t *testing.T) {
		noteRepo := new(MockNotificationRepo)
		svc := service.NewNotificationService(noteRepo, nil, nil)

		notes := []domain.Notification{{ID: 1, CustomerRef: "cust-42"}}
		noteRepo.On("ListByCustomer", ctx, "cust-42", int32(10), int32(20)).Return(notes, int32(31), nil)

		got, total, err := svc.ListNotifications(ctx, "cust-42", 3, 10)
		assert.NoError(t, err)
		assert.Equal(t, int32(31), total)
		assert.Len(t, got, 1)
	})

	t.Run("DefaultsBadPagination", func(t *testing.T) {
		noteRepo := new(MockNotificationRepo)
		svc := service.NewNotificationService(noteRepo, nil, nil)

		noteRepo.On("ListByCustomer", ctx, "cust-42", int32(20), int32(0)).Return([]domain.Notification{}, int32(0), nil)

		_, _, err := svc.ListNotifications(ctx, "cust-42", 0, -5)
		assert.NoError(t, err)
		noteRepo.AssertExpectations(t)
	})
}
