package service

import (
	"context"
	"fmt"
	"strings"

	"rentaldesk-backend/internal/domain"
	"rentaldesk-backend/internal/logger"
	"rentaldesk-backend/internal/repository"
)

type notificationService struct {
	noteRepo  repository.NotificationRepository
	customers CustomerDirectory
	emailSvc  EmailService
}

// NewNotificationService wires the outbox repository with the optional
// email path. customers and emailSvc may be nil; then only outbox records
// are written.
func NewNotificationService(
	noteRepo repository.NotificationRepository,
	customers CustomerDirectory,
	emailSvc EmailService,
) NotificationService {
	return &notificationService{
		noteRepo:  noteRepo,
		customers: customers,
		emailSvc:  emailSvc,
	}
}

func (s *notificationService) NotifyStatusChange(ctx context.Context, order *domain.RentalOrder, entry *domain.StatusHistoryEntry) {
	note := &domain.Notification{
		CustomerRef: order.CustomerRef,
		Title:       fmt.Sprintf("Rental %s", statusLabel(entry.NewStatus)),
		Message:     statusMessage(order, entry),
		Attributes: map[string]string{
			"type":       "STATUS_CHANGE",
			"rental_id":  fmt.Sprintf("%d", order.ID),
			"new_status": string(entry.NewStatus),
		},
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		logger.Error("Failed to record status notification", "rental_id", order.ID, "error", err)
	}

	if s.customers == nil || s.emailSvc == nil {
		return
	}
	customer, err := s.customers.GetCustomer(ctx, order.CustomerRef)
	if err != nil {
		logger.Warn("Could not resolve customer for notification email", "customer_ref", order.CustomerRef, "error", err)
		return
	}
	if err := s.emailSvc.SendStatusChangeNotification(ctx, customer.Email, customer.Name, order.ID, entry.NewStatus, entry.Notes); err != nil {
		logger.Error("Failed to send status notification email", "rental_id", order.ID, "error", err)
	}
}

func (s *notificationService) ListNotifications(ctx context.Context, customerRef string, page, pageSize int32) ([]domain.Notification, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	return s.noteRepo.ListByCustomer(ctx, customerRef, pageSize, (page-1)*pageSize)
}

func statusLabel(status domain.RentalStatus) string {
	return strings.ReplaceAll(string(status), "_", " ")
}

func statusMessage(order *domain.RentalOrder, entry *domain.StatusHistoryEntry) string {
	msg := fmt.Sprintf("Your rental order #%d is now %s", order.ID, statusLabel(entry.NewStatus))
	if entry.Notes != "" {
		msg += ": " + entry.Notes
	}
	return msg
}
