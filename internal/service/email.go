package service

import (
	"context"
	"fmt"

	"rentaldesk-backend/internal/domain"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type emailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &emailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *emailService) SendStatusChangeNotification(ctx context.Context, toEmail, toName string, rentalID int64, newStatus domain.RentalStatus, notes string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, toEmail)

	subject := fmt.Sprintf("Update on your rental order #%d", rentalID)
	body := fmt.Sprintf("Hello %s,\n\nYour rental order #%d has moved to status: %s.", toName, rentalID, newStatus)
	if notes != "" {
		body += fmt.Sprintf("\n\nNote from our team: %s", notes)
	}
	body += "\n\nBest regards,\nThe RentalDesk Team"

	message := mail.NewSingleEmail(from, subject, recipient, body, "")

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}
