package service

import (
	"context"
	"fmt"
	"strings"

	"dealdesk-backend/internal/domain"
	"dealdesk-backend/internal/logger"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type emailService struct {
	apiKey   string
	from     string
	fromName string
}

func NewEmailService(apiKey, from, fromName string) EmailService {
	return &emailService{
		apiKey:   apiKey,
		from:     from,
		fromName: fromName,
	}
}

func (s *emailService) send(to, subject, plainText string) error {
	logger.ExternalServiceCall("sendgrid", "send", "to", to, "subject", subject)
	from := mail.NewEmail(s.fromName, s.from)
	recipient := mail.NewEmail("", to)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, "")

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		logger.ExternalServiceResult("sendgrid", "send", err)
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		err := fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
		logger.ExternalServiceResult("sendgrid", "send", err)
		return err
	}
	logger.ExternalServiceResult("sendgrid", "send", nil)
	return nil
}

func (s *emailService) SendSubmissionReceipt(ctx context.Context, to, displayName string) error {
	subject := "We received your booking request"
	body := fmt.Sprintf("Hello,\n\nYour booking request %q has been received and is awaiting review.\nWe will let you know as soon as a decision is made.\n\nBest regards,\nThe Deal Desk Team", displayName)
	return s.send(to, subject, body)
}

func (s *emailService) SendApprovalRequest(ctx context.Context, to, displayName, approveURL, rejectURL string) error {
	subject := fmt.Sprintf("Booking request pending review: %s", displayName)
	body := fmt.Sprintf("A new booking request is awaiting a decision: %s\n\nApprove: %s\n\nReject: %s\n\nThe links are valid for a limited time and apply only while the request is still pending.", displayName, approveURL, rejectURL)
	return s.send(to, subject, body)
}

func (s *emailService) SendDecisionNotification(ctx context.Context, to, displayName string, approved bool, reason string) error {
	var subject, body string
	if approved {
		subject = fmt.Sprintf("Booking request approved: %s", displayName)
		body = fmt.Sprintf("Hello,\n\nGood news - your booking request %q was approved. We are placing it on the calendar and will confirm the final dates shortly.\n\nBest regards,\nThe Deal Desk Team", displayName)
	} else {
		subject = fmt.Sprintf("Booking request update: %s", displayName)
		body = fmt.Sprintf("Hello,\n\nUnfortunately your booking request %q was not approved.", displayName)
		if reason != "" {
			body += fmt.Sprintf("\n\nReason: %s", reason)
		}
		body += "\n\nBest regards,\nThe Deal Desk Team"
	}
	return s.send(to, subject, body)
}

func (s *emailService) SendConflictAlert(ctx context.Context, to, displayName string, conflicts []domain.CalendarEvent) error {
	subject := fmt.Sprintf("Scheduling conflict: %s", displayName)
	lines := make([]string, 0, len(conflicts))
	for _, ev := range conflicts {
		lines = append(lines, fmt.Sprintf("  - event %d on %s: %s to %s",
			ev.ID, ev.Resource,
			ev.StartAt.Format("2006-01-02"), ev.EndAt.Format("2006-01-02")))
	}
	body := fmt.Sprintf("Booking request %q was approved but could not be scheduled.\n\nConflicting events:\n%s\n\nPlease resolve manually and reschedule.", displayName, strings.Join(lines, "\n"))
	return s.send(to, subject, body)
}

func (s *emailService) SendCancellationNotification(ctx context.Context, to, displayName, reason string) error {
	subject := fmt.Sprintf("Booking cancelled: %s", displayName)
	body := fmt.Sprintf("Hello,\n\nYour booking %q has been cancelled.", displayName)
	if reason != "" {
		body += fmt.Sprintf("\n\nReason: %s", reason)
	}
	body += "\n\nBest regards,\nThe Deal Desk Team"
	return s.send(to, subject, body)
}

func (s *emailService) SendPendingReminder(ctx context.Context, to string, displayNames []string) error {
	subject := fmt.Sprintf("%d booking requests awaiting a decision", len(displayNames))
	body := "The following booking requests are still pending:\n\n"
	for _, name := range displayNames {
		body += fmt.Sprintf("  - %s\n", name)
	}
	return s.send(to, subject, body)
}
