package email

import (
	"context"
	"fmt"
	"net/smtp"

	"journal-backend/pkg/logger"
)

// SubmissionReceiptData carries what the confirmation email needs.
type SubmissionReceiptData struct {
	Email        string
	ManuscriptID string
	Title        string
}

// DecisionData carries what the editorial decision email needs.
type DecisionData struct {
	Email        string
	ManuscriptID string
	Title        string
	Decision     string // submitted state name: revision_required, accepted, rejected, published
	Notes        string
}

// RevisionReminderData carries what the deadline reminder email needs.
type RevisionReminderData struct {
	Email        string
	ManuscriptID string
	Title        string
	Deadline     string
}

type EmailService interface {
	SendSubmissionReceipt(ctx context.Context, data SubmissionReceiptData) error
	SendDecisionNotification(ctx context.Context, data DecisionData) error
	SendRevisionReminder(ctx context.Context, data RevisionReminderData) error
}

type smtpEmailService struct {
	smtpAddr string
	smtpFrom string
}

// NewSMTPEmailService sends plain-text mail through an unauthenticated
// SMTP relay (mailpit/mailhog in development).
func NewSMTPEmailService(smtpHost, smtpPort, from string) EmailService {
	return &smtpEmailService{
		smtpAddr: smtpHost + ":" + smtpPort,
		smtpFrom: from,
	}
}

func (s *smtpEmailService) SendSubmissionReceipt(ctx context.Context, data SubmissionReceiptData) error {
	subject := fmt.Sprintf("Manuscript %s received", data.ManuscriptID)
	body := fmt.Sprintf(`Dear author,

Your manuscript "%s" has been received and assigned the identifier %s.

You will be notified when the editorial review begins.`, data.Title, data.ManuscriptID)

	return s.send(data.Email, subject, body)
}

func (s *smtpEmailService) SendDecisionNotification(ctx context.Context, data DecisionData) error {
	subject := fmt.Sprintf("Editorial update for manuscript %s", data.ManuscriptID)
	body := fmt.Sprintf(`Dear author,

There is an editorial update for your manuscript "%s" (%s): %s.

%s`, data.Title, data.ManuscriptID, data.Decision, data.Notes)

	return s.send(data.Email, subject, body)
}

func (s *smtpEmailService) SendRevisionReminder(ctx context.Context, data RevisionReminderData) error {
	subject := fmt.Sprintf("Revision deadline approaching for %s", data.ManuscriptID)
	body := fmt.Sprintf(`Dear author,

The revision for your manuscript "%s" (%s) is due on %s.

Please submit your revised files before the deadline.`, data.Title, data.ManuscriptID, data.Deadline)

	return s.send(data.Email, subject, body)
}

func (s *smtpEmailService) send(to, subject, body string) error {
	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		s.smtpFrom, to, subject, body))

	if err := smtp.SendMail(s.smtpAddr, nil, s.smtpFrom, []string{to}, msg); err != nil {
		logger.Info("Failed to send email", map[string]interface{}{
			"error":     err.Error(),
			"to":        to,
			"smtp_addr": s.smtpAddr,
		})
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
