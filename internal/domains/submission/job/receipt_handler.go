package job

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"journal-backend/internal/domains/submission/model"
	"journal-backend/internal/infrastructure/email"
	"journal-backend/internal/shared/utils"
	"journal-backend/pkg/logger"
)

// ReceiptHandler sends the confirmation email after a successful
// submit or revision submit.
type ReceiptHandler struct {
	emailService email.EmailService
}

func NewReceiptHandler(emailService email.EmailService) *ReceiptHandler {
	return &ReceiptHandler{
		emailService: emailService,
	}
}

func (h *ReceiptHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload model.SubmissionReceiptPayload
	if err := utils.UnmarshalTask(task, &payload); err != nil {
		logger.Error("Receipt: Failed to unmarshal payload", err)
		return err
	}

	err := h.emailService.SendSubmissionReceipt(ctx, email.SubmissionReceiptData{
		Email:        payload.RecipientEmail,
		ManuscriptID: payload.ManuscriptID,
		Title:        payload.Title,
	})
	if err != nil {
		logger.Error("Receipt: Failed to send email", err)
		return fmt.Errorf("send receipt email: %w", err)
	}

	logger.Info("Submission receipt sent", map[string]interface{}{
		"submission_id": payload.SubmissionID.String(),
		"manuscript_id": payload.ManuscriptID,
		"recipient":     payload.RecipientEmail,
		"is_revision":   payload.IsRevision,
	})

	return nil
}
