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

// DecisionNoticeHandler notifies the corresponding author of an
// editorial outcome.
type DecisionNoticeHandler struct {
	emailService email.EmailService
}

func NewDecisionNoticeHandler(emailService email.EmailService) *DecisionNoticeHandler {
	return &DecisionNoticeHandler{
		emailService: emailService,
	}
}

func (h *DecisionNoticeHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload model.DecisionNoticePayload
	if err := utils.UnmarshalTask(task, &payload); err != nil {
		logger.Error("DecisionNotice: Failed to unmarshal payload", err)
		return err
	}

	notes := payload.Notes
	if payload.Decision == string(model.TransitionRequestRevision) && payload.DeadlineDays > 0 {
		notes = fmt.Sprintf("%s\n\nThe revised manuscript is expected within %d days.", notes, payload.DeadlineDays)
	}

	err := h.emailService.SendDecisionNotification(ctx, email.DecisionData{
		Email:        payload.RecipientEmail,
		ManuscriptID: payload.ManuscriptID,
		Title:        payload.Title,
		Decision:     payload.Decision,
		Notes:        notes,
	})
	if err != nil {
		logger.Error("DecisionNotice: Failed to send email", err)
		return fmt.Errorf("send decision email: %w", err)
	}

	logger.Info("Decision notice sent", map[string]interface{}{
		"submission_id": payload.SubmissionID.String(),
		"decision":      payload.Decision,
		"recipient":     payload.RecipientEmail,
	})

	return nil
}
