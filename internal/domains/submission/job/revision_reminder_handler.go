package job

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"journal-backend/internal/domains/submission/repository"
	"journal-backend/internal/infrastructure/email"
	"journal-backend/pkg/logger"
)

// reminderWindow is how far ahead of the deadline the reminder goes out.
const reminderWindow = 3 * 24 * time.Hour

// RevisionReminderHandler runs on a daily schedule and nudges authors
// whose revision deadline is close or past.
type RevisionReminderHandler struct {
	submissionRepo repository.SubmissionRepository
	emailService   email.EmailService
}

func NewRevisionReminderHandler(
	submissionRepo repository.SubmissionRepository,
	emailService email.EmailService,
) *RevisionReminderHandler {
	return &RevisionReminderHandler{
		submissionRepo: submissionRepo,
		emailService:   emailService,
	}
}

func (h *RevisionReminderHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	due, err := h.submissionRepo.ListRevisionDeadlinesDue(ctx, time.Now().Add(reminderWindow))
	if err != nil {
		logger.Error("RevisionReminder: Failed to list due revisions", err)
		return fmt.Errorf("list due revisions: %w", err)
	}

	sent := 0
	for i := range due {
		submission := &due[i]

		recipient, err := h.submissionRepo.CorrespondingAuthor(ctx, submission.ID)
		if err != nil {
			// A submission can sit in revision with a broken roster;
			// skip it rather than failing the whole batch.
			logger.Error("RevisionReminder: No corresponding author", err)
			continue
		}

		manuscriptID := ""
		if submission.ManuscriptID != nil {
			manuscriptID = *submission.ManuscriptID
		}

		err = h.emailService.SendRevisionReminder(ctx, email.RevisionReminderData{
			Email:        recipient.Email,
			ManuscriptID: manuscriptID,
			Title:        submission.Title,
			Deadline:     submission.RevisionDeadline.Format("2006-01-02"),
		})
		if err != nil {
			logger.Error("RevisionReminder: Failed to send email", err)
			continue
		}
		sent++
	}

	logger.Info("Revision reminders processed", map[string]interface{}{
		"due":  len(due),
		"sent": sent,
	})

	return nil
}
