package main

import (
	"github.com/hibiken/asynq"

	fileJob "journal-backend/internal/domains/file/job"
	submissionJob "journal-backend/internal/domains/submission/job"
	"journal-backend/internal/infrastructure/email"
	"journal-backend/internal/shared"
	"journal-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	// Notification handlers
	receipt        *submissionJob.ReceiptHandler
	decisionNotice *submissionJob.DecisionNoticeHandler

	// Document handlers
	buildPDF    *submissionJob.BuildPDFHandler
	deleteFiles *fileJob.DeleteFilesHandler

	// Scheduled handlers
	revisionReminder *submissionJob.RevisionReminderHandler
}

// initializeHandlers creates all job handlers with their dependencies
func initializeHandlers(c *container.Container, cfg *Config) *HandlerRegistry {
	emailSvc := email.NewSMTPEmailService(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom)

	return &HandlerRegistry{
		receipt:        submissionJob.NewReceiptHandler(emailSvc),
		decisionNotice: submissionJob.NewDecisionNoticeHandler(emailSvc),

		buildPDF:    submissionJob.NewBuildPDFHandler(c.SubmissionRepo, c.Storage),
		deleteFiles: fileJob.NewDeleteFilesHandler(c.Storage),

		revisionReminder: submissionJob.NewRevisionReminderHandler(c.SubmissionRepo, emailSvc),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	// Notification tasks
	mux.HandleFunc(shared.TypeSendSubmissionReceipt, h.receipt.ProcessTask)
	mux.HandleFunc(shared.TypeSendDecisionNotice, h.decisionNotice.ProcessTask)

	// Document tasks
	mux.HandleFunc(shared.TypeBuildSubmissionPDF, h.buildPDF.ProcessTask)
	mux.HandleFunc(shared.TypeDeleteSubmissionFiles, h.deleteFiles.ProcessTask)

	// Scheduled tasks
	mux.HandleFunc(shared.TypeRevisionDeadlineReminder, h.revisionReminder.ProcessTask)
}
