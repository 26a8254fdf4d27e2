package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"journal-backend/internal/domains/submission/model"
	"journal-backend/internal/shared"
)

// =====================================================
// SUBMISSION SERVICE INTERFACE
// =====================================================
type SubmissionService interface {
	// Draft lifecycle
	CreateDraft(ctx context.Context, actor shared.Actor, req model.CreateSubmissionRequest) (*model.SubmissionResponse, error)
	GetSubmission(ctx context.Context, actor shared.Actor, submissionID uuid.UUID) (*model.SubmissionResponse, error)
	UpdateDraft(ctx context.Context, actor shared.Actor, submissionID uuid.UUID, req model.UpdateSubmissionRequest) (*model.SubmissionResponse, error)
	DeleteDraft(ctx context.Context, actor shared.Actor, submissionID uuid.UUID) error

	// Listings
	ListSubmissions(ctx context.Context, actor shared.Actor, req model.ListSubmissionsRequest) ([]model.SubmissionListItem, int, error)
	ListEditorialQueue(ctx context.Context, actor shared.Actor, req model.ListSubmissionsRequest) ([]model.SubmissionListItem, int, error)

	// Transition executes one lifecycle edge atomically: lock, check,
	// mutate, append history, commit.
	Transition(ctx context.Context, actor shared.Actor, submissionID uuid.UUID, name model.TransitionName, params model.TransitionParams) (*model.SubmissionResponse, error)

	// Author roster
	AddAuthor(ctx context.Context, actor shared.Actor, submissionID uuid.UUID, req model.AddAuthorRequest) (*model.Author, error)
	UpdateAuthor(ctx context.Context, actor shared.Actor, submissionID, authorID uuid.UUID, req model.UpdateAuthorRequest) (*model.Author, error)
	RemoveAuthor(ctx context.Context, actor shared.Actor, submissionID, authorID uuid.UUID) error
	ListAuthors(ctx context.Context, actor shared.Actor, submissionID uuid.UUID) ([]model.Author, error)

	// Audit trail
	GetStatusHistory(ctx context.Context, actor shared.Actor, submissionID uuid.UUID) ([]model.StatusHistory, error)

	// ValidateSubmission runs the submit completeness checks without
	// changing any state, so the wizard can surface what is missing
	// before the author commits.
	ValidateSubmission(ctx context.Context, actor shared.Actor, submissionID uuid.UUID) error

	// EnqueuePDFBuild schedules regeneration of the review PDF.
	EnqueuePDFBuild(ctx context.Context, actor shared.Actor, submissionID uuid.UUID) error
}

// FileCounter is the slice of the file repository the submit guard
// needs. Declared here to keep the domains decoupled.
type FileCounter interface {
	CountActiveBySubmissionWithTx(ctx context.Context, tx pgx.Tx, submissionID uuid.UUID) (int, error)
}
