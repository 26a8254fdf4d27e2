package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"journal-backend/internal/domains/submission/model"
)

// =====================================================
// SUBMISSION REPOSITORY INTERFACE
// =====================================================
type SubmissionRepository interface {
	// Transaction management
	BeginTx(ctx context.Context) (pgx.Tx, error)
	CommitTx(ctx context.Context, tx pgx.Tx) error
	RollbackTx(ctx context.Context, tx pgx.Tx) error

	// Submission operations
	CreateSubmission(ctx context.Context, submission *model.Submission) error
	GetSubmissionByID(ctx context.Context, submissionID uuid.UUID) (*model.Submission, error)
	// GetSubmissionForUpdateWithTx locks the row for the lifetime of tx.
	// Every transition reads through this so concurrent writers queue up.
	GetSubmissionForUpdateWithTx(ctx context.Context, tx pgx.Tx, submissionID uuid.UUID) (*model.Submission, error)
	UpdateSubmissionWithTx(ctx context.Context, tx pgx.Tx, submission *model.Submission) error
	UpdateDraftContent(ctx context.Context, submission *model.Submission) error
	// DeleteDraft removes the row only while it is still a draft and
	// reports ErrSubmissionNotFound otherwise.
	DeleteDraftWithTx(ctx context.Context, tx pgx.Tx, submissionID uuid.UUID) error

	// Manuscript id allocation
	MaxManuscriptSeqWithTx(ctx context.Context, tx pgx.Tx, prefix string, year int) (int, error)

	// List operations
	ListBySubmitter(ctx context.Context, submitterID uuid.UUID, status string, page, limit int) ([]model.Submission, int, error)
	ListByEditor(ctx context.Context, editorID uuid.UUID, status string, page, limit int) ([]model.Submission, int, error)
	ListAll(ctx context.Context, status string, page, limit int) ([]model.Submission, int, error)
	ListRevisionDeadlinesDue(ctx context.Context, by time.Time) ([]model.Submission, error)

	// Author roster
	CreateAuthorWithTx(ctx context.Context, tx pgx.Tx, author *model.Author) error
	GetAuthor(ctx context.Context, submissionID, authorID uuid.UUID) (*model.Author, error)
	GetAuthorWithTx(ctx context.Context, tx pgx.Tx, submissionID, authorID uuid.UUID) (*model.Author, error)
	ListAuthors(ctx context.Context, submissionID uuid.UUID) ([]model.Author, error)
	ListAuthorsWithTx(ctx context.Context, tx pgx.Tx, submissionID uuid.UUID) ([]model.Author, error)
	UpdateAuthorWithTx(ctx context.Context, tx pgx.Tx, author *model.Author) error
	DeleteAuthorWithTx(ctx context.Context, tx pgx.Tx, submissionID, authorID uuid.UUID) error
	// ResequenceAuthorsWithTx rewrites positions to 1..N in current order.
	ResequenceAuthorsWithTx(ctx context.Context, tx pgx.Tx, submissionID uuid.UUID) error
	// ClearCorrespondingWithTx unsets the corresponding flag on every
	// author except the given one.
	ClearCorrespondingWithTx(ctx context.Context, tx pgx.Tx, submissionID, exceptAuthorID uuid.UUID) error
	CountAuthorsWithTx(ctx context.Context, tx pgx.Tx, submissionID uuid.UUID) (int, error)
	CountCorrespondingWithTx(ctx context.Context, tx pgx.Tx, submissionID uuid.UUID) (int, error)
	MaxAuthorPositionWithTx(ctx context.Context, tx pgx.Tx, submissionID uuid.UUID) (int, error)
	CorrespondingAuthor(ctx context.Context, submissionID uuid.UUID) (*model.Author, error)

	// Status history (append only)
	CreateStatusHistoryWithTx(ctx context.Context, tx pgx.Tx, history *model.StatusHistory) error
	ListStatusHistory(ctx context.Context, submissionID uuid.UUID) ([]model.StatusHistory, error)
}
