package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"journal-backend/internal/domains/file/model"
)

// =====================================================
// FILE REPOSITORY INTERFACE
// =====================================================
type FileRepository interface {
	CreateFile(ctx context.Context, file *model.ManuscriptFile) error
	GetFile(ctx context.Context, submissionID, fileID uuid.UUID) (*model.ManuscriptFile, error)
	ListBySubmission(ctx context.Context, submissionID uuid.UUID, activeOnly bool) ([]model.ManuscriptFile, error)
	SoftDeleteFile(ctx context.Context, submissionID, fileID uuid.UUID) error

	// CountActiveBySubmissionWithTx feeds the submit completeness guard
	// and must observe the caller's transaction.
	CountActiveBySubmissionWithTx(ctx context.Context, tx pgx.Tx, submissionID uuid.UUID) (int, error)
}
