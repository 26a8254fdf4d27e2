package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"journal-backend/internal/domains/file/model"
)

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================
type postgresFileRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresFileRepository(pool *pgxpool.Pool) FileRepository {
	return &postgresFileRepository{
		pool: pool,
	}
}

const fileColumns = `
	id, submission_id, uploaded_by,
	file_type, original_filename, storage_key, content_type, size_bytes, checksum,
	revision_number, is_active,
	created_at, updated_at`

func scanFile(row pgx.Row, f *model.ManuscriptFile) error {
	return row.Scan(
		&f.ID,
		&f.SubmissionID,
		&f.UploadedBy,
		&f.FileType,
		&f.OriginalFilename,
		&f.StorageKey,
		&f.ContentType,
		&f.SizeBytes,
		&f.Checksum,
		&f.RevisionNumber,
		&f.IsActive,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
}

func (r *postgresFileRepository) CreateFile(ctx context.Context, file *model.ManuscriptFile) error {
	query := `
		INSERT INTO manuscript_files (
			id, submission_id, uploaded_by,
			file_type, original_filename, storage_key, content_type, size_bytes, checksum,
			revision_number, is_active
		) VALUES (
			$1, $2, $3,
			$4, $5, $6, $7, $8, $9,
			$10, $11
		)
		RETURNING created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		file.ID,
		file.SubmissionID,
		file.UploadedBy,
		file.FileType,
		file.OriginalFilename,
		file.StorageKey,
		file.ContentType,
		file.SizeBytes,
		file.Checksum,
		file.RevisionNumber,
		file.IsActive,
	).Scan(&file.CreatedAt, &file.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	return nil
}

func (r *postgresFileRepository) GetFile(ctx context.Context, submissionID, fileID uuid.UUID) (*model.ManuscriptFile, error) {
	query := `SELECT` + fileColumns + `
		FROM manuscript_files
		WHERE id = $1 AND submission_id = $2
	`

	var file model.ManuscriptFile
	err := scanFile(r.pool.QueryRow(ctx, query, fileID, submissionID), &file)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to get file: %w", err)
	}

	return &file, nil
}

func (r *postgresFileRepository) ListBySubmission(ctx context.Context, submissionID uuid.UUID, activeOnly bool) ([]model.ManuscriptFile, error) {
	query := `SELECT` + fileColumns + `
		FROM manuscript_files
		WHERE submission_id = $1
	`
	if activeOnly {
		query += ` AND is_active = TRUE`
	}
	query += ` ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, submissionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	defer rows.Close()

	files := make([]model.ManuscriptFile, 0)
	for rows.Next() {
		var f model.ManuscriptFile
		if err := scanFile(rows, &f); err != nil {
			return nil, fmt.Errorf("failed to scan file: %w", err)
		}
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate files: %w", err)
	}

	return files, nil
}

func (r *postgresFileRepository) SoftDeleteFile(ctx context.Context, submissionID, fileID uuid.UUID) error {
	query := `
		UPDATE manuscript_files
		SET is_active = FALSE, updated_at = NOW()
		WHERE id = $1 AND submission_id = $2 AND is_active = TRUE
	`

	tag, err := r.pool.Exec(ctx, query, fileID, submissionID)
	if err != nil {
		return fmt.Errorf("failed to soft delete file: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrFileNotFound
	}

	return nil
}

func (r *postgresFileRepository) CountActiveBySubmissionWithTx(ctx context.Context, tx pgx.Tx, submissionID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM manuscript_files WHERE submission_id = $1 AND is_active = TRUE`

	var count int
	if err := tx.QueryRow(ctx, query, submissionID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count active files: %w", err)
	}

	return count, nil
}
