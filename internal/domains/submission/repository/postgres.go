package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"journal-backend/internal/domains/submission/model"
)

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================
type postgresSubmissionRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresSubmissionRepository(pool *pgxpool.Pool) SubmissionRepository {
	return &postgresSubmissionRepository{
		pool: pool,
	}
}

// =====================================================
// TRANSACTION MANAGEMENT
// =====================================================

func (r *postgresSubmissionRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}

func (r *postgresSubmissionRepository) CommitTx(ctx context.Context, tx pgx.Tx) error {
	return tx.Commit(ctx)
}

func (r *postgresSubmissionRepository) RollbackTx(ctx context.Context, tx pgx.Tx) error {
	return tx.Rollback(ctx)
}

// translatePgError maps low-level pgx failures onto domain sentinels so
// the service layer never inspects SQLSTATE codes itself.
func translatePgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			if pgErr.ConstraintName == "submissions_manuscript_id_key" {
				return model.ErrManuscriptIDTaken
			}
		case "40001", "40P01":
			// serialization failure / deadlock
			return model.ErrConcurrencyConflict
		}
	}
	return err
}

// =====================================================
// SUBMISSION QUERIES
// =====================================================

const submissionColumns = `
	id, manuscript_id, submitter_id, status,
	title, title_en, abstract, abstract_en, keywords, keywords_en,
	article_type, language,
	cover_letter, ethics_statement, ethics_approval_number,
	conflict_of_interest, funding_statement, wizard_step,
	revision_number, revision_notes, revision_deadline,
	assigned_editor_id, editor_notes, editor_decision, editor_decision_date,
	created_at, updated_at, submitted_at, accepted_at, published_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row rowScanner, s *model.Submission) error {
	return row.Scan(
		&s.ID,
		&s.ManuscriptID,
		&s.SubmitterID,
		&s.Status,
		&s.Title,
		&s.TitleEn,
		&s.Abstract,
		&s.AbstractEn,
		&s.Keywords,
		&s.KeywordsEn,
		&s.ArticleType,
		&s.Language,
		&s.CoverLetter,
		&s.EthicsStatement,
		&s.EthicsApprovalNumber,
		&s.ConflictOfInterest,
		&s.FundingStatement,
		&s.WizardStep,
		&s.RevisionNumber,
		&s.RevisionNotes,
		&s.RevisionDeadline,
		&s.AssignedEditorID,
		&s.EditorNotes,
		&s.EditorDecision,
		&s.EditorDecisionDate,
		&s.CreatedAt,
		&s.UpdatedAt,
		&s.SubmittedAt,
		&s.AcceptedAt,
		&s.PublishedAt,
	)
}

// =====================================================
// CREATE SUBMISSION
// =====================================================

func (r *postgresSubmissionRepository) CreateSubmission(ctx context.Context, submission *model.Submission) error {
	query := `
		INSERT INTO submissions (
			id, submitter_id, status,
			title, abstract, keywords, article_type, language, wizard_step
		) VALUES (
			$1, $2, $3,
			$4, $5, $6, $7, $8, $9
		)
		RETURNING created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		submission.ID,
		submission.SubmitterID,
		submission.Status,
		submission.Title,
		submission.Abstract,
		submission.Keywords,
		submission.ArticleType,
		submission.Language,
		submission.WizardStep,
	).Scan(&submission.CreatedAt, &submission.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create submission: %w", translatePgError(err))
	}

	return nil
}

// =====================================================
// GET SUBMISSION
// =====================================================

func (r *postgresSubmissionRepository) GetSubmissionByID(ctx context.Context, submissionID uuid.UUID) (*model.Submission, error) {
	query := `SELECT` + submissionColumns + `
		FROM submissions
		WHERE id = $1
	`

	var submission model.Submission
	err := scanSubmission(r.pool.QueryRow(ctx, query, submissionID), &submission)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}

	return &submission, nil
}

func (r *postgresSubmissionRepository) GetSubmissionForUpdateWithTx(ctx context.Context, tx pgx.Tx, submissionID uuid.UUID) (*model.Submission, error) {
	query := `SELECT` + submissionColumns + `
		FROM submissions
		WHERE id = $1
		FOR UPDATE
	`

	var submission model.Submission
	err := scanSubmission(tx.QueryRow(ctx, query, submissionID), &submission)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to lock submission: %w", translatePgError(err))
	}

	return &submission, nil
}

// =====================================================
// UPDATE SUBMISSION
// =====================================================

func (r *postgresSubmissionRepository) UpdateSubmissionWithTx(ctx context.Context, tx pgx.Tx, submission *model.Submission) error {
	query := `
		UPDATE submissions SET
			manuscript_id = $2,
			status = $3,
			revision_number = $4,
			revision_notes = $5,
			revision_deadline = $6,
			assigned_editor_id = $7,
			editor_notes = $8,
			editor_decision = $9,
			editor_decision_date = $10,
			updated_at = $11,
			submitted_at = $12,
			accepted_at = $13,
			published_at = $14
		WHERE id = $1
	`

	tag, err := tx.Exec(ctx, query,
		submission.ID,
		submission.ManuscriptID,
		submission.Status,
		submission.RevisionNumber,
		submission.RevisionNotes,
		submission.RevisionDeadline,
		submission.AssignedEditorID,
		submission.EditorNotes,
		submission.EditorDecision,
		submission.EditorDecisionDate,
		submission.UpdatedAt,
		submission.SubmittedAt,
		submission.AcceptedAt,
		submission.PublishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update submission: %w", translatePgError(err))
	}
	if tag.RowsAffected() == 0 {
		return model.ErrSubmissionNotFound
	}

	return nil
}

func (r *postgresSubmissionRepository) UpdateDraftContent(ctx context.Context, submission *model.Submission) error {
	query := `
		UPDATE submissions SET
			title = $2,
			title_en = $3,
			abstract = $4,
			abstract_en = $5,
			keywords = $6,
			keywords_en = $7,
			article_type = $8,
			language = $9,
			cover_letter = $10,
			ethics_statement = $11,
			ethics_approval_number = $12,
			conflict_of_interest = $13,
			funding_statement = $14,
			wizard_step = $15,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		submission.ID,
		submission.Title,
		submission.TitleEn,
		submission.Abstract,
		submission.AbstractEn,
		submission.Keywords,
		submission.KeywordsEn,
		submission.ArticleType,
		submission.Language,
		submission.CoverLetter,
		submission.EthicsStatement,
		submission.EthicsApprovalNumber,
		submission.ConflictOfInterest,
		submission.FundingStatement,
		submission.WizardStep,
	).Scan(&submission.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrSubmissionNotFound
		}
		return fmt.Errorf("failed to update draft content: %w", translatePgError(err))
	}

	return nil
}

// =====================================================
// DELETE DRAFT
// =====================================================

func (r *postgresSubmissionRepository) DeleteDraftWithTx(ctx context.Context, tx pgx.Tx, submissionID uuid.UUID) error {
	// Status predicate keeps the delete safe even if the caller's check
	// raced with a concurrent submit.
	query := `DELETE FROM submissions WHERE id = $1 AND status = $2`

	tag, err := tx.Exec(ctx, query, submissionID, model.StatusDraft)
	if err != nil {
		return fmt.Errorf("failed to delete draft: %w", translatePgError(err))
	}
	if tag.RowsAffected() == 0 {
		return model.ErrSubmissionNotFound
	}

	return nil
}

// =====================================================
// MANUSCRIPT ID ALLOCATION
// =====================================================

func (r *postgresSubmissionRepository) MaxManuscriptSeqWithTx(ctx context.Context, tx pgx.Tx, prefix string, year int) (int, error) {
	// manuscript_id has the form PREFIX-YEAR-NNNN. The numeric suffix
	// starts at character len("PREFIX-YYYY-") + 1.
	pattern := fmt.Sprintf("%s-%d-%%", prefix, year)
	offset := len(prefix) + 7

	query := `
		SELECT COALESCE(MAX(SUBSTRING(manuscript_id FROM $2::int)::int), 0)
		FROM submissions
		WHERE manuscript_id LIKE $1
	`

	var maxSeq int
	err := tx.QueryRow(ctx, query, pattern, offset).Scan(&maxSeq)
	if err != nil {
		return 0, fmt.Errorf("failed to read manuscript id sequence: %w", translatePgError(err))
	}

	return maxSeq, nil
}

// =====================================================
// LIST SUBMISSIONS
// =====================================================

func (r *postgresSubmissionRepository) ListBySubmitter(ctx context.Context, submitterID uuid.UUID, status string, page, limit int) ([]model.Submission, int, error) {
	where := `WHERE submitter_id = $1`
	args := []any{submitterID}
	if status != "" {
		where += ` AND status = $2`
		args = append(args, status)
	}
	return r.listSubmissions(ctx, where, args, page, limit)
}

func (r *postgresSubmissionRepository) ListByEditor(ctx context.Context, editorID uuid.UUID, status string, page, limit int) ([]model.Submission, int, error) {
	where := `WHERE assigned_editor_id = $1`
	args := []any{editorID}
	if status != "" {
		where += ` AND status = $2`
		args = append(args, status)
	}
	return r.listSubmissions(ctx, where, args, page, limit)
}

func (r *postgresSubmissionRepository) ListAll(ctx context.Context, status string, page, limit int) ([]model.Submission, int, error) {
	where := ``
	args := []any{}
	if status != "" {
		where = `WHERE status = $1`
		args = append(args, status)
	}
	return r.listSubmissions(ctx, where, args, page, limit)
}

func (r *postgresSubmissionRepository) listSubmissions(ctx context.Context, where string, args []any, page, limit int) ([]model.Submission, int, error) {
	countQuery := `SELECT COUNT(*) FROM submissions ` + where

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count submissions: %w", err)
	}

	offset := (page - 1) * limit
	listQuery := fmt.Sprintf(`SELECT%s
		FROM submissions %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		submissionColumns, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	submissions := make([]model.Submission, 0)
	for rows.Next() {
		var s model.Submission
		if err := scanSubmission(rows, &s); err != nil {
			return nil, 0, fmt.Errorf("failed to scan submission: %w", err)
		}
		submissions = append(submissions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate submissions: %w", err)
	}

	return submissions, total, nil
}

func (r *postgresSubmissionRepository) ListRevisionDeadlinesDue(ctx context.Context, by time.Time) ([]model.Submission, error) {
	query := `SELECT` + submissionColumns + `
		FROM submissions
		WHERE status = $1 AND revision_deadline IS NOT NULL AND revision_deadline <= $2
		ORDER BY revision_deadline ASC
	`

	rows, err := r.pool.Query(ctx, query, model.StatusRevisionRequired, by)
	if err != nil {
		return nil, fmt.Errorf("failed to list due revisions: %w", err)
	}
	defer rows.Close()

	submissions := make([]model.Submission, 0)
	for rows.Next() {
		var s model.Submission
		if err := scanSubmission(rows, &s); err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		submissions = append(submissions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate due revisions: %w", err)
	}

	return submissions, nil
}

// =====================================================
// AUTHOR ROSTER
// =====================================================

const authorColumns = `
	id, submission_id, user_id, orcid_id,
	given_name, family_name, email,
	institution, department, country, city,
	position, is_corresponding, contribution,
	created_at, updated_at`

func scanAuthor(row rowScanner, a *model.Author) error {
	return row.Scan(
		&a.ID,
		&a.SubmissionID,
		&a.UserID,
		&a.OrcidID,
		&a.GivenName,
		&a.FamilyName,
		&a.Email,
		&a.Institution,
		&a.Department,
		&a.Country,
		&a.City,
		&a.Position,
		&a.IsCorresponding,
		&a.Contribution,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
}

func (r *postgresSubmissionRepository) CreateAuthorWithTx(ctx context.Context, tx pgx.Tx, author *model.Author) error {
	query := `
		INSERT INTO submission_authors (
			id, submission_id, user_id, orcid_id,
			given_name, family_name, email,
			institution, department, country, city,
			position, is_corresponding, contribution
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7,
			$8, $9, $10, $11,
			$12, $13, $14
		)
		RETURNING created_at, updated_at
	`

	err := tx.QueryRow(ctx, query,
		author.ID,
		author.SubmissionID,
		author.UserID,
		author.OrcidID,
		author.GivenName,
		author.FamilyName,
		author.Email,
		author.Institution,
		author.Department,
		author.Country,
		author.City,
		author.Position,
		author.IsCorresponding,
		author.Contribution,
	).Scan(&author.CreatedAt, &author.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create author: %w", translatePgError(err))
	}

	return nil
}

func (r *postgresSubmissionRepository) GetAuthor(ctx context.Context, submissionID, authorID uuid.UUID) (*model.Author, error) {
	query := `SELECT` + authorColumns + `
		FROM submission_authors
		WHERE id = $1 AND submission_id = $2
	`

	var author model.Author
	err := scanAuthor(r.pool.QueryRow(ctx, query, authorID, submissionID), &author)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrAuthorNotFound
		}
		return nil, fmt.Errorf("failed to get author: %w", err)
	}

	return &author, nil
}

func (r *postgresSubmissionRepository) GetAuthorWithTx(ctx context.Context, tx pgx.Tx, submissionID, authorID uuid.UUID) (*model.Author, error) {
	query := `SELECT` + authorColumns + `
		FROM submission_authors
		WHERE id = $1 AND submission_id = $2
		FOR UPDATE
	`

	var author model.Author
	err := scanAuthor(tx.QueryRow(ctx, query, authorID, submissionID), &author)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrAuthorNotFound
		}
		return nil, fmt.Errorf("failed to lock author: %w", translatePgError(err))
	}

	return &author, nil
}

func (r *postgresSubmissionRepository) ListAuthors(ctx context.Context, submissionID uuid.UUID) ([]model.Author, error) {
	query := `SELECT` + authorColumns + `
		FROM submission_authors
		WHERE submission_id = $1
		ORDER BY position ASC
	`

	rows, err := r.pool.Query(ctx, query, submissionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list authors: %w", err)
	}
	defer rows.Close()

	return collectAuthors(rows)
}

func (r *postgresSubmissionRepository) ListAuthorsWithTx(ctx context.Context, tx pgx.Tx, submissionID uuid.UUID) ([]model.Author, error) {
	query := `SELECT` + authorColumns + `
		FROM submission_authors
		WHERE submission_id = $1
		ORDER BY position ASC
	`

	rows, err := tx.Query(ctx, query, submissionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list authors: %w", translatePgError(err))
	}
	defer rows.Close()

	return collectAuthors(rows)
}

func collectAuthors(rows pgx.Rows) ([]model.Author, error) {
	authors := make([]model.Author, 0)
	for rows.Next() {
		var a model.Author
		if err := scanAuthor(rows, &a); err != nil {
			return nil, fmt.Errorf("failed to scan author: %w", err)
		}
		authors = append(authors, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate authors: %w", err)
	}
	return authors, nil
}

func (r *postgresSubmissionRepository) UpdateAuthorWithTx(ctx context.Context, tx pgx.Tx, author *model.Author) error {
	query := `
		UPDATE submission_authors SET
			user_id = $3,
			orcid_id = $4,
			given_name = $5,
			family_name = $6,
			email = $7,
			institution = $8,
			department = $9,
			country = $10,
			city = $11,
			position = $12,
			is_corresponding = $13,
			contribution = $14,
			updated_at = NOW()
		WHERE id = $1 AND submission_id = $2
	`

	tag, err := tx.Exec(ctx, query,
		author.ID,
		author.SubmissionID,
		author.UserID,
		author.OrcidID,
		author.GivenName,
		author.FamilyName,
		author.Email,
		author.Institution,
		author.Department,
		author.Country,
		author.City,
		author.Position,
		author.IsCorresponding,
		author.Contribution,
	)
	if err != nil {
		return fmt.Errorf("failed to update author: %w", translatePgError(err))
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAuthorNotFound
	}

	return nil
}

func (r *postgresSubmissionRepository) DeleteAuthorWithTx(ctx context.Context, tx pgx.Tx, submissionID, authorID uuid.UUID) error {
	query := `DELETE FROM submission_authors WHERE id = $1 AND submission_id = $2`

	tag, err := tx.Exec(ctx, query, authorID, submissionID)
	if err != nil {
		return fmt.Errorf("failed to delete author: %w", translatePgError(err))
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAuthorNotFound
	}

	return nil
}

func (r *postgresSubmissionRepository) ResequenceAuthorsWithTx(ctx context.Context, tx pgx.Tx, submissionID uuid.UUID) error {
	// Rewrites positions to a contiguous 1..N keeping the current order,
	// ties broken by creation time.
	query := `
		UPDATE submission_authors a SET position = ranked.new_position
		FROM (
			SELECT id, ROW_NUMBER() OVER (ORDER BY position ASC, created_at ASC) AS new_position
			FROM submission_authors
			WHERE submission_id = $1
		) ranked
		WHERE a.id = ranked.id AND a.position <> ranked.new_position
	`

	if _, err := tx.Exec(ctx, query, submissionID); err != nil {
		return fmt.Errorf("failed to resequence authors: %w", translatePgError(err))
	}

	return nil
}

func (r *postgresSubmissionRepository) ClearCorrespondingWithTx(ctx context.Context, tx pgx.Tx, submissionID, exceptAuthorID uuid.UUID) error {
	query := `
		UPDATE submission_authors
		SET is_corresponding = FALSE, updated_at = NOW()
		WHERE submission_id = $1 AND id <> $2 AND is_corresponding = TRUE
	`

	if _, err := tx.Exec(ctx, query, submissionID, exceptAuthorID); err != nil {
		return fmt.Errorf("failed to clear corresponding flags: %w", translatePgError(err))
	}

	return nil
}

func (r *postgresSubmissionRepository) CountAuthorsWithTx(ctx context.Context, tx pgx.Tx, submissionID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM submission_authors WHERE submission_id = $1`

	var count int
	if err := tx.QueryRow(ctx, query, submissionID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count authors: %w", translatePgError(err))
	}

	return count, nil
}

func (r *postgresSubmissionRepository) CountCorrespondingWithTx(ctx context.Context, tx pgx.Tx, submissionID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM submission_authors WHERE submission_id = $1 AND is_corresponding = TRUE`

	var count int
	if err := tx.QueryRow(ctx, query, submissionID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count corresponding authors: %w", translatePgError(err))
	}

	return count, nil
}

func (r *postgresSubmissionRepository) MaxAuthorPositionWithTx(ctx context.Context, tx pgx.Tx, submissionID uuid.UUID) (int, error) {
	query := `SELECT COALESCE(MAX(position), 0) FROM submission_authors WHERE submission_id = $1`

	var max int
	if err := tx.QueryRow(ctx, query, submissionID).Scan(&max); err != nil {
		return 0, fmt.Errorf("failed to read max author position: %w", translatePgError(err))
	}

	return max, nil
}

func (r *postgresSubmissionRepository) CorrespondingAuthor(ctx context.Context, submissionID uuid.UUID) (*model.Author, error) {
	query := `SELECT` + authorColumns + `
		FROM submission_authors
		WHERE submission_id = $1 AND is_corresponding = TRUE
		ORDER BY position ASC
		LIMIT 1
	`

	var author model.Author
	err := scanAuthor(r.pool.QueryRow(ctx, query, submissionID), &author)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrAuthorNotFound
		}
		return nil, fmt.Errorf("failed to get corresponding author: %w", err)
	}

	return &author, nil
}

// =====================================================
// STATUS HISTORY
// =====================================================

func (r *postgresSubmissionRepository) CreateStatusHistoryWithTx(ctx context.Context, tx pgx.Tx, history *model.StatusHistory) error {
	query := `
		INSERT INTO submission_status_history (
			id, submission_id, from_status, to_status, changed_by, notes
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err := tx.QueryRow(ctx, query,
		history.ID,
		history.SubmissionID,
		history.FromStatus,
		history.ToStatus,
		history.ChangedBy,
		history.Notes,
	).Scan(&history.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create status history: %w", translatePgError(err))
	}

	return nil
}

func (r *postgresSubmissionRepository) ListStatusHistory(ctx context.Context, submissionID uuid.UUID) ([]model.StatusHistory, error) {
	query := `
		SELECT id, submission_id, from_status, to_status, changed_by, notes, created_at
		FROM submission_status_history
		WHERE submission_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, submissionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list status history: %w", err)
	}
	defer rows.Close()

	entries := make([]model.StatusHistory, 0)
	for rows.Next() {
		var h model.StatusHistory
		err := rows.Scan(&h.ID, &h.SubmissionID, &h.FromStatus, &h.ToStatus, &h.ChangedBy, &h.Notes, &h.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan status history: %w", err)
		}
		entries = append(entries, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate status history: %w", err)
	}

	return entries, nil
}
