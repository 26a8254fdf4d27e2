package job

import (
	"context"
	"fmt"
	"strings"

	"github.com/hibiken/asynq"

	"journal-backend/internal/domains/submission/model"
	"journal-backend/internal/domains/submission/repository"
	"journal-backend/internal/infrastructure/storage"
	"journal-backend/internal/shared/utils"
	"journal-backend/pkg/logger"
)

// BuildPDFHandler assembles the review copy of a manuscript and stores
// it next to the uploaded files. The review copy is a cover sheet with
// the metadata the editorial office works from; the uploaded source
// files stay untouched.
type BuildPDFHandler struct {
	submissionRepo repository.SubmissionRepository
	storage        storage.FileStorage
}

func NewBuildPDFHandler(
	submissionRepo repository.SubmissionRepository,
	fileStorage storage.FileStorage,
) *BuildPDFHandler {
	return &BuildPDFHandler{
		submissionRepo: submissionRepo,
		storage:        fileStorage,
	}
}

func (h *BuildPDFHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload model.BuildPDFPayload
	if err := utils.UnmarshalTask(task, &payload); err != nil {
		logger.Error("BuildPDF: Failed to unmarshal payload", err)
		return err
	}

	submission, err := h.submissionRepo.GetSubmissionByID(ctx, payload.SubmissionID)
	if err != nil {
		logger.Error("BuildPDF: Submission not found", err)
		return fmt.Errorf("load submission: %w", err)
	}

	authors, err := h.submissionRepo.ListAuthors(ctx, payload.SubmissionID)
	if err != nil {
		return fmt.Errorf("load authors: %w", err)
	}

	sheet := buildCoverSheet(submission, authors)
	key := fmt.Sprintf("submissions/%s/review-copy.txt", submission.ID)
	if err := h.storage.Upload(ctx, key, []byte(sheet), "text/plain; charset=utf-8"); err != nil {
		logger.Error("BuildPDF: Failed to upload review copy", err)
		return fmt.Errorf("upload review copy: %w", err)
	}

	logger.Info("Review copy built", map[string]interface{}{
		"submission_id": submission.ID.String(),
		"object_key":    key,
	})

	return nil
}

func buildCoverSheet(s *model.Submission, authors []model.Author) string {
	var b strings.Builder

	manuscriptID := "(unassigned)"
	if s.ManuscriptID != nil {
		manuscriptID = *s.ManuscriptID
	}

	fmt.Fprintf(&b, "Manuscript: %s\n", manuscriptID)
	fmt.Fprintf(&b, "Title: %s\n", s.Title)
	fmt.Fprintf(&b, "Article type: %s\n", s.ArticleType)
	fmt.Fprintf(&b, "Revision: %d\n\n", s.RevisionNumber)

	b.WriteString("Authors:\n")
	for _, a := range authors {
		marker := ""
		if a.IsCorresponding {
			marker = " (corresponding)"
		}
		fmt.Fprintf(&b, "  %d. %s <%s>, %s%s\n", a.Position, a.FullName(), a.Email, a.Institution, marker)
	}

	fmt.Fprintf(&b, "\nKeywords: %s\n\n", strings.Join(s.Keywords, ", "))
	fmt.Fprintf(&b, "Abstract:\n%s\n", s.Abstract)

	return b.String()
}
