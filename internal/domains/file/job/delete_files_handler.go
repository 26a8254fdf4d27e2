package job

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	submissionModel "journal-backend/internal/domains/submission/model"
	"journal-backend/internal/infrastructure/storage"
	"journal-backend/internal/shared/utils"
	"journal-backend/pkg/logger"
)

// DeleteFilesHandler removes every stored object of a deleted draft.
// The database rows are already gone via cascade; this only cleans the
// object store.
type DeleteFilesHandler struct {
	storage storage.FileStorage
}

func NewDeleteFilesHandler(fileStorage storage.FileStorage) *DeleteFilesHandler {
	return &DeleteFilesHandler{
		storage: fileStorage,
	}
}

func (h *DeleteFilesHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload submissionModel.DeleteFilesPayload
	if err := utils.UnmarshalTask(task, &payload); err != nil {
		logger.Error("DeleteFiles: Failed to unmarshal payload", err)
		return err
	}

	prefix := fmt.Sprintf("submissions/%s/", payload.SubmissionID)
	if err := h.storage.DeleteByPrefix(ctx, prefix); err != nil {
		logger.Error("DeleteFiles: Failed to delete objects", err)
		return fmt.Errorf("delete objects with prefix %s: %w", prefix, err)
	}

	logger.Info("Submission files removed", map[string]interface{}{
		"submission_id": payload.SubmissionID.String(),
		"prefix":        prefix,
	})

	return nil
}
