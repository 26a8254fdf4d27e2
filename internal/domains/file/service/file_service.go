package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"journal-backend/internal/domains/file/model"
	"journal-backend/internal/domains/file/repository"
	submissionModel "journal-backend/internal/domains/submission/model"
	"journal-backend/internal/infrastructure/storage"
	"journal-backend/internal/shared"
	"journal-backend/pkg/logger"
)

// downloadURLExpiry is how long a presigned download link stays valid.
const downloadURLExpiry = 15 * time.Minute

// SubmissionReader is the slice of the submission repository the file
// domain needs for ownership and editability checks.
type SubmissionReader interface {
	GetSubmissionByID(ctx context.Context, submissionID uuid.UUID) (*submissionModel.Submission, error)
}

// =====================================================
// FILE SERVICE INTERFACE
// =====================================================
type FileService interface {
	UploadFile(ctx context.Context, actor shared.Actor, submissionID uuid.UUID, fileType, filename, contentType string, data []byte) (*model.ManuscriptFile, error)
	ListFiles(ctx context.Context, actor shared.Actor, submissionID uuid.UUID) ([]model.ManuscriptFile, error)
	DeleteFile(ctx context.Context, actor shared.Actor, submissionID, fileID uuid.UUID) error
	DownloadURL(ctx context.Context, actor shared.Actor, submissionID, fileID uuid.UUID) (string, error)
}

// =====================================================
// FILE SERVICE IMPLEMENTATION
// =====================================================
type fileService struct {
	fileRepo         repository.FileRepository
	submissionReader SubmissionReader
	storage          storage.FileStorage
}

func NewFileService(
	fileRepo repository.FileRepository,
	submissionReader SubmissionReader,
	fileStorage storage.FileStorage,
) FileService {
	return &fileService{
		fileRepo:         fileRepo,
		submissionReader: submissionReader,
		storage:          fileStorage,
	}
}

func (s *fileService) UploadFile(ctx context.Context, actor shared.Actor, submissionID uuid.UUID, fileType, filename, contentType string, data []byte) (*model.ManuscriptFile, error) {
	// 1. Validate upload metadata
	if !validFileType(fileType) {
		return nil, model.NewValidationError(fmt.Sprintf("unknown file type %q", fileType), model.ErrUnknownFileType)
	}
	if !model.IsAllowedExtension(filename) {
		return nil, model.NewValidationError(
			fmt.Sprintf("file extension %q is not allowed", filepath.Ext(filename)), model.ErrExtensionDenied)
	}
	if len(data) == 0 {
		return nil, model.NewValidationError("file is empty", nil)
	}
	if len(data) > model.MaxFileSize {
		return nil, model.NewValidationError("file exceeds the 50 MB limit", model.ErrFileTooLarge)
	}

	// 2. Authorize against the owning submission
	submission, err := s.editableSubmission(ctx, actor, submissionID)
	if err != nil {
		return nil, err
	}

	// 3. Store the object first; an orphaned object is cheaper than a
	// row pointing at nothing.
	checksum := sha256.Sum256(data)
	file := &model.ManuscriptFile{
		ID:               uuid.New(),
		SubmissionID:     submissionID,
		UploadedBy:       actor.ID,
		FileType:         fileType,
		OriginalFilename: filename,
		ContentType:      contentType,
		SizeBytes:        int64(len(data)),
		Checksum:         hex.EncodeToString(checksum[:]),
		RevisionNumber:   submission.RevisionNumber,
		IsActive:         true,
	}
	file.StorageKey = fmt.Sprintf("submissions/%s/files/%s%s",
		submissionID, file.ID, strings.ToLower(filepath.Ext(filename)))

	if err := s.storage.Upload(ctx, file.StorageKey, data, contentType); err != nil {
		return nil, model.NewStorageError("failed to store file", err)
	}

	// 4. Record it
	if err := s.fileRepo.CreateFile(ctx, file); err != nil {
		return nil, fmt.Errorf("create file record: %w", err)
	}

	logger.Info("File uploaded", map[string]interface{}{
		"submission_id": submissionID.String(),
		"file_id":       file.ID.String(),
		"file_type":     fileType,
		"size_bytes":    file.SizeBytes,
	})

	return file, nil
}

func (s *fileService) ListFiles(ctx context.Context, actor shared.Actor, submissionID uuid.UUID) ([]model.ManuscriptFile, error) {
	if _, err := s.viewableSubmission(ctx, actor, submissionID); err != nil {
		return nil, err
	}

	files, err := s.fileRepo.ListBySubmission(ctx, submissionID, true)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}

	return files, nil
}

func (s *fileService) DeleteFile(ctx context.Context, actor shared.Actor, submissionID, fileID uuid.UUID) error {
	if _, err := s.editableSubmission(ctx, actor, submissionID); err != nil {
		return err
	}

	// Soft delete keeps the row and the object for the audit trail.
	if err := s.fileRepo.SoftDeleteFile(ctx, submissionID, fileID); err != nil {
		if errors.Is(err, model.ErrFileNotFound) {
			return model.NewFileNotFoundError(err)
		}
		return fmt.Errorf("delete file: %w", err)
	}

	return nil
}

func (s *fileService) DownloadURL(ctx context.Context, actor shared.Actor, submissionID, fileID uuid.UUID) (string, error) {
	if _, err := s.viewableSubmission(ctx, actor, submissionID); err != nil {
		return "", err
	}

	file, err := s.fileRepo.GetFile(ctx, submissionID, fileID)
	if err != nil {
		if errors.Is(err, model.ErrFileNotFound) {
			return "", model.NewFileNotFoundError(err)
		}
		return "", fmt.Errorf("get file: %w", err)
	}

	url, err := s.storage.PresignedURL(ctx, file.StorageKey, downloadURLExpiry)
	if err != nil {
		return "", model.NewStorageError("failed to presign download", err)
	}

	return url, nil
}

// =====================================================
// HELPERS
// =====================================================

func (s *fileService) viewableSubmission(ctx context.Context, actor shared.Actor, submissionID uuid.UUID) (*submissionModel.Submission, error) {
	submission, err := s.submissionReader.GetSubmissionByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, submissionModel.ErrSubmissionNotFound) {
			return nil, model.NewFileError(submissionModel.ErrCodeSubmissionNotFound, "submission not found", err)
		}
		return nil, fmt.Errorf("get submission: %w", err)
	}
	if submission.SubmitterID != actor.ID && !actor.IsEditor() {
		return nil, model.NewPermissionDeniedError("not allowed to view this submission's files")
	}
	return submission, nil
}

func (s *fileService) editableSubmission(ctx context.Context, actor shared.Actor, submissionID uuid.UUID) (*submissionModel.Submission, error) {
	submission, err := s.viewableSubmission(ctx, actor, submissionID)
	if err != nil {
		return nil, err
	}
	if submission.SubmitterID != actor.ID && !actor.IsAdmin() {
		return nil, model.NewPermissionDeniedError("only the submitter can change files")
	}
	if !submission.IsEditable() {
		return nil, model.NewNotEditableError(
			fmt.Sprintf("files cannot be changed while the submission is %q", submission.Status))
	}
	return submission, nil
}

func validFileType(fileType string) bool {
	for _, t := range model.AllFileTypes {
		if t == fileType {
			return true
		}
	}
	return false
}
