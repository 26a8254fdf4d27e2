package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"journal-backend/internal/domains/file/model"
	submissionModel "journal-backend/internal/domains/submission/model"
	"journal-backend/internal/shared"
)

// =====================================================
// TEST DOUBLES
// =====================================================

type fakeFileRepo struct {
	files []model.ManuscriptFile
}

func (r *fakeFileRepo) CreateFile(ctx context.Context, file *model.ManuscriptFile) error {
	r.files = append(r.files, *file)
	return nil
}

func (r *fakeFileRepo) GetFile(ctx context.Context, submissionID, fileID uuid.UUID) (*model.ManuscriptFile, error) {
	for i := range r.files {
		if r.files[i].ID == fileID && r.files[i].SubmissionID == submissionID {
			clone := r.files[i]
			return &clone, nil
		}
	}
	return nil, model.ErrFileNotFound
}

func (r *fakeFileRepo) ListBySubmission(ctx context.Context, submissionID uuid.UUID, activeOnly bool) ([]model.ManuscriptFile, error) {
	out := make([]model.ManuscriptFile, 0, len(r.files))
	for _, f := range r.files {
		if f.SubmissionID != submissionID {
			continue
		}
		if activeOnly && !f.IsActive {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

func (r *fakeFileRepo) SoftDeleteFile(ctx context.Context, submissionID, fileID uuid.UUID) error {
	for i := range r.files {
		if r.files[i].ID == fileID && r.files[i].SubmissionID == submissionID && r.files[i].IsActive {
			r.files[i].IsActive = false
			return nil
		}
	}
	return model.ErrFileNotFound
}

func (r *fakeFileRepo) CountActiveBySubmissionWithTx(ctx context.Context, tx pgx.Tx, submissionID uuid.UUID) (int, error) {
	n := 0
	for _, f := range r.files {
		if f.SubmissionID == submissionID && f.IsActive {
			n++
		}
	}
	return n, nil
}

type fakeSubmissionReader struct {
	submission *submissionModel.Submission
}

func (r *fakeSubmissionReader) GetSubmissionByID(ctx context.Context, submissionID uuid.UUID) (*submissionModel.Submission, error) {
	if r.submission == nil || r.submission.ID != submissionID {
		return nil, submissionModel.ErrSubmissionNotFound
	}
	clone := *r.submission
	return &clone, nil
}

type fakeStorage struct {
	objects   map[string][]byte
	uploadErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (s *fakeStorage) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	if s.uploadErr != nil {
		return s.uploadErr
	}
	s.objects[key] = data
	return nil
}

func (s *fakeStorage) Download(ctx context.Context, key string) ([]byte, error) {
	data, ok := s.objects[key]
	if !ok {
		return nil, fmt.Errorf("no object at %s", key)
	}
	return data, nil
}

func (s *fakeStorage) Delete(ctx context.Context, key string) error {
	delete(s.objects, key)
	return nil
}

func (s *fakeStorage) DeleteByPrefix(ctx context.Context, prefix string) error {
	for key := range s.objects {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			delete(s.objects, key)
		}
	}
	return nil
}

func (s *fakeStorage) PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return "https://storage.local/" + key + "?signed=1", nil
}

// =====================================================
// FIXTURES
// =====================================================

func draftSubmission(submitterID uuid.UUID) *submissionModel.Submission {
	return &submissionModel.Submission{
		ID:          uuid.New(),
		SubmitterID: submitterID,
		Status:      submissionModel.StatusDraft,
		Title:       "Sediment transport under mixed wave regimes",
	}
}

func asFileError(t *testing.T, err error) *model.FileError {
	t.Helper()
	var fe *model.FileError
	require.ErrorAs(t, err, &fe)
	return fe
}

// =====================================================
// UPLOAD
// =====================================================

func TestUploadFile(t *testing.T) {
	owner := shared.Actor{ID: uuid.New(), Role: shared.RoleAuthor}

	t.Run("happy path", func(t *testing.T) {
		sub := draftSubmission(owner.ID)
		sub.RevisionNumber = 2
		repo := &fakeFileRepo{}
		store := newFakeStorage()
		svc := NewFileService(repo, &fakeSubmissionReader{submission: sub}, store)

		data := []byte("%PDF-1.7 test document")
		file, err := svc.UploadFile(context.Background(), owner, sub.ID,
			model.FileTypeMainText, "Manuscript.PDF", "application/pdf", data)
		require.NoError(t, err)

		assert.Equal(t, model.FileTypeMainText, file.FileType)
		assert.Equal(t, "Manuscript.PDF", file.OriginalFilename)
		assert.Equal(t, int64(len(data)), file.SizeBytes)
		assert.Equal(t, 2, file.RevisionNumber)
		assert.True(t, file.IsActive)

		sum := sha256.Sum256(data)
		assert.Equal(t, hex.EncodeToString(sum[:]), file.Checksum)

		// The object lands under the submission prefix with a lowercased
		// extension, and the row follows the successful upload.
		wantKey := fmt.Sprintf("submissions/%s/files/%s.pdf", sub.ID, file.ID)
		assert.Equal(t, wantKey, file.StorageKey)
		assert.Equal(t, data, store.objects[wantKey])
		require.Len(t, repo.files, 1)
	})

	t.Run("unknown file type", func(t *testing.T) {
		sub := draftSubmission(owner.ID)
		svc := NewFileService(&fakeFileRepo{}, &fakeSubmissionReader{submission: sub}, newFakeStorage())

		_, err := svc.UploadFile(context.Background(), owner, sub.ID,
			"appendix", "notes.pdf", "application/pdf", []byte("x"))
		fe := asFileError(t, err)
		assert.Equal(t, model.ErrCodeValidation, fe.Code)
		require.ErrorIs(t, err, model.ErrUnknownFileType)
	})

	t.Run("extension not on the whitelist", func(t *testing.T) {
		sub := draftSubmission(owner.ID)
		svc := NewFileService(&fakeFileRepo{}, &fakeSubmissionReader{submission: sub}, newFakeStorage())

		_, err := svc.UploadFile(context.Background(), owner, sub.ID,
			model.FileTypeOther, "script.exe", "application/octet-stream", []byte("x"))
		fe := asFileError(t, err)
		assert.Equal(t, model.ErrCodeValidation, fe.Code)
		require.ErrorIs(t, err, model.ErrExtensionDenied)
	})

	t.Run("empty file", func(t *testing.T) {
		sub := draftSubmission(owner.ID)
		svc := NewFileService(&fakeFileRepo{}, &fakeSubmissionReader{submission: sub}, newFakeStorage())

		_, err := svc.UploadFile(context.Background(), owner, sub.ID,
			model.FileTypeOther, "empty.pdf", "application/pdf", nil)
		fe := asFileError(t, err)
		assert.Equal(t, model.ErrCodeValidation, fe.Code)
	})

	t.Run("submission locked after submit", func(t *testing.T) {
		sub := draftSubmission(owner.ID)
		sub.Status = submissionModel.StatusUnderReview
		repo := &fakeFileRepo{}
		store := newFakeStorage()
		svc := NewFileService(repo, &fakeSubmissionReader{submission: sub}, store)

		_, err := svc.UploadFile(context.Background(), owner, sub.ID,
			model.FileTypeMainText, "manuscript.pdf", "application/pdf", []byte("x"))
		fe := asFileError(t, err)
		assert.Equal(t, model.ErrCodeNotEditable, fe.Code)
		assert.Empty(t, repo.files)
		assert.Empty(t, store.objects)
	})

	t.Run("stranger is denied", func(t *testing.T) {
		sub := draftSubmission(owner.ID)
		svc := NewFileService(&fakeFileRepo{}, &fakeSubmissionReader{submission: sub}, newFakeStorage())

		_, err := svc.UploadFile(context.Background(), shared.Actor{ID: uuid.New(), Role: shared.RoleAuthor},
			sub.ID, model.FileTypeMainText, "manuscript.pdf", "application/pdf", []byte("x"))
		fe := asFileError(t, err)
		assert.Equal(t, model.ErrCodePermissionDenied, fe.Code)
	})

	t.Run("storage failure surfaces and leaves no row", func(t *testing.T) {
		sub := draftSubmission(owner.ID)
		repo := &fakeFileRepo{}
		store := newFakeStorage()
		store.uploadErr = fmt.Errorf("connection refused")
		svc := NewFileService(repo, &fakeSubmissionReader{submission: sub}, store)

		_, err := svc.UploadFile(context.Background(), owner, sub.ID,
			model.FileTypeMainText, "manuscript.pdf", "application/pdf", []byte("x"))
		fe := asFileError(t, err)
		assert.Equal(t, model.ErrCodeStorage, fe.Code)
		assert.Empty(t, repo.files)
	})
}

func TestIsAllowedExtension(t *testing.T) {
	allowed := []string{"paper.pdf", "paper.DOCX", "figure.TIF", "data.xlsx"}
	for _, name := range allowed {
		assert.Truef(t, model.IsAllowedExtension(name), "name=%s", name)
	}

	denied := []string{"paper", "run.sh", "archive.zip", "paper.pdf.exe"}
	for _, name := range denied {
		assert.Falsef(t, model.IsAllowedExtension(name), "name=%s", name)
	}
}

// =====================================================
// LIST, DELETE, DOWNLOAD
// =====================================================

func TestListFiles_ActiveOnly(t *testing.T) {
	owner := shared.Actor{ID: uuid.New(), Role: shared.RoleAuthor}
	sub := draftSubmission(owner.ID)
	repo := &fakeFileRepo{files: []model.ManuscriptFile{
		{ID: uuid.New(), SubmissionID: sub.ID, IsActive: true},
		{ID: uuid.New(), SubmissionID: sub.ID, IsActive: false},
	}}
	svc := NewFileService(repo, &fakeSubmissionReader{submission: sub}, newFakeStorage())

	files, err := svc.ListFiles(context.Background(), owner, sub.ID)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.True(t, files[0].IsActive)
}

func TestDeleteFile(t *testing.T) {
	owner := shared.Actor{ID: uuid.New(), Role: shared.RoleAuthor}

	t.Run("soft deletes", func(t *testing.T) {
		sub := draftSubmission(owner.ID)
		fileID := uuid.New()
		repo := &fakeFileRepo{files: []model.ManuscriptFile{
			{ID: fileID, SubmissionID: sub.ID, IsActive: true},
		}}
		svc := NewFileService(repo, &fakeSubmissionReader{submission: sub}, newFakeStorage())

		require.NoError(t, svc.DeleteFile(context.Background(), owner, sub.ID, fileID))
		// The row survives for the audit trail, just inactive.
		require.Len(t, repo.files, 1)
		assert.False(t, repo.files[0].IsActive)
	})

	t.Run("missing file", func(t *testing.T) {
		sub := draftSubmission(owner.ID)
		svc := NewFileService(&fakeFileRepo{}, &fakeSubmissionReader{submission: sub}, newFakeStorage())

		err := svc.DeleteFile(context.Background(), owner, sub.ID, uuid.New())
		fe := asFileError(t, err)
		assert.Equal(t, model.ErrCodeFileNotFound, fe.Code)
	})
}

func TestDownloadURL(t *testing.T) {
	owner := shared.Actor{ID: uuid.New(), Role: shared.RoleAuthor}
	sub := draftSubmission(owner.ID)
	fileID := uuid.New()
	repo := &fakeFileRepo{files: []model.ManuscriptFile{
		{ID: fileID, SubmissionID: sub.ID, StorageKey: "submissions/abc/files/f.pdf", IsActive: true},
	}}
	svc := NewFileService(repo, &fakeSubmissionReader{submission: sub}, newFakeStorage())

	url, err := svc.DownloadURL(context.Background(), owner, sub.ID, fileID)
	require.NoError(t, err)
	assert.Equal(t, "https://storage.local/submissions/abc/files/f.pdf?signed=1", url)

	t.Run("editor may download", func(t *testing.T) {
		_, err := svc.DownloadURL(context.Background(),
			shared.Actor{ID: uuid.New(), Role: shared.RoleEditor}, sub.ID, fileID)
		require.NoError(t, err)
	})
}
