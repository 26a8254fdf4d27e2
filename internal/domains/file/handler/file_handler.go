package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"journal-backend/internal/domains/file/model"
	"journal-backend/internal/domains/file/service"
	"journal-backend/internal/shared"
	"journal-backend/internal/shared/response"
	submissionModel "journal-backend/internal/domains/submission/model"
)

// =====================================================
// FILE HANDLER
// =====================================================
type FileHandler struct {
	fileService service.FileService
}

func NewFileHandler(fileService service.FileService) *FileHandler {
	return &FileHandler{
		fileService: fileService,
	}
}

// RegisterRoutes mounts the file endpoints under the submissions
// resource. The group must already carry the auth middleware.
func (h *FileHandler) RegisterRoutes(router *gin.RouterGroup) {
	files := router.Group("/submissions/:id/files")
	{
		files.POST("", h.Upload)
		files.GET("", h.List)
		files.GET("/:fileId/download", h.Download)
		files.DELETE("/:fileId", h.Delete)
	}
}

// Upload accepts a multipart form with a "file" part and a "file_type"
// field.
func (h *FileHandler) Upload(c *gin.Context) {
	submissionID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "Missing file upload")
		return
	}
	fileType := c.PostForm("file_type")
	if fileType == "" {
		fileType = model.FileTypeOther
	}

	if fileHeader.Size > model.MaxFileSize {
		response.UnprocessableEntity(c, "file exceeds the 50 MB limit")
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "Unreadable file upload")
		return
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, model.MaxFileSize+1))
	if err != nil {
		response.InternalServerError(c, "Failed to read upload")
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	file, err := h.fileService.UploadFile(c.Request.Context(), actorFromContext(c),
		submissionID, fileType, fileHeader.Filename, contentType, data)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, file)
}

func (h *FileHandler) List(c *gin.Context) {
	submissionID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	files, err := h.fileService.ListFiles(c.Request.Context(), actorFromContext(c), submissionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, files)
}

func (h *FileHandler) Download(c *gin.Context) {
	submissionID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	fileID, ok := h.pathID(c, "fileId")
	if !ok {
		return
	}

	url, err := h.fileService.DownloadURL(c.Request.Context(), actorFromContext(c), submissionID, fileID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"url": url})
}

func (h *FileHandler) Delete(c *gin.Context) {
	submissionID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	fileID, ok := h.pathID(c, "fileId")
	if !ok {
		return
	}

	if err := h.fileService.DeleteFile(c.Request.Context(), actorFromContext(c), submissionID, fileID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// =====================================================
// HELPERS
// =====================================================

func (h *FileHandler) pathID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		response.BadRequest(c, "Invalid "+param+" parameter")
		return uuid.Nil, false
	}
	return id, true
}

func actorFromContext(c *gin.Context) shared.Actor {
	actor := shared.Actor{
		Email: c.GetString("email"),
		Role:  c.GetString("role"),
	}
	if userID, exists := c.Get("user_id"); exists {
		if id, ok := userID.(uuid.UUID); ok {
			actor.ID = id
		}
	}
	return actor
}

func (h *FileHandler) handleServiceError(c *gin.Context, err error) {
	var fileErr *model.FileError
	if errors.As(err, &fileErr) {
		status := http.StatusInternalServerError
		switch fileErr.Code {
		case model.ErrCodeFileNotFound, submissionModel.ErrCodeSubmissionNotFound:
			status = http.StatusNotFound
		case model.ErrCodeValidation:
			status = http.StatusUnprocessableEntity
		case model.ErrCodeNotEditable:
			status = http.StatusConflict
		case model.ErrCodePermissionDenied:
			status = http.StatusForbidden
		}
		response.ErrorResponse(c, status, fileErr.Code, fileErr.Message)
		return
	}

	response.InternalServerError(c, "Internal server error")
}
