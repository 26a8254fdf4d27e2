package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"journal-backend/internal/domains/submission/model"
	"journal-backend/internal/domains/submission/service"
	"journal-backend/internal/shared"
	"journal-backend/internal/shared/response"
)

// =====================================================
// SUBMISSION HANDLER
// =====================================================
type SubmissionHandler struct {
	submissionService service.SubmissionService
}

func NewSubmissionHandler(submissionService service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{
		submissionService: submissionService,
	}
}

// RegisterRoutes mounts the author-facing endpoints. The group must
// already carry the auth middleware.
func (h *SubmissionHandler) RegisterRoutes(router *gin.RouterGroup) {
	submissions := router.Group("/submissions")
	{
		submissions.POST("", h.CreateDraft)
		submissions.GET("", h.ListSubmissions)
		submissions.GET("/:id", h.GetSubmission)
		submissions.PATCH("/:id", h.UpdateDraft)
		submissions.DELETE("/:id", h.DeleteDraft)

		submissions.POST("/:id/validate", h.Validate)
		submissions.POST("/:id/submit", h.Submit)
		submissions.POST("/:id/submit-revision", h.SubmitRevision)
		submissions.POST("/:id/withdraw", h.Withdraw)

		submissions.GET("/:id/history", h.GetStatusHistory)
		submissions.POST("/:id/build-pdf", h.BuildPDF)

		submissions.POST("/:id/authors", h.AddAuthor)
		submissions.GET("/:id/authors", h.ListAuthors)
		submissions.PATCH("/:id/authors/:authorId", h.UpdateAuthor)
		submissions.DELETE("/:id/authors/:authorId", h.RemoveAuthor)
	}
}

// RegisterEditorRoutes mounts the editorial endpoints. The group must
// carry both the auth and the editor-role middleware.
func (h *SubmissionHandler) RegisterEditorRoutes(router *gin.RouterGroup) {
	submissions := router.Group("/submissions")
	{
		submissions.GET("", h.ListEditorialQueue)
		submissions.POST("/:id/start-review", h.StartReview)
		submissions.POST("/:id/request-revision", h.RequestRevision)
		submissions.POST("/:id/accept", h.Accept)
		submissions.POST("/:id/reject", h.Reject)
		submissions.POST("/:id/publish", h.Publish)
	}
}

// =====================================================
// DRAFT LIFECYCLE
// =====================================================

func (h *SubmissionHandler) CreateDraft(c *gin.Context) {
	var req model.CreateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.submissionService.CreateDraft(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, result)
}

func (h *SubmissionHandler) GetSubmission(c *gin.Context) {
	submissionID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	result, err := h.submissionService.GetSubmission(c.Request.Context(), actorFromContext(c), submissionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

func (h *SubmissionHandler) UpdateDraft(c *gin.Context) {
	submissionID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.submissionService.UpdateDraft(c.Request.Context(), actorFromContext(c), submissionID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

func (h *SubmissionHandler) DeleteDraft(c *gin.Context) {
	submissionID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.submissionService.DeleteDraft(c.Request.Context(), actorFromContext(c), submissionID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *SubmissionHandler) ListSubmissions(c *gin.Context) {
	var req model.ListSubmissionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	items, total, err := h.submissionService.ListSubmissions(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	req.Normalize()
	response.SuccessWithMeta(c, http.StatusOK, items, &response.Meta{
		Page:  req.Page,
		Limit: req.Limit,
		Total: total,
	})
}

func (h *SubmissionHandler) ListEditorialQueue(c *gin.Context) {
	var req model.ListSubmissionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	items, total, err := h.submissionService.ListEditorialQueue(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	req.Normalize()
	response.SuccessWithMeta(c, http.StatusOK, items, &response.Meta{
		Page:  req.Page,
		Limit: req.Limit,
		Total: total,
	})
}

// =====================================================
// TRANSITIONS
// =====================================================

// Validate runs the submit checks without submitting, so the wizard
// can show what is still missing.
func (h *SubmissionHandler) Validate(c *gin.Context) {
	submissionID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.submissionService.ValidateSubmission(c.Request.Context(), actorFromContext(c), submissionID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"complete": true})
}

func (h *SubmissionHandler) Submit(c *gin.Context) {
	var req model.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.UnprocessableEntity(c, err.Error())
		return
	}

	h.transition(c, model.TransitionSubmit, model.TransitionParams{})
}

func (h *SubmissionHandler) SubmitRevision(c *gin.Context) {
	h.transition(c, model.TransitionSubmitRevision, model.TransitionParams{})
}

func (h *SubmissionHandler) Withdraw(c *gin.Context) {
	var req model.WithdrawRequest
	// Body is optional for withdraw.
	_ = c.ShouldBindJSON(&req)
	if err := req.Validate(); err != nil {
		response.UnprocessableEntity(c, err.Error())
		return
	}

	h.transition(c, model.TransitionWithdraw, model.TransitionParams{Notes: req.Reason})
}

func (h *SubmissionHandler) StartReview(c *gin.Context) {
	var req model.StartReviewRequest
	_ = c.ShouldBindJSON(&req)
	if err := req.Validate(); err != nil {
		response.UnprocessableEntity(c, err.Error())
		return
	}

	params := model.TransitionParams{}
	if req.EditorID != "" {
		editorID, err := uuid.Parse(req.EditorID)
		if err != nil {
			response.UnprocessableEntity(c, "editor_id must be a valid UUID")
			return
		}
		params.EditorID = &editorID
	}

	h.transition(c, model.TransitionStartReview, params)
}

func (h *SubmissionHandler) RequestRevision(c *gin.Context) {
	var req model.RequestRevisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.UnprocessableEntity(c, err.Error())
		return
	}

	h.transition(c, model.TransitionRequestRevision, model.TransitionParams{
		Notes:        req.Notes,
		DeadlineDays: req.DeadlineDays,
	})
}

func (h *SubmissionHandler) Accept(c *gin.Context) {
	h.decision(c, model.TransitionAccept)
}

func (h *SubmissionHandler) Reject(c *gin.Context) {
	h.decision(c, model.TransitionReject)
}

func (h *SubmissionHandler) Publish(c *gin.Context) {
	h.transition(c, model.TransitionPublish, model.TransitionParams{})
}

func (h *SubmissionHandler) decision(c *gin.Context, name model.TransitionName) {
	var req model.DecisionRequest
	_ = c.ShouldBindJSON(&req)
	if err := req.Validate(); err != nil {
		response.UnprocessableEntity(c, err.Error())
		return
	}

	h.transition(c, name, model.TransitionParams{Notes: req.Notes})
}

func (h *SubmissionHandler) transition(c *gin.Context, name model.TransitionName, params model.TransitionParams) {
	submissionID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	result, err := h.submissionService.Transition(c.Request.Context(), actorFromContext(c), submissionID, name, params)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// =====================================================
// AUTHOR ROSTER
// =====================================================

func (h *SubmissionHandler) AddAuthor(c *gin.Context) {
	submissionID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var req model.AddAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	author, err := h.submissionService.AddAuthor(c.Request.Context(), actorFromContext(c), submissionID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, author)
}

func (h *SubmissionHandler) ListAuthors(c *gin.Context) {
	submissionID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	authors, err := h.submissionService.ListAuthors(c.Request.Context(), actorFromContext(c), submissionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, authors)
}

func (h *SubmissionHandler) UpdateAuthor(c *gin.Context) {
	submissionID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	authorID, ok := h.pathID(c, "authorId")
	if !ok {
		return
	}

	var req model.UpdateAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	author, err := h.submissionService.UpdateAuthor(c.Request.Context(), actorFromContext(c), submissionID, authorID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, author)
}

func (h *SubmissionHandler) RemoveAuthor(c *gin.Context) {
	submissionID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	authorID, ok := h.pathID(c, "authorId")
	if !ok {
		return
	}

	if err := h.submissionService.RemoveAuthor(c.Request.Context(), actorFromContext(c), submissionID, authorID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// =====================================================
// AUDIT TRAIL AND PDF
// =====================================================

func (h *SubmissionHandler) GetStatusHistory(c *gin.Context) {
	submissionID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	history, err := h.submissionService.GetStatusHistory(c.Request.Context(), actorFromContext(c), submissionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, history)
}

func (h *SubmissionHandler) BuildPDF(c *gin.Context) {
	submissionID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.submissionService.EnqueuePDFBuild(c.Request.Context(), actorFromContext(c), submissionID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusAccepted, gin.H{"queued": true})
}

// =====================================================
// HELPERS
// =====================================================

func (h *SubmissionHandler) pathID(c *gin.Context, param string) (uuid.UUID, bool) {
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

func (h *SubmissionHandler) handleServiceError(c *gin.Context, err error) {
	var submissionErr *model.SubmissionError
	if errors.As(err, &submissionErr) {
		status := http.StatusInternalServerError
		switch submissionErr.Code {
		case model.ErrCodeSubmissionNotFound, model.ErrCodeAuthorNotFound:
			status = http.StatusNotFound
		case model.ErrCodeInvalidTransition, model.ErrCodeConcurrencyConflict:
			status = http.StatusConflict
		case model.ErrCodeValidation:
			status = http.StatusUnprocessableEntity
		case model.ErrCodePermissionDenied:
			status = http.StatusForbidden
		case model.ErrCodeIdentityGeneration:
			status = http.StatusServiceUnavailable
		}
		response.ErrorResponse(c, status, submissionErr.Code, submissionErr.Message)
		return
	}

	response.InternalServerError(c, "Internal server error")
}
