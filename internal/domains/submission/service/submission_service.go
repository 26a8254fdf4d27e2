package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5"

	"journal-backend/internal/config"
	"journal-backend/internal/domains/submission/model"
	"journal-backend/internal/domains/submission/repository"
	"journal-backend/internal/shared"
	"journal-backend/pkg/logger"
)

// maxManuscriptIDAttempts bounds the retry loop around manuscript id
// allocation when two first-time submits race on the same sequence.
const maxManuscriptIDAttempts = 5

// =====================================================
// SUBMISSION SERVICE IMPLEMENTATION
// =====================================================
type submissionService struct {
	submissionRepo repository.SubmissionRepository
	fileCounter    FileCounter
	asynq          shared.TaskEnqueuer
	cfg            config.SubmissionConfig
	now            func() time.Time
}

// NewSubmissionService creates a new submission service.
func NewSubmissionService(
	submissionRepo repository.SubmissionRepository,
	fileCounter FileCounter,
	asynqClient shared.TaskEnqueuer,
	cfg config.SubmissionConfig,
) SubmissionService {
	return &submissionService{
		submissionRepo: submissionRepo,
		fileCounter:    fileCounter,
		asynq:          asynqClient,
		cfg:            cfg,
		now:            time.Now,
	}
}

// =====================================================
// DRAFT LIFECYCLE
// =====================================================

func (s *submissionService) CreateDraft(ctx context.Context, actor shared.Actor, req model.CreateSubmissionRequest) (*model.SubmissionResponse, error) {
	// 1. Validate request
	if err := req.Validate(); err != nil {
		return nil, model.NewValidationError("invalid submission data", err)
	}

	// 2. Build the draft entity
	language := req.Language
	if language == "" {
		language = "en"
	}
	submission := &model.Submission{
		ID:          uuid.New(),
		SubmitterID: actor.ID,
		Status:      model.StatusDraft,
		Title:       req.Title,
		Abstract:    req.Abstract,
		Keywords:    req.Keywords,
		ArticleType: req.ArticleType,
		Language:    language,
		WizardStep:  1,
	}

	// 3. Persist
	if err := s.submissionRepo.CreateSubmission(ctx, submission); err != nil {
		return nil, fmt.Errorf("create draft: %w", err)
	}

	logger.Info("Draft created", map[string]interface{}{
		"submission_id": submission.ID.String(),
		"submitter_id":  actor.ID.String(),
	})

	return model.NewSubmissionResponse(submission, nil), nil
}

func (s *submissionService) GetSubmission(ctx context.Context, actor shared.Actor, submissionID uuid.UUID) (*model.SubmissionResponse, error) {
	submission, err := s.getAuthorized(ctx, actor, submissionID)
	if err != nil {
		return nil, err
	}

	authors, err := s.submissionRepo.ListAuthors(ctx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}

	return model.NewSubmissionResponse(submission, authors), nil
}

func (s *submissionService) UpdateDraft(ctx context.Context, actor shared.Actor, submissionID uuid.UUID, req model.UpdateSubmissionRequest) (*model.SubmissionResponse, error) {
	// 1. Validate request
	if err := req.Validate(); err != nil {
		return nil, model.NewValidationError("invalid submission data", err)
	}

	// 2. Load and authorize
	submission, err := s.getAuthorized(ctx, actor, submissionID)
	if err != nil {
		return nil, err
	}
	if submission.SubmitterID != actor.ID && !actor.IsAdmin() {
		return nil, model.NewPermissionDeniedError("only the submitter can edit a submission")
	}

	// 3. Editability guard
	if !submission.IsEditable() {
		return nil, model.NewInvalidTransitionError(
			fmt.Sprintf("submission in status %q cannot be edited", submission.Status))
	}

	// 4. Apply the patch
	applyDraftPatch(submission, &req)

	// 5. Persist content fields
	if err := s.submissionRepo.UpdateDraftContent(ctx, submission); err != nil {
		if errors.Is(err, model.ErrSubmissionNotFound) {
			return nil, model.NewNotFoundError(err)
		}
		return nil, fmt.Errorf("update draft: %w", err)
	}

	authors, err := s.submissionRepo.ListAuthors(ctx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}

	return model.NewSubmissionResponse(submission, authors), nil
}

func applyDraftPatch(s *model.Submission, req *model.UpdateSubmissionRequest) {
	if req.Title != nil {
		s.Title = *req.Title
	}
	if req.TitleEn != nil {
		s.TitleEn = req.TitleEn
	}
	if req.Abstract != nil {
		s.Abstract = *req.Abstract
	}
	if req.AbstractEn != nil {
		s.AbstractEn = req.AbstractEn
	}
	if req.Keywords != nil {
		s.Keywords = *req.Keywords
	}
	if req.KeywordsEn != nil {
		s.KeywordsEn = *req.KeywordsEn
	}
	if req.ArticleType != nil {
		s.ArticleType = *req.ArticleType
	}
	if req.Language != nil {
		s.Language = *req.Language
	}
	if req.CoverLetter != nil {
		s.CoverLetter = req.CoverLetter
	}
	if req.EthicsStatement != nil {
		s.EthicsStatement = req.EthicsStatement
	}
	if req.EthicsApprovalNumber != nil {
		s.EthicsApprovalNumber = req.EthicsApprovalNumber
	}
	if req.ConflictOfInterest != nil {
		s.ConflictOfInterest = req.ConflictOfInterest
	}
	if req.FundingStatement != nil {
		s.FundingStatement = req.FundingStatement
	}
	if req.WizardStep != nil {
		s.WizardStep = *req.WizardStep
	}
}

func (s *submissionService) DeleteDraft(ctx context.Context, actor shared.Actor, submissionID uuid.UUID) error {
	// 1. Begin transaction
	tx, err := s.submissionRepo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer s.submissionRepo.RollbackTx(ctx, tx)

	// 2. Lock the row and authorize
	submission, err := s.submissionRepo.GetSubmissionForUpdateWithTx(ctx, tx, submissionID)
	if err != nil {
		return s.wrapLookupError(err)
	}
	if submission.SubmitterID != actor.ID && !actor.IsAdmin() {
		return model.NewPermissionDeniedError("only the submitter can delete a submission")
	}

	// 3. Only drafts are deletable
	if submission.Status != model.StatusDraft {
		return model.NewInvalidTransitionError(
			fmt.Sprintf("submission in status %q cannot be deleted", submission.Status))
	}

	// 4. Delete (authors and history cascade)
	if err := s.submissionRepo.DeleteDraftWithTx(ctx, tx, submissionID); err != nil {
		return s.wrapLookupError(err)
	}

	if err := s.submissionRepo.CommitTx(ctx, tx); err != nil {
		return fmt.Errorf("commit delete: %w", err)
	}

	// 5. Clean up object storage asynchronously
	s.enqueue(shared.TypeDeleteSubmissionFiles, model.DeleteFilesPayload{SubmissionID: submissionID},
		asynq.Queue(shared.QueueLow))

	logger.Info("Draft deleted", map[string]interface{}{
		"submission_id": submissionID.String(),
	})

	return nil
}

// =====================================================
// LISTINGS
// =====================================================

func (s *submissionService) ListSubmissions(ctx context.Context, actor shared.Actor, req model.ListSubmissionsRequest) ([]model.SubmissionListItem, int, error) {
	if err := req.Validate(); err != nil {
		return nil, 0, model.NewValidationError("invalid listing filter", err)
	}
	req.Normalize()

	submissions, total, err := s.submissionRepo.ListBySubmitter(ctx, actor.ID, req.Status, req.Page, req.Limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list submissions: %w", err)
	}

	return toListItems(submissions), total, nil
}

func (s *submissionService) ListEditorialQueue(ctx context.Context, actor shared.Actor, req model.ListSubmissionsRequest) ([]model.SubmissionListItem, int, error) {
	if !actor.IsEditor() {
		return nil, 0, model.NewPermissionDeniedError("editorial queue requires an editor role")
	}
	if err := req.Validate(); err != nil {
		return nil, 0, model.NewValidationError("invalid listing filter", err)
	}
	req.Normalize()

	var (
		submissions []model.Submission
		total       int
		err         error
	)
	if actor.IsAdmin() {
		submissions, total, err = s.submissionRepo.ListAll(ctx, req.Status, req.Page, req.Limit)
	} else {
		submissions, total, err = s.submissionRepo.ListByEditor(ctx, actor.ID, req.Status, req.Page, req.Limit)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("list editorial queue: %w", err)
	}

	return toListItems(submissions), total, nil
}

func toListItems(submissions []model.Submission) []model.SubmissionListItem {
	items := make([]model.SubmissionListItem, 0, len(submissions))
	for i := range submissions {
		items = append(items, model.NewSubmissionListItem(&submissions[i]))
	}
	return items
}

// =====================================================
// TRANSITIONS
// =====================================================

func (s *submissionService) Transition(ctx context.Context, actor shared.Actor, submissionID uuid.UUID, name model.TransitionName, params model.TransitionParams) (*model.SubmissionResponse, error) {
	if _, ok := model.Transitions[name]; !ok {
		return nil, model.NewInvalidTransitionError(fmt.Sprintf("unknown transition %q", name))
	}
	params.ActorID = actor.ID

	// First-time submit mints a manuscript id inside the transaction.
	// A concurrent submit can win the same sequence number, in which
	// case the unique index rejects ours and the whole transaction is
	// retried with a fresh read of the sequence.
	var submission *model.Submission
	var err error
	for attempt := 1; attempt <= maxManuscriptIDAttempts; attempt++ {
		submission, err = s.transitionOnce(ctx, actor, submissionID, name, params)
		if !errors.Is(err, model.ErrManuscriptIDTaken) {
			break
		}
		logger.Warn("Manuscript id collision, retrying", map[string]interface{}{
			"submission_id": submissionID.String(),
			"attempt":       attempt,
		})
	}
	if errors.Is(err, model.ErrManuscriptIDTaken) {
		return nil, model.NewIdentityGenerationError(err)
	}
	if err != nil {
		return nil, err
	}

	// Post-commit notifications. Failures are logged, never surfaced:
	// the state change is already durable.
	s.notifyAfterTransition(ctx, submission, name, params)

	authors, err := s.submissionRepo.ListAuthors(ctx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}

	return model.NewSubmissionResponse(submission, authors), nil
}

func (s *submissionService) transitionOnce(ctx context.Context, actor shared.Actor, submissionID uuid.UUID, name model.TransitionName, params model.TransitionParams) (*model.Submission, error) {
	// 1. Begin transaction
	tx, err := s.submissionRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer s.submissionRepo.RollbackTx(ctx, tx)

	// 2. Lock the row. All checks below run against the locked state,
	// so a transition that raced us is seen before we decide anything.
	submission, err := s.submissionRepo.GetSubmissionForUpdateWithTx(ctx, tx, submissionID)
	if err != nil {
		return nil, s.wrapLookupError(err)
	}

	// 3. Authorize the actor for this transition
	if err := authorizeTransition(actor, submission, name); err != nil {
		return nil, err
	}

	// 4. Source status check
	if !submission.CanTransition(name) {
		return nil, model.NewInvalidTransitionError(
			fmt.Sprintf("cannot %s a submission in status %q", name, submission.Status))
	}

	// 5. Transition-specific guards
	if err := s.checkGuards(ctx, tx, submission, name, &params); err != nil {
		return nil, err
	}

	// 6. Mint the manuscript id on first submit
	now := s.now()
	if name == model.TransitionSubmit && submission.ManuscriptID == nil {
		manuscriptID, err := s.mintManuscriptID(ctx, tx, now)
		if err != nil {
			return nil, err
		}
		submission.ManuscriptID = &manuscriptID
	}

	// 7. Apply the state change on the entity
	fromStatus := submission.Status
	submission.ApplyTransition(name, params, now)

	// 8. Persist the submission
	if err := s.submissionRepo.UpdateSubmissionWithTx(ctx, tx, submission); err != nil {
		if errors.Is(err, model.ErrManuscriptIDTaken) {
			return nil, model.ErrManuscriptIDTaken
		}
		return nil, s.wrapLookupError(err)
	}

	// 9. Append the audit record in the same transaction
	history := &model.StatusHistory{
		ID:           uuid.New(),
		SubmissionID: submission.ID,
		FromStatus:   fromStatus,
		ToStatus:     submission.Status,
		ChangedBy:    &params.ActorID,
	}
	if params.Notes != "" {
		notes := params.Notes
		history.Notes = &notes
	}
	if err := s.submissionRepo.CreateStatusHistoryWithTx(ctx, tx, history); err != nil {
		return nil, fmt.Errorf("create status history: %w", err)
	}

	// 10. Commit
	if err := s.submissionRepo.CommitTx(ctx, tx); err != nil {
		if errors.Is(err, model.ErrConcurrencyConflict) {
			return nil, model.NewConcurrencyError(err)
		}
		return nil, fmt.Errorf("commit transition: %w", err)
	}

	logger.Info("Submission transitioned", map[string]interface{}{
		"submission_id": submission.ID.String(),
		"transition":    string(name),
		"from":          fromStatus,
		"to":            submission.Status,
		"actor_id":      params.ActorID.String(),
	})

	return submission, nil
}

// authorizeTransition enforces who may trigger which edge. Authors act
// on their own submissions; editorial edges need an editor role, and
// decisions are limited to the assigned editor unless the actor is an
// admin.
func authorizeTransition(actor shared.Actor, submission *model.Submission, name model.TransitionName) error {
	switch name {
	case model.TransitionSubmit, model.TransitionSubmitRevision, model.TransitionWithdraw:
		if submission.SubmitterID != actor.ID && !actor.IsAdmin() {
			return model.NewPermissionDeniedError("only the submitter can perform this action")
		}
	case model.TransitionStartReview:
		if !actor.IsEditor() {
			return model.NewPermissionDeniedError("an editor role is required")
		}
	case model.TransitionRequestRevision, model.TransitionAccept, model.TransitionReject, model.TransitionPublish:
		if !actor.IsEditor() {
			return model.NewPermissionDeniedError("an editor role is required")
		}
		if !actor.IsAdmin() && submission.AssignedEditorID != nil && *submission.AssignedEditorID != actor.ID {
			return model.NewPermissionDeniedError("submission is assigned to another editor")
		}
	}
	return nil
}

// checkGuards validates transition preconditions beyond the source
// status. Runs inside the transaction so the counts it reads cannot
// change before commit.
func (s *submissionService) checkGuards(ctx context.Context, tx pgx.Tx, submission *model.Submission, name model.TransitionName, params *model.TransitionParams) error {
	switch name {
	case model.TransitionSubmit:
		return s.checkSubmissionComplete(ctx, tx, submission)

	case model.TransitionRequestRevision:
		if params.Notes == "" {
			return model.NewValidationError("revision notes are required", nil)
		}
		if params.DeadlineDays == nil {
			days := s.cfg.DefaultRevisionDays
			params.DeadlineDays = &days
		} else if *params.DeadlineDays < 0 {
			return model.NewValidationError("deadline days cannot be negative", nil)
		}
	}
	return nil
}

// checkSubmissionComplete is the completeness guard behind submit and
// the pre-submit validation endpoint.
func (s *submissionService) checkSubmissionComplete(ctx context.Context, tx pgx.Tx, submission *model.Submission) error {
	if submission.Title == "" {
		return model.NewValidationError("title is required before submitting", nil)
	}
	if submission.Abstract == "" {
		return model.NewValidationError("abstract is required before submitting", nil)
	}

	authorCount, err := s.submissionRepo.CountAuthorsWithTx(ctx, tx, submission.ID)
	if err != nil {
		return fmt.Errorf("count authors: %w", err)
	}
	if authorCount == 0 {
		return model.NewValidationError("at least one author is required before submitting", nil)
	}

	correspondingCount, err := s.submissionRepo.CountCorrespondingWithTx(ctx, tx, submission.ID)
	if err != nil {
		return fmt.Errorf("count corresponding authors: %w", err)
	}
	if correspondingCount != 1 {
		return model.NewValidationError("exactly one corresponding author is required", model.ErrCorrespondingRequired)
	}

	fileCount, err := s.fileCounter.CountActiveBySubmissionWithTx(ctx, tx, submission.ID)
	if err != nil {
		return fmt.Errorf("count files: %w", err)
	}
	if fileCount == 0 {
		return model.NewValidationError("at least one manuscript file is required before submitting", nil)
	}

	return nil
}

// mintManuscriptID allocates the next id in the PREFIX-YEAR-NNNN series
// for the current year.
func (s *submissionService) mintManuscriptID(ctx context.Context, tx pgx.Tx, now time.Time) (string, error) {
	year := now.Year()
	maxSeq, err := s.submissionRepo.MaxManuscriptSeqWithTx(ctx, tx, s.cfg.ManuscriptIDPrefix, year)
	if err != nil {
		return "", fmt.Errorf("mint manuscript id: %w", err)
	}
	return fmt.Sprintf("%s-%d-%04d", s.cfg.ManuscriptIDPrefix, year, maxSeq+1), nil
}

// notifyAfterTransition enqueues the async side effects of a committed
// transition.
func (s *submissionService) notifyAfterTransition(ctx context.Context, submission *model.Submission, name model.TransitionName, params model.TransitionParams) {
	manuscriptID := ""
	if submission.ManuscriptID != nil {
		manuscriptID = *submission.ManuscriptID
	}

	switch name {
	case model.TransitionSubmit, model.TransitionSubmitRevision:
		recipient, err := s.submissionRepo.CorrespondingAuthor(ctx, submission.ID)
		if err != nil {
			logger.Error("Failed to resolve corresponding author for receipt", err)
			return
		}
		s.enqueue(shared.TypeSendSubmissionReceipt, model.SubmissionReceiptPayload{
			SubmissionID:   submission.ID,
			ManuscriptID:   manuscriptID,
			Title:          submission.Title,
			RecipientEmail: recipient.Email,
			RecipientName:  recipient.FullName(),
			IsRevision:     name == model.TransitionSubmitRevision,
		}, asynq.Queue(shared.QueueHigh))

		s.enqueue(shared.TypeBuildSubmissionPDF, model.BuildPDFPayload{
			SubmissionID: submission.ID,
		}, asynq.Queue(shared.QueueLow))

	case model.TransitionRequestRevision, model.TransitionAccept, model.TransitionReject:
		recipient, err := s.submissionRepo.CorrespondingAuthor(ctx, submission.ID)
		if err != nil {
			logger.Error("Failed to resolve corresponding author for decision notice", err)
			return
		}
		payload := model.DecisionNoticePayload{
			SubmissionID:   submission.ID,
			ManuscriptID:   manuscriptID,
			Title:          submission.Title,
			RecipientEmail: recipient.Email,
			RecipientName:  recipient.FullName(),
			Decision:       string(name),
			Notes:          params.Notes,
		}
		if params.DeadlineDays != nil {
			payload.DeadlineDays = *params.DeadlineDays
		}
		s.enqueue(shared.TypeSendDecisionNotice, payload, asynq.Queue(shared.QueueHigh))
	}
}

func (s *submissionService) enqueue(taskType string, payload any, opts ...asynq.Option) {
	b, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal task payload", err)
		return
	}
	task := asynq.NewTask(taskType, b)
	if _, err := s.asynq.Enqueue(task, opts...); err != nil {
		logger.Error(fmt.Sprintf("Failed to enqueue %s task", taskType), err)
	}
}

// =====================================================
// AUTHOR ROSTER
// =====================================================

func (s *submissionService) AddAuthor(ctx context.Context, actor shared.Actor, submissionID uuid.UUID, req model.AddAuthorRequest) (*model.Author, error) {
	// 1. Validate request
	if err := req.Validate(); err != nil {
		return nil, model.NewValidationError("invalid author data", err)
	}

	// 2. Begin transaction and lock the submission
	tx, err := s.submissionRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer s.submissionRepo.RollbackTx(ctx, tx)

	submission, err := s.lockEditable(ctx, tx, actor, submissionID)
	if err != nil {
		return nil, err
	}

	// 3. Append at the end of the roster
	maxPos, err := s.submissionRepo.MaxAuthorPositionWithTx(ctx, tx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("max author position: %w", err)
	}

	author := &model.Author{
		ID:              uuid.New(),
		SubmissionID:    submission.ID,
		OrcidID:         req.OrcidID,
		GivenName:       req.GivenName,
		FamilyName:      req.FamilyName,
		Email:           req.Email,
		Institution:     req.Institution,
		Department:      req.Department,
		Country:         req.Country,
		City:            req.City,
		Position:        maxPos + 1,
		IsCorresponding: req.IsCorresponding,
		Contribution:    req.Contribution,
	}
	if err := s.submissionRepo.CreateAuthorWithTx(ctx, tx, author); err != nil {
		return nil, fmt.Errorf("create author: %w", err)
	}

	// 4. Corresponding author is exclusive
	if author.IsCorresponding {
		if err := s.submissionRepo.ClearCorrespondingWithTx(ctx, tx, submissionID, author.ID); err != nil {
			return nil, fmt.Errorf("clear corresponding flags: %w", err)
		}
	}

	// 5. Move into the requested slot, if any
	if req.Position != nil && *req.Position <= maxPos {
		if err := s.moveAuthorWithTx(ctx, tx, submissionID, author, *req.Position); err != nil {
			return nil, err
		}
	}

	if err := s.submissionRepo.CommitTx(ctx, tx); err != nil {
		return nil, fmt.Errorf("commit add author: %w", err)
	}

	return author, nil
}

func (s *submissionService) UpdateAuthor(ctx context.Context, actor shared.Actor, submissionID, authorID uuid.UUID, req model.UpdateAuthorRequest) (*model.Author, error) {
	// 1. Validate request
	if err := req.Validate(); err != nil {
		return nil, model.NewValidationError("invalid author data", err)
	}

	// 2. Begin transaction and lock the submission
	tx, err := s.submissionRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer s.submissionRepo.RollbackTx(ctx, tx)

	if _, err := s.lockEditable(ctx, tx, actor, submissionID); err != nil {
		return nil, err
	}

	author, err := s.submissionRepo.GetAuthorWithTx(ctx, tx, submissionID, authorID)
	if err != nil {
		return nil, s.wrapLookupError(err)
	}

	// 3. Apply the patch
	requestedPosition := author.Position
	applyAuthorPatch(author, &req)
	if req.Position != nil {
		requestedPosition = *req.Position
		author.Position = requestedPosition
	}

	if err := s.submissionRepo.UpdateAuthorWithTx(ctx, tx, author); err != nil {
		return nil, s.wrapLookupError(err)
	}

	// 4. Corresponding author is exclusive
	if req.IsCorresponding != nil && *req.IsCorresponding {
		if err := s.submissionRepo.ClearCorrespondingWithTx(ctx, tx, submissionID, author.ID); err != nil {
			return nil, fmt.Errorf("clear corresponding flags: %w", err)
		}
	}

	// 5. Reorder if the position changed
	if req.Position != nil {
		if err := s.moveAuthorWithTx(ctx, tx, submissionID, author, requestedPosition); err != nil {
			return nil, err
		}
	}

	if err := s.submissionRepo.CommitTx(ctx, tx); err != nil {
		return nil, fmt.Errorf("commit update author: %w", err)
	}

	return author, nil
}

func applyAuthorPatch(a *model.Author, req *model.UpdateAuthorRequest) {
	if req.GivenName != nil {
		a.GivenName = *req.GivenName
	}
	if req.FamilyName != nil {
		a.FamilyName = *req.FamilyName
	}
	if req.Email != nil {
		a.Email = *req.Email
	}
	if req.OrcidID != nil {
		a.OrcidID = req.OrcidID
	}
	if req.Institution != nil {
		a.Institution = *req.Institution
	}
	if req.Department != nil {
		a.Department = req.Department
	}
	if req.Country != nil {
		a.Country = req.Country
	}
	if req.City != nil {
		a.City = req.City
	}
	if req.IsCorresponding != nil {
		a.IsCorresponding = *req.IsCorresponding
	}
	if req.Contribution != nil {
		a.Contribution = req.Contribution
	}
}

// moveAuthorWithTx places the author at the requested 1-based slot and
// rewrites every displaced position so the roster stays contiguous.
func (s *submissionService) moveAuthorWithTx(ctx context.Context, tx pgx.Tx, submissionID uuid.UUID, author *model.Author, to int) error {
	authors, err := s.submissionRepo.ListAuthorsWithTx(ctx, tx, submissionID)
	if err != nil {
		return fmt.Errorf("list authors: %w", err)
	}

	// Remove the moving author from the ordering, then reinsert.
	ordered := make([]model.Author, 0, len(authors))
	for _, a := range authors {
		if a.ID != author.ID {
			ordered = append(ordered, a)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Position < ordered[j].Position })

	if to < 1 {
		to = 1
	}
	if to > len(ordered)+1 {
		to = len(ordered) + 1
	}

	final := make([]model.Author, 0, len(ordered)+1)
	final = append(final, ordered[:to-1]...)
	final = append(final, *author)
	final = append(final, ordered[to-1:]...)

	for i := range final {
		want := i + 1
		if final[i].Position == want {
			continue
		}
		final[i].Position = want
		if final[i].ID == author.ID {
			author.Position = want
		}
		if err := s.submissionRepo.UpdateAuthorWithTx(ctx, tx, &final[i]); err != nil {
			return fmt.Errorf("reorder author: %w", err)
		}
	}

	return nil
}

func (s *submissionService) RemoveAuthor(ctx context.Context, actor shared.Actor, submissionID, authorID uuid.UUID) error {
	// 1. Begin transaction and lock the submission
	tx, err := s.submissionRepo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer s.submissionRepo.RollbackTx(ctx, tx)

	if _, err := s.lockEditable(ctx, tx, actor, submissionID); err != nil {
		return err
	}

	// 2. Delete and close the gap. An empty roster is fine while the
	// submission is editable; the submit guard enforces at least one.
	if err := s.submissionRepo.DeleteAuthorWithTx(ctx, tx, submissionID, authorID); err != nil {
		return s.wrapLookupError(err)
	}
	if err := s.submissionRepo.ResequenceAuthorsWithTx(ctx, tx, submissionID); err != nil {
		return fmt.Errorf("resequence authors: %w", err)
	}

	if err := s.submissionRepo.CommitTx(ctx, tx); err != nil {
		return fmt.Errorf("commit remove author: %w", err)
	}

	return nil
}

func (s *submissionService) ListAuthors(ctx context.Context, actor shared.Actor, submissionID uuid.UUID) ([]model.Author, error) {
	if _, err := s.getAuthorized(ctx, actor, submissionID); err != nil {
		return nil, err
	}
	authors, err := s.submissionRepo.ListAuthors(ctx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	return authors, nil
}

// =====================================================
// AUDIT TRAIL
// =====================================================

func (s *submissionService) GetStatusHistory(ctx context.Context, actor shared.Actor, submissionID uuid.UUID) ([]model.StatusHistory, error) {
	if _, err := s.getAuthorized(ctx, actor, submissionID); err != nil {
		return nil, err
	}
	history, err := s.submissionRepo.ListStatusHistory(ctx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("list status history: %w", err)
	}
	return history, nil
}

// =====================================================
// PRE-SUBMIT VALIDATION
// =====================================================

// ValidateSubmission is a dry run of the submit guard. It reads the
// roster and file counts inside a transaction that is always rolled
// back, so nothing it reports can be stale against its own snapshot.
func (s *submissionService) ValidateSubmission(ctx context.Context, actor shared.Actor, submissionID uuid.UUID) error {
	submission, err := s.getAuthorized(ctx, actor, submissionID)
	if err != nil {
		return err
	}

	tx, err := s.submissionRepo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer s.submissionRepo.RollbackTx(ctx, tx)

	return s.checkSubmissionComplete(ctx, tx, submission)
}

// =====================================================
// PDF BUILD
// =====================================================

func (s *submissionService) EnqueuePDFBuild(ctx context.Context, actor shared.Actor, submissionID uuid.UUID) error {
	submission, err := s.getAuthorized(ctx, actor, submissionID)
	if err != nil {
		return err
	}
	if submission.Status == model.StatusDraft {
		return model.NewInvalidTransitionError("the review PDF is only built after submission")
	}

	s.enqueue(shared.TypeBuildSubmissionPDF, model.BuildPDFPayload{SubmissionID: submissionID},
		asynq.Queue(shared.QueueLow))
	return nil
}

// =====================================================
// HELPERS
// =====================================================

// getAuthorized loads a submission and verifies the actor may see it.
func (s *submissionService) getAuthorized(ctx context.Context, actor shared.Actor, submissionID uuid.UUID) (*model.Submission, error) {
	submission, err := s.submissionRepo.GetSubmissionByID(ctx, submissionID)
	if err != nil {
		return nil, s.wrapLookupError(err)
	}
	if submission.SubmitterID != actor.ID && !actor.IsEditor() {
		return nil, model.NewPermissionDeniedError("not allowed to view this submission")
	}
	return submission, nil
}

// lockEditable locks the submission row, verifies ownership and the
// editability window. Shared by every roster mutation.
func (s *submissionService) lockEditable(ctx context.Context, tx pgx.Tx, actor shared.Actor, submissionID uuid.UUID) (*model.Submission, error) {
	submission, err := s.submissionRepo.GetSubmissionForUpdateWithTx(ctx, tx, submissionID)
	if err != nil {
		return nil, s.wrapLookupError(err)
	}
	if submission.SubmitterID != actor.ID && !actor.IsAdmin() {
		return nil, model.NewPermissionDeniedError("only the submitter can modify the author roster")
	}
	if !submission.IsEditable() {
		return nil, model.NewInvalidTransitionError(
			fmt.Sprintf("authors cannot be changed while the submission is %q", submission.Status))
	}
	return submission, nil
}

// wrapLookupError converts repository sentinels into typed service
// errors, passing everything else through.
func (s *submissionService) wrapLookupError(err error) error {
	switch {
	case errors.Is(err, model.ErrSubmissionNotFound):
		return model.NewNotFoundError(err)
	case errors.Is(err, model.ErrAuthorNotFound):
		return model.NewAuthorNotFoundError(err)
	case errors.Is(err, model.ErrConcurrencyConflict):
		return model.NewConcurrencyError(err)
	default:
		return err
	}
}
