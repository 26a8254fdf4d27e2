package model

import (
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

const (
	maxTitleLength    = 500
	maxAbstractLength = 5000
	maxKeywords       = 10
)

var orcidPattern = regexp.MustCompile(`^\d{4}-\d{4}-\d{4}-\d{3}[\dX]$`)

func articleTypeRule() validation.Rule {
	values := make([]interface{}, len(AllArticleTypes))
	for i, t := range AllArticleTypes {
		values[i] = t
	}
	return validation.In(values...)
}

func statusRule() validation.Rule {
	values := make([]interface{}, len(AllStatuses))
	for i, s := range AllStatuses {
		values[i] = s
	}
	return validation.In(values...)
}

// =====================================================
// REQUEST DTOs: drafts
// =====================================================

// CreateSubmissionRequest opens a new draft. Only the title is
// mandatory up front; the wizard fills in the rest over time.
type CreateSubmissionRequest struct {
	Title       string   `json:"title"`
	Abstract    string   `json:"abstract"`
	Keywords    []string `json:"keywords"`
	ArticleType string   `json:"article_type"`
	Language    string   `json:"language"`
}

func (r *CreateSubmissionRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, maxTitleLength)),
		validation.Field(&r.Abstract, validation.Length(0, maxAbstractLength)),
		validation.Field(&r.Keywords, validation.Length(0, maxKeywords)),
		validation.Field(&r.ArticleType, validation.Required, articleTypeRule()),
		validation.Field(&r.Language, validation.Length(2, 5)),
	)
}

// UpdateSubmissionRequest patches draft content. Nil fields are left
// untouched; pointers to zero values clear the column.
type UpdateSubmissionRequest struct {
	Title                *string   `json:"title"`
	TitleEn              *string   `json:"title_en"`
	Abstract             *string   `json:"abstract"`
	AbstractEn           *string   `json:"abstract_en"`
	Keywords             *[]string `json:"keywords"`
	KeywordsEn           *[]string `json:"keywords_en"`
	ArticleType          *string   `json:"article_type"`
	Language             *string   `json:"language"`
	CoverLetter          *string   `json:"cover_letter"`
	EthicsStatement      *string   `json:"ethics_statement"`
	EthicsApprovalNumber *string   `json:"ethics_approval_number"`
	ConflictOfInterest   *string   `json:"conflict_of_interest"`
	FundingStatement     *string   `json:"funding_statement"`
	WizardStep           *int      `json:"wizard_step"`
}

func (r *UpdateSubmissionRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Title, validation.Length(1, maxTitleLength)),
		validation.Field(&r.Abstract, validation.Length(0, maxAbstractLength)),
		validation.Field(&r.Keywords, validation.Length(0, maxKeywords)),
		validation.Field(&r.ArticleType, articleTypeRule()),
		validation.Field(&r.Language, validation.Length(2, 5)),
		validation.Field(&r.WizardStep, validation.Min(1), validation.Max(6)),
	)
}

// =====================================================
// REQUEST DTOs: transitions
// =====================================================

// SubmitRequest is the explicit confirmation step of the wizard.
type SubmitRequest struct {
	Confirm bool `json:"confirm"`
}

func (r *SubmitRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Confirm, validation.Required.Error("confirmation is required to submit")),
	)
}

// StartReviewRequest assigns an editor and moves the manuscript into
// review. EditorID may be empty, in which case the acting editor takes
// the assignment.
type StartReviewRequest struct {
	EditorID string `json:"editor_id"`
}

func (r *StartReviewRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.EditorID, is.UUID),
	)
}

// RequestRevisionRequest asks the author for changes. Notes are
// mandatory so the author always knows what to revise.
type RequestRevisionRequest struct {
	Notes        string `json:"notes"`
	DeadlineDays *int   `json:"deadline_days"`
}

func (r *RequestRevisionRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Notes, validation.Required.Error("revision notes are required")),
		validation.Field(&r.DeadlineDays, validation.Min(0)),
	)
}

// DecisionRequest carries the optional note attached to an accept or
// reject decision.
type DecisionRequest struct {
	Notes string `json:"notes"`
}

func (r *DecisionRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Notes, validation.Length(0, maxAbstractLength)),
	)
}

// WithdrawRequest carries the optional reason recorded in the history.
type WithdrawRequest struct {
	Reason string `json:"reason"`
}

func (r *WithdrawRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Reason, validation.Length(0, maxAbstractLength)),
	)
}

// =====================================================
// REQUEST DTOs: author roster
// =====================================================

// AddAuthorRequest appends a contributor to the roster.
type AddAuthorRequest struct {
	GivenName       string  `json:"given_name"`
	FamilyName      string  `json:"family_name"`
	Email           string  `json:"email"`
	OrcidID         *string `json:"orcid_id"`
	Institution     string  `json:"institution"`
	Department      *string `json:"department"`
	Country         *string `json:"country"`
	City            *string `json:"city"`
	Position        *int    `json:"position"`
	IsCorresponding bool    `json:"is_corresponding"`
	Contribution    *string `json:"contribution"`
}

func (r *AddAuthorRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.GivenName, validation.Required, validation.Length(1, 150)),
		validation.Field(&r.FamilyName, validation.Required, validation.Length(1, 150)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.OrcidID, validation.Match(orcidPattern).Error("must be a valid ORCID iD")),
		validation.Field(&r.Institution, validation.Required, validation.Length(1, 300)),
		validation.Field(&r.Position, validation.Min(1)),
	)
}

// UpdateAuthorRequest patches a roster entry. Position changes go
// through this as well and trigger resequencing.
type UpdateAuthorRequest struct {
	GivenName       *string `json:"given_name"`
	FamilyName      *string `json:"family_name"`
	Email           *string `json:"email"`
	OrcidID         *string `json:"orcid_id"`
	Institution     *string `json:"institution"`
	Department      *string `json:"department"`
	Country         *string `json:"country"`
	City            *string `json:"city"`
	Position        *int    `json:"position"`
	IsCorresponding *bool   `json:"is_corresponding"`
	Contribution    *string `json:"contribution"`
}

func (r *UpdateAuthorRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.GivenName, validation.Length(1, 150)),
		validation.Field(&r.FamilyName, validation.Length(1, 150)),
		validation.Field(&r.Email, is.Email),
		validation.Field(&r.OrcidID, validation.Match(orcidPattern).Error("must be a valid ORCID iD")),
		validation.Field(&r.Institution, validation.Length(1, 300)),
		validation.Field(&r.Position, validation.Min(1)),
	)
}

// =====================================================
// REQUEST DTOs: listing
// =====================================================

// ListSubmissionsRequest filters and pages a submission listing.
type ListSubmissionsRequest struct {
	Status string `form:"status"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

func (r *ListSubmissionsRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Status, statusRule()),
		validation.Field(&r.Page, validation.Min(0)),
		validation.Field(&r.Limit, validation.Min(0), validation.Max(100)),
	)
}

// Normalize applies listing defaults.
func (r *ListSubmissionsRequest) Normalize() {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit < 1 {
		r.Limit = 20
	}
}

// =====================================================
// RESPONSE DTOs
// =====================================================

// SubmissionResponse is the full representation returned from detail
// endpoints, roster included.
type SubmissionResponse struct {
	Submission
	IsEditable bool     `json:"is_editable"`
	Authors    []Author `json:"authors,omitempty"`
}

// NewSubmissionResponse decorates the entity with derived fields.
func NewSubmissionResponse(s *Submission, authors []Author) *SubmissionResponse {
	return &SubmissionResponse{
		Submission: *s,
		IsEditable: s.IsEditable(),
		Authors:    authors,
	}
}

// SubmissionListItem is the trimmed representation used by listings.
type SubmissionListItem struct {
	ID           uuid.UUID  `json:"id"`
	ManuscriptID *string    `json:"manuscript_id"`
	Title        string     `json:"title"`
	Status       string     `json:"status"`
	ArticleType  string     `json:"article_type"`
	IsEditable   bool       `json:"is_editable"`
	CreatedAt    time.Time  `json:"created_at"`
	SubmittedAt  *time.Time `json:"submitted_at,omitempty"`
}

// NewSubmissionListItem trims an entity for listings.
func NewSubmissionListItem(s *Submission) SubmissionListItem {
	return SubmissionListItem{
		ID:           s.ID,
		ManuscriptID: s.ManuscriptID,
		Title:        s.Title,
		Status:       s.Status,
		ArticleType:  s.ArticleType,
		IsEditable:   s.IsEditable(),
		CreatedAt:    s.CreatedAt,
		SubmittedAt:  s.SubmittedAt,
	}
}
