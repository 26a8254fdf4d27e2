package model

import (
	"time"

	"github.com/google/uuid"
)

// =====================================================
// LIFECYCLE STATUS CONSTANTS
// =====================================================
const (
	StatusDraft             = "draft"
	StatusSubmitted         = "submitted"
	StatusUnderReview       = "under_review"
	StatusRevisionRequired  = "revision_required"
	StatusRevisionSubmitted = "revision_submitted"
	StatusAccepted          = "accepted"
	StatusRejected          = "rejected"
	StatusWithdrawn         = "withdrawn"
	StatusPublished         = "published"
)

// AllStatuses lists every lifecycle state. Used by validation and tests.
var AllStatuses = []string{
	StatusDraft,
	StatusSubmitted,
	StatusUnderReview,
	StatusRevisionRequired,
	StatusRevisionSubmitted,
	StatusAccepted,
	StatusRejected,
	StatusWithdrawn,
	StatusPublished,
}

// =====================================================
// ARTICLE TYPE CONSTANTS
// =====================================================
const (
	ArticleTypeResearch   = "research"
	ArticleTypeReview     = "review"
	ArticleTypeCaseReport = "case_report"
	ArticleTypeShortComm  = "short_communication"
	ArticleTypeLetter     = "letter"
	ArticleTypeEditorial  = "editorial"
	ArticleTypeOther      = "other"
)

var AllArticleTypes = []string{
	ArticleTypeResearch,
	ArticleTypeReview,
	ArticleTypeCaseReport,
	ArticleTypeShortComm,
	ArticleTypeLetter,
	ArticleTypeEditorial,
	ArticleTypeOther,
}

// =====================================================
// EDITOR DECISION CONSTANTS
// =====================================================
const (
	EditorDecisionAccept = "accept"
	EditorDecisionReject = "reject"
)

// =====================================================
// ENTITY: Submission
// =====================================================

// Submission is the aggregate root for a manuscript.
//
// Status is only ever written by ApplyTransition (fsm.go). Handlers and
// repositories treat it as read-only; there is no endpoint that assigns
// the field directly.
type Submission struct {
	ID           uuid.UUID `json:"id"`
	ManuscriptID *string   `json:"manuscript_id"` // nil until first submit
	SubmitterID  uuid.UUID `json:"submitter_id"`
	Status       string    `json:"status"`

	// Manuscript content. Mutable only while the submission is editable.
	Title      string   `json:"title"`
	TitleEn    *string  `json:"title_en,omitempty"`
	Abstract   string   `json:"abstract"`
	AbstractEn *string  `json:"abstract_en,omitempty"`
	Keywords   []string `json:"keywords"`
	KeywordsEn []string `json:"keywords_en,omitempty"`

	ArticleType string `json:"article_type"`
	Language    string `json:"language"`

	CoverLetter          *string `json:"cover_letter,omitempty"`
	EthicsStatement      *string `json:"ethics_statement,omitempty"`
	EthicsApprovalNumber *string `json:"ethics_approval_number,omitempty"`
	ConflictOfInterest   *string `json:"conflict_of_interest,omitempty"`
	FundingStatement     *string `json:"funding_statement,omitempty"`

	// Submission wizard progress, opaque draft state owned by the client.
	WizardStep int `json:"wizard_step"`

	// Revision tracking
	RevisionNumber   int        `json:"revision_number"`
	RevisionNotes    *string    `json:"revision_notes,omitempty"`
	RevisionDeadline *time.Time `json:"revision_deadline,omitempty"`

	// Editor assignment
	AssignedEditorID   *uuid.UUID `json:"assigned_editor_id,omitempty"`
	EditorNotes        *string    `json:"editor_notes,omitempty"`
	EditorDecision     *string    `json:"editor_decision,omitempty"`
	EditorDecisionDate *time.Time `json:"editor_decision_date,omitempty"`

	// Timestamps. Each is set exactly once by the transition causing it.
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	AcceptedAt  *time.Time `json:"accepted_at,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// IsEditable reports whether content fields and the author roster
// may currently be modified.
func (s *Submission) IsEditable() bool {
	return s.Status == StatusDraft || s.Status == StatusRevisionRequired
}

// CanBeWithdrawn reports whether the author may withdraw.
func (s *Submission) CanBeWithdrawn() bool {
	return s.Status == StatusDraft ||
		s.Status == StatusSubmitted ||
		s.Status == StatusRevisionRequired
}

// IsTerminal reports whether no further transitions exist.
func (s *Submission) IsTerminal() bool {
	return s.Status == StatusRejected ||
		s.Status == StatusWithdrawn ||
		s.Status == StatusPublished
}

// =====================================================
// ENTITY: Author
// =====================================================

// Author is an ordered contributor of a submission. Position is 1-based
// and kept contiguous by the roster operations.
type Author struct {
	ID           uuid.UUID  `json:"id"`
	SubmissionID uuid.UUID  `json:"submission_id"`
	UserID       *uuid.UUID `json:"user_id,omitempty"` // registered account, if any

	OrcidID    *string `json:"orcid_id,omitempty"`
	GivenName  string  `json:"given_name"`
	FamilyName string  `json:"family_name"`
	Email      string  `json:"email"`

	Institution string  `json:"institution"`
	Department  *string `json:"department,omitempty"`
	Country     *string `json:"country,omitempty"`
	City        *string `json:"city,omitempty"`

	Position        int     `json:"position"` // 1 = first author
	IsCorresponding bool    `json:"is_corresponding"`
	Contribution    *string `json:"contribution,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FullName joins the name parts.
func (a *Author) FullName() string {
	if a.GivenName == "" {
		return a.FamilyName
	}
	if a.FamilyName == "" {
		return a.GivenName
	}
	return a.GivenName + " " + a.FamilyName
}

// =====================================================
// ENTITY: StatusHistory
// =====================================================

// StatusHistory is one append-only audit record per successful transition.
// Rows are never updated or deleted.
type StatusHistory struct {
	ID           uuid.UUID  `json:"id"`
	SubmissionID uuid.UUID  `json:"submission_id"`
	FromStatus   string     `json:"from_status"`
	ToStatus     string     `json:"to_status"`
	ChangedBy    *uuid.UUID `json:"changed_by,omitempty"`
	Notes        *string    `json:"notes,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}
