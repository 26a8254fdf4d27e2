package model

import "github.com/google/uuid"

// =====================================================
// ASYNC TASK PAYLOADS
// =====================================================
// Payloads are enqueued after commit, so they carry everything the
// worker needs and never re-derive state from the hot row.

// SubmissionReceiptPayload confirms a successful submit to the
// corresponding author.
type SubmissionReceiptPayload struct {
	SubmissionID   uuid.UUID `json:"submission_id"`
	ManuscriptID   string    `json:"manuscript_id"`
	Title          string    `json:"title"`
	RecipientEmail string    `json:"recipient_email"`
	RecipientName  string    `json:"recipient_name"`
	IsRevision     bool      `json:"is_revision"`
}

// DecisionNoticePayload notifies the corresponding author of an
// editorial outcome (revision request, accept, reject).
type DecisionNoticePayload struct {
	SubmissionID   uuid.UUID `json:"submission_id"`
	ManuscriptID   string    `json:"manuscript_id"`
	Title          string    `json:"title"`
	RecipientEmail string    `json:"recipient_email"`
	RecipientName  string    `json:"recipient_name"`
	Decision       string    `json:"decision"`
	Notes          string    `json:"notes,omitempty"`
	DeadlineDays   int       `json:"deadline_days,omitempty"`
}

// BuildPDFPayload asks the worker to assemble the review PDF for a
// submitted manuscript.
type BuildPDFPayload struct {
	SubmissionID uuid.UUID `json:"submission_id"`
}

// DeleteFilesPayload cleans up object storage after a draft is deleted.
type DeleteFilesPayload struct {
	SubmissionID uuid.UUID `json:"submission_id"`
}
