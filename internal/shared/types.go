package shared

import (
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Asynq task types. Namespaced by domain.
const (
	TypeSendSubmissionReceipt    = "submission:send_receipt"
	TypeSendDecisionNotice       = "submission:send_decision_notice"
	TypeBuildSubmissionPDF       = "submission:build_pdf"
	TypeRevisionDeadlineReminder = "submission:revision_deadline_reminder"
	TypeDeleteSubmissionFiles    = "file:delete_submission_files"
)

// Asynq queue names.
const (
	QueueHigh    = "high"
	QueueDefault = "default"
	QueueLow     = "low"
)

// User roles.
const (
	RoleAuthor = "author"
	RoleEditor = "editor"
	RoleAdmin  = "admin"
)

// TaskEnqueuer is the slice of *asynq.Client the services need.
// Declared here so service tests can swap in a recorder.
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Actor is the authenticated identity performing an action, extracted
// from the JWT by the auth middleware. Lives here to avoid an import
// cycle with the user domain.
type Actor struct {
	ID    uuid.UUID
	Email string
	Role  string
}

// IsEditor reports whether the actor holds editorial privileges.
func (a Actor) IsEditor() bool {
	return a.Role == RoleEditor || a.Role == RoleAdmin
}

// IsAdmin reports whether the actor is an administrator.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
