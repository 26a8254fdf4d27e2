package model

import "errors"

// =====================================================
// ERROR CODES
// =====================================================
// Stable machine-readable codes returned in API error envelopes.
const (
	ErrCodeSubmissionNotFound  = "SUBMISSION_NOT_FOUND"
	ErrCodeAuthorNotFound      = "AUTHOR_NOT_FOUND"
	ErrCodeInvalidTransition   = "INVALID_STATE_TRANSITION"
	ErrCodeValidation          = "VALIDATION_ERROR"
	ErrCodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
	ErrCodeIdentityGeneration  = "IDENTITY_GENERATION_FAILURE"
	ErrCodePermissionDenied    = "PERMISSION_DENIED"
)

// =====================================================
// SENTINEL ERRORS
// =====================================================
var (
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrAuthorNotFound     = errors.New("author not found")

	ErrInvalidTransition = errors.New("invalid state transition")
	ErrNotEditable       = errors.New("submission is not editable in its current status")
	ErrNotDraft          = errors.New("submission is no longer a draft")

	// ErrManuscriptIDTaken signals a uniqueness collision while minting
	// a manuscript id. The service retries the whole transaction on it.
	ErrManuscriptIDTaken = errors.New("manuscript id already taken")

	ErrIdentityGeneration  = errors.New("could not allocate a unique manuscript id")
	ErrConcurrencyConflict = errors.New("submission was modified concurrently")
	ErrPermissionDenied    = errors.New("not allowed to act on this submission")

	ErrCorrespondingRequired = errors.New("submission must have exactly one corresponding author")
)

// =====================================================
// TYPED ERROR
// =====================================================

// SubmissionError pairs a stable code with a human-readable message so
// handlers can map service failures onto HTTP responses without string
// matching.
type SubmissionError struct {
	Code    string
	Message string
	Err     error
}

func (e *SubmissionError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

func NewSubmissionError(code, message string, err error) *SubmissionError {
	return &SubmissionError{Code: code, Message: message, Err: err}
}

// NewNotFoundError wraps a missing-submission lookup.
func NewNotFoundError(err error) *SubmissionError {
	return NewSubmissionError(ErrCodeSubmissionNotFound, "submission not found", err)
}

// NewAuthorNotFoundError wraps a missing-author lookup.
func NewAuthorNotFoundError(err error) *SubmissionError {
	return NewSubmissionError(ErrCodeAuthorNotFound, "author not found", err)
}

// NewInvalidTransitionError reports a transition attempted from a
// status that does not allow it.
func NewInvalidTransitionError(message string) *SubmissionError {
	return NewSubmissionError(ErrCodeInvalidTransition, message, ErrInvalidTransition)
}

// NewValidationError reports a guard or input failure with a
// field-specific message.
func NewValidationError(message string, err error) *SubmissionError {
	return NewSubmissionError(ErrCodeValidation, message, err)
}

// NewConcurrencyError reports a lost race against a concurrent writer.
func NewConcurrencyError(err error) *SubmissionError {
	return NewSubmissionError(ErrCodeConcurrencyConflict, "submission was modified concurrently, please retry", err)
}

// NewIdentityGenerationError reports exhausted retries while minting a
// manuscript id.
func NewIdentityGenerationError(err error) *SubmissionError {
	return NewSubmissionError(ErrCodeIdentityGeneration, "could not allocate a unique manuscript id", err)
}

// NewPermissionDeniedError reports an actor acting outside their role
// or ownership.
func NewPermissionDeniedError(message string) *SubmissionError {
	return NewSubmissionError(ErrCodePermissionDenied, message, ErrPermissionDenied)
}
