package model

import "errors"

// =====================================================
// ERROR CODES
// =====================================================
const (
	ErrCodeFileNotFound     = "FILE_NOT_FOUND"
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodePermissionDenied = "PERMISSION_DENIED"
	ErrCodeNotEditable      = "INVALID_STATE_TRANSITION"
	ErrCodeStorage          = "STORAGE_FAILURE"
)

// =====================================================
// SENTINEL ERRORS
// =====================================================
var (
	ErrFileNotFound     = errors.New("file not found")
	ErrFileTooLarge     = errors.New("file exceeds the maximum allowed size")
	ErrExtensionDenied  = errors.New("file extension is not allowed")
	ErrUnknownFileType  = errors.New("unknown file type")
	ErrNotEditable      = errors.New("files cannot be changed in the submission's current status")
	ErrPermissionDenied = errors.New("not allowed to act on this submission's files")
)

// =====================================================
// TYPED ERROR
// =====================================================

type FileError struct {
	Code    string
	Message string
	Err     error
}

func (e *FileError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *FileError) Unwrap() error {
	return e.Err
}

func NewFileError(code, message string, err error) *FileError {
	return &FileError{Code: code, Message: message, Err: err}
}

func NewFileNotFoundError(err error) *FileError {
	return NewFileError(ErrCodeFileNotFound, "file not found", err)
}

func NewValidationError(message string, err error) *FileError {
	return NewFileError(ErrCodeValidation, message, err)
}

func NewNotEditableError(message string) *FileError {
	return NewFileError(ErrCodeNotEditable, message, ErrNotEditable)
}

func NewPermissionDeniedError(message string) *FileError {
	return NewFileError(ErrCodePermissionDenied, message, ErrPermissionDenied)
}

func NewStorageError(message string, err error) *FileError {
	return NewFileError(ErrCodeStorage, message, err)
}
