// Package errors provides standardized error handling for the job-board workflows.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeUnauthenticated  ErrorCode = "UNAUTHENTICATED"
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	ErrCodeUploadFailed  ErrorCode = "UPLOAD_FAILED"
	ErrCodePersistFailed ErrorCode = "PERSIST_FAILED"

	ErrCodeNotFound               ErrorCode = "NOT_FOUND"
	ErrCodeNoRecipientAvailable   ErrorCode = "NO_RECIPIENT_AVAILABLE"
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"

	ErrCodeSearchQueryFailed  ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeInvalidStatus      ErrorCode = "INVALID_STATUS"
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
)

// Document identifies which upload failed within a submission.
type Document string

const (
	DocumentCV          Document = "cv"
	DocumentCoverLetter Document = "cover_letter"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Is lets errors.Is match two StandardErrors by code.
func (e *StandardError) Is(target error) bool {
	var se *StandardError
	if !errors.As(target, &se) {
		return false
	}
	return e.Code == se.Code
}

// ==========================
// 2. Error Constructors
// ==========================

// NewUnauthenticatedError indicates the caller has no valid session.
func NewUnauthenticatedError() *StandardError {
	return &StandardError{
		Code:      ErrCodeUnauthenticated,
		Message:   "Authentication required",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationFailedError carries per-field validation failures in Metadata.
func NewValidationFailedError(fieldErrors interface{}) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Form validation failed",
		Retryable: false,
		Metadata:  map[string]interface{}{"fields": fieldErrors},
		Timestamp: time.Now().UTC(),
	}
}

// NewUploadFailedError indicates a blob upload failed for the named document.
func NewUploadFailedError(which Document, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeUploadFailed,
		Message:   fmt.Sprintf("Upload failed for %s", which),
		Details:   err.Error(),
		Retryable: true,
		Metadata:  map[string]interface{}{"document": string(which)},
		Timestamp: time.Now().UTC(),
	}
}

// NewPersistFailedError indicates the application row insert failed.
func NewPersistFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodePersistFailed,
		Message:   "Failed to persist application record",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotFoundError indicates a referenced resource does not exist.
func NewNotFoundError(resource, id string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotFound,
		Message:   fmt.Sprintf("%s not found", resource),
		Details:   fmt.Sprintf("id: %s", id),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNoRecipientAvailableError indicates no staff recipient could be resolved.
func NewNoRecipientAvailableError(jobID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNoRecipientAvailable,
		Message:   "No recipient available for notification",
		Details:   fmt.Sprintf("job: %s", jobID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError indicates an outbound delivery failure.
func NewNotificationSendFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Notification delivery failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchQueryFailedError indicates the job index query failed.
func NewSearchQueryFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchQueryFailed,
		Message:   "Job search query failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidStatusError indicates an unknown application status value.
func NewInvalidStatusError(status string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidStatus,
		Message:   "Invalid application status",
		Details:   status,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidCredentialsError indicates a failed sign-in attempt.
func NewInvalidCredentialsError() *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidCredentials,
		Message:   "Invalid email or password",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Helpers
// ==========================

// CodeOf extracts the ErrorCode from an error chain, or "" if none.
func CodeOf(err error) ErrorCode {
	var se *StandardError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}
