// Package errors provides standardized error handling for the bot pipeline.
package errors

import (
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeNilTurnContext  ErrorCode = "NIL_TURN_CONTEXT"
	ErrCodeActivityInvalid ErrorCode = "ACTIVITY_INVALID"

	ErrCodeModerationScreenFailed ErrorCode = "MODERATION_SCREEN_FAILED"
	ErrCodeModerationTimeout      ErrorCode = "MODERATION_TIMEOUT"
	ErrCodeModerationQuota        ErrorCode = "MODERATION_QUOTA_EXCEEDED"

	ErrCodeRecognizerFailed  ErrorCode = "RECOGNIZER_PREDICTION_FAILED"
	ErrCodeRecognizerTimeout ErrorCode = "RECOGNIZER_TIMEOUT"

	ErrCodeTelemetryTrackFailed ErrorCode = "TELEMETRY_TRACK_FAILED"
	ErrCodeTelemetryFlushFailed ErrorCode = "TELEMETRY_FLUSH_FAILED"

	ErrCodeTranscriptInsertFailed ErrorCode = "TRANSCRIPT_INSERT_FAILED"

	ErrCodeSkillRequestFailed ErrorCode = "SKILL_REQUEST_FAILED"
	ErrCodeSkillAuthFailed    ErrorCode = "SKILL_AUTH_FAILED"

	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE_ERROR"
	ErrCodeTimeout         ErrorCode = "TIMEOUT"
	ErrCodeAuthentication  ErrorCode = "AUTHENTICATION_ERROR"
	ErrCodeInternal        ErrorCode = "INTERNAL_ERROR"
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

// ==========================
// 2. Error Constructors
// ==========================

// NewNilTurnContextError creates a non-retryable guard error for a nil turn
// or dialog context argument.
func NewNilTurnContextError(argument string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNilTurnContext,
		Message:   "Turn context argument is nil",
		Details:   fmt.Sprintf("argument: %s", argument),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewActivityInvalidError creates a non-retryable error for a malformed
// inbound activity payload.
func NewActivityInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeActivityInvalid,
		Message:   "Inbound activity failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewModerationScreenFailedError creates a retryable moderation API error.
func NewModerationScreenFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeModerationScreenFailed,
		Message:   "Content moderation screen call failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewModerationTimeoutError creates a retryable moderation timeout error.
func NewModerationTimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodeModerationTimeout,
		Message:   "Content moderation screen call timed out",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewModerationQuotaError creates a retryable moderation rate-limit error.
func NewModerationQuotaError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeModerationQuota,
		Message:   "Content moderation quota exceeded",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRecognizerFailedError creates a retryable recognizer prediction error.
func NewRecognizerFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRecognizerFailed,
		Message:   "Intent recognizer prediction failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRecognizerTimeoutError creates a retryable recognizer timeout error.
func NewRecognizerTimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodeRecognizerTimeout,
		Message:   "Intent recognizer prediction timed out",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewTelemetryTrackFailedError creates a retryable telemetry sink error.
func NewTelemetryTrackFailedError(sink string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeTelemetryTrackFailed,
		Message:   "Telemetry event delivery failed",
		Details:   fmt.Sprintf("sink: %s, error: %s", sink, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewTelemetryFlushFailedError creates a retryable telemetry flush error.
func NewTelemetryFlushFailedError(sink string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeTelemetryFlushFailed,
		Message:   "Telemetry buffer flush failed",
		Details:   fmt.Sprintf("sink: %s, error: %s", sink, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewTranscriptInsertFailedError creates a retryable transcript store error.
func NewTranscriptInsertFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeTranscriptInsertFailed,
		Message:   "Transcript insert failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSkillRequestFailedError creates a retryable skill forwarding error.
func NewSkillRequestFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSkillRequestFailed,
		Message:   "Forwarding activity to skill failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSkillAuthFailedError creates a retryable skill authentication error.
func NewSkillAuthFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSkillAuthFailed,
		Message:   "Failed to obtain skill access token",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewExternalServiceError creates a retryable error for an unclassified
// downstream failure.
func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeExternalService,
		Message:   fmt.Sprintf("External service %s error", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewTimeoutError creates a retryable timeout error for a downstream call.
func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeTimeout,
		Message:   fmt.Sprintf("External service %s timed out", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInternalError creates a non-retryable error for an unexpected failure.
func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAuthenticationError creates a non-retryable authentication error.
func NewAuthenticationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAuthentication,
		Message:   "Authentication with external service failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}
