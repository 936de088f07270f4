package dto

import (
	"fmt"
	"time"

	"github.com/yigit/techfest/internal/app/models"
	"github.com/yigit/techfest/internal/pkg/apperrors"
)

// ErrorCode represents standardized error codes
type ErrorCode string

// Standard error codes for the application
const (
	// Request errors
	ErrorCodeValidationFailed ErrorCode = apperrors.CodeValidation
	ErrorCodeFileUpload       ErrorCode = apperrors.CodeFileUpload
	ErrorCodeTooManyRequests  ErrorCode = apperrors.CodeTooManyRequests

	// Resource errors
	ErrorCodeEventNotFound        ErrorCode = apperrors.CodeEventNotFound
	ErrorCodeRegistrationNotFound ErrorCode = apperrors.CodeRegistrationMissing
	ErrorCodeEndpointNotFound     ErrorCode = apperrors.CodeEndpointNotFound
	ErrorCodeEventFull            ErrorCode = apperrors.CodeEventFull
	ErrorCodeDuplicateKey         ErrorCode = apperrors.CodeDuplicateKey

	// Server errors
	ErrorCodeUploadFailed       ErrorCode = apperrors.CodeUploadFailed
	ErrorCodeServiceUnavailable ErrorCode = apperrors.CodeServiceUnavailable
	ErrorCodeInternalServer     ErrorCode = apperrors.CodeInternal
)

// ErrorDetail represents detailed error information
type ErrorDetail struct {
	Code      ErrorCode   `json:"code" example:"EVENT_FULL"`
	Message   string      `json:"message" example:"This event has reached its capacity limit"`
	Details   interface{} `json:"details,omitempty"`
	DebugInfo string      `json:"debugInfo,omitempty"`
}

// ErrorResponse represents the standard error response structure. The
// optional fields carry diagnostics for specific codes.
type ErrorResponse struct {
	Success         bool                  `json:"success" example:"false"`
	Message         string                `json:"message" example:"Event is full"`
	ErrorCode       ErrorCode             `json:"errorCode" example:"EVENT_FULL"`
	Error           *ErrorDetail          `json:"error"`
	Errors          []string              `json:"errors,omitempty"`
	AttemptedSlug   string                `json:"attemptedSlug,omitempty"`
	AvailableEvents []models.EventSummary `json:"availableEvents,omitempty"`
	Timestamp       time.Time             `json:"timestamp" example:"2025-04-23T12:01:05.123Z"`
}

// EventNotFoundDetails is attached to EVENT_NOT_FOUND errors
type EventNotFoundDetails struct {
	AttemptedSlug   string
	AvailableEvents []models.EventSummary
}

// NewErrorDetail creates a new error detail
func NewErrorDetail(code ErrorCode, message string) *ErrorDetail {
	return &ErrorDetail{
		Code:    code,
		Message: message,
	}
}

// WithDetails adds additional details to the error
func (e *ErrorDetail) WithDetails(details interface{}) *ErrorDetail {
	e.Details = details
	return e
}

// WithDebugInfo adds debug information (for development/testing only)
func (e *ErrorDetail) WithDebugInfo(format string, args ...interface{}) *ErrorDetail {
	e.DebugInfo = fmt.Sprintf(format, args...)
	return e
}

// NewErrorResponse creates a standard error response whose top-level
// message and code mirror the detail.
func NewErrorResponse(message string, errorDetail *ErrorDetail) *ErrorResponse {
	return &ErrorResponse{
		Success:   false,
		Message:   message,
		ErrorCode: errorDetail.Code,
		Error:     errorDetail,
		Timestamp: time.Now().UTC(),
	}
}
