package apperrors

import "errors"

// Request-level errors
var (
	ErrValidationFailed     = errors.New("validation failed")
	ErrFileUpload           = errors.New("file upload error")
	ErrTooManyRequests      = errors.New("too many requests")
	ErrEventNotFound        = errors.New("event not found")
	ErrRegistrationNotFound = errors.New("registration not found")
)

// Pipeline errors
var (
	ErrEventFull    = errors.New("event has reached its capacity limit")
	ErrDuplicateKey = errors.New("unique constraint violated")
	ErrUploadFailed = errors.New("failed to upload payment screenshot")
)

// Infrastructure errors
var (
	ErrDatastoreUnavailable = errors.New("datastore unavailable")
)

// Machine-readable codes sent to clients
const (
	CodeValidation          = "VALIDATION_ERROR"
	CodeFileUpload          = "FILE_UPLOAD_ERROR"
	CodeTooManyRequests     = "TOO_MANY_REQUESTS"
	CodeEventNotFound       = "EVENT_NOT_FOUND"
	CodeRegistrationMissing = "REGISTRATION_NOT_FOUND"
	CodeEventFull           = "EVENT_FULL"
	CodeDuplicateKey        = "DUPLICATE_KEY"
	CodeUploadFailed        = "UPLOAD_FAILED"
	CodeServiceUnavailable  = "SERVICE_UNAVAILABLE"
	CodeInternal            = "INTERNAL_ERROR"
	CodeEndpointNotFound    = "ENDPOINT_NOT_FOUND"
)

// Is returns whether err matches target or any of errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}

// NewValidationError collects field messages under ErrValidationFailed
func NewValidationError(messages []string) *CustomError {
	return NewCustomError(ErrValidationFailed, "Validation failed").
		WithCode(CodeValidation).
		WithDetails(messages)
}

// NewDuplicateError builds a conflict error whose code names the offending field
func NewDuplicateError(code string, cause error) *CustomError {
	return &CustomError{
		Err:     errors.Join(ErrDuplicateKey, cause),
		Message: "Registration already exists",
		Code:    code,
	}
}

// CodeOf extracts the machine-readable code carried by err, if any
func CodeOf(err error) string {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

// DetailsOf extracts the details carried by err, if any
func DetailsOf(err error) interface{} {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Details
	}
	return nil
}
