package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/techfest/internal/app/models/dto"
	"github.com/yigit/techfest/internal/pkg/apperrors"
	"github.com/yigit/techfest/internal/pkg/logger"
)

// errorMapping is the HTTP rendering of one sentinel
type errorMapping struct {
	sentinel error
	status   int
	code     dto.ErrorCode
	message  string // top-level message
	detail   string // error.message when the error carries none of its own
}

var errorMappings = []errorMapping{
	{apperrors.ErrValidationFailed, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed", "Validation failed"},
	{apperrors.ErrFileUpload, http.StatusBadRequest, dto.ErrorCodeFileUpload, "File upload error", "File upload error"},
	{apperrors.ErrTooManyRequests, http.StatusTooManyRequests, dto.ErrorCodeTooManyRequests, "Too many registration attempts, please try again later", "Too many requests"},
	{apperrors.ErrEventNotFound, http.StatusNotFound, dto.ErrorCodeEventNotFound, "Event not found", "Event not found"},
	{apperrors.ErrRegistrationNotFound, http.StatusNotFound, dto.ErrorCodeRegistrationNotFound, "Registration not found", "Registration not found"},
	{apperrors.ErrEventFull, http.StatusConflict, dto.ErrorCodeEventFull, "Event is full", "This event has reached its capacity limit"},
	{apperrors.ErrDuplicateKey, http.StatusConflict, dto.ErrorCodeDuplicateKey, "Registration already exists", "A unique constraint was violated"},
	{apperrors.ErrDatastoreUnavailable, http.StatusServiceUnavailable, dto.ErrorCodeServiceUnavailable, "Service temporarily unavailable", "Database not connected"},
	{apperrors.ErrUploadFailed, http.StatusInternalServerError, dto.ErrorCodeUploadFailed, "Registration failed", "Failed to upload payment screenshot"},
}

// HandleAPIError handles common API errors and returns appropriate responses
func HandleAPIError(c *gin.Context, err error) {
	status, body := RenderError(err)

	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Err(err).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Int("status", status).
		Str("error_code", string(body.ErrorCode)).
		Msg("Request failed")

	c.AbortWithStatusJSON(status, body)
}

// RenderError maps err to its status code and response body
func RenderError(err error) (int, *dto.ErrorResponse) {
	for _, m := range errorMappings {
		if !errors.Is(err, m.sentinel) {
			continue
		}

		code := m.code
		if custom := apperrors.CodeOf(err); custom != "" {
			code = dto.ErrorCode(custom)
		}

		detail := dto.NewErrorDetail(code, m.detail)
		resp := dto.NewErrorResponse(m.message, detail)
		applyDetails(resp, err)
		return m.status, resp
	}

	detail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
	return http.StatusInternalServerError, dto.NewErrorResponse("Internal server error", detail)
}

// applyDetails copies code specific diagnostics into the response
func applyDetails(resp *dto.ErrorResponse, err error) {
	switch details := apperrors.DetailsOf(err).(type) {
	case []string:
		resp.Errors = details
		resp.Error.Details = details
	case dto.EventNotFoundDetails:
		resp.AttemptedSlug = details.AttemptedSlug
		resp.AvailableEvents = details.AvailableEvents
		if details.AttemptedSlug != "" {
			resp.Error.Message = fmt.Sprintf("Unknown event slug: %s", details.AttemptedSlug)
		}
	case string:
		resp.Error.Details = details
	}
}

// NotFoundHandler answers unknown routes
func NotFoundHandler(c *gin.Context) {
	detail := dto.NewErrorDetail(dto.ErrorCodeEndpointNotFound, "Endpoint not found")
	c.JSON(http.StatusNotFound, dto.NewErrorResponse("Endpoint not found", detail))
}

// Recovery turns panics into a 500 response
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error().Interface("panic", recovered).Str("path", c.Request.URL.Path).Msg("Recovered from panic")
		detail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse("Internal server error", detail))
	})
}
