package respond

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"resume-builder/internal/shared/apperr"
	"resume-builder/internal/shared/telemetry"
)

// transientRetryAfter is advertised on 503 responses.
const transientRetryAfter = 2

// ErrorBody defines the standardized error object.
type ErrorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable,omitempty"`
	Details   any    `json:"details,omitempty"`
}

// ErrorResponse wraps the error body.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// Error sends a standardized error response.
func Error(c *gin.Context, status int, code, message string, details any) {
	write(c, status, ErrorBody{Code: code, Message: message, Details: details}, nil)
}

// FromError classifies err and writes the matching response.
func FromError(c *gin.Context, err error) {
	e := apperr.Classify(err)
	status := StatusFor(e.Kind)
	body := ErrorBody{
		Code:      e.Code,
		Message:   e.Message,
		Retryable: e.Kind == apperr.Transient,
		Details:   e.Details,
	}
	if e.Kind == apperr.Transient {
		c.Header("Retry-After", strconv.Itoa(transientRetryAfter))
	}
	write(c, status, body, e.Cause)
}

// BindError reports a request body that failed binding or validation.
func BindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[lowerFirst(fe.Field())] = fe.Tag()
		}
		Error(c, http.StatusBadRequest, "validation_failed", "request validation failed", fields)
		return
	}
	Error(c, http.StatusBadRequest, "invalid_body", "request body is invalid", nil)
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.Validation:
		return http.StatusBadRequest
	case apperr.AuthExpired:
		return http.StatusUnauthorized
	case apperr.NotFound:
		return http.StatusNotFound
	case apperr.Transient:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func write(c *gin.Context, status int, body ErrorBody, cause error) {
	fields := map[string]any{
		"status":     status,
		"code":       body.Code,
		"message":    body.Message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if userID := c.GetString("userId"); userID != "" {
		fields["user_id"] = userID
	}
	if cause != nil {
		fields["cause"] = cause.Error()
	}
	if status >= http.StatusInternalServerError {
		telemetry.Error("http.error", fields)
	} else {
		telemetry.Warn("http.error", fields)
	}

	c.AbortWithStatusJSON(status, ErrorResponse{Error: body})
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'A' && b[0] <= 'Z' {
		b[0] += 'a' - 'A'
	}
	return string(b)
}
