package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openhearth/charity-backend/internal/data/aggregates"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

// StatusForCode maps service error codes onto HTTP statuses.
func StatusForCode(code aggregates.ErrorCode) int {
	switch code {
	case aggregates.CodeValidation:
		return http.StatusBadRequest
	case aggregates.CodeNotFound:
		return http.StatusNotFound
	case aggregates.CodeForbidden:
		return http.StatusForbidden
	case aggregates.CodeConflict, aggregates.CodeInvariantViolation:
		return http.StatusConflict
	case aggregates.CodeRetryable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// RespondServiceError translates a typed service error into the envelope.
// Untyped errors surface as 500s.
func RespondServiceError(c *gin.Context, err error) {
	code := aggregates.CodeOf(err)
	if code == "" {
		code = aggregates.CodeInternal
	}
	RespondError(c, StatusForCode(code), string(code), err)
}
