package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes shared by every JSON error body.
const (
	CodeInvalidBody  = "invalid_body"
	CodeValidation   = "validation_failed"
	CodeUnauthorized = "unauthorized"
	CodeForbidden    = "forbidden"
	CodeNotFound     = "not_found"
	CodeInvalidLogin = "invalid_credentials"
	CodeLocked       = "account_locked"
	CodeRateLimited  = "rate_limited"
	CodeTimeout      = "timeout"
	CodeInternal     = "internal_error"
)

const genericFailure = "operation failed, please try again"

// ErrorBody is the JSON shape of every API error.
type ErrorBody struct {
	OK     bool              `json:"ok"`
	Error  string            `json:"error"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields,omitempty"`
}

// AbortError writes an error body and stops the handler chain.
func AbortError(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, ErrorBody{OK: false, Error: msg, Code: code})
}

// AbortValidation writes a 400 with per-field messages.
func AbortValidation(c *gin.Context, msg string, fields map[string]string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorBody{OK: false, Error: msg, Code: CodeValidation, Fields: fields})
}

// AbortInternal hides the underlying error behind a generic message.
func AbortInternal(c *gin.Context) {
	AbortError(c, http.StatusInternalServerError, CodeInternal, genericFailure)
}
