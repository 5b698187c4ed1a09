package handlers

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-portal/internal/apperr"
	"github.com/justsurfingit/job-portal/internal/validation"
)

type errorBody struct {
	Code    apperr.Code       `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// respondError renders err as {"error": {...}} with the status of its code.
// Errors outside the taxonomy are logged and reported as internal.
func respondError(c *gin.Context, err error) {
	body := errorBody{Code: apperr.CodeInternal, Message: "something went wrong"}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		body.Code = appErr.Code
		body.Fields = appErr.Fields
		if appErr.Code != apperr.CodeInternal {
			body.Message = appErr.Message
		}
	}
	status := body.Code.HTTPStatus()
	if status >= 500 {
		slog.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "code", body.Code, "err", err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": body})
}

// bindQuery decodes query parameters into obj and validates them.
func bindQuery(c *gin.Context, obj any) error {
	if err := c.ShouldBindQuery(obj); err != nil {
		return validation.Translate(err)
	}
	return nil
}
