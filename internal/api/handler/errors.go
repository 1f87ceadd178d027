package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/timmy/captionrelay/internal/domain"
	"github.com/timmy/captionrelay/internal/logger"
)

// Generic client-facing messages. Internal detail is logged, never returned.
const (
	MsgUploadFailed    = "Failed to process upload"
	MsgRecaptionFailed = "Failed to generate new caption"
	MsgListFailed      = "Failed to list uploads"
)

// statusByKind maps error kinds to response codes. Kinds not listed answer 500.
var statusByKind = map[domain.ErrorKind]int{
	domain.KindValidation: http.StatusUnprocessableEntity,
	domain.KindNotFound:   http.StatusInternalServerError,
	domain.KindIO:         http.StatusInternalServerError,
	domain.KindPermission: http.StatusInternalServerError,
	domain.KindTransport:  http.StatusInternalServerError,
	domain.KindUpstream:   http.StatusInternalServerError,
	domain.KindParse:      http.StatusInternalServerError,
}

// statusFor returns the response code for err.
func statusFor(err error) int {
	if status, ok := statusByKind[domain.KindOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// respondError logs err and writes {"error": msg}. Validation errors carry
// their own message; everything else answers with generic.
func respondError(c *gin.Context, err error, generic string) {
	ctx := c.Request.Context()
	kind := domain.KindOf(err)
	status := statusFor(err)

	msg := generic
	var derr *domain.Error
	if kind == domain.KindValidation && errors.As(err, &derr) && derr.Message != "" {
		msg = derr.Message
	}

	entry := logger.With(logger.Fields{
		logger.FieldStatus:    status,
		logger.FieldErrorKind: string(kind),
	})
	if status >= http.StatusInternalServerError {
		entry.Error(ctx, "%s: %v", generic, err)
	} else {
		entry.Warn(ctx, "%s", msg)
	}

	c.JSON(status, gin.H{"error": msg})
}
