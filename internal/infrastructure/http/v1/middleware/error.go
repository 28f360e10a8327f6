package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"logitrack/internal/core/apperror"
	"logitrack/pkg/logger"
)

// ErrorHandler middleware transforms errors into consistent JSON responses.
// Internal causes are logged and never rendered.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		// Handler already responded.
		if c.Writer.Written() {
			return
		}

		writeError(c, c.Errors.Last().Err)
	}
}

// writeError renders err as {code, message, details} and aborts the chain.
func writeError(c *gin.Context, err error) {
	if appErr, ok := apperror.AsAppError(err); ok {
		if appErr.Err != nil {
			logger.Error(c.Request.Context(), "request error",
				"code", appErr.Code,
				"cause", appErr.Err,
			)
		}

		c.AbortWithStatusJSON(appErr.HTTPStatus, gin.H{
			"code":    appErr.Code,
			"message": appErr.Message,
			"details": appErr.Details,
		})
		return
	}

	logger.Error(c.Request.Context(), "unhandled error",
		"error", err,
	)

	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"code":    apperror.CodeInternal,
		"message": "Internal server error",
		"details": map[string]any{
			"request_id": c.GetString("request_id"),
		},
	})
}
