// Package middleware provides HTTP middleware components.
package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"logitrack/internal/core/apperror"
	"logitrack/pkg/logger"
)

// Recovery turns a panic anywhere below it into a JSON 500.
// It writes the response itself: a panic unwinds past ErrorHandler,
// so nothing else would render it. The panic value stays in the log.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			requestID := c.GetString("request_id")
			logger.Error(c.Request.Context(), "panic recovered",
				"panic", rec,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"request_id", requestID,
				"stack", string(debug.Stack()),
			)

			if c.Writer.Written() {
				c.Abort()
				return
			}

			// The cause is kept for the log only; writeError renders the generic 500.
			writeError(c, apperror.NewInternal(fmt.Errorf("panic: %v", rec)).
				WithDetail("request_id", requestID))
		}()
		c.Next()
	}
}
