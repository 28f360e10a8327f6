package middleware

import (
	"github.com/gin-gonic/gin"

	"logitrack/internal/core/security"
)

// UserContext builds the caller's AccessScope once and stores it in the request context.
// Must run after Auth.
func UserContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		scope := security.NewAccessScope(c.Request.Context())
		c.Request = c.Request.WithContext(security.WithScope(c.Request.Context(), scope))
		c.Next()
	}
}
