package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/quickshop/backend/internal/infrastructure/logger"
)

// Session context keys
const (
	SessionIDKey     = "session_id"
	SessionHeaderKey = "X-Session-ID"
)

// maxSessionIDLength bounds the session key stored in redis
const maxSessionIDLength = 64

// SessionRequired extracts the session ID from the X-Session-ID header and
// rejects requests without one. Cart and order routes are session-scoped, so
// there is nothing useful to do for an anonymous request.
func SessionRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := strings.TrimSpace(c.GetHeader(SessionHeaderKey))
		if sessionID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ERR_MISSING_SESSION",
					"message": "X-Session-ID header is required",
				},
			})
			return
		}
		if len(sessionID) > maxSessionIDLength {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ERR_MISSING_SESSION",
					"message": "Session ID is too long",
				},
			})
			return
		}

		c.Set(SessionIDKey, sessionID)

		// Enrich the request-scoped logger so cart and checkout logs carry
		// the session
		ctx := c.Request.Context()
		log := logger.FromContext(ctx)
		ctx, _ = logger.WithSessionID(ctx, log, sessionID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetSessionID retrieves the session ID set by SessionRequired
func GetSessionID(c *gin.Context) string {
	if sessionID, exists := c.Get(SessionIDKey); exists {
		if id, ok := sessionID.(string); ok {
			return id
		}
	}
	return ""
}
