package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// UserIDKey is the gin context key holding the caller's user ID
const UserIDKey = "userID"

// RequireUser extracts the caller identity from the X-User-ID header. The
// authentication layer in front of this service is expected to validate the
// session and inject the header; requests without it are rejected.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing X-User-ID header",
			})
			return
		}
		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// UserID returns the caller's user ID set by RequireUser
func UserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
