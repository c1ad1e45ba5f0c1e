package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"playlister/api/internal/security"
)

// SessionUserIDKey is where SessionAuth parks the resolved user id for
// downstream handlers.
const SessionUserIDKey = "session_user_id"

// SessionAuth gates a route group on a valid session cookie. It resolves the
// token to a user id only; whether that id still maps to a stored user is the
// handler's concern. A missing cookie and a bad token both abort 401 with
// message.
func SessionAuth(verify security.TokenVerifier, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := security.ResolveSession(c.Request, verify)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"errorMessage": message})
			return
		}

		c.Set(SessionUserIDKey, userID)
		c.Next()
	}
}
