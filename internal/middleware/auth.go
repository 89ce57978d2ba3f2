package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/christiansio/hris-auth/internal/service"
)

// CurrentUserKey is where Auth stores the resolved user in the gin
// context.
const CurrentUserKey = "current_user"

// Auth resolves the session cookie to a user and aborts with 401 when it
// cannot. Transient storage faults look identical to a missing session
// here; the service logs them.
func Auth(auth *service.AuthService, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, _ := c.Cookie(cookieName)

		user, err := auth.RequireUser(c.Request.Context(), sessionID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "unauthorized"})
			return
		}

		c.Set(CurrentUserKey, user)
		c.Next()
	}
}
