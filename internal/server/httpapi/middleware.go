package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const userIDKey = "userID"

// requireSession authenticates the request from the session cookie, falling
// back to an Authorization bearer header, and stores the subject user id in
// the gin context. Every verification failure is the same generic 401; the
// specific reason stays in the server log.
func (s *HTTPServer) requireSession(c *gin.Context) {

	token, err := c.Cookie(sessionCookieName)
	if err != nil || token == "" {
		if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
			token = strings.TrimPrefix(h, "Bearer ")
		}
	}

	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authenticated"})
		return
	}

	userID, err := s.users.VerifyToken(token)
	if err != nil {
		s.logger.Info(c.Request.Context(), "session rejected", "error", err)
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authenticated"})
		return
	}

	c.Set(userIDKey, userID)
	c.Next()
}
