package v1

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cleansweep-app/cleansweep-api/internal/identity"
	"github.com/cleansweep-app/cleansweep-api/internal/notify"
)

const userIDKey = "userID"

// SessionAuthMiddleware validates the bearer session token and injects the
// caller's user id into the request context.
func SessionAuthMiddleware(sessions identity.Service, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			log.Warn("Session token missing from request")
			c.AbortWithStatusJSON(http.StatusUnauthorized, notify.ErrorNotice("Not signed in", "A session token is required."))
			return
		}

		userID, err := sessions.Authenticate(c.Request.Context(), token)
		if err != nil {
			log.WithError(err).Warn("Session token rejected")
			c.AbortWithStatusJSON(http.StatusUnauthorized, notify.ErrorNotice("Session expired", "Please sign in again."))
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// mustUserID returns the authenticated user id set by the middleware.
func mustUserID(c *gin.Context) uuid.UUID {
	val, exists := c.Get(userIDKey)
	if !exists {
		return uuid.Nil
	}
	return val.(uuid.UUID)
}
