package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/jamal-o/blog-api/internal/service"
)

// Context keys set by Auth.
const (
	ContextUserID    = "user_id"
	ContextUserEmail = "user_email"
)

// ErrMissingAuthHeader is returned when no Authorization header was sent.
var ErrMissingAuthHeader = errors.New("missing Authorization header")

// ErrMalformedAuthHeader is returned when the header is not "Bearer <token>".
var ErrMalformedAuthHeader = errors.New("malformed Authorization header")

// TokenVerifier checks a bearer token and returns the identity it carries.
type TokenVerifier interface {
	Verify(token string) (*service.Identity, error)
}

// Auth returns a gin middleware that requires a valid bearer token and stores
// the caller's identity in the context.
func Auth(verifier TokenVerifier) gin.HandlerFunc {
	if verifier == nil {
		panic("TokenVerifier cannot be nil for Auth middleware")
	}

	return func(c *gin.Context) {
		tokenStr, err := extractToken(c)
		if err != nil {
			logrus.WithError(err).Warn("Auth middleware: rejected request")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}

		identity, err := verifier.Verify(tokenStr)
		if err != nil {
			logrus.WithError(err).Warn("Auth middleware: invalid token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}

		c.Set(ContextUserID, identity.ID)
		c.Set(ContextUserEmail, identity.Email)
		logrus.WithField("user_id", identity.ID).Debug("Auth middleware: user authenticated")

		c.Next()
	}
}

// UserID returns the authenticated caller's id set by Auth.
func UserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get(ContextUserID)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id > 0
}

func extractToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", ErrMissingAuthHeader
	}
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", ErrMalformedAuthHeader
	}
	return parts[1], nil
}
