package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/jamal-o/blog-api/internal/service"
)

// Response messages shared across handlers.
const (
	msgEmailTaken       = "User with this email already exists"
	msgTitleTaken       = "Article with this title already exists"
	msgBadCredentials   = "Username or password is incorrect"
	msgUnauthorized     = "Unauthorized"
	msgArticleNotFound  = "Article not found"
	msgInternalError    = "Internal Server Error"
	msgNotFound         = "Not found"
	msgInvalidBlog      = "Invalid blog"
	msgInvalidQuery     = "Invalid query"
	msgInvalidSignup    = "Invalid signup credentials"
	msgInvalidLogin     = "Invalid login credentials"
	msgSignupSuccessful = "Signup successful"
	msgLoginSuccessful  = "Login successful"
	msgArticlePublished = "Article published successfully"
	msgArticleDeleted   = "Article deleted successfully"
)

// HandleServiceError maps a service error to a response. invalidMessage is
// the route-specific message used for validation failures.
func HandleServiceError(c *gin.Context, err error, invalidMessage string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		ErrorDetailResponse(c, http.StatusBadRequest, invalidMessage, err.Error())
	case errors.Is(err, service.ErrEmailTaken):
		ErrorResponse(c, http.StatusBadRequest, msgEmailTaken)
	case errors.Is(err, service.ErrTitleTaken):
		ErrorResponse(c, http.StatusBadRequest, msgTitleTaken)
	case errors.Is(err, service.ErrAuthenticationFailed):
		ErrorResponse(c, http.StatusUnauthorized, msgBadCredentials)
	case errors.Is(err, service.ErrInvalidToken):
		ErrorResponse(c, http.StatusUnauthorized, msgUnauthorized)
	case errors.Is(err, service.ErrArticleNotFound):
		ErrorResponse(c, http.StatusNotFound, msgArticleNotFound)
	default:
		logrus.WithError(err).WithField("path", c.FullPath()).Error("Unhandled internal server error")
		ErrorResponse(c, http.StatusInternalServerError, msgInternalError)
	}
}

// NotFound answers unmatched routes.
func NotFound(c *gin.Context) {
	ErrorResponse(c, http.StatusNotFound, msgNotFound)
}
