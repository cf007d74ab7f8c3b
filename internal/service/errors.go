package service

import (
	"errors"
	"fmt"
)

// Service-level error taxonomy. Handlers map these to HTTP status codes.
var (
	ErrValidation           = errors.New("validation failed")
	ErrEmailTaken           = errors.New("email already registered")
	ErrTitleTaken           = errors.New("article title already exists")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrInvalidToken         = errors.New("invalid or expired token")
	ErrArticleNotFound      = errors.New("article not found")
	ErrInternalServer       = errors.New("internal server error")
)

// validationError wraps ErrValidation with a detail message.
func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
