package repository

import "errors"

// Store-level errors shared by every repository implementation.
var (
	// ErrNotFound means no record matched the condition.
	ErrNotFound = errors.New("repository: record not found")
	// ErrDuplicateEntry means a unique constraint was violated.
	ErrDuplicateEntry = errors.New("repository: duplicate entry")
)

var (
	ErrUserNotFound    = ErrNotFound
	ErrArticleNotFound = ErrNotFound
)
