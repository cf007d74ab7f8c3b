package repository

import (
	"context"

	"github.com/jamal-o/blog-api/internal/domain"
)

// UserRepository stores accounts.
type UserRepository interface {
	// FindByEmail looks a user up by exact email.
	// Returns ErrUserNotFound when no user has that email.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindByID returns ErrUserNotFound when the id is unknown.
	FindByID(ctx context.Context, id uint) (*domain.User, error)

	// Save inserts a new user. A taken email yields ErrDuplicateEntry.
	Save(ctx context.Context, user *domain.User) error
}
