package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/jamal-o/blog-api/internal/domain"
	"github.com/jamal-o/blog-api/internal/repository"
)

// bcryptCost is the work factor for password hashes.
const bcryptCost = 10

// SignupInput carries the fields of a new account.
type SignupInput struct {
	FirstName string `validate:"required"`
	LastName  string `validate:"required"`
	Email     string `validate:"required,email"`
	Password  string `validate:"required"`
}

// AuthService handles signup and login.
type AuthService struct {
	userRepo repository.UserRepository
	tokens   *TokenIssuer
	validate *validator.Validate
}

// NewAuthService creates an AuthService.
func NewAuthService(userRepo repository.UserRepository, tokens *TokenIssuer) *AuthService {
	if userRepo == nil {
		panic("UserRepository cannot be nil for AuthService")
	}
	if tokens == nil {
		panic("TokenIssuer cannot be nil for AuthService")
	}
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		validate: validator.New(),
	}
}

// Signup validates the input, hashes the password and stores the user.
// The returned user carries no password hash.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*domain.User, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)
	logCtx := logrus.WithField("email", in.Email)

	if err := s.validate.Struct(in); err != nil {
		logCtx.WithError(err).Warn("Signup rejected: invalid input")
		return nil, validationError("%v", err)
	}

	hashed, err := hashPassword(in.Password)
	if err != nil {
		logCtx.WithError(err).Error("Failed to hash password during signup")
		return nil, ErrInternalServer
	}

	user := &domain.User{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Password:  hashed,
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			logCtx.Warn("Signup failed: email already registered")
			return nil, ErrEmailTaken
		}
		logCtx.WithError(err).Error("Database error during user creation")
		return nil, ErrInternalServer
	}

	logCtx.WithField("user_id", user.ID).Info("User signed up successfully")
	user.Password = ""
	return user, nil
}

// Login verifies the credentials and returns a signed token. Unknown email and
// wrong password both yield ErrAuthenticationFailed.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	logCtx := logrus.WithField("email", email)

	if email == "" || password == "" {
		return "", validationError("email and password are required")
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			logCtx.Warn("Login attempt failed: user not found")
			return "", ErrAuthenticationFailed
		}
		logCtx.WithError(err).Error("Login attempt failed: error finding user")
		return "", ErrInternalServer
	}
	if user == nil {
		logCtx.Warn("Login attempt failed: repository returned nil user")
		return "", ErrAuthenticationFailed
	}

	if !checkPassword(password, user.Password) {
		logCtx.Warn("Login attempt failed: invalid password")
		return "", ErrAuthenticationFailed
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		logCtx.WithError(err).Error("Failed to generate JWT token during login")
		return "", ErrInternalServer
	}

	logCtx.WithField("user_id", user.ID).Info("User logged in successfully")
	return token, nil
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to generate hash from password: %w", err)
	}
	return string(bytes), nil
}

func checkPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
