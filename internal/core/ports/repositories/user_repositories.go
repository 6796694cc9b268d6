package repositories

import (
	"context"

	"github.com/skycastapp/skycast_backend/internal/core/domain"
)

// UserReader defines read operations for user data.
type UserReader interface {
	// FindUserByID retrieves a specific user by their ID.
	FindUserByID(ctx context.Context, userID int64) (*domain.User, error)

	// FindUserByEmail retrieves a user by their unique email address.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindUserByGoogleID retrieves a user by their linked Google subject ID.
	FindUserByGoogleID(ctx context.Context, googleID string) (*domain.User, error)
}

// UserWriter defines write operations for user data.
type UserWriter interface {
	// CreateUserWithPassword persists a new password-based user.
	// Returns apperrors.ErrDuplicate if the email is already taken.
	CreateUserWithPassword(ctx context.Context, email, passwordHash, name string) (*domain.User, error)

	// CreateGoogleUser persists a new federated user with a verified email.
	// Returns apperrors.ErrDuplicate if the email is already taken.
	CreateGoogleUser(ctx context.Context, email, googleID, name, avatarURL string) (*domain.User, error)

	// LinkGoogleID binds a Google subject ID (and avatar) to an existing
	// user. Linking an already-linked user is a no-op.
	LinkGoogleID(ctx context.Context, userID int64, googleID, avatarURL string) error
}

// UserRepositoryFacade combines all user-related repository interfaces.
type UserRepositoryFacade interface {
	UserReader
	UserWriter
}
