package services

import (
	"context"

	"github.com/skycastapp/skycast_backend/internal/core/domain"
)

// UserSvcFacade defines user identity operations needed by the auth flows
// and the auth gate.
type UserSvcFacade interface {
	// GetUserByID retrieves a user by ID, or apperrors.ErrNotFound.
	GetUserByID(ctx context.Context, userID int64) (*domain.User, error)

	// GetUserByEmail retrieves a user by email, or apperrors.ErrNotFound.
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// CreateUserWithPassword persists a new password-based user.
	CreateUserWithPassword(ctx context.Context, email, passwordHash, name string) (*domain.User, error)

	// CreateOAuthUser resolves a verified Google identity to a local user:
	// match by Google ID first, then by email (linking the Google ID to an
	// email-matched account), creating a fresh federated account otherwise.
	CreateOAuthUser(ctx context.Context, info *domain.GoogleUserInfo) (*domain.User, error)
}
