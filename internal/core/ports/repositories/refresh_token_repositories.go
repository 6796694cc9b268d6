package repositories

import (
	"context"
	"time"

	"github.com/skycastapp/skycast_backend/internal/core/domain"
)

// RefreshTokenRepository manages the lifecycle of server-tracked refresh
// tokens. Rows are deleted, never marked, so a token can authorize at most
// one rotation.
type RefreshTokenRepository interface {
	// SaveRefreshToken persists a newly issued refresh token.
	SaveRefreshToken(ctx context.Context, userID int64, token string, expiresAt time.Time) error

	// FindValidRefreshToken resolves a token to its owning identity. A row
	// whose expiry is not strictly in the future is treated as absent and
	// apperrors.ErrNotFound is returned.
	FindValidRefreshToken(ctx context.Context, token string) (*domain.RefreshTokenOwner, error)

	// DeleteRefreshToken removes a token row and reports how many rows were
	// deleted. The count is the rotation serializer: of two concurrent
	// rotations of the same token, exactly one observes 1.
	DeleteRefreshToken(ctx context.Context, token string) (int64, error)

	// DeleteExpiredForUser sweeps a single user's expired token rows.
	DeleteExpiredForUser(ctx context.Context, userID int64) error

	// DeleteExpired sweeps all expired token rows. Best-effort, idempotent.
	DeleteExpired(ctx context.Context) (int64, error)
}
