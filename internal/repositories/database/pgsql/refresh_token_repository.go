package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/skycastapp/skycast_backend/internal/apperrors"
	"github.com/skycastapp/skycast_backend/internal/core/domain"
	portsrepo "github.com/skycastapp/skycast_backend/internal/core/ports/repositories"
)

type PgxRefreshTokenRepository struct {
	BaseRepository
}

func newPgxRefreshTokenRepository(db *pgxpool.Pool) portsrepo.RefreshTokenRepository {
	return &PgxRefreshTokenRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.RefreshTokenRepository = (*PgxRefreshTokenRepository)(nil)

const (
	refreshTokensTable = "refresh_tokens"

	insertRefreshTokenQuery = `
		INSERT INTO ` + refreshTokensTable + ` (user_id, token, expires_at)
		VALUES ($1, $2, $3)
	`

	findValidRefreshTokenQuery = `
		SELECT rt.user_id, u.email, u.name
		FROM ` + refreshTokensTable + ` rt
		JOIN users u ON u.user_id = rt.user_id
		WHERE rt.token = $1 AND rt.expires_at > NOW()
	`

	deleteRefreshTokenQuery = `
		DELETE FROM ` + refreshTokensTable + `
		WHERE token = $1
	`

	deleteExpiredForUserQuery = `
		DELETE FROM ` + refreshTokensTable + `
		WHERE user_id = $1 AND expires_at <= NOW()
	`

	deleteExpiredQuery = `
		DELETE FROM ` + refreshTokensTable + `
		WHERE expires_at <= NOW()
	`
)

func (r *PgxRefreshTokenRepository) SaveRefreshToken(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	_, err := r.Pool.Exec(ctx, insertRefreshTokenQuery, userID, token, expiresAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to save refresh token: %w", err)
	}
	return nil
}

// FindValidRefreshToken resolves a token to its owner. Rows at or past their
// expiry are never matched, present or not.
func (r *PgxRefreshTokenRepository) FindValidRefreshToken(ctx context.Context, token string) (*domain.RefreshTokenOwner, error) {
	var owner domain.RefreshTokenOwner
	err := r.Pool.QueryRow(ctx, findValidRefreshTokenQuery, token).Scan(
		&owner.UserID,
		&owner.Email,
		&owner.Name,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find refresh token: %w", err)
	}
	return &owner, nil
}

// DeleteRefreshToken removes a token row in a single statement and reports
// the number of rows deleted. Concurrent rotations of the same token
// serialize here: exactly one caller sees 1.
func (r *PgxRefreshTokenRepository) DeleteRefreshToken(ctx context.Context, token string) (int64, error) {
	tag, err := r.Pool.Exec(ctx, deleteRefreshTokenQuery, token)
	if err != nil {
		return 0, fmt.Errorf("failed to delete refresh token: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *PgxRefreshTokenRepository) DeleteExpiredForUser(ctx context.Context, userID int64) error {
	_, err := r.Pool.Exec(ctx, deleteExpiredForUserQuery, userID)
	if err != nil {
		return fmt.Errorf("failed to sweep expired refresh tokens for user %d: %w", userID, err)
	}
	return nil
}

func (r *PgxRefreshTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := r.Pool.Exec(ctx, deleteExpiredQuery)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep expired refresh tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}
