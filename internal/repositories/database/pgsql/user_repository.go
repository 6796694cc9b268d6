package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/skycastapp/skycast_backend/internal/apperrors"
	"github.com/skycastapp/skycast_backend/internal/core/domain"
	portsrepo "github.com/skycastapp/skycast_backend/internal/core/ports/repositories"
)

type PgxUserRepository struct {
	BaseRepository
}

func newPgxUserRepository(db *pgxpool.Pool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{BaseRepository: BaseRepository{Pool: db}}
}

// Ensure PgxUserRepository implements portsrepo.UserRepositoryFacade
var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

const (
	usersTable = "users"

	selectUserFields = `
		user_id, email, password_hash, google_id, name, avatar_url,
		email_verified, created_at, updated_at
	`

	findUserByIDQuery = `
		SELECT ` + selectUserFields + `
		FROM ` + usersTable + `
		WHERE user_id = $1
	`

	findUserByEmailQuery = `
		SELECT ` + selectUserFields + `
		FROM ` + usersTable + `
		WHERE email = $1
	`

	findUserByGoogleIDQuery = `
		SELECT ` + selectUserFields + `
		FROM ` + usersTable + `
		WHERE google_id = $1
	`

	insertPasswordUserQuery = `
		INSERT INTO ` + usersTable + ` (email, password_hash, name)
		VALUES ($1, $2, $3)
		RETURNING ` + selectUserFields

	insertGoogleUserQuery = `
		INSERT INTO ` + usersTable + ` (email, google_id, name, avatar_url, email_verified)
		VALUES ($1, $2, $3, $4, TRUE)
		RETURNING ` + selectUserFields

	linkGoogleIDQuery = `
		UPDATE ` + usersTable + `
		SET google_id = $2, avatar_url = COALESCE(NULLIF($3, ''), avatar_url), updated_at = NOW()
		WHERE user_id = $1 AND google_id IS NULL
	`
)

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.UserID,
		&user.Email,
		&user.PasswordHash,
		&user.GoogleID,
		&user.Name,
		&user.AvatarURL,
		&user.EmailVerified,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := scanUser(r.Pool.QueryRow(ctx, findUserByIDQuery, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by ID %d: %w", userID, err)
	}
	return user, nil
}

func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := scanUser(r.Pool.QueryRow(ctx, findUserByEmailQuery, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return user, nil
}

func (r *PgxUserRepository) FindUserByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	user, err := scanUser(r.Pool.QueryRow(ctx, findUserByGoogleIDQuery, googleID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by google ID: %w", err)
	}
	return user, nil
}

// CreateUserWithPassword inserts a password-based user. The unique index on
// email makes the duplicate check and the insert a single atomic step.
func (r *PgxUserRepository) CreateUserWithPassword(ctx context.Context, email, passwordHash, name string) (*domain.User, error) {
	user, err := scanUser(r.Pool.QueryRow(ctx, insertPasswordUserQuery, email, passwordHash, name))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (r *PgxUserRepository) CreateGoogleUser(ctx context.Context, email, googleID, name, avatarURL string) (*domain.User, error) {
	var avatar *string
	if avatarURL != "" {
		avatar = &avatarURL
	}
	user, err := scanUser(r.Pool.QueryRow(ctx, insertGoogleUserQuery, email, googleID, name, avatar))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create google user: %w", err)
	}
	return user, nil
}

// LinkGoogleID binds a Google subject to an existing account. The
// `google_id IS NULL` guard makes re-linking a no-op.
func (r *PgxUserRepository) LinkGoogleID(ctx context.Context, userID int64, googleID, avatarURL string) error {
	_, err := r.Pool.Exec(ctx, linkGoogleIDQuery, userID, googleID, avatarURL)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to link google ID to user %d: %w", userID, err)
	}
	return nil
}
