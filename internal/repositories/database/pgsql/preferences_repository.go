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

type PgxPreferencesRepository struct {
	BaseRepository
}

func newPgxPreferencesRepository(db *pgxpool.Pool) portsrepo.PreferencesRepository {
	return &PgxPreferencesRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.PreferencesRepository = (*PgxPreferencesRepository)(nil)

const (
	preferencesTable = "user_preferences"

	findPreferencesQuery = `
		SELECT user_id, favorite_cities, temperature_unit, created_at, updated_at
		FROM ` + preferencesTable + `
		WHERE user_id = $1
	`

	upsertPreferencesQuery = `
		INSERT INTO ` + preferencesTable + ` (user_id, favorite_cities, temperature_unit)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET
			favorite_cities = EXCLUDED.favorite_cities,
			temperature_unit = EXCLUDED.temperature_unit,
			updated_at = NOW()
	`
)

func (r *PgxPreferencesRepository) FindByUserID(ctx context.Context, userID int64) (*domain.Preferences, error) {
	var prefs domain.Preferences
	err := r.Pool.QueryRow(ctx, findPreferencesQuery, userID).Scan(
		&prefs.UserID,
		&prefs.FavoriteCities,
		&prefs.TemperatureUnit,
		&prefs.CreatedAt,
		&prefs.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find preferences for user %d: %w", userID, err)
	}
	return &prefs, nil
}

func (r *PgxPreferencesRepository) Upsert(ctx context.Context, prefs domain.Preferences) error {
	_, err := r.Pool.Exec(ctx, upsertPreferencesQuery, prefs.UserID, prefs.FavoriteCities, prefs.TemperatureUnit)
	if err != nil {
		return fmt.Errorf("failed to upsert preferences for user %d: %w", prefs.UserID, err)
	}
	return nil
}
