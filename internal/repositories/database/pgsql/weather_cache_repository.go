package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/skycastapp/skycast_backend/internal/apperrors"
	"github.com/skycastapp/skycast_backend/internal/core/domain"
	portsrepo "github.com/skycastapp/skycast_backend/internal/core/ports/repositories"
)

type PgxWeatherCacheRepository struct {
	BaseRepository
}

func newPgxWeatherCacheRepository(db *pgxpool.Pool) portsrepo.WeatherCacheRepository {
	return &PgxWeatherCacheRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.WeatherCacheRepository = (*PgxWeatherCacheRepository)(nil)

const (
	weatherCacheTable = "weather_cache"

	findFreshWeatherQuery = `
		SELECT data
		FROM ` + weatherCacheTable + `
		WHERE city = $1 AND cached_at > $2
		ORDER BY cached_at DESC
		LIMIT 1
	`

	insertWeatherQuery = `
		INSERT INTO ` + weatherCacheTable + ` (city, data)
		VALUES ($1, $2)
	`
)

func (r *PgxWeatherCacheRepository) FindFresh(ctx context.Context, city string, maxAge time.Duration) (*domain.Weather, error) {
	var raw []byte
	cutoff := time.Now().Add(-maxAge)
	err := r.Pool.QueryRow(ctx, findFreshWeatherQuery, city, cutoff).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read weather cache for %q: %w", city, err)
	}

	var weather domain.Weather
	if err := json.Unmarshal(raw, &weather); err != nil {
		// A row that no longer decodes is no better than a miss.
		return nil, apperrors.ErrNotFound
	}
	return &weather, nil
}

func (r *PgxWeatherCacheRepository) Save(ctx context.Context, city string, weather *domain.Weather) error {
	raw, err := json.Marshal(weather)
	if err != nil {
		return fmt.Errorf("failed to encode weather for cache: %w", err)
	}
	if _, err := r.Pool.Exec(ctx, insertWeatherQuery, city, raw); err != nil {
		return fmt.Errorf("failed to write weather cache for %q: %w", city, err)
	}
	return nil
}
