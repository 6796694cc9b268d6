package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/skycastapp/skycast_backend/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UserRepo:         newPgxUserRepository(dbPool),
		RefreshTokenRepo: newPgxRefreshTokenRepository(dbPool),
		WeatherCacheRepo: newPgxWeatherCacheRepository(dbPool),
		PreferencesRepo:  newPgxPreferencesRepository(dbPool),
	}
}
