package repositories

import (
	"context"
	"time"

	"github.com/skycastapp/skycast_backend/internal/core/domain"
)

// WeatherCacheRepository is a flat TTL lookup over cached provider
// responses. Stale rows are simply not returned; eviction is not this
// component's concern.
type WeatherCacheRepository interface {
	// FindFresh returns the most recent cache entry for a city that is
	// younger than maxAge, or apperrors.ErrNotFound.
	FindFresh(ctx context.Context, city string, maxAge time.Duration) (*domain.Weather, error)

	// Save stores a provider response for a city.
	Save(ctx context.Context, city string, weather *domain.Weather) error
}

// PreferencesRepository persists per-user weather settings.
type PreferencesRepository interface {
	// FindByUserID returns a user's preferences or apperrors.ErrNotFound.
	FindByUserID(ctx context.Context, userID int64) (*domain.Preferences, error)

	// Upsert creates or replaces a user's preferences.
	Upsert(ctx context.Context, prefs domain.Preferences) error
}
