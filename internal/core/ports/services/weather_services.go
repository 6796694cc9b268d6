package services

import (
	"context"

	"github.com/skycastapp/skycast_backend/internal/core/domain"
)

// WeatherSvcFacade serves forecasts through a read-through response cache.
type WeatherSvcFacade interface {
	// GetWeather returns the forecast for a city, from cache when a fresh
	// entry exists and from the upstream provider otherwise.
	GetWeather(ctx context.Context, city string) (*domain.Weather, error)
}

// PreferencesSvcFacade manages per-user weather settings.
type PreferencesSvcFacade interface {
	// GetPreferences returns the user's saved preferences, or defaults when
	// none were saved yet.
	GetPreferences(ctx context.Context, userID int64) (*domain.Preferences, error)

	// SavePreferences creates or replaces the user's preferences.
	SavePreferences(ctx context.Context, prefs domain.Preferences) error
}
