package dto

import (
	"github.com/skycastapp/skycast_backend/internal/core/domain"
)

// SavePreferencesRequest is the body for POST /preferences.
type SavePreferencesRequest struct {
	FavoriteCities  []string `json:"favoriteCities"`
	TemperatureUnit string   `json:"temperatureUnit" binding:"omitempty,oneof=celsius fahrenheit"`
}

// PreferencesResponse is the caller-facing view of saved preferences.
type PreferencesResponse struct {
	FavoriteCities  []string `json:"favoriteCities"`
	TemperatureUnit string   `json:"temperatureUnit"`
}

// ToPreferencesResponse converts domain.Preferences to the response DTO.
func ToPreferencesResponse(prefs *domain.Preferences) PreferencesResponse {
	cities := prefs.FavoriteCities
	if cities == nil {
		cities = []string{}
	}
	return PreferencesResponse{
		FavoriteCities:  cities,
		TemperatureUnit: prefs.TemperatureUnit,
	}
}
