package domain

import "time"

// DefaultTemperatureUnit is used when a user has not saved preferences yet.
const DefaultTemperatureUnit = "celsius"

// Preferences holds a user's saved weather settings.
type Preferences struct {
	UserID          int64     `json:"userID"`
	FavoriteCities  []string  `json:"favoriteCities"`
	TemperatureUnit string    `json:"temperatureUnit"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
