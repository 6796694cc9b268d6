package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/skycastapp/skycast_backend/internal/apperrors"
	"github.com/skycastapp/skycast_backend/internal/core/domain"
	portsrepo "github.com/skycastapp/skycast_backend/internal/core/ports/repositories"
	portssvc "github.com/skycastapp/skycast_backend/internal/core/ports/services"
)

type preferencesService struct {
	prefsRepo portsrepo.PreferencesRepository
}

func NewPreferencesService(prefsRepo portsrepo.PreferencesRepository) portssvc.PreferencesSvcFacade {
	return &preferencesService{prefsRepo: prefsRepo}
}

// GetPreferences returns saved preferences, falling back to defaults when
// the user never saved any.
func (s *preferencesService) GetPreferences(ctx context.Context, userID int64) (*domain.Preferences, error) {
	prefs, err := s.prefsRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return &domain.Preferences{
				UserID:          userID,
				FavoriteCities:  []string{},
				TemperatureUnit: domain.DefaultTemperatureUnit,
			}, nil
		}
		return nil, fmt.Errorf("failed to get preferences: %w", err)
	}
	return prefs, nil
}

func (s *preferencesService) SavePreferences(ctx context.Context, prefs domain.Preferences) error {
	if prefs.TemperatureUnit == "" {
		prefs.TemperatureUnit = domain.DefaultTemperatureUnit
	}
	if prefs.FavoriteCities == nil {
		prefs.FavoriteCities = []string{}
	}
	return s.prefsRepo.Upsert(ctx, prefs)
}
