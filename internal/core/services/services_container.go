package services

import (
	"log/slog"

	portsrepo "github.com/skycastapp/skycast_backend/internal/core/ports/repositories"
	portssvc "github.com/skycastapp/skycast_backend/internal/core/ports/services"
	"github.com/skycastapp/skycast_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly
// initialized dependencies.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, logger *slog.Logger) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.User = NewUserService(repos.UserRepo)
	container.Token = NewTokenService(cfg)
	container.Google = NewGoogleService(cfg)
	container.Auth = NewAuthService(container.User, repos.RefreshTokenRepo, container.Token, container.Google, logger)
	container.Weather = NewWeatherService(cfg, repos.WeatherCacheRepo, logger)
	container.Preferences = NewPreferencesService(repos.PreferencesRepo)

	return container
}

// Compile-time interface checks.
var (
	_ portssvc.UserSvcFacade        = (*userService)(nil)
	_ portssvc.TokenSvcFacade       = (*tokenService)(nil)
	_ portssvc.GoogleSvcFacade      = (*googleService)(nil)
	_ portssvc.WeatherSvcFacade     = (*weatherService)(nil)
	_ portssvc.PreferencesSvcFacade = (*preferencesService)(nil)
)
