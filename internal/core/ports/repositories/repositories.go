package repositories

// RepositoryProvider bundles every repository implementation behind its
// facade interface so wiring stays in one place.
type RepositoryProvider struct {
	UserRepo         UserRepositoryFacade
	RefreshTokenRepo RefreshTokenRepository
	WeatherCacheRepo WeatherCacheRepository
	PreferencesRepo  PreferencesRepository
}
