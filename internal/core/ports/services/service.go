package services

// ServiceContainer holds instances of all application services. It is the
// entry point for accessing service functionality, particularly in the
// handlers and middleware.
type ServiceContainer struct {
	User        UserSvcFacade
	Auth        AuthSvcFacade
	Token       TokenSvcFacade
	Google      GoogleSvcFacade
	Weather     WeatherSvcFacade
	Preferences PreferencesSvcFacade
}
