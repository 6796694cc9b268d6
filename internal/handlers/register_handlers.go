package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/skycastapp/skycast_backend/cmd/docs"
	portssvc "github.com/skycastapp/skycast_backend/internal/core/ports/services"
	"github.com/skycastapp/skycast_backend/internal/middleware"
	"github.com/skycastapp/skycast_backend/internal/platform/config"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies
// using interfaces.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	registerAuthRoutes(r, cfg, services)
	setupAPIV1Routes(r, cfg, services)
	setupSwaggerRoutes(r, cfg)
}

// registerAuthRoutes sets up the authentication routes. Registration and
// password login sit behind the rate limiter; token verification, refresh
// and the federated flow do not.
func registerAuthRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	h := NewAuthHandler(services.Auth)

	authLimiter := middleware.NewAuthLimiter(cfg.AuthRateLimit, cfg.AuthRateWindow)
	limitMiddleware := middleware.RateLimit(authLimiter)

	requireAuth := middleware.AuthMiddleware(cfg.JWTSecret, services.User)

	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/register", limitMiddleware, h.Register)
		auth.POST("/login", limitMiddleware, h.Login)
		auth.POST("/google", h.GoogleSignIn)
		auth.POST("/google/exchange-code", h.ExchangeCodeGoogle)
		auth.POST("/refresh", h.Refresh)
		auth.POST("/logout", requireAuth, h.Logout)
		auth.GET("/me", requireAuth, h.Me)
	}
}

// setupAPIV1Routes configures the /api/v1 feature routes.
func setupAPIV1Routes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	weatherHandler := NewWeatherHandler(services.Weather)
	preferencesHandler := NewPreferencesHandler(services.Preferences)

	// Weather works anonymously; a valid token just attaches the identity.
	optionalAuth := middleware.OptionalAuthMiddleware(cfg.JWTSecret, services.User)
	r.GET("/api/v1/weather/:city", optionalAuth, weatherHandler.GetWeather)

	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret, services.User))
	{
		v1.GET("/preferences", preferencesHandler.GetPreferences)
		v1.POST("/preferences", preferencesHandler.SavePreferences)
	}
}

// setupSwaggerRoutes configures the swagger documentation routes.
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
