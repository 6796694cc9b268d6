package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	RefreshTokenExpiryDuration time.Duration
	RefreshTokenSweepInterval  time.Duration

	// Credential-submission throttling (registration, password login).
	AuthRateLimit  int64
	AuthRateWindow time.Duration

	// External OAuth provider
	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `mapstructure:"GOOGLE_REDIRECT_URL"`
	FrontendBaseURL    string `mapstructure:"FRONTEND_BASE_URL"`

	// Weather provider + response cache
	WeatherAPIKey     string        `mapstructure:"WEATHER_API_KEY"`
	WeatherAPIBaseURL string        `mapstructure:"WEATHER_API_BASE_URL"`
	WeatherCacheTTL   time.Duration `mapstructure:"WEATHER_CACHE_TTL"`

	PosthogAPIKey string `mapstructure:"POSTHOG_API_KEY"`
}

// LoadConfig loads configuration from environment variables and a .env file
// if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "15m")
	viper.SetDefault("JWT_ISSUER", "skycast-backend")
	viper.SetDefault("REFRESH_TOKEN_EXPIRY_DURATION", "168h")
	viper.SetDefault("REFRESH_TOKEN_SWEEP_INTERVAL", "1h")
	viper.SetDefault("AUTH_RATE_LIMIT", 5)
	viper.SetDefault("AUTH_RATE_WINDOW", "15m")
	viper.SetDefault("GOOGLE_CLIENT_ID", "")
	viper.SetDefault("GOOGLE_CLIENT_SECRET", "")
	viper.SetDefault("GOOGLE_REDIRECT_URL", "")
	viper.SetDefault("FRONTEND_BASE_URL", "http://localhost:5173")
	viper.SetDefault("WEATHER_API_KEY", "")
	viper.SetDefault("WEATHER_API_BASE_URL", "https://api.weatherapi.com/v1")
	viper.SetDefault("WEATHER_CACHE_TTL", "1h")
	viper.SetDefault("POSTHOG_API_KEY", "")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = 15 * time.Minute
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration

	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	refreshExpiryStr := viper.GetString("REFRESH_TOKEN_EXPIRY_DURATION")
	refreshExpiryDuration, err := time.ParseDuration(refreshExpiryStr)
	if err != nil {
		refreshExpiryDuration = 7 * 24 * time.Hour
		log.Printf("Warning: Invalid value for REFRESH_TOKEN_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", refreshExpiryStr, refreshExpiryDuration.String())
	}
	cfg.RefreshTokenExpiryDuration = refreshExpiryDuration

	sweepStr := viper.GetString("REFRESH_TOKEN_SWEEP_INTERVAL")
	sweepInterval, err := time.ParseDuration(sweepStr)
	if err != nil {
		sweepInterval = time.Hour
		log.Printf("Warning: Invalid value for REFRESH_TOKEN_SWEEP_INTERVAL ('%s'). Defaulting to %s.\n", sweepStr, sweepInterval.String())
	}
	cfg.RefreshTokenSweepInterval = sweepInterval

	cfg.AuthRateLimit = viper.GetInt64("AUTH_RATE_LIMIT")
	if cfg.AuthRateLimit <= 0 {
		cfg.AuthRateLimit = 5
	}
	rateWindowStr := viper.GetString("AUTH_RATE_WINDOW")
	rateWindow, err := time.ParseDuration(rateWindowStr)
	if err != nil {
		rateWindow = 15 * time.Minute
		log.Printf("Warning: Invalid value for AUTH_RATE_WINDOW ('%s'). Defaulting to %s.\n", rateWindowStr, rateWindow.String())
	}
	cfg.AuthRateWindow = rateWindow

	cfg.GoogleClientID = viper.GetString("GOOGLE_CLIENT_ID")
	cfg.GoogleClientSecret = viper.GetString("GOOGLE_CLIENT_SECRET")
	cfg.GoogleRedirectURL = viper.GetString("GOOGLE_REDIRECT_URL")
	cfg.FrontendBaseURL = viper.GetString("FRONTEND_BASE_URL")

	if cfg.GoogleClientID == "" {
		log.Println("Warning: GOOGLE_CLIENT_ID not set. Google sign-in will not function.")
	}
	if cfg.GoogleClientSecret == "" {
		log.Println("Warning: GOOGLE_CLIENT_SECRET not set. Google code exchange will not function.")
	}

	cfg.WeatherAPIKey = viper.GetString("WEATHER_API_KEY")
	if cfg.WeatherAPIKey == "" {
		log.Println("Warning: WEATHER_API_KEY not set. Weather lookups will not function.")
	}
	cfg.WeatherAPIBaseURL = viper.GetString("WEATHER_API_BASE_URL")

	cacheTTLStr := viper.GetString("WEATHER_CACHE_TTL")
	cacheTTL, err := time.ParseDuration(cacheTTLStr)
	if err != nil {
		cacheTTL = time.Hour
		log.Printf("Warning: Invalid value for WEATHER_CACHE_TTL ('%s'). Defaulting to %s.\n", cacheTTLStr, cacheTTL.String())
	}
	cfg.WeatherCacheTTL = cacheTTL

	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")

	return cfg, nil
}
