package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/skycastapp/skycast_backend/internal/apperrors"
	"github.com/skycastapp/skycast_backend/internal/core/domain"
	portsrepo "github.com/skycastapp/skycast_backend/internal/core/ports/repositories"
	portssvc "github.com/skycastapp/skycast_backend/internal/core/ports/services"
	"github.com/skycastapp/skycast_backend/internal/platform/config"
)

const forecastDays = 3

// weatherAPIResponse mirrors the provider's forecast.json payload, reduced
// to the fields this application serves.
type weatherAPIResponse struct {
	Location struct {
		Name    string `json:"name"`
		Country string `json:"country"`
	} `json:"location"`
	Current struct {
		TempC     float64 `json:"temp_c"`
		Condition struct {
			Text string `json:"text"`
			Icon string `json:"icon"`
		} `json:"condition"`
		Humidity   int     `json:"humidity"`
		WindKph    float64 `json:"wind_kph"`
		FeelslikeC float64 `json:"feelslike_c"`
	} `json:"current"`
	Forecast struct {
		Forecastday []struct {
			Date string `json:"date"`
			Day  struct {
				MaxtempC  float64 `json:"maxtemp_c"`
				MintempC  float64 `json:"mintemp_c"`
				Condition struct {
					Icon string `json:"icon"`
				} `json:"condition"`
			} `json:"day"`
		} `json:"forecastday"`
	} `json:"forecast"`
}

// weatherService serves forecasts through a read-through TTL cache in front
// of the upstream provider.
type weatherService struct {
	cfg        *config.Config
	cache      portsrepo.WeatherCacheRepository
	httpClient *http.Client
	logger     *slog.Logger
}

func NewWeatherService(cfg *config.Config, cache portsrepo.WeatherCacheRepository, logger *slog.Logger) portssvc.WeatherSvcFacade {
	return &weatherService{
		cfg:        cfg,
		cache:      cache,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

func (s *weatherService) GetWeather(ctx context.Context, city string) (*domain.Weather, error) {
	cached, err := s.cache.FindFresh(ctx, city, s.cfg.WeatherCacheTTL)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		// Cache trouble should not take the endpoint down.
		s.logger.WarnContext(ctx, "Weather cache read failed", slog.String("city", city), slog.String("error", err.Error()))
	}

	weather, err := s.fetchFromProvider(ctx, city)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Save(ctx, city, weather); err != nil {
		s.logger.WarnContext(ctx, "Weather cache write failed", slog.String("city", city), slog.String("error", err.Error()))
	}

	return weather, nil
}

func (s *weatherService) fetchFromProvider(ctx context.Context, city string) (*domain.Weather, error) {
	query := url.Values{}
	query.Set("key", s.cfg.WeatherAPIKey)
	query.Set("q", city)
	query.Set("days", fmt.Sprintf("%d", forecastDays))
	query.Set("aqi", "no")
	query.Set("alerts", "no")

	reqURL := fmt.Sprintf("%s/forecast.json?%s", s.cfg.WeatherAPIBaseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build weather request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to contact weather provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusBadRequest {
		// The provider answers 400 for unknown locations.
		return nil, apperrors.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather provider returned non-200 status: %s", resp.Status)
	}

	var raw weatherAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode weather provider response: %w", err)
	}

	return mapWeatherResponse(&raw), nil
}

func mapWeatherResponse(raw *weatherAPIResponse) *domain.Weather {
	weather := &domain.Weather{
		Location: domain.WeatherLocation{
			Name:    raw.Location.Name,
			Country: raw.Location.Country,
		},
		Current: domain.CurrentConditions{
			Temperature: raw.Current.TempC,
			Condition:   raw.Current.Condition.Text,
			Icon:        raw.Current.Condition.Icon,
			Humidity:    raw.Current.Humidity,
			WindSpeed:   raw.Current.WindKph,
			FeelsLike:   raw.Current.FeelslikeC,
		},
	}

	for _, day := range raw.Forecast.Forecastday {
		weekday := ""
		if date, err := time.Parse("2006-01-02", day.Date); err == nil {
			weekday = date.Weekday().String()
		}
		weather.Forecast = append(weather.Forecast, domain.ForecastDay{
			Date:    day.Date,
			Day:     weekday,
			Icon:    day.Day.Condition.Icon,
			MaxTemp: day.Day.MaxtempC,
			MinTemp: day.Day.MintempC,
		})
	}

	return weather
}
