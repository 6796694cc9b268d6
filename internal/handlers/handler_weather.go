package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skycastapp/skycast_backend/internal/apperrors"
	portssvc "github.com/skycastapp/skycast_backend/internal/core/ports/services"
	"github.com/skycastapp/skycast_backend/internal/middleware"
)

// WeatherHandler serves forecast lookups.
type WeatherHandler struct {
	weatherService portssvc.WeatherSvcFacade
}

func NewWeatherHandler(weatherService portssvc.WeatherSvcFacade) *WeatherHandler {
	return &WeatherHandler{weatherService: weatherService}
}

// GetWeather godoc
// @Summary City forecast
// @Description Returns the current conditions and 3-day forecast for a city, cached for one hour.
// @Tags weather
// @Produce json
// @Param city path string true "City name"
// @Success 200 {object} domain.Weather
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /weather/{city} [get]
func (h *WeatherHandler) GetWeather(c *gin.Context) {
	city := c.Param("city")

	weather, err := h.weatherService.GetWeather(c.Request.Context(), city)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "City not found"})
			return
		}
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Failed to fetch weather", slog.String("city", city), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch weather"})
		return
	}

	c.JSON(http.StatusOK, weather)
}
