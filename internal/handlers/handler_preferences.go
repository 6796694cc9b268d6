package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skycastapp/skycast_backend/internal/core/domain"
	portssvc "github.com/skycastapp/skycast_backend/internal/core/ports/services"
	"github.com/skycastapp/skycast_backend/internal/dto"
	"github.com/skycastapp/skycast_backend/internal/middleware"
)

// PreferencesHandler manages per-user weather settings.
type PreferencesHandler struct {
	preferencesService portssvc.PreferencesSvcFacade
}

func NewPreferencesHandler(preferencesService portssvc.PreferencesSvcFacade) *PreferencesHandler {
	return &PreferencesHandler{preferencesService: preferencesService}
}

// GetPreferences godoc
// @Summary Get preferences
// @Description Returns the caller's saved preferences, or defaults.
// @Tags preferences
// @Produce json
// @Success 200 {object} dto.PreferencesResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /preferences [get]
func (h *PreferencesHandler) GetPreferences(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Access token required"})
		return
	}

	prefs, err := h.preferencesService.GetPreferences(c.Request.Context(), userID)
	if err != nil {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Failed to get preferences", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Database error"})
		return
	}

	c.JSON(http.StatusOK, dto.ToPreferencesResponse(prefs))
}

// SavePreferences godoc
// @Summary Save preferences
// @Description Creates or replaces the caller's preferences.
// @Tags preferences
// @Accept json
// @Produce json
// @Param preferences body dto.SavePreferencesRequest true "Preferences"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /preferences [post]
func (h *PreferencesHandler) SavePreferences(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Access token required"})
		return
	}

	var req dto.SavePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	prefs := domain.Preferences{
		UserID:          userID,
		FavoriteCities:  req.FavoriteCities,
		TemperatureUnit: req.TemperatureUnit,
	}
	if err := h.preferencesService.SavePreferences(c.Request.Context(), prefs); err != nil {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Failed to save preferences", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
