package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/skycastapp/skycast_backend/internal/apperrors"
	portssvc "github.com/skycastapp/skycast_backend/internal/core/ports/services"
	"github.com/skycastapp/skycast_backend/internal/dto"
	"github.com/skycastapp/skycast_backend/internal/middleware"
)

// ErrorResponse is a generic error response structure for handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}

// AuthHandler handles authentication related requests.
type AuthHandler struct {
	authService portssvc.AuthSvcFacade
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService portssvc.AuthSvcFacade) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// validationMessage extracts the caller-safe part of a validation error.
func validationMessage(err error, fallback string) string {
	msg := err.Error()
	if idx := strings.Index(msg, ": "); idx >= 0 {
		return msg[idx+2:]
	}
	return fallback
}

// Register godoc
// @Summary Register new user
// @Description Creates a password-based account and signs the user in.
// @Tags auth
// @Accept json
// @Produce json
// @Param register body dto.RegisterRequest true "User Registration Info"
// @Success 201 {object} dto.AuthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Conflict (email already registered)"
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Email, password, and name are required"})
		return
	}

	user, pair, err := h.authService.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: validationMessage(err, "Invalid registration input")})
		case errors.Is(err, apperrors.ErrDuplicate):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "User already exists with this email"})
		default:
			logger := middleware.GetLoggerFromCtx(c.Request.Context())
			logger.Error("Failed to register user", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.AuthResponse{
		Message:      "User created successfully",
		User:         dto.ToUserResponse(user),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// Login godoc
// @Summary User login
// @Description Authenticates a user by email and password.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Email and password are required"})
		return
	}

	user, pair, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: validationMessage(err, "Invalid login input")})
		case errors.Is(err, apperrors.ErrUnauthorized):
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid credentials"})
		default:
			logger := middleware.GetLoggerFromCtx(c.Request.Context())
			logger.Error("Failed to log user in", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{
		Message:      "Login successful",
		User:         dto.ToUserResponse(user),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// GoogleSignIn godoc
// @Summary Google sign-in
// @Description Verifies a Google ID token and links or creates the account.
// @Tags auth
// @Accept json
// @Produce json
// @Param credential body dto.GoogleSignInRequest true "Google ID token"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/google [post]
func (h *AuthHandler) GoogleSignIn(c *gin.Context) {
	var req dto.GoogleSignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Google credential is required"})
		return
	}

	user, pair, err := h.authService.GoogleSignIn(c.Request.Context(), req.Credential)
	if err != nil {
		h.respondGoogleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{
		Message:      "Google login successful",
		User:         dto.ToUserResponse(user),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// ExchangeCodeGoogle godoc
// @Summary Exchange authorization code
// @Description Exchanges a Google OAuth authorization code and signs the user in.
// @Tags auth
// @Accept json
// @Produce json
// @Param code body dto.ExchangeCodeRequest true "Authorization code"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/google/exchange-code [post]
func (h *AuthHandler) ExchangeCodeGoogle(c *gin.Context) {
	var req dto.ExchangeCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Authorization code is required"})
		return
	}

	user, pair, err := h.authService.ExchangeGoogleCode(c.Request.Context(), req.Code)
	if err != nil {
		h.respondGoogleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{
		Message:      "Google login successful",
		User:         dto.ToUserResponse(user),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (h *AuthHandler) respondGoogleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: validationMessage(err, "Invalid Google sign-in input")})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid Google token"})
	default:
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Google sign-in failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Google authentication failed"})
	}
}

// Refresh godoc
// @Summary Rotate refresh token
// @Description Exchanges a valid refresh token for a new access/refresh pair. The old token is invalidated.
// @Tags auth
// @Accept json
// @Produce json
// @Param refresh body dto.RefreshRequest true "Refresh token"
// @Success 200 {object} dto.RefreshResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Refresh token is required"})
		return
	}

	pair, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: validationMessage(err, "Refresh token is required")})
		case errors.Is(err, apperrors.ErrUnauthorized):
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid or expired refresh token"})
		default:
			logger := middleware.GetLoggerFromCtx(c.Request.Context())
			logger.Error("Failed to rotate refresh token", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.RefreshResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// Logout godoc
// @Summary Log out
// @Description Deletes the presented refresh token and sweeps the caller's expired tokens.
// @Tags auth
// @Accept json
// @Produce json
// @Param logout body dto.LogoutRequest false "Refresh token (optional)"
// @Success 200 {object} dto.MessageResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	user, ok := middleware.GetUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Access token required"})
		return
	}

	// Body is optional; logout without a refresh token still succeeds.
	var req dto.LogoutRequest
	_ = c.ShouldBindJSON(&req)

	if err := h.authService.Logout(c.Request.Context(), user.UserID, req.RefreshToken); err != nil {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Logout failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Logout failed"})
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Logged out successfully"})
}

// Me godoc
// @Summary Current user
// @Description Returns the identity attached by the auth middleware.
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]dto.UserResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.GetUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Access token required"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": dto.ToUserResponse(user)})
}
