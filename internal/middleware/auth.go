package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/skycastapp/skycast_backend/internal/apperrors"
	"github.com/skycastapp/skycast_backend/internal/core/domain"
	portssvc "github.com/skycastapp/skycast_backend/internal/core/ports/services"
	"github.com/skycastapp/skycast_backend/internal/utils"
)

// extractBearerToken pulls the token out of an Authorization header.
func extractBearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", false
	}
	return parts[1], true
}

// resolveUser validates an access token and confirms the subject still
// exists. A deleted user's still-valid token must not authorize.
func resolveUser(c *gin.Context, jwtSecret string, userService portssvc.UserSvcFacade, tokenString string) (*domain.User, *apperrors.AppError) {
	claims, err := utils.ParseAccessJWT(tokenString, jwtSecret)
	if err != nil {
		msg := "Invalid or expired token"
		if errors.Is(err, jwt.ErrTokenExpired) {
			msg = "Token has expired"
		}
		return nil, apperrors.NewForbiddenError(msg)
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, apperrors.NewForbiddenError("Invalid token claims")
	}

	user, err := userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewUnauthorizedError("User not found")
		}
		return nil, apperrors.NewInternalServerError("Failed to resolve user")
	}

	return user, nil
}

// AuthMiddleware creates a Gin middleware handler that requires a valid
// access token and attaches the verified identity to the context.
func AuthMiddleware(jwtSecret string, userService portssvc.UserSvcFacade) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		tokenString, ok := extractBearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
			return
		}

		user, appErr := resolveUser(c, jwtSecret, userService, tokenString)
		if appErr != nil {
			logger.Warn("Rejected access token", slog.String("reason", appErr.Message))
			c.AbortWithStatusJSON(appErr.Code, gin.H{"error": appErr.Message})
			return
		}

		setUserInContext(c, user)
		c.Next()
	}
}

// OptionalAuthMiddleware attaches the identity when a valid access token is
// presented, and proceeds anonymously on absence or any verification
// failure. It never fails the call.
func OptionalAuthMiddleware(jwtSecret string, userService portssvc.UserSvcFacade) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := extractBearerToken(c)
		if !ok {
			c.Next()
			return
		}

		if user, appErr := resolveUser(c, jwtSecret, userService, tokenString); appErr == nil {
			setUserInContext(c, user)
		}

		c.Next()
	}
}
