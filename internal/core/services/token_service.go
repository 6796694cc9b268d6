package services

import (
	"context"
	"fmt"
	"time"

	"github.com/skycastapp/skycast_backend/internal/core/domain"
	portssvc "github.com/skycastapp/skycast_backend/internal/core/ports/services"
	"github.com/skycastapp/skycast_backend/internal/platform/config"
	"github.com/skycastapp/skycast_backend/internal/utils"
)

// refreshTokenBytes is the entropy of an opaque refresh token; 32 bytes
// hex-encode to a 64-character string.
const refreshTokenBytes = 32

// tokenService mints access and refresh credentials. It needs only the
// application configuration (secrets and expiry durations); persistence of
// refresh tokens is the caller's job so issuance and persistence failures
// stay distinguishable.
type tokenService struct {
	cfg *config.Config

	// now is swapped for a fixed clock in expiry-boundary tests.
	now func() time.Time
}

// NewTokenService creates a new instance of tokenService.
func NewTokenService(cfg *config.Config) portssvc.TokenSvcFacade {
	return &tokenService{cfg: cfg, now: time.Now}
}

// GenerateAccessToken creates a new signed JWT access token for the given
// user.
func (s *tokenService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	issuedAt := s.now()
	expiryTime := issuedAt.Add(s.cfg.JWTExpiryDuration)

	accessToken, err := utils.GenerateAccessJWT(user.UserID, user.Email, user.Name, s.cfg.JWTSecret, s.cfg.JWTIssuer, s.cfg.JWTExpiryDuration, issuedAt)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign access token: %w", err)
	}
	return accessToken, expiryTime, nil
}

// GenerateRefreshToken creates a new opaque refresh token for the given
// user.
func (s *tokenService) GenerateRefreshToken(ctx context.Context, userID int64) (string, time.Time, error) {
	rawRefreshToken, err := utils.GenerateSecureRandomString(refreshTokenBytes)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate secure random string for refresh token: %w", err)
	}

	expiryTime := s.now().Add(s.cfg.RefreshTokenExpiryDuration)

	return rawRefreshToken, expiryTime, nil
}
