package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/skycastapp/skycast_backend/internal/core/domain"
	portssvc "github.com/skycastapp/skycast_backend/internal/core/ports/services"
	"github.com/skycastapp/skycast_backend/internal/platform/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"
)

// googleVerifyTimeout bounds the round trip to Google's key endpoint.
// Verification fails closed when the deadline is exceeded.
const googleVerifyTimeout = 5 * time.Second

// googleService implements the GoogleSvcFacade.
type googleService struct {
	cfg *config.Config
	// oauth2Config is configured at initialization time
	oauth2Config *oauth2.Config
}

// NewGoogleService creates a new instance of googleService.
func NewGoogleService(cfg *config.Config) portssvc.GoogleSvcFacade {
	return &googleService{
		cfg: cfg,
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

// ValidateGoogleIDToken validates an ID token received from Google and
// extracts the identity claims if the signature, audience, issuer and expiry
// checks all pass.
func (s *googleService) ValidateGoogleIDToken(ctx context.Context, idTokenString string) (*domain.GoogleUserInfo, error) {
	if s.cfg.GoogleClientID == "" {
		// This should ideally be caught at startup, but as a safeguard:
		return nil, errors.New("google client ID is not configured in the application")
	}

	verifyCtx, cancel := context.WithTimeout(ctx, googleVerifyTimeout)
	defer cancel()

	payload, err := idtoken.Validate(verifyCtx, idTokenString, s.cfg.GoogleClientID)
	if err != nil {
		return nil, fmt.Errorf("google ID token validation failed: %w", err)
	}

	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	picture, _ := payload.Claims["picture"].(string)
	emailVerified, _ := payload.Claims["email_verified"].(bool)

	return &domain.GoogleUserInfo{
		ID:            payload.Subject,
		Email:         email,
		VerifiedEmail: emailVerified,
		Name:          name,
		Picture:       picture,
	}, nil
}

// ExchangeCodeForToken exchanges an OAuth authorization code for a token.
func (s *googleService) ExchangeCodeForToken(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := s.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange oauth code for token: %w", err)
	}
	return token, nil
}
