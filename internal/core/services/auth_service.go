package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/skycastapp/skycast_backend/internal/apperrors"
	"github.com/skycastapp/skycast_backend/internal/core/domain"
	portsrepo "github.com/skycastapp/skycast_backend/internal/core/ports/repositories"
	portssvc "github.com/skycastapp/skycast_backend/internal/core/ports/services"
	"github.com/skycastapp/skycast_backend/internal/utils"
)

// minPasswordLength is checked before any hashing happens.
const minPasswordLength = 6

// authService orchestrates the sign-in flows over the user store, the
// refresh token store, the token issuer and the Google verifier.
type authService struct {
	users         portssvc.UserSvcFacade
	refreshTokens portsrepo.RefreshTokenRepository
	tokens        portssvc.TokenSvcFacade
	google        portssvc.GoogleSvcFacade
	logger        *slog.Logger
}

func NewAuthService(
	users portssvc.UserSvcFacade,
	refreshTokens portsrepo.RefreshTokenRepository,
	tokens portssvc.TokenSvcFacade,
	google portssvc.GoogleSvcFacade,
	logger *slog.Logger,
) portssvc.AuthSvcFacade {
	return &authService{
		users:         users,
		refreshTokens: refreshTokens,
		tokens:        tokens,
		google:        google,
		logger:        logger,
	}
}

var _ portssvc.AuthSvcFacade = (*authService)(nil)

// issueTokenPair mints an access/refresh pair for the user and persists the
// refresh half. The two steps stay separate so an issuance failure and a
// persistence failure are distinguishable in logs.
func (s *authService) issueTokenPair(ctx context.Context, user *domain.User) (*domain.TokenPair, error) {
	accessToken, _, err := s.tokens.GenerateAccessToken(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, expiresAt, err := s.tokens.GenerateRefreshToken(ctx, user.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	if err := s.refreshTokens.SaveRefreshToken(ctx, user.UserID, refreshToken, expiresAt); err != nil {
		return nil, fmt.Errorf("failed to persist refresh token: %w", err)
	}

	return &domain.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Register creates a password-based account and signs the new user in.
func (s *authService) Register(ctx context.Context, email, password, name string) (*domain.User, *domain.TokenPair, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" || strings.TrimSpace(name) == "" {
		return nil, nil, fmt.Errorf("%w: email, password, and name are required", apperrors.ErrValidation)
	}
	if len(password) < minPasswordLength {
		return nil, nil, fmt.Errorf("%w: password must be at least %d characters", apperrors.ErrValidation, minPasswordLength)
	}

	passwordHash, err := utils.HashPassword(password)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// The unique email index makes this atomic; a lost race surfaces as
	// ErrDuplicate with no partial user row left behind.
	user, err := s.users.CreateUserWithPassword(ctx, email, passwordHash, name)
	if err != nil {
		return nil, nil, err
	}

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Login authenticates by email and password. The caller cannot tell a
// missing account from a wrong password or a federated-only account.
func (s *authService) Login(ctx context.Context, email, password string) (*domain.User, *domain.TokenPair, error) {
	if email == "" || password == "" {
		return nil, nil, fmt.Errorf("%w: email and password are required", apperrors.ErrValidation)
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, apperrors.ErrUnauthorized
		}
		return nil, nil, fmt.Errorf("failed to look up user for login: %w", err)
	}

	if !user.HasPassword() || !utils.CheckPasswordHash(password, *user.PasswordHash) {
		return nil, nil, apperrors.ErrUnauthorized
	}

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// GoogleSignIn verifies the assertion, then links or creates the account.
func (s *authService) GoogleSignIn(ctx context.Context, credential string) (*domain.User, *domain.TokenPair, error) {
	if credential == "" {
		return nil, nil, fmt.Errorf("%w: google credential is required", apperrors.ErrValidation)
	}

	info, err := s.google.ValidateGoogleIDToken(ctx, credential)
	if err != nil {
		s.logger.WarnContext(ctx, "Google ID token validation failed", slog.String("error", err.Error()))
		return nil, nil, apperrors.ErrUnauthorized
	}

	if info.Email == "" || info.Name == "" {
		return nil, nil, fmt.Errorf("%w: google account must have email and name", apperrors.ErrValidation)
	}

	user, err := s.users.CreateOAuthUser(ctx, info)
	if err != nil {
		return nil, nil, err
	}

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// ExchangeGoogleCode is the authorization-code variant of GoogleSignIn.
func (s *authService) ExchangeGoogleCode(ctx context.Context, code string) (*domain.User, *domain.TokenPair, error) {
	if code == "" {
		return nil, nil, fmt.Errorf("%w: authorization code is required", apperrors.ErrValidation)
	}

	oauth2Token, err := s.google.ExchangeCodeForToken(ctx, code)
	if err != nil {
		s.logger.WarnContext(ctx, "Google code exchange failed", slog.String("error", err.Error()))
		return nil, nil, apperrors.ErrUnauthorized
	}

	idTokenString, ok := oauth2Token.Extra("id_token").(string)
	if !ok || idTokenString == "" {
		return nil, nil, apperrors.ErrUnauthorized
	}

	return s.GoogleSignIn(ctx, idTokenString)
}

// Refresh rotates a refresh token. Order matters: validate the old token,
// mint and persist the new pair, then atomically delete the old row. A crash
// between the last two steps leaves a duplicate credential, never a locked
// out user; a replay after rotation finds nothing to delete and fails.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("%w: refresh token is required", apperrors.ErrValidation)
	}

	owner, err := s.refreshTokens.FindValidRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to look up refresh token: %w", err)
	}

	user := &domain.User{UserID: owner.UserID, Email: owner.Email, Name: owner.Name}
	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}

	deleted, err := s.refreshTokens.DeleteRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to delete rotated refresh token: %w", err)
	}
	if deleted == 0 {
		// A concurrent rotation already consumed the old token. This request
		// loses: discard the pair it just persisted so exactly one valid
		// refresh token survives the race.
		if _, delErr := s.refreshTokens.DeleteRefreshToken(ctx, pair.RefreshToken); delErr != nil {
			s.logger.ErrorContext(ctx, "Failed to discard refresh token after lost rotation race",
				slog.Int64("user_id", owner.UserID), slog.String("error", delErr.Error()))
		}
		return nil, apperrors.ErrUnauthorized
	}

	return pair, nil
}

// Logout deletes the presented refresh token, if any, and opportunistically
// sweeps the caller's other expired tokens. It succeeds for any
// authenticated caller, refresh token supplied or not.
func (s *authService) Logout(ctx context.Context, userID int64, refreshToken string) error {
	if refreshToken != "" {
		if _, err := s.refreshTokens.DeleteRefreshToken(ctx, refreshToken); err != nil {
			return fmt.Errorf("failed to delete refresh token on logout: %w", err)
		}
	}

	if err := s.refreshTokens.DeleteExpiredForUser(ctx, userID); err != nil {
		// Sweep is best-effort; the logout itself already happened.
		s.logger.WarnContext(ctx, "Failed to sweep expired refresh tokens on logout",
			slog.Int64("user_id", userID), slog.String("error", err.Error()))
	}

	return nil
}
