package services

import (
	"context"
	"time"

	"github.com/skycastapp/skycast_backend/internal/core/domain"
	"golang.org/x/oauth2"
)

// AuthSvcFacade orchestrates the end-to-end sign-in flows. Every successful
// flow hands back the user plus a freshly persisted access/refresh pair.
type AuthSvcFacade interface {
	// Register creates a password-based account. Fails with
	// apperrors.ErrDuplicate if the email is already taken and
	// apperrors.ErrValidation on malformed input.
	Register(ctx context.Context, email, password, name string) (*domain.User, *domain.TokenPair, error)

	// Login authenticates by email and password. A missing account and a
	// wrong password are indistinguishable to the caller.
	Login(ctx context.Context, email, password string) (*domain.User, *domain.TokenPair, error)

	// GoogleSignIn verifies a Google ID token and links or creates the
	// matching account.
	GoogleSignIn(ctx context.Context, credential string) (*domain.User, *domain.TokenPair, error)

	// ExchangeGoogleCode runs the authorization-code variant of the Google
	// flow: code -> tokens -> verified ID token -> GoogleSignIn semantics.
	ExchangeGoogleCode(ctx context.Context, code string) (*domain.User, *domain.TokenPair, error)

	// Refresh rotates a refresh token: the old token is deleted the instant
	// the new pair is persisted, so replay of the old token fails with
	// apperrors.ErrUnauthorized.
	Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error)

	// Logout deletes the presented refresh token (if any) and sweeps the
	// caller's other expired tokens. Idempotent.
	Logout(ctx context.Context, userID int64, refreshToken string) error
}

// TokenSvcFacade mints credentials. Issuance never persists anything;
// persistence stays with the caller so the two failure modes are separable.
type TokenSvcFacade interface {
	// GenerateAccessToken creates a signed, self-contained access token for
	// the user and returns it with its expiry time.
	GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error)

	// GenerateRefreshToken creates a cryptographically random opaque token
	// and returns it with its expiry time.
	GenerateRefreshToken(ctx context.Context, userID int64) (string, time.Time, error)
}

// GoogleSvcFacade wraps verification of Google identity assertions.
type GoogleSvcFacade interface {
	// ValidateGoogleIDToken verifies an ID token against the configured
	// client ID and extracts the identity claims. Verification is
	// time-bounded and fails closed.
	ValidateGoogleIDToken(ctx context.Context, idTokenString string) (*domain.GoogleUserInfo, error)

	// ExchangeCodeForToken exchanges an OAuth authorization code for tokens.
	ExchangeCodeForToken(ctx context.Context, code string) (*oauth2.Token, error)
}
