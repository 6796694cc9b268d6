package services_test

import (
	"context"
	"testing"

	"github.com/skycastapp/skycast_backend/internal/apperrors"
	"github.com/skycastapp/skycast_backend/internal/core/domain"
	"github.com/skycastapp/skycast_backend/internal/core/services"
	"github.com/skycastapp/skycast_backend/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockUserRepo struct {
	FindUserByIDFn           func(ctx context.Context, userID int64) (*domain.User, error)
	FindUserByEmailFn        func(ctx context.Context, email string) (*domain.User, error)
	FindUserByGoogleIDFn     func(ctx context.Context, googleID string) (*domain.User, error)
	CreateUserWithPasswordFn func(ctx context.Context, email, passwordHash, name string) (*domain.User, error)
	CreateGoogleUserFn       func(ctx context.Context, email, googleID, name, avatarURL string) (*domain.User, error)
	LinkGoogleIDFn           func(ctx context.Context, userID int64, googleID, avatarURL string) error
}

func (m *mockUserRepo) FindUserByID(ctx context.Context, userID int64) (*domain.User, error) {
	return m.FindUserByIDFn(ctx, userID)
}
func (m *mockUserRepo) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return m.FindUserByEmailFn(ctx, email)
}
func (m *mockUserRepo) FindUserByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	return m.FindUserByGoogleIDFn(ctx, googleID)
}
func (m *mockUserRepo) CreateUserWithPassword(ctx context.Context, email, passwordHash, name string) (*domain.User, error) {
	return m.CreateUserWithPasswordFn(ctx, email, passwordHash, name)
}
func (m *mockUserRepo) CreateGoogleUser(ctx context.Context, email, googleID, name, avatarURL string) (*domain.User, error) {
	return m.CreateGoogleUserFn(ctx, email, googleID, name, avatarURL)
}
func (m *mockUserRepo) LinkGoogleID(ctx context.Context, userID int64, googleID, avatarURL string) error {
	return m.LinkGoogleIDFn(ctx, userID, googleID, avatarURL)
}

var googleInfo = &domain.GoogleUserInfo{
	ID:      "google-sub-123",
	Email:   "ada@example.com",
	Name:    "Ada",
	Picture: "https://example.com/ada.png",
}

func TestCreateOAuthUser_MatchByGoogleID(t *testing.T) {
	googleID := googleInfo.ID
	existing := &domain.User{UserID: 5, Email: "ada@example.com", GoogleID: &googleID, Name: "Ada"}
	repo := &mockUserRepo{
		FindUserByGoogleIDFn: func(ctx context.Context, id string) (*domain.User, error) {
			require.Equal(t, googleInfo.ID, id)
			return existing, nil
		},
	}
	svc := services.NewUserService(repo)

	user, err := svc.CreateOAuthUser(context.Background(), googleInfo)
	require.NoError(t, err)
	assert.Equal(t, int64(5), user.UserID)
}

// TestCreateOAuthUser_LinksEmailMatch verifies that a password account with a
// matching email gets the Google ID linked to it, and that the account keeps
// its password hash so password login still works afterwards.
func TestCreateOAuthUser_LinksEmailMatch(t *testing.T) {
	hash, err := utils.HashPassword("hunter22")
	require.NoError(t, err)
	existing := &domain.User{UserID: 5, Email: "ada@example.com", PasswordHash: &hash, Name: "Ada"}

	var linkedGoogleID string
	repo := &mockUserRepo{
		FindUserByGoogleIDFn: func(ctx context.Context, id string) (*domain.User, error) {
			return nil, apperrors.ErrNotFound
		},
		FindUserByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
			require.Equal(t, "ada@example.com", email)
			return existing, nil
		},
		LinkGoogleIDFn: func(ctx context.Context, userID int64, googleID, avatarURL string) error {
			require.Equal(t, int64(5), userID)
			linkedGoogleID = googleID
			return nil
		},
		FindUserByIDFn: func(ctx context.Context, userID int64) (*domain.User, error) {
			linked := *existing
			linked.GoogleID = &linkedGoogleID
			return &linked, nil
		},
	}
	svc := services.NewUserService(repo)

	user, err := svc.CreateOAuthUser(context.Background(), googleInfo)
	require.NoError(t, err)
	require.NotNil(t, user.GoogleID)
	assert.Equal(t, googleInfo.ID, *user.GoogleID)
	require.True(t, user.HasPassword())
	assert.True(t, utils.CheckPasswordHash("hunter22", *user.PasswordHash))
}

func TestCreateOAuthUser_AlreadyLinkedEmailMatch(t *testing.T) {
	otherGoogleID := googleInfo.ID
	existing := &domain.User{UserID: 5, Email: "ada@example.com", GoogleID: &otherGoogleID, Name: "Ada"}
	repo := &mockUserRepo{
		FindUserByGoogleIDFn: func(ctx context.Context, id string) (*domain.User, error) {
			return nil, apperrors.ErrNotFound
		},
		FindUserByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
			return existing, nil
		},
		LinkGoogleIDFn: func(ctx context.Context, userID int64, googleID, avatarURL string) error {
			t.Fatal("LinkGoogleID must not be called for an already-linked account")
			return nil
		},
		FindUserByIDFn: func(ctx context.Context, userID int64) (*domain.User, error) {
			return existing, nil
		},
	}
	svc := services.NewUserService(repo)

	user, err := svc.CreateOAuthUser(context.Background(), googleInfo)
	require.NoError(t, err)
	assert.Equal(t, int64(5), user.UserID)
}

func TestCreateOAuthUser_CreatesNewUser(t *testing.T) {
	repo := &mockUserRepo{
		FindUserByGoogleIDFn: func(ctx context.Context, id string) (*domain.User, error) {
			return nil, apperrors.ErrNotFound
		},
		FindUserByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
			return nil, apperrors.ErrNotFound
		},
		CreateGoogleUserFn: func(ctx context.Context, email, googleID, name, avatarURL string) (*domain.User, error) {
			assert.Equal(t, googleInfo.Email, email)
			assert.Equal(t, googleInfo.ID, googleID)
			assert.Equal(t, googleInfo.Name, name)
			assert.Equal(t, googleInfo.Picture, avatarURL)
			return &domain.User{UserID: 11, Email: email, GoogleID: &googleID, Name: name, EmailVerified: true}, nil
		},
	}
	svc := services.NewUserService(repo)

	user, err := svc.CreateOAuthUser(context.Background(), googleInfo)
	require.NoError(t, err)
	assert.Equal(t, int64(11), user.UserID)
	assert.True(t, user.EmailVerified)
	assert.False(t, user.HasPassword())
}
