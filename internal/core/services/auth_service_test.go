package services_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/skycastapp/skycast_backend/internal/apperrors"
	"github.com/skycastapp/skycast_backend/internal/core/domain"
	portssvc "github.com/skycastapp/skycast_backend/internal/core/ports/services"
	"github.com/skycastapp/skycast_backend/internal/core/services"
	"github.com/skycastapp/skycast_backend/internal/platform/config"
	"github.com/skycastapp/skycast_backend/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

// --- Mocks ---

type mockUserSvc struct {
	GetUserByIDFn            func(ctx context.Context, userID int64) (*domain.User, error)
	GetUserByEmailFn         func(ctx context.Context, email string) (*domain.User, error)
	CreateUserWithPasswordFn func(ctx context.Context, email, passwordHash, name string) (*domain.User, error)
	CreateOAuthUserFn        func(ctx context.Context, info *domain.GoogleUserInfo) (*domain.User, error)
}

func (m *mockUserSvc) GetUserByID(ctx context.Context, userID int64) (*domain.User, error) {
	return m.GetUserByIDFn(ctx, userID)
}
func (m *mockUserSvc) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return m.GetUserByEmailFn(ctx, email)
}
func (m *mockUserSvc) CreateUserWithPassword(ctx context.Context, email, passwordHash, name string) (*domain.User, error) {
	return m.CreateUserWithPasswordFn(ctx, email, passwordHash, name)
}
func (m *mockUserSvc) CreateOAuthUser(ctx context.Context, info *domain.GoogleUserInfo) (*domain.User, error) {
	return m.CreateOAuthUserFn(ctx, info)
}

type mockGoogleSvc struct {
	ValidateGoogleIDTokenFn func(ctx context.Context, idTokenString string) (*domain.GoogleUserInfo, error)
	ExchangeCodeForTokenFn  func(ctx context.Context, code string) (*oauth2.Token, error)
}

func (m *mockGoogleSvc) ValidateGoogleIDToken(ctx context.Context, idTokenString string) (*domain.GoogleUserInfo, error) {
	return m.ValidateGoogleIDTokenFn(ctx, idTokenString)
}
func (m *mockGoogleSvc) ExchangeCodeForToken(ctx context.Context, code string) (*oauth2.Token, error) {
	return m.ExchangeCodeForTokenFn(ctx, code)
}

// fakeRefreshTokenRepo is a mutex-guarded in-memory refresh token store. The
// mutex makes DeleteRefreshToken atomic, matching the single-statement DELETE
// semantics of the real repository.
type fakeRefreshTokenRepo struct {
	mu     sync.Mutex
	rows   map[string]domain.RefreshToken
	owners map[int64]domain.RefreshTokenOwner
	now    func() time.Time
}

func newFakeRefreshTokenRepo() *fakeRefreshTokenRepo {
	return &fakeRefreshTokenRepo{
		rows:   make(map[string]domain.RefreshToken),
		owners: make(map[int64]domain.RefreshTokenOwner),
		now:    time.Now,
	}
}

func (f *fakeRefreshTokenRepo) SaveRefreshToken(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[token] = domain.RefreshToken{UserID: userID, Token: token, ExpiresAt: expiresAt, CreatedAt: f.now()}
	return nil
}

func (f *fakeRefreshTokenRepo) FindValidRefreshToken(ctx context.Context, token string) (*domain.RefreshTokenOwner, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[token]
	if !ok || !row.ExpiresAt.After(f.now()) {
		return nil, apperrors.ErrNotFound
	}
	owner, ok := f.owners[row.UserID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &owner, nil
}

func (f *fakeRefreshTokenRepo) DeleteRefreshToken(ctx context.Context, token string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[token]; !ok {
		return 0, nil
	}
	delete(f.rows, token)
	return 1, nil
}

func (f *fakeRefreshTokenRepo) DeleteExpiredForUser(ctx context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for token, row := range f.rows {
		if row.UserID == userID && !row.ExpiresAt.After(f.now()) {
			delete(f.rows, token)
		}
	}
	return nil
}

func (f *fakeRefreshTokenRepo) DeleteExpired(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var deleted int64
	for token, row := range f.rows {
		if !row.ExpiresAt.After(f.now()) {
			delete(f.rows, token)
			deleted++
		}
	}
	return deleted, nil
}

func (f *fakeRefreshTokenRepo) tokenCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}

func (f *fakeRefreshTokenRepo) hasToken(token string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.rows[token]
	return ok
}

// --- Fixtures ---

func authTestConfig() *config.Config {
	return &config.Config{
		JWTSecret:                  "auth-service-test-secret",
		JWTIssuer:                  "skycast-backend",
		JWTExpiryDuration:          15 * time.Minute,
		RefreshTokenExpiryDuration: 168 * time.Hour,
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type authFixture struct {
	users   *mockUserSvc
	refresh *fakeRefreshTokenRepo
	google  *mockGoogleSvc
}

func newAuthService(t *testing.T, fx *authFixture) portssvc.AuthSvcFacade {
	t.Helper()
	cfg := authTestConfig()
	return services.NewAuthService(fx.users, fx.refresh, services.NewTokenService(cfg), fx.google, discardLogger())
}

func passwordUser(t *testing.T, userID int64, email, password, name string) *domain.User {
	t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(t, err)
	return &domain.User{UserID: userID, Email: email, PasswordHash: &hash, Name: name}
}

// --- Register ---

func TestRegister_Success(t *testing.T) {
	fx := &authFixture{refresh: newFakeRefreshTokenRepo(), google: &mockGoogleSvc{}}
	fx.users = &mockUserSvc{
		CreateUserWithPasswordFn: func(ctx context.Context, email, passwordHash, name string) (*domain.User, error) {
			ok := utils.CheckPasswordHash("hunter22", passwordHash)
			require.True(t, ok, "stored hash must verify against the plaintext password")
			return &domain.User{UserID: 1, Email: email, PasswordHash: &passwordHash, Name: name}, nil
		},
	}
	svc := newAuthService(t, fx)

	user, pair, err := svc.Register(context.Background(), "ada@example.com", "hunter22", "Ada")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.True(t, fx.refresh.hasToken(pair.RefreshToken), "refresh token must be persisted")
}

func TestRegister_Validation(t *testing.T) {
	fx := &authFixture{refresh: newFakeRefreshTokenRepo(), google: &mockGoogleSvc{}}
	fx.users = &mockUserSvc{
		CreateUserWithPasswordFn: func(ctx context.Context, email, passwordHash, name string) (*domain.User, error) {
			t.Fatal("CreateUserWithPassword must not be called for invalid input")
			return nil, nil
		},
	}
	svc := newAuthService(t, fx)

	tests := []struct {
		name     string
		email    string
		password string
		userName string
	}{
		{"missing email", "", "hunter22", "Ada"},
		{"missing password", "ada@example.com", "", "Ada"},
		{"missing name", "ada@example.com", "hunter22", "  "},
		{"short password", "ada@example.com", "12345", "Ada"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Register(context.Background(), tc.email, tc.password, tc.userName)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	fx := &authFixture{refresh: newFakeRefreshTokenRepo(), google: &mockGoogleSvc{}}
	fx.users = &mockUserSvc{
		CreateUserWithPasswordFn: func(ctx context.Context, email, passwordHash, name string) (*domain.User, error) {
			return nil, apperrors.ErrDuplicate
		},
	}
	svc := newAuthService(t, fx)

	_, _, err := svc.Register(context.Background(), "taken@example.com", "hunter22", "Ada")
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
	assert.Zero(t, fx.refresh.tokenCount(), "no tokens may be issued for a failed registration")
}

// --- Login ---

func TestLogin_Success(t *testing.T) {
	user := passwordUser(t, 7, "bob@example.com", "hunter22", "Bob")
	fx := &authFixture{refresh: newFakeRefreshTokenRepo(), google: &mockGoogleSvc{}}
	fx.users = &mockUserSvc{
		GetUserByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
			require.Equal(t, "bob@example.com", email)
			return user, nil
		},
	}
	svc := newAuthService(t, fx)

	got, pair, err := svc.Login(context.Background(), "bob@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.UserID)
	assert.True(t, fx.refresh.hasToken(pair.RefreshToken))

	claims, err := utils.ParseAccessJWT(pair.AccessToken, authTestConfig().JWTSecret)
	require.NoError(t, err)
	userID, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(7), userID)
	assert.Equal(t, "bob@example.com", claims.Email)
}

// TestLogin_FailuresIndistinguishable checks that a missing account, a wrong
// password and a federated-only account all fail identically.
func TestLogin_FailuresIndistinguishable(t *testing.T) {
	googleID := "google-sub-123"
	federatedOnly := &domain.User{UserID: 8, Email: "fed@example.com", GoogleID: &googleID, Name: "Fed"}
	withPassword := passwordUser(t, 7, "bob@example.com", "hunter22", "Bob")

	fx := &authFixture{refresh: newFakeRefreshTokenRepo(), google: &mockGoogleSvc{}}
	fx.users = &mockUserSvc{
		GetUserByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
			switch email {
			case "bob@example.com":
				return withPassword, nil
			case "fed@example.com":
				return federatedOnly, nil
			default:
				return nil, apperrors.ErrNotFound
			}
		},
	}
	svc := newAuthService(t, fx)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"unknown account", "nobody@example.com", "hunter22"},
		{"wrong password", "bob@example.com", "wrong-password"},
		{"federated-only account", "fed@example.com", "hunter22"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Login(context.Background(), tc.email, tc.password)
			assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
		})
	}
	assert.Zero(t, fx.refresh.tokenCount())
}

// --- Google sign-in ---

func TestGoogleSignIn_Success(t *testing.T) {
	fx := &authFixture{refresh: newFakeRefreshTokenRepo()}
	fx.google = &mockGoogleSvc{
		ValidateGoogleIDTokenFn: func(ctx context.Context, idTokenString string) (*domain.GoogleUserInfo, error) {
			require.Equal(t, "valid-credential", idTokenString)
			return &domain.GoogleUserInfo{ID: "google-sub-123", Email: "ada@example.com", Name: "Ada"}, nil
		},
	}
	fx.users = &mockUserSvc{
		CreateOAuthUserFn: func(ctx context.Context, info *domain.GoogleUserInfo) (*domain.User, error) {
			return &domain.User{UserID: 3, Email: info.Email, GoogleID: &info.ID, Name: info.Name}, nil
		},
	}
	svc := newAuthService(t, fx)

	user, pair, err := svc.GoogleSignIn(context.Background(), "valid-credential")
	require.NoError(t, err)
	assert.Equal(t, int64(3), user.UserID)
	assert.True(t, fx.refresh.hasToken(pair.RefreshToken))
}

func TestGoogleSignIn_InvalidCredential(t *testing.T) {
	fx := &authFixture{refresh: newFakeRefreshTokenRepo()}
	fx.google = &mockGoogleSvc{
		ValidateGoogleIDTokenFn: func(ctx context.Context, idTokenString string) (*domain.GoogleUserInfo, error) {
			return nil, assert.AnError
		},
	}
	fx.users = &mockUserSvc{}
	svc := newAuthService(t, fx)

	_, _, err := svc.GoogleSignIn(context.Background(), "forged-credential")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestExchangeGoogleCode(t *testing.T) {
	fx := &authFixture{refresh: newFakeRefreshTokenRepo()}
	fx.google = &mockGoogleSvc{
		ExchangeCodeForTokenFn: func(ctx context.Context, code string) (*oauth2.Token, error) {
			require.Equal(t, "auth-code", code)
			tok := &oauth2.Token{AccessToken: "google-access"}
			return tok.WithExtra(map[string]interface{}{"id_token": "exchanged-id-token"}), nil
		},
		ValidateGoogleIDTokenFn: func(ctx context.Context, idTokenString string) (*domain.GoogleUserInfo, error) {
			require.Equal(t, "exchanged-id-token", idTokenString)
			return &domain.GoogleUserInfo{ID: "google-sub-9", Email: "eve@example.com", Name: "Eve"}, nil
		},
	}
	fx.users = &mockUserSvc{
		CreateOAuthUserFn: func(ctx context.Context, info *domain.GoogleUserInfo) (*domain.User, error) {
			return &domain.User{UserID: 9, Email: info.Email, GoogleID: &info.ID, Name: info.Name}, nil
		},
	}
	svc := newAuthService(t, fx)

	user, pair, err := svc.ExchangeGoogleCode(context.Background(), "auth-code")
	require.NoError(t, err)
	assert.Equal(t, int64(9), user.UserID)
	assert.NotEmpty(t, pair.RefreshToken)
}

func TestExchangeGoogleCode_MissingIDToken(t *testing.T) {
	fx := &authFixture{refresh: newFakeRefreshTokenRepo()}
	fx.google = &mockGoogleSvc{
		ExchangeCodeForTokenFn: func(ctx context.Context, code string) (*oauth2.Token, error) {
			return &oauth2.Token{AccessToken: "google-access"}, nil
		},
	}
	fx.users = &mockUserSvc{}
	svc := newAuthService(t, fx)

	_, _, err := svc.ExchangeGoogleCode(context.Background(), "auth-code")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

// --- Refresh ---

func seedRefreshToken(t *testing.T, repo *fakeRefreshTokenRepo, userID int64, email, name, token string) {
	t.Helper()
	repo.owners[userID] = domain.RefreshTokenOwner{UserID: userID, Email: email, Name: name}
	require.NoError(t, repo.SaveRefreshToken(context.Background(), userID, token, time.Now().Add(time.Hour)))
}

func TestRefresh_RotatesToken(t *testing.T) {
	fx := &authFixture{refresh: newFakeRefreshTokenRepo(), users: &mockUserSvc{}, google: &mockGoogleSvc{}}
	seedRefreshToken(t, fx.refresh, 7, "bob@example.com", "Bob", "old-token")
	svc := newAuthService(t, fx)

	pair, err := svc.Refresh(context.Background(), "old-token")
	require.NoError(t, err)
	assert.NotEqual(t, "old-token", pair.RefreshToken)
	assert.False(t, fx.refresh.hasToken("old-token"), "rotated token must be deleted")
	assert.True(t, fx.refresh.hasToken(pair.RefreshToken))
	assert.Equal(t, 1, fx.refresh.tokenCount())

	// Replay of the consumed token fails.
	_, err = svc.Refresh(context.Background(), "old-token")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestRefresh_UnknownToken(t *testing.T) {
	fx := &authFixture{refresh: newFakeRefreshTokenRepo(), users: &mockUserSvc{}, google: &mockGoogleSvc{}}
	svc := newAuthService(t, fx)

	_, err := svc.Refresh(context.Background(), "never-issued")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestRefresh_ExpiredToken(t *testing.T) {
	fx := &authFixture{refresh: newFakeRefreshTokenRepo(), users: &mockUserSvc{}, google: &mockGoogleSvc{}}
	fx.refresh.owners[7] = domain.RefreshTokenOwner{UserID: 7, Email: "bob@example.com", Name: "Bob"}
	require.NoError(t, fx.refresh.SaveRefreshToken(context.Background(), 7, "stale-token", time.Now().Add(-time.Minute)))
	svc := newAuthService(t, fx)

	_, err := svc.Refresh(context.Background(), "stale-token")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

// TestRefresh_ConcurrentRotation races two rotations of the same token:
// exactly one wins, and exactly one valid refresh token survives.
func TestRefresh_ConcurrentRotation(t *testing.T) {
	fx := &authFixture{refresh: newFakeRefreshTokenRepo(), users: &mockUserSvc{}, google: &mockGoogleSvc{}}
	seedRefreshToken(t, fx.refresh, 7, "bob@example.com", "Bob", "contested-token")
	svc := newAuthService(t, fx)

	var wg sync.WaitGroup
	results := make([]error, 2)
	start := make(chan struct{})
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, results[i] = svc.Refresh(context.Background(), "contested-token")
		}(i)
	}
	close(start)
	wg.Wait()

	var wins, losses int
	for _, err := range results {
		switch {
		case err == nil:
			wins++
		case assert.ErrorIs(t, err, apperrors.ErrUnauthorized):
			losses++
		}
	}
	assert.Equal(t, 1, wins, "exactly one rotation must win")
	assert.Equal(t, 1, losses, "the losing rotation must fail unauthorized")
	assert.Equal(t, 1, fx.refresh.tokenCount(), "exactly one valid refresh token must remain")
	assert.False(t, fx.refresh.hasToken("contested-token"))
}

// --- Logout ---

func TestLogout(t *testing.T) {
	fx := &authFixture{refresh: newFakeRefreshTokenRepo(), users: &mockUserSvc{}, google: &mockGoogleSvc{}}
	seedRefreshToken(t, fx.refresh, 7, "bob@example.com", "Bob", "live-token")
	require.NoError(t, fx.refresh.SaveRefreshToken(context.Background(), 7, "expired-token", time.Now().Add(-time.Minute)))
	require.NoError(t, fx.refresh.SaveRefreshToken(context.Background(), 7, "other-device", time.Now().Add(time.Hour)))
	svc := newAuthService(t, fx)

	require.NoError(t, svc.Logout(context.Background(), 7, "live-token"))

	assert.False(t, fx.refresh.hasToken("live-token"), "presented token must be deleted")
	assert.False(t, fx.refresh.hasToken("expired-token"), "expired tokens must be swept")
	assert.True(t, fx.refresh.hasToken("other-device"), "other live sessions must survive")
}

func TestLogout_NoToken(t *testing.T) {
	fx := &authFixture{refresh: newFakeRefreshTokenRepo(), users: &mockUserSvc{}, google: &mockGoogleSvc{}}
	seedRefreshToken(t, fx.refresh, 7, "bob@example.com", "Bob", "live-token")
	svc := newAuthService(t, fx)

	require.NoError(t, svc.Logout(context.Background(), 7, ""))
	assert.True(t, fx.refresh.hasToken("live-token"), "logout without a token deletes nothing live")
}
