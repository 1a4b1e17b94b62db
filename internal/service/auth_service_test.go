package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/waitr/waitr-api/internal/auth"
	"github.com/waitr/waitr-api/internal/config"
	"github.com/waitr/waitr-api/internal/domain"
	"github.com/waitr/waitr-api/internal/session"
	apperrors "github.com/waitr/waitr-api/pkg/util"
)

// --- mocks ---

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) FindOrCreateByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockOTPRepo struct{ mock.Mock }

func (m *mockOTPRepo) Create(ctx context.Context, identifier, code string, expiresAt time.Time) error {
	return m.Called(ctx, identifier, code, expiresAt).Error(0)
}

func (m *mockOTPRepo) FindLatest(ctx context.Context, identifier, code string) (*domain.OneTimeCode, error) {
	args := m.Called(ctx, identifier, code)
	if c, _ := args.Get(0).(*domain.OneTimeCode); c != nil {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockOTPRepo) DeleteForIdentifier(ctx context.Context, identifier string) error {
	return m.Called(ctx, identifier).Error(0)
}

type fakeMailer struct {
	err  error
	sent []string
}

func (f *fakeMailer) SendCode(to, code string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to)
	return nil
}

// --- helpers ---

type authFixture struct {
	svc      *AuthService
	users    *mockUserRepo
	codes    *mockOTPRepo
	sessions session.Store
	tokens   *auth.TokenManager
	mailer   *fakeMailer
}

func newAuthFixture(t *testing.T, env string) *authFixture {
	t.Helper()

	users := &mockUserRepo{}
	codes := &mockOTPRepo{}
	sessions := session.NewMemoryStore()
	t.Cleanup(func() { _ = sessions.Close() })

	tokens := auth.NewTokenManager("test-secret", 15*time.Minute, 14*24*time.Hour)
	mailer := &fakeMailer{}

	cfg := config.Config{}
	cfg.App.Env = env
	cfg.Auth.OTPTTLMinutes = 10

	svc := NewAuthService(cfg, AuthDependencies{
		UserRepo:     users,
		OTPRepo:      codes,
		SessionStore: sessions,
		TokenManager: tokens,
		Mailer:       mailer,
		Logger:       zap.NewNop(),
	})
	return &authFixture{svc: svc, users: users, codes: codes, sessions: sessions, tokens: tokens, mailer: mailer}
}

func domainCode(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	return apperrors.ToDomainError(err).Code
}

// --- send-otp ---

func TestSendOTPPersistsAndDelivers(t *testing.T) {
	f := newAuthFixture(t, "development")
	ctx := context.Background()

	f.codes.On("Create", ctx, "a@b.com", mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).
		Run(func(args mock.Arguments) {
			code := args.String(2)
			assert.Len(t, code, 6)
			expiresAt := args.Get(3).(time.Time)
			assert.WithinDuration(t, time.Now().Add(10*time.Minute), expiresAt, 5*time.Second)
		}).
		Return(nil)

	require.NoError(t, f.svc.SendOTP(ctx, "  A@B.com "))

	assert.Equal(t, []string{"a@b.com"}, f.mailer.sent)
	f.codes.AssertExpectations(t)
}

func TestSendOTPSwallowsMailFailureInDevelopment(t *testing.T) {
	f := newAuthFixture(t, "development")
	ctx := context.Background()
	f.mailer.err = errors.New("smtp down")

	f.codes.On("Create", ctx, "a@b.com", mock.Anything, mock.Anything).Return(nil)

	assert.NoError(t, f.svc.SendOTP(ctx, "a@b.com"))
}

func TestSendOTPPropagatesMailFailureInProduction(t *testing.T) {
	f := newAuthFixture(t, "production")
	ctx := context.Background()
	f.mailer.err = errors.New("smtp down")

	f.codes.On("Create", ctx, "a@b.com", mock.Anything, mock.Anything).Return(nil)

	assert.Error(t, f.svc.SendOTP(ctx, "a@b.com"))
}

func TestGenerateCodeProducesSixDecimalDigits(t *testing.T) {
	seen := make(map[byte]bool)
	for i := 0; i < 500; i++ {
		code, err := generateCode()
		require.NoError(t, err)
		require.Len(t, code, 6)
		for j := 0; j < len(code); j++ {
			require.True(t, code[j] >= '0' && code[j] <= '9', "code %q has non-digit", code)
			seen[code[j]] = true
		}
	}
	// 3000 digits make a missing value astronomically unlikely.
	assert.Len(t, seen, 10, "every digit should occur")
}

// --- verify-otp ---

func validCode(identifier string) *domain.OneTimeCode {
	return &domain.OneTimeCode{
		ID:         "code-1",
		Identifier: identifier,
		Code:       "123456",
		ExpiresAt:  time.Now().Add(5 * time.Minute),
	}
}

func TestVerifyOTPWrongCodeFails(t *testing.T) {
	f := newAuthFixture(t, "development")
	ctx := context.Background()

	f.codes.On("FindLatest", ctx, "a@b.com", "000000").Return(nil, pgx.ErrNoRows)

	_, err := f.svc.VerifyOTP(ctx, "a@b.com", "000000")
	assert.Equal(t, "INVALID_OR_EXPIRED_CODE", domainCode(t, err))
}

func TestVerifyOTPExpiredCodeFails(t *testing.T) {
	f := newAuthFixture(t, "development")
	ctx := context.Background()

	expired := validCode("a@b.com")
	expired.ExpiresAt = time.Now().Add(-time.Minute)
	f.codes.On("FindLatest", ctx, "a@b.com", "123456").Return(expired, nil)

	_, err := f.svc.VerifyOTP(ctx, "a@b.com", "123456")
	assert.Equal(t, "INVALID_OR_EXPIRED_CODE", domainCode(t, err))
	f.codes.AssertNotCalled(t, "DeleteForIdentifier", mock.Anything, mock.Anything)
}

func TestVerifyOTPSuccessIssuesPairAndStoresSession(t *testing.T) {
	f := newAuthFixture(t, "development")
	ctx := context.Background()

	f.codes.On("FindLatest", ctx, "a@b.com", "123456").Return(validCode("a@b.com"), nil)
	f.codes.On("DeleteForIdentifier", ctx, "a@b.com").Return(nil)
	f.users.On("FindOrCreateByEmail", ctx, "a@b.com").
		Return(&domain.User{ID: "user-1", Email: "a@b.com"}, nil)

	pair, err := f.svc.VerifyOTP(ctx, "A@B.com", "123456")
	require.NoError(t, err)
	require.NotNil(t, pair)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.True(t, pair.AccessExpiresAt.Before(pair.RefreshExpiresAt))

	claims, err := f.tokens.VerifyRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	owner, ok, err := f.sessions.Get(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, ok, "session record must exist for the refresh jti")
	assert.Equal(t, "user-1", owner)

	f.codes.AssertExpectations(t)
}

func TestVerifyOTPReplayFails(t *testing.T) {
	f := newAuthFixture(t, "development")
	ctx := context.Background()

	// First attempt sees the code; the delete-all wipes it so the replay
	// finds nothing.
	f.codes.On("FindLatest", ctx, "a@b.com", "123456").Return(validCode("a@b.com"), nil).Once()
	f.codes.On("FindLatest", ctx, "a@b.com", "123456").Return(nil, pgx.ErrNoRows).Once()
	f.codes.On("DeleteForIdentifier", ctx, "a@b.com").Return(nil).Once()
	f.users.On("FindOrCreateByEmail", ctx, "a@b.com").
		Return(&domain.User{ID: "user-1", Email: "a@b.com"}, nil)

	_, err := f.svc.VerifyOTP(ctx, "a@b.com", "123456")
	require.NoError(t, err)

	_, err = f.svc.VerifyOTP(ctx, "a@b.com", "123456")
	assert.Equal(t, "INVALID_OR_EXPIRED_CODE", domainCode(t, err))
	f.codes.AssertExpectations(t)
}

// --- refresh ---

func (f *authFixture) authenticate(t *testing.T, ctx context.Context) *TokenPair {
	t.Helper()
	f.codes.On("FindLatest", ctx, "a@b.com", "123456").Return(validCode("a@b.com"), nil).Once()
	f.codes.On("DeleteForIdentifier", ctx, "a@b.com").Return(nil).Once()
	f.users.On("FindOrCreateByEmail", ctx, "a@b.com").
		Return(&domain.User{ID: "user-1", Email: "a@b.com"}, nil).Once()

	pair, err := f.svc.VerifyOTP(ctx, "a@b.com", "123456")
	require.NoError(t, err)
	return pair
}

func TestRefreshRotatesSession(t *testing.T) {
	f := newAuthFixture(t, "development")
	ctx := context.Background()
	pair := f.authenticate(t, ctx)

	oldClaims, err := f.tokens.VerifyRefreshToken(pair.RefreshToken)
	require.NoError(t, err)

	rotated, err := f.svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	// Old session record is gone, new one exists.
	_, ok, err := f.sessions.Get(ctx, oldClaims.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	newClaims, err := f.tokens.VerifyRefreshToken(rotated.RefreshToken)
	require.NoError(t, err)
	owner, ok, err := f.sessions.Get(ctx, newClaims.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "user-1", owner)
}

func TestRefreshIsSingleUse(t *testing.T) {
	f := newAuthFixture(t, "development")
	ctx := context.Background()
	pair := f.authenticate(t, ctx)

	_, err := f.svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)

	_, err = f.svc.Refresh(ctx, pair.RefreshToken)
	assert.Equal(t, "REVOKED_OR_INVALID", domainCode(t, err))
}

func TestRefreshRejectsGarbledToken(t *testing.T) {
	f := newAuthFixture(t, "development")

	_, err := f.svc.Refresh(context.Background(), "not-a-jwt")
	assert.Equal(t, "UNAUTHORIZED_REFRESH", domainCode(t, err))
}

func TestRefreshRejectsOwnerMismatch(t *testing.T) {
	f := newAuthFixture(t, "development")
	ctx := context.Background()
	pair := f.authenticate(t, ctx)

	// Simulate a corrupted store entry pointing at a different user.
	claims, err := f.tokens.VerifyRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	require.NoError(t, f.sessions.Set(ctx, claims.ID, "someone-else", time.Minute))

	_, err = f.svc.Refresh(ctx, pair.RefreshToken)
	assert.Equal(t, "REVOKED_OR_INVALID", domainCode(t, err))
}

// --- logout ---

func TestLogoutRevokesRefreshToken(t *testing.T) {
	f := newAuthFixture(t, "development")
	ctx := context.Background()
	pair := f.authenticate(t, ctx)

	require.NoError(t, f.svc.Logout(ctx, pair.RefreshToken))

	_, err := f.svc.Refresh(ctx, pair.RefreshToken)
	assert.Equal(t, "REVOKED_OR_INVALID", domainCode(t, err))
}

func TestLogoutIgnoresInvalidToken(t *testing.T) {
	f := newAuthFixture(t, "development")

	assert.NoError(t, f.svc.Logout(context.Background(), "garbage"))
	assert.NoError(t, f.svc.Logout(context.Background(), ""))
}
