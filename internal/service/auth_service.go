package service

import (
	"context"
	"crypto/rand"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/waitr/waitr-api/internal/auth"
	"github.com/waitr/waitr-api/internal/config"
	"github.com/waitr/waitr-api/internal/repository"
	"github.com/waitr/waitr-api/internal/session"
	apperrors "github.com/waitr/waitr-api/pkg/util"
)

const otpLength = 6

// TokenPair carries the tokens returned by verification and refresh. The
// access token goes in the response body; the refresh token goes in an
// httpOnly cookie.
type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// AuthService orchestrates the OTP login flow: code issuance, verification,
// refresh rotation and logout.
type AuthService struct {
	users      repository.UserRepository
	codes      repository.OTPRepository
	sessions   session.Store
	tokens     *auth.TokenManager
	mailer     Mailer
	logger     *zap.Logger
	otpTTL     time.Duration
	production bool
}

// AuthDependencies bundles collaborator requirements for the auth service.
type AuthDependencies struct {
	UserRepo     repository.UserRepository
	OTPRepo      repository.OTPRepository
	SessionStore session.Store
	TokenManager *auth.TokenManager
	Mailer       Mailer
	Logger       *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		codes:      deps.OTPRepo,
		sessions:   deps.SessionStore,
		tokens:     deps.TokenManager,
		mailer:     deps.Mailer,
		logger:     deps.Logger,
		otpTTL:     cfg.Auth.OTPTTL(),
		production: cfg.App.IsProduction(),
	}
}

// SendOTP issues a six-digit code for the email and attempts delivery.
// Outside production a delivery failure is logged (with the code, as a
// developer escape hatch) and swallowed; in production it propagates.
func (s *AuthService) SendOTP(ctx context.Context, email string) error {
	identifier := normalizeEmail(email)

	code, err := generateCode()
	if err != nil {
		return err
	}

	expiresAt := time.Now().Add(s.otpTTL)
	if err := s.codes.Create(ctx, identifier, code, expiresAt); err != nil {
		return err
	}

	if err := s.mailer.SendCode(identifier, code); err != nil {
		if s.production {
			return err
		}
		s.logger.Info("otp delivery failed, use logged code",
			zap.String("event", "auth"),
			zap.String("email", identifier),
			zap.String("otp", code),
		)
		return nil
	}

	s.logger.Info("otp sent", zap.String("event", "auth"), zap.String("email", identifier))
	return nil
}

// VerifyOTP checks the code, deletes every code for the identifier on
// success (replay prevention), finds or creates the user, and issues the
// token pair. The refresh jti is persisted to the session store with a TTL
// matching the refresh token's lifetime.
func (s *AuthService) VerifyOTP(ctx context.Context, email, code string) (*TokenPair, error) {
	identifier := normalizeEmail(email)

	record, err := s.codes.FindLatest(ctx, identifier, code)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewInvalidOrExpiredCode()
		}
		return nil, err
	}
	if record.Expired(time.Now()) {
		return nil, apperrors.NewInvalidOrExpiredCode()
	}

	if err := s.codes.DeleteForIdentifier(ctx, identifier); err != nil {
		return nil, err
	}

	user, err := s.users.FindOrCreateByEmail(ctx, identifier)
	if err != nil {
		return nil, err
	}

	pair, err := s.issuePair(ctx, user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	s.logger.Info("otp verified",
		zap.String("event", "auth"),
		zap.String("user_id", user.ID),
	)
	return pair, nil
}

// Refresh rotates the refresh token: the presented token's session record is
// deleted and replaced by a fresh jti, so each refresh token is single-use.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.NewUnauthorizedRefresh("invalid or expired refresh token")
	}

	ownerID, ok, err := s.sessions.Get(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if !ok || ownerID != claims.Subject {
		return nil, apperrors.NewRevokedOrInvalid()
	}

	if err := s.sessions.Delete(ctx, claims.ID); err != nil {
		return nil, err
	}

	pair, err := s.issuePair(ctx, claims.Subject, claims.Email)
	if err != nil {
		return nil, err
	}

	s.logger.Info("tokens refreshed",
		zap.String("event", "auth"),
		zap.String("user_id", claims.Subject),
	)
	return pair, nil
}

// Logout revokes the refresh token's session record. Best-effort: a missing
// or garbled token is a silent no-op.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	claims, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil
	}
	if err := s.sessions.Delete(ctx, claims.ID); err != nil {
		return err
	}

	s.logger.Info("logged out",
		zap.String("event", "auth"),
		zap.String("user_id", claims.Subject),
	)
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

func (s *AuthService) issuePair(ctx context.Context, userID, email string) (*TokenPair, error) {
	accessToken, accessExp, err := s.tokens.IssueAccessToken(userID, email)
	if err != nil {
		return nil, err
	}

	refreshToken, jti, refreshExp, err := s.tokens.IssueRefreshToken(userID, email)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Set(ctx, jti, userID, s.tokens.RefreshTTL()); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:      accessToken,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func generateCode() (string, error) {
	// Bytes >= 250 are rejected so every digit stays equally likely.
	code := make([]byte, 0, otpLength)
	buf := make([]byte, otpLength)
	for len(code) < otpLength {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if b >= 250 {
				continue
			}
			code = append(code, '0'+b%10)
			if len(code) == otpLength {
				break
			}
		}
	}
	return string(code), nil
}
