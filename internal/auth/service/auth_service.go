package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Mollylil16/developpement-farm-sub012/internal/auth/domain"
	"github.com/Mollylil16/developpement-farm-sub012/internal/auth/dto"
	autherror "github.com/Mollylil16/developpement-farm-sub012/internal/errors"
)

const minPasswordLength = 6

// AuthService composes the token service, the OTP stores and the external
// user store into the credential flows. Each flow is stateless between HTTP
// calls; everything durable lives in the persisted records.
// OAuthVerifier turns a third-party identity token into a trusted local
// account.
//
//go:generate mockgen -destination=../../mocks/mock_oauth_verifier.go -package=mocks github.com/Mollylil16/developpement-farm-sub012/internal/auth/service OAuthVerifier
type OAuthVerifier interface {
	VerifyGoogleToken(ctx context.Context, idToken string) (*domain.User, error)
	VerifyAppleToken(ctx context.Context, identityToken string) (*domain.User, error)
}

type AuthService struct {
	users     domain.UserStore
	resetOtps domain.ResetOtpRepository
	tokens    TokenGenerator
	oauth     OAuthVerifier
	attempts  *AttemptRecorder
	logger    *zap.Logger

	registerBcryptCost int
	resetOtpTTL        time.Duration
}

func NewAuthService(users domain.UserStore, resetOtps domain.ResetOtpRepository,
	tokens TokenGenerator, oauth OAuthVerifier, attempts *AttemptRecorder,
	registerBcryptCost int, resetOtpTTL time.Duration, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:              users,
		resetOtps:          resetOtps,
		tokens:             tokens,
		oauth:              oauth,
		attempts:           attempts,
		logger:             logger,
		registerBcryptCost: registerBcryptCost,
		resetOtpTTL:        resetOtpTTL,
	}
}

// Login validates a password credential. A missing account and a wrong
// password produce the identical outward failure so the endpoint cannot be
// used to enumerate accounts.
func (s *AuthService) Login(ctx context.Context, input dto.LoginInput) (*dto.TokenResponse, error) {
	identifier := strings.TrimSpace(input.Email)
	if identifier == "" {
		identifier = strings.TrimSpace(input.Telephone)
	}
	if identifier == "" {
		return nil, autherror.ErrMissingIdentifier
	}

	user, err := s.findByIdentifier(ctx, identifier, true)
	if err != nil {
		s.logger.Error("user lookup failed during login", zap.Error(err))
		return nil, autherror.ErrInvalidCredentials
	}

	if user == nil || user.PasswordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		s.attempts.Record(LoginAttempt{Identifier: identifier, IPAddress: input.IPAddress, At: time.Now()})
		return nil, autherror.ErrInvalidCredentials
	}

	s.attempts.Record(LoginAttempt{Identifier: identifier, IPAddress: input.IPAddress, Successful: true, At: time.Now()})

	if err := s.users.UpdateLastConnection(ctx, user.ID); err != nil {
		s.logger.Warn("failed to update last connection", zap.String("user_id", user.ID), zap.Error(err))
	}

	return s.issueTokens(ctx, user, input.IPAddress, input.UserAgent)
}

// LoginSimple resolves by identifier only and issues tokens unconditionally
// when the account exists. This is a weaker guarantee for trusted client
// contexts; it must not be exposed without understanding that trade-off.
func (s *AuthService) LoginSimple(ctx context.Context, input dto.SimpleLoginInput) (*dto.TokenResponse, error) {
	identifier := strings.TrimSpace(input.Identifier)
	if identifier == "" {
		return nil, autherror.ErrMissingIdentifier
	}

	user, err := s.findByIdentifier(ctx, identifier, false)
	if err != nil {
		s.logger.Error("user lookup failed during simple login", zap.Error(err))
		return nil, autherror.ErrInvalidCredentials
	}
	if user == nil {
		return nil, autherror.ErrInvalidCredentials
	}

	if err := s.users.UpdateLastConnection(ctx, user.ID); err != nil {
		s.logger.Warn("failed to update last connection", zap.String("user_id", user.ID), zap.Error(err))
	}

	return s.issueTokens(ctx, user, input.IPAddress, input.UserAgent)
}

func (s *AuthService) Register(ctx context.Context, input dto.RegisterInput) (*dto.TokenResponse, error) {
	// Emails are stored lowercased so the duplicate check and every later
	// login lookup hit the same row regardless of how the address was typed.
	email := strings.ToLower(strings.TrimSpace(input.Email))
	telephone := strings.Join(strings.Fields(input.Telephone), "")

	if email == "" && telephone == "" {
		return nil, autherror.ErrMissingIdentifier
	}

	// Phone-only accounts without a third-party provider must carry a
	// password; otherwise the account would be claimable by anyone.
	if telephone != "" && email == "" && input.ProviderID == "" && len(input.Password) < minPasswordLength {
		return nil, autherror.ErrWeakPassword
	}

	if email != "" {
		existing, err := s.users.FindByEmail(ctx, email, false)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, autherror.ErrEmailAlreadyInUse
		}
	}

	if telephone != "" {
		existing, err := s.users.FindByTelephone(ctx, telephone, false)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, autherror.ErrPhoneAlreadyInUse
		}
	}

	passwordHash := ""
	if input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.registerBcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		passwordHash = string(hash)
	}

	provider := "email"
	if telephone != "" {
		provider = "telephone"
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		Telephone:    telephone,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PasswordHash: passwordHash,
		Provider:     provider,
		ProviderID:   input.ProviderID,
		Roles:        []string{"user"},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user, input.IPAddress, input.UserAgent)
}

// LoginWithGoogle verifies the Google identity token and issues tokens for
// the mapped (or freshly provisioned) local account.
func (s *AuthService) LoginWithGoogle(ctx context.Context, input dto.GoogleLoginInput) (*dto.TokenResponse, error) {
	user, err := s.oauth.VerifyGoogleToken(ctx, input.IDToken)
	if err != nil {
		return nil, err
	}

	if err := s.users.UpdateLastConnection(ctx, user.ID); err != nil {
		s.logger.Warn("failed to update last connection", zap.String("user_id", user.ID), zap.Error(err))
	}

	return s.issueTokens(ctx, user, input.IPAddress, input.UserAgent)
}

// LoginWithApple fails closed until the Apple flow is configured.
func (s *AuthService) LoginWithApple(ctx context.Context, input dto.AppleLoginInput) (*dto.TokenResponse, error) {
	user, err := s.oauth.VerifyAppleToken(ctx, input.IdentityToken)
	if err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user, input.IPAddress, input.UserAgent)
}

// Refresh exchanges a valid refresh token for a new access token. The
// refresh token itself is not rotated; it remains valid until its original
// expiry or an explicit logout.
func (s *AuthService) Refresh(ctx context.Context, input dto.RefreshInput) (*dto.TokenResponse, error) {
	record, err := s.tokens.FindValidRefreshToken(ctx, input.RefreshToken)
	if err != nil {
		s.logger.Error("refresh token lookup failed", zap.Error(err))
		return nil, autherror.ErrRefreshTokenNotFound
	}
	if record == nil {
		return nil, autherror.ErrRefreshTokenNotFound
	}

	if record.Revoked {
		return nil, autherror.ErrRefreshTokenRevoked
	}

	if time.Now().After(record.ExpiresAt) {
		return nil, autherror.ErrRefreshTokenExpired
	}

	user, err := s.users.FindByID(ctx, record.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, autherror.ErrRefreshTokenNotFound
	}

	accessToken, err := s.tokens.IssueAccessToken(user.ID, user.Email, user.Roles)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	if err := s.tokens.TouchUsage(ctx, record.ID, input.IPAddress); err != nil {
		s.logger.Warn("failed to stamp refresh token usage",
			zap.String("token_id", record.ID), zap.Error(err))
	}

	return &dto.TokenResponse{
		AccessToken: accessToken,
		ExpiresIn:   int64(s.tokens.AccessTokenTTL().Seconds()),
	}, nil
}

// Logout revokes the refresh token; revoking an already-invalid token is a
// no-op.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.tokens.Revoke(ctx, refreshToken)
}

// RequestPasswordReset always reports success, whether or not the phone
// number maps to an account. Internally a 6-digit code with a short expiry is
// stored for known accounts; delivery happens out of band.
func (s *AuthService) RequestPasswordReset(ctx context.Context, telephone string) error {
	telephone = strings.Join(strings.Fields(telephone), "")
	if telephone == "" {
		return nil
	}

	user, err := s.users.FindByTelephone(ctx, telephone, false)
	if err != nil {
		s.logger.Error("user lookup failed during password reset request", zap.Error(err))
		return nil
	}
	if user == nil {
		return nil
	}

	code, err := randomOtpCode()
	if err != nil {
		s.logger.Error("failed to generate reset code", zap.Error(err))
		return nil
	}

	now := time.Now()
	record := &domain.PasswordResetOtp{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Telephone: telephone,
		Otp:       code,
		Type:      domain.PasswordResetType,
		ExpiresAt: now.Add(s.resetOtpTTL),
		CreatedAt: now,
	}

	if err := s.resetOtps.Save(ctx, record); err != nil {
		s.logger.Error("failed to store reset code", zap.Error(err))
	}

	return nil
}

// VerifyResetOtp matches the most recent unexpired code for the phone number,
// deletes it on success and issues the short-lived signed reset token that
// becomes the credential for the final step.
func (s *AuthService) VerifyResetOtp(ctx context.Context, telephone, code string) (*dto.VerifyResetOtpOutput, error) {
	telephone = strings.Join(strings.Fields(telephone), "")

	record, err := s.resetOtps.FindLatest(ctx, telephone)
	if err != nil {
		return nil, err
	}
	if record == nil || time.Now().After(record.ExpiresAt) {
		return nil, autherror.ErrInvalidOrExpiredOtp
	}

	if subtle.ConstantTimeCompare([]byte(record.Otp), []byte(code)) != 1 {
		return nil, autherror.ErrInvalidOrExpiredOtp
	}

	if err := s.resetOtps.Remove(ctx, record.ID); err != nil {
		return nil, err
	}

	resetToken, err := s.tokens.IssueResetToken(record.UserID, telephone)
	if err != nil {
		return nil, fmt.Errorf("issue reset token: %w", err)
	}

	return &dto.VerifyResetOtpOutput{
		ResetToken: resetToken,
		ExpiresIn:  int64(s.tokens.ResetTokenTTL().Seconds()),
	}, nil
}

// ResetPassword verifies the signed reset token and persists the new hash.
func (s *AuthService) ResetPassword(ctx context.Context, input dto.ResetPasswordInput) error {
	claims, err := s.tokens.VerifyResetToken(input.ResetToken)
	if err != nil {
		return autherror.ErrInvalidResetToken
	}

	if len(input.NewPassword) < minPasswordLength {
		return autherror.ErrWeakPassword
	}

	user, err := s.users.FindByID(ctx, claims.Subject)
	if err != nil {
		return err
	}
	if user == nil {
		return autherror.ErrUserNotFound
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), s.registerBcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return s.users.UpdatePassword(ctx, user.ID, string(hash))
}

// DeleteAccount removes the user row inside a single transaction; dependent
// records cascade at the schema level.
func (s *AuthService) DeleteAccount(ctx context.Context, userID string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return autherror.ErrUserNotFound
	}

	return s.users.Delete(ctx, userID)
}

// Me returns the sanitized profile for the authenticated user.
func (s *AuthService) Me(ctx context.Context, userID string) (*dto.UserOutput, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, autherror.ErrUserNotFound
	}

	return dto.NewUserOutput(user), nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *domain.User, ipAddress, userAgent string) (*dto.TokenResponse, error) {
	accessToken, err := s.tokens.IssueAccessToken(user.ID, user.Email, user.Roles)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	grant, err := s.tokens.CreateRefreshToken(ctx, user.ID, ipAddress, userAgent)
	if err != nil {
		return nil, fmt.Errorf("create refresh token: %w", err)
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: grant.Token,
		ExpiresIn:    int64(s.tokens.AccessTokenTTL().Seconds()),
		User:         dto.NewUserOutput(user),
	}, nil
}

func (s *AuthService) findByIdentifier(ctx context.Context, identifier string, includeSecret bool) (*domain.User, error) {
	if strings.Contains(identifier, "@") {
		return s.users.FindByEmail(ctx, strings.ToLower(identifier), includeSecret)
	}
	return s.users.FindByTelephone(ctx, strings.Join(strings.Fields(identifier), ""), includeSecret)
}
