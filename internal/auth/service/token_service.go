package service

//go:generate mockgen -destination=../../mocks/mock_token_generator.go -package=mocks github.com/Mollylil16/developpement-farm-sub012/internal/auth/service TokenGenerator

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Mollylil16/developpement-farm-sub012/internal/auth/domain"
	autherror "github.com/Mollylil16/developpement-farm-sub012/internal/errors"
)

// TokenGenerator is what the orchestrator needs from the token layer.
type TokenGenerator interface {
	IssueAccessToken(userID, email string, roles []string) (string, error)
	VerifyAccessToken(tokenString string) (*AccessClaims, error)
	CreateRefreshToken(ctx context.Context, userID, ipAddress, userAgent string) (*RefreshTokenGrant, error)
	FindValidRefreshToken(ctx context.Context, plaintext string) (*domain.RefreshToken, error)
	Revoke(ctx context.Context, plaintext string) error
	TouchUsage(ctx context.Context, id, ipAddress string) error
	IssueResetToken(userID, telephone string) (string, error)
	VerifyResetToken(tokenString string) (*ResetClaims, error)
	AccessTokenTTL() time.Duration
	ResetTokenTTL() time.Duration
}

type AccessClaims struct {
	jwt.RegisteredClaims
	Email string   `json:"email"`
	Roles []string `json:"roles"`
}

type ResetClaims struct {
	jwt.RegisteredClaims
	Telephone string `json:"telephone"`
	Type      string `json:"type"`
}

// RefreshTokenGrant carries the plaintext secret back to the caller exactly
// once; only the bcrypt hash is persisted.
type RefreshTokenGrant struct {
	ID        string
	Token     string
	ExpiresAt time.Time
}

type TokenService struct {
	repo          domain.RefreshTokenRepository
	signingSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	resetTTL      time.Duration
}

func NewTokenService(repo domain.RefreshTokenRepository, signingSecret string,
	accessTTL, refreshTTL, resetTTL time.Duration) *TokenService {
	return &TokenService{
		repo:          repo,
		signingSecret: []byte(signingSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		resetTTL:      resetTTL,
	}
}

// IssueAccessToken signs a short-lived HS256 token. Expiry comes from the
// configured TTL in one place only; nothing else writes exp.
func (ts *TokenService) IssueAccessToken(userID, email string, roles []string) (string, error) {
	now := time.Now()

	if roles == nil {
		roles = []string{}
	}

	claims := AccessClaims{
		Email: email,
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.accessTTL)),
			ID:        uuid.NewString(),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ts.signingSecret)
}

// VerifyAccessToken parses and validates the given access token string.
func (ts *TokenService) VerifyAccessToken(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return ts.signingSecret, nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}

// CreateRefreshToken generates a random opaque secret, stores its slow hash
// and hands the plaintext back. The secret is never derived from user data
// and never retrievable again.
func (ts *TokenService) CreateRefreshToken(ctx context.Context, userID, ipAddress, userAgent string) (*RefreshTokenGrant, error) {
	secret := uuid.NewString()

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash refresh token: %w", err)
	}

	now := time.Now()
	rt := &domain.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    userID,
		TokenHash: string(hash),
		IPAddress: ipAddress,
		UserAgent: userAgent,
		ExpiresAt: now.Add(ts.refreshTTL),
		CreatedAt: now,
		Revoked:   false,
	}

	if err := ts.repo.Store(ctx, rt); err != nil {
		return nil, err
	}

	return &RefreshTokenGrant{ID: rt.ID, Token: secret, ExpiresAt: rt.ExpiresAt}, nil
}

// FindValidRefreshToken resolves a plaintext secret to its record. Hashes are
// salted per record, so there is no index to look up: every live candidate is
// compared until one matches. The candidate set is bounded by the number of
// concurrently valid tokens.
func (ts *TokenService) FindValidRefreshToken(ctx context.Context, plaintext string) (*domain.RefreshToken, error) {
	candidates, err := ts.repo.ListActive(ctx, time.Now())
	if err != nil {
		return nil, err
	}

	for _, rt := range candidates {
		if bcrypt.CompareHashAndPassword([]byte(rt.TokenHash), []byte(plaintext)) == nil {
			return rt, nil
		}
	}

	return nil, nil
}

// Revoke soft-revokes the matching record. Revoking an unknown or
// already-revoked token is a no-op, never an error.
func (ts *TokenService) Revoke(ctx context.Context, plaintext string) error {
	rt, err := ts.FindValidRefreshToken(ctx, plaintext)
	if err != nil {
		return err
	}
	if rt == nil {
		return nil
	}

	return ts.repo.Revoke(ctx, rt.ID)
}

// TouchUsage stamps lastUsedAt (and the caller IP when known) after a
// successful refresh, for anomaly auditing.
func (ts *TokenService) TouchUsage(ctx context.Context, id, ipAddress string) error {
	return ts.repo.TouchUsage(ctx, id, ipAddress)
}

// IssueResetToken signs the short-lived credential for the final step of the
// password-reset flow. It supersedes the OTP once the code has been verified.
func (ts *TokenService) IssueResetToken(userID, telephone string) (string, error) {
	now := time.Now()

	claims := ResetClaims{
		Telephone: telephone,
		Type:      domain.PasswordResetType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.resetTTL)),
			ID:        uuid.NewString(),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ts.signingSecret)
}

// VerifyResetToken checks signature, expiry and the type claim.
func (ts *TokenService) VerifyResetToken(tokenString string) (*ResetClaims, error) {
	claims := &ResetClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return ts.signingSecret, nil
	})

	if err != nil || !token.Valid {
		return nil, autherror.ErrInvalidResetToken
	}

	if claims.Type != domain.PasswordResetType {
		return nil, autherror.ErrInvalidResetToken
	}

	return claims, nil
}

func (ts *TokenService) AccessTokenTTL() time.Duration {
	return ts.accessTTL
}

func (ts *TokenService) ResetTokenTTL() time.Duration {
	return ts.resetTTL
}
