package service

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Mollylil16/developpement-farm-sub012/internal/auth/domain"
	autherror "github.com/Mollylil16/developpement-farm-sub012/internal/errors"
)

const otpDigits = 6

// OtpService proves possession of a phone number or email via a short
// numeric code. Codes are stored as HMAC-SHA256(secret, salt||code) so they
// can be re-verified without keeping the plaintext.
type OtpService struct {
	repo        domain.OtpRepository
	secret      []byte
	ttl         time.Duration
	maxAttempts int
	logger      *zap.Logger
}

func NewOtpService(repo domain.OtpRepository, secret string, ttl time.Duration,
	maxAttempts int, logger *zap.Logger) *OtpService {
	return &OtpService{
		repo:        repo,
		secret:      []byte(secret),
		ttl:         ttl,
		maxAttempts: maxAttempts,
		logger:      logger,
	}
}

// NormalizeIdentifier infers the delivery channel and canonicalizes the
// identifier. Emails are lowercased; phone numbers only have whitespace
// stripped, so call sites must not rely on deeper phone equivalence.
func NormalizeIdentifier(identifier string) (string, string) {
	identifier = strings.TrimSpace(identifier)

	if strings.Contains(identifier, "@") {
		return strings.ToLower(identifier), domain.ChannelEmail
	}

	return strings.Join(strings.Fields(identifier), ""), domain.ChannelSMS
}

// Request generates and stores a fresh code. Delivery happens out of band;
// a delivery failure is never conflated with a generation failure. Callers
// always answer {ok:true} regardless of whether the identifier is known.
func (s *OtpService) Request(ctx context.Context, identifier, purpose, ipAddress, userAgent string) error {
	normalized, channel := NormalizeIdentifier(identifier)

	code, err := randomOtpCode()
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}

	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return fmt.Errorf("generate salt: %w", err)
	}

	now := time.Now()
	record := &domain.OtpRecord{
		ID:           uuid.NewString(),
		Identifier:   normalized,
		Channel:      channel,
		Purpose:      purpose,
		CodeHash:     hex.EncodeToString(s.computeMAC(salt, code)),
		CodeSalt:     hex.EncodeToString(salt),
		IPAddress:    ipAddress,
		UserAgent:    userAgent,
		ExpiresAt:    now.Add(s.ttl),
		AttemptCount: 0,
		MaxAttempts:  s.maxAttempts,
		CreatedAt:    now,
	}

	if err := s.repo.Insert(ctx, record); err != nil {
		return err
	}

	s.logger.Info("otp issued",
		zap.String("channel", channel),
		zap.String("purpose", purpose))

	return nil
}

// Verify checks a supplied code against the most recent active record.
// Attempts are only charged once the hash comparison is reached; lookups,
// expiry and budget rejections do not consume budget.
func (s *OtpService) Verify(ctx context.Context, identifier, purpose, code string) (string, string, error) {
	normalized, channel := NormalizeIdentifier(identifier)

	record, err := s.repo.FindLatestActive(ctx, normalized, purpose)
	if err != nil {
		return "", "", err
	}
	if record == nil {
		return "", "", autherror.ErrInvalidOrExpiredOtp
	}

	now := time.Now()
	// Expired and wrong-code failures are indistinguishable to the caller;
	// telling them apart would leak liveness of the identifier.
	if record.ExpiresAt.Before(now) {
		return "", "", autherror.ErrInvalidOrExpiredOtp
	}

	if record.AttemptCount >= record.MaxAttempts {
		return "", "", autherror.ErrTooManyOtpAttempts
	}

	salt, err := hex.DecodeString(record.CodeSalt)
	if err != nil {
		return "", "", fmt.Errorf("decode salt: %w", err)
	}
	stored, err := hex.DecodeString(record.CodeHash)
	if err != nil {
		return "", "", fmt.Errorf("decode hash: %w", err)
	}

	// Every verification that reaches the comparison is charged, success
	// included; only lookups, expiry and budget rejections are free.
	if _, err := s.repo.IncrementAttempts(ctx, record.ID); err != nil {
		s.logger.Error("failed to charge otp attempt", zap.Error(err))
	}

	if !hmac.Equal(stored, s.computeMAC(salt, code)) {
		return "", "", autherror.ErrInvalidOrExpiredOtp
	}

	consumed, err := s.repo.Consume(ctx, record.ID, now)
	if err != nil {
		return "", "", err
	}
	if !consumed {
		// Lost the race against a concurrent verification of the same code.
		return "", "", autherror.ErrInvalidOrExpiredOtp
	}

	return normalized, channel, nil
}

func (s *OtpService) computeMAC(salt []byte, code string) []byte {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write(salt)
	mac.Write([]byte(code))
	return mac.Sum(nil)
}

// randomOtpCode draws a uniform 6-digit code, left-padded with zeros.
func randomOtpCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", otpDigits, n.Int64()), nil
}
