package domain

//go:generate mockgen -destination=../../mocks/mock_repositories.go -package=mocks github.com/Mollylil16/developpement-farm-sub012/internal/auth/domain UserStore,RefreshTokenRepository,OtpRepository,ResetOtpRepository,AttemptStore

import (
	"context"
	"time"
)

// UserStore is the external user collaborator. Lookups return (nil, nil) when
// no row matches. includeSecret controls whether PasswordHash is populated.
type UserStore interface {
	FindByEmail(ctx context.Context, email string, includeSecret bool) (*User, error)
	FindByTelephone(ctx context.Context, telephone string, includeSecret bool) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateLastConnection(ctx context.Context, id string) error
	// Delete removes the user inside a single transaction; owned records are
	// expected to cascade at the schema level.
	Delete(ctx context.Context, id string) error
}

type RefreshTokenRepository interface {
	Store(ctx context.Context, rt *RefreshToken) error
	// ListActive returns all non-revoked tokens whose expiry is after now.
	ListActive(ctx context.Context, now time.Time) ([]*RefreshToken, error)
	Revoke(ctx context.Context, id string) error
	TouchUsage(ctx context.Context, id, ipAddress string) error
}

type OtpRepository interface {
	Insert(ctx context.Context, record *OtpRecord) error
	// FindLatestActive returns the most recent unconsumed record for the
	// identifier/purpose pair, or (nil, nil) when none exists.
	FindLatestActive(ctx context.Context, identifier, purpose string) (*OtpRecord, error)
	// IncrementAttempts bumps the attempt counter only while it is below the
	// record's budget, in a single conditional statement, and returns the new
	// count. Concurrent guesses can never push the counter past MaxAttempts.
	IncrementAttempts(ctx context.Context, id string) (int, error)
	// Consume marks the record used; it fails for already-consumed records so
	// a code can never verify twice.
	Consume(ctx context.Context, id string, at time.Time) (bool, error)
}

type ResetOtpRepository interface {
	Save(ctx context.Context, record *PasswordResetOtp) error
	FindLatest(ctx context.Context, telephone string) (*PasswordResetOtp, error)
	Remove(ctx context.Context, id string) error
}

// AttemptStore records authentication attempts for auditing. Writes are
// best-effort and dispatched off the request path.
type AttemptStore interface {
	RecordLoginAttempt(ctx context.Context, identifier, ipAddress string, successful bool) error
}
