package domain

import "time"

type User struct {
	ID             string
	Email          string
	Telephone      string
	FirstName      string
	LastName       string
	PasswordHash   string
	Provider       string
	ProviderID     string
	Roles          []string
	LastConnection *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type RefreshToken struct {
	ID         string
	UserID     string
	TokenHash  string
	IPAddress  string
	UserAgent  string
	ExpiresAt  time.Time
	LastUsedAt *time.Time
	CreatedAt  time.Time
	Revoked    bool
}

// OtpRecord stores a channel-possession code as a salted keyed hash; the
// plaintext code exists only in the delivery message.
type OtpRecord struct {
	ID           string
	Identifier   string
	Channel      string
	Purpose      string
	CodeHash     string
	CodeSalt     string
	IPAddress    string
	UserAgent    string
	ExpiresAt    time.Time
	ConsumedAt   *time.Time
	AttemptCount int
	MaxAttempts  int
	CreatedAt    time.Time
}

// PasswordResetOtp is the phone-only reset variant. The code is kept in
// plaintext and the record is deleted once verified.
type PasswordResetOtp struct {
	ID        string
	UserID    string
	Telephone string
	Otp       string
	Type      string
	ExpiresAt time.Time
	CreatedAt time.Time
}

const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"

	PasswordResetType = "password_reset"
)
