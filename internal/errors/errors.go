package errors

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

var (
	ErrMissingIdentifier  = errors.New("email or telephone is required")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailAlreadyInUse  = errors.New("an account already exists with this email")
	ErrPhoneAlreadyInUse  = errors.New("an account already exists with this telephone")

	ErrRefreshTokenNotFound = errors.New("refresh token not found")
	ErrRefreshTokenRevoked  = errors.New("refresh token revoked")
	ErrRefreshTokenExpired  = errors.New("refresh token expired")

	ErrInvalidOrExpiredOtp = errors.New("invalid or expired code")
	ErrTooManyOtpAttempts  = errors.New("too many verification attempts")

	ErrInvalidOAuthToken  = errors.New("invalid Google token")
	ErrOAuthNotConfigured = errors.New("Apple authentication is not configured")

	ErrInvalidResetToken = errors.New("invalid or expired reset token")
	ErrUserNotFound      = errors.New("user not found")
	ErrTooManyRequests   = errors.New("too many requests")
)

// Envelope is the JSON error body returned by every handler.
type Envelope struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

// HTTPStatus maps a service error to its outward HTTP status code.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrMissingIdentifier), errors.Is(err, ErrWeakPassword):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrEmailAlreadyInUse), errors.Is(err, ErrPhoneAlreadyInUse):
		return fiber.StatusConflict
	case errors.Is(err, ErrUserNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrTooManyRequests), errors.Is(err, ErrTooManyOtpAttempts):
		return fiber.StatusTooManyRequests
	case errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrRefreshTokenNotFound),
		errors.Is(err, ErrRefreshTokenRevoked),
		errors.Is(err, ErrRefreshTokenExpired),
		errors.Is(err, ErrInvalidOrExpiredOtp),
		errors.Is(err, ErrInvalidOAuthToken),
		errors.Is(err, ErrOAuthNotConfigured),
		errors.Is(err, ErrInvalidResetToken):
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

// PublicMessage returns the message safe to surface to clients. The three
// refresh-token failure modes stay distinguishable in logs but collapse to a
// single outward message, and unexpected errors never leak internals.
func PublicMessage(err error) string {
	switch {
	case errors.Is(err, ErrRefreshTokenNotFound),
		errors.Is(err, ErrRefreshTokenRevoked),
		errors.Is(err, ErrRefreshTokenExpired):
		return "invalid refresh token"
	case HTTPStatus(err) == fiber.StatusInternalServerError:
		return "internal server error"
	default:
		return err.Error()
	}
}
