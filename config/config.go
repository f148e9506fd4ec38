package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Env  string `env:"ENV" envDefault:"development"`
	Port string `env:"PORT" envDefault:"8080" validate:"numeric"`

	DBURL string `env:"DB_URL" validate:"required"`

	JWTSecret       string        `env:"JWT_SECRET" validate:"required"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"1h"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"168h"`
	ResetTokenTTL   time.Duration `env:"RESET_TOKEN_TTL" envDefault:"15m"`

	OtpSecret      string        `env:"OTP_HMAC_SECRET" validate:"required"`
	OtpTTL         time.Duration `env:"OTP_TTL" envDefault:"5m"`
	OtpMaxAttempts int           `env:"OTP_MAX_ATTEMPTS" envDefault:"5" validate:"gt=0"`
	ResetOtpTTL    time.Duration `env:"RESET_OTP_TTL" envDefault:"10m"`

	GoogleClientIDs []string      `env:"GOOGLE_CLIENT_IDS" envSeparator:","`
	OAuthTimeout    time.Duration `env:"OAUTH_TIMEOUT" envDefault:"5s"`

	RegisterBcryptCost int `env:"REGISTER_BCRYPT_COST" envDefault:"12" validate:"gte=4,lte=31"`

	RateLimitBypass bool   `env:"RATE_LIMIT_BYPASS" envDefault:"false"`
	RedisAddr       string `env:"REDIS_ADDR"`
	RedisPassword   string `env:"REDIS_PASSWORD"`
}

// Load reads an optional .env file, parses the environment into the Config
// struct and validates it.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}
