package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Mollylil16/developpement-farm-sub012/config"
	"github.com/Mollylil16/developpement-farm-sub012/db"
	"github.com/Mollylil16/developpement-farm-sub012/internal/auth/handler"
	repo "github.com/Mollylil16/developpement-farm-sub012/internal/auth/repository/postgres"
	"github.com/Mollylil16/developpement-farm-sub012/internal/auth/service"
	"github.com/Mollylil16/developpement-farm-sub012/internal/ratelimit"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	dbPool, err := db.NewPostgresPool(ctx, cfg.DBURL)
	if err != nil {
		logger.Fatal("connect to database", zap.Error(err))
	}
	defer dbPool.Close()

	repository := repo.NewPostgresRepository(dbPool)

	tokenService := service.NewTokenService(repository, cfg.JWTSecret,
		cfg.AccessTokenTTL, cfg.RefreshTokenTTL, cfg.ResetTokenTTL)
	otpService := service.NewOtpService(repository, cfg.OtpSecret,
		cfg.OtpTTL, cfg.OtpMaxAttempts, logger)
	oauthService := service.NewOAuthService(repository, cfg.GoogleClientIDs,
		cfg.OAuthTimeout, logger)
	attemptRecorder := service.NewAttemptRecorder(repository, logger)
	defer attemptRecorder.Close()

	authService := service.NewAuthService(repository, repository, tokenService,
		oauthService, attemptRecorder, cfg.RegisterBcryptCost, cfg.ResetOtpTTL, logger)

	var counterStore ratelimit.CounterStore = ratelimit.NewMemoryStore()
	if cfg.RedisAddr != "" {
		counterStore = ratelimit.NewRedisStore(redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}))
	}
	limiter := ratelimit.NewLimiter(counterStore, handler.AuthRules(), cfg.RateLimitBypass, logger)

	authHandler := handler.NewAuthHandler(authService, otpService, tokenService, logger)

	app := fiber.New()
	handler.RegisterRoutes(app, authHandler, limiter)

	logger.Info("starting server", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
