package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Mollylil16/developpement-farm-sub012/internal/ratelimit"
)

// AuthRules are the per-route budgets for the auth surface. Everything else
// falls back to the limiter's process-wide default.
func AuthRules() map[string]ratelimit.Rule {
	return map[string]ratelimit.Rule{
		"auth:register":         {Limit: 5, Window: time.Minute},
		"auth:login":            {Limit: 5, Window: time.Minute},
		"auth:login-simple":     {Limit: 5, Window: time.Minute},
		"auth:forgot-password":  {Limit: 3, Window: time.Minute},
		"auth:verify-reset-otp": {Limit: 5, Window: time.Minute},
		"auth:otp-request":      {Limit: 3, Window: time.Minute},
		"auth:otp-verify":       {Limit: 5, Window: time.Minute},
	}
}

func RegisterRoutes(app *fiber.App, h *AuthHandler, rl *ratelimit.Limiter) {
	auth := app.Group("/auth")

	auth.Post("/register", rl.Handle("auth", "register"), h.Register)
	auth.Post("/login", rl.Handle("auth", "login"), h.Login)
	auth.Post("/login-simple", rl.Handle("auth", "login-simple"), h.LoginSimple)
	auth.Post("/refresh", rl.Handle("auth", "refresh"), h.Refresh)
	auth.Post("/logout", rl.Handle("auth", "logout"), h.RequireAuth(), h.Logout)
	auth.Post("/google", rl.Handle("auth", "google"), h.Google)
	auth.Post("/apple", rl.Handle("auth", "apple"), h.Apple)
	auth.Post("/forgot-password", rl.Handle("auth", "forgot-password"), h.ForgotPassword)
	auth.Post("/verify-reset-otp", rl.Handle("auth", "verify-reset-otp"), h.VerifyResetOtp)
	auth.Post("/reset-password", rl.Handle("auth", "reset-password"), h.ResetPassword)
	auth.Post("/otp/request", rl.Handle("auth", "otp-request"), h.RequestOtp)
	auth.Post("/otp/verify", rl.Handle("auth", "otp-verify"), h.VerifyOtp)
	auth.Get("/me", rl.Handle("auth", "me"), h.RequireAuth(), h.Me)
	auth.Delete("/account", rl.Handle("auth", "delete-account"), h.RequireAuth(), h.DeleteAccount)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
}
