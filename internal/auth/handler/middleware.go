package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	autherror "github.com/Mollylil16/developpement-farm-sub012/internal/errors"
)

const (
	localUserID = "userID"
	localEmail  = "userEmail"
	localRoles  = "userRoles"
)

// RequireAuth validates the bearer access token and stashes its claims in
// the request locals.
func (h *AuthHandler) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return unauthorized(c, "missing authorization header")
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return unauthorized(c, "invalid authorization header")
		}

		claims, err := h.tokens.VerifyAccessToken(strings.TrimSpace(parts[1]))
		if err != nil {
			return unauthorized(c, "invalid or expired token")
		}

		c.Locals(localUserID, claims.Subject)
		c.Locals(localEmail, claims.Email)
		c.Locals(localRoles, claims.Roles)

		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(autherror.Envelope{
		StatusCode: fiber.StatusUnauthorized,
		Message:    message,
	})
}
