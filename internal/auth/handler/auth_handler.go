package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Mollylil16/developpement-farm-sub012/internal/auth/dto"
	"github.com/Mollylil16/developpement-farm-sub012/internal/auth/service"
	autherror "github.com/Mollylil16/developpement-farm-sub012/internal/errors"
)

type AuthHandler struct {
	authService *service.AuthService
	otpService  *service.OtpService
	tokens      service.TokenGenerator
	logger      *zap.Logger
}

func NewAuthHandler(authService *service.AuthService, otpService *service.OtpService,
	tokens service.TokenGenerator, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		otpService:  otpService,
		tokens:      tokens,
		logger:      logger,
	}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input dto.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid input")
	}

	input.IPAddress = c.IP()
	input.UserAgent = string(c.Request().Header.UserAgent())

	tokens, err := h.authService.Register(c.Context(), input)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(tokens)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input dto.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid input")
	}

	input.IPAddress = c.IP()
	input.UserAgent = string(c.Request().Header.UserAgent())

	tokens, err := h.authService.Login(c.Context(), input)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(tokens)
}

func (h *AuthHandler) LoginSimple(c *fiber.Ctx) error {
	var input dto.SimpleLoginInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid input")
	}

	input.IPAddress = c.IP()
	input.UserAgent = string(c.Request().Header.UserAgent())

	tokens, err := h.authService.LoginSimple(c.Context(), input)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(tokens)
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var input dto.RefreshInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid input")
	}

	input.IPAddress = c.IP()

	tokens, err := h.authService.Refresh(c.Context(), input)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(tokens)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var input dto.LogoutInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid input")
	}

	if err := h.authService.Logout(c.Context(), input.RefreshToken); err != nil {
		return h.respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "logged out"})
}

func (h *AuthHandler) Google(c *fiber.Ctx) error {
	var input dto.GoogleLoginInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid input")
	}

	input.IPAddress = c.IP()
	input.UserAgent = string(c.Request().Header.UserAgent())

	tokens, err := h.authService.LoginWithGoogle(c.Context(), input)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(tokens)
}

func (h *AuthHandler) Apple(c *fiber.Ctx) error {
	var input dto.AppleLoginInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid input")
	}

	input.IPAddress = c.IP()
	input.UserAgent = string(c.Request().Header.UserAgent())

	tokens, err := h.authService.LoginWithApple(c.Context(), input)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(tokens)
}

// ForgotPassword always answers with the same success shape; account
// existence is never revealed.
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var input dto.ForgotPasswordInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid input")
	}

	if err := h.authService.RequestPasswordReset(c.Context(), input.Telephone); err != nil {
		return h.respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
}

func (h *AuthHandler) VerifyResetOtp(c *fiber.Ctx) error {
	var input dto.VerifyResetOtpInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid input")
	}

	output, err := h.authService.VerifyResetOtp(c.Context(), input.Telephone, input.Otp)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(output)
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var input dto.ResetPasswordInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid input")
	}

	if err := h.authService.ResetPassword(c.Context(), input); err != nil {
		return h.respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "password updated"})
}

// RequestOtp answers {ok:true} regardless of whether the identifier is
// known, to avoid enumeration.
func (h *AuthHandler) RequestOtp(c *fiber.Ctx) error {
	var input dto.OtpRequestInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid input")
	}

	input.IPAddress = c.IP()
	input.UserAgent = string(c.Request().Header.UserAgent())

	if err := h.otpService.Request(c.Context(), input.Identifier, input.Purpose, input.IPAddress, input.UserAgent); err != nil {
		return h.respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
}

func (h *AuthHandler) VerifyOtp(c *fiber.Ctx) error {
	var input dto.OtpVerifyInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid input")
	}

	identifier, channel, err := h.otpService.Verify(c.Context(), input.Identifier, input.Purpose, input.Code)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(dto.OtpVerifyOutput{Identifier: identifier, Channel: channel})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, _ := c.Locals(localUserID).(string)

	user, err := h.authService.Me(c.Context(), userID)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(user)
}

func (h *AuthHandler) DeleteAccount(c *fiber.Ctx) error {
	userID, _ := c.Locals(localUserID).(string)

	if err := h.authService.DeleteAccount(c.Context(), userID); err != nil {
		return h.respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "account deleted"})
}

func (h *AuthHandler) respondError(c *fiber.Ctx, err error) error {
	status := autherror.HTTPStatus(err)
	if status == fiber.StatusInternalServerError {
		h.logger.Error("unexpected handler error",
			zap.String("path", c.Path()), zap.Error(err))
	}

	return c.Status(status).JSON(autherror.Envelope{
		StatusCode: status,
		Message:    autherror.PublicMessage(err),
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(autherror.Envelope{
		StatusCode: fiber.StatusBadRequest,
		Message:    message,
	})
}
