package server

import (
	"net/mail"

	"carezy/internal/models"

	"github.com/gofiber/fiber/v2"
)

// SendResetOTP handles POST /send-reset-otp
func (s *Server) SendResetOTP(c *fiber.Ctx) error {
	if s.resetSvc == nil {
		return models.RespondWithError(c, fiber.StatusServiceUnavailable,
			models.NewValidationError("Email delivery is not configured"))
	}

	var req struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid email address"))
	}

	if err := s.resetSvc.IssueCode(c.UserContext(), req.Email); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(fiber.Map{
		"message": "OTP sent to your email",
	})
}

// ResetPassword handles POST /reset-password
func (s *Server) ResetPassword(c *fiber.Ctx) error {
	if s.resetSvc == nil {
		return models.RespondWithError(c, fiber.StatusServiceUnavailable,
			models.NewValidationError("Email delivery is not configured"))
	}

	var req struct {
		Email       string `json:"email"`
		OTP         string `json:"otp"`
		NewPassword string `json:"newPassword"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Email == "" || req.OTP == "" || req.NewPassword == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Email, OTP, and new password are required"))
	}
	if len(req.NewPassword) < minPasswordLength {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Password must be at least 8 characters"))
	}

	if err := s.resetSvc.ResetPassword(c.UserContext(), req.Email, req.OTP, req.NewPassword); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(fiber.Map{
		"message": "Password reset successful",
	})
}
