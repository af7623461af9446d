package service

import (
	"context"
	"fmt"

	"carezy/internal/mail"
	"carezy/internal/middleware"
	"carezy/internal/models"
	"carezy/internal/otp"
	"carezy/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// ResetService implements the two-step password-reset flow: issue a code by
// e-mail, redeem it to set a new password.
type ResetService struct {
	users  repository.UserRepository
	codes  otp.Store
	mailer mail.Sender
}

// NewResetService returns a new ResetService.
func NewResetService(users repository.UserRepository, codes otp.Store, mailer mail.Sender) *ResetService {
	return &ResetService{users: users, codes: codes, mailer: mailer}
}

// IssueCode generates a reset code for an existing account, stores it with
// its validity window, and dispatches it by e-mail.
func (s *ResetService) IssueCode(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		middleware.OTPEvents.WithLabelValues("issue", "unknown_email").Inc()
		return models.NewValidationError("User not found")
	}

	code, err := otp.GenerateCode()
	if err != nil {
		return models.NewInternalError(err)
	}

	if err := s.codes.Put(ctx, email, code); err != nil {
		middleware.OTPEvents.WithLabelValues("issue", "store_error").Inc()
		return err
	}

	body := fmt.Sprintf("Your OTP for password reset is: %s. It is valid for 5 minutes.", code)
	if err := s.mailer.Send(ctx, email, "Carezy Password Reset OTP", body); err != nil {
		middleware.OTPEvents.WithLabelValues("issue", "mail_error").Inc()
		return models.NewInternalError(err)
	}

	middleware.OTPEvents.WithLabelValues("issue", "ok").Inc()
	return nil
}

// ResetPassword redeems a code and overwrites the account's password hash.
// An absent, mismatched, or expired code fails; a code can be redeemed once.
func (s *ResetService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	ok, err := s.codes.Consume(ctx, email, code)
	if err != nil {
		return err
	}
	if !ok {
		middleware.OTPEvents.WithLabelValues("redeem", "rejected").Inc()
		return models.NewValidationError("Invalid or expired OTP")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return models.NewInternalError(err)
	}

	if err := s.users.UpdatePasswordByEmail(ctx, email, string(hashed)); err != nil {
		middleware.OTPEvents.WithLabelValues("redeem", "store_error").Inc()
		return err
	}

	middleware.OTPEvents.WithLabelValues("redeem", "ok").Inc()
	return nil
}
