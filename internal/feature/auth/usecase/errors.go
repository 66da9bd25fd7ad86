// Package usecase implements the business logic for the auth feature.
package usecase

import "courtier_backend/internal/platform/apperr"

var (
	// ErrPasswordPolicy is returned when a password does not satisfy the policy.
	ErrPasswordPolicy = apperr.New(apperr.KindValidation,
		"Password must be 8-20 characters and contain at least one digit, one uppercase and one lowercase letter")

	// ErrUnknownEmail is returned by Login when no account has the email.
	ErrUnknownEmail = apperr.New(apperr.KindUnauthorized, "Invalid credentials")

	// ErrWrongPassword is returned by Login when the password does not match.
	ErrWrongPassword = apperr.New(apperr.KindBadRequest, "Invalid credentials")

	// ErrNoSuchAccount is returned by ForgotPassword when no account has the email.
	ErrNoSuchAccount = apperr.New(apperr.KindBadRequest, "User does not exist")

	// ErrLinkExpired is returned when a reset token is invalid, expired or superseded.
	ErrLinkExpired = apperr.New(apperr.KindBadRequest, "Password reset link expired")

	// ErrSamePassword is returned when the new password equals the current one.
	ErrSamePassword = apperr.New(apperr.KindBadRequest, "New password must be different from the current password")
)
