// Package domain defines domain-level errors for the user feature.
package domain

import "courtier_backend/internal/platform/apperr"

// Domain errors for user persistence.
// Repositories return these values unwrapped so callers can match them with errors.Is.
var (
	// ErrUserNotFound indicates that no user matched the given criteria.
	ErrUserNotFound = apperr.New(apperr.KindNotFound, "User does not exist")

	// ErrUserAlreadyExists indicates that the email is already taken.
	ErrUserAlreadyExists = apperr.New(apperr.KindConflict, "User already exists")
)
