// Package usecase implements user management and the lead-details email.
package usecase

import "courtier_backend/internal/platform/apperr"

var (
	// ErrInvalidEmailType is returned when the lead email type is not buyer or seller.
	ErrInvalidEmailType = apperr.New(apperr.KindValidation, "type must be buyer or seller")

	// ErrInvalidPage is returned for non-positive paging parameters.
	ErrInvalidPage = apperr.New(apperr.KindValidation, "page and limit must be positive")
)
