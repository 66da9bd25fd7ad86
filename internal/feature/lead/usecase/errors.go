// Package usecase implements the business logic for the lead feature.
package usecase

import "courtier_backend/internal/platform/apperr"

// MaxImages is the largest number of images accepted per request.
const MaxImages = 10

var (
	// ErrInvalidLeadType is returned when leadType is not buyer or seller.
	ErrInvalidLeadType = apperr.New(apperr.KindValidation, "leadType must be buyer or seller")

	// ErrInvalidPropertyType is returned for an unknown propertyType.
	ErrInvalidPropertyType = apperr.New(apperr.KindValidation, "propertyType is not supported")

	// ErrInvalidLocation is returned when location is not a JSON list of places.
	ErrInvalidLocation = apperr.New(apperr.KindValidation, "location must be a list of {city, boroughs}")

	// ErrTooManyImages is returned when more than MaxImages files are uploaded.
	ErrTooManyImages = apperr.New(apperr.KindValidation, "at most 10 images can be uploaded")

	// ErrInvalidPage is returned for non-positive paging parameters.
	ErrInvalidPage = apperr.New(apperr.KindValidation, "page and limit must be positive")
)
