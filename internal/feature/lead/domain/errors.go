// Package domain defines domain-level errors for the lead feature.
package domain

import "courtier_backend/internal/platform/apperr"

var (
	// ErrLeadNotFound indicates that no lead has the given ID.
	ErrLeadNotFound = apperr.New(apperr.KindNotFound, "Lead does not exist")
)
