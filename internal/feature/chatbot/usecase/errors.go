// Package usecase implements the real-estate FAQ chatbot.
package usecase

import "courtier_backend/internal/platform/apperr"

// askFailedMessage is the client-facing message for any provider failure.
const askFailedMessage = "Error asking question"

// ErrEmptyQuestion is returned when the question is blank.
var ErrEmptyQuestion = apperr.New(apperr.KindValidation, "question must not be empty")
