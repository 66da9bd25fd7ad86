package http

import (
	"github.com/gin-gonic/gin"

	"courtier_backend/internal/platform/apperr"
)

// Response is the JSON envelope written by every endpoint.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Data       any    `json:"data,omitempty"`
}

// JSON writes an envelope with the given status, message and optional data.
func JSON(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Response{StatusCode: status, Message: message, Data: data})
}

// AbortWithError stops the handler chain and writes err as an envelope.
// The status is derived from the apperr kind of err.
func AbortWithError(c *gin.Context, err error) {
	status := apperr.KindOf(err).Status()
	c.AbortWithStatusJSON(status, Response{StatusCode: status, Message: apperr.MessageOf(err)})
}

// BindError converts a request binding failure into a validation error.
func BindError(err error) error {
	return apperr.Wrap(apperr.KindValidation, "invalid request: "+err.Error(), err)
}
