package http

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"courtier_backend/internal/platform/apperr"
)

// PageRequest is the body of the admin list endpoints.
type PageRequest struct {
	Page  int `json:"page" binding:"required,min=1"`
	Limit int `json:"limit" binding:"required,min=1"`
}

// ParamID parses a positive numeric path parameter.
func ParamID(c *gin.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		return 0, apperr.New(apperr.KindValidation, name+" must be a positive integer")
	}
	return uint(v), nil
}
