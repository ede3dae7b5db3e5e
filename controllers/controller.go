package controllers

import (
	"errors"
	"net/http"

	"accesscontrol/services"

	"github.com/gin-gonic/gin"
)

func RespondError(c *gin.Context, msg string, code int) {
	c.JSON(code, gin.H{"error": msg})
}

func RespondSuccess(c *gin.Context, payload any) {
	c.JSON(200, payload)
}

// RespondServiceError traduz os erros sentinela do núcleo em status HTTP.
func RespondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		RespondError(c, err.Error(), http.StatusNotFound)
	case errors.Is(err, services.ErrValidation):
		RespondError(c, err.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrInvalidState):
		RespondError(c, err.Error(), http.StatusConflict)
	default:
		RespondError(c, err.Error(), http.StatusInternalServerError)
	}
}
