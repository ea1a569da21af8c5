package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xodiumx/foodgram/internal/service"
)

// handleServiceError maps service sentinels onto HTTP statuses: validation
// and conflicts to 400, missing rows to 404, permission problems to 403.
func handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRecipeNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrNotFavorited),
		errors.Is(err, service.ErrNotInCart),
		errors.Is(err, service.ErrNotFollowing):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotAuthor):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrDuplicateIngredient),
		errors.Is(err, service.ErrAmountOutOfRange),
		errors.Is(err, service.ErrCookingTimeOutOfRange),
		errors.Is(err, service.ErrIngredientNotFound),
		errors.Is(err, service.ErrTagNotFound),
		errors.Is(err, service.ErrAlreadyFavorited),
		errors.Is(err, service.ErrAlreadyInCart),
		errors.Is(err, service.ErrSelfFollow),
		errors.Is(err, service.ErrAlreadyFollowing),
		errors.Is(err, service.ErrUserExists),
		errors.Is(err, service.ErrUsernameForbidden),
		errors.Is(err, service.ErrWrongPassword),
		errors.Is(err, service.ErrWrongCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
