package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/devflow/backend/internal/apperr"
)

// Every endpoint answers with the same envelope:
// {success, data?, error: {message, details?}}. The UI decides
// presentation; details is the field->messages map on validation
// failures.

func respond(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func respondErr(c *gin.Context, err error) {
	var (
		validationErr  *apperr.ValidationError
		unauthorized   *apperr.UnauthorizedError
		forbidden      *apperr.ForbiddenError
		notFound       *apperr.NotFoundError
		conflict       *apperr.ConflictError
		transactionErr *apperr.TransactionError
	)

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"message": validationErr.Error(),
				"details": validationErr.Fields,
			},
		})
	case errors.As(err, &unauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   gin.H{"message": "User not authenticated"},
		})
	case errors.As(err, &forbidden):
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error":   gin.H{"message": forbidden.Error()},
		})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   gin.H{"message": notFound.Error()},
		})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error":   gin.H{"message": conflict.Error()},
		})
	case errors.As(err, &transactionErr):
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   gin.H{"message": "Something went wrong"},
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   gin.H{"message": "Something went wrong"},
		})
	}
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   gin.H{"message": message},
	})
}
