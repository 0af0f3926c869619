package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"referral-arcade/internal/services"
)

// respondError maps a service error to the JSON error envelope and status
// code. Store failures are logged with the operation name and reported as a
// generic internal error.
func respondError(c *gin.Context, op string, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": services.ErrNotFound.Error()})
	case errors.Is(err, services.ErrInsufficientFunds):
		c.JSON(http.StatusBadRequest, gin.H{"error": services.ErrInsufficientFunds.Error()})
	case errors.Is(err, services.ErrWalletMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": services.ErrWalletMismatch.Error()})
	default:
		log.Printf("%s: %v", op, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
