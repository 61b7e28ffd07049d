package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iamasit07/reversi/backend/internal/domain"
	"github.com/iamasit07/reversi/backend/internal/service/game"
)

// writeError maps domain errors to 4xx and everything else to 500.
func writeError(c *gin.Context, err error) {
	var domainErr domain.Error
	switch {
	case errors.Is(err, game.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &domainErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": domainErr.Error()})
	default:
		log.Printf("[HTTP] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
