package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/iamasit07/reversi/backend/internal/repository/postgres"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

type GameReader interface {
	GetGameByID(ctx context.Context, gameID string) (*postgres.GameRecord, error)
	ListRecent(ctx context.Context, limit int) ([]postgres.GameRecord, error)
}

type HistoryHandler struct {
	GameRepo GameReader
}

// NewHistoryHandler accepts a nil repository; the endpoints then answer 503.
func NewHistoryHandler(gameRepo GameReader) *HistoryHandler {
	return &HistoryHandler{GameRepo: gameRepo}
}

func (h *HistoryHandler) GetHistory(c *gin.Context) {
	if h.GameRepo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Game history is not configured"})
		return
	}

	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	games, err := h.GameRepo.ListRecent(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, games)
}

func (h *HistoryHandler) GetGameDetails(c *gin.Context) {
	if h.GameRepo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Game history is not configured"})
		return
	}

	game, err := h.GameRepo.GetGameByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if game == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}

	c.JSON(http.StatusOK, game)
}
