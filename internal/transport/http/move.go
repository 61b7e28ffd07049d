package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iamasit07/reversi/backend/internal/service/analysis"
)

type MoveHandler struct {
	Analysis *analysis.Service
}

func NewMoveHandler(svc *analysis.Service) *MoveHandler {
	return &MoveHandler{Analysis: svc}
}

// positionRequest carries a board in the 0/1/2 row-major encoding and the
// player to move.
type positionRequest struct {
	Board  [][]int `json:"board" binding:"required"`
	Player int     `json:"player" binding:"required"`
}

// BestMove answers with the engine's move, or move=null and pass=true.
func (h *MoveHandler) BestMove(c *gin.Context) {
	var req positionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	result, err := h.Analysis.BestMove(c.Request.Context(), req.Board, req.Player)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *MoveHandler) LegalMoves(c *gin.Context) {
	var req positionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	moves, err := h.Analysis.LegalMoves(req.Board, req.Player)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"moves": moves})
}
