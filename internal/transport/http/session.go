package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iamasit07/reversi/backend/internal/domain"
	"github.com/iamasit07/reversi/backend/internal/service/game"
)

// SessionHandler exposes live games against the bot for clients that do
// not keep a WebSocket open.
type SessionHandler struct {
	Sessions          *game.SessionManager
	DefaultDifficulty string
}

func NewSessionHandler(sm *game.SessionManager, defaultDifficulty string) *SessionHandler {
	return &SessionHandler{Sessions: sm, DefaultDifficulty: defaultDifficulty}
}

type createSessionRequest struct {
	Name       string `json:"name"`
	Color      int    `json:"color"`
	Difficulty string `json:"difficulty"`
}

func (h *SessionHandler) Create(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Color == 0 {
		req.Color = int(domain.Player1)
	}
	if req.Difficulty == "" {
		req.Difficulty = h.DefaultDifficulty
	}

	_, snap, err := h.Sessions.CreateSession(req.Name, domain.PlayerID(req.Color), req.Difficulty)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, snap)
}

func (h *SessionHandler) Get(c *gin.Context) {
	session, ok := h.Sessions.GetSession(c.Param("id"))
	if !ok {
		writeError(c, game.ErrSessionNotFound)
		return
	}
	c.JSON(http.StatusOK, session.Snapshot())
}

func (h *SessionHandler) Move(c *gin.Context) {
	session, ok := h.Sessions.GetSession(c.Param("id"))
	if !ok {
		writeError(c, game.ErrSessionNotFound)
		return
	}

	var move domain.Move
	if err := c.ShouldBindJSON(&move); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	snap, err := session.HandleMove(move)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *SessionHandler) Resign(c *gin.Context) {
	snap, err := h.Sessions.Abandon(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}
