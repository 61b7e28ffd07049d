package websocket

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/iamasit07/reversi/backend/internal/domain"
	"github.com/iamasit07/reversi/backend/internal/service/game"
	"github.com/iamasit07/reversi/backend/pkg/auth"
	"github.com/iamasit07/reversi/backend/pkg/httputil"
)

// Handler serves live games against the bot, one game at a time per socket.
type Handler struct {
	Sessions          *game.SessionManager
	DefaultDifficulty string
	RequireAuth       bool
	JWTSecret         string
	Upgrader          websocket.Upgrader
}

// NewHandler creates the handler. An empty allowedOrigins list accepts any
// origin.
func NewHandler(sm *game.SessionManager, defaultDifficulty string, allowedOrigins []string, requireAuth bool, jwtSecret string) *Handler {
	return &Handler{
		Sessions:          sm,
		DefaultDifficulty: defaultDifficulty,
		RequireAuth:       requireAuth,
		JWTSecret:         jwtSecret,
		Upgrader: websocket.Upgrader{
			CheckOrigin:     originChecker(allowedOrigins),
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(allowed) == 0 {
			return true
		}
		for _, o := range allowed {
			if o == origin {
				return true
			}
		}
		log.Printf("[WS] Rejected origin %q", origin)
		return false
	}
}

func (h *Handler) HandleWebSocket(c *gin.Context) {
	conn, err := h.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WS] Upgrade error: %v", err)
		return
	}

	conn.SetReadLimit(4096)
	h.handleConnection(newClient(conn), h.authenticateRequest(c.Request))
}

// authenticateRequest accepts a token carried by the upgrade request itself;
// browsers that cannot set headers send it on start_game instead.
func (h *Handler) authenticateRequest(r *http.Request) string {
	if !h.RequireAuth {
		return ""
	}
	token, err := httputil.GetTokenFromRequest(r)
	if err != nil {
		return ""
	}
	claims, err := auth.ValidateAccessToken(h.JWTSecret, token)
	if err != nil {
		return ""
	}
	return claims.ClientID
}

// connState is what one socket knows between frames.
type connState struct {
	clientID string
	session  *game.GameSession
}

func (h *Handler) handleConnection(client *Client, clientID string) {
	go client.keepAlive()

	state := &connState{clientID: clientID}
	defer func() {
		if state.session != nil {
			// The session stays reachable over HTTP until the cleanup
			// worker times it out.
			log.Printf("[WS] Connection closed with game %s still open", state.session.GameID)
		}
		client.Close()
	}()

	for {
		_, data, err := client.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WS] Client disconnected unexpectedly: %v", err)
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("[WS] Invalid message format: %v", err)
			client.Send(errorMessage("Invalid message format"))
			continue
		}

		if !h.processMessage(client, state, msg) {
			return
		}
	}
}

// processMessage handles one frame and reports whether the connection
// should stay open.
func (h *Handler) processMessage(client *Client, state *connState, msg ClientMessage) bool {
	switch msg.Type {
	case MsgStartGame:
		if h.RequireAuth && state.clientID == "" {
			claims, err := auth.ValidateAccessToken(h.JWTSecret, msg.Token)
			if err != nil {
				client.Send(errorMessage("Invalid token"))
				return false
			}
			state.clientID = claims.ClientID
		}

		h.abandon(state)

		color := domain.PlayerID(msg.Color)
		if msg.Color == 0 {
			color = domain.Player1
		}
		difficulty := msg.Difficulty
		if difficulty == "" {
			difficulty = h.DefaultDifficulty
		}

		session, snap, err := h.Sessions.CreateSession(msg.Name, color, difficulty)
		if err != nil {
			client.Send(errorMessage(err.Error()))
			return true
		}
		state.session = session
		h.sendState(client, state, snap)

	case MsgMakeMove:
		if state.session == nil {
			client.Send(errorMessage(game.ErrSessionNotFound.Error()))
			return true
		}
		snap, err := state.session.HandleMove(domain.Move{Row: msg.Row, Col: msg.Col})
		if err != nil {
			client.Send(errorMessage(messageFor(err)))
			return true
		}
		h.sendState(client, state, snap)

	case MsgAbandonGame:
		if state.session == nil {
			client.Send(errorMessage(game.ErrSessionNotFound.Error()))
			return true
		}
		snap, err := state.session.Resign()
		if err != nil {
			client.Send(errorMessage(messageFor(err)))
			return true
		}
		h.sendState(client, state, snap)

	default:
		client.Send(errorMessage("Unknown message type"))
	}
	return true
}

// sendState pushes the snapshot and forgets the session once it is over.
func (h *Handler) sendState(client *Client, state *connState, snap game.Snapshot) {
	msg := stateMessage(snap)
	if err := client.Send(msg); err != nil {
		log.Printf("[WS] Send to %s failed: %v", snap.GameID, err)
	}
	if msg.Type == MsgGameOver {
		state.session = nil
	}
}

// abandon resigns the socket's running game before a new one starts.
func (h *Handler) abandon(state *connState) {
	if state.session == nil {
		return
	}
	if _, err := state.session.Resign(); err != nil && !errors.Is(err, domain.ErrGameOver) {
		log.Printf("[WS] Could not abandon game %s: %v", state.session.GameID, err)
	}
	state.session = nil
}

func messageFor(err error) string {
	var domainErr domain.Error
	if errors.As(err, &domainErr) {
		return domainErr.Error()
	}
	log.Printf("[WS] %v", err)
	return "Internal server error"
}
