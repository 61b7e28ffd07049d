package websocket

import (
	"github.com/iamasit07/reversi/backend/internal/domain"
	"github.com/iamasit07/reversi/backend/internal/service/game"
)

const (
	MsgStartGame   = "start_game"
	MsgMakeMove    = "make_move"
	MsgAbandonGame = "abandon_game"

	MsgGameState = "game_state"
	MsgGameOver  = "game_over"
	MsgError     = "error"
)

// ClientMessage is any frame sent by the browser. Only the fields relevant
// to Type are read.
type ClientMessage struct {
	Type       string `json:"type"`
	Token      string `json:"token,omitempty"`
	Name       string `json:"name,omitempty"`
	Color      int    `json:"color,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
	Row        int    `json:"row"`
	Col        int    `json:"col"`
}

// ServerMessage flattens the session snapshot next to the type, so a
// game_state frame looks like {"type":"game_state","gameId":...,"board":...}.
type ServerMessage struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
	*game.Snapshot
}

func stateMessage(snap game.Snapshot) ServerMessage {
	msgType := MsgGameState
	if snap.Status != domain.StatusActive {
		msgType = MsgGameOver
	}
	return ServerMessage{Type: msgType, Snapshot: &snap}
}

func errorMessage(message string) ServerMessage {
	return ServerMessage{Type: MsgError, Message: message}
}
