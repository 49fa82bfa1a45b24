package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/tictactoe-engine/transport/view"
)

const (
	actionConnect    = "connect"
	actionGameTurn   = "game:turn"
	actionGameReset  = "game:reset"
	actionGameMode   = "game:mode"
	actionGameUpdate = "game:update"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type RequestPayload struct {
	SessionID string `json:"sessionId,omitempty"`
	Cell      *int   `json:"cell,omitempty"`
}

type ResponsePayload struct {
	Session  *view.Session `json:"session,omitempty"`
	Accepted bool          `json:"accepted"`
	Event    string        `json:"event,omitempty"`
	Error    string        `json:"error,omitempty"`
}

type Response struct {
	Action  string          `json:"action"`
	Payload ResponsePayload `json:"payload"`
}
