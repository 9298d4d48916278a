package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/view"
)

const (
	actionNewGame = "game:new"
	actionState   = "game:state"
	actionMove    = "game:move"
	actionJump    = "game:jump"
	actionRestart = "game:restart"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type RequestPayload struct {
	GameID string `json:"game_id"`
	Cell   *int   `json:"cell,omitempty"`
	Step   *int   `json:"step,omitempty"`
	Order  string `json:"order,omitempty"`
}

type ResponsePayload struct {
	Game  *view.Game `json:"game,omitempty"`
	Error string     `json:"error,omitempty"`
}
