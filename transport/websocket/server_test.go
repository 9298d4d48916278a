package websocket

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/entity"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/repository"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-timetravel/testing/suite"
)

func dial(t *testing.T) *websocket.Conn {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	logger := suite.NewLogger()
	manager := usecase.NewGameManager(logger, repository.NewMemoryGameRepository())
	srv := httptest.NewServer(New(logger, manager).Handler(ctx))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = resp.Body.Close()
		_ = conn.Close()
	})

	return conn
}

func roundTrip(t *testing.T, conn *websocket.Conn, action string, payload any) (string, *ResponsePayload) {
	t.Helper()

	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(Message{Action: action, Payload: raw}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var reply Message
	require.NoError(t, conn.ReadJSON(&reply))

	var response ResponsePayload
	require.NoError(t, json.Unmarshal(reply.Payload, &response))

	return reply.Action, &response
}

func intPtr(v int) *int {
	return &v
}

func TestServer_GameFlow(t *testing.T) {
	conn := dial(t)

	// Given: a new game created over the socket
	action, resp := roundTrip(t, conn, actionNewGame, RequestPayload{})
	require.Equal(t, actionNewGame, action)
	require.Empty(t, resp.Error)
	gameID := resp.Game.ID
	require.NotEmpty(t, gameID)

	// When: moves 0,3,1,4,2 are sent
	for _, cell := range []int{0, 3, 1, 4, 2} {
		action, resp = roundTrip(t, conn, actionMove, RequestPayload{GameID: gameID, Cell: intPtr(cell)})
		require.Equal(t, actionMove, action)
		require.Empty(t, resp.Error)
	}

	// Then: X has won
	assert.Equal(t, "Winner: X", resp.Game.Status)

	// When: jumping back to the start
	_, resp = roundTrip(t, conn, actionJump, RequestPayload{GameID: gameID, Step: intPtr(0)})

	// Then: the board is empty and X is to move, history kept
	require.Empty(t, resp.Error)
	assert.Equal(t, "Next player: X", resp.Game.Status)
	assert.Len(t, resp.Game.Moves, 6)

	// When: the state is requested in descending order
	_, resp = roundTrip(t, conn, actionState, RequestPayload{GameID: gameID, Order: "desc"})

	// Then: the latest move comes first
	require.Empty(t, resp.Error)
	assert.Equal(t, 5, resp.Game.Moves[0].Step)

	// When: the game is restarted
	_, resp = roundTrip(t, conn, actionRestart, RequestPayload{GameID: gameID})

	// Then: only the start remains
	require.Empty(t, resp.Error)
	assert.Len(t, resp.Game.Moves, 1)
	assert.Equal(t, entity.EmptyCell, resp.Game.Squares[0].Value)
}

func TestServer_Errors(t *testing.T) {
	conn := dial(t)

	t.Run("Unknown action", func(t *testing.T) {
		action, resp := roundTrip(t, conn, "game:fly", RequestPayload{})

		assert.Equal(t, "game:fly", action)
		assert.Contains(t, resp.Error, "unknown action")
	})

	t.Run("Unknown game", func(t *testing.T) {
		_, resp := roundTrip(t, conn, actionState, RequestPayload{GameID: "missing"})

		assert.Equal(t, "game not found", resp.Error)
		assert.Nil(t, resp.Game)
	})

	t.Run("Missing cell", func(t *testing.T) {
		_, resp := roundTrip(t, conn, actionMove, RequestPayload{GameID: "missing"})

		assert.Equal(t, errCellRequired.Error(), resp.Error)
	})

	t.Run("Invalid step", func(t *testing.T) {
		_, created := roundTrip(t, conn, actionNewGame, RequestPayload{})
		require.NotNil(t, created.Game)

		_, resp := roundTrip(t, conn, actionJump, RequestPayload{GameID: created.Game.ID, Step: intPtr(4)})

		assert.Equal(t, "invalid history step", resp.Error)
	})

	t.Run("Malformed message keeps the connection open", func(t *testing.T) {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{nope")))

		var reply Message
		require.NoError(t, conn.ReadJSON(&reply))
		assert.Contains(t, string(reply.Payload), "malformed message")

		_, resp := roundTrip(t, conn, actionNewGame, RequestPayload{})
		assert.Empty(t, resp.Error)
	})
}

func TestServer_ReadLimit(t *testing.T) {
	conn := dial(t)

	// When: a frame larger than the read limit is sent
	oversized := strings.Repeat("x", 2*maxMessageSize)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(oversized)))

	// Then: the server closes the connection as too big
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseMessageTooBig), "unexpected error: %v", err)
}
