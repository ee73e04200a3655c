package websocket

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-client/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-client/internal/entity"
)

const receiveTimeout = 5 * time.Second

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeServer upgrades one connection, records the join command, and
// answers with a state frame and a chat message.
func fakeServer(t *testing.T, joined chan<- entity.Command) *httptest.Server {
	t.Helper()

	upgrader := websocket.Upgrader{}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()

		var join entity.Command
		require.NoError(t, conn.ReadJSON(&join))
		joined <- join

		frame := entity.GameFrame{
			GameID:         join.GameID,
			Board:          entity.NewBoard(),
			Status:         entity.StatusInProgress,
			CurrentPlayer:  entity.MarkX,
			PlayerXPresent: true,
		}
		framePayload, err := json.Marshal(frame)
		require.NoError(t, err)
		require.NoError(t, conn.WriteJSON(message{Action: actionState, Payload: framePayload}))

		chatPayload, err := json.Marshal(entity.ChatMessage{Player: "Player X", Message: "hello"})
		require.NoError(t, err)
		require.NoError(t, conn.WriteJSON(message{Action: actionChat, Payload: chatPayload}))

		// Hold the socket open until the client is done.
		_, _, _ = conn.ReadMessage()
	}))
}

func TestConnection_ConnectAndReceive(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), receiveTimeout)
	defer cancel()

	joined := make(chan entity.Command, 1)
	server := fakeServer(t, joined)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn := New(testLogger(), wsURL)
	t.Cleanup(func() { _ = conn.Close() })

	// When: the client connects as a candidate joiner
	err := conn.Connect(ctx, "g1", entity.JoinPayload{Player: entity.MarkO, SessionToken: "tok-9"})
	require.NoError(t, err)

	// Then: the server saw exactly one join command
	select {
	case join := <-joined:
		require.Equal(t, entity.ActionJoin, join.Action)
		require.Equal(t, "g1", join.GameID)
	case <-time.After(receiveTimeout):
		t.Fatal("timed out waiting for the join command")
	}

	// Then: the state and chat messages are demultiplexed by action
	select {
	case frame := <-conn.Frames():
		assert.Equal(t, entity.StatusInProgress, frame.Status)
		assert.True(t, frame.PlayerXPresent)
	case <-time.After(receiveTimeout):
		t.Fatal("timed out waiting for a frame")
	}

	select {
	case chat := <-conn.Chat():
		assert.Equal(t, "hello", chat.Message)
	case <-time.After(receiveTimeout):
		t.Fatal("timed out waiting for a chat message")
	}
}

func TestConnection_ConnectFailure(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), receiveTimeout)
	defer cancel()

	// Given: an endpoint nothing listens on
	conn := New(testLogger(), "ws://127.0.0.1:1/ws-tictactoe")

	// When: the handshake is attempted
	err := conn.Connect(ctx, "g1", entity.JoinPayload{Player: entity.MarkO, SessionToken: "tok-9"})

	// Then: it fails without any automatic retry
	require.ErrorIs(t, err, apperror.ErrConnectionFailed)
}
