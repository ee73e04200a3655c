package redis

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-client/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-client/internal/entity"
	"github.com/rocketscienceinc/tictactoe-client/testing/suite"
)

const receiveTimeout = 10 * time.Second

func nextMessage(t *testing.T, ctx context.Context, messages <-chan *goredis.Message) *goredis.Message {
	t.Helper()

	select {
	case msg := <-messages:
		return msg
	case <-time.After(receiveTimeout):
		t.Fatal("timed out waiting for a message")
	case <-ctx.Done():
		t.Fatal("context canceled waiting for a message")
	}

	return nil
}

func subscribeAs(t *testing.T, ctx context.Context, broker *goredis.Client, topics ...string) <-chan *goredis.Message {
	t.Helper()

	pubsub := broker.Subscribe(ctx, topics...)
	t.Cleanup(func() { _ = pubsub.Close() })

	// Wait for the subscription confirmation before the test proceeds.
	_, err := pubsub.Receive(ctx)
	require.NoError(t, err)

	return pubsub.Channel()
}

func TestConnection_RoundTrip(t *testing.T) {
	ctx, st := suite.New(t)

	// Given: the broker-side view of the session's command topic
	commands := subscribeAs(t, ctx, st.Broker, "game:g1:commands")

	conn := New(st.Logger, st.Addr)
	t.Cleanup(func() { _ = conn.Close() })

	// When: the client connects with a candidate role
	err := conn.Connect(ctx, "g1", entity.JoinPayload{Player: entity.MarkO, SessionToken: "tok-1"})
	require.NoError(t, err)

	// Then: exactly one join command is announced
	msg := nextMessage(t, ctx, commands)

	var join entity.Command
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &join))
	require.Equal(t, entity.ActionJoin, join.Action)
	require.Equal(t, "g1", join.GameID)

	var payload entity.JoinPayload
	require.NoError(t, json.Unmarshal(join.Payload, &payload))
	assert.Equal(t, entity.MarkO, payload.Player)
	assert.Equal(t, "tok-1", payload.SessionToken)

	// When: the server broadcasts a frame on the state topic
	frame := entity.GameFrame{
		GameID:         "g1",
		Board:          entity.NewBoard(),
		Status:         entity.StatusInProgress,
		CurrentPlayer:  entity.MarkX,
		PlayerXPresent: true,
		PlayerOPresent: true,
	}
	raw, err := json.Marshal(frame)
	require.NoError(t, err)
	require.NoError(t, st.Broker.Publish(ctx, "game:g1:state", raw).Err())

	// Then: the client receives it on its frame channel
	select {
	case received := <-conn.Frames():
		assert.Equal(t, entity.StatusInProgress, received.Status)
		assert.True(t, received.PlayerXPresent)
		assert.True(t, received.PlayerOPresent)
	case <-time.After(receiveTimeout):
		t.Fatal("timed out waiting for a frame")
	}

	// When: a chat message goes out on the chat topic
	chat, err := json.Marshal(entity.ChatMessage{Player: "Player X", Message: "gl hf"})
	require.NoError(t, err)
	require.NoError(t, st.Broker.Publish(ctx, "game:g1:chat", chat).Err())

	// Then: it arrives on the chat channel
	select {
	case received := <-conn.Chat():
		assert.Equal(t, "Player X", received.Player)
		assert.Equal(t, "gl hf", received.Message)
	case <-time.After(receiveTimeout):
		t.Fatal("timed out waiting for a chat message")
	}

	// When: the client publishes a move
	move, err := entity.NewCommand(entity.ActionMove, "g1", entity.MovePayload{Row: 0, Column: 0, Player: entity.MarkO})
	require.NoError(t, err)
	require.NoError(t, conn.Publish(ctx, move))

	// Then: the broker sees it on the command topic
	msg = nextMessage(t, ctx, commands)

	var command entity.Command
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &command))
	assert.Equal(t, entity.ActionMove, command.Action)
}

func TestConnection_ConnectFailure(t *testing.T) {
	// Given: an address nothing listens on
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	conn := New(logger, "127.0.0.1:1")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// When: the handshake is attempted
	err := conn.Connect(ctx, "g1", entity.JoinPayload{Player: entity.MarkO, SessionToken: "tok-1"})

	// Then: the failure is surfaced; the caller decides about retrying
	require.ErrorIs(t, err, apperror.ErrConnectionFailed)
}
