package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-client/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-client/internal/entity"
)

const frameBuffer = 16

// Inbound envelope from the live server: the same action discriminator
// as outbound commands, with state and chat payloads.
type message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

const (
	actionState = "state"
	actionChat  = "chat"
)

// Connection speaks the session protocol over a single websocket instead
// of redis topics. The server multiplexes both topics onto the socket,
// tagged by action.
type Connection struct {
	logger *slog.Logger
	url    string

	gameID string
	conn   *websocket.Conn

	writeMu sync.Mutex

	frames chan entity.GameFrame
	chat   chan entity.ChatMessage
}

func New(logger *slog.Logger, url string) *Connection {
	return &Connection{
		logger: logger.With("component", "websocket-connection"),
		url:    url,
		frames: make(chan entity.GameFrame, frameBuffer),
		chat:   make(chan entity.ChatMessage, frameBuffer),
	}
}

// Connect - dials the endpoint and announces this client with a single
// join command. No auto-reconnect on failure.
func (that *Connection) Connect(ctx context.Context, gameID string, join entity.JoinPayload) error {
	log := that.logger.With("method", "Connect", "gameID", gameID)

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, that.url, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrConnectionFailed, err)
	}

	that.gameID = gameID
	that.conn = conn

	go that.readLoop(ctx)

	command, err := entity.NewCommand(entity.ActionJoin, gameID, join)
	if err != nil {
		return err
	}

	if err = that.Publish(ctx, command); err != nil {
		return fmt.Errorf("failed to announce join: %w", err)
	}

	log.Info("websocket connection established")

	return nil
}

func (that *Connection) Frames() <-chan entity.GameFrame {
	return that.frames
}

func (that *Connection) Chat() <-chan entity.ChatMessage {
	return that.chat
}

func (that *Connection) Publish(_ context.Context, command entity.Command) error {
	that.writeMu.Lock()
	defer that.writeMu.Unlock()

	if err := that.conn.WriteJSON(command); err != nil {
		return fmt.Errorf("failed to publish %s command: %w", command.Action, err)
	}

	return nil
}

func (that *Connection) Close() error {
	if that.conn == nil {
		return nil
	}

	if err := that.conn.Close(); err != nil {
		return fmt.Errorf("failed to close websocket: %w", err)
	}

	return nil
}

func (that *Connection) readLoop(ctx context.Context) {
	log := that.logger.With("method", "readLoop", "gameID", that.gameID)

	defer close(that.frames)
	defer close(that.chat)

	for {
		var msg message
		if err := that.conn.ReadJSON(&msg); err != nil {
			log.Info("websocket closed", "error", err)
			return
		}

		switch msg.Action {
		case actionState:
			var frame entity.GameFrame
			if err := json.Unmarshal(msg.Payload, &frame); err != nil {
				log.Error("failed to unmarshal frame", "error", err)
				continue
			}

			select {
			case that.frames <- frame:
			case <-ctx.Done():
				return
			}
		case actionChat:
			var chat entity.ChatMessage
			if err := json.Unmarshal(msg.Payload, &chat); err != nil {
				log.Error("failed to unmarshal chat message", "error", err)
				continue
			}

			select {
			case that.chat <- chat:
			case <-ctx.Done():
				return
			}
		default:
			log.Warn("unknown action", "action", msg.Action)
		}
	}
}
