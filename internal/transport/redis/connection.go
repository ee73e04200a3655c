package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-client/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-client/internal/entity"
)

const frameBuffer = 16

// Connection subscribes to one session's state and chat topics over
// redis pub/sub and publishes commands on the session's command topic.
type Connection struct {
	logger *slog.Logger
	client *redis.Client

	gameID string
	pubsub *redis.PubSub

	frames chan entity.GameFrame
	chat   chan entity.ChatMessage
}

func New(logger *slog.Logger, addr string) *Connection {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	return &Connection{
		logger: logger.With("component", "redis-connection"),
		client: client,
		frames: make(chan entity.GameFrame, frameBuffer),
		chat:   make(chan entity.ChatMessage, frameBuffer),
	}
}

func stateTopic(gameID string) string   { return "game:" + gameID + ":state" }
func chatTopic(gameID string) string    { return "game:" + gameID + ":chat" }
func commandTopic(gameID string) string { return "game:" + gameID + ":commands" }

// Connect - subscribes to the session's topics and announces this client
// with a single join command. There is no auto-reconnect: a failed
// handshake is surfaced to the caller, who must retry explicitly.
func (that *Connection) Connect(ctx context.Context, gameID string, join entity.JoinPayload) error {
	log := that.logger.With("method", "Connect", "gameID", gameID)

	if _, err := that.client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrConnectionFailed, err)
	}

	that.gameID = gameID
	that.pubsub = that.client.Subscribe(ctx, stateTopic(gameID), chatTopic(gameID))

	// Force the SUBSCRIBE round-trip so a broken handshake fails here
	// instead of silently dropping frames later.
	if _, err := that.pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrConnectionFailed, err)
	}

	go that.readLoop(ctx)

	command, err := entity.NewCommand(entity.ActionJoin, gameID, join)
	if err != nil {
		return err
	}

	if err = that.Publish(ctx, command); err != nil {
		return fmt.Errorf("failed to announce join: %w", err)
	}

	log.Info("connected to session topics")

	return nil
}

func (that *Connection) Frames() <-chan entity.GameFrame {
	return that.frames
}

func (that *Connection) Chat() <-chan entity.ChatMessage {
	return that.chat
}

// Publish - fire-and-forget: the command is not acknowledged and a
// command the server never reflects cannot be detected client-side.
func (that *Connection) Publish(ctx context.Context, command entity.Command) error {
	raw, err := json.Marshal(command)
	if err != nil {
		return fmt.Errorf("failed to marshal command: %w", err)
	}

	if err = that.client.Publish(ctx, commandTopic(that.gameID), raw).Err(); err != nil {
		return fmt.Errorf("failed to publish %s command: %w", command.Action, err)
	}

	return nil
}

func (that *Connection) Close() error {
	if that.pubsub != nil {
		if err := that.pubsub.Close(); err != nil {
			return fmt.Errorf("failed to close subscription: %w", err)
		}
	}

	if err := that.client.Close(); err != nil {
		return fmt.Errorf("failed to close redis client: %w", err)
	}

	return nil
}

// readLoop - demultiplexes the single subscription into the frame and
// chat channels. Delivery order within a topic is preserved.
func (that *Connection) readLoop(ctx context.Context) {
	log := that.logger.With("method", "readLoop", "gameID", that.gameID)

	defer close(that.frames)
	defer close(that.chat)

	messages := that.pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				log.Info("subscription closed")
				return
			}

			switch msg.Channel {
			case stateTopic(that.gameID):
				var frame entity.GameFrame
				if err := json.Unmarshal([]byte(msg.Payload), &frame); err != nil {
					log.Error("failed to unmarshal frame", "error", err)
					continue
				}
				that.deliverFrame(ctx, frame)
			case chatTopic(that.gameID):
				var chat entity.ChatMessage
				if err := json.Unmarshal([]byte(msg.Payload), &chat); err != nil {
					log.Error("failed to unmarshal chat message", "error", err)
					continue
				}
				that.deliverChat(ctx, chat)
			}
		}
	}
}

func (that *Connection) deliverFrame(ctx context.Context, frame entity.GameFrame) {
	select {
	case that.frames <- frame:
	case <-ctx.Done():
	}
}

func (that *Connection) deliverChat(ctx context.Context, chat entity.ChatMessage) {
	select {
	case that.chat <- chat:
	case <-ctx.Done():
	}
}
