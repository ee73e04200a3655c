package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/tictactoe-client/internal/entity"
)

// Connection is the pub/sub leg of a session: inbound broadcast frames
// and chat messages, plus fire-and-forget outbound commands.
type Connection interface {
	Frames() <-chan entity.GameFrame
	Chat() <-chan entity.ChatMessage
	Publish(ctx context.Context, command entity.Command) error
	Close() error
}

// Update describes what one inbound event changed, for the rendering
// layer to react to.
type Update struct {
	Frame *entity.GameFrame
	Chat  *entity.ChatMessage

	RematchCompleted bool
}

// View is a copy of the client's current state, safe to read without
// holding any lock.
type View struct {
	GameID       string
	Role         entity.Role
	Mark         string
	Store        Store
	RematchPhase RematchPhase
	ReadyCount   int
}

// Client owns everything a single session connection needs: the resolved
// role, the broadcast mirror, and the rematch coordinator. One instance
// is constructed per session and torn down on navigation away; there are
// no package-level singletons.
//
// All inbound frames are applied on the Run goroutine; user actions take
// the same mutex, so every mutation of the store is serialized exactly
// as if it ran on one logical event queue.
type Client struct {
	logger *slog.Logger
	conn   Connection

	gameID string

	updates chan Update

	mu       sync.Mutex
	mark     string
	resolver *RoleResolver
	store    *Store
	rematch  *RematchCoordinator
}

func NewClient(logger *slog.Logger, conn Connection, gameID string, resolver *RoleResolver) *Client {
	return &Client{
		logger:   logger.With("component", "session"),
		conn:     conn,
		gameID:   gameID,
		updates:  make(chan Update, 16),
		mark:     resolver.Role().InitialMark(),
		resolver: resolver,
		store:    NewStore(),
		rematch:  NewRematchCoordinator(),
	}
}

// Run - drains the connection's channels until the context is canceled
// or the connection closes. Disconnecting is the only cancellation
// primitive; in-flight commands are not tracked.
func (that *Client) Run(ctx context.Context) error {
	log := that.logger.With("method", "Run", "gameID", that.gameID)

	defer close(that.updates)

	for {
		select {
		case <-ctx.Done():
			return nil
		case frame, ok := <-that.conn.Frames():
			if !ok {
				log.Info("session topic closed")
				return nil
			}

			update := that.applyFrame(&frame)
			that.forward(ctx, update)
		case chat, ok := <-that.conn.Chat():
			if !ok {
				log.Info("chat topic closed")
				return nil
			}

			that.forward(ctx, Update{Chat: &chat})
		}
	}
}

// Updates - the stream of applied events for the rendering layer.
func (that *Client) Updates() <-chan Update {
	return that.updates
}

// SubmitMove - gates a move attempt against the latest broadcast state
// and publishes it only when allowed. A denial never reaches the
// transport.
func (that *Client) SubmitMove(ctx context.Context, row, col int) error {
	that.mu.Lock()
	mark := that.mark
	err := CanSubmitMove(mark, that.store)
	that.mu.Unlock()

	if err != nil {
		return err
	}

	command, err := entity.NewCommand(entity.ActionMove, that.gameID, entity.MovePayload{
		Row:    row,
		Column: col,
		Player: mark,
	})
	if err != nil {
		return err
	}

	if err = that.conn.Publish(ctx, command); err != nil {
		return fmt.Errorf("failed to publish move: %w", err)
	}

	return nil
}

// RequestRematch - enters the local side of the rematch handshake and
// publishes the request. Readiness flags stay server-authoritative; the
// coordinator only mirrors them from broadcasts.
func (that *Client) RequestRematch(ctx context.Context) error {
	that.mu.Lock()
	mark := that.mark
	err := CanRequestRematch(mark, that.store)
	if err == nil {
		that.rematch.RequestLocal()
	}
	that.mu.Unlock()

	if err != nil {
		return err
	}

	command, err := entity.NewCommand(entity.ActionRematch, that.gameID, entity.RematchPayload{
		Player: mark,
	})
	if err != nil {
		return err
	}

	if err = that.conn.Publish(ctx, command); err != nil {
		return fmt.Errorf("failed to publish rematch request: %w", err)
	}

	return nil
}

// SendChat - chat is open to players and spectators alike.
func (that *Client) SendChat(ctx context.Context, text string) error {
	that.mu.Lock()
	name := that.resolver.Role().DisplayName(that.mark)
	that.mu.Unlock()

	command, err := entity.NewCommand(entity.ActionChat, that.gameID, entity.ChatMessage{
		Player:  name,
		Message: text,
	})
	if err != nil {
		return err
	}

	if err = that.conn.Publish(ctx, command); err != nil {
		return fmt.Errorf("failed to publish chat message: %w", err)
	}

	return nil
}

func (that *Client) Snapshot() View {
	that.mu.Lock()
	defer that.mu.Unlock()

	return View{
		GameID:       that.gameID,
		Role:         that.resolver.Role(),
		Mark:         that.mark,
		Store:        *that.store,
		RematchPhase: that.rematch.Phase(),
		ReadyCount:   that.store.ReadyCount(),
	}
}

func (that *Client) Close() error {
	return that.conn.Close()
}

// applyFrame - the reducer for one broadcast frame: wholesale store
// replacement, then rematch edge detection.
func (that *Client) applyFrame(frame *entity.GameFrame) Update {
	that.mu.Lock()
	defer that.mu.Unlock()

	update := Update{Frame: frame}

	that.store.ApplyBroadcast(frame)

	if that.rematch.Observe(frame) {
		// Role-swap policy: the two players exchange marks on every
		// completed handshake, applied exactly once per handshake.
		that.mark = entity.OtherMark(that.mark)
		update.RematchCompleted = true
		that.logger.Info("rematch completed", "gameID", that.gameID, "mark", that.mark)
	}

	return update
}

func (that *Client) forward(ctx context.Context, update Update) {
	select {
	case that.updates <- update:
	case <-ctx.Done():
	}
}
