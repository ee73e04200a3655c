package hotseat

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-client/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-client/internal/entity"
)

type gameAPI interface {
	NewGame(ctx context.Context, aiMode bool) (*entity.GameFrame, error)
	Move(ctx context.Context, gameID string, row, col int) (*entity.GameFrame, error)
}

// Game is the local mode: both marks are played from this client (or one
// of them by the server-side AI) over direct request/response calls. No
// role is assigned, no broadcast channel is used, and the turn gate does
// not apply; the server response is the whole validation.
type Game struct {
	logger *slog.Logger
	api    gameAPI

	gameID string
	frame  entity.GameFrame
}

func New(ctx context.Context, logger *slog.Logger, api gameAPI, aiMode bool) (*Game, error) {
	frame, err := api.NewGame(ctx, aiMode)
	if err != nil {
		return nil, fmt.Errorf("failed to create local game: %w", err)
	}

	return &Game{
		logger: logger.With("component", "hotseat", "gameID", frame.GameID),
		api:    api,
		gameID: frame.GameID,
		frame:  *frame,
	}, nil
}

// Move - submits a move and replaces the local snapshot with the
// response wholesale.
func (that *Game) Move(ctx context.Context, row, col int) (*entity.GameFrame, error) {
	if that.frame.IsTerminal() {
		return nil, apperror.ErrGameOver
	}

	frame, err := that.api.Move(ctx, that.gameID, row, col)
	if err != nil {
		return nil, fmt.Errorf("move rejected: %w", err)
	}

	if frame.Error != "" {
		return nil, fmt.Errorf("%w: %s", apperror.ErrInvalidMove, frame.Error)
	}

	that.frame = *frame

	return frame, nil
}

// Restart - a local rematch is just a fresh game; no handshake exists
// outside the networked mode.
func (that *Game) Restart(ctx context.Context, aiMode bool) error {
	frame, err := that.api.NewGame(ctx, aiMode)
	if err != nil {
		return fmt.Errorf("failed to restart local game: %w", err)
	}

	that.gameID = frame.GameID
	that.frame = *frame
	that.logger.Info("local game restarted", "gameID", frame.GameID)

	return nil
}

func (that *Game) Frame() entity.GameFrame {
	return that.frame
}

func (that *Game) ID() string {
	return that.gameID
}
