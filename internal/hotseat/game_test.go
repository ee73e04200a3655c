package hotseat

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-client/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-client/internal/entity"
)

type stubAPI struct {
	newGameFrame *entity.GameFrame
	moveFrame    *entity.GameFrame
	moveErr      error

	moves int
}

func (that *stubAPI) NewGame(_ context.Context, _ bool) (*entity.GameFrame, error) {
	frame := *that.newGameFrame
	return &frame, nil
}

func (that *stubAPI) Move(_ context.Context, _ string, _, _ int) (*entity.GameFrame, error) {
	that.moves++
	if that.moveErr != nil {
		return nil, that.moveErr
	}
	frame := *that.moveFrame
	return &frame, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newGameFrame() *entity.GameFrame {
	return &entity.GameFrame{
		GameID:        "local-1",
		Board:         entity.NewBoard(),
		Status:        entity.StatusInProgress,
		CurrentPlayer: entity.MarkX,
	}
}

func TestGame_Move(t *testing.T) {
	t.Run("Snapshot is replaced wholesale by the response", func(t *testing.T) {
		// Given: a local game and a server response with the move applied
		response := newGameFrame()
		response.Board[0][0] = entity.MarkX
		response.CurrentPlayer = entity.MarkO

		api := &stubAPI{newGameFrame: newGameFrame(), moveFrame: response}

		game, err := New(context.Background(), testLogger(), api, false)
		require.NoError(t, err)

		// When: a move is made
		frame, err := game.Move(context.Background(), 0, 0)

		// Then: the local snapshot equals the response, no gate involved
		require.NoError(t, err)
		assert.Equal(t, entity.MarkX, frame.Board[0][0])
		assert.Equal(t, *frame, game.Frame())
	})

	t.Run("Server-rejected move is reported and changes nothing", func(t *testing.T) {
		// Given: the server flags the move as invalid
		response := newGameFrame()
		response.Error = "cell occupied"

		api := &stubAPI{newGameFrame: newGameFrame(), moveFrame: response}

		game, err := New(context.Background(), testLogger(), api, false)
		require.NoError(t, err)

		before := game.Frame()

		// When: the invalid move is made
		_, err = game.Move(context.Background(), 0, 0)

		// Then: the rejection surfaces and the snapshot is untouched
		require.ErrorIs(t, err, apperror.ErrInvalidMove)
		assert.Equal(t, before, game.Frame())
	})

	t.Run("No moves after the game ended", func(t *testing.T) {
		// Given: a finished local game
		finished := newGameFrame()
		finished.Status = entity.StatusDraw

		api := &stubAPI{newGameFrame: finished}

		game, err := New(context.Background(), testLogger(), api, false)
		require.NoError(t, err)

		// When: another move is attempted
		_, err = game.Move(context.Background(), 0, 0)

		// Then: it is rejected locally, never reaching the server
		require.ErrorIs(t, err, apperror.ErrGameOver)
		assert.Zero(t, api.moves)
	})
}

func TestGame_Restart(t *testing.T) {
	// Given: a finished local game
	api := &stubAPI{newGameFrame: newGameFrame()}

	game, err := New(context.Background(), testLogger(), api, false)
	require.NoError(t, err)

	// When: the game is restarted
	api.newGameFrame.GameID = "local-2"
	require.NoError(t, game.Restart(context.Background(), false))

	// Then: a fresh session replaces the old one
	assert.Equal(t, "local-2", game.ID())
	assert.Equal(t, entity.StatusInProgress, game.Frame().Status)
}
