package session

import "github.com/rocketscienceinc/tictactoe-client/internal/entity"

// Store is the single source of local truth about a session. It is
// mutated only by ApplyBroadcast, which replaces every field wholesale
// with the most recently received frame; frames are never merged.
type Store struct {
	Board          entity.Board
	Status         string
	CurrentPlayer  string
	PlayerXPresent bool
	PlayerOPresent bool
	PlayerXReady   bool
	PlayerOReady   bool

	received bool
}

func NewStore() *Store {
	return &Store{
		Board: entity.NewBoard(),
	}
}

func (that *Store) ApplyBroadcast(frame *entity.GameFrame) {
	that.Board = frame.Board
	that.Status = frame.Status
	that.CurrentPlayer = frame.CurrentPlayer
	that.PlayerXPresent = frame.PlayerXPresent
	that.PlayerOPresent = frame.PlayerOPresent
	that.PlayerXReady = frame.PlayerXReady
	that.PlayerOReady = frame.PlayerOReady
	that.received = true
}

// HasState - reports whether at least one broadcast has been applied.
func (that *Store) HasState() bool {
	return that.received
}

// OpponentPresent - derives opponent presence for the player holding the
// given mark. The result is undefined for a non-player mark.
func (that *Store) OpponentPresent(mark string) bool {
	switch mark {
	case entity.MarkX:
		return that.PlayerOPresent
	case entity.MarkO:
		return that.PlayerXPresent
	default:
		return false
	}
}

// ReadyCount - projection of the rematch readiness flags for display,
// out of 2. Not a state-machine input.
func (that *Store) ReadyCount() int {
	count := 0
	if that.PlayerXReady {
		count++
	}
	if that.PlayerOReady {
		count++
	}
	return count
}

func (that *Store) IsTerminal() bool {
	switch that.Status {
	case entity.StatusXWon, entity.StatusOWon, entity.StatusDraw:
		return true
	default:
		return false
	}
}
