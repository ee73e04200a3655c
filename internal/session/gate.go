package session

import "github.com/rocketscienceinc/tictactoe-client/internal/apperror"

// CanSubmitMove - decides whether a networked move attempt may be sent,
// given the local mark and the latest broadcast state. Returns nil when
// the move is allowed, otherwise exactly one denial reason. Every denial
// is informational; nothing here reaches the transport.
//
// Hot-seat games never pass through this gate: they have no assigned
// role and submit moves over a direct request/response call instead.
func CanSubmitMove(mark string, store *Store) error {
	if mark == "" {
		return apperror.ErrNotAPlayer
	}

	if store.IsTerminal() {
		return apperror.ErrGameOver
	}

	if !store.OpponentPresent(mark) {
		return apperror.ErrOpponentAbsent
	}

	if store.CurrentPlayer != mark {
		return apperror.ErrNotYourTurn
	}

	return nil
}

// CanRequestRematch - rematch requests are player-only and meaningful
// once the game has ended.
func CanRequestRematch(mark string, store *Store) error {
	if mark == "" {
		return apperror.ErrNotAPlayer
	}

	if !store.IsTerminal() {
		return apperror.ErrGameNotOver
	}

	return nil
}
