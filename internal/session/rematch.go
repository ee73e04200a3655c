package session

import "github.com/rocketscienceinc/tictactoe-client/internal/entity"

// RematchPhase enumerates the local side of the rematch handshake.
type RematchPhase int

const (
	RematchIdle RematchPhase = iota
	RematchRequested
)

func (that RematchPhase) String() string {
	switch that {
	case RematchRequested:
		return "requested"
	default:
		return "idle"
	}
}

// RematchCoordinator tracks local rematch intent and detects handshake
// completion from the broadcast feed. Readiness flags are authoritative
// server state and are only mirrored, never set locally.
//
// The only legal completion signal is the edge from an observed terminal
// frame to an IN_PROGRESS frame with both readiness flags cleared. A
// fresh session's first IN_PROGRESS broadcast must not fire it, which is
// why gameEnded starts false and is set only by a terminal frame.
type RematchCoordinator struct {
	phase     RematchPhase
	gameEnded bool
}

func NewRematchCoordinator() *RematchCoordinator {
	return &RematchCoordinator{}
}

// RequestLocal - records that this side asked for a rematch. The caller
// is responsible for publishing the rematch command; readiness becomes
// visible only once the server reflects it in a broadcast.
func (that *RematchCoordinator) RequestLocal() {
	if that.phase == RematchIdle {
		that.phase = RematchRequested
	}
}

// Observe - feeds one broadcast frame through the state machine and
// reports whether the handshake completed on this frame. Completion
// resets the coordinator to idle, so it fires at most once per
// handshake.
func (that *RematchCoordinator) Observe(frame *entity.GameFrame) (completed bool) {
	if frame.IsTerminal() {
		that.gameEnded = true
		return false
	}

	if !frame.IsInProgress() {
		return false
	}

	if that.gameEnded && that.phase == RematchRequested && !frame.PlayerXReady && !frame.PlayerOReady {
		that.gameEnded = false
		that.phase = RematchIdle
		return true
	}

	// A game restarted without our participation (e.g. a spectator
	// watching two players rematch) still clears the sentinel.
	if that.gameEnded && !frame.PlayerXReady && !frame.PlayerOReady {
		that.gameEnded = false
	}

	return false
}

func (that *RematchCoordinator) Phase() RematchPhase {
	return that.phase
}

func (that *RematchCoordinator) GameEnded() bool {
	return that.gameEnded
}
