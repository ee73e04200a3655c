package apperror

import "errors"

var (
	ErrNotAPlayer     = errors.New("spectators cannot play")
	ErrGameOver       = errors.New("game is already over")
	ErrOpponentAbsent = errors.New("opponent has not joined yet")
	ErrNotYourTurn    = errors.New("it's not your turn")
	ErrGameNotOver    = errors.New("game is still in progress")

	ErrConnectionFailed = errors.New("connection handshake failed")
	ErrServer           = errors.New("server error")
	ErrInvalidMove      = errors.New("invalid move")
)
