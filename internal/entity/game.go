package entity

const (
	StatusInProgress = "IN_PROGRESS"
	StatusXWon       = "X_WON"
	StatusOWon       = "O_WON"
	StatusDraw       = "DRAW"

	MarkX = "X"
	MarkO = "O"

	EmptyCell = " "
)

// Board is the client's snapshot of the 3x3 grid. It is never mutated
// locally; a new snapshot replaces it wholesale on every broadcast.
type Board [3][3]string

func NewBoard() Board {
	var board Board
	for row := range board {
		for col := range board[row] {
			board[row][col] = EmptyCell
		}
	}
	return board
}

// GameFrame mirrors one server broadcast of full session state.
type GameFrame struct {
	GameID         string `json:"gameId,omitempty"`
	Board          Board  `json:"board"`
	Status         string `json:"status"`
	CurrentPlayer  string `json:"currentPlayer"`
	PlayerXPresent bool   `json:"playerXPresent"`
	PlayerOPresent bool   `json:"playerOPresent"`
	PlayerXReady   bool   `json:"playerXReady"`
	PlayerOReady   bool   `json:"playerOReady"`
	Error          string `json:"error,omitempty"`
}

func (that *GameFrame) IsTerminal() bool {
	switch that.Status {
	case StatusXWon, StatusOWon, StatusDraw:
		return true
	default:
		return false
	}
}

func (that *GameFrame) IsInProgress() bool {
	return that.Status == StatusInProgress
}

// OtherMark - returns the opposing mark, or an empty string for a
// non-player mark.
func OtherMark(mark string) string {
	switch mark {
	case MarkX:
		return MarkO
	case MarkO:
		return MarkX
	default:
		return ""
	}
}

type ChatMessage struct {
	Player    string `json:"player"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp,omitempty"`
}
