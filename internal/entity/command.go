package entity

import (
	"encoding/json"
	"fmt"
)

const (
	ActionJoin    = "join"
	ActionMove    = "move"
	ActionRematch = "rematch"
	ActionChat    = "chat"
)

// Command is the outbound envelope published on a session's command
// topic. Delivery is fire-and-forget: there is no acknowledgement and no
// timeout, so a command the server never reflects is simply lost.
type Command struct {
	Action  string          `json:"action"`
	GameID  string          `json:"gameId"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type JoinPayload struct {
	Player       string `json:"player"`
	SessionToken string `json:"sessionId"`
}

type MovePayload struct {
	Row    int    `json:"row"`
	Column int    `json:"column"`
	Player string `json:"player"`
}

type RematchPayload struct {
	Player string `json:"player"`
}

func NewCommand(action, gameID string, payload any) (Command, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Command{}, fmt.Errorf("failed to marshal %s payload: %w", action, err)
	}

	return Command{
		Action:  action,
		GameID:  gameID,
		Payload: raw,
	}, nil
}
