package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rocketscienceinc/tictactoe-client/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-client/internal/entity"
)

const requestTimeout = 10 * time.Second

// Client is the request/response side of the game API: session creation,
// presence snapshots for the role pre-check, and the hot-seat move path.
// Every failure is terminal for that attempt; nothing is retried.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// NewGame - POST /api/game/new. With aiMode the server plays O itself.
func (that *Client) NewGame(ctx context.Context, aiMode bool) (*entity.GameFrame, error) {
	url := fmt.Sprintf("%s/api/game/new?aiMode=%t", that.baseURL, aiMode)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	return that.do(req)
}

// State - GET /api/game/{id}, the presence and status snapshot used by
// the role resolver before connecting.
func (that *Client) State(ctx context.Context, gameID string) (*entity.GameFrame, error) {
	url := fmt.Sprintf("%s/api/game/%s", that.baseURL, gameID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	return that.do(req)
}

// Move - POST /api/game/{id}/move, the non-networked hot-seat path. The
// player field stays empty: no role is assigned in hot-seat mode.
func (that *Client) Move(ctx context.Context, gameID string, row, col int) (*entity.GameFrame, error) {
	url := fmt.Sprintf("%s/api/game/%s/move", that.baseURL, gameID)

	body, err := json.Marshal(entity.MovePayload{Row: row, Column: col})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal move: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return that.do(req)
}

func (that *Client) do(req *http.Request) (*entity.GameFrame, error) {
	resp, err := that.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrServer, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: unexpected status %d", apperror.ErrServer, resp.StatusCode)
	}

	var frame entity.GameFrame
	if err = json.NewDecoder(resp.Body).Decode(&frame); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %w", apperror.ErrServer, err)
	}

	return &frame, nil
}
