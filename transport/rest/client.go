package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/rocketscienceinc/whot-client/internal/apperror"
	"github.com/rocketscienceinc/whot-client/internal/entity"
)

const (
	defaultMaxPlayers    = 4
	defaultStartingCards = 6
	maxBotCount          = 3

	bodyPreviewLimit = 80
	requestTimeout   = 10 * time.Second
)

// APIError - a non-OK JSON response from the server, carrying the
// server-provided error text when present.
type APIError struct {
	Status  int
	Message string
}

func (that *APIError) Error() string {
	if that.Message != "" {
		return that.Message
	}
	return fmt.Sprintf("HTTP %d", that.Status)
}

// Client - the request/response side of the game API: creating and joining
// games and fetching the joinable-game listing.
type Client struct {
	logger *slog.Logger
	base   string
	http   *http.Client
}

func New(logger *slog.Logger, base string) *Client {
	return &Client{
		logger: logger.With("component", "rest"),
		base:   strings.TrimRight(base, "/"),
		http:   &http.Client{Timeout: requestTimeout},
	}
}

type CreateGameParams struct {
	PlayerName    string `json:"playerName"`
	MaxPlayers    int    `json:"maxPlayers"`
	StartingCards int    `json:"startingCards"`
	BotCount      int    `json:"botCount"`
}

// JoinResult - identity handed out by create/join endpoints. Some join
// responses report failure through an error field instead of the status.
type JoinResult struct {
	GameID   string `json:"gameId"`
	PlayerID string `json:"playerId"`
	GameCode string `json:"gameCode,omitempty"`
	Error    string `json:"error,omitempty"`
}

// CreateGame - creates a game and returns the local identity for it. The
// bot count is clamped to [0,3]; max players and starting cards fall back
// to the server defaults when unset.
func (that *Client) CreateGame(ctx context.Context, params CreateGameParams) (*JoinResult, error) {
	if params.MaxPlayers <= 0 {
		params.MaxPlayers = defaultMaxPlayers
	}
	if params.StartingCards <= 0 {
		params.StartingCards = defaultStartingCards
	}
	params.BotCount = min(max(params.BotCount, 0), maxBotCount)

	var result JoinResult
	if err := that.postJSON(ctx, "/api/games", params, &result); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	return &result, nil
}

// JoinByCode - joins a game by its short shareable code.
func (that *Client) JoinByCode(ctx context.Context, code, playerName string) (*JoinResult, error) {
	body := struct {
		GameCode   string `json:"gameCode"`
		PlayerName string `json:"playerName"`
	}{GameCode: code, PlayerName: playerName}

	var result JoinResult
	if err := that.postJSON(ctx, "/api/games/join", body, &result); err != nil {
		return nil, fmt.Errorf("failed to join by code: %w", err)
	}
	if result.Error != "" {
		return nil, &APIError{Status: http.StatusOK, Message: result.Error}
	}

	return &result, nil
}

// JoinFromListing - joins a listed game by its id.
func (that *Client) JoinFromListing(ctx context.Context, gameID, playerName string) (*JoinResult, error) {
	body := struct {
		PlayerName string `json:"playerName"`
	}{PlayerName: playerName}

	var result JoinResult
	if err := that.postJSON(ctx, "/api/games/"+gameID+"/join", body, &result); err != nil {
		return nil, fmt.Errorf("failed to join game: %w", err)
	}
	if result.Error != "" {
		return nil, &APIError{Status: http.StatusOK, Message: result.Error}
	}

	return &result, nil
}

// ListGames - fetches the joinable-game listing.
func (that *Client) ListGames(ctx context.Context) ([]entity.GameSummary, error) {
	var games []entity.GameSummary
	if err := that.getJSON(ctx, "/api/games", &games); err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}

	return games, nil
}

func (that *Client) postJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, that.base+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return that.do(req, out)
}

func (that *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, that.base+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	return that.do(req, out)
}

// do - executes the request and decodes the JSON body. A non-JSON body
// (e.g. an HTML error page) is a distinct failure mode surfaced with a
// truncated preview for diagnostics, never parsed as JSON.
func (that *Client) do(req *http.Request, out any) error {
	res, err := that.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	contentType := strings.ToLower(res.Header.Get("Content-Type"))
	if !strings.Contains(contentType, "application/json") {
		return fmt.Errorf("%w: status %d, body %q", apperror.ErrUnexpectedResponse, res.StatusCode, preview(body))
	}

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		var fail struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		_ = json.Unmarshal(body, &fail)

		message := fail.Error
		if message == "" {
			message = fail.Message
		}

		return &APIError{Status: res.StatusCode, Message: message}
	}

	if out == nil {
		return nil
	}

	if err = json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}

func preview(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) > bodyPreviewLimit {
		return text[:bodyPreviewLimit] + "..."
	}
	return text
}
