package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/rocketscienceinc/whot-client/internal/apperror"
	"github.com/rocketscienceinc/whot-client/internal/entity"
	"github.com/rocketscienceinc/whot-client/internal/protocol"
	"github.com/rocketscienceinc/whot-client/transport/rest"
)

// CreateGame - creates a game through the API, binds the session to the
// returned identity and announces the join over the stream.
func (that *Client) CreateGame(ctx context.Context, params rest.CreateGameParams) error {
	if params.PlayerName == "" {
		params.PlayerName = that.playerName
	}

	result, err := that.api.CreateGame(ctx, params)
	if err != nil {
		that.logger.Error("failed to create game", "error", err)
		that.showNotice(err.Error())

		return fmt.Errorf("failed to create game: %w", err)
	}

	that.bind(result, params.PlayerName)

	return nil
}

// JoinByCode - joins a game by its short shareable code.
func (that *Client) JoinByCode(ctx context.Context, code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		that.showNotice("Enter a game code")
		return apperror.ErrEmptyGameCode
	}

	result, err := that.api.JoinByCode(ctx, code, that.playerName)
	if err != nil {
		that.logger.Error("failed to join by code", "code", code, "error", err)
		that.showNotice(err.Error())

		return fmt.Errorf("failed to join by code: %w", err)
	}

	that.bind(result, that.playerName)

	return nil
}

// JoinFromListing - joins a listed game by its id.
func (that *Client) JoinFromListing(ctx context.Context, gameID string) error {
	result, err := that.api.JoinFromListing(ctx, gameID, that.playerName)
	if err != nil {
		that.logger.Error("failed to join game", "gameID", gameID, "error", err)
		that.showNotice(err.Error())

		return fmt.Errorf("failed to join game: %w", err)
	}

	that.bind(result, that.playerName)

	return nil
}

// ReturnToLobby - leaves the current game view and refreshes the listing.
// The binding is deliberately kept until the next create/join overwrites
// it; callers must treat it as potentially stale after this point.
func (that *Client) ReturnToLobby(ctx context.Context) {
	that.RefreshGameList(ctx)
}

// bind - replaces the session binding and immediately announces the join.
// If the channel is not open yet the announcement is dropped by the
// fire-and-forget send; the server then sees the player only through the
// create/join request until the next explicit join.
func (that *Client) bind(result *rest.JoinResult, playerName string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.session = entity.SessionBinding{
		GameID:   result.GameID,
		PlayerID: result.PlayerID,
		GameCode: result.GameCode,
	}

	that.logger.Info("session bound", "gameID", result.GameID, "playerID", result.PlayerID)

	that.send(protocol.KindJoinGame, protocol.JoinGamePayload{
		PlayerName: playerName,
		GameID:     result.GameID,
	})
}
