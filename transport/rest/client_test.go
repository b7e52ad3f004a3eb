package rest

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/whot-client/internal/apperror"
	"github.com/rocketscienceinc/whot-client/internal/entity"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newClientAgainst(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return New(testLogger(), server.URL)
}

func TestCreateGame(t *testing.T) {
	t.Run("Defaults and bot clamping applied to the request", func(t *testing.T) {
		// Given: a server that captures the create request
		var captured CreateGameParams
		c := newClientAgainst(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/api/games", r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(JoinResult{GameID: "g1", PlayerID: "p1", GameCode: "ABCD"})
		})

		// When: creating with unset sizes and an oversized bot count
		result, err := c.CreateGame(context.Background(), CreateGameParams{PlayerName: "Ann", BotCount: 9})
		require.NoError(t, err)

		// Then: the request carried the defaults and a clamped bot count
		assert.Equal(t, 4, captured.MaxPlayers)
		assert.Equal(t, 6, captured.StartingCards)
		assert.Equal(t, 3, captured.BotCount)
		assert.Equal(t, "Ann", captured.PlayerName)

		// Then: the assigned identity comes back
		assert.Equal(t, "g1", result.GameID)
		assert.Equal(t, "p1", result.PlayerID)
		assert.Equal(t, "ABCD", result.GameCode)
	})

	t.Run("Negative bot count clamps to zero", func(t *testing.T) {
		var captured CreateGameParams
		c := newClientAgainst(t, func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(JoinResult{GameID: "g1", PlayerID: "p1"})
		})

		_, err := c.CreateGame(context.Background(), CreateGameParams{BotCount: -2})
		require.NoError(t, err)

		assert.Equal(t, 0, captured.BotCount)
	})

	t.Run("Explicit sizes pass through untouched", func(t *testing.T) {
		var captured CreateGameParams
		c := newClientAgainst(t, func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(JoinResult{GameID: "g1", PlayerID: "p1"})
		})

		_, err := c.CreateGame(context.Background(), CreateGameParams{MaxPlayers: 6, StartingCards: 4, BotCount: 1})
		require.NoError(t, err)

		assert.Equal(t, 6, captured.MaxPlayers)
		assert.Equal(t, 4, captured.StartingCards)
		assert.Equal(t, 1, captured.BotCount)
	})
}

func TestJoinByCode(t *testing.T) {
	t.Run("Success returns the identity", func(t *testing.T) {
		c := newClientAgainst(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/games/join", r.URL.Path)

			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "ABCD", body["gameCode"])
			assert.Equal(t, "Ann", body["playerName"])

			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(JoinResult{GameID: "g1", PlayerID: "p2"})
		})

		result, err := c.JoinByCode(context.Background(), "ABCD", "Ann")
		require.NoError(t, err)
		assert.Equal(t, "p2", result.PlayerID)
	})

	t.Run("An OK response with an error field is a failure", func(t *testing.T) {
		// Given: a server that reports failure inside a 200 body
		c := newClientAgainst(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(JoinResult{Error: "Game is full"})
		})

		// When: joining
		_, err := c.JoinByCode(context.Background(), "ABCD", "Ann")

		// Then: the embedded error surfaces as an API error
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "Game is full", apiErr.Message)
	})
}

func TestJoinFromListing_PostsToGamePath(t *testing.T) {
	c := newClientAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/games/g7/join", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(JoinResult{GameID: "g7", PlayerID: "p3"})
	})

	result, err := c.JoinFromListing(context.Background(), "g7", "Ann")
	require.NoError(t, err)
	assert.Equal(t, "g7", result.GameID)
}

func TestListGames(t *testing.T) {
	c := newClientAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/api/games", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]entity.GameSummary{
			{GameID: "g1", PlayerCount: 1, MaxPlayers: 4, Joinable: true},
			{GameID: "g2", PlayerCount: 4, MaxPlayers: 4, Joinable: false},
		})
	})

	games, err := c.ListGames(context.Background())
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.True(t, games[0].Joinable)
	assert.False(t, games[1].Joinable)
}

func TestErrorHandling(t *testing.T) {
	t.Run("Non-JSON body is never parsed, only previewed", func(t *testing.T) {
		// Given: a proxy-style HTML error page
		c := newClientAgainst(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("<html><body>Bad Gateway</body></html>"))
		})

		// When: listing games
		_, err := c.ListGames(context.Background())

		// Then: the failure names the status and previews the body
		require.Error(t, err)
		assert.ErrorIs(t, err, apperror.ErrUnexpectedResponse)
		assert.Contains(t, err.Error(), "502")
		assert.Contains(t, err.Error(), "Bad Gateway")
	})

	t.Run("Long bodies are truncated in the preview", func(t *testing.T) {
		long := make([]byte, 500)
		for i := range long {
			long[i] = 'x'
		}
		c := newClientAgainst(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/plain")
			_, _ = w.Write(long)
		})

		_, err := c.ListGames(context.Background())

		require.Error(t, err)
		assert.Less(t, len(err.Error()), 220)
		assert.Contains(t, err.Error(), "...")
	})

	t.Run("Non-OK JSON surfaces the server error text", func(t *testing.T) {
		c := newClientAgainst(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"Game not found"}`))
		})

		_, err := c.JoinByCode(context.Background(), "ZZZZ", "Ann")

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusNotFound, apiErr.Status)
		assert.Equal(t, "Game not found", apiErr.Error())
	})

	t.Run("Non-OK JSON without error text falls back to the status", func(t *testing.T) {
		c := newClientAgainst(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{}`))
		})

		_, err := c.ListGames(context.Background())

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "HTTP 500", apiErr.Error())
	})
}
