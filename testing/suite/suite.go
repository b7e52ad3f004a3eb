package suite

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/whot-client/internal/config"
	"github.com/rocketscienceinc/whot-client/internal/entity"
	"github.com/rocketscienceinc/whot-client/internal/protocol"
)

const (
	maxWaitDuration = 30 * time.Second

	// short timings so tests exercise reconnect and notice expiry quickly
	reconnectDelay = 150 * time.Millisecond
	noticeTTL      = 100 * time.Millisecond
)

// Suite - an in-process fake game server covering both edges the client
// talks to: the request/response API and the streaming socket. It records
// every envelope the client sends and can push frames back.
type Suite struct {
	*testing.T
	Logger *slog.Logger
	Conf   *config.Config

	server   *httptest.Server
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns []*websocket.Conn
	games []entity.GameSummary

	Received chan *protocol.Envelope
}

func New(t *testing.T) (context.Context, *Suite) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), maxWaitDuration)
	t.Cleanup(cancel)

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	st := &Suite{
		T:        t,
		Logger:   logger,
		Received: make(chan *protocol.Envelope, 32),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/games", st.handleGames)
	mux.HandleFunc("/api/games/", st.handleJoin)
	mux.HandleFunc("/", st.handleSocket)

	st.server = httptest.NewServer(mux)
	t.Cleanup(st.Close)

	addr, err := url.Parse(st.server.URL)
	if err != nil {
		t.Fatalf("could not parse test server url: %v", err)
	}

	st.Conf = &config.Config{
		LogLevel:   "info",
		PlayerName: "Ann",
		Server: config.Server{
			Host:    addr.Hostname(),
			APIPort: addr.Port(),
		},
		Reconnect: reconnectDelay,
		NoticeTTL: noticeTTL,
	}

	return ctx, st
}

// handleGames - POST creates a game with fresh server-assigned identifiers,
// GET serves the joinable listing.
func (that *Suite) handleGames(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		that.writeJSON(w, map[string]string{
			"gameId":   uuid.NewString(),
			"playerId": uuid.NewString(),
			"gameCode": "ABCD",
		})
	case http.MethodGet:
		that.mu.Lock()
		games := that.games
		that.mu.Unlock()

		if games == nil {
			games = []entity.GameSummary{}
		}
		that.writeJSON(w, games)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleJoin - join-by-code and join-from-listing; both hand out a fresh
// identity the way the real server does.
func (that *Suite) handleJoin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	gameID := uuid.NewString()
	if path := strings.TrimPrefix(r.URL.Path, "/api/games/"); path != "join" {
		gameID = strings.TrimSuffix(path, "/join")
	}

	that.writeJSON(w, map[string]string{
		"gameId":   gameID,
		"playerId": uuid.NewString(),
	})
}

func (that *Suite) handleSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	that.mu.Lock()
	that.conns = append(that.conns, conn)
	that.mu.Unlock()

	go func() {
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}

			env, err := protocol.Decode(data)
			if err != nil {
				continue
			}

			that.Received <- env
		}
	}()
}

func (that *Suite) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		that.Errorf("could not encode response: %v", err)
	}
}

// SetGames - the listing the fake server serves from now on.
func (that *Suite) SetGames(games []entity.GameSummary) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.games = games
}

// Push - sends an envelope of the given kind to every connected client.
func (that *Suite) Push(kind protocol.Kind, payload any) {
	data, err := protocol.Encode(kind, "", "", payload)
	if err != nil {
		that.Fatalf("could not encode push payload: %v", err)
	}

	that.PushRaw(data)
}

// PushRaw - sends a raw frame to every connected client.
func (that *Suite) PushRaw(data []byte) {
	that.mu.Lock()
	defer that.mu.Unlock()

	for _, conn := range that.conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			that.Logf("could not push frame: %v", err)
		}
	}
}

// NextEnvelope - waits for the next envelope the client sent.
func (that *Suite) NextEnvelope(timeout time.Duration) (*protocol.Envelope, bool) {
	select {
	case env := <-that.Received:
		return env, true
	case <-time.After(timeout):
		return nil, false
	}
}

// AwaitConnection - waits until at least one socket is registered, so a
// Push cannot race the client's handshake.
func (that *Suite) AwaitConnection(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		that.mu.Lock()
		connected := len(that.conns) > 0
		that.mu.Unlock()

		if connected {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}

	return false
}

// DropConnections - closes every open socket to simulate an unexpected
// connection loss.
func (that *Suite) DropConnections() {
	that.mu.Lock()
	defer that.mu.Unlock()

	for _, conn := range that.conns {
		_ = conn.Close()
	}
	that.conns = nil
}

// Close - shuts the fake server down.
func (that *Suite) Close() {
	that.DropConnections()
	that.server.Close()
}
