package client

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/whot-client/internal/config"
	"github.com/rocketscienceinc/whot-client/internal/entity"
	"github.com/rocketscienceinc/whot-client/internal/protocol"
	"github.com/rocketscienceinc/whot-client/internal/store"
	"github.com/rocketscienceinc/whot-client/transport/rest"
	"github.com/rocketscienceinc/whot-client/transport/stream"
)

// genericErrorText - shown when an inbound message cannot be decoded; a
// malformed payload must degrade to a notice, never crash the dispatcher.
const genericErrorText = "Something went wrong"

type api interface {
	CreateGame(ctx context.Context, params rest.CreateGameParams) (*rest.JoinResult, error)
	JoinByCode(ctx context.Context, code, playerName string) (*rest.JoinResult, error)
	JoinFromListing(ctx context.Context, gameID, playerName string) (*rest.JoinResult, error)
	ListGames(ctx context.Context) ([]entity.GameSummary, error)
}

// Channel - the streaming transport as the client consumes it.
type Channel interface {
	Connect()
	Send(data []byte)
	State() stream.State
	Shutdown()
}

// Hooks - observer registration for the rendering projection. Every hook is
// optional; nil hooks are skipped. Hooks fire after the state mutation they
// report and must not block.
type Hooks struct {
	StateChanged      func(snapshot *entity.GameSnapshot)
	Notice            func(text string)
	NoticeCleared     func()
	RoundEnded        func()
	GameEnded         func()
	Activity          func(kind protocol.Kind)
	GameListUpdated   func(games []entity.GameSummary)
	ConnectionChanged func(state stream.State)
}

// pendingChoice - single-slot staging area for a wild card awaiting its
// suit selection. A new selection replaces an unresolved previous one.
type pendingChoice struct {
	cardIndex int
}

// Client - the client-side synchronization core. It owns the session
// binding, the state store and the pending choice, and serializes every
// entry point and transport callback behind one mutex so each handler runs
// to completion before the next event is processed.
type Client struct {
	logger  *slog.Logger
	api     api
	channel Channel

	playerName string
	noticeTTL  time.Duration

	mu          sync.Mutex
	store       *store.Store
	session     entity.SessionBinding
	pending     *pendingChoice
	hooks       Hooks
	noticeTimer *time.Timer

	handlers map[protocol.Kind]func(env *protocol.Envelope)
}

// New - builds the client and dials its channel callbacks in. The connect
// function receives the callbacks the channel must deliver events through.
func New(logger *slog.Logger, conf *config.Config, gameAPI api, connect func(stream.Callbacks) Channel) *Client {
	that := &Client{
		logger:     logger.With("component", "client"),
		api:        gameAPI,
		playerName: conf.PlayerName,
		noticeTTL:  conf.NoticeTTL,
		store:      store.New(),
	}

	that.channel = connect(stream.Callbacks{
		OnOpen:    that.handleOpen,
		OnMessage: that.handleFrame,
		OnClosed:  that.handleClosed,
	})

	that.handlers = map[protocol.Kind]func(*protocol.Envelope){
		protocol.KindStateUpdate:  that.handleStateUpdate,
		protocol.KindPlayerJoined: that.handleNotifyOnly,
		protocol.KindCardPlayed:   that.handleNotifyOnly,
		protocol.KindRoundEnded:   that.handleRoundEnded,
		protocol.KindGameEnded:    that.handleGameEnded,
		protocol.KindError:        that.handleError,
	}

	return that
}

// SetHooks - registers the projection hooks. Call before Connect.
func (that *Client) SetHooks(hooks Hooks) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.hooks = hooks
}

// Connect - opens the streaming connection; idempotent.
func (that *Client) Connect() {
	that.channel.Connect()
}

// Shutdown - tears the connection down and stops reconnecting.
func (that *Client) Shutdown() {
	that.channel.Shutdown()
}

// ConnectionState - current transport state, for the projection to indicate
// a transient "disconnected" condition.
func (that *Client) ConnectionState() stream.State {
	return that.channel.State()
}

// Snapshot - the latest game state snapshot for read-only consumption; nil
// before the first state update.
func (that *Client) Snapshot() *entity.GameSnapshot {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.store.Snapshot()
}

// Binding - the current session identity.
func (that *Client) Binding() entity.SessionBinding {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.session
}

// PendingChoice - the staged wild-card index, if a suit selection is
// currently awaited.
func (that *Client) PendingChoice() (int, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.pending == nil {
		return 0, false
	}
	return that.pending.cardIndex, true
}

// IsMyTurn - whether the latest snapshot puts the local player on turn.
func (that *Client) IsMyTurn() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.store.IsMyTurn(that.session.PlayerID)
}

// IsCreator - whether the local player may start the game.
func (that *Client) IsCreator() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.store.IsCreator(that.session.PlayerID)
}

// MyHand - the local hand normalized to a card sequence.
func (that *Client) MyHand() []entity.Card {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.store.HandOf(that.session.PlayerID)
}

// DeckSize - draw pile size from the latest snapshot, 0 when absent.
func (that *Client) DeckSize() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.store.DeckSize()
}

// RefreshGameList - fetches the joinable-game listing and notifies the
// projection. A stale response superseded by navigation is still applied as
// if current; there is no request cancellation at this layer.
func (that *Client) RefreshGameList(ctx context.Context) {
	games, err := that.api.ListGames(ctx)
	if err != nil {
		that.logger.Warn("failed to refresh game list", "error", err)
		return
	}

	if hook := that.gameListHook(); hook != nil {
		hook(games)
	}
}

func (that *Client) gameListHook() func([]entity.GameSummary) {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.hooks.GameListUpdated
}

// handleOpen - connection established; refresh the joinable listing as a
// courtesy, not a correctness requirement.
func (that *Client) handleOpen() {
	that.fireConnectionChanged(stream.Open)

	go that.RefreshGameList(context.Background())
}

func (that *Client) handleClosed() {
	that.fireConnectionChanged(stream.Disconnected)
}

func (that *Client) fireConnectionChanged(state stream.State) {
	that.mu.Lock()
	hook := that.hooks.ConnectionChanged
	that.mu.Unlock()

	if hook != nil {
		hook(state)
	}
}

// handleFrame - decodes an inbound frame and routes it by kind. Unknown
// kinds are ignored so unrecognized future messages never crash the client.
func (that *Client) handleFrame(data []byte) {
	env, err := protocol.Decode(data)
	if err != nil {
		that.logger.Error("failed to decode inbound frame", "error", err)
		that.showNotice(genericErrorText)
		return
	}

	handler, ok := that.handlers[env.Type]
	if !ok {
		that.logger.Debug("ignoring message of unknown kind", "kind", int(env.Type))
		return
	}

	handler(env)
}

func (that *Client) handleStateUpdate(env *protocol.Envelope) {
	snapshot, err := env.DecodeSnapshot()
	if err != nil {
		that.logger.Error("failed to decode state update", "error", err)
		that.showNotice(genericErrorText)
		return
	}

	that.mu.Lock()
	that.store.Replace(snapshot)
	hook := that.hooks.StateChanged
	that.mu.Unlock()

	if hook != nil {
		hook(snapshot)
	}
}

// handleNotifyOnly - kinds that announce an event without carrying state;
// the snapshot stays untouched until the next state update arrives.
func (that *Client) handleNotifyOnly(env *protocol.Envelope) {
	that.logger.Debug("activity", "kind", int(env.Type))

	that.mu.Lock()
	hook := that.hooks.Activity
	that.mu.Unlock()

	if hook != nil {
		hook(env.Type)
	}
}

func (that *Client) handleRoundEnded(env *protocol.Envelope) {
	that.handleNotifyOnly(env)

	that.mu.Lock()
	hook := that.hooks.RoundEnded
	that.mu.Unlock()

	if hook != nil {
		hook()
	}
}

func (that *Client) handleGameEnded(env *protocol.Envelope) {
	that.handleNotifyOnly(env)

	that.mu.Lock()
	hook := that.hooks.GameEnded
	that.mu.Unlock()

	if hook != nil {
		hook()
	}
}

func (that *Client) handleError(env *protocol.Envelope) {
	var payload protocol.ErrorPayload
	if err := env.UnwrapPayload(&payload); err != nil {
		that.logger.Error("failed to decode error payload", "error", err)
		that.showNotice(genericErrorText)
		return
	}

	that.logger.Info("server rejected action", "message", payload.Text())
	that.showNotice(payload.Text())
}

// showNotice - surfaces an ephemeral user-facing notice. A single timer
// auto-clears it; a newer notice resets the timer.
func (that *Client) showNotice(text string) {
	that.mu.Lock()
	if that.noticeTimer != nil {
		that.noticeTimer.Stop()
	}
	that.noticeTimer = time.AfterFunc(that.noticeTTL, that.expireNotice)
	hook := that.hooks.Notice
	that.mu.Unlock()

	if hook != nil {
		hook(text)
	}
}

func (that *Client) expireNotice() {
	that.mu.Lock()
	that.noticeTimer = nil
	hook := that.hooks.NoticeCleared
	that.mu.Unlock()

	if hook != nil {
		hook()
	}
}

// send - encodes and transmits an intent with the bound identity. Delivery
// is fire-and-forget: the channel drops the frame unless it is open.
// Callers hold that.mu.
func (that *Client) send(kind protocol.Kind, payload any) {
	data, err := protocol.Encode(kind, that.session.PlayerID, that.session.GameID, payload)
	if err != nil {
		that.logger.Error("failed to encode message", "kind", int(kind), "error", err)
		return
	}

	that.channel.Send(data)
}
