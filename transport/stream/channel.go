package stream

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// State - connection lifecycle state, owned exclusively by the channel.
type State int

const (
	Disconnected State = iota
	Connecting
	Open
)

func (that State) String() string {
	switch that {
	case Connecting:
		return "connecting"
	case Open:
		return "open"
	default:
		return "disconnected"
	}
}

// Callbacks - lifecycle and message hooks. Each is invoked sequentially
// from the channel's own goroutine and may be nil.
type Callbacks struct {
	OnOpen    func()
	OnMessage func(data []byte)
	OnClosed  func()
}

// Channel - the persistent connection to the game server. Sends are
// fire-and-forget: they are transmitted only while the connection is open
// and silently dropped otherwise. An unexpected close schedules exactly one
// reconnect attempt after a fixed delay, without bound or backoff growth.
type Channel struct {
	logger    *slog.Logger
	url       string
	delay     time.Duration
	dialer    *websocket.Dialer
	callbacks Callbacks

	mu             sync.Mutex
	state          State
	conn           *websocket.Conn
	reconnectTimer *time.Timer
	shutdown       bool
}

// New - builds a channel for the resolved endpoint URL. The URL is resolved
// once by the caller and kept for the whole session.
func New(logger *slog.Logger, url string, delay time.Duration, callbacks Callbacks) *Channel {
	return &Channel{
		logger:    logger.With("component", "stream"),
		url:       url,
		delay:     delay,
		dialer:    websocket.DefaultDialer,
		callbacks: callbacks,
	}
}

// State - current connection state.
func (that *Channel) State() State {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.state
}

// Connect - establishes the connection; idempotent while already
// connecting or open. A failed dial schedules a reconnect like an
// unexpected close would.
func (that *Channel) Connect() {
	that.mu.Lock()
	if that.shutdown || that.state != Disconnected {
		that.mu.Unlock()
		return
	}
	that.state = Connecting
	that.mu.Unlock()

	conn, resp, err := that.dialer.Dial(that.url, nil) //nolint: bodyclose // gorilla owns resp.Body on success
	if resp != nil && resp.Body != nil && err != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		that.logger.Error("failed to connect", "url", that.url, "error", err)

		that.mu.Lock()
		that.state = Disconnected
		that.mu.Unlock()

		that.scheduleReconnect()
		return
	}

	that.mu.Lock()
	if that.shutdown {
		that.state = Disconnected
		that.mu.Unlock()
		_ = conn.Close()
		return
	}
	that.conn = conn
	that.state = Open
	that.mu.Unlock()

	that.logger.Info("connected to server", "url", that.url)

	go that.readLoop(conn)

	if that.callbacks.OnOpen != nil {
		that.callbacks.OnOpen()
	}
}

// Send - transmits a frame only when the connection is open; otherwise the
// frame is dropped. Callers must not assume delivery.
func (that *Channel) Send(data []byte) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.state != Open || that.conn == nil {
		that.logger.Debug("dropping message, channel is not open", "state", that.state.String())
		return
	}

	if err := that.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		// the read loop will observe the broken connection and recover
		that.logger.Error("failed to write message", "error", err)
	}
}

// Shutdown - closes the connection and stops any pending reconnect.
func (that *Channel) Shutdown() {
	that.mu.Lock()
	that.shutdown = true
	if that.reconnectTimer != nil {
		that.reconnectTimer.Stop()
		that.reconnectTimer = nil
	}
	conn := that.conn
	that.conn = nil
	that.state = Disconnected
	that.mu.Unlock()

	if conn != nil {
		_ = conn.Close()
	}
}

func (that *Channel) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			that.logger.Info("disconnected from server", "error", err)
			break
		}

		if that.callbacks.OnMessage != nil {
			that.callbacks.OnMessage(data)
		}
	}

	_ = conn.Close()

	that.mu.Lock()
	stale := that.conn != conn
	if !stale {
		that.conn = nil
		that.state = Disconnected
	}
	shutdown := that.shutdown
	that.mu.Unlock()

	if stale {
		return
	}

	if that.callbacks.OnClosed != nil {
		that.callbacks.OnClosed()
	}

	if !shutdown {
		that.scheduleReconnect()
	}
}

// scheduleReconnect - arms the single reconnect timer. A close event while
// a timer is already pending must not create a second overlapping timer.
func (that *Channel) scheduleReconnect() {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.shutdown || that.reconnectTimer != nil {
		return
	}

	that.logger.Info("scheduling reconnect", "delay", that.delay)

	that.reconnectTimer = time.AfterFunc(that.delay, func() {
		that.mu.Lock()
		that.reconnectTimer = nil
		that.mu.Unlock()

		that.Connect()
	})
}
