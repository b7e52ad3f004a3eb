package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rocketscienceinc/whot-client/internal/apperror"
	"github.com/rocketscienceinc/whot-client/internal/entity"
)

// Envelope - the outer message wrapper for both directions of the streaming
// protocol. Outbound payloads are serialized to a nested JSON string; inbound
// payloads may arrive either way.
type Envelope struct {
	Type      Kind            `json:"type"`
	PlayerID  string          `json:"playerId,omitempty"`
	GameID    string          `json:"gameId,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"timestamp,omitempty"`
}

// JoinGamePayload - body of a KindJoinGame request.
type JoinGamePayload struct {
	PlayerName string `json:"playerName"`
	GameID     string `json:"gameId"`
}

// PlayCardPayload - body of a KindPlayCard request. ChosenSuit is present
// only when a wild card's suit choice has been resolved.
type PlayCardPayload struct {
	CardIndex  int         `json:"cardIndex"`
	ChosenSuit entity.Suit `json:"chosenSuit,omitempty"`
}

// ErrorPayload - body of a KindError message from the server.
type ErrorPayload struct {
	Message   string `json:"message,omitempty"`
	ErrorCode string `json:"errorCode,omitempty"`
}

// Text - user-facing text of a server error.
func (that ErrorPayload) Text() string {
	if that.Message != "" {
		return that.Message
	}
	if that.ErrorCode != "" {
		return that.ErrorCode
	}
	return "Invalid action"
}

// Encode - wraps a (kind, payload) pair into an outbound envelope carrying
// the bound identity and a client timestamp in milliseconds.
func Encode(kind Kind, playerID, gameID string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	nested, err := json.Marshal(string(body))
	if err != nil {
		return nil, fmt.Errorf("failed to wrap payload: %w", err)
	}

	env := Envelope{
		Type:      kind,
		PlayerID:  playerID,
		GameID:    gameID,
		Payload:   nested,
		Timestamp: time.Now().UnixMilli(),
	}

	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal envelope: %w", err)
	}

	return data, nil
}

// Decode - parses a raw inbound frame into an envelope.
func Decode(raw []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrMalformedEnvelope, err)
	}

	return &env, nil
}

// UnwrapPayload - decodes the envelope payload into v, transparently
// unwrapping one extra layer of string encoding when present. An absent
// payload leaves v untouched.
func (that *Envelope) UnwrapPayload(v any) error {
	raw, err := unwrapOnce(that.Payload)
	if err != nil {
		return err
	}
	if raw == nil {
		return nil
	}

	if err = json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrMalformedPayload, err)
	}

	return nil
}

// statePayload - inner body of a KindStateUpdate message. The snapshot
// itself is nested one more time, either pre-serialized or structured.
type statePayload struct {
	GameStateJSON string          `json:"gameStateJson,omitempty"`
	GameState     json.RawMessage `json:"gameState,omitempty"`
}

// DecodeSnapshot - extracts the game state snapshot from a KindStateUpdate
// envelope. Whichever nesting the server used, the resulting snapshot is
// identical.
func (that *Envelope) DecodeSnapshot() (*entity.GameSnapshot, error) {
	var body statePayload
	if err := that.UnwrapPayload(&body); err != nil {
		return nil, err
	}

	raw := json.RawMessage(body.GameStateJSON)
	if body.GameStateJSON == "" {
		raw, _ = unwrapOnce(body.GameState)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: state update carries no snapshot", apperror.ErrMalformedPayload)
	}

	var snapshot entity.GameSnapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrMalformedPayload, err)
	}

	return &snapshot, nil
}

// unwrapOnce - strips a single layer of string encoding from a raw JSON
// value, returning nil for absent or empty values.
func unwrapOnce(raw json.RawMessage) (json.RawMessage, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	if raw[0] != '"' {
		return raw, nil
	}

	var nested string
	if err := json.Unmarshal(raw, &nested); err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrMalformedPayload, err)
	}
	if nested == "" {
		return nil, nil
	}

	return json.RawMessage(nested), nil
}
