package protocol

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/whot-client/internal/apperror"
	"github.com/rocketscienceinc/whot-client/internal/entity"
)

func TestEncode(t *testing.T) {
	// Given: a play-card intent with a bound identity
	payload := PlayCardPayload{CardIndex: 2, ChosenSuit: entity.SuitStar}

	// When: encoding it
	data, err := Encode(KindPlayCard, "p1", "g1", payload)
	require.NoError(t, err)

	// Then: the envelope carries kind, identity, a nested serialized
	// payload and a client timestamp
	var raw struct {
		Type      int    `json:"type"`
		PlayerID  string `json:"playerId"`
		GameID    string `json:"gameId"`
		Payload   string `json:"payload"`
		Timestamp int64  `json:"timestamp"`
	}
	require.NoError(t, json.Unmarshal(data, &raw))

	assert.Equal(t, 102, raw.Type)
	assert.Equal(t, "p1", raw.PlayerID)
	assert.Equal(t, "g1", raw.GameID)
	assert.Positive(t, raw.Timestamp)
	assert.JSONEq(t, `{"cardIndex":2,"chosenSuit":"STAR"}`, raw.Payload)
}

func TestEncode_OmitsUnboundIdentity(t *testing.T) {
	// Given: an intent sent before any game is joined
	data, err := Encode(KindDrawCard, "", "", struct{}{})
	require.NoError(t, err)

	// Then: the identity fields are absent from the wire form
	assert.NotContains(t, string(data), "playerId")
	assert.NotContains(t, string(data), "gameId")
}

func TestDecode(t *testing.T) {
	t.Run("Parses an inbound frame", func(t *testing.T) {
		// Given: a frame as the server sends it
		raw := []byte(`{"type":204,"payload":"{\"cardIndex\":2}","timestamp":123}`)

		// When: decoding it
		env, err := Decode(raw)

		// Then: the kind is extracted
		require.NoError(t, err)
		assert.Equal(t, KindCardPlayed, env.Type)
	})

	t.Run("Rejects a malformed frame", func(t *testing.T) {
		// Given: a frame that is not JSON
		raw := []byte(`<html>502 Bad Gateway</html>`)

		// When: decoding it
		_, err := Decode(raw)

		// Then: a malformed-envelope error is returned
		require.Error(t, err)
		assert.ErrorIs(t, err, apperror.ErrMalformedEnvelope)
	})
}

func TestEnvelope_UnwrapPayload(t *testing.T) {
	t.Run("Unwraps a nested serialized string", func(t *testing.T) {
		// Given: a payload that arrived as a serialized string
		env := &Envelope{Type: KindError, Payload: json.RawMessage(`"{\"message\":\"Not your turn\"}"`)}

		// When: unwrapping it
		var payload ErrorPayload
		err := env.UnwrapPayload(&payload)

		// Then: the inner value is decoded
		require.NoError(t, err)
		assert.Equal(t, "Not your turn", payload.Message)
	})

	t.Run("Accepts an already-structured payload", func(t *testing.T) {
		// Given: a payload that arrived pre-parsed
		env := &Envelope{Type: KindError, Payload: json.RawMessage(`{"message":"Not your turn"}`)}

		// When: unwrapping it
		var payload ErrorPayload
		err := env.UnwrapPayload(&payload)

		// Then: the value is decoded the same way
		require.NoError(t, err)
		assert.Equal(t, "Not your turn", payload.Message)
	})

	t.Run("Leaves the target untouched for an absent payload", func(t *testing.T) {
		// Given: an envelope without a payload
		env := &Envelope{Type: KindRoundEnded}

		// When: unwrapping it
		payload := ErrorPayload{Message: "unchanged"}
		err := env.UnwrapPayload(&payload)

		// Then: nothing is written
		require.NoError(t, err)
		assert.Equal(t, "unchanged", payload.Message)
	})

	t.Run("Reports a malformed payload", func(t *testing.T) {
		// Given: a payload string that is not valid JSON inside
		env := &Envelope{Type: KindError, Payload: json.RawMessage(`"{broken"`)}

		// When: unwrapping it
		var payload ErrorPayload
		err := env.UnwrapPayload(&payload)

		// Then: a malformed-payload error is returned
		require.Error(t, err)
		assert.ErrorIs(t, err, apperror.ErrMalformedPayload)
	})
}

func TestEnvelope_DecodeSnapshot(t *testing.T) {
	snapshotJSON := `{"phase":2,"players":[{"id":"p1","hand":[{"suit":"WHOT","value":20}]},` +
		`{"id":"p2","hand":{"count":6}}],"currentPlayerIndex":0,"deckSize":37}`

	variants := map[string]json.RawMessage{
		"snapshot nested as gameStateJson string": mustMarshal(t, map[string]string{
			"gameStateJson": snapshotJSON,
		}),
		"snapshot nested as gameState string": mustMarshal(t, map[string]string{
			"gameState": snapshotJSON,
		}),
		"snapshot structured under gameState": json.RawMessage(`{"gameState":` + snapshotJSON + `}`),
	}

	var first *entity.GameSnapshot

	for name, payload := range variants {
		t.Run(name, func(t *testing.T) {
			// Given: a state update whose payload itself arrived as a
			// serialized string
			nested, err := json.Marshal(string(payload))
			require.NoError(t, err)

			env := &Envelope{Type: KindStateUpdate, Payload: nested}

			// When: decoding the snapshot
			snapshot, err := env.DecodeSnapshot()
			require.NoError(t, err)

			// Then: every nesting variant yields the identical snapshot
			assert.Equal(t, entity.PhaseInProgress, snapshot.Phase)
			assert.Equal(t, 37, snapshot.DeckSize)
			require.Len(t, snapshot.Players, 2)
			assert.True(t, snapshot.Players[0].Hand.Visible())
			assert.Equal(t, 6, snapshot.Players[1].Hand.Size())

			if first == nil {
				first = snapshot
			} else {
				assert.Equal(t, first, snapshot)
			}
		})
	}

	t.Run("Rejects a state update without a snapshot", func(t *testing.T) {
		// Given: a state update with an empty payload body
		env := &Envelope{Type: KindStateUpdate, Payload: json.RawMessage(`{}`)}

		// When: decoding the snapshot
		_, err := env.DecodeSnapshot()

		// Then: a malformed-payload error is returned
		require.Error(t, err)
		assert.ErrorIs(t, err, apperror.ErrMalformedPayload)
	})
}

func TestErrorPayload_Text(t *testing.T) {
	// Given: payloads with message, code only, and nothing
	cases := []struct {
		payload ErrorPayload
		want    string
	}{
		{ErrorPayload{Message: "Not your turn", ErrorCode: "E1"}, "Not your turn"},
		{ErrorPayload{ErrorCode: "E1"}, "E1"},
		{ErrorPayload{}, "Invalid action"},
	}

	// Then: message wins, then code, then a generic label
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.payload.Text())
	}
}

func mustMarshal(t *testing.T, v any) json.RawMessage {
	t.Helper()

	data, err := json.Marshal(v)
	require.NoError(t, err, fmt.Sprintf("marshal %v", v))

	return data
}
