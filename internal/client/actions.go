package client

import (
	"github.com/rocketscienceinc/whot-client/internal/entity"
	"github.com/rocketscienceinc/whot-client/internal/protocol"
)

// The intents below are optimistic: beyond phase gating there is no local
// legality check. The server is the sole authority; an illegal attempt
// comes back as an error message, it is not prevented here.

// StartGame - asks the server to start the game. Only the creator's request
// succeeds; anyone else's is rejected server-side.
func (that *Client) StartGame() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.send(protocol.KindStartGame, struct{}{})
}

// AttemptPlayCard - plays the card at index in the local hand. A wild card
// is not sent yet: it stages a pending choice and waits for the UI to
// collect a suit and call ResolvePendingChoice. Anything out of range, out
// of phase or without a loaded hand is a silent no-op.
func (that *Client) AttemptPlayCard(index int) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.store.Phase() != entity.PhaseInProgress {
		that.logger.Debug("play ignored", "phase", that.store.Phase().String())
		return
	}

	hand := that.store.HandOf(that.session.PlayerID)
	if index < 0 || index >= len(hand) {
		that.logger.Debug("play ignored, no card at index", "index", index)
		return
	}

	if hand[index].IsWhot() {
		// a new selection silently replaces an unresolved previous one
		that.pending = &pendingChoice{cardIndex: index}
		return
	}

	that.send(protocol.KindPlayCard, protocol.PlayCardPayload{CardIndex: index})
}

// ResolvePendingChoice - finalizes a staged wild-card play with the chosen
// suit. The slot is cleared unconditionally, even when the send is dropped.
func (that *Client) ResolvePendingChoice(suit entity.Suit) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.pending == nil {
		that.logger.Debug("no pending suit choice to resolve")
		return
	}

	index := that.pending.cardIndex
	that.pending = nil

	that.send(protocol.KindPlayCard, protocol.PlayCardPayload{CardIndex: index, ChosenSuit: suit})
}

// AbandonPendingChoice - discards a staged wild-card play without sending.
func (that *Client) AbandonPendingChoice() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.pending = nil
}

// AttemptDraw - draws a card from the pile.
func (that *Client) AttemptDraw() {
	that.attemptInProgress(protocol.KindDrawCard)
}

// AttemptDeclareLast - declares the last-card state.
func (that *Client) AttemptDeclareLast() {
	that.attemptInProgress(protocol.KindDeclareLastCard)
}

func (that *Client) attemptInProgress(kind protocol.Kind) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.store.Phase() != entity.PhaseInProgress {
		that.logger.Debug("action ignored", "kind", int(kind), "phase", that.store.Phase().String())
		return
	}

	that.send(kind, struct{}{})
}
