package store

import (
	"github.com/rocketscienceinc/whot-client/internal/entity"
)

// Store - holds the single current snapshot of shared game state. The
// snapshot is replaced wholesale on every state update; the store performs
// no phase computation, only storage and query. All mutation happens from
// the client's serialized event context, so the store carries no lock.
type Store struct {
	snapshot *entity.GameSnapshot
}

func New() *Store {
	return &Store{}
}

// Replace - swaps in the latest snapshot, discarding the previous one.
func (that *Store) Replace(snapshot *entity.GameSnapshot) {
	that.snapshot = snapshot
}

// Snapshot - the latest snapshot, nil before the first state update.
func (that *Store) Snapshot() *entity.GameSnapshot {
	return that.snapshot
}

// Phase - the latest phase; PhaseLobby before the first state update.
func (that *Store) Phase() entity.Phase {
	if that.snapshot == nil {
		return entity.PhaseLobby
	}
	return that.snapshot.Phase
}

// IsMyTurn - whether the seat at currentPlayerIndex is the local player.
// Only meaningful while the game is in progress.
func (that *Store) IsMyTurn(playerID string) bool {
	if that.snapshot == nil || playerID == "" {
		return false
	}

	current := that.snapshot.CurrentPlayer()

	return current != nil && current.ID == playerID
}

// IsCreator - whether the local player may start the game.
func (that *Store) IsCreator(playerID string) bool {
	return that.snapshot != nil && that.snapshot.IsCreator(playerID)
}

// HandOf - the local player's hand normalized to a card sequence, nil when
// the player or the cards are not visible in the latest snapshot.
func (that *Store) HandOf(playerID string) []entity.Card {
	if that.snapshot == nil {
		return nil
	}

	player := that.snapshot.Player(playerID)
	if player == nil {
		return nil
	}

	return player.Hand.Cards
}

// DeckSize - draw pile size from the latest snapshot, 0 when absent and
// never negative.
func (that *Store) DeckSize() int {
	if that.snapshot == nil || that.snapshot.DeckSize < 0 {
		return 0
	}
	return that.snapshot.DeckSize
}
