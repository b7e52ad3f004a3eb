package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// PlayerView - one seat at the table as the server describes it to this
// recipient. The local player's hand arrives visible, everyone else's as an
// opaque count.
type PlayerView struct {
	ID              string `json:"id"`
	Name            string `json:"name,omitempty"`
	Hand            Hand   `json:"hand"`
	CumulativeScore int    `json:"cumulativeScore,omitempty"`
	CurrentScore    int    `json:"currentScore,omitempty"`
}

func (that *PlayerView) DisplayName() string {
	if that.Name != "" {
		return that.Name
	}
	if that.ID != "" {
		return that.ID
	}
	return "Player"
}

// Score - cumulative score with the per-round score as fallback.
func (that *PlayerView) Score() int {
	if that.CumulativeScore != 0 {
		return that.CumulativeScore
	}
	return that.CurrentScore
}

// Hand - the per-recipient hand shape. The server sends either an ordered
// card array, an object with a "cards" array, or an opaque {"count": N}.
type Hand struct {
	Cards []Card
	Count int
}

// Visible - reports whether the actual cards are known to this client.
func (that Hand) Visible() bool {
	return that.Cards != nil
}

// Size - number of cards regardless of shape.
func (that Hand) Size() int {
	if that.Cards != nil {
		return len(that.Cards)
	}
	return that.Count
}

func (that *Hand) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*that = Hand{}
		return nil
	}

	if data[0] == '[' {
		var cards []Card
		if err := json.Unmarshal(data, &cards); err != nil {
			return fmt.Errorf("failed to unmarshal hand cards: %w", err)
		}

		that.Cards = cards
		that.Count = len(cards)
		return nil
	}

	var raw struct {
		Cards []Card  `json:"cards"`
		Count flexInt `json:"count"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to unmarshal hand: %w", err)
	}

	if raw.Cards != nil {
		that.Cards = raw.Cards
		that.Count = len(raw.Cards)
		return nil
	}

	that.Cards = nil
	that.Count = int(raw.Count)

	return nil
}

func (that Hand) MarshalJSON() ([]byte, error) {
	if that.Cards != nil {
		return json.Marshal(that.Cards)
	}

	return json.Marshal(struct {
		Count int `json:"count"`
	}{Count: that.Count})
}
