package entity

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Suit - card category as the server names it on the wire.
type Suit string

const (
	SuitCircle   Suit = "CIRCLE"
	SuitTriangle Suit = "TRIANGLE"
	SuitCross    Suit = "CROSS"
	SuitSquare   Suit = "SQUARE"
	SuitStar     Suit = "STAR"
	SuitWhot     Suit = "WHOT"
)

// WhotValue - the reserved wild value; playing it requires a chosen suit.
const WhotValue = 20

type Card struct {
	Suit  Suit `json:"suit"`
	Value int  `json:"value"`
}

func (that Card) IsWhot() bool {
	return that.Value == WhotValue
}

func (that Card) String() string {
	return fmt.Sprintf("%s %d", that.Suit, that.Value)
}

// UnmarshalJSON - the server may send a card as an object or as a bare
// value; values inside objects may arrive as numbers or numeric strings.
func (that *Card) UnmarshalJSON(data []byte) error {
	var bare flexInt
	if err := json.Unmarshal(data, &bare); err == nil {
		that.Suit = SuitCircle
		that.Value = int(bare)
		return nil
	}

	var raw struct {
		Suit  Suit    `json:"suit"`
		Value flexInt `json:"value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to unmarshal card: %w", err)
	}

	that.Suit = raw.Suit
	if that.Suit == "" {
		that.Suit = SuitCircle
	}
	that.Value = int(raw.Value)

	return nil
}

// flexInt - integer that accepts both 20 and "20" on the wire.
type flexInt int

func (that *flexInt) UnmarshalJSON(data []byte) error {
	if len(data) > 1 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}

		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("failed to parse numeric string %q: %w", s, err)
		}

		*that = flexInt(n)
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}

	*that = flexInt(n)
	return nil
}
