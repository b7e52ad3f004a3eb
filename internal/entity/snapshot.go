package entity

// Phase - game lifecycle stage, set verbatim from the latest server
// snapshot and never computed locally.
type Phase int

const (
	PhaseLobby Phase = iota
	PhaseStarting
	PhaseInProgress
	PhaseRoundEnded
	PhaseGameEnded
)

func (that Phase) String() string {
	switch that {
	case PhaseLobby:
		return "Lobby"
	case PhaseStarting:
		return "Starting"
	case PhaseInProgress:
		return "In progress"
	case PhaseRoundEnded:
		return "Round ended"
	case PhaseGameEnded:
		return "Ended"
	default:
		return ""
	}
}

// GameSnapshot - the full shared game state as last pushed by the server.
// Replaced wholesale on every state update; never partially mutated.
type GameSnapshot struct {
	Phase              Phase        `json:"phase"`
	Players            []PlayerView `json:"players"`
	CallCard           *Card        `json:"callCard,omitempty"`
	CurrentPlayerIndex int          `json:"currentPlayerIndex"`
	DeckSize           int          `json:"deckSize"`
	GameCode           string       `json:"gameCode,omitempty"`
	CreatorPlayerID    string       `json:"creatorPlayerId,omitempty"`
	WinnerID           string       `json:"winnerId,omitempty"`
}

// Player - looks up a seat by its stable id.
func (that *GameSnapshot) Player(id string) *PlayerView {
	for i := range that.Players {
		if that.Players[i].ID == id {
			return &that.Players[i]
		}
	}
	return nil
}

// CurrentPlayer - the seat whose turn it is, nil when the index does not
// resolve to a seat.
func (that *GameSnapshot) CurrentPlayer() *PlayerView {
	if that.CurrentPlayerIndex < 0 || that.CurrentPlayerIndex >= len(that.Players) {
		return nil
	}
	return &that.Players[that.CurrentPlayerIndex]
}

// IsCreator - whether the given player may start the game. Falls back to
// the first seat in turn order when the server omits creatorPlayerId.
func (that *GameSnapshot) IsCreator(playerID string) bool {
	if playerID == "" {
		return false
	}

	if that.CreatorPlayerID != "" {
		return that.CreatorPlayerID == playerID
	}

	return len(that.Players) > 0 && that.Players[0].ID == playerID
}

// Winner - the winning seat for the terminal scoreboard. Falls back to the
// first seat when winnerId is absent.
func (that *GameSnapshot) Winner() *PlayerView {
	if p := that.Player(that.WinnerID); p != nil {
		return p
	}

	if len(that.Players) > 0 {
		return &that.Players[0]
	}

	return nil
}

// GameSummary - one joinable-listing entry.
type GameSummary struct {
	GameID      string `json:"gameId"`
	PlayerCount int    `json:"playerCount"`
	MaxPlayers  int    `json:"maxPlayers"`
	Phase       Phase  `json:"phase"`
	Joinable    bool   `json:"joinable"`
}
