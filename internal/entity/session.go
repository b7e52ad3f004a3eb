package entity

// SessionBinding - which game and player identity this session acts as.
// Created on create/join, kept across reconnects, and only replaced by the
// next create/join.
type SessionBinding struct {
	GameID   string `json:"gameId"`
	PlayerID string `json:"playerId"`
	GameCode string `json:"gameCode,omitempty"`
}

func (that SessionBinding) Bound() bool {
	return that.GameID != "" && that.PlayerID != ""
}
