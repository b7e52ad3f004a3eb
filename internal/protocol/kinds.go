package protocol

// Kind - numeric message kind shared with the game server. The integers are
// a wire contract and must match the server exactly.
type Kind int

const (
	// Client -> Server
	KindJoinGame        Kind = 100
	KindLeaveGame       Kind = 101
	KindPlayCard        Kind = 102
	KindDrawCard        Kind = 103
	KindDeclareLastCard Kind = 104
	KindStartGame       Kind = 109

	// Server -> Client
	KindStateUpdate  Kind = 200
	KindPlayerJoined Kind = 201
	KindPlayerLeft   Kind = 202
	KindTurnStarted  Kind = 203
	KindCardPlayed   Kind = 204
	KindCardDrawn    Kind = 205
	KindRoundEnded   Kind = 206
	KindGameEnded    Kind = 207
	KindError        Kind = 208
)
