// Package model holds the replicated game entities of a quizpoker lobby.
// Enum values travel on the wire by name, so the string forms are part of
// the protocol.
package model

// GameState 大厅状态
type GameState string

const (
	GameLobby    GameState = "LOBBY"    // 等待开局
	GameStarting GameState = "STARTING" // 开局准备
	GameQuestion GameState = "QUESTION" // 答题/下注中
	GamePause    GameState = "PAUSE"    // 暂停
)

// Joinable reports whether new players may enter in this state.
func (s GameState) Joinable() bool { return s == GameLobby }

// PlayerRole 玩家在当前回合的角色
type PlayerRole string

const (
	RoleDefault    PlayerRole = "DEFAULT"
	RoleSmallBlind PlayerRole = "SMALL_BLIND"
	RoleBigBlind   PlayerRole = "BIG_BLIND"
	RoleQuizmaster PlayerRole = "QUIZMASTER"
)

// ConnectionState 连接状态
type ConnectionState string

const (
	ConnUnknown      ConnectionState = "UNKNOWN"
	ConnConnecting   ConnectionState = "CONNECTING"
	ConnConnected    ConnectionState = "CONNECTED"
	ConnLost         ConnectionState = "CONNECTION_LOST"
	ConnDisconnected ConnectionState = "DISCONNECTED"
)

// Online reports whether messages can currently reach the player.
func (s ConnectionState) Online() bool { return s == ConnConnected }

// LobbyPublicity controls whether the lobby shows up in the public listing
// or is reachable by token only.
type LobbyPublicity string

const (
	PublicityPublic   LobbyPublicity = "PUBLIC"
	PublicityCodeOnly LobbyPublicity = "CODE_ONLY"
)

// BlindRaiseStrategy decides when blind levels advance.
type BlindRaiseStrategy string

const (
	BlindsOnDropout           BlindRaiseStrategy = "ON_DROPOUT"
	BlindsOnRounded           BlindRaiseStrategy = "ON_ROUNDED"
	BlindsOnDropoutAndRounded BlindRaiseStrategy = "ON_DROPOUT_AND_ROUNDED"
	BlindsQuizmaster          BlindRaiseStrategy = "QUIZMASTER"
)

// RaiseOnDropout reports whether a player going broke advances the level.
func (s BlindRaiseStrategy) RaiseOnDropout() bool {
	return s == BlindsOnDropout || s == BlindsOnDropoutAndRounded
}

// RaiseOnRounded reports whether a full dealer rotation advances the level.
func (s BlindRaiseStrategy) RaiseOnRounded() bool {
	return s == BlindsOnRounded || s == BlindsOnDropoutAndRounded
}

// AnswerRevealStrategy decides whether answers of folded players are shown.
type AnswerRevealStrategy string

const (
	RevealNever  AnswerRevealStrategy = "NEVER"
	RevealAlways AnswerRevealStrategy = "ALWAYS"
)

// TimeoutStrategy 超时处理策略
type TimeoutStrategy string

const (
	TimeoutAutoFold TimeoutStrategy = "AUTO_FOLD" // 超时自动弃牌
	TimeoutAutoCall TimeoutStrategy = "AUTO_CALL" // 超时自动跟注
	TimeoutKick     TimeoutStrategy = "KICK"      // 超时踢出
)

// LateJoinBehaviour decides the starting score of players joining a running
// game.
type LateJoinBehaviour string

const (
	LateJoinDefaultScore LateJoinBehaviour = "DEFAULT_SCORE"
	LateJoinMinScore     LateJoinBehaviour = "MIN_SCORE"
	LateJoinAvgScore     LateJoinBehaviour = "AVG_SCORE"
	LateJoinMedianScore  LateJoinBehaviour = "MEDIAN_SCORE"
)
