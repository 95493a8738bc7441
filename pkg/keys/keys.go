// Package keys defines the dotted-path payload keys of the quizpoker wire
// protocol. Clients pattern-match on key prefixes, so the hierarchy is part
// of the wire contract and must stay stable.
package keys

import "fmt"

// Meta keys injected by the user handler before a message is routed.
const (
	MessageID        = "Message.Id"
	MessageType      = "Message.Type"
	MessageTimestamp = "Message.Timestamp"

	QuizmasterStageCurrent = "Message.Quizmaster.Stage.Current"
	QuizmasterStageNext    = "Message.Quizmaster.Stage.Next"
)

// Lobby / game state keys.
const (
	GameLobbyID    = "Game.Lobby.Id"
	GamePlayerName = "Game.Player.Name"

	GamePokerState         = "Game.Poker.State"
	GamePokerRound         = "Game.Poker.Round"
	GamePokerCurrentPlayer = "Game.Poker.CurrentPlayer"
	GamePokerCurrentBid    = "Game.Poker.CurrentBid"

	GamePokerBlindsSmall = "Game.Poker.Blinds.Small"
	GamePokerBlindsBig   = "Game.Poker.Blinds.Big"

	GamePokerQuestionID     = "Game.Poker.Question.UUID"
	GamePokerQuestionText   = "Game.Poker.Question.Text"
	GamePokerQuestionUnit   = "Game.Poker.Question.Unit"
	GamePokerQuestionAnswer = "Game.Poker.Question.Answer"
	GamePokerQuestionHintN  = "Game.Poker.Question.Hint.n"

	GamePokerWinnersType = "Game.Poker.Winners.Type"
	GamePokerWinnersN    = "Game.Poker.Winners.n"
)

// Settings keys. Writable by the lobby host only.
const (
	SettingsPrefix = "Game.Poker.Settings"

	SettingsLobbyName        = "Game.Poker.Settings.Lobby.Name"
	SettingsLobbyPublicity   = "Game.Poker.Settings.Lobby.Publicity"
	SettingsDefaultPoints    = "Game.Poker.Settings.DefaultPoints"
	SettingsTimeout          = "Game.Poker.Settings.Timeout"
	SettingsMaxQuestions     = "Game.Poker.Settings.MaxQuestions"
	SettingsKickBroke        = "Game.Poker.Settings.KickBroke"
	SettingsShowHelpWarnings = "Game.Poker.Settings.ShowHelpWarnings"
	SettingsLateJoin         = "Game.Poker.Settings.LateJoin"
	SettingsBlindStrategy    = "Game.Poker.Settings.BlindStrategy"
	SettingsRevealStrategy   = "Game.Poker.Settings.RevealStrategy"
	SettingsTimeoutStrategy  = "Game.Poker.Settings.TimeoutStrategy"
	SettingsLateJoinStrategy = "Game.Poker.Settings.LateJoinStrategy"
	SettingsQuizmasterForce  = "Game.Poker.Settings.QuizmasterForceAdvance"

	SettingsBlindsN       = "Game.Poker.Settings.Blinds.n"
	SettingsCategoriesN   = "Game.Poker.Settings.Categories.n"
	SettingsDifficultiesN = "Game.Poker.Settings.Difficulties.n"
	SettingsLanguagesN    = "Game.Poker.Settings.Languages.n"
)

// Per-player keys. Broadcast diffs carry GamePlayerName alongside these.
const (
	PlayerPrefix = "Player"

	PlayerConnectionState = "Player.Connection.State"
	PlayerConnectionPing  = "Player.Connection.Ping"

	PlayerPokerRole     = "Player.Poker.Role"
	PlayerPokerScore    = "Player.Poker.Score"
	PlayerPokerAnswer   = "Player.Poker.Answer"
	PlayerPokerRevealed = "Player.Poker.Revealed"
	PlayerPokerPot      = "Player.Poker.Pot"
	PlayerPokerFolded   = "Player.Poker.Folded"
)

// Action keys. Values are booleans; an action fires on true.
const (
	ActionHostPrefix     = "Action.Host"
	ActionHostStartGame  = "Action.Host.StartGame"
	ActionHostCancelGame = "Action.Host.CancelGame"

	ActionPlayerPrefix = "Action.Player"
	ActionPlayerCheck  = "Action.Player.Check"
	ActionPlayerFold   = "Action.Player.Fold"
	ActionPlayerRaise  = "Action.Player.Raise"
	ActionPlayerReveal = "Action.Player.Reveal"

	ActionQuizmasterPrefix      = "Action.Quizmaster"
	ActionQuizmasterAcknowledge = "Action.Quizmaster.Acknowledge"
	ActionQuizmasterReveal      = "Action.Quizmaster.Reveal"
	ActionQuizmasterRevealName  = "Action.Quizmaster.RevealName"
)

// Connection parameter keys, replicated so clients learn transport settings
// from the lobby snapshot.
const (
	ConnectionRESTHost = "Connection.Server.REST.Host"
	ConnectionRESTPort = "Connection.Server.REST.Port"
	ConnectionRESTTLS  = "Connection.Server.REST.TLS"

	ConnectionWSHost = "Connection.Server.WS.Host"
	ConnectionWSPort = "Connection.Server.WS.Port"
	ConnectionWSPath = "Connection.Server.WS.Path"
	ConnectionWSTLS  = "Connection.Server.WS.TLS"

	ConnectionHeartbeatRate      = "Connection.Server.WS.Heartbeat.Rate"
	ConnectionHeartbeatMaxMisses = "Connection.Server.WS.Heartbeat.MaxMisses"
)

// Indexed keys. Indices are 1-based and zero-padded to three digits so that
// lexical ordering matches numeric ordering.

func QuestionHint(i int) string { return fmt.Sprintf("Game.Poker.Question.Hint.%03d.Text", i) }

func WinnerName(i int) string { return fmt.Sprintf("Game.Poker.Winners.%03d.Name", i) }

func BlindSmall(i int) string { return fmt.Sprintf("Game.Poker.Settings.Blinds.%03d.Small", i) }

func BlindBig(i int) string { return fmt.Sprintf("Game.Poker.Settings.Blinds.%03d.Big", i) }

func CategoryName(i int) string { return fmt.Sprintf("Game.Poker.Settings.Categories.%03d.Name", i) }

func DifficultyName(i int) string {
	return fmt.Sprintf("Game.Poker.Settings.Difficulties.%03d.Name", i)
}

func LanguageName(i int) string { return fmt.Sprintf("Game.Poker.Settings.Languages.%03d.Name", i) }
