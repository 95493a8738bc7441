package model

import (
	"github.com/yola1107/quizpoker/internal/values"
	"github.com/yola1107/quizpoker/pkg/keys"
)

// BlindLevel is one small/big blind pair of the configured ladder.
type BlindLevel struct {
	Small int64
	Big   int64
}

// Settings is the host-editable lobby configuration. It is replicated under
// Game.Poker.Settings.* and only the host connection may write it.
type Settings struct {
	LobbyName         string
	Publicity         LobbyPublicity
	DefaultStartScore int64
	MaxQuestionCount  int64
	TimeoutMs         int64

	KickWhenBroke    bool
	ShowHelpWarnings bool
	AllowLateJoin    bool

	// QuizmasterForceAdvance lets the quizmaster acknowledge a stage before
	// every player acted, forcing the round forward.
	QuizmasterForceAdvance bool

	BlindRaiseStrategy   BlindRaiseStrategy
	AnswerRevealStrategy AnswerRevealStrategy
	TimeoutStrategy      TimeoutStrategy
	LateJoinBehaviour    LateJoinBehaviour

	BlindLevels []BlindLevel

	Categories   []Category
	Difficulties []Difficulty
	Languages    []Language
}

// DefaultSettings mirrors the defaults a fresh lobby starts with.
func DefaultSettings() *Settings {
	return &Settings{
		LobbyName:              "_",
		Publicity:              PublicityCodeOnly,
		DefaultStartScore:      5000,
		MaxQuestionCount:       -1,
		TimeoutMs:              60_000,
		QuizmasterForceAdvance: true,
		BlindRaiseStrategy:     BlindsOnRounded,
		AnswerRevealStrategy:   RevealNever,
		TimeoutStrategy:        TimeoutAutoFold,
		LateJoinBehaviour:      LateJoinMedianScore,
		BlindLevels: []BlindLevel{
			{50, 100},
			{100, 200},
			{200, 400},
			{500, 1000},
		},
	}
}

// Values flattens the settings into their wire keys. List entries are
// indexed 1-based with a companion "...n" count key.
func (s *Settings) Values() values.Values {
	vs := values.Values{
		keys.SettingsLobbyName:        values.String(s.LobbyName),
		keys.SettingsLobbyPublicity:   values.String(string(s.Publicity)),
		keys.SettingsDefaultPoints:    values.Int(s.DefaultStartScore),
		keys.SettingsMaxQuestions:     values.Int(s.MaxQuestionCount),
		keys.SettingsTimeout:          values.Int(s.TimeoutMs),
		keys.SettingsKickBroke:        values.Bool(s.KickWhenBroke),
		keys.SettingsShowHelpWarnings: values.Bool(s.ShowHelpWarnings),
		keys.SettingsLateJoin:         values.Bool(s.AllowLateJoin),
		keys.SettingsQuizmasterForce:  values.Bool(s.QuizmasterForceAdvance),
		keys.SettingsBlindStrategy:    values.String(string(s.BlindRaiseStrategy)),
		keys.SettingsRevealStrategy:   values.String(string(s.AnswerRevealStrategy)),
		keys.SettingsTimeoutStrategy:  values.String(string(s.TimeoutStrategy)),
		keys.SettingsLateJoinStrategy: values.String(string(s.LateJoinBehaviour)),
	}

	vs[keys.SettingsBlindsN] = values.Int(int64(len(s.BlindLevels)))
	for i, b := range s.BlindLevels {
		vs[keys.BlindSmall(i+1)] = values.Int(b.Small)
		vs[keys.BlindBig(i+1)] = values.Int(b.Big)
	}

	vs[keys.SettingsCategoriesN] = values.Int(int64(len(s.Categories)))
	for i, c := range s.Categories {
		vs[keys.CategoryName(i+1)] = values.String(string(c))
	}

	vs[keys.SettingsDifficultiesN] = values.Int(int64(len(s.Difficulties)))
	for i, d := range s.Difficulties {
		vs[keys.DifficultyName(i+1)] = values.String(string(d))
	}

	vs[keys.SettingsLanguagesN] = values.Int(int64(len(s.Languages)))
	for i, l := range s.Languages {
		vs[keys.LanguageName(i+1)] = values.String(string(l))
	}

	return vs
}

// Apply writes a single wire key into the struct. Unknown or indexed keys
// return false; indexed lists are applied in bulk via ApplyList because a
// consistent count key is required.
func (s *Settings) Apply(key string, v values.Value) bool {
	switch key {
	case keys.SettingsLobbyName:
		s.LobbyName = v.Str()
	case keys.SettingsLobbyPublicity:
		s.Publicity = LobbyPublicity(v.Str())
	case keys.SettingsDefaultPoints:
		if n, ok := v.AsInt(); ok {
			s.DefaultStartScore = n
		}
	case keys.SettingsMaxQuestions:
		if n, ok := v.AsInt(); ok {
			s.MaxQuestionCount = n
		}
	case keys.SettingsTimeout:
		if n, ok := v.AsInt(); ok {
			s.TimeoutMs = n
		}
	case keys.SettingsKickBroke:
		if b, ok := v.AsBool(); ok {
			s.KickWhenBroke = b
		}
	case keys.SettingsShowHelpWarnings:
		if b, ok := v.AsBool(); ok {
			s.ShowHelpWarnings = b
		}
	case keys.SettingsLateJoin:
		if b, ok := v.AsBool(); ok {
			s.AllowLateJoin = b
		}
	case keys.SettingsQuizmasterForce:
		if b, ok := v.AsBool(); ok {
			s.QuizmasterForceAdvance = b
		}
	case keys.SettingsBlindStrategy:
		s.BlindRaiseStrategy = BlindRaiseStrategy(v.Str())
	case keys.SettingsRevealStrategy:
		s.AnswerRevealStrategy = AnswerRevealStrategy(v.Str())
	case keys.SettingsTimeoutStrategy:
		s.TimeoutStrategy = TimeoutStrategy(v.Str())
	case keys.SettingsLateJoinStrategy:
		s.LateJoinBehaviour = LateJoinBehaviour(v.Str())
	default:
		return false
	}
	return true
}

// ApplyList rebuilds an indexed list from a batch containing the count key.
// Returns true if key belonged to a known list.
func (s *Settings) ApplyList(batch values.Values) {
	if n, ok := intAt(batch, keys.SettingsBlindsN); ok {
		levels := make([]BlindLevel, 0, n)
		for i := 1; i <= n; i++ {
			small, okS := intAt(batch, keys.BlindSmall(i))
			big, okB := intAt(batch, keys.BlindBig(i))
			if okS && okB {
				levels = append(levels, BlindLevel{Small: int64(small), Big: int64(big)})
			}
		}
		s.BlindLevels = levels
	}
	if n, ok := intAt(batch, keys.SettingsCategoriesN); ok {
		s.Categories = stringList(batch, n, keys.CategoryName, func(x string) Category { return Category(x) })
	}
	if n, ok := intAt(batch, keys.SettingsDifficultiesN); ok {
		s.Difficulties = stringList(batch, n, keys.DifficultyName, func(x string) Difficulty { return Difficulty(x) })
	}
	if n, ok := intAt(batch, keys.SettingsLanguagesN); ok {
		s.Languages = stringList(batch, n, keys.LanguageName, func(x string) Language { return Language(x) })
	}
}

func intAt(vs values.Values, key string) (int, bool) {
	v, ok := vs[key]
	if !ok {
		return 0, false
	}
	n, ok := v.AsInt()
	return int(n), ok
}

func stringList[T ~string](vs values.Values, n int, keyAt func(int) string, conv func(string) T) []T {
	out := make([]T, 0, n)
	for i := 1; i <= n; i++ {
		if v, ok := vs[keyAt(i)]; ok {
			out = append(out, conv(v.Str()))
		}
	}
	return out
}
