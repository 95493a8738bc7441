package lobby

import (
	"strings"

	"github.com/yola1107/kratos/v2/log"

	"github.com/yola1107/quizpoker/internal/model"
	"github.com/yola1107/quizpoker/internal/values"
	"github.com/yola1107/quizpoker/pkg/keys"
)

// route demultiplexes one inbound message by key prefix. Authorization is
// positional: settings and host actions require the host connection,
// quizmaster actions the quizmaster role.
func (l *Lobby) route(p *model.Player, data values.Values) {
	for _, key := range data.SortedKeys() {
		v := data[key]
		switch {
		case strings.HasPrefix(key, keys.SettingsPrefix):
			l.routeSettings(p, key, v, data)
		case strings.HasPrefix(key, keys.ActionHostPrefix):
			l.routeHostAction(p, key, v)
		case strings.HasPrefix(key, keys.ActionPlayerPrefix):
			l.routePlayerAction(p, key, v)
		case strings.HasPrefix(key, keys.ActionQuizmasterPrefix):
			l.routeQuizmasterAction(p, key, v, data)
		case strings.HasPrefix(key, keys.PlayerPrefix):
			l.routePlayerData(p, key, v)
		}
	}
}

// routeSettings applies a host edit and replicates the accepted values.
// List-valued settings arrive as indexed batches and are applied in one go.
func (l *Lobby) routeSettings(p *model.Player, key string, v values.Value, data values.Values) {
	if p.Name() != l.Host() {
		log.Warnf("lobby %s: %s tried to edit settings", l.ID, p.Name())
		return
	}
	if !l.State().Joinable() {
		return
	}

	l.mu.Lock()
	applied := l.settings.Apply(key, v)
	if !applied {
		switch key {
		case keys.SettingsBlindsN, keys.SettingsCategoriesN,
			keys.SettingsDifficultiesN, keys.SettingsLanguagesN:
			l.settings.ApplyList(data)
			applied = true
		}
	}
	snapshot := l.settings.Values()
	l.mu.Unlock()

	if applied {
		l.holder.NotifyChanges(snapshot)
	}
}

func (l *Lobby) routeHostAction(p *model.Player, key string, v values.Value) {
	if p.Name() != l.Host() {
		return
	}
	if set, ok := v.AsBool(); !ok || !set {
		return
	}

	switch key {
	case keys.ActionHostStartGame:
		// The loop advances through the pause window on its own; a second
		// loop over the same game must never start.
		if l.State().Joinable() {
			l.logic.StartGame()
		}
	case keys.ActionHostCancelGame:
		if !l.State().Joinable() {
			l.logic.FinishGame()
		}
	}
}

func (l *Lobby) routePlayerAction(p *model.Player, key string, v values.Value) {
	if set, ok := v.AsBool(); !ok || !set {
		return
	}

	switch key {
	case keys.ActionPlayerCheck:
		l.logic.AcknowledgeCheck(p)
	case keys.ActionPlayerFold:
		l.logic.AcknowledgeFold(p)
	case keys.ActionPlayerRaise:
		l.logic.AcknowledgeRaise(p)
	case keys.ActionPlayerReveal:
		l.logic.RevealAnswer(p)
	}
}

func (l *Lobby) routeQuizmasterAction(p *model.Player, key string, v values.Value, data values.Values) {
	if !p.IsQuizmaster() {
		log.Warnf("lobby %s: %s sent a quizmaster action without the role", l.ID, p.Name())
		return
	}
	if set, ok := v.AsBool(); !ok || !set {
		return
	}

	switch key {
	case keys.ActionQuizmasterAcknowledge:
		l.logic.AcknowledgeWaiting(p)
	case keys.ActionQuizmasterReveal:
		nameVal, ok := data[keys.ActionQuizmasterRevealName]
		if !ok {
			return
		}
		target, found := l.PlayerByName(nameVal.Str())
		if !found {
			return
		}
		l.logic.RevealAnswer(target)
	}
}

// routePlayerData applies writes a player may make to their own state.
func (l *Lobby) routePlayerData(p *model.Player, key string, v values.Value) {
	switch key {
	case keys.PlayerConnectionPing:
		if ping, ok := v.AsInt(); ok {
			p.SetPing(ping)
		}
	case keys.PlayerPokerAnswer:
		guess, ok := v.AsInt()
		if !ok {
			return
		}
		if _, answered := p.Answer(); !answered {
			p.SetAnswer(guess)
		}
	case keys.PlayerPokerPot:
		if bid, ok := v.AsInt(); ok {
			l.logic.ProcessBid(p, bid)
		}
	case keys.PlayerPokerRole:
		// Players may take or give up the quizmaster seat before a game.
		if !l.State().Joinable() {
			return
		}
		switch r := model.PlayerRole(v.Str()); r {
		case model.RoleQuizmaster, model.RoleDefault:
			p.SetRole(r)
		}
	}
}
