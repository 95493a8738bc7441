package lobby

import (
	"github.com/yola1107/kratos/v2/errors"
	"github.com/yola1107/kratos/v2/log"

	"github.com/yola1107/quizpoker/internal/model"
	"github.com/yola1107/quizpoker/internal/socket"
	"github.com/yola1107/quizpoker/internal/values"
	"github.com/yola1107/quizpoker/pkg/keys"
)

var (
	ErrWrongLobby    = errors.BadRequest("WRONG_LOBBY", "hello does not match this lobby")
	ErrMissingName   = errors.BadRequest("MISSING_NAME", "hello carries no player name")
	ErrUnknownPlayer = errors.NotFound("UNKNOWN_PLAYER", "player has not joined this lobby")
	ErrNotBound      = errors.Unauthorized("NOT_BOUND", "session has not completed the hello handshake")
)

// HandleHello binds a websocket session to a player who already joined over
// REST. A hello never creates members; on success the full lobby state is
// pushed as refresh events.
func (l *Lobby) HandleHello(sessID string, data values.Values) error {
	if id, ok := data[keys.GameLobbyID]; !ok || id.Str() != l.ID {
		return ErrWrongLobby
	}
	nameVal, ok := data[keys.GamePlayerName]
	if !ok || nameVal.Str() == "" {
		return ErrMissingName
	}
	name := nameVal.Str()

	p, found := l.PlayerByName(name)
	if !found {
		return ErrUnknownPlayer
	}

	l.mu.Lock()
	if old, bound := l.sessions[name]; bound && old != sessID {
		if p.ConnState().Online() {
			l.mu.Unlock()
			return ErrNameTaken
		}
		delete(l.names, old)
	}
	l.sessions[name] = sessID
	l.names[sessID] = name
	l.mu.Unlock()

	p.SetConnState(model.ConnConnected)
	log.Infof("lobby %s: session %s bound to player %s", l.ID, sessID, name)

	l.hub.Send(sessID, socket.Event, l.Snapshot(), 0, socket.SendCallbacks{})
	for _, snap := range l.playerSnapshots() {
		l.hub.Send(sessID, socket.Event, snap, 0, socket.SendCallbacks{})
	}
	return nil
}

// HandlePackage routes one inbound client message. Meta keys are injected
// so listeners can correlate replies with the triggering message.
func (l *Lobby) HandlePackage(sessID string, pkg *socket.Package) error {
	l.mu.Lock()
	name, bound := l.names[sessID]
	l.mu.Unlock()

	if pkg.Type == socket.ClientHello {
		return l.HandleHello(sessID, pkg.Data)
	}
	if !bound {
		return ErrNotBound
	}

	p, ok := l.PlayerByName(name)
	if !ok {
		return ErrNotBound
	}

	data := pkg.Data.Clone()
	data[keys.MessageID] = values.Int(pkg.ID)
	data[keys.MessageType] = values.String(string(pkg.Type))
	data[keys.MessageTimestamp] = values.Int(pkg.Timestamp)

	l.route(p, data)
	return nil
}

// HandleSessionClosed marks the bound player as disconnected. The binding
// stays so score and seat survive a reconnect under the same name.
func (l *Lobby) HandleSessionClosed(sessID string) {
	l.mu.Lock()
	name, ok := l.names[sessID]
	if ok {
		delete(l.names, sessID)
		delete(l.sessions, name)
	}
	l.mu.Unlock()
	if !ok {
		return
	}

	if p, found := l.PlayerByName(name); found {
		log.Infof("lobby %s: player %s disconnected", l.ID, name)
		p.SetConnState(model.ConnDisconnected)
	}
}
