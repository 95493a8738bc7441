package lobby

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/samber/lo"
	"github.com/yola1107/kratos/v2/errors"
	"github.com/yola1107/kratos/v2/log"

	"github.com/yola1107/quizpoker/internal/biz/logic"
	"github.com/yola1107/quizpoker/internal/model"
	"github.com/yola1107/quizpoker/internal/socket"
	"github.com/yola1107/quizpoker/internal/values"
	"github.com/yola1107/quizpoker/pkg/keys"
)

const (
	tokenAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	tokenLength   = 6

	cleanupInterval = time.Hour
)

var (
	ErrLobbyNotFound = errors.NotFound("LOBBY_NOT_FOUND", "no lobby with this id")
	ErrTokenNotFound = errors.NotFound("TOKEN_NOT_FOUND", "no lobby with this token")
)

// Scheduler is the slice of work.IWorkStore the manager needs: a loop to
// post on and a repeating cleanup timer.
type Scheduler interface {
	values.Executor
	Forever(interval time.Duration, f func()) int64
}

// Manager owns all live lobbies and fans websocket traffic out to them. It
// implements socket.Receiver.
type Manager struct {
	hub  Sender
	exec Scheduler
	repo logic.QuestionRepo
	conn model.ConnectionSettings

	mu       sync.Mutex
	lobbies  map[string]*Lobby // lobby id -> lobby
	tokens   map[string]string // join token -> lobby id
	bindings map[string]string // session id -> lobby id
}

func NewManager(hub Sender, exec Scheduler, repo logic.QuestionRepo, conn model.ConnectionSettings) *Manager {
	m := &Manager{
		hub:      hub,
		exec:     exec,
		repo:     repo,
		conn:     conn,
		lobbies:  make(map[string]*Lobby),
		tokens:   make(map[string]string),
		bindings: make(map[string]string),
	}
	exec.Forever(cleanupInterval, m.cleanup)
	return m
}

// Create opens a new lobby for host and returns it with a fresh join token.
func (m *Manager) Create(host string) (*Lobby, error) {
	m.mu.Lock()
	token, err := m.newTokenLocked()
	if err != nil {
		m.mu.Unlock()
		return nil, err
	}
	l := New(uuid.New().String(), token, host, m.conn, m.exec, m.repo, m.hub)
	m.lobbies[l.ID] = l
	m.tokens[token] = l.ID
	m.mu.Unlock()

	log.Infof("created lobby %s (token %s) for host %s", l.ID, token, host)
	return l, nil
}

// newTokenLocked draws join tokens until one is free. Caller holds m.mu.
func (m *Manager) newTokenLocked() (string, error) {
	for {
		token, err := gonanoid.Generate(tokenAlphabet, tokenLength)
		if err != nil {
			return "", err
		}
		if _, taken := m.tokens[token]; !taken {
			return token, nil
		}
	}
}

// Get returns the lobby with the given id.
func (m *Manager) Get(id string) (*Lobby, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.lobbies[id]
	if !ok {
		return nil, ErrLobbyNotFound
	}
	return l, nil
}

// GetByToken resolves a join token. Tokens are case-insensitive.
func (m *Manager) GetByToken(token string) (*Lobby, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.tokens[strings.ToLower(token)]
	if !ok {
		return nil, ErrTokenNotFound
	}
	l, ok := m.lobbies[id]
	if !ok {
		return nil, ErrTokenNotFound
	}
	return l, nil
}

// Delete closes and removes a lobby.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	l, ok := m.lobbies[id]
	if ok {
		delete(m.lobbies, id)
		delete(m.tokens, l.Token)
		for sessID, lobbyID := range m.bindings {
			if lobbyID == id {
				delete(m.bindings, sessID)
			}
		}
	}
	m.mu.Unlock()

	if !ok {
		return ErrLobbyNotFound
	}
	l.Close()
	log.Infof("deleted lobby %s", id)
	return nil
}

// Public lists joinable public lobbies.
func (m *Manager) Public() []*Lobby {
	m.mu.Lock()
	all := lo.Values(m.lobbies)
	m.mu.Unlock()

	return lo.Filter(all, func(l *Lobby, _ int) bool {
		return l.Publicity() == model.PublicityPublic && l.State() == model.GameLobby
	})
}

// Len returns the number of live lobbies.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.lobbies)
}

// cleanup removes lobbies whose members have all gone away, then any join
// tokens left pointing nowhere.
func (m *Manager) cleanup() {
	m.mu.Lock()
	var stale []*Lobby
	for id, l := range m.lobbies {
		if !l.Active() {
			stale = append(stale, l)
			delete(m.lobbies, id)
		}
	}
	for token, id := range m.tokens {
		if _, ok := m.lobbies[id]; !ok {
			delete(m.tokens, token)
		}
	}
	m.mu.Unlock()

	for _, l := range stale {
		log.Infof("cleanup: removing abandoned lobby %s", l.ID)
		l.Close()
	}
}

// OnPackage implements socket.Receiver. A CLIENT_HELLO binds the session to
// the lobby it names; everything after is routed over that binding.
func (m *Manager) OnPackage(sessID string, pkg *socket.Package) {
	if pkg.Type == socket.ClientHello {
		m.handleHello(sessID, pkg)
		return
	}
	if pkg.Type == socket.Heartbeat {
		m.handleHeartbeat(sessID, pkg.Data)
		return
	}

	m.mu.Lock()
	lobbyID, bound := m.bindings[sessID]
	m.mu.Unlock()
	if !bound {
		log.Warnf("dropping %s from unbound session %s", pkg.Type, sessID)
		return
	}

	l, err := m.Get(lobbyID)
	if err != nil {
		return
	}
	if err := l.HandlePackage(sessID, pkg); err != nil {
		log.Warnf("lobby %s: package from %s rejected: %v", lobbyID, sessID, err)
	}
}

func (m *Manager) handleHello(sessID string, pkg *socket.Package) {
	idVal, ok := pkg.Data[keys.GameLobbyID]
	if !ok {
		log.Warnf("hello from %s names no lobby", sessID)
		m.hub.Kick(sessID)
		return
	}

	l, err := m.Get(idVal.Str())
	if err != nil {
		log.Warnf("hello from %s names unknown lobby %s", sessID, idVal.Str())
		m.hub.Kick(sessID)
		return
	}

	if err := l.HandleHello(sessID, pkg.Data); err != nil {
		log.Warnf("lobby %s: hello from %s rejected: %v", l.ID, sessID, err)
		m.hub.Kick(sessID)
		return
	}

	m.mu.Lock()
	m.bindings[sessID] = l.ID
	m.mu.Unlock()
}

// handleHeartbeat records client-measured latency if present. The ack
// itself is sent by the hub.
func (m *Manager) handleHeartbeat(sessID string, data values.Values) {
	m.mu.Lock()
	lobbyID, bound := m.bindings[sessID]
	m.mu.Unlock()
	if !bound {
		return
	}

	l, err := m.Get(lobbyID)
	if err != nil {
		return
	}
	l.mu.Lock()
	name, ok := l.names[sessID]
	l.mu.Unlock()
	if !ok {
		return
	}
	if p, found := l.PlayerByName(name); found {
		if v, has := data[keys.PlayerConnectionPing]; has {
			if ping, ok := v.AsInt(); ok {
				p.SetPing(ping)
			}
		}
	}
}

// OnSessionClosed implements socket.Receiver.
func (m *Manager) OnSessionClosed(sessID string) {
	m.mu.Lock()
	lobbyID, bound := m.bindings[sessID]
	delete(m.bindings, sessID)
	m.mu.Unlock()
	if !bound {
		return
	}

	if l, err := m.Get(lobbyID); err == nil {
		l.HandleSessionClosed(sessID)
	}
}
