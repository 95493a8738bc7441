// Package lobby manages game rooms: membership, session binding, inbound
// message routing and the replication of state diffs to clients.
package lobby

import (
	"sort"
	"sync"
	"time"

	"github.com/yola1107/kratos/v2/errors"
	"github.com/yola1107/kratos/v2/log"

	"github.com/yola1107/quizpoker/internal/biz/logic"
	"github.com/yola1107/quizpoker/internal/model"
	"github.com/yola1107/quizpoker/internal/socket"
	"github.com/yola1107/quizpoker/internal/values"
	"github.com/yola1107/quizpoker/pkg/keys"
)

var (
	ErrNameTaken = errors.Conflict("NAME_TAKEN", "a connected player with this name already exists")
)

// Sender is the slice of the socket hub a lobby needs. Tests substitute a
// recorder.
type Sender interface {
	Send(sessID string, typ socket.PackageType, data values.Values, ackTimeout time.Duration, cb socket.SendCallbacks)
	Kick(sessID string)
}

type Lobby struct {
	ID        string
	Token     string
	CreatedAt time.Time

	hub  Sender
	exec values.Executor
	conn model.ConnectionSettings

	holder *values.Holder
	shared *model.GameValues
	logic  *logic.Logic

	mu       sync.Mutex
	settings *model.Settings
	host     string
	players  []*model.Player // 入座顺序
	byName   map[string]*model.Player
	sessions map[string]string // name -> session id
	names    map[string]string // session id -> name
}

// New creates an empty lobby. host is the player name that owns it; the
// host connects through the socket like everyone else.
func New(id, token, host string, conn model.ConnectionSettings, exec values.Executor, repo logic.QuestionRepo, hub Sender) *Lobby {
	l := &Lobby{
		ID:        id,
		Token:     token,
		CreatedAt: time.Now(),
		hub:       hub,
		exec:      exec,
		conn:      conn,
		holder:    values.NewHolder(exec),
		settings:  model.DefaultSettings(),
		host:      host,
		byName:    make(map[string]*model.Player),
		sessions:  make(map[string]string),
		names:     make(map[string]string),
	}
	l.shared = model.NewGameValues(l.holder)
	l.logic = logic.New(id, l.shared, l.settingsCopy, l, repo)

	// Lobby-wide diffs go to every member. The question's answer is held
	// back until the reveal stage.
	l.holder.AddListener(&values.FuncListener{
		Match: values.MatchAll,
		Fn:    l.broadcastShared,
	})
	return l
}

func (l *Lobby) settingsCopy() model.Settings {
	l.mu.Lock()
	defer l.mu.Unlock()
	return *l.settings
}

// Host returns the owning player's name.
func (l *Lobby) Host() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.host
}

// Name returns the configured lobby name.
func (l *Lobby) Name() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.settings.LobbyName
}

// Publicity returns the lobby's visibility setting.
func (l *Lobby) Publicity() model.LobbyPublicity {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.settings.Publicity
}

// State returns the current game state.
func (l *Lobby) State() model.GameState { return l.shared.State() }

// Active reports whether any member still has a live or pending connection.
// The cleanup sweep removes lobbies where this is false.
func (l *Lobby) Active() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, p := range l.players {
		switch p.ConnState() {
		case model.ConnUnknown, model.ConnLost, model.ConnDisconnected:
		default:
			return true
		}
	}
	return false
}

// Connect registers a player name. Reconnects under the same name are
// allowed while the previous connection is gone; joining a running game is
// subject to the late join policy.
func (l *Lobby) Connect(name string) (*model.Player, error) {
	l.mu.Lock()

	if p, ok := l.byName[name]; ok {
		if p.ConnState().Online() || p.ConnState() == model.ConnConnecting {
			l.mu.Unlock()
			return nil, ErrNameTaken
		}
		l.mu.Unlock()
		p.SetConnState(model.ConnConnecting)
		return p, nil
	}

	st := *l.settings
	p := model.NewPlayer(name, l.exec)
	p.SetConnState(model.ConnConnecting)
	p.SetScore(l.lateJoinScoreLocked(st))
	p.Holder().AddListener(&values.FuncListener{
		Match: values.MatchPrefix(keys.PlayerPrefix),
		Fn:    func(changed values.Values) { l.broadcastPlayer(p, changed) },
	})

	l.players = append(l.players, p)
	l.byName[name] = p
	l.mu.Unlock()

	log.Infof("lobby %s: player %s joined", l.ID, name)
	return p, nil
}

// lateJoinScoreLocked picks the score a late joiner starts with.
func (l *Lobby) lateJoinScoreLocked(st model.Settings) int64 {
	if l.shared.State().Joinable() || len(l.players) == 0 {
		return st.DefaultStartScore
	}

	scores := make([]int64, 0, len(l.players))
	for _, p := range l.players {
		if !p.IsQuizmaster() {
			scores = append(scores, p.Score())
		}
	}
	if len(scores) == 0 {
		return st.DefaultStartScore
	}

	switch st.LateJoinBehaviour {
	case model.LateJoinMinScore:
		min := scores[0]
		for _, s := range scores[1:] {
			if s < min {
				min = s
			}
		}
		return min
	case model.LateJoinAvgScore:
		var sum int64
		for _, s := range scores {
			sum += s
		}
		return sum / int64(len(scores))
	case model.LateJoinMedianScore:
		sort.Slice(scores, func(i, j int) bool { return scores[i] < scores[j] })
		return scores[len(scores)/2]
	default:
		return st.DefaultStartScore
	}
}

// Players implements logic.Hooks.
func (l *Lobby) Players() []*model.Player {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*model.Player(nil), l.players...)
}

// PlayerByName looks a member up.
func (l *Lobby) PlayerByName(name string) (*model.Player, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, ok := l.byName[name]
	return p, ok
}

// Broadcast implements logic.Hooks. The payload is already lobby-scoped.
func (l *Lobby) Broadcast(msg values.Values) {
	for _, sessID := range l.sessionIDs() {
		l.hub.Send(sessID, socket.ServerBroadcast, msg, 0, socket.SendCallbacks{})
	}
}

// PlayerMessage implements logic.Hooks: a reliable message to one player.
func (l *Lobby) PlayerMessage(p *model.Player, msg values.Values) {
	l.mu.Lock()
	sessID, ok := l.sessions[p.Name()]
	l.mu.Unlock()
	if !ok {
		return
	}
	l.hub.Send(sessID, socket.ServerMsg, msg, 0, socket.SendCallbacks{})
}

// Disconnect implements logic.Hooks. Used by timeout and broke policies.
func (l *Lobby) Disconnect(p *model.Player) {
	l.mu.Lock()
	sessID, ok := l.sessions[p.Name()]
	l.mu.Unlock()

	p.SetConnState(model.ConnDisconnected)
	if ok {
		l.hub.Kick(sessID)
	}
}

// ReturnToLobby implements logic.Hooks: reset for the next game.
func (l *Lobby) ReturnToLobby() {
	st := l.settingsCopy()

	l.shared.SetState(model.GameLobby)
	l.shared.SetCurrentPlayer("")
	l.shared.SetCurrentBid(0)
	l.shared.SetRound(0)
	l.shared.SetQuestion(nil)
	l.shared.ClearHints()

	for _, p := range l.Players() {
		p.ResetRound()
		p.SetScore(st.DefaultStartScore)
		if !p.IsQuizmaster() {
			p.SetRole(model.RoleDefault)
		}
	}
	log.Infof("lobby %s: returned to lobby state", l.ID)
}

// broadcastShared replicates lobby-level diffs. Recipients never see the
// running question's answer before the reveal stage.
func (l *Lobby) broadcastShared(changed values.Values) {
	if _, ok := changed[keys.GamePokerQuestionAnswer]; ok && !l.logic.AnswerRevealed() {
		changed = changed.Clone()
		delete(changed, keys.GamePokerQuestionAnswer)
		if len(changed) == 0 {
			return
		}
	}
	l.Broadcast(changed)
}

// broadcastPlayer replicates one player's diffs, tagged with the name so
// clients can attribute them. Unrevealed guesses stay private.
func (l *Lobby) broadcastPlayer(p *model.Player, changed values.Values) {
	if _, ok := changed[keys.PlayerPokerAnswer]; ok && !p.Revealed() {
		changed = changed.Clone()
		delete(changed, keys.PlayerPokerAnswer)
		if len(changed) == 0 {
			return
		}
	}
	msg := changed.Clone()
	msg[keys.GamePlayerName] = values.String(p.Name())
	l.Broadcast(msg)
}

func (l *Lobby) sessionIDs() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	ids := make([]string, 0, len(l.sessions))
	for _, id := range l.sessions {
		ids = append(ids, id)
	}
	return ids
}

// Snapshot assembles the complete lobby view a joining client needs.
func (l *Lobby) Snapshot() values.Values {
	snap := values.Values{keys.GameLobbyID: values.String(l.ID)}

	l.mu.Lock()
	st := *l.settings
	l.mu.Unlock()

	snap.Merge(st.Values())
	snap.Merge(l.conn.Values())
	snap.Merge(l.holder.Snapshot())

	if !l.logic.AnswerRevealed() {
		delete(snap, keys.GamePokerQuestionAnswer)
	}
	return snap
}

// playerSnapshots returns one message per member with their public state.
func (l *Lobby) playerSnapshots() []values.Values {
	var out []values.Values
	for _, p := range l.Players() {
		vs := p.Holder().Snapshot()
		if !p.Revealed() {
			delete(vs, keys.PlayerPokerAnswer)
		}
		vs[keys.GamePlayerName] = values.String(p.Name())
		out = append(out, vs)
	}
	return out
}

// Close kicks every live session. Called when the lobby is deleted.
func (l *Lobby) Close() {
	l.logic.FinishGame()
	for _, sessID := range l.sessionIDs() {
		l.hub.Kick(sessID)
	}
}
