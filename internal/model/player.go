package model

import (
	"sync"

	"github.com/yola1107/quizpoker/internal/values"
	"github.com/yola1107/quizpoker/pkg/keys"
)

// Player is one participant of a lobby. Every mutation goes through a setter
// so the change is replicated via the player's own value holder; the lobby
// listens there and rebroadcasts diffs tagged with the player name.
type Player struct {
	holder *values.Holder

	mu        sync.RWMutex
	name      string          // 玩家名,大厅内唯一
	connState ConnectionState // 连接状态
	ping      int64           // 最近一次心跳延迟(ms)
	role      PlayerRole      // 本回合角色
	score     int64           // 剩余分数
	answer    int64           // 本回合答案
	answered  bool            // 是否已作答
	revealed  bool            // 答案是否已公开
	pot       int64           // 本回合已投入
	folded    bool            // 是否弃牌
}

func NewPlayer(name string, exec values.Executor) *Player {
	p := &Player{
		holder:    values.NewHolder(exec),
		name:      name,
		connState: ConnUnknown,
		ping:      -1,
		role:      RoleDefault,
		answer:    -1,
	}
	return p
}

// Holder exposes the player's replication holder for listener registration.
func (p *Player) Holder() *values.Holder { return p.holder }

func (p *Player) Name() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.name
}

func (p *Player) ConnState() ConnectionState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.connState
}

func (p *Player) Role() PlayerRole {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.role
}

func (p *Player) Score() int64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.score
}

func (p *Player) Pot() int64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.pot
}

func (p *Player) Folded() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.folded
}

func (p *Player) Revealed() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.revealed
}

// Answer returns the current guess; ok is false before the player answered.
func (p *Player) Answer() (int64, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.answer, p.answered
}

// IsQuizmaster reports whether the player paces the round instead of
// bidding in it.
func (p *Player) IsQuizmaster() bool { return p.Role() == RoleQuizmaster }

func (p *Player) SetConnState(s ConnectionState) {
	p.mu.Lock()
	p.connState = s
	p.mu.Unlock()
	p.holder.NotifyChange(keys.PlayerConnectionState, values.String(string(s)))
}

func (p *Player) SetPing(ms int64) {
	p.mu.Lock()
	p.ping = ms
	p.mu.Unlock()
	p.holder.NotifyChange(keys.PlayerConnectionPing, values.Int(ms))
}

func (p *Player) SetRole(r PlayerRole) {
	p.mu.Lock()
	p.role = r
	p.mu.Unlock()
	p.holder.NotifyChange(keys.PlayerPokerRole, values.String(string(r)))
}

func (p *Player) SetScore(score int64) {
	p.mu.Lock()
	p.score = score
	p.mu.Unlock()
	p.holder.NotifyChange(keys.PlayerPokerScore, values.Int(score))
}

// AddScore adjusts the score by delta and returns the new value.
func (p *Player) AddScore(delta int64) int64 {
	p.mu.Lock()
	p.score += delta
	score := p.score
	p.mu.Unlock()
	p.holder.NotifyChange(keys.PlayerPokerScore, values.Int(score))
	return score
}

func (p *Player) SetAnswer(answer int64) {
	p.mu.Lock()
	p.answer = answer
	p.answered = true
	p.mu.Unlock()
	p.holder.NotifyChange(keys.PlayerPokerAnswer, values.Int(answer))
}

// ClearAnswer resets the guess between rounds. The cleared state replicates
// as -1, matching what clients expect for "no answer yet".
func (p *Player) ClearAnswer() {
	p.mu.Lock()
	p.answer = -1
	p.answered = false
	p.mu.Unlock()
	p.holder.NotifyChange(keys.PlayerPokerAnswer, values.Int(-1))
}

func (p *Player) SetRevealed(revealed bool) {
	p.mu.Lock()
	p.revealed = revealed
	p.mu.Unlock()
	p.holder.NotifyChange(keys.PlayerPokerRevealed, values.Bool(revealed))
}

func (p *Player) SetPot(pot int64) {
	p.mu.Lock()
	p.pot = pot
	p.mu.Unlock()
	p.holder.NotifyChange(keys.PlayerPokerPot, values.Int(pot))
}

func (p *Player) SetFolded(folded bool) {
	p.mu.Lock()
	p.folded = folded
	p.mu.Unlock()
	p.holder.NotifyChange(keys.PlayerPokerFolded, values.Bool(folded))
}

// ResetRound clears the per-round state before a new question starts. Roles
// are not touched here; the round start reassigns blinds and the quizmaster
// keeps their seat across rounds.
func (p *Player) ResetRound() {
	p.ClearAnswer()
	p.SetRevealed(false)
	p.SetPot(0)
	p.SetFolded(false)
}
