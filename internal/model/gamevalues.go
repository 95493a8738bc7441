package model

import (
	"sync"

	"github.com/yola1107/quizpoker/internal/values"
	"github.com/yola1107/quizpoker/pkg/keys"
)

// GameValues is the shared table state of a lobby: whose turn it is, the
// current bid, blinds and the running question. All writes replicate through
// the lobby holder.
type GameValues struct {
	holder *values.Holder

	mu         sync.RWMutex
	state      GameState // 大厅状态
	curPlayer  string    // 当前行动玩家
	curBid     int64     // 当前跟注线
	round      int       // 回合数
	smallBlind int64     // 小盲
	bigBlind   int64     // 大盲
	question   *Question // 当前问题
	hints      []string  // 已公开的提示
}

// NewGameValues binds the table state to the lobby's holder.
func NewGameValues(h *values.Holder) *GameValues {
	return &GameValues{holder: h, state: GameLobby}
}

func (g *GameValues) State() GameState {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

func (g *GameValues) CurrentPlayer() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.curPlayer
}

func (g *GameValues) CurrentBid() int64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.curBid
}

func (g *GameValues) Round() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.round
}

func (g *GameValues) Blinds() (small, big int64) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.smallBlind, g.bigBlind
}

func (g *GameValues) Question() *Question {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.question
}

func (g *GameValues) Hints() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]string, len(g.hints))
	copy(out, g.hints)
	return out
}

func (g *GameValues) SetState(s GameState) {
	g.mu.Lock()
	g.state = s
	g.mu.Unlock()
	g.holder.NotifyChange(keys.GamePokerState, values.String(string(s)))
}

func (g *GameValues) SetCurrentPlayer(name string) {
	g.mu.Lock()
	g.curPlayer = name
	g.mu.Unlock()
	g.holder.NotifyChange(keys.GamePokerCurrentPlayer, values.String(name))
}

func (g *GameValues) SetCurrentBid(bid int64) {
	g.mu.Lock()
	g.curBid = bid
	g.mu.Unlock()
	g.holder.NotifyChange(keys.GamePokerCurrentBid, values.Int(bid))
}

func (g *GameValues) SetRound(round int) {
	g.mu.Lock()
	g.round = round
	g.mu.Unlock()
	g.holder.NotifyChange(keys.GamePokerRound, values.Int(int64(round)))
}

func (g *GameValues) SetBlinds(small, big int64) {
	g.mu.Lock()
	g.smallBlind = small
	g.bigBlind = big
	g.mu.Unlock()
	g.holder.NotifyChanges(values.Values{
		keys.GamePokerBlindsSmall: values.Int(small),
		keys.GamePokerBlindsBig:   values.Int(big),
	})
}

// SetQuestion publishes a new question. The answer key is replicated too;
// the broadcast filter strips it for non-quizmaster recipients.
func (g *GameValues) SetQuestion(q *Question) {
	g.mu.Lock()
	g.question = q
	g.mu.Unlock()

	vs := values.Values{
		keys.GamePokerQuestionID:     values.Int(-1),
		keys.GamePokerQuestionText:   values.String(""),
		keys.GamePokerQuestionUnit:   values.String(""),
		keys.GamePokerQuestionAnswer: values.Float(-1),
	}
	if q != nil {
		vs[keys.GamePokerQuestionID] = values.Int(q.ID)
		vs[keys.GamePokerQuestionText] = values.String(q.Question)
		vs[keys.GamePokerQuestionUnit] = values.String(q.AnswerUnit)
		vs[keys.GamePokerQuestionAnswer] = values.Float(q.Answer)
	}
	g.holder.NotifyChanges(vs)
}

// ShowHint reveals the next hint of the running question.
func (g *GameValues) ShowHint(hint string) {
	g.mu.Lock()
	g.hints = append(g.hints, hint)
	g.mu.Unlock()
	g.notifyHints()
}

// ClearHints drops all revealed hints between rounds.
func (g *GameValues) ClearHints() {
	g.mu.Lock()
	g.hints = nil
	g.mu.Unlock()
	g.notifyHints()
}

func (g *GameValues) notifyHints() {
	g.mu.RLock()
	vs := values.Values{keys.GamePokerQuestionHintN: values.Int(int64(len(g.hints)))}
	for i, h := range g.hints {
		vs[keys.QuestionHint(i+1)] = values.String(h)
	}
	g.mu.RUnlock()
	g.holder.NotifyChanges(vs)
}
