package logic

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yola1107/quizpoker/internal/model"
	"github.com/yola1107/quizpoker/internal/values"
)

type inlineExec struct{}

func (inlineExec) Post(job func()) { job() }

type fakeHooks struct {
	players      []*model.Player
	broadcasts   []values.Values
	messages     []values.Values
	disconnected []*model.Player
	returned     bool
}

func (f *fakeHooks) Players() []*model.Player { return f.players }

func (f *fakeHooks) Broadcast(msg values.Values) { f.broadcasts = append(f.broadcasts, msg) }

func (f *fakeHooks) PlayerMessage(_ *model.Player, msg values.Values) {
	f.messages = append(f.messages, msg)
}

func (f *fakeHooks) Disconnect(p *model.Player) {
	f.disconnected = append(f.disconnected, p)
	p.SetConnState(model.ConnDisconnected)
}

func (f *fakeHooks) ReturnToLobby() { f.returned = true }

type fakeRepo struct {
	questions []*model.Question
	next      int
}

func (f *fakeRepo) Query(*model.QuestionQuery) ([]*model.Question, error) {
	if f.next >= len(f.questions) {
		return nil, nil
	}
	q := f.questions[f.next]
	f.next++
	return []*model.Question{q}, nil
}

func newTestLogic(t *testing.T, st model.Settings, names ...string) (*Logic, *fakeHooks) {
	t.Helper()

	hooks := &fakeHooks{}
	for _, name := range names {
		p := model.NewPlayer(name, inlineExec{})
		p.SetConnState(model.ConnConnected)
		p.SetScore(st.DefaultStartScore)
		hooks.players = append(hooks.players, p)
	}

	shared := model.NewGameValues(values.NewHolder(inlineExec{}))
	l := New("test", shared, func() model.Settings { return st }, hooks, &fakeRepo{})

	l.mu.Lock()
	l.order = hooks.players
	l.mu.Unlock()
	l.refreshOrder(false)
	return l, hooks
}

func TestBlindsForLevel(t *testing.T) {
	st := *model.DefaultSettings()
	st.BlindLevels = []model.BlindLevel{{Small: 50, Big: 100}, {Small: 100, Big: 200}}
	l, _ := newTestLogic(t, st, "a", "b")

	tests := []struct {
		level int
		small int64
		big   int64
	}{
		{0, 50, 100},
		{1, 100, 200},
		{2, 200, 400},  // past the table, one doubling
		{4, 800, 1600}, // three doublings
		{-5, 50, 100},  // clamped low
	}
	for _, tc := range tests {
		small, big := l.blindsForLevel(tc.level)
		assert.Equal(t, tc.small, small, "level %d", tc.level)
		assert.Equal(t, tc.big, big, "level %d", tc.level)
	}
}

func TestStartStagePostsBlinds(t *testing.T) {
	st := *model.DefaultSettings()
	st.DefaultStartScore = 5000
	st.BlindLevels = []model.BlindLevel{{Small: 50, Big: 100}}
	l, hooks := newTestLogic(t, st, "p1", "p2")
	l.shared.SetState(model.GameStarting)
	l.shared.SetBlinds(50, 100)

	resume := l.runStartStage()
	require.True(t, resume)

	p1, p2 := hooks.players[0], hooks.players[1]
	assert.Equal(t, model.RoleSmallBlind, p1.Role())
	assert.Equal(t, model.RoleBigBlind, p2.Role())
	assert.Equal(t, int64(50), p1.Pot())
	assert.Equal(t, int64(100), p2.Pot())
	assert.Equal(t, int64(4950), p1.Score())
	assert.Equal(t, int64(4900), p2.Score())
	assert.Equal(t, int64(100), l.shared.CurrentBid())
	assert.Equal(t, 1, l.shared.Round())
	assert.Equal(t, model.GameQuestion, l.shared.State())
}

func TestStartStageRotatesDealer(t *testing.T) {
	st := *model.DefaultSettings()
	st.DefaultStartScore = 5000
	l, hooks := newTestLogic(t, st, "p1", "p2", "p3")
	l.shared.SetState(model.GameStarting)
	l.shared.SetBlinds(50, 100)

	require.True(t, l.runStartStage())
	assert.Equal(t, model.RoleSmallBlind, hooks.players[0].Role())

	require.True(t, l.runStartStage())
	assert.Equal(t, model.RoleSmallBlind, hooks.players[1].Role())
	assert.Equal(t, model.RoleBigBlind, hooks.players[2].Role())
	assert.Equal(t, model.RoleDefault, hooks.players[0].Role())

	// Wraps back around the table.
	require.True(t, l.runStartStage())
	require.True(t, l.runStartStage())
	assert.Equal(t, model.RoleSmallBlind, hooks.players[0].Role())
}

func TestStartStageSinglePlayerStops(t *testing.T) {
	st := *model.DefaultSettings()
	st.DefaultStartScore = 5000
	l, _ := newTestLogic(t, st, "solo")
	l.shared.SetState(model.GameStarting)
	l.shared.SetBlinds(50, 100)

	assert.False(t, l.runStartStage())
}

func TestProcessBidRejectsUnderCall(t *testing.T) {
	st := *model.DefaultSettings()
	st.DefaultStartScore = 5000
	l, hooks := newTestLogic(t, st, "p1", "p2")
	l.shared.SetCurrentBid(200)

	p := hooks.players[0]
	l.ProcessBid(p, 100)
	assert.Equal(t, int64(0), p.Pot(), "under-call must be ignored")

	l.ProcessBid(p, 300)
	assert.Equal(t, int64(300), p.Pot())
	assert.Equal(t, int64(4700), p.Score())
	assert.Equal(t, int64(300), l.shared.CurrentBid(), "raise moves the call line")
}

func TestProcessBidAllInBelowCall(t *testing.T) {
	st := *model.DefaultSettings()
	st.DefaultStartScore = 5000
	l, hooks := newTestLogic(t, st, "p1", "p2")
	l.shared.SetCurrentBid(200)

	p := hooks.players[0]
	p.SetScore(80)
	l.ProcessBid(p, 200)
	assert.Equal(t, int64(80), p.Pot(), "all-in below the call line is accepted")
	assert.Equal(t, int64(0), p.Score())
	assert.Equal(t, int64(200), l.shared.CurrentBid())
}

func TestPayPotSplitsEvenlyWithRemainder(t *testing.T) {
	st := *model.DefaultSettings()
	st.DefaultStartScore = 0
	l, hooks := newTestLogic(t, st, "p1", "p2", "p3")

	p1, p2, folded := hooks.players[0], hooks.players[1], hooks.players[2]
	p1.SetPot(100)
	p2.SetPot(100)
	folded.SetPot(51)
	for _, p := range hooks.players {
		p.SetScore(0)
	}

	// p1 and p2 tie; the folded player only feeds the pot.
	scores := []scoredPlayer{
		{diff: 1, player: p1},
		{diff: 1, player: p2},
	}
	paid := l.payPot(scores)

	require.Len(t, paid, 2)
	// 251 split two ways; the odd chip goes to the first winner paid.
	assert.Equal(t, int64(126), p2.Score())
	assert.Equal(t, int64(125), p1.Score())
	assert.Equal(t, int64(0), folded.Score())
	for _, p := range hooks.players {
		assert.Equal(t, int64(0), p.Pot())
	}
}

func TestPayPotSidePot(t *testing.T) {
	st := *model.DefaultSettings()
	st.DefaultStartScore = 0
	l, hooks := newTestLogic(t, st, "short", "mid", "deep")

	short, mid, deep := hooks.players[0], hooks.players[1], hooks.players[2]
	short.SetPot(50)
	mid.SetPot(200)
	deep.SetPot(200)
	for _, p := range hooks.players {
		p.SetScore(0)
	}

	// Best guess is the short stack, then mid, then deep.
	scores := []scoredPlayer{
		{diff: 90, player: deep},
		{diff: 10, player: mid},
		{diff: 1, player: short},
	}
	l.payPot(scores)

	// Short wins the main pot (3 x 50), mid wins the side pot (2 x 150).
	assert.Equal(t, int64(150), short.Score())
	assert.Equal(t, int64(300), mid.Score())
	assert.Equal(t, int64(0), deep.Score())
}

func TestPayPotSweepsDeadChipsAboveWinnerStake(t *testing.T) {
	st := *model.DefaultSettings()
	st.DefaultStartScore = 0
	l, hooks := newTestLogic(t, st, "win", "fold")

	win, folded := hooks.players[0], hooks.players[1]
	win.SetPot(50)
	folded.SetPot(100)

	// The folded stake exceeds the only winner's own entry; the excess must
	// still land in someone's stack.
	paid := l.payPot([]scoredPlayer{{diff: 1, player: win}})

	require.Len(t, paid, 1)
	assert.Equal(t, int64(150), win.Score())
	assert.Equal(t, int64(0), folded.Pot())
	assert.Equal(t, int64(0), win.Pot())
}

func TestBiddingCompleteSingleLivePlayer(t *testing.T) {
	st := *model.DefaultSettings()
	st.DefaultStartScore = 5000
	l, hooks := newTestLogic(t, st, "p1", "p2", "p3")
	l.shared.SetCurrentBid(100)

	hooks.players[1].SetFolded(true)
	hooks.players[2].SetFolded(true)
	assert.True(t, l.biddingComplete(), "one live player ends the sub-round")
}

func TestBiddingCompleteRequiresAction(t *testing.T) {
	st := *model.DefaultSettings()
	st.DefaultStartScore = 5000
	l, hooks := newTestLogic(t, st, "p1", "p2")
	l.shared.SetCurrentBid(100)

	for _, p := range hooks.players {
		p.SetPot(100)
	}
	assert.False(t, l.biddingComplete(), "nobody has acted yet")

	l.mu.Lock()
	for _, p := range hooks.players {
		l.participants[p] = true
	}
	l.mu.Unlock()
	assert.True(t, l.biddingComplete())
}

func TestWaitForAcknowledgeTimeoutAutoFold(t *testing.T) {
	st := *model.DefaultSettings()
	st.DefaultStartScore = 5000
	st.TimeoutMs = 20
	st.TimeoutStrategy = model.TimeoutAutoFold
	l, hooks := newTestLogic(t, st, "p1", "p2")

	p := hooks.players[0]
	l.shared.SetCurrentPlayer(p.Name())
	l.waitForAcknowledge(p, func() {})

	assert.True(t, p.Folded())
}

func TestWaitForAcknowledgeReleasedByAction(t *testing.T) {
	st := *model.DefaultSettings()
	st.DefaultStartScore = 5000
	st.TimeoutMs = 5_000
	l, hooks := newTestLogic(t, st, "p1", "p2")

	p := hooks.players[0]
	l.shared.SetCurrentPlayer(p.Name())
	p.SetPot(0)
	l.shared.SetCurrentBid(0)

	go func() {
		time.Sleep(10 * time.Millisecond)
		l.AcknowledgeCheck(p)
	}()

	start := time.Now()
	l.waitForAcknowledge(p, func() {})
	assert.Less(t, time.Since(start), time.Second)
	assert.False(t, p.Folded())
}

func TestWaitForAcknowledgeDisconnectReleases(t *testing.T) {
	st := *model.DefaultSettings()
	st.DefaultStartScore = 5000
	st.TimeoutMs = 5_000
	l, hooks := newTestLogic(t, st, "p1", "p2")

	p := hooks.players[0]
	l.shared.SetCurrentPlayer(p.Name())

	go func() {
		time.Sleep(10 * time.Millisecond)
		p.SetConnState(model.ConnDisconnected)
	}()

	start := time.Now()
	l.waitForAcknowledge(p, func() {})
	assert.Less(t, time.Since(start), time.Second)
}

func TestWaitForAcknowledgeSkipsGonePlayer(t *testing.T) {
	st := *model.DefaultSettings()
	st.DefaultStartScore = 5000
	st.TimeoutMs = 5_000
	st.QuizmasterForceAdvance = false
	l, hooks := newTestLogic(t, st, "qm", "p2")

	qm := hooks.players[0]
	qm.SetRole(model.RoleQuizmaster)
	qm.SetConnState(model.ConnDisconnected)
	l.shared.SetCurrentPlayer(qm.Name())

	// Already gone before the wait starts; the stage must not stall on a
	// state change that will never come.
	start := time.Now()
	l.waitForAcknowledge(qm, func() {})
	assert.Less(t, time.Since(start), time.Second)
}

func TestRefreshOrderDropsBrokeAndQuizmaster(t *testing.T) {
	st := *model.DefaultSettings()
	st.DefaultStartScore = 5000
	l, hooks := newTestLogic(t, st, "p1", "p2", "qm", "broke")

	hooks.players[2].SetRole(model.RoleQuizmaster)
	hooks.players[3].SetScore(0)
	l.refreshOrder(false)

	l.mu.Lock()
	order := l.order
	l.mu.Unlock()
	require.Len(t, order, 2)
	assert.Equal(t, "p1", order[0].Name())
	assert.Equal(t, "p2", order[1].Name())
}

func TestRefreshOrderRaisesBlindsOnDropout(t *testing.T) {
	st := *model.DefaultSettings()
	st.DefaultStartScore = 5000
	st.BlindRaiseStrategy = model.BlindsOnDropout
	st.BlindLevels = []model.BlindLevel{{Small: 50, Big: 100}, {Small: 100, Big: 200}}
	l, hooks := newTestLogic(t, st, "p1", "p2", "p3")

	hooks.players[2].SetScore(0)
	l.refreshOrder(true)

	small, big := l.shared.Blinds()
	assert.Equal(t, int64(100), small)
	assert.Equal(t, int64(200), big)
}

func TestPublishRoundResultsWinnerClosestGuess(t *testing.T) {
	st := *model.DefaultSettings()
	st.DefaultStartScore = 0
	st.MaxQuestionCount = -1
	l, hooks := newTestLogic(t, st, "near", "far")

	near, far := hooks.players[0], hooks.players[1]
	near.SetAnswer(95)
	far.SetAnswer(40)
	near.SetPot(100)
	far.SetPot(100)

	l.shared.SetQuestion(&model.Question{ID: 1, Answer: 100, Hints: []string{"h"}})
	l.mu.Lock()
	l.stage = StResults
	l.mu.Unlock()

	resume := l.publishRoundResults()

	assert.Equal(t, int64(200), near.Score())
	assert.Equal(t, int64(0), far.Score())
	assert.Equal(t, model.GamePause, l.shared.State())
	assert.False(t, resume, "only one solvent player left")
	assert.True(t, near.Revealed())
}

func TestPublishRoundResultsFoldedLosesPot(t *testing.T) {
	st := *model.DefaultSettings()
	st.DefaultStartScore = 0
	l, hooks := newTestLogic(t, st, "fold", "stay", "other")

	folded, stay, other := hooks.players[0], hooks.players[1], hooks.players[2]
	folded.SetFolded(true)
	folded.SetPot(50)
	stay.SetPot(100)
	stay.SetAnswer(10)
	other.SetPot(100)
	other.SetAnswer(500)

	l.shared.SetQuestion(&model.Question{ID: 2, Answer: 12})
	l.mu.Lock()
	l.stage = StResults
	l.mu.Unlock()

	l.publishRoundResults()

	assert.Equal(t, int64(250), stay.Score(), "folded chips go to the pot winners")
	assert.Equal(t, int64(0), folded.Score())
	assert.False(t, folded.Revealed())
}

func TestFinishGameBroadcastsWinners(t *testing.T) {
	st := *model.DefaultSettings()
	st.DefaultStartScore = 5000
	l, hooks := newTestLogic(t, st, "low", "high")

	hooks.players[1].SetScore(9000)
	l.FinishGame()

	require.True(t, hooks.returned)
	require.NotEmpty(t, hooks.broadcasts)
	last := hooks.broadcasts[len(hooks.broadcasts)-1]
	assert.Equal(t, "game", last["Game.Poker.Winners.Type"].Str())
	assert.Equal(t, "high", last["Game.Poker.Winners.001.Name"].Str())
}

func TestLatch(t *testing.T) {
	lt := newLatch(2)
	assert.False(t, lt.wait(5*time.Millisecond))

	lt.countDown()
	lt.countDown()
	assert.True(t, lt.wait(5*time.Millisecond))

	lt.countDown() // past zero is a no-op
	assert.Equal(t, 0, lt.remaining())

	forced := newLatch(3)
	forced.release()
	assert.True(t, forced.wait(5*time.Millisecond), "release opens the gate early")
}
