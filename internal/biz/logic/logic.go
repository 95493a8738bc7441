// Package logic drives one quizpoker game: the round stage machine, blind
// ladder, bidding sub-rounds and pot payout. It runs on its own goroutine
// per lobby and blocks on a countdown latch while players act.
package logic

import (
	"math"
	"sync"
	"time"

	"github.com/yola1107/kratos/v2/library/xgo"
	"github.com/yola1107/kratos/v2/log"

	"github.com/yola1107/quizpoker/internal/model"
	"github.com/yola1107/quizpoker/internal/values"
	"github.com/yola1107/quizpoker/pkg/keys"
)

const maxBlindLevel = 1000

// Hooks is what the logic needs from its lobby. Keeping it an interface
// breaks the import cycle and lets tests run the machine without sockets.
type Hooks interface {
	// Players returns all lobby members in join order, quizmaster included.
	Players() []*model.Player
	// Broadcast fans a message out to every connected player.
	Broadcast(msg values.Values)
	// PlayerMessage delivers a reliable message to one player.
	PlayerMessage(p *model.Player, msg values.Values)
	// Disconnect removes a player, e.g. on the KICK timeout policy.
	Disconnect(p *model.Player)
	// ReturnToLobby resets the lobby to its pre-game state.
	ReturnToLobby()
}

// QuestionRepo supplies questions matching the lobby's filters.
type QuestionRepo interface {
	Query(query *model.QuestionQuery) ([]*model.Question, error)
}

// scoredPlayer pairs a player with the distance of their guess to the
// answer. Sorted worst-first for the payout sweep.
type scoredPlayer struct {
	diff   float64
	player *model.Player
}

type Logic struct {
	lobbyID  string
	shared   *model.GameValues
	settings func() model.Settings
	hooks    Hooks
	repo     QuestionRepo

	mu           sync.Mutex
	stage        RoundStage
	order        []*model.Player        // 本局参与玩家(不含出题人)
	startPlayer  *model.Player          // 庄位
	blindLevel   int                    // 盲注等级
	dealersSince []*model.Player        // 自上次升盲后的庄位
	played       map[int64]bool         // 已出过的题
	participants map[*model.Player]bool // 本轮已行动玩家
	quizmaster   *model.Player          // 出题人,可为空
	latch        *latch
}

// New builds the machine for one lobby. settings returns a point-in-time
// copy so the loop never races host edits.
func New(lobbyID string, shared *model.GameValues, settings func() model.Settings, hooks Hooks, repo QuestionRepo) *Logic {
	return &Logic{
		lobbyID:      lobbyID,
		shared:       shared,
		settings:     settings,
		hooks:        hooks,
		repo:         repo,
		played:       make(map[int64]bool),
		participants: make(map[*model.Player]bool),
		latch:        newLatch(0),
	}
}

// Stage returns the current round stage.
func (l *Logic) Stage() RoundStage {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stage
}

// AnswerRevealed reports whether the running question's answer is public.
func (l *Logic) AnswerRevealed() bool {
	return l.Stage().AnswerVisible()
}

// StartGame seeds the player order and launches the game loop.
func (l *Logic) StartGame() {
	log.Infof("lobby %s: starting game", l.lobbyID)
	l.shared.SetState(model.GameStarting)

	l.mu.Lock()
	l.stage = StStart
	l.order = l.hooks.Players()
	l.startPlayer = nil
	l.blindLevel = 0
	l.dealersSince = nil
	l.played = make(map[int64]bool)
	l.quizmaster = nil
	for _, p := range l.order {
		if p.IsQuizmaster() {
			l.quizmaster = p
		}
	}
	l.mu.Unlock()

	l.refreshOrder(false)
	l.applyBlindLevel(0)

	go func() {
		defer xgo.RecoverFromError(nil)
		l.run()
	}()
}

// FinishGame publishes the game winners and resets the lobby. Safe to call
// from outside the loop (host cancel); the current latch is released so a
// blocked wait returns immediately.
func (l *Logic) FinishGame() {
	log.Infof("lobby %s: finishing game", l.lobbyID)
	l.refreshOrder(true)

	l.mu.Lock()
	l.stage = StResults
	order := append([]*model.Player(nil), l.order...)
	lt := l.latch
	l.mu.Unlock()

	var high int64 = math.MinInt64
	var winners []string
	for _, p := range order {
		if s := p.Score(); s > high {
			high = s
			winners = winners[:0]
		}
		if p.Score() == high {
			winners = append(winners, p.Name())
		}
	}

	msg := values.Values{keys.GamePokerWinnersType: values.String("game")}
	msg[keys.GamePokerWinnersN] = values.Int(int64(len(winners)))
	for i, name := range winners {
		msg[keys.WinnerName(i+1)] = values.String(name)
	}
	l.hooks.Broadcast(msg)

	l.hooks.ReturnToLobby()
	lt.release()
}

// IncreaseBlinds advances the blind ladder one level.
func (l *Logic) IncreaseBlinds() {
	l.mu.Lock()
	l.blindLevel = clampInt(l.blindLevel+1, 0, maxBlindLevel)
	level := l.blindLevel
	l.mu.Unlock()
	l.applyBlindLevel(level)
}

// DecreaseBlinds steps the blind ladder one level back.
func (l *Logic) DecreaseBlinds() {
	l.mu.Lock()
	l.blindLevel = clampInt(l.blindLevel-1, 0, maxBlindLevel)
	level := l.blindLevel
	l.mu.Unlock()
	l.applyBlindLevel(level)
}

func (l *Logic) applyBlindLevel(level int) {
	small, big := l.blindsForLevel(level)
	log.Debugf("lobby %s: blinds level %d -> %d/%d", l.lobbyID, level, small, big)
	l.shared.SetBlinds(small, big)
}

// blindsForLevel returns the pair for a level. The first level past the
// configured ladder is the last pair doubled once, then doubled again per
// further level.
func (l *Logic) blindsForLevel(level int) (int64, int64) {
	st := l.settings()
	levels := st.BlindLevels
	if len(levels) == 0 {
		return 0, 0
	}
	level = clampInt(level, 0, maxBlindLevel)
	if level < len(levels) {
		return levels[level].Small, levels[level].Big
	}
	doubling := level - len(levels) + 1
	last := levels[len(levels)-1]
	factor := math.Pow(2, float64(doubling))
	return int64(float64(last.Small) * factor), int64(float64(last.Big) * factor)
}

// ProcessBid applies a voluntary bid. Under-calls are ignored unless the
// player goes all-in.
func (l *Logic) ProcessBid(p *model.Player, amount int64) {
	pot, score := p.Pot(), p.Score()
	potToAdd := clampInt64(amount-pot, 0, score)

	if amount < l.shared.CurrentBid() && potToAdd < score {
		return
	}

	l.applyBid(p, potToAdd)
}

// postBlind places a forced bid. Blinds skip the under-call check, the
// small blind is below the big blind by definition.
func (l *Logic) postBlind(p *model.Player, amount int64) {
	potToAdd := clampInt64(amount-p.Pot(), 0, p.Score())
	l.applyBid(p, potToAdd)
}

func (l *Logic) applyBid(p *model.Player, potToAdd int64) {
	p.SetPot(p.Pot() + potToAdd)
	p.AddScore(-potToAdd)

	if pot := p.Pot(); pot > l.shared.CurrentBid() {
		log.Debugf("lobby %s: %s raises current bid to %d", l.lobbyID, p.Name(), pot)
		l.shared.SetCurrentBid(pot)
	}
}

// AcknowledgeRaise confirms a raise; only valid at or above the call line.
func (l *Logic) AcknowledgeRaise(p *model.Player) {
	if p.Pot() < l.shared.CurrentBid() && p.Score() > 0 {
		return
	}
	l.acknowledge(p)
}

// AcknowledgeCheck confirms a check or call.
func (l *Logic) AcknowledgeCheck(p *model.Player) {
	if p.Pot() < l.shared.CurrentBid() && p.Score() > 0 {
		return
	}
	l.acknowledge(p)
}

// AcknowledgeFold folds the player and passes the turn.
func (l *Logic) AcknowledgeFold(p *model.Player) {
	log.Debugf("lobby %s: %s folds", l.lobbyID, p.Name())
	p.SetFolded(true)
	l.acknowledge(p)
	if l.settings().AnswerRevealStrategy == model.RevealAlways {
		l.RevealAnswer(p)
	}
}

// AcknowledgeWaiting lets the quizmaster confirm a stage transition.
func (l *Logic) AcknowledgeWaiting(p *model.Player) {
	if !p.IsQuizmaster() {
		return
	}
	l.acknowledge(p)
}

// acknowledge releases the wait gate iff p currently holds the turn.
func (l *Logic) acknowledge(p *model.Player) {
	if p.Name() != l.shared.CurrentPlayer() {
		return
	}
	l.currentLatch().countDown()
}

func (l *Logic) currentLatch() *latch {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.latch
}

func (l *Logic) swapLatch(lt *latch) {
	l.mu.Lock()
	l.latch = lt
	l.mu.Unlock()
}

// RevealAnswer publishes a player's guess. Allowed once the round is over
// or for players who are out of it (folded, disconnected).
func (l *Logic) RevealAnswer(p *model.Player) {
	if l.Stage() != StResults && !p.Folded() && p.ConnState() != model.ConnDisconnected {
		return
	}
	p.SetRevealed(true)

	answer, _ := p.Answer()
	l.hooks.Broadcast(values.Values{
		keys.GamePlayerName:    values.String(p.Name()),
		keys.PlayerPokerAnswer: values.Int(answer),
	})
}

// waitForAcknowledge parks the loop until p acts, disconnects or the
// timeout policy decides for them. The quizmaster is exempt from policy.
func (l *Logic) waitForAcknowledge(p *model.Player, preWait func()) {
	lt := newLatch(1)
	l.swapLatch(lt)

	disc := values.OnKey(keys.PlayerConnectionState, func(v values.Value) {
		if model.ConnectionState(v.Str()) == model.ConnDisconnected {
			lt.countDown()
		}
	})
	p.Holder().AddListener(disc)
	defer p.Holder().RemoveListener(disc)

	preWait()

	// Listener only fires on a change; a player gone before the wait began
	// must not hold the stage.
	if p.ConnState() == model.ConnDisconnected {
		lt.countDown()
	}

	st := l.settings()
	log.Debugf("lobby %s: waiting for acknowledge by %s", l.lobbyID, p.Name())

	timeout := time.Duration(st.TimeoutMs) * time.Millisecond
	if p.IsQuizmaster() && !st.QuizmasterForceAdvance {
		// The quizmaster paces the game at will.
		timeout = time.Duration(math.MaxInt64)
	}
	done := lt.wait(timeout)

	if !done && !p.IsQuizmaster() {
		log.Infof("lobby %s: %s timed out, policy %s", l.lobbyID, p.Name(), st.TimeoutStrategy)
		switch st.TimeoutStrategy {
		case model.TimeoutAutoFold:
			l.AcknowledgeFold(p)
		case model.TimeoutAutoCall:
			l.ProcessBid(p, l.shared.CurrentBid())
			l.AcknowledgeCheck(p)
		case model.TimeoutKick:
			l.hooks.Disconnect(p)
		}
	}
}

// run is the game loop. One iteration per stage; the loop ends when a stage
// reports no continuation or the lobby was reset under it.
func (l *Logic) run() {
	for {
		if l.shared.State() == model.GameLobby {
			return
		}

		stage := l.Stage()
		log.Debugf("lobby %s: running stage %s", l.lobbyID, stage)

		var resume bool
		switch stage {
		case StStart:
			resume = l.runStartStage()
		case StGuessing:
			resume = l.runGuessingStage()
		case StPreFlop:
			resume = l.runBiddingStage(false, false)
		case StFlop:
			resume = l.runBiddingStage(true, false)
		case StTurnCard:
			resume = l.runBiddingStage(true, false)
		case StRiverCard:
			resume = l.runBiddingStage(false, true)
		case StResults:
			resume = l.publishRoundResults()
		}

		if l.shared.State() == model.GameLobby {
			return
		}

		if qm := l.quizmasterPlayer(); qm != nil {
			l.waitForAcknowledge(qm, func() {
				l.shared.SetCurrentPlayer(qm.Name())
				l.hooks.PlayerMessage(qm, values.Values{
					keys.QuizmasterStageCurrent: values.String(stage.String()),
					keys.QuizmasterStageNext:    values.String(stage.Next().String()),
				})
			})
		}

		if !resume {
			break
		}
		l.mu.Lock()
		l.stage = stage.Next()
		l.mu.Unlock()
	}

	if l.shared.State() != model.GameLobby {
		l.FinishGame()
	}
}

// runStartStage rotates the dealer, posts blinds and resets round state.
func (l *Logic) runStartStage() bool {
	l.refreshOrder(true)

	l.mu.Lock()
	order := append([]*model.Player(nil), l.order...)
	if len(order) == 0 {
		l.mu.Unlock()
		return false
	}
	startIdx := (indexOf(order, l.startPlayer) + 1) % len(order)
	l.startPlayer = order[startIdx]
	l.stage = StStart
	l.mu.Unlock()

	l.shared.SetState(model.GameQuestion)
	l.shared.SetCurrentBid(0)
	l.shared.SetRound(l.shared.Round() + 1)
	l.shared.ClearHints()
	l.updateBlindsRound()

	bigIdx := (startIdx + 1) % len(order)
	for idx, p := range order {
		p.ResetRound()
		switch {
		case idx == startIdx:
			p.SetRole(model.RoleSmallBlind)
		case idx == bigIdx && len(order) > 1:
			p.SetRole(model.RoleBigBlind)
		default:
			p.SetRole(model.RoleDefault)
		}
	}

	small, big := l.shared.Blinds()
	l.postBlind(order[startIdx], small)
	if len(order) > 1 {
		l.postBlind(order[bigIdx], big)
	}
	l.shared.SetCurrentBid(big)

	log.Infof("lobby %s: round %d started, dealer %s, blinds %d/%d",
		l.lobbyID, l.shared.Round(), order[startIdx].Name(), small, big)

	return len(order) > 1
}

// runGuessingStage deals the next question and collects everyone's guess.
func (l *Logic) runGuessingStage() bool {
	l.mu.Lock()
	order := append([]*model.Player(nil), l.order...)
	lt := newLatch(len(order))
	l.latch = lt
	l.mu.Unlock()

	// One-shot guess listeners. Each removes itself on the first answer.
	cleanups := make([]func(), 0, len(order))
	for _, p := range order {
		p := p
		var listener values.Listener
		listener = &values.FuncListener{
			Match: values.MatchKey(keys.PlayerPokerAnswer),
			Fn: func(values.Values) {
				p.Holder().RemoveListener(listener)
				lt.countDown()
			},
		}
		p.Holder().AddListener(listener)
		cleanups = append(cleanups, func() { p.Holder().RemoveListener(listener) })
	}
	defer func() {
		for _, c := range cleanups {
			c()
		}
	}()

	q := l.pickQuestion()
	if q == nil {
		log.Errorf("lobby %s: no question available, aborting game", l.lobbyID)
		return false
	}
	log.Infof("lobby %s: selected question %d (%s)", l.lobbyID, q.ID, q.Category)
	l.shared.SetQuestion(q)

	st := l.settings()
	lt.wait(time.Duration(st.TimeoutMs) * time.Millisecond)

	if lt.remaining() > 0 {
		for _, p := range order {
			if _, answered := p.Answer(); answered {
				continue
			}
			p.SetAnswer(0)
			switch st.TimeoutStrategy {
			case model.TimeoutAutoFold:
				p.SetFolded(true)
			case model.TimeoutAutoCall:
			case model.TimeoutKick:
				l.hooks.Disconnect(p)
			}
		}
	}

	for _, p := range order {
		if !p.Folded() && p.ConnState() != model.ConnDisconnected {
			return true
		}
	}
	return false
}

// pickQuestion draws a random unplayed question matching the filters.
func (l *Logic) pickQuestion() *model.Question {
	st := l.settings()
	query := &model.QuestionQuery{
		Amount:       1,
		Languages:    st.Languages,
		Categories:   st.Categories,
		Difficulties: st.Difficulties,
	}

	for attempt := 0; attempt < 32; attempt++ {
		qs, err := l.repo.Query(query)
		if err != nil || len(qs) == 0 {
			log.Warnf("lobby %s: question query failed: %v", l.lobbyID, err)
			return nil
		}
		q := qs[0]
		l.mu.Lock()
		seen := l.played[q.ID]
		if !seen {
			l.played[q.ID] = true
		}
		l.mu.Unlock()
		if !seen {
			return q
		}
	}
	return nil
}

// runBiddingStage walks the table until the sub-round settles. hint reveals
// one more hint, answer publishes the solution.
func (l *Logic) runBiddingStage(hint, answer bool) bool {
	q := l.shared.Question()
	if q == nil {
		return false
	}

	if hint {
		shown := l.shared.Hints()
		remaining := make([]string, 0, len(q.Hints))
		for _, h := range q.Hints {
			if !contains(shown, h) {
				remaining = append(remaining, h)
			}
		}
		hintToShow := "N/A"
		if len(remaining) > 0 {
			hintToShow = remaining[xgo.RandInt(0, len(remaining)-1)]
		}
		log.Debugf("lobby %s: showing hint %q", l.lobbyID, hintToShow)
		l.shared.ShowHint(hintToShow)
	}

	if answer {
		log.Debugf("lobby %s: revealing answer", l.lobbyID)
		l.hooks.Broadcast(values.Values{
			keys.GamePokerQuestionAnswer: values.Float(q.Answer),
		})
	}

	l.mu.Lock()
	order := append([]*model.Player(nil), l.order...)
	idx := indexOf(order, l.startPlayer) - 1
	l.participants = make(map[*model.Player]bool)
	l.mu.Unlock()

	if len(order) == 0 {
		return false
	}

	for !l.biddingComplete() {
		idx = ((idx+1)%len(order) + len(order)) % len(order)
		p := order[idx]

		l.waitForAcknowledge(p, func() {
			l.shared.SetCurrentPlayer(p.Name())
			l.mu.Lock()
			l.participants[p] = true
			l.mu.Unlock()

			// Players with nothing left to decide pass automatically.
			if p.Score() == 0 || p.Folded() || p.ConnState() == model.ConnDisconnected {
				l.currentLatch().countDown()
			}
		})

		if l.shared.State() == model.GameLobby {
			return false
		}
	}

	log.Infof("lobby %s: bidding stage complete, bid %d", l.lobbyID, l.shared.CurrentBid())
	return true
}

// biddingComplete is true once every player either matched the bid, folded,
// is all-in or is gone. A sub-round with at most one live player never
// waits for further action.
func (l *Logic) biddingComplete() bool {
	l.mu.Lock()
	order := append([]*model.Player(nil), l.order...)
	participants := make(map[*model.Player]bool, len(l.participants))
	for p := range l.participants {
		participants[p] = true
	}
	l.mu.Unlock()

	live := 0
	for _, p := range order {
		if !p.Folded() && p.ConnState() != model.ConnDisconnected {
			live++
		}
	}
	if live <= 1 {
		return true
	}

	bid := l.shared.CurrentBid()
	for _, p := range order {
		if p.ConnState() == model.ConnDisconnected {
			continue
		}
		if !participants[p] {
			return false
		}
		if !p.Folded() && p.Score() > 0 && p.Pot() != bid {
			return false
		}
	}
	return true
}

// publishRoundResults reveals guesses, pays the pot out and decides whether
// another round follows.
func (l *Logic) publishRoundResults() bool {
	q := l.shared.Question()

	l.mu.Lock()
	order := append([]*model.Player(nil), l.order...)
	l.mu.Unlock()

	scores := make([]scoredPlayer, 0, len(order))
	for _, p := range order {
		if p.Folded() {
			continue
		}
		l.RevealAnswer(p)
		answer, _ := p.Answer()
		diff := 0.0
		if q != nil {
			diff = math.Abs(float64(answer) - q.Answer)
		}
		scores = append(scores, scoredPlayer{diff: diff, player: p})
	}
	// Worst guess first; winners are paid from the back.
	sortScoredDesc(scores)

	paid := l.payPot(scores)
	log.Infof("lobby %s: round %d complete, paid %d players", l.lobbyID, l.shared.Round(), len(paid))

	msg := values.Values{keys.GamePokerWinnersType: values.String("round")}
	msg[keys.GamePokerWinnersN] = values.Int(int64(len(paid)))
	for i, p := range paid {
		msg[keys.WinnerName(i+1)] = values.String(p.Name())
	}
	l.hooks.Broadcast(msg)

	l.shared.SetState(model.GamePause)

	st := l.settings()
	solvent := 0
	for _, p := range order {
		if p.Score() > 0 {
			solvent++
		}
	}
	moreQuestions := st.MaxQuestionCount < 0 || int64(l.shared.Round()) < st.MaxQuestionCount
	return moreQuestions && solvent > 1
}

// payPot sweeps the pot from the best guess outwards. Each winner group is
// paid side-pot style until nothing is left or no winners remain.
func (l *Logic) payPot(scores []scoredPlayer) []*model.Player {
	working := append([]scoredPlayer(nil), scores...)
	var paid []*model.Player
	var lastWinners []*model.Player

	for len(working) > 0 {
		// Winners sit at the end of the worst-first list.
		last := working[len(working)-1]
		working = working[:len(working)-1]
		winners := []*model.Player{last.player}
		for len(working) > 0 && working[len(working)-1].diff == last.diff {
			winners = append(winners, working[len(working)-1].player)
			working = working[:len(working)-1]
		}
		paid = append(paid, winners...)
		lastWinners = winners
		if !l.payOut(winners) {
			return paid
		}
	}

	// Folded stakes above every winner's own entry are still on the table
	// once the winner list is exhausted; they go to the last winner group.
	if len(lastWinners) > 0 {
		l.sweepDeadPot(lastWinners)
	}
	return paid
}

// sweepDeadPot pays whatever is left on the table to winners, remainder to
// the first of them.
func (l *Logic) sweepDeadPot(winners []*model.Player) {
	var toPay int64
	for _, p := range l.hooks.Players() {
		toPay += p.Pot()
		p.SetPot(0)
	}
	if toPay == 0 {
		return
	}

	share := toPay / int64(len(winners))
	remainder := toPay % int64(len(winners))
	for i, w := range winners {
		amount := share
		if i == 0 {
			amount += remainder
		}
		log.Debugf("lobby %s: paying dead pot %d to %s", l.lobbyID, amount, w.Name())
		w.AddScore(amount)
	}
}

// payOut pays one winner group up to the smallest stake among them and
// recurses for winners with pot remaining (side pots). The integer division
// remainder goes to the first winner so no chips vanish. Returns true while
// any pot is left on the table.
func (l *Logic) payOut(winners []*model.Player) bool {
	all := l.hooks.Players()

	minEntry := winners[0].Pot()
	for _, w := range winners[1:] {
		if p := w.Pot(); p < minEntry {
			minEntry = p
		}
	}

	var toPay int64
	for _, p := range all {
		if pot := p.Pot(); pot < minEntry {
			toPay += pot
			p.SetPot(0)
		} else {
			toPay += minEntry
			p.SetPot(pot - minEntry)
		}
	}

	share := toPay / int64(len(winners))
	remainder := toPay % int64(len(winners))
	for i, w := range winners {
		amount := share
		if i == 0 {
			amount += remainder
		}
		log.Debugf("lobby %s: paying %d to %s", l.lobbyID, amount, w.Name())
		w.AddScore(amount)
	}

	var remaining []*model.Player
	for _, w := range winners {
		if w.Pot() > 0 {
			remaining = append(remaining, w)
		}
	}
	if len(remaining) > 0 {
		l.payOut(remaining)
	}

	for _, p := range all {
		if p.Pot() > 0 {
			return true
		}
	}
	return false
}

// refreshOrder drops quizmaster, broke and disconnected players from the
// rotation. raiseBlinds applies the dropout blind strategy.
func (l *Logic) refreshOrder(raiseBlinds bool) {
	st := l.settings()

	l.mu.Lock()
	old := l.order
	var next []*model.Player
	for _, p := range old {
		if !p.IsQuizmaster() && p.Score() > 0 && p.ConnState() != model.ConnDisconnected {
			next = append(next, p)
		}
	}
	l.order = next
	l.mu.Unlock()

	if raiseBlinds && st.BlindRaiseStrategy.RaiseOnDropout() && len(old) >= len(next) {
		for i := 0; i < len(old)-len(next); i++ {
			l.IncreaseBlinds()
		}
	}

	for _, p := range old {
		if indexOf(next, p) >= 0 {
			continue
		}
		log.Debugf("lobby %s: player %s dropped from the rotation", l.lobbyID, p.Name())
		if st.KickWhenBroke && p.Score() <= 0 && p.ConnState() != model.ConnDisconnected && !p.IsQuizmaster() {
			l.hooks.Disconnect(p)
		}
	}
}

// updateBlindsRound raises blinds once every player held the dealer seat.
func (l *Logic) updateBlindsRound() {
	st := l.settings()
	if !st.BlindRaiseStrategy.RaiseOnRounded() {
		return
	}

	l.mu.Lock()
	allDealt := true
	for _, p := range l.order {
		if indexOf(l.dealersSince, p) < 0 {
			allDealt = false
			break
		}
	}
	start := l.startPlayer
	if allDealt {
		l.dealersSince = nil
	}
	l.dealersSince = append(l.dealersSince, start)
	l.mu.Unlock()

	if allDealt {
		l.IncreaseBlinds()
	}
}

func (l *Logic) quizmasterPlayer() *model.Player {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.quizmaster
}

func indexOf(ps []*model.Player, p *model.Player) int {
	for i, x := range ps {
		if x == p {
			return i
		}
	}
	return -1
}

func contains(xs []string, x string) bool {
	for _, s := range xs {
		if s == x {
			return true
		}
	}
	return false
}

// sortScoredDesc orders by diff descending, stable so equal guesses keep
// player order.
func sortScoredDesc(scores []scoredPlayer) {
	for i := 1; i < len(scores); i++ {
		for j := i; j > 0 && scores[j].diff > scores[j-1].diff; j-- {
			scores[j], scores[j-1] = scores[j-1], scores[j]
		}
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt64(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
