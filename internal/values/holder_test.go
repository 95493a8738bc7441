package values

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// inlineExec runs jobs on the calling goroutine so tests see dispatch
// results synchronously.
type inlineExec struct{}

func (inlineExec) Post(job func()) { job() }

type recordListener struct {
	mu      sync.Mutex
	match   FilterFunc
	batches []Values
}

func (l *recordListener) Filter(key string) bool { return l.match(key) }

func (l *recordListener) OnValuesChanged(changed Values) {
	l.mu.Lock()
	l.batches = append(l.batches, changed)
	l.mu.Unlock()
}

func TestHolderDedup(t *testing.T) {
	h := NewHolder(inlineExec{})
	l := &recordListener{match: MatchAll}
	h.AddListener(l)

	changed := h.NotifyChange("Player.Poker.Pot", Int(50))
	require.Len(t, changed, 1)

	// Same value again must be dropped entirely.
	changed = h.NotifyChange("Player.Poker.Pot", Int(50))
	assert.Nil(t, changed)
	assert.Len(t, l.batches, 1)

	// New value goes through.
	changed = h.NotifyChange("Player.Poker.Pot", Int(100))
	require.Len(t, changed, 1)
	assert.Len(t, l.batches, 2)

	v, ok := h.Get("Player.Poker.Pot")
	require.True(t, ok)
	assert.Equal(t, int64(100), v.Int())
}

func TestHolderBatchFiltersUnchangedKeys(t *testing.T) {
	h := NewHolder(inlineExec{})
	l := &recordListener{match: MatchAll}
	h.AddListener(l)

	h.NotifyChanges(Values{
		"Game.Poker.State": String("START"),
		"Game.Poker.Round": Int(1),
	})
	require.Len(t, l.batches, 1)

	// Half the batch is stale; only the fresh half is delivered.
	changed := h.NotifyChanges(Values{
		"Game.Poker.State": String("GUESSING"),
		"Game.Poker.Round": Int(1),
	})
	require.Len(t, changed, 1)
	require.Len(t, l.batches, 2)
	assert.Contains(t, l.batches[1], "Game.Poker.State")
	assert.NotContains(t, l.batches[1], "Game.Poker.Round")
}

func TestHolderOrderPreserved(t *testing.T) {
	h := NewHolder(inlineExec{})
	l := &recordListener{match: MatchKey("Game.Poker.CurrentBid")}
	h.AddListener(l)

	for i := 1; i <= 20; i++ {
		h.NotifyChange("Game.Poker.CurrentBid", Int(int64(i*100)))
	}

	require.Len(t, l.batches, 20)
	for i, b := range l.batches {
		assert.Equal(t, int64((i+1)*100), b["Game.Poker.CurrentBid"].Int())
	}
}

func TestHolderPrefixListener(t *testing.T) {
	h := NewHolder(inlineExec{})
	l := &recordListener{match: MatchPrefix("Action.Player")}
	h.AddListener(l)

	h.NotifyChanges(Values{
		"Action.Player.Raise":   Int(200),
		"Action.Host.StartGame": Bool(true),
	})

	require.Len(t, l.batches, 1)
	assert.Len(t, l.batches[0], 1)
	assert.Contains(t, l.batches[0], "Action.Player.Raise")
}

func TestHolderListenerPanicDoesNotStopDispatch(t *testing.T) {
	h := NewHolder(inlineExec{})
	h.AddListener(&FuncListener{Match: MatchAll, Fn: func(Values) { panic("boom") }})
	l := &recordListener{match: MatchAll}
	h.AddListener(l)

	h.NotifyChange("Game.Poker.Round", Int(2))

	require.Len(t, l.batches, 1)
}

func TestValueEquality(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		eq   bool
	}{
		{"same int", Int(5), Int(5), true},
		{"diff int", Int(5), Int(6), false},
		{"cross kind", Int(1), String("1"), false},
		{"same bool", Bool(true), Bool(true), true},
		{"zero vs zero", Value{}, Value{}, true},
		{"zero vs valid", Value{}, String(""), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.eq, tt.a.Equal(tt.b))
		})
	}
}

func TestMatchPrefixBoundary(t *testing.T) {
	m := MatchPrefix("Action.Player")
	assert.True(t, m("Action.Player"))
	assert.True(t, m("Action.Player.Fold"))
	assert.False(t, m("Action.PlayerX.Fold"))
	assert.False(t, m("Action.Host.StartGame"))
}
