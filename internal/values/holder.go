package values

import (
	"sync"

	"github.com/yola1107/kratos/v2/library/xgo"
)

// Executor runs dispatch jobs off the caller's goroutine. The lobby wires a
// work.IWorkStore here; the default spawns a goroutine per drain.
type Executor interface {
	Post(job func())
}

type goExecutor struct{}

func (goExecutor) Post(job func()) { go job() }

// Holder owns the replicated state of one entity (a lobby, a player, a
// connection). Notifications that do not change the last-known value are
// dropped; the rest are queued and delivered to listeners one batch at a
// time, in notification order, without blocking the notifier.
type Holder struct {
	mu        sync.Mutex
	state     Values
	listeners []Listener
	exec      Executor

	queue    []Values
	draining bool
}

// NewHolder builds a Holder dispatching on exec. A nil exec falls back to
// goroutine-per-drain, which keeps ordering because a single drain loop owns
// the queue until it is empty.
func NewHolder(exec Executor) *Holder {
	if exec == nil {
		exec = goExecutor{}
	}
	return &Holder{state: make(Values), exec: exec}
}

// AddListener registers l for future changes. It does not replay current
// state; use Snapshot for catch-up.
func (h *Holder) AddListener(l Listener) {
	h.mu.Lock()
	h.listeners = append(h.listeners, l)
	h.mu.Unlock()
}

// RemoveListener unregisters l. Batches already queued may still reach it.
func (h *Holder) RemoveListener(l Listener) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, x := range h.listeners {
		if x == l {
			h.listeners = append(h.listeners[:i], h.listeners[i+1:]...)
			return
		}
	}
}

// Get returns the last-known value for key.
func (h *Holder) Get(key string) (Value, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	v, ok := h.state[key]
	return v, ok
}

// Snapshot copies the full current state.
func (h *Holder) Snapshot() Values {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state.Clone()
}

// NotifyChange replicates a single key.
func (h *Holder) NotifyChange(key string, v Value) {
	h.NotifyChanges(Values{key: v})
}

// NotifyChanges replicates a batch. Keys whose value equals the last-known
// one are dropped; if anything survives it is applied to the state and queued
// for dispatch as one batch. Returns the subset that was actually new.
func (h *Holder) NotifyChanges(in Values) Values {
	h.mu.Lock()
	changed := make(Values, len(in))
	for k, v := range in {
		if old, ok := h.state[k]; ok && old.Equal(v) {
			continue
		}
		h.state[k] = v
		changed[k] = v
	}
	if len(changed) == 0 {
		h.mu.Unlock()
		return nil
	}
	h.queue = append(h.queue, changed)
	if !h.draining {
		h.draining = true
		h.exec.Post(h.drain)
	}
	h.mu.Unlock()
	return changed
}

// drain delivers queued batches serially. Only one drain runs per holder at
// a time, which gives listeners the same order the notifier used.
func (h *Holder) drain() {
	for {
		h.mu.Lock()
		if len(h.queue) == 0 {
			h.draining = false
			h.mu.Unlock()
			return
		}
		batch := h.queue[0]
		h.queue = h.queue[1:]
		ls := make([]Listener, len(h.listeners))
		copy(ls, h.listeners)
		h.mu.Unlock()

		for _, l := range ls {
			h.deliver(l, batch)
		}
	}
}

func (h *Holder) deliver(l Listener, batch Values) {
	defer xgo.RecoverFromError(nil)
	var sub Values
	for k, v := range batch {
		if !l.Filter(k) {
			continue
		}
		if sub == nil {
			sub = make(Values)
		}
		sub[k] = v
	}
	if len(sub) > 0 {
		l.OnValuesChanged(sub)
	}
}
