package socket

import (
	"sync"
	"time"

	"github.com/yola1107/kratos/v2/log"
)

// Scheduler is the slice of work.IWorkStore the socket layer needs: a task
// pool and cancellable one-shot timers.
type Scheduler interface {
	Post(job func())
	Once(delay time.Duration, f func()) int64
	Cancel(taskID int64)
}

// pendingAck is one outbound package waiting for its acknowledgement.
type pendingAck struct {
	id       int64
	sessID   string
	ackType  PackageType
	timerID  int64
	onAck    func()
	onFailed func()
}

// ackRegistry tracks outbound packages until the peer acknowledges them or
// the timeout fires. There is no automatic retry; callers decide what a
// failed acknowledgement means.
type ackRegistry struct {
	mu      sync.Mutex
	pending map[int64]*pendingAck
	ws      Scheduler
}

func newAckRegistry(ws Scheduler) *ackRegistry {
	return &ackRegistry{
		pending: make(map[int64]*pendingAck),
		ws:      ws,
	}
}

// track registers a pending acknowledgement and arms its timeout. The timer
// id is stored before the entry becomes visible, so a racing resolve always
// cancels the armed timer and never id zero.
func (r *ackRegistry) track(id int64, sessID string, ackType PackageType, timeout time.Duration, onAck, onFailed func()) {
	p := &pendingAck{
		id:       id,
		sessID:   sessID,
		ackType:  ackType,
		onAck:    onAck,
		onFailed: onFailed,
	}
	r.mu.Lock()
	p.timerID = r.ws.Once(timeout, func() { r.fail(id) })
	r.pending[id] = p
	r.mu.Unlock()
}

// resolve completes the pending entry for id if the ack type matches.
// Returns true exactly once per tracked id.
func (r *ackRegistry) resolve(id int64, ackType PackageType) bool {
	r.mu.Lock()
	p, ok := r.pending[id]
	if ok && p.ackType != ackType {
		log.Warnf("ack id=%d type mismatch: want %s got %s", id, p.ackType, ackType)
		ok = false
		p = nil
	}
	if ok {
		delete(r.pending, id)
	}
	r.mu.Unlock()

	if !ok {
		return false
	}
	r.ws.Cancel(p.timerID)
	if p.onAck != nil {
		r.ws.Post(p.onAck)
	}
	return true
}

// fail drops the pending entry for id and fires its failure callback. The
// timer is cancelled as well; on a send error it has not fired yet.
func (r *ackRegistry) fail(id int64) {
	r.mu.Lock()
	p, ok := r.pending[id]
	if ok {
		delete(r.pending, id)
	}
	r.mu.Unlock()

	if !ok {
		return
	}
	r.ws.Cancel(p.timerID)
	if p.onFailed != nil {
		r.ws.Post(p.onFailed)
	}
}

// failSession fails every pending acknowledgement of a closed session. A
// peer that is gone can never ack.
func (r *ackRegistry) failSession(sessID string) {
	r.mu.Lock()
	var failed []*pendingAck
	for id, p := range r.pending {
		if p.sessID == sessID {
			delete(r.pending, id)
			failed = append(failed, p)
		}
	}
	r.mu.Unlock()

	for _, p := range failed {
		r.ws.Cancel(p.timerID)
		if p.onFailed != nil {
			r.ws.Post(p.onFailed)
		}
	}
}
