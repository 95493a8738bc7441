package socket

import (
	"sync"
	"time"

	"github.com/yola1107/kratos/v2/log"

	"github.com/yola1107/quizpoker/internal/values"
)

// Receiver consumes inbound packages after the hub handled acknowledge
// bookkeeping. Acks never reach it.
type Receiver interface {
	OnPackage(sessID string, pkg *Package)
	OnSessionClosed(sessID string)
}

// SendCallbacks reports delivery progress of one outbound package. All
// callbacks run on the hub's work pool; any of them may be nil.
type SendCallbacks struct {
	OnSent              func(ok bool)
	OnAcknowledge       func()
	OnAcknowledgeFailed func()
}

// defaultAckTimeout matches how long clients wait before resending.
const defaultAckTimeout = 5 * time.Second

// Hub owns all live sessions and the acknowledge registry. Sending is
// fire-and-forget: callers hand over callbacks and return immediately.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	recv     Receiver

	acks *ackRegistry
}

func NewHub(ws Scheduler) *Hub {
	return &Hub{
		sessions: make(map[string]*Session),
		acks:     newAckRegistry(ws),
	}
}

// SetReceiver wires the inbound sink. Must be called before serving.
func (h *Hub) SetReceiver(r Receiver) {
	h.mu.Lock()
	h.recv = r
	h.mu.Unlock()
}

func (h *Hub) Session(id string) (*Session, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	s, ok := h.sessions[id]
	return s, ok
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Kick force-closes a session, e.g. on a KICK timeout policy.
func (h *Hub) Kick(sessID string) {
	if s, ok := h.Session(sessID); ok {
		s.Close(true)
	}
}

// CloseAll shuts every session down, used on server stop.
func (h *Hub) CloseAll() {
	h.mu.RLock()
	all := make([]*Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		all = append(all, s)
	}
	h.mu.RUnlock()
	for _, s := range all {
		s.Close(false)
	}
}

// Send queues one package to a session. The id and timestamp are assigned
// here. For acknowledged types the registry entry is armed before the frame
// leaves, so a fast peer cannot ack an unknown id. The enqueue happens on
// the caller's goroutine; two Sends from one caller hit the session's send
// queue in call order.
func (h *Hub) Send(sessID string, typ PackageType, data values.Values, ackTimeout time.Duration, cb SendCallbacks) {
	if ackTimeout <= 0 {
		ackTimeout = defaultAckTimeout
	}
	pkg := &Package{
		ID:        nextMsgID(),
		Type:      typ,
		Timestamp: nowMillis(),
		Data:      data,
	}
	ackType, needAck := typ.Ack()
	if needAck {
		h.acks.track(pkg.ID, sessID, ackType, ackTimeout, cb.OnAcknowledge, cb.OnAcknowledgeFailed)
	}

	sess, ok := h.Session(sessID)
	if !ok || sess.SendPackage(pkg) != nil {
		if needAck {
			h.acks.fail(pkg.ID)
		}
		if cb.OnSent != nil {
			cb.OnSent(false)
		}
		return
	}

	if cb.OnSent != nil {
		cb.OnSent(true)
	}
	if !needAck && cb.OnAcknowledge != nil {
		cb.OnAcknowledge()
	}
}

// OnSessionOpen implements iHandler.
func (h *Hub) OnSessionOpen(sess *Session) {
	h.mu.Lock()
	h.sessions[sess.ID()] = sess
	h.mu.Unlock()
	log.Debugf("session %s opened from %s", sess.ID(), sess.GetRemoteIP())
}

// OnSessionClose implements iHandler. Pending acks of the session fail and
// the lobby side learns about the disconnect.
func (h *Hub) OnSessionClose(sess *Session) {
	h.mu.Lock()
	delete(h.sessions, sess.ID())
	recv := h.recv
	h.mu.Unlock()

	h.acks.failSession(sess.ID())

	log.Debugf("session %s closed", sess.ID())
	if recv != nil {
		recv.OnSessionClosed(sess.ID())
	}
}

// DispatchPackage implements iHandler. Inbound acks settle the registry;
// everything else is acknowledged if required and handed to the receiver.
func (h *Hub) DispatchPackage(sess *Session, pkg *Package) {
	if pkg.Type.IsAck() {
		h.acks.resolve(pkg.ID, pkg.Type)
		return
	}

	if ackType, ok := pkg.Type.Ack(); ok {
		ack := &Package{
			ID:        pkg.ID,
			Type:      ackType,
			Timestamp: nowMillis(),
			Data:      values.Values{},
		}
		if err := sess.SendPackage(ack); err != nil {
			log.Warnf("session %s ack %d failed: %v", sess.ID(), pkg.ID, err)
		}
	}

	// Delivered on the session's read goroutine so packages of one
	// connection are handled in arrival order.
	h.mu.RLock()
	recv := h.recv
	h.mu.RUnlock()
	if recv != nil {
		recv.OnPackage(sess.ID(), pkg)
	}
}
