package socket

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeScheduler runs posted jobs inline and keeps timers armed until the
// test fires them by hand.
type fakeScheduler struct {
	mu     sync.Mutex
	nextID int64
	timers map[int64]func()
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{timers: make(map[int64]func())}
}

func (s *fakeScheduler) Post(job func()) { job() }

func (s *fakeScheduler) Once(_ time.Duration, f func()) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.timers[s.nextID] = f
	return s.nextID
}

func (s *fakeScheduler) Cancel(taskID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.timers, taskID)
}

func (s *fakeScheduler) fire(taskID int64) {
	s.mu.Lock()
	f, ok := s.timers[taskID]
	delete(s.timers, taskID)
	s.mu.Unlock()
	if ok {
		f()
	}
}

func (s *fakeScheduler) armed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

func TestAckTable(t *testing.T) {
	tests := []struct {
		typ  PackageType
		ack  PackageType
		need bool
	}{
		{Heartbeat, HeartbeatAck, true},
		{ClientMsg, ClientMsgAck, true},
		{ServerMsg, ServerMsgAck, true},
		{ClientHello, "", false},
		{ServerBroadcast, "", false},
		{Event, "", false},
		{HeartbeatAck, "", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			ack, ok := tt.typ.Ack()
			assert.Equal(t, tt.need, ok)
			assert.Equal(t, tt.ack, ack)
		})
	}
}

func TestAckResolveOnce(t *testing.T) {
	sched := newFakeScheduler()
	reg := newAckRegistry(sched)

	var acked, failed int
	reg.track(7, "sess-1", ServerMsgAck, time.Second,
		func() { acked++ },
		func() { failed++ })

	require.Equal(t, 1, sched.armed())

	assert.True(t, reg.resolve(7, ServerMsgAck))
	assert.False(t, reg.resolve(7, ServerMsgAck), "second resolve must be a no-op")

	assert.Equal(t, 1, acked)
	assert.Equal(t, 0, failed)
	assert.Equal(t, 0, sched.armed(), "timer must be disarmed after resolve")
}

func TestAckWrongTypeIgnored(t *testing.T) {
	sched := newFakeScheduler()
	reg := newAckRegistry(sched)

	var acked int
	reg.track(3, "sess-1", ServerMsgAck, time.Second, func() { acked++ }, nil)

	assert.False(t, reg.resolve(3, HeartbeatAck))
	assert.Equal(t, 0, acked)

	assert.True(t, reg.resolve(3, ServerMsgAck))
	assert.Equal(t, 1, acked)
}

func TestAckTimeout(t *testing.T) {
	sched := newFakeScheduler()
	reg := newAckRegistry(sched)

	var acked, failed int
	reg.track(11, "sess-1", ServerMsgAck, time.Second,
		func() { acked++ },
		func() { failed++ })

	sched.fire(1)

	assert.Equal(t, 0, acked)
	assert.Equal(t, 1, failed)
	assert.False(t, reg.resolve(11, ServerMsgAck), "timed out entry is gone")
}

func TestAckFailSession(t *testing.T) {
	sched := newFakeScheduler()
	reg := newAckRegistry(sched)

	var failedA, failedB, failedC int
	reg.track(1, "sess-a", ServerMsgAck, time.Second, nil, func() { failedA++ })
	reg.track(2, "sess-a", HeartbeatAck, time.Second, nil, func() { failedB++ })
	reg.track(3, "sess-b", ServerMsgAck, time.Second, nil, func() { failedC++ })

	reg.failSession("sess-a")

	assert.Equal(t, 1, failedA)
	assert.Equal(t, 1, failedB)
	assert.Equal(t, 0, failedC)
	assert.True(t, reg.resolve(3, ServerMsgAck), "other sessions keep their entries")
}

func TestAckResolveDisarmsRacingTimer(t *testing.T) {
	sched := newFakeScheduler()
	reg := newAckRegistry(sched)

	var wg sync.WaitGroup
	for id := int64(1); id <= 64; id++ {
		wg.Add(2)
		go func(id int64) {
			defer wg.Done()
			reg.track(id, "sess-1", ServerMsgAck, time.Second, nil, nil)
		}(id)
		go func(id int64) {
			defer wg.Done()
			for !reg.resolve(id, ServerMsgAck) {
			}
		}(id)
	}
	wg.Wait()

	assert.Equal(t, 0, sched.armed(), "a resolve racing its track must disarm the real timer")
}

// noPostScheduler proves the send path stays on the caller's goroutine, so
// back-to-back sends hit one session's queue in call order.
type noPostScheduler struct{ *fakeScheduler }

func (noPostScheduler) Post(func()) { panic("send must not hop goroutines") }

func TestHubSendStaysOnCallerGoroutine(t *testing.T) {
	sched := noPostScheduler{newFakeScheduler()}
	hub := NewHub(sched)

	var sentOK *bool
	hub.Send("missing", ServerMsg, nil, time.Second, SendCallbacks{
		OnSent: func(ok bool) { sentOK = &ok },
	})

	require.NotNil(t, sentOK, "OnSent fires before Send returns")
	assert.False(t, *sentOK)
	assert.Equal(t, 0, sched.armed(), "failed send disarms its ack timer")
}

func TestPackageRoundTrip(t *testing.T) {
	raw := []byte(`{"id":42,"type":"CLIENT_MSG","timestamp":1700000000000,` +
		`"data":{"Action.Player.Raise":200,"Game.Player.Name":"alice","Action.Player.Fold":false}}`)

	pkg, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, int64(42), pkg.ID)
	assert.Equal(t, ClientMsg, pkg.Type)

	raise, ok := pkg.Data["Action.Player.Raise"].AsInt()
	require.True(t, ok)
	assert.Equal(t, int64(200), raise)
	assert.Equal(t, "alice", pkg.Data["Game.Player.Name"].Str())

	out, err := pkg.Encode()
	require.NoError(t, err)
	back, err := Decode(out)
	require.NoError(t, err)
	assert.Equal(t, pkg.Data, back.Data)
}

func TestDecodeMissingData(t *testing.T) {
	pkg, err := Decode([]byte(`{"id":1,"type":"HEARTBEAT","timestamp":5}`))
	require.NoError(t, err)
	require.NotNil(t, pkg.Data)
	assert.Empty(t, pkg.Data)
}
