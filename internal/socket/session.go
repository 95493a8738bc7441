package socket

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/yola1107/kratos/v2/library/xgo"
	"github.com/yola1107/kratos/v2/log"
)

var errSessionClosed = errors.New("session: closed send")

type iHandler interface {
	// OnSessionOpen 会话建立后回调
	OnSessionOpen(sess *Session)
	// OnSessionClose 会话断开时回调
	OnSessionClose(sess *Session)
	// DispatchPackage 处理客户端发来的 JSON 包
	DispatchPackage(sess *Session, pkg *Package)
}

type SessionConfig struct {
	WriteTimeout time.Duration
	PingInterval time.Duration
	ReadDeadline time.Duration
	SendChanSize int
}

// Session is one websocket connection. Frames are JSON text messages, one
// Package per frame. The player name is bound after CLIENT_HELLO.
type Session struct {
	id         string
	name       atomic.Value // string, bound player name
	h          iHandler
	connMu     sync.Mutex
	conn       *websocket.Conn
	config     *SessionConfig
	sendChan   chan []byte
	closed     atomic.Bool
	lastActive atomic.Value // time.Time
	ctx        context.Context
	cancel     context.CancelFunc
	sendMu     sync.Mutex
}

func NewSession(h iHandler, conn *websocket.Conn, config *SessionConfig) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		id:       uuid.New().String(),
		h:        h,
		conn:     conn,
		config:   config,
		sendChan: make(chan []byte, config.SendChanSize),
		ctx:      ctx,
		cancel:   cancel,
	}
	s.name.Store("")
	s.lastActive.Store(time.Now())
	s.h.OnSessionOpen(s)
	go s.readPump()
	go s.writePump()
	go s.heartbeat()
	return s
}

func (s *Session) ID() string { return s.id }

// BindName attaches the authenticated player name to the session.
func (s *Session) BindName(name string) { s.name.Store(name) }

// Name returns the bound player name; empty before CLIENT_HELLO.
func (s *Session) Name() string { return s.name.Load().(string) }

func (s *Session) GetRemoteIP() string { return s.conn.RemoteAddr().String() }

func (s *Session) LastActive() time.Time { return s.lastActive.Load().(time.Time) }

func (s *Session) Closed() bool { return s.closed.Load() }

// Send queues an encoded frame. Blocking callers see errSessionClosed once
// the session shuts down.
func (s *Session) Send(message []byte) error {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	if s.Closed() {
		return errSessionClosed
	}
	select {
	case s.sendChan <- message:
		return nil
	case <-s.ctx.Done():
		return errSessionClosed
	}
}

// SendPackage marshals and queues pkg.
func (s *Session) SendPackage(pkg *Package) error {
	data, err := pkg.Encode()
	if err != nil {
		return err
	}
	return s.Send(data)
}

func (s *Session) readPump() {
	defer xgo.RecoverFromError(nil)
	defer s.Close(false)

	for {
		if err := s.conn.SetReadDeadline(time.Now().Add(s.config.ReadDeadline)); err != nil {
			log.Errorf("sessionID=%q set read deadline error: %v", s.id, err)
			return
		}

		msgType, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warnf("sessionID=%q unexpected close: %v", s.id, err)
			}
			return
		}

		s.lastActive.Store(time.Now())

		switch msgType {
		case websocket.TextMessage, websocket.BinaryMessage:
			pkg, err := Decode(data)
			if err != nil {
				log.Warnf("sessionID=%q bad frame: %v", s.id, err)
				continue
			}
			s.h.DispatchPackage(s, pkg)
		case websocket.PingMessage:
			s.writeControl(websocket.PongMessage, data)
		case websocket.PongMessage:
		case websocket.CloseMessage:
			return
		default:
			log.Warnf("sessionID=%q unsupported message type: %d", s.id, msgType)
		}
	}
}

func (s *Session) writePump() {
	for {
		select {
		case <-s.ctx.Done():
			return
		case msg, ok := <-s.sendChan:
			if !ok {
				return
			}
			if err := s.writeTextMessage(msg); err != nil {
				if errors.Is(err, errSessionClosed) || strings.Contains(err.Error(), "close sent") {
					log.Infof("sessionID=%q write aborted, reason: %v", s.id, err)
				} else {
					log.Errorf("sessionID=%q write error: %v", s.id, err)
				}
				s.Close(true)
				return
			}
		}
	}
}

func (s *Session) heartbeat() {
	ticker := time.NewTicker(s.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return

		case <-ticker.C:
			if s.Closed() {
				return
			}
			if time.Since(s.LastActive()) > s.config.ReadDeadline {
				log.Warnf("sessionID=%q heartbeat timeout", s.id)
				s.Close(true)
				return
			}
			s.writeControl(websocket.PingMessage, nil)
		}
	}
}

func (s *Session) Close(force bool) bool {
	if !s.closed.CompareAndSwap(false, true) {
		return false
	}

	s.closeNotify(force)

	s.cancel()

	s.sendMu.Lock()
	close(s.sendChan)
	s.sendMu.Unlock()

	s.connMu.Lock()
	_ = s.conn.Close()
	s.connMu.Unlock()

	s.h.OnSessionClose(s)
	return true
}

func (s *Session) closeNotify(force bool) {
	reason := "Normal Closure"
	if force {
		reason = "Force Closure"
		if time.Since(s.LastActive()) > s.config.ReadDeadline {
			reason = "Force Closure (Heartbeat timeout)"
		}
	}
	message := websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason)
	s.writeControl(websocket.CloseMessage, message)
}

func (s *Session) writeControl(msgType int, data []byte) {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	_ = s.conn.WriteControl(msgType, data, time.Now().Add(s.config.WriteTimeout))
}

func (s *Session) writeTextMessage(msg []byte) error {
	s.connMu.Lock()
	defer s.connMu.Unlock()

	if err := s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout)); err != nil {
		return err
	}
	return s.conn.WriteMessage(websocket.TextMessage, msg)
}
