package socket

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/yola1107/kratos/v2/log"
	"github.com/yola1107/kratos/v2/transport"
)

var _ transport.Server = (*Server)(nil)

// ServerOption is a websocket server option.
type ServerOption func(*Server)

func Address(addr string) ServerOption {
	return func(s *Server) { s.address = addr }
}

func Path(path string) ServerOption {
	return func(s *Server) { s.path = path }
}

func MaxConnLimit(n int) ServerOption {
	return func(s *Server) { s.maxConnLimit = n }
}

func SessionConf(c *SessionConfig) ServerOption {
	return func(s *Server) { s.sessionConf = c }
}

// Server accepts websocket upgrades and feeds sessions into the hub. It
// plugs into the application lifecycle as a transport.
type Server struct {
	*http.Server
	lis          net.Listener
	address      string
	path         string
	maxConnLimit int
	sessionConf  *SessionConfig
	hub          *Hub
	upgrader     *websocket.Upgrader
}

// NewServer creates the websocket endpoint by options.
func NewServer(hub *Hub, opts ...ServerOption) *Server {
	srv := &Server{
		address:      ":0",
		path:         "/socket",
		maxConnLimit: 10000,
		hub:          hub,
		sessionConf: &SessionConfig{
			WriteTimeout: 10 * time.Second,
			PingInterval: 15 * time.Second,
			ReadDeadline: 60 * time.Second,
			SendChanSize: 128,
		},
		upgrader: &websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
	for _, o := range opts {
		o(srv)
	}
	mux := http.NewServeMux()
	mux.Handle(srv.path, srv.handleConnections())
	srv.Server = &http.Server{
		Addr:    srv.address,
		Handler: mux,
	}
	return srv
}

func (s *Server) handleConnections() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cnt := s.hub.Len(); cnt >= s.maxConnLimit {
			w.WriteHeader(http.StatusServiceUnavailable)
			log.Warnf("[websocket] StatusServiceUnavailable. over maxConnections(%d)", cnt)
			return
		}

		conn, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Errorf("[websocket] upgrade error: %v", err)
			return
		}

		_ = NewSession(s.hub, conn, s.sessionConf)
	}
}

// Start starts the websocket server.
func (s *Server) Start(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	s.lis = lis
	s.BaseContext = func(net.Listener) context.Context { return ctx }
	log.Infof("[websocket] server listening on: %s path=%s", lis.Addr().String(), s.path)
	if err := s.Serve(lis); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop stops the websocket server and closes every session.
func (s *Server) Stop(ctx context.Context) error {
	log.Info("[websocket] server stopping")
	err := s.Shutdown(ctx)
	s.hub.CloseAll()
	return err
}
