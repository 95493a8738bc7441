package server

import (
	"github.com/yola1107/quizpoker/internal/conf"
	"github.com/yola1107/quizpoker/internal/socket"
)

// NewSocketServer builds the websocket endpoint the game runs over.
func NewSocketServer(c *conf.Server, hub *socket.Hub) *socket.Server {
	var opts []socket.ServerOption
	if c.Socket.Addr != "" {
		opts = append(opts, socket.Address(c.Socket.Addr))
	}
	if c.Socket.Path != "" {
		opts = append(opts, socket.Path(c.Socket.Path))
	}
	if c.Socket.MaxConnections > 0 {
		opts = append(opts, socket.MaxConnLimit(c.Socket.MaxConnections))
	}
	return socket.NewServer(hub, opts...)
}
