// Package server assembles the kratos transport servers.
package server

import (
	"time"

	"github.com/yola1107/kratos/v2/middleware/recovery"
	"github.com/yola1107/kratos/v2/transport/http"

	"github.com/yola1107/quizpoker/internal/conf"
	"github.com/yola1107/quizpoker/internal/service"
)

// NewHTTPServer mounts the REST facade.
func NewHTTPServer(c *conf.Server, svc *service.Service) *http.Server {
	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
		),
	}
	if c.HTTP.Network != "" {
		opts = append(opts, http.Network(c.HTTP.Network))
	}
	if c.HTTP.Addr != "" {
		opts = append(opts, http.Address(c.HTTP.Addr))
	}
	if c.HTTP.TimeoutSec > 0 {
		opts = append(opts, http.Timeout(time.Duration(c.HTTP.TimeoutSec)*time.Second))
	}

	srv := http.NewServer(opts...)
	srv.HandlePrefix("/quizpoker", svc.Routes())
	return srv
}
