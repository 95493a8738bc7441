// Package conf loads the bootstrap configuration.
package conf

import (
	"fmt"

	"github.com/yola1107/kratos/v2/config"
	"github.com/yola1107/kratos/v2/config/file"
)

const Name = "quizpoker"
const Version = "v0.0.1"

// Server holds the listen configuration of both transports.
type Server struct {
	HTTP struct {
		Network    string `json:"network"`
		Addr       string `json:"addr"`
		TimeoutSec int64  `json:"timeout"`
	} `json:"http"`
	Socket struct {
		Addr           string `json:"addr"`
		Path           string `json:"path"`
		MaxConnections int    `json:"maxConnections"`
	} `json:"socket"`
}

// Data holds storage configuration.
type Data struct {
	Database struct {
		Path string `json:"path"`
	} `json:"database"`
}

// Game holds lobby-facing connection parameters, replicated to clients so
// they can find both transports.
type Game struct {
	PublicHost         string `json:"publicHost"`
	RESTPort           int    `json:"restPort"`
	SocketPort         int    `json:"socketPort"`
	TLS                bool   `json:"tls"`
	HeartbeatRate      int64  `json:"heartbeatRate"`
	HeartbeatMaxMisses int64  `json:"heartbeatMaxMisses"`
}

type Bootstrap struct {
	Server *Server `json:"server"`
	Data   *Data   `json:"data"`
	Game   *Game   `json:"game"`
}

// LoadConfig reads and scans the bootstrap config from flagconf.
func LoadConfig(flagconf string) (config.Config, *Bootstrap) {
	c := config.New(
		config.WithSource(
			file.NewSource(flagconf),
		),
	)

	if err := c.Load(); err != nil {
		panic(err)
	}

	var bc Bootstrap
	if err := c.Scan(&bc); err != nil {
		panic(fmt.Errorf("bootstrap config invalid: %v", err))
	}
	if bc.Server == nil || bc.Data == nil || bc.Game == nil {
		panic(fmt.Errorf("bootstrap config incomplete"))
	}

	return c, &bc
}
