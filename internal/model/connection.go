package model

import (
	"github.com/yola1107/quizpoker/internal/values"
	"github.com/yola1107/quizpoker/pkg/keys"
)

// ConnectionSettings describes how clients reach the server. Replicated once
// per lobby under Connection.Server.* so clients never hardcode endpoints.
type ConnectionSettings struct {
	RESTTLS  bool
	RESTHost string
	RESTPort int

	WSTLS  bool
	WSHost string
	WSPort int
	WSPath string

	HeartbeatRateMs    int
	HeartbeatMaxMisses int
}

// Values flattens the settings into their wire keys.
func (c *ConnectionSettings) Values() values.Values {
	return values.Values{
		keys.ConnectionRESTTLS:  values.Bool(c.RESTTLS),
		keys.ConnectionRESTHost: values.String(c.RESTHost),
		keys.ConnectionRESTPort: values.Int(int64(c.RESTPort)),

		keys.ConnectionWSTLS:  values.Bool(c.WSTLS),
		keys.ConnectionWSHost: values.String(c.WSHost),
		keys.ConnectionWSPort: values.Int(int64(c.WSPort)),
		keys.ConnectionWSPath: values.String(c.WSPath),

		keys.ConnectionHeartbeatRate:      values.Int(int64(c.HeartbeatRateMs)),
		keys.ConnectionHeartbeatMaxMisses: values.Int(int64(c.HeartbeatMaxMisses)),
	}
}
