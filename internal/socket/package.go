// Package socket implements the JSON websocket protocol of the game server:
// framed packages with per-message ids, acknowledge pairing and delivery
// callbacks.
package socket

import (
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/yola1107/quizpoker/internal/values"
)

// PackageType discriminates wire packages. Values travel by name.
type PackageType string

const (
	Heartbeat    PackageType = "HEARTBEAT"
	HeartbeatAck PackageType = "HEARTBEAT_ACK"

	ClientHello  PackageType = "CLIENT_HELLO"
	ClientMsg    PackageType = "CLIENT_MSG"
	ClientMsgAck PackageType = "CLIENT_MSG_ACK"

	ServerBroadcast PackageType = "SERVER_BROADCAST"
	ServerMsg       PackageType = "SERVER_MSG"
	ServerMsgAck    PackageType = "SERVER_MSG_ACK"

	// Event carries lightweight notifications that trigger client-side
	// refreshes. Never acknowledged.
	Event PackageType = "EVENT"
)

// Ack returns the acknowledge type answering t. ok is false for types that
// are not acknowledged at all.
func (t PackageType) Ack() (PackageType, bool) {
	switch t {
	case Heartbeat:
		return HeartbeatAck, true
	case ClientMsg:
		return ClientMsgAck, true
	case ServerMsg:
		return ServerMsgAck, true
	default:
		return "", false
	}
}

// IsAck reports whether t itself is an acknowledgement.
func (t PackageType) IsAck() bool {
	return t == HeartbeatAck || t == ClientMsgAck || t == ServerMsgAck
}

// Package is one wire frame. Data is a flat map of dotted keys to scalars.
type Package struct {
	ID        int64         `json:"id"`
	Type      PackageType   `json:"type"`
	Timestamp int64         `json:"timestamp"`
	Data      values.Values `json:"data"`
}

// Encode marshals the package for the wire.
func (p *Package) Encode() ([]byte, error) { return json.Marshal(p) }

// Decode parses a wire frame.
func Decode(data []byte) (*Package, error) {
	pkg := &Package{}
	if err := json.Unmarshal(data, pkg); err != nil {
		return nil, err
	}
	if pkg.Data == nil {
		pkg.Data = values.Values{}
	}
	return pkg, nil
}

// msgIDCounter numbers outbound packages. Inbound ids are chosen by the
// client; ack pairing only requires uniqueness per direction.
var msgIDCounter atomic.Int64

func nextMsgID() int64 { return msgIDCounter.Add(1) }

func nowMillis() int64 { return time.Now().UnixMilli() }
