// Package protocol defines the wire messages exchanged between a maze-game
// server and a decision-core client. The bundled JSON Schema documents
// under schemas/ are checked against sample messages by this package's
// tests; messages are not schema-validated at runtime.
package protocol

import "encoding/json"

const Version = "1.0"

// Message types.
const (
	TypeHello        = "HELLO"
	TypeWelcome      = "WELCOME"
	TypeMaze         = "MAZE"
	TypeBaitAppeared = "BAIT_APPEARED"
	TypeBaitVanished = "BAIT_VANISHED"
	TypeSelf         = "SELF"
	TypeAgentEvent   = "AGENT_EVENT"
	TypePause        = "PAUSE"
	TypeAct          = "ACT"
)

// BaseMessage lets us route unknown JSON messages by type before decoding
// into the concrete struct.
type BaseMessage struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version,omitempty"`
}

func DecodeBase(b []byte) (BaseMessage, error) {
	var m BaseMessage
	err := json.Unmarshal(b, &m)
	return m, err
}
