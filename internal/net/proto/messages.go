// Package proto defines the JSON wire protocol between the duel server and
// its websocket clients.
package proto

import (
	"spellbolt/server/internal/arena"
	"spellbolt/server/internal/events"
)

// ProtocolVersion is bumped on any incompatible wire change.
const ProtocolVersion = 1

// Server message type discriminators.
const (
	TypeState         = "state"
	TypeEvent         = "event"
	TypeCommandAck    = "commandAck"
	TypeCommandReject = "commandReject"
	TypeHeartbeat     = "heartbeat"
)

// Client message type discriminators.
const (
	TypeFire          = "fire"
	TypeFace          = "face"
	TypeAim           = "aim"
	TypeHeartbeatPing = "heartbeat"
)

// StateMessage carries a full match snapshot, broadcast every tick.
type StateMessage struct {
	Ver   int                 `json:"ver"`
	Type  string              `json:"type"`
	State arena.StateSnapshot `json:"state"`
}

// NewStateMessage wraps a snapshot in its envelope.
func NewStateMessage(snapshot arena.StateSnapshot) StateMessage {
	return StateMessage{Ver: ProtocolVersion, Type: TypeState, State: snapshot}
}

// EventMessage carries one gameplay event. The payload shape depends on the
// kind; clients switch on it.
type EventMessage struct {
	Ver     int    `json:"ver"`
	Type    string `json:"type"`
	Kind    string `json:"kind"`
	Tick    uint64 `json:"tick"`
	Payload any    `json:"payload"`
}

// NewEventMessage wraps a gameplay event in its envelope.
func NewEventMessage(tick uint64, ev events.Event) EventMessage {
	return EventMessage{
		Ver:     ProtocolVersion,
		Type:    TypeEvent,
		Kind:    string(ev.EventKind()),
		Tick:    tick,
		Payload: ev,
	}
}

// CommandAckMessage confirms a sequenced client command was staged.
type CommandAckMessage struct {
	Ver  int    `json:"ver"`
	Type string `json:"type"`
	Seq  uint64 `json:"seq"`
}

// CommandRejectMessage reports a rejected client command. Retry marks
// transient rejections (queue pressure) the client may resend.
type CommandRejectMessage struct {
	Ver    int    `json:"ver"`
	Type   string `json:"type"`
	Seq    uint64 `json:"seq"`
	Reason string `json:"reason"`
	Retry  bool   `json:"retry,omitempty"`
}

// HeartbeatMessage answers a client heartbeat with both clocks.
type HeartbeatMessage struct {
	Ver        int    `json:"ver"`
	Type       string `json:"type"`
	ServerTime int64  `json:"serverTime"`
	ClientTime int64  `json:"clientTime"`
}

// ClientMessage is the single decode target for everything a client sends.
type ClientMessage struct {
	Ver    int     `json:"ver,omitempty"`
	Type   string  `json:"type"`
	KindID string  `json:"kindId,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Z      float64 `json:"z,omitempty"`
	SentAt int64   `json:"sentAt,omitempty"`
	Seq    *uint64 `json:"seq,omitempty"`
}
