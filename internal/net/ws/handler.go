package ws

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"spellbolt/server/internal/net/proto"
	"spellbolt/server/internal/sim"
	"spellbolt/server/internal/telemetry"
)

// CommandGateway stages commands for the simulation loop. *sim.Loop
// satisfies it.
type CommandGateway interface {
	Enqueue(cmd sim.Command) (bool, string)
}

// HandlerConfig tunes the websocket endpoint.
type HandlerConfig struct {
	Logger telemetry.Logger
}

// Handler upgrades HTTP requests and runs the per-session read loop.
type Handler struct {
	hub      *Hub
	gateway  CommandGateway
	logger   telemetry.Logger
	upgrader websocket.Upgrader
}

// NewHandler constructs the websocket endpoint handler.
func NewHandler(hub *Hub, gateway CommandGateway, cfg HandlerConfig) *Handler {
	return &Handler{
		hub:     hub,
		gateway: gateway,
		logger:  cfg.Logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// ServeHTTP upgrades the connection and runs the read loop until the client
// disconnects. The "id" query parameter names the wizard this session
// controls; sessions without one spectate.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	actorID := r.URL.Query().Get("id")

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logf("upgrade failed for %q: %v", actorID, err)
		return
	}

	session := h.hub.Attach(actorID, r.RemoteAddr, conn)
	h.readLoop(session, conn)
}

func (h *Handler) readLoop(session *Session, conn *websocket.Conn) {
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			session.Close("read_failed")
			return
		}

		var msg proto.ClientMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			h.logf("discarding malformed message from %s: %v", session.ID, err)
			continue
		}

		switch msg.Type {
		case proto.TypeFire, proto.TypeFace, proto.TypeAim:
			if !h.handleCommand(session, msg) {
				return
			}
		case proto.TypeHeartbeatPing:
			if !h.handleHeartbeat(session, msg) {
				return
			}
		default:
			h.logf("unknown message type %q from %s", msg.Type, session.ID)
		}
	}
}

// handleCommand stages a gameplay command and answers sequenced messages
// with an ack or reject. Returns false when the session died mid-reply.
func (h *Handler) handleCommand(session *Session, msg proto.ClientMessage) bool {
	if session.ActorID == "" {
		// Spectators cannot drive wizards.
		return h.reject(session, msg, "spectator", false)
	}

	seq := uint64(0)
	if msg.Seq != nil {
		seq = *msg.Seq
	}
	if seq > 0 && seq <= session.LastCommandSeq() {
		// Duplicate delivery; re-ack without re-staging.
		return h.ack(session, seq)
	}

	cmd := sim.Command{
		ActorID:  session.ActorID,
		IssuedAt: time.Now(),
	}
	switch msg.Type {
	case proto.TypeFire:
		cmd.Type = sim.CommandFire
		cmd.Fire = &sim.FireCommand{KindID: msg.KindID}
	case proto.TypeFace:
		cmd.Type = sim.CommandFace
		cmd.Face = &sim.FaceCommand{X: msg.X, Y: msg.Y, Z: msg.Z}
	case proto.TypeAim:
		cmd.Type = sim.CommandAim
	}

	ok, reason := h.gateway.Enqueue(cmd)
	if !ok {
		retry := reason == sim.CommandRejectQueueLimit || reason == sim.CommandRejectQueueFull
		return h.reject(session, msg, reason, retry)
	}
	if seq > 0 {
		if !h.ack(session, seq) {
			return false
		}
		session.StoreLastCommandSeq(seq)
	}
	return true
}

func (h *Handler) handleHeartbeat(session *Session, msg proto.ClientMessage) bool {
	reply := proto.HeartbeatMessage{
		Ver:        proto.ProtocolVersion,
		Type:       proto.TypeHeartbeat,
		ServerTime: time.Now().UnixMilli(),
		ClientTime: msg.SentAt,
	}
	return h.sendJSON(session, reply)
}

func (h *Handler) ack(session *Session, seq uint64) bool {
	return h.sendJSON(session, proto.CommandAckMessage{
		Ver:  proto.ProtocolVersion,
		Type: proto.TypeCommandAck,
		Seq:  seq,
	})
}

func (h *Handler) reject(session *Session, msg proto.ClientMessage, reason string, retry bool) bool {
	seq := uint64(0)
	if msg.Seq != nil {
		seq = *msg.Seq
	}
	if seq == 0 {
		return true
	}
	return h.sendJSON(session, proto.CommandRejectMessage{
		Ver:    proto.ProtocolVersion,
		Type:   proto.TypeCommandReject,
		Seq:    seq,
		Reason: reason,
		Retry:  retry,
	})
}

func (h *Handler) sendJSON(session *Session, payload any) bool {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logf("failed to marshal reply for %s: %v", session.ID, err)
		return true
	}
	return session.Send(data)
}

func (h *Handler) logf(format string, args ...any) {
	if h.logger == nil {
		return
	}
	h.logger.Printf(format, args...)
}
