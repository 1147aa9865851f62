package ws

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"spellbolt/server/internal/net/proto"
	"spellbolt/server/internal/sim"
	"spellbolt/server/internal/telemetry"
)

type stubGateway struct {
	mu       sync.Mutex
	commands []sim.Command
	rejectAs string
}

func (g *stubGateway) Enqueue(cmd sim.Command) (bool, string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.rejectAs != "" {
		return false, g.rejectAs
	}
	g.commands = append(g.commands, cmd)
	return true, ""
}

func (g *stubGateway) count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.commands)
}

func (g *stubGateway) last() sim.Command {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.commands[len(g.commands)-1]
}

type wsHarness struct {
	hub     *Hub
	gateway *stubGateway
	server  *httptest.Server
}

func newWSHarness(t *testing.T) *wsHarness {
	t.Helper()
	h := &wsHarness{
		hub:     NewHub(HubConfig{}, nil, nil, telemetry.NewCounters()),
		gateway: &stubGateway{},
	}
	handler := NewHandler(h.hub, h.gateway, HandlerConfig{})
	h.server = httptest.NewServer(handler)
	t.Cleanup(h.server.Close)
	return h
}

func (h *wsHarness) dial(t *testing.T, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(h.server.URL, "http") + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("unexpected dial error: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn, out any) {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("unexpected read error: %v", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
}

func writeMessage(t *testing.T, conn *websocket.Conn, msg any) {
	t.Helper()
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("unexpected write error: %v", err)
	}
}

func seq(v uint64) *uint64 { return &v }

func TestFireCommandAcked(t *testing.T) {
	h := newWSHarness(t)
	conn := h.dial(t, "/?id=wizard-1")

	writeMessage(t, conn, proto.ClientMessage{Type: proto.TypeFire, KindID: "frostbolt", Seq: seq(1)})

	var ack proto.CommandAckMessage
	readMessage(t, conn, &ack)
	if ack.Type != proto.TypeCommandAck || ack.Seq != 1 {
		t.Fatalf("unexpected ack: %+v", ack)
	}

	if h.gateway.count() != 1 {
		t.Fatalf("expected one staged command, got %d", h.gateway.count())
	}
	cmd := h.gateway.last()
	if cmd.Type != sim.CommandFire || cmd.ActorID != "wizard-1" || cmd.Fire.KindID != "frostbolt" {
		t.Fatalf("unexpected command: %+v", cmd)
	}
}

func TestDuplicateSeqNotRestaged(t *testing.T) {
	h := newWSHarness(t)
	conn := h.dial(t, "/?id=wizard-1")

	writeMessage(t, conn, proto.ClientMessage{Type: proto.TypeAim, Seq: seq(5)})
	var ack proto.CommandAckMessage
	readMessage(t, conn, &ack)

	writeMessage(t, conn, proto.ClientMessage{Type: proto.TypeAim, Seq: seq(5)})
	readMessage(t, conn, &ack)
	if ack.Seq != 5 {
		t.Fatalf("expected duplicate re-ack with seq 5, got %+v", ack)
	}

	if h.gateway.count() != 1 {
		t.Fatalf("expected duplicate suppressed, got %d staged", h.gateway.count())
	}
}

func TestQueuePressureRejectedWithRetry(t *testing.T) {
	h := newWSHarness(t)
	h.gateway.rejectAs = sim.CommandRejectQueueLimit
	conn := h.dial(t, "/?id=wizard-1")

	writeMessage(t, conn, proto.ClientMessage{Type: proto.TypeFire, Seq: seq(1)})

	var reject proto.CommandRejectMessage
	readMessage(t, conn, &reject)
	if reject.Type != proto.TypeCommandReject || reject.Reason != sim.CommandRejectQueueLimit {
		t.Fatalf("unexpected reject: %+v", reject)
	}
	if !reject.Retry {
		t.Fatalf("expected retryable rejection")
	}
}

func TestSpectatorCannotCommand(t *testing.T) {
	h := newWSHarness(t)
	conn := h.dial(t, "/")

	writeMessage(t, conn, proto.ClientMessage{Type: proto.TypeFire, Seq: seq(1)})

	var reject proto.CommandRejectMessage
	readMessage(t, conn, &reject)
	if reject.Reason != "spectator" {
		t.Fatalf("unexpected reject: %+v", reject)
	}
	if h.gateway.count() != 0 {
		t.Fatalf("expected no staged commands from spectator")
	}
}

func TestHeartbeatEchoesClientTime(t *testing.T) {
	h := newWSHarness(t)
	conn := h.dial(t, "/?id=wizard-1")

	writeMessage(t, conn, proto.ClientMessage{Type: proto.TypeHeartbeatPing, SentAt: 12345})

	var reply proto.HeartbeatMessage
	readMessage(t, conn, &reply)
	if reply.Type != proto.TypeHeartbeat || reply.ClientTime != 12345 {
		t.Fatalf("unexpected heartbeat: %+v", reply)
	}
	if reply.ServerTime == 0 {
		t.Fatalf("expected server time stamped")
	}
}

func TestBroadcastReachesAllSessions(t *testing.T) {
	h := newWSHarness(t)
	first := h.dial(t, "/?id=wizard-1")
	second := h.dial(t, "/")

	deadline := time.Now().Add(2 * time.Second)
	for h.hub.Len() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if h.hub.Len() != 2 {
		t.Fatalf("expected two sessions, got %d", h.hub.Len())
	}

	frame, _ := json.Marshal(map[string]string{"type": "state"})
	h.hub.Broadcast(frame)

	for _, conn := range []*websocket.Conn{first, second} {
		var body map[string]string
		readMessage(t, conn, &body)
		if body["type"] != "state" {
			t.Fatalf("unexpected frame: %v", body)
		}
	}
}
