// Package ws hosts the websocket transport: a hub of client sessions fed by
// the simulation loop's broadcasts, and the read handler translating client
// messages into staged commands.
package ws

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"spellbolt/server/internal/telemetry"
	"spellbolt/server/logging"
	"spellbolt/server/logging/lifecycle"
)

const (
	defaultSendBuffer = 32
	writeTimeout      = 5 * time.Second
)

// HubConfig tunes per-session buffering.
type HubConfig struct {
	// SendBuffer is the per-session outbound queue depth. A session that
	// falls this many messages behind is dropped rather than allowed to
	// stall the broadcaster.
	SendBuffer int
}

// Hub tracks connected sessions and fans broadcast frames out to them.
type Hub struct {
	cfg      HubConfig
	log      logging.Publisher
	logger   telemetry.Logger
	counters *telemetry.Counters

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewHub constructs an empty hub.
func NewHub(cfg HubConfig, log logging.Publisher, logger telemetry.Logger, counters *telemetry.Counters) *Hub {
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = defaultSendBuffer
	}
	if log == nil {
		log = logging.NopPublisher()
	}
	return &Hub{
		cfg:      cfg,
		log:      log,
		logger:   logger,
		counters: counters,
		sessions: make(map[string]*Session),
	}
}

// Len reports the number of connected sessions.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Attach registers a connection and starts its write pump. ActorID is the
// wizard this session controls; empty means spectator.
func (h *Hub) Attach(actorID string, remoteAddr string, conn *websocket.Conn) *Session {
	s := &Session{
		ID:      "sess-" + uuid.NewString(),
		ActorID: actorID,
		hub:     h,
		conn:    conn,
		send:    make(chan []byte, h.cfg.SendBuffer),
	}

	h.mu.Lock()
	h.sessions[s.ID] = s
	h.mu.Unlock()

	h.counters.SessionOpened()
	lifecycle.SessionJoined(context.Background(), h.log, 0,
		logging.EntityRef{ID: s.ID, Kind: logging.EntityKindSession},
		lifecycle.SessionJoinedPayload{RemoteAddr: remoteAddr})

	go s.writePump()
	return s
}

// Broadcast queues a frame for every connected session. Sessions whose
// queues are full are closed as too slow.
func (h *Hub) Broadcast(data []byte) {
	h.mu.RLock()
	targets := make([]*Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		targets = append(targets, s)
	}
	h.mu.RUnlock()

	delivered := 0
	for _, s := range targets {
		if s.trySend(data) {
			delivered++
		} else {
			s.Close("slow_client")
		}
	}
	if delivered > 0 {
		h.counters.RecordBroadcast(len(data)*delivered, delivered)
	}
}

// CloseAll disconnects every session, typically at shutdown.
func (h *Hub) CloseAll(reason string) {
	h.mu.RLock()
	targets := make([]*Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		targets = append(targets, s)
	}
	h.mu.RUnlock()
	for _, s := range targets {
		s.Close(reason)
	}
}

func (h *Hub) detach(s *Session, reason string) {
	h.mu.Lock()
	_, present := h.sessions[s.ID]
	delete(h.sessions, s.ID)
	h.mu.Unlock()
	if !present {
		return
	}

	h.counters.SessionClosed()
	lifecycle.SessionClosed(context.Background(), h.log, 0,
		logging.EntityRef{ID: s.ID, Kind: logging.EntityKindSession},
		lifecycle.SessionClosedPayload{Reason: reason})
	if h.logger != nil {
		h.logger.Printf("session %s closed: %s", s.ID, reason)
	}
}

// Session is one connected websocket client.
type Session struct {
	ID      string
	ActorID string

	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	closeOnce sync.Once

	mu             sync.Mutex
	lastCommandSeq uint64
}

// LastCommandSeq returns the highest acknowledged command sequence.
func (s *Session) LastCommandSeq() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastCommandSeq
}

// StoreLastCommandSeq records an acknowledged command sequence.
func (s *Session) StoreLastCommandSeq(seq uint64) {
	s.mu.Lock()
	if seq > s.lastCommandSeq {
		s.lastCommandSeq = seq
	}
	s.mu.Unlock()
}

// Send queues a frame for this session only, reporting false when the
// session is too far behind.
func (s *Session) Send(data []byte) bool {
	if !s.trySend(data) {
		s.Close("slow_client")
		return false
	}
	return true
}

// Close tears the session down. Idempotent.
func (s *Session) Close(reason string) {
	s.closeOnce.Do(func() {
		s.hub.detach(s, reason)
		close(s.send)
		s.conn.Close()
	})
}

func (s *Session) trySend(data []byte) (ok bool) {
	// Sending on a closed channel panics; the recover covers the race
	// between Broadcast and Close.
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	select {
	case s.send <- data:
		return true
	default:
		return false
	}
}

func (s *Session) writePump() {
	for data := range s.send {
		s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			s.Close("write_failed")
			return
		}
	}
}
