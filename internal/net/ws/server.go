// Package ws exposes the live agent decision state over a websocket so an
// inspector UI can watch blackboards, memory and state machines mid-run.
package ws

import (
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"arenamind/server/internal/ai"
	"arenamind/server/internal/telemetry"
)

// SnapshotSource provides point-in-time agent snapshots. The controller
// satisfies it.
type SnapshotSource interface {
	Snapshots() []ai.AgentSnapshot
}

// Server upgrades HTTP requests and serves snapshot queries per session.
type Server struct {
	source   SnapshotSource
	tick     func() uint64
	logger   telemetry.Logger
	metrics  telemetry.Metrics
	upgrader websocket.Upgrader

	mu       sync.Mutex
	sessions map[string]*websocket.Conn
}

// NewServer wires the debug endpoint. tick may be nil when no loop is
// attached; snapshots then report tick zero.
func NewServer(source SnapshotSource, tick func() uint64, logger telemetry.Logger, metrics telemetry.Metrics) *Server {
	if metrics == nil {
		metrics = telemetry.NopMetrics()
	}
	return &Server{
		source:  source,
		tick:    tick,
		logger:  logger,
		metrics: metrics,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		sessions: make(map[string]*websocket.Conn),
	}
}

type clientMessage struct {
	Type string `json:"type"`
}

type helloMessage struct {
	Type    string `json:"type"`
	Session string `json:"session"`
	Tick    uint64 `json:"tick"`
}

type snapshotMessage struct {
	Type   string             `json:"type"`
	Tick   uint64             `json:"tick"`
	Agents []ai.AgentSnapshot `json:"agents"`
}

type errorMessage struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

// ServeHTTP implements the debug endpoint. Each connection gets a session ID
// and answers "snapshot" requests until the peer disconnects.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.printf("ws upgrade failed: %v", err)
		return
	}
	session := uuid.NewString()
	s.register(session, conn)
	s.metrics.Add("ws.sessions", 1)
	defer s.unregister(session)

	if err := conn.WriteJSON(helloMessage{Type: "hello", Session: session, Tick: s.currentTick()}); err != nil {
		s.printf("ws session %s hello failed: %v", session, err)
		return
	}

	for {
		var msg clientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.printf("ws session %s read failed: %v", session, err)
			}
			return
		}
		switch msg.Type {
		case "snapshot":
			s.metrics.Add("ws.snapshot_requests", 1)
			reply := snapshotMessage{Type: "snapshot", Tick: s.currentTick(), Agents: s.source.Snapshots()}
			if err := conn.WriteJSON(reply); err != nil {
				s.printf("ws session %s write failed: %v", session, err)
				return
			}
		default:
			if err := conn.WriteJSON(errorMessage{Type: "error", Reason: "unknown message type"}); err != nil {
				return
			}
		}
	}
}

// SessionCount returns the number of open sessions.
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Server) register(session string, conn *websocket.Conn) {
	s.mu.Lock()
	s.sessions[session] = conn
	s.mu.Unlock()
}

func (s *Server) unregister(session string) {
	s.mu.Lock()
	conn := s.sessions[session]
	delete(s.sessions, session)
	s.mu.Unlock()
	if conn != nil {
		conn.Close()
	}
}

func (s *Server) currentTick() uint64 {
	if s.tick == nil {
		return 0
	}
	return s.tick()
}

func (s *Server) printf(format string, args ...any) {
	if s.logger == nil {
		return
	}
	s.logger.Printf(format, args...)
}
