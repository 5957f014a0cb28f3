package gateway

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/standardbeagle/pinpoint/internal/debug"
)

// WSPath is the HTTP path controllers connect to.
const WSPath = "/__pinpoint"

// WSServer is the websocket transport between the inspector and its
// controllers. Inbound frames are forwarded to the registered receiver;
// outbound frames are broadcast to every connected controller.
type WSServer struct {
	upgrader  websocket.Upgrader
	mu        sync.Mutex
	conns     map[*websocket.Conn]*sync.Mutex
	onMessage func(data []byte)
	closed    bool
}

// NewWSServer creates a websocket transport.
func NewWSServer() *WSServer {
	return &WSServer{
		upgrader: websocket.Upgrader{
			// The inspector serves local dev tooling; controllers may be
			// embedded in pages served from another local port.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		conns: make(map[*websocket.Conn]*sync.Mutex),
	}
}

// OnMessage registers the receiver for inbound frames.
func (s *WSServer) OnMessage(fn func(data []byte)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onMessage = fn
}

// ServeHTTP upgrades the connection and pumps inbound frames until the
// controller disconnects.
func (s *WSServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		debug.Log("gateway", "websocket upgrade failed: %v", err)
		return
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		conn.Close()
		return
	}
	s.conns[conn] = &sync.Mutex{}
	count := len(s.conns)
	s.mu.Unlock()
	debug.Log("gateway", "controller connected (%d total)", count)

	defer func() {
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
		conn.Close()
		debug.Log("gateway", "controller disconnected")
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		s.mu.Lock()
		fn := s.onMessage
		s.mu.Unlock()
		if fn != nil {
			fn(data)
		}
	}
}

// Post broadcasts an outbound frame to all connected controllers.
// Connections that fail to accept the write are dropped.
func (s *WSServer) Post(data []byte) error {
	s.mu.Lock()
	targets := make(map[*websocket.Conn]*sync.Mutex, len(s.conns))
	for c, mu := range s.conns {
		targets[c] = mu
	}
	s.mu.Unlock()

	for conn, writeMu := range targets {
		writeMu.Lock()
		err := conn.WriteMessage(websocket.TextMessage, data)
		writeMu.Unlock()
		if err != nil {
			debug.Log("gateway", "dropping controller connection: %v", err)
			s.mu.Lock()
			delete(s.conns, conn)
			s.mu.Unlock()
			conn.Close()
		}
	}
	return nil
}

// Close disconnects all controllers and rejects future ones.
func (s *WSServer) Close() {
	s.mu.Lock()
	s.closed = true
	conns := make([]*websocket.Conn, 0, len(s.conns))
	for c := range s.conns {
		conns = append(conns, c)
	}
	s.conns = make(map[*websocket.Conn]*sync.Mutex)
	s.mu.Unlock()

	for _, c := range conns {
		c.Close()
	}
}
