package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	pingInterval = 10 * time.Second
	pongTimeout  = 20 * time.Second
)

// upgrader is configured per Dispatcher so the allowed origin comes
// from environment configuration rather than a hardcoded wildcard.
func newUpgrader(allowedOrigin string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return allowedOrigin == "*" || r.Header.Get("Origin") == allowedOrigin
		},
	}
}

// Session is one connected socket. socketID is the transient handle;
// playerID (set once register completes) is the stable identity used
// for authorization.
type Session struct {
	socketID string
	conn     *websocket.Conn
	send     chan Envelope
	disp     *Dispatcher

	mu          sync.Mutex
	playerID    string // empty until registered
	displayName string
	username    *string
	pinged      bool
}

func (s *Session) emit(msgType string, payload interface{}) {
	raw, err := json.Marshal(payload)
	if err != nil {
		log.Printf("api: marshaling %s payload: %v", msgType, err)
		return
	}
	select {
	case s.send <- Envelope{Type: msgType, Payload: raw}:
	default:
		log.Printf("api: dropping %s for %s, send buffer full", msgType, s.socketID)
	}
}

func (s *Session) emitError(message string) {
	s.emit("error", messagePayload{Message: message})
}

// ServeWS upgrades the request to a WebSocket and runs the session
// until the connection closes, the pattern the upstream engine used
// for its analysis socket, generalized to the dispatcher's own
// read/write pumps.
func (d *Dispatcher) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := d.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("api: websocket upgrade: %v", err)
		return
	}

	sess := &Session{
		socketID: newSocketID(),
		conn:     conn,
		send:     make(chan Envelope, 64),
		disp:     d,
	}
	d.addSession(sess)

	conn.SetPongHandler(func(string) error {
		sess.mu.Lock()
		sess.pinged = false
		sess.mu.Unlock()
		conn.SetReadDeadline(time.Now().Add(pongTimeout))
		return nil
	})
	conn.SetReadDeadline(time.Now().Add(pongTimeout))

	done := make(chan struct{})
	go sess.pinger(done)
	go sess.writePump()
	sess.readPump(done)
}

func (s *Session) writePump() {
	defer s.conn.Close()
	for env := range s.send {
		if err := s.conn.WriteJSON(env); err != nil {
			return
		}
	}
}

func (s *Session) readPump(done chan struct{}) {
	defer func() {
		close(done)
		close(s.send)
		s.disp.onDisconnect(s)
	}()
	for {
		var env Envelope
		if err := s.conn.ReadJSON(&env); err != nil {
			return
		}
		s.disp.dispatch(s, env)
	}
}

// pinger sends a ping every pingInterval and disconnects the socket if
// the previous ping was never acknowledged, the same missed-pong kill
// rule go-kgp's Client.Pinger applies to its TCP connections.
func (s *Session) pinger(done <-chan struct{}) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
		}

		s.mu.Lock()
		stillPinged := s.pinged
		s.pinged = true
		s.mu.Unlock()

		if stillPinged {
			s.conn.Close()
			return
		}
		if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
			s.conn.Close()
			return
		}
	}
}
