package websocket

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/piresc/unitransport/internal/pkg/constants"
	"github.com/piresc/unitransport/internal/pkg/logger"
	"github.com/piresc/unitransport/internal/pkg/models"
)

const (
	writeWait = 5 * time.Second
	sendQueue = 16
)

// SnapshotFunc returns the payload sent to a client right after it connects
type SnapshotFunc func() (event string, data interface{})

// client is one live connection. Only writePump writes to conn; everything
// else goes through the send queue.
type client struct {
	id        string
	conn      *websocket.Conn
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once

	mu      sync.Mutex
	updated bool // a broadcast has been queued since the client registered
}

func newClient(conn *websocket.Conn) *client {
	return &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendQueue),
		done: make(chan struct{}),
	}
}

// enqueue never blocks; false means the queue is full or the client is gone
func (c *client) enqueue(payload []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

func (c *client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

// Manager tracks connected viewers and fans out events to all of them
type Manager struct {
	sync.RWMutex
	clients  map[string]*client
	upgrader websocket.Upgrader
}

// NewManager creates a new WebSocket manager
func NewManager() *Manager {
	return &Manager{
		clients: make(map[string]*client),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// HandleConnection upgrades the request, sends the snapshot and serves the
// connection until the peer goes away. The client is registered before the
// snapshot is taken; if a broadcast reaches it first, the snapshot is
// skipped since that update is at least as recent.
func (m *Manager) HandleConnection(c echo.Context, snapshot SnapshotFunc) error {
	ws, err := m.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	cl := newClient(ws)
	go m.writePump(cl)
	m.addClient(cl)
	defer m.drop(cl)

	logger.Debug("WebSocket client connected",
		logger.String("client_id", cl.id),
		logger.String("remote", c.RealIP()))

	if snapshot != nil {
		event, data := snapshot()
		payload, err := encode(event, data)
		if err != nil {
			logger.Warn("Failed to encode WebSocket snapshot",
				logger.String("client_id", cl.id),
				logger.Err(err))
			return nil
		}

		cl.mu.Lock()
		ok := cl.updated || cl.enqueue(payload)
		cl.mu.Unlock()
		if !ok {
			return nil
		}
	}

	m.readLoop(cl)
	return nil
}

// writePump owns all writes to the connection
func (m *Manager) writePump(cl *client) {
	for {
		select {
		case <-cl.done:
			return
		case payload := <-cl.send:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				logger.Debug("Dropping WebSocket client after failed write",
					logger.String("client_id", cl.id),
					logger.Err(err))
				m.drop(cl)
				return
			}
		}
	}
}

// readLoop answers pings and reports malformed frames until the connection closes
func (m *Manager) readLoop(cl *client) {
	for {
		_, raw, err := cl.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("WebSocket read failed",
					logger.String("client_id", cl.id),
					logger.Err(err))
			}
			return
		}

		var msg models.WSMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			m.send(cl, constants.EventError, models.WSErrorMessage{
				Code:    constants.ErrorInvalidFormat,
				Message: "Invalid message format",
			})
			continue
		}

		if msg.Event == constants.EventPing {
			m.send(cl, constants.EventPong, nil)
		}
	}
}

func (m *Manager) addClient(cl *client) {
	m.Lock()
	defer m.Unlock()
	m.clients[cl.id] = cl
}

// drop unregisters the client and closes its connection
func (m *Manager) drop(cl *client) {
	m.Lock()
	if cur, ok := m.clients[cl.id]; ok && cur == cl {
		delete(m.clients, cl.id)
	}
	m.Unlock()
	cl.close()
}

// ClientCount returns the number of connected clients
func (m *Manager) ClientCount() int {
	m.RLock()
	defer m.RUnlock()
	return len(m.clients)
}

// Broadcast queues one event for every connected client without waiting on
// any of them. A client whose queue is full is disconnected; it receives a
// fresh snapshot when it reconnects.
func (m *Manager) Broadcast(event string, data interface{}) error {
	payload, err := encode(event, data)
	if err != nil {
		return err
	}

	m.RLock()
	targets := make([]*client, 0, len(m.clients))
	for _, cl := range m.clients {
		targets = append(targets, cl)
	}
	m.RUnlock()

	for _, cl := range targets {
		cl.mu.Lock()
		cl.updated = true
		ok := cl.enqueue(payload)
		cl.mu.Unlock()

		if !ok {
			logger.Warn("Dropping slow WebSocket client",
				logger.String("client_id", cl.id))
			m.drop(cl)
		}
	}
	return nil
}

func (m *Manager) send(cl *client, event string, data interface{}) {
	payload, err := encode(event, data)
	if err != nil {
		return
	}
	if !cl.enqueue(payload) {
		m.drop(cl)
	}
}

func encode(event string, data interface{}) ([]byte, error) {
	rawData, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("error marshaling message data: %w", err)
	}

	payload, err := json.Marshal(models.WSMessage{Event: event, Data: rawData})
	if err != nil {
		return nil, fmt.Errorf("error marshaling message: %w", err)
	}
	return payload, nil
}
