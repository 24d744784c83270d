package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/speaktime/go/internal/meeting"
	"github.com/mcdev12/speaktime/go/internal/timer"
)

// MessageType identifies what a websocket message carries
type MessageType string

const (
	MessageTypeView MessageType = "view"
	MessageTypeTick MessageType = "tick"
)

// Message is the envelope pushed to every connected client
type Message struct {
	Type MessageType       `json:"type"`
	View *meeting.View     `json:"view,omitempty"`
	Tick *timer.TickUpdate `json:"tick,omitempty"`
}

// ViewProvider supplies the snapshot sent to a client when it connects
type ViewProvider interface {
	View() meeting.View
}

// Hub fans meeting renders out to websocket clients. It implements
// meeting.RenderSink; OnView and OnTick never block.
type Hub struct {
	connections map[*Connection]bool
	mu          sync.RWMutex

	upgrader    websocket.Upgrader
	config      ConnectionConfig
	snapshot    ViewProvider
	broadcastCh chan Message
}

// Connection represents a WebSocket connection to a client
type Connection struct {
	ID   string
	Conn *websocket.Conn
	Send chan []byte
	hub  *Hub

	ConnectedAt time.Time
}

// ConnectionConfig holds configuration for WebSocket connections
type ConnectionConfig struct {
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	SendBufferSize  int
	CheckOrigin     func(r *http.Request) bool
}

// DefaultConnectionConfig returns default WebSocket configuration
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		WriteTimeout:    10 * time.Second,
		ReadTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  1024,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		SendBufferSize:  256,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
}

// NewHub creates a hub. snapshot may be nil, in which case new clients wait
// for the next render.
func NewHub(config ConnectionConfig, snapshot ViewProvider) *Hub {
	if config.SendBufferSize < 1 {
		config.SendBufferSize = 1
	}
	return &Hub{
		connections: make(map[*Connection]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		config:      config,
		snapshot:    snapshot,
		broadcastCh: make(chan Message, 1000),
	}
}

// SetViewProvider sets the snapshot source. It must be called before Start.
func (h *Hub) SetViewProvider(p ViewProvider) {
	h.snapshot = p
}

// Start processes broadcasts until ctx is cancelled
func (h *Hub) Start(ctx context.Context) {
	log.Info().Msg("meeting hub started")

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			log.Info().Msg("meeting hub shutting down")
			return
		case msg := <-h.broadcastCh:
			h.handleBroadcast(msg)
		}
	}
}

// OnView queues a full render for every client
func (h *Hub) OnView(v meeting.View) {
	h.enqueue(Message{Type: MessageTypeView, View: &v})
}

// OnTick queues a single-participant update for every client
func (h *Hub) OnTick(u timer.TickUpdate) {
	h.enqueue(Message{Type: MessageTypeTick, Tick: &u})
}

func (h *Hub) enqueue(msg Message) {
	select {
	case h.broadcastCh <- msg:
	default:
		log.Warn().Str("message_type", string(msg.Type)).Msg("broadcast channel full, dropping message")
	}
}

// UpgradeConnection upgrades an HTTP connection to WebSocket
func (h *Hub) UpgradeConnection(w http.ResponseWriter, r *http.Request) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("failed to upgrade connection: %w", err)
	}

	c := &Connection{
		ID:          uuid.New().String(),
		Conn:        conn,
		Send:        make(chan []byte, h.config.SendBufferSize),
		hub:         h,
		ConnectedAt: time.Now(),
	}

	if h.snapshot != nil {
		v := h.snapshot.View()
		if data, err := json.Marshal(Message{Type: MessageTypeView, View: &v}); err == nil {
			c.Send <- data
		} else {
			log.Error().Err(err).Msg("failed to marshal initial view")
		}
	}

	h.register(c)

	go c.writePump()
	go c.readPump()

	log.Info().Str("connection_id", c.ID).Msg("WebSocket connection established")
	return nil
}

// ConnectionCount returns the number of connected clients
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

func (h *Hub) register(c *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.connections[c] = true

	log.Debug().
		Str("connection_id", c.ID).
		Int("total_connections", len(h.connections)).
		Msg("connection registered")
}

func (h *Hub) unregister(c *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.connections[c]; ok {
		delete(h.connections, c)
		close(c.Send)
		log.Info().Str("connection_id", c.ID).Msg("connection unregistered")
	}
}

func (h *Hub) closeAll() {
	h.mu.RLock()
	conns := make([]*Connection, 0, len(h.connections))
	for c := range h.connections {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		h.unregister(c)
	}
}

func (h *Hub) handleBroadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal message for broadcast")
		return
	}

	// Send is only closed under the write lock, so sending under the read
	// lock cannot hit a closed channel.
	var slow []*Connection
	h.mu.RLock()
	for c := range h.connections {
		select {
		case c.Send <- data:
		default:
			slow = append(slow, c)
		}
	}
	count := len(h.connections)
	h.mu.RUnlock()

	for _, c := range slow {
		log.Warn().Str("connection_id", c.ID).Msg("connection send buffer full, closing connection")
		h.unregister(c)
		c.Conn.Close()
	}

	if msg.Type == MessageTypeView {
		log.Debug().Int("connections", count).Msg("view broadcasted")
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(c.hub.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
		c.hub.unregister(c)
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(c.hub.config.WriteTimeout))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Error().Err(err).Str("connection_id", c.ID).Msg("failed to write message to WebSocket")
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(c.hub.config.WriteTimeout))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Error().Err(err).Str("connection_id", c.ID).Msg("failed to send ping")
				return
			}
		}
	}
}

// readPump only keeps the read deadline alive; clients act through the API.
func (c *Connection) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(c.hub.config.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(c.hub.config.ReadTimeout))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(c.hub.config.ReadTimeout))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().Err(err).Str("connection_id", c.ID).Msg("unexpected WebSocket close error")
			}
			return
		}
		c.Conn.SetReadDeadline(time.Now().Add(c.hub.config.ReadTimeout))
	}
}
