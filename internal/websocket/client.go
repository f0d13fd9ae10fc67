package websocket

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10 // must be less than pongWait

	// maxMessageSize bounds inbound subscription frames
	maxMessageSize = 512

	sendBufferSize = 256
)

// SubscribeAction is the only inbound frame clients may send:
// {"action":"subscribe","entities":["dashboard","baseline"]}
const SubscribeAction = "subscribe"

type subscribeFrame struct {
	Action   string       `json:"action"`
	Entities []EntityType `json:"entities"`
}

// ParseSubscription decodes a subscribe frame into the set of entities the client wants.
// An empty entity list subscribes to everything (nil set).
func ParseSubscription(data []byte) (map[EntityType]bool, error) {
	var frame subscribeFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		return nil, fmt.Errorf("decode subscribe frame: %w", err)
	}
	if frame.Action != SubscribeAction {
		return nil, fmt.Errorf("unsupported action %q", frame.Action)
	}
	if len(frame.Entities) == 0 {
		return nil, nil
	}

	topics := make(map[EntityType]bool, len(frame.Entities))
	for _, entity := range frame.Entities {
		switch entity {
		case EntityTypeBaseline, EntityTypeDashboard:
			topics[entity] = true
		default:
			return nil, fmt.Errorf("unknown entity %q", entity)
		}
	}
	return topics, nil
}

// Client is one dashboard connection scoped to a single organization
type Client struct {
	id     string
	orgID  uuid.UUID
	conn   *websocket.Conn
	hub    *Hub
	logger zerolog.Logger

	send      chan []byte
	mu        sync.RWMutex
	closed    bool
	topics    map[EntityType]bool // nil means every entity
	closeOnce sync.Once
}

// NewClient creates a client subscribed to every entity of its organization
func NewClient(conn *websocket.Conn, orgID uuid.UUID, hub *Hub) *Client {
	id := uuid.New().String()
	return &Client{
		id:    id,
		orgID: orgID,
		conn:  conn,
		hub:   hub,
		logger: log.With().
			Str("client_id", id).
			Str("organization_id", orgID.String()).
			Logger(),
		send: make(chan []byte, sendBufferSize),
	}
}

// ID returns the client's unique identifier
func (c *Client) ID() string {
	return c.id
}

// OrganizationID returns the organization the client belongs to
func (c *Client) OrganizationID() uuid.UUID {
	return c.orgID
}

// Subscribed reports whether events about entity should reach this client
func (c *Client) Subscribed(entity EntityType) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.topics == nil || c.topics[entity]
}

// Send queues an encoded event. A full buffer counts as a dead client.
func (c *Client) Send(data []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return ErrClientClosed
	}

	select {
	case c.send <- data:
		return nil
	default:
		return ErrClientClosed
	}
}

// SendEvent encodes and queues a single event, bypassing the hub
func (c *Client) SendEvent(event Event) error {
	data, err := event.ToJSON()
	if err != nil {
		return err
	}
	return c.Send(data)
}

// Close closes the connection. Safe to call more than once.
func (c *Client) Close() error {
	var closeErr error
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		close(c.send)
		c.mu.Unlock()

		closeErr = c.conn.Close()
	})
	return closeErr
}

// IsClosed returns whether the client is closed
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

func (c *Client) setTopics(topics map[EntityType]bool) {
	c.mu.Lock()
	c.topics = topics
	c.mu.Unlock()
}

// ReadPump reads subscribe frames until the connection drops. Run it in its own goroutine.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn().Err(err).Msg("WebSocket unexpected close")
			}
			return
		}

		topics, err := ParseSubscription(data)
		if err != nil {
			c.logger.Debug().Err(err).Msg("Ignoring invalid subscribe frame")
			continue
		}
		c.setTopics(topics)
		c.logger.Debug().Int("entities", len(topics)).Msg("WebSocket subscription updated")
	}
}

// WritePump drains the send buffer and keeps the connection alive with pings.
// Run it in its own goroutine.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.Warn().Err(err).Msg("WebSocket write error")
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
