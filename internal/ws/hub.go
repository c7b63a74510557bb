// Package ws pushes roster changes to connected browsers over websockets.
package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	sendBuffer = 256
)

// Event is the frame written to subscribers.
type Event struct {
	EventType  string `json:"event_type"`
	ScheduleID uint   `json:"schedule_id"`
	Data       any    `json:"data,omitempty"`
}

type outbound struct {
	scheduleID uint
	payload    []byte
}

// Hub tracks the clients watching each schedule.
type Hub struct {
	clients    map[uint]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan outbound
	done       chan struct{}
	mu         sync.RWMutex
	log        *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[uint]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan outbound, sendBuffer),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Run serves the hub until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.closeAll()
			return
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.scheduleID] == nil {
				h.clients[client.scheduleID] = make(map[*Client]bool)
			}
			h.clients[client.scheduleID][client] = true
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			h.drop(client)
			h.mu.Unlock()
		case msg := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients[msg.scheduleID] {
				select {
				case client.send <- msg.payload:
				default:
					h.drop(client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// drop must be called with mu held.
func (h *Hub) drop(client *Client) {
	clients, ok := h.clients[client.scheduleID]
	if !ok || !clients[client] {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.clients, client.scheduleID)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, clients := range h.clients {
		for client := range clients {
			h.drop(client)
		}
	}
}

// Clients returns the number of subscribers of a schedule.
func (h *Hub) Clients(scheduleID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[scheduleID])
}

// Broadcast queues an event for every subscriber of the schedule. It never
// blocks: when the queue is full the event is dropped and logged.
func (h *Hub) Broadcast(scheduleID uint, eventType string, data any) {
	payload, err := json.Marshal(Event{EventType: eventType, ScheduleID: scheduleID, Data: data})
	if err != nil {
		h.log.Error("encode ws event", zap.String("event_type", eventType), zap.Error(err))
		return
	}
	select {
	case h.broadcast <- outbound{scheduleID: scheduleID, payload: payload}:
	default:
		h.log.Warn("ws broadcast queue full", zap.Uint("schedule_id", scheduleID))
	}
}

// Client is one websocket connection subscribed to a schedule.
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	scheduleID uint
}

// readPump discards inbound frames and notices disconnects.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.log.Debug("ws read", zap.Uint("schedule_id", c.scheduleID), zap.Error(err))
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
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
