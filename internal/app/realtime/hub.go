// Package realtime is the websocket gateway for team rooms. A Hub
// goroutine owns all room state; clients and HTTP handlers talk to it
// only through channels, so no room map is ever touched concurrently.
//
// Delivery is at-most-once to currently connected room members. There is
// no replay and no cross-instance fan-out; a slow client whose send
// buffer fills is disconnected rather than allowed to stall the room.
package realtime

import (
	"context"

	"go.uber.org/zap"
)

type joinRequest struct {
	client *Client
	teamID string
}

type roomMessage struct {
	teamID  string
	payload []byte
	exclude *Client
}

// Broadcaster is the room fan-out surface HTTP handlers depend on.
// Hub implements it; tests substitute a recorder.
type Broadcaster interface {
	Broadcast(teamID, event string, data interface{})
}

// Hub routes events between connected clients and team rooms.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	join       chan joinRequest
	leave      chan *Client
	broadcast  chan roomMessage

	// rooms and clients are owned by the Run goroutine.
	rooms   map[string]map[*Client]struct{}
	clients map[*Client]struct{}

	log *zap.Logger
}

// NewHub creates a hub. Call Run before serving connections.
func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		join:       make(chan joinRequest),
		leave:      make(chan *Client),
		broadcast:  make(chan roomMessage, 64),
		rooms:      make(map[string]map[*Client]struct{}),
		clients:    make(map[*Client]struct{}),
		log:        log,
	}
}

// Run processes hub events until ctx is cancelled. On shutdown every
// client's send channel is closed, which unwinds the write pumps.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				close(c.send)
			}
			return

		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.log.Debug("client connected",
				zap.String("conn_id", c.connID),
				zap.String("user_id", c.userID))

		case c := <-h.unregister:
			if _, ok := h.clients[c]; !ok {
				continue
			}
			h.removeFromRoom(c)
			delete(h.clients, c)
			close(c.send)
			h.log.Debug("client disconnected",
				zap.String("conn_id", c.connID),
				zap.String("user_id", c.userID))

		case req := <-h.join:
			if _, ok := h.clients[req.client]; !ok {
				continue
			}
			// A socket is in at most one room; joining leaves the old one.
			h.removeFromRoom(req.client)
			room, ok := h.rooms[req.teamID]
			if !ok {
				room = make(map[*Client]struct{})
				h.rooms[req.teamID] = room
			}
			room[req.client] = struct{}{}
			req.client.room = req.teamID

		case c := <-h.leave:
			h.removeFromRoom(c)

		case msg := <-h.broadcast:
			room, ok := h.rooms[msg.teamID]
			if !ok {
				continue
			}
			for c := range room {
				if c == msg.exclude {
					continue
				}
				select {
				case c.send <- msg.payload:
				default:
					// Send buffer full: the client is too slow to keep
					// up, so drop it instead of blocking the room.
					h.removeFromRoom(c)
					delete(h.clients, c)
					close(c.send)
					h.log.Warn("dropping slow client",
						zap.String("conn_id", c.connID),
						zap.String("user_id", c.userID))
				}
			}
		}
	}
}

// removeFromRoom detaches a client from its current room, deleting the
// room when it empties. Run-goroutine only.
func (h *Hub) removeFromRoom(c *Client) {
	if c.room == "" {
		return
	}
	if room, ok := h.rooms[c.room]; ok {
		delete(room, c)
		if len(room) == 0 {
			delete(h.rooms, c.room)
		}
	}
	c.room = ""
}

// Broadcast sends an event to every client in a team's room. Callers
// outside the hub goroutine use this; encoding failures are logged and
// the event dropped.
func (h *Hub) Broadcast(teamID, event string, data interface{}) {
	h.send(teamID, event, data, nil)
}

func (h *Hub) send(teamID, event string, data interface{}, exclude *Client) {
	payload, err := encode(event, data)
	if err != nil {
		h.log.Error("encode realtime event", zap.String("event", event), zap.Error(err))
		return
	}
	h.broadcast <- roomMessage{teamID: teamID, payload: payload, exclude: exclude}
}
