// internal/app/realtime/client.go
package realtime

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dalemusser/collabhub/internal/app/system/auth"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser clients connect cross-origin in development; token auth is
	// the gate, not the Origin header.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Client is one websocket connection. Identity comes from the bearer
// token presented at upgrade; room membership is tracked by the hub.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	connID   string
	userID   string
	userName string

	// room is the team id of the joined room, owned by the hub goroutine.
	room string

	log *zap.Logger
}

// ServeWS authenticates the request and upgrades it to a websocket,
// wiring the connection into the hub.
func ServeWS(hub *Hub, mgr *auth.Manager, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := auth.TokenFromRequest(r)
		if raw == "" {
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}
		u, err := mgr.AuthenticateToken(r.Context(), raw)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade already wrote the response.
			log.Debug("websocket upgrade failed", zap.Error(err))
			return
		}

		c := &Client{
			hub:      hub,
			conn:     conn,
			send:     make(chan []byte, sendBufferSize),
			connID:   uuid.NewString(),
			userID:   u.ID,
			userName: u.Name,
			log:      log,
		}
		hub.register <- c

		go c.writePump()
		go c.readPump()
	}
}

// readPump reads client events until the connection drops and hands them
// to the hub. One reader per connection.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Debug("websocket read error", zap.String("conn_id", c.connID), zap.Error(err))
			}
			return
		}
		c.handleEvent(raw)
	}
}

// handleEvent dispatches one inbound event. Unknown events and malformed
// payloads are ignored; a chat socket has no error back-channel worth
// keeping open for them.
func (c *Client) handleEvent(raw []byte) {
	var ev inbound
	if err := json.Unmarshal(raw, &ev); err != nil {
		return
	}
	var ref roomRef
	if len(ev.Data) > 0 {
		if err := json.Unmarshal(ev.Data, &ref); err != nil {
			return
		}
	}

	switch ev.Event {
	case EvJoinTeamRoom:
		if ref.TeamID == "" {
			return
		}
		c.hub.join <- joinRequest{client: c, teamID: ref.TeamID}
	case EvLeaveTeamRoom:
		// Leaving needs no payload; the hub knows the client's room.
		c.hub.leave <- c
	case EvTypingStart:
		if ref.TeamID == "" {
			return
		}
		c.hub.send(ref.TeamID, EvUserTyping, TypingPayload{
			TeamID:   ref.TeamID,
			UserID:   c.userID,
			UserName: c.userName,
		}, c)
	case EvTypingStop:
		if ref.TeamID == "" {
			return
		}
		c.hub.send(ref.TeamID, EvUserStopTyping, TypingPayload{
			TeamID:   ref.TeamID,
			UserID:   c.userID,
			UserName: c.userName,
		}, c)
	}
}

// writePump writes queued events and pings until the send channel closes.
// One writer per connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
