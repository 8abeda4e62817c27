/*
Package doc implements the realtime document collaboration coordinator.

This file defines the Client struct, representing an active WebSocket
connection. It manages the transport lifecycle (ReadPump and WritePump),
parses inbound events into session calls, and implements the Sink interface
for outbound delivery.
*/
package doc

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"livedocs/internal/app/user"
	"livedocs/internal/pkg/logx"
	"livedocs/internal/pkg/randx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a message sent by the client.
	// Document content travels in update/save events, so the ceiling is
	// generous compared to a chat payload.
	maxMessageSize = 1 << 20

	// sendChannelBuffer is the queue depth for outbound messages; a client
	// that cannot drain it has its messages dropped.
	sendChannelBuffer = 256
)

// Client is one WebSocket connection bound to a verified user. A connection
// is joined to at most one document at a time.
type Client struct {
	// ConnID is the opaque identifier of this transport session.
	ConnID string

	manager *Manager

	// session is non-nil once the client has joined a document. It is read
	// and written only on the ReadPump goroutine.
	session *Session

	conn *websocket.Conn

	user user.User

	// send queues marshaled messages waiting for the WritePump.
	send chan []byte

	logger zerolog.Logger
}

// NewClient wraps an upgraded WebSocket connection for the verified user.
func NewClient(manager *Manager, wsConn *websocket.Conn, u user.User) *Client {
	connID := randx.ConnectionID()

	clientLogger := logx.Logger().With().
		Str("connection_id", connID).
		Str("user_id", u.ID).
		Logger()

	return &Client{
		ConnID:  connID,
		manager: manager,
		conn:    wsConn,
		user:    u,
		send:    make(chan []byte, sendChannelBuffer),
		logger:  clientLogger,
	}
}

// Send implements Sink. It marshals the message and queues it without
// blocking; a full queue reports an error and the message is dropped.
func (c *Client) Send(msg Message) error {
	messageBytes, err := json.Marshal(msg)
	if err != nil {
		c.logger.Error().Err(err).Msg("Error marshaling outbound message.")
		return err
	}

	select {
	case c.send <- messageBytes:
		return nil
	default:
		c.logger.Warn().Int("queue_len", len(c.send)).Msg("Client send channel full, dropping message.")
		return ErrSendQueueFull
	}
}

// ReadPump reads inbound messages until the connection closes, dispatching
// each to the joined session. It performs disconnect cleanup on exit.
func (c *Client) ReadPump() {
	defer c.cleanupOnDisconnect()

	c.conn.SetReadLimit(maxMessageSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, messageBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Error reading message (client close/going away)")
			}
			break
		}

		c.processInboundMessage(messageBytes)
	}
}

// cleanupOnDisconnect unregisters the connection from its session and closes
// the transport. Disconnect is idempotent on the session side.
func (c *Client) cleanupOnDisconnect() {
	c.logger.Info().Msg("Client connection cleanup starting.")

	if c.session != nil {
		c.session.Leave(c.ConnID)
	}

	if err := c.conn.Close(); err != nil {
		c.logger.Error().Err(err).Msg("Client connection close error")
	}
}

// processInboundMessage parses one raw frame and routes it by type. Malformed
// frames and events missing a document id are dropped silently; there is no
// request/response contract on this surface.
func (c *Client) processInboundMessage(messageBytes []byte) {
	var inbound struct {
		Type    MessageType     `json:"type"`
		Payload json.RawMessage `json:"payload,omitempty"`
	}

	if err := json.Unmarshal(messageBytes, &inbound); err != nil {
		c.logger.Warn().Err(err).Msg("Client sent invalid JSON")
		return
	}

	switch inbound.Type {
	case TypeJoinDocument:
		c.handleJoin(inbound.Payload)

	case TypeUpdate:
		var p ContentPayload
		if s := c.joinedSession(inbound.Payload, &p, &p.DocumentID); s != nil {
			s.Edit(c.ConnID, p.Content)
		}

	case TypeCursorMove:
		var p CursorPayload
		if s := c.joinedSession(inbound.Payload, &p, &p.DocumentID); s != nil {
			s.MoveCursor(c.ConnID, p.X, p.Y)
		}

	case TypeSaveDocument:
		var p ContentPayload
		if s := c.joinedSession(inbound.Payload, &p, &p.DocumentID); s != nil {
			s.Save(c.ConnID, p.Content)
		}

	case TypeDeleteDocument:
		var p DocumentRefPayload
		if s := c.joinedSession(inbound.Payload, &p, &p.DocumentID); s != nil {
			s.Delete(c.ConnID)
		}

	default:
		c.logger.Warn().Str("msg_type", string(inbound.Type)).Msg("Client sent unsupported message type")
	}
}

// handleJoin processes join_document. The identity comes from the verified
// user bound at upgrade time; the payload contributes the document id and the
// client's presence color.
func (c *Client) handleJoin(payloadBytes json.RawMessage) {
	var p JoinPayload
	if err := json.Unmarshal(payloadBytes, &p); err != nil {
		c.logger.Warn().Err(err).Msg("Client sent invalid join payload")
		return
	}

	if p.DocumentID == "" {
		c.logger.Warn().Msg("Join rejected: missing document id")
		return
	}

	if c.session != nil {
		c.logger.Warn().
			Str("document_id", p.DocumentID).
			Str("joined_document_id", c.session.DocumentID).
			Msg("Join ignored: connection already joined a document")
		return
	}

	u := c.user
	u.Color = p.Color
	if u.Color == "" {
		u.Color = randx.PresenceColor(u.ID)
	}
	c.user = u

	c.session = c.manager.GetOrCreate(p.DocumentID)
	c.session.Join(c.ConnID, u, c)
}

// joinedSession unmarshals the payload and returns the joined session when
// the event is well formed and addresses the joined document. Everything else
// is a no-op: malformed frames, events before a join, missing or foreign
// document ids.
func (c *Client) joinedSession(payloadBytes json.RawMessage, dst any, documentID *string) *Session {
	if err := json.Unmarshal(payloadBytes, dst); err != nil {
		c.logger.Warn().Err(err).Msg("Client sent invalid payload")
		return nil
	}

	if c.session == nil {
		c.logger.Warn().Msg("Event ignored: connection has not joined a document")
		return nil
	}

	if *documentID == "" || *documentID != c.session.DocumentID {
		c.logger.Warn().Str("document_id", *documentID).Msg("Event ignored: document id does not match joined document")
		return nil
	}

	return c.session
}

// WritePump writes queued messages to the WebSocket connection and keeps the
// heartbeat alive.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		if err := c.conn.Close(); err != nil {
			c.logger.Error().Err(err).Msg("Client connection close error in WritePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !c.writeQueuedMessage(message, ok) {
				return
			}

		case <-ticker.C:
			if !c.writePingMessage() {
				return
			}
		}
	}
}

// writeQueuedMessage writes one message from the send channel. It returns
// false when the WritePump loop should terminate.
func (c *Client) writeQueuedMessage(message []byte, ok bool) bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if !ok {
		if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
			c.logger.Error().Err(err).Msg("Error writing close message")
		}
		return false
	}

	if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
		c.logger.Error().Err(err).Msg("Error writing message")
		return false
	}

	return true
}

// writePingMessage sends a heartbeat ping. It returns false when the
// WritePump loop should terminate.
func (c *Client) writePingMessage() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
		return false
	}

	if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		c.logger.Error().Err(err).Msg("Error writing ping")
		return false
	}

	return true
}
