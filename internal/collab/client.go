package collab

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/coder/websocket"
)

const (
	writeTimeout   = 10 * time.Second
	pingInterval   = 30 * time.Second
	maxInboundSize = 64 * 1024
	sendQueueSize  = 256
)

// Client is one websocket viewer of a diagram. Outbound messages are queued
// on send and written by WritePump; ReadPump feeds inbound messages to the hub.
type Client struct {
	hub  *Hub
	conn *websocket.Conn

	send   chan []byte
	mu     sync.Mutex
	closed bool

	UserID      string
	DisplayName string
	DiagramID   string
	ClientID    string
}

func NewClient(hub *Hub, conn *websocket.Conn, userID, displayName, diagramID, clientID string) *Client {
	return &Client{
		hub:         hub,
		conn:        conn,
		send:        make(chan []byte, sendQueueSize),
		UserID:      userID,
		DisplayName: displayName,
		DiagramID:   diagramID,
		ClientID:    clientID,
	}
}

// ReadPump blocks until the connection ends, then leaves the room.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	c.conn.SetReadLimit(maxInboundSize)
	for {
		msg, err := c.readMessage(ctx)
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.As(err, &syntaxErr), errors.As(err, &typeErr):
			slog.Warn("invalid message", "error", err, "user", c.UserID)
			c.Send(newMessage(TypeError, ErrorPayload{Message: "invalid message"}))
			continue
		case err != nil:
			if !closedNormally(err) {
				slog.Debug("read error", "error", err, "user", c.UserID)
			}
			return
		}
		c.hub.handleMessage(c, msg)
	}
}

// readMessage reads one frame and stamps it with the sender's identity.
func (c *Client) readMessage(ctx context.Context) (*Message, error) {
	_, data, err := c.conn.Read(ctx)
	if err != nil {
		return nil, err
	}
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	msg.UserID = c.UserID
	msg.ClientID = c.ClientID
	msg.DiagramID = c.DiagramID
	return &msg, nil
}

func closedNormally(err error) bool {
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		return true
	}
	return false
}

// WritePump drains the send queue and keeps the connection alive with pings.
// It returns when the queue is closed, a write fails or ctx ends.
func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		var err error
		select {
		case data, ok := <-c.send:
			if !ok {
				return
			}
			err = c.withTimeout(ctx, func(ctx context.Context) error {
				return c.conn.Write(ctx, websocket.MessageText, data)
			})
		case <-ticker.C:
			err = c.withTimeout(ctx, c.conn.Ping)
		case <-ctx.Done():
			return
		}
		if err != nil {
			slog.Debug("write error", "error", err, "user", c.UserID)
			return
		}
	}
}

func (c *Client) withTimeout(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return fn(ctx)
}

// Send queues msg for the client. Messages are dropped once the queue is
// full or closed.
func (c *Client) Send(msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("marshal message", "error", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- data:
	default:
		slog.Warn("send queue full, dropping message", "user", c.UserID, "type", msg.Type)
	}
}

// closeSend closes the outgoing queue; later sends are dropped.
func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}
