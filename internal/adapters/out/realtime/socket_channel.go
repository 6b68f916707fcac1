package realtime

import (
	"context"
	"sync"
	"time"

	"marketplace/internal/core/domain/model/dispatch"

	"github.com/gorilla/websocket"
)

// DefaultWriteTimeout bounds a single write when the caller's context has no earlier deadline.
const DefaultWriteTimeout = 10 * time.Second

// SocketChannel is a Channel over a gorilla websocket connection.
// gorilla connections allow one concurrent writer, so writes are serialised.
type SocketChannel struct {
	conn         *websocket.Conn
	writeTimeout time.Duration

	mu     sync.Mutex
	closed bool
}

// NewSocketChannel wraps an upgraded connection. A zero writeTimeout selects DefaultWriteTimeout.
func NewSocketChannel(conn *websocket.Conn, writeTimeout time.Duration) *SocketChannel {
	if writeTimeout <= 0 {
		writeTimeout = DefaultWriteTimeout
	}

	return &SocketChannel{
		conn:         conn,
		writeTimeout: writeTimeout,
	}
}

// Send writes msg as a JSON text frame.
func (c *SocketChannel) Send(ctx context.Context, msg dispatch.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return websocket.ErrCloseSent
	}

	if err := c.conn.SetWriteDeadline(c.deadline(ctx)); err != nil {
		return err
	}

	return c.conn.WriteJSON(msg)
}

// Ping writes a ping control frame; the peer's pong extends the read deadline
// set by the socket handler.
func (c *SocketChannel) Ping(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return websocket.ErrCloseSent
	}

	return c.conn.WriteControl(websocket.PingMessage, nil, c.deadline(ctx))
}

// Close sends a close frame and closes the connection. Later calls are no-ops.
func (c *SocketChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	_ = c.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	return c.conn.Close()
}

func (c *SocketChannel) deadline(ctx context.Context) time.Time {
	deadline := time.Now().Add(c.writeTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	return deadline
}
