package ws

import (
	"context"

	"freightflow/internal/order-service/core/domain/events"

	"github.com/gorilla/websocket"
)

type Client struct {
	ctx      context.Context
	conn     *websocket.Conn
	dis      *Dispatcher
	egress   chan events.NotificationEvent
	audience string
}

func NewClient(ctx context.Context, conn *websocket.Conn, dis *Dispatcher, audience string) *Client {
	return &Client{
		ctx:      ctx,
		conn:     conn,
		dis:      dis,
		egress:   make(chan events.NotificationEvent, 16),
		audience: audience,
	}
}

// ReadMessage drains the connection; the feed is push-only, so inbound
// frames are discarded, but the read loop is what detects a close.
func (c *Client) ReadMessage() {
	defer c.dis.RemoveClient(c)
	c.conn.SetReadLimit(1024)

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.dis.log.Warn("unexpected ws close", "audience", c.audience)
			}
			break
		}
	}
}

func (c *Client) WriteMessage() {
	for {
		select {
		case <-c.ctx.Done():
			c.conn.Close()
			return
		case ev, ok := <-c.egress:
			if !ok {
				c.conn.Close()
				return
			}
			if err := c.conn.WriteJSON(ev); err != nil {
				c.dis.log.Warn("cannot write ws event", "audience", c.audience)
				c.dis.RemoveClient(c)
				return
			}
		}
	}
}
