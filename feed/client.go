package feed

import (
	"context"
	"encoding/gob"
	"fmt"
	"net"

	"github.com/coder/websocket"
)

// Client reads snapshots from a Hub.
type Client struct {
	conn net.Conn
	dec  *gob.Decoder
}

// Dial connects to a feed URL such as ws://localhost:8081/feed.
func Dial(ctx context.Context, url string) (*Client, error) {
	c, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("feed: dial %s: %w", url, err)
	}
	c.SetReadLimit(readLimit)
	conn := websocket.NetConn(context.Background(), c, websocket.MessageBinary)
	return &Client{conn: conn, dec: gob.NewDecoder(conn)}, nil
}

// Next blocks until the next snapshot arrives.
func (c *Client) Next() (Snapshot, error) {
	var s Snapshot
	if err := c.dec.Decode(&s); err != nil {
		return Snapshot{}, fmt.Errorf("feed: decode: %w", err)
	}
	return s, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}
