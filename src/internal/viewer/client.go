package viewer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/maksimkurb/logstream/src/internal/logtail"
)

// DefaultPath is the server's websocket endpoint.
const DefaultPath = "/ws/log"

// Batch is one decoded push from the server.
type Batch struct {
	Logger   string         `json:"logger"`
	Resolved string         `json:"resolved,omitempty"`
	File     string         `json:"file,omitempty"`
	Notice   string         `json:"notice,omitempty"`
	Lines    []logtail.Line `json:"lines"`
}

// Source yields pushes until the connection ends.
type Source interface {
	Next() (Batch, error)
	Close() error
}

// Client reads JSON pushes from a websocket session.
type Client struct {
	conn *websocket.Conn
}

// StreamURL builds the websocket URL for logger on server. server may be
// "host:port" or an http(s)/ws(s) URL.
func StreamURL(server, logger string) (string, error) {
	if !strings.Contains(server, "://") {
		server = "ws://" + server
	}
	u, err := url.Parse(server)
	if err != nil {
		return "", fmt.Errorf("invalid server address %q: %w", server, err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid server address %q: missing host", server)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + DefaultPath

	q := url.Values{}
	q.Set("logger", logger)
	q.Set("format", "json")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Dial opens a session for logger.
func Dial(ctx context.Context, server, logger string) (*Client, error) {
	target, err := StreamURL(server, logger)
	if err != nil {
		return nil, err
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", target, err)
	}
	return &Client{conn: conn}, nil
}

// Next blocks until the server pushes the next window.
func (c *Client) Next() (Batch, error) {
	var b Batch
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return b, err
	}
	if err := json.Unmarshal(data, &b); err != nil {
		return b, fmt.Errorf("invalid push: %w", err)
	}
	return b, nil
}

func (c *Client) Close() error {
	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return c.conn.Close()
}
