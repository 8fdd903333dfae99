package api

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/maksimkurb/logstream/src/internal/log"
)

const wsCloseGrace = time.Second

// wsConn adapts a websocket connection to stream.Conn.
type wsConn struct {
	conn   *websocket.Conn
	params url.Values
	remote string

	writeMu  sync.Mutex
	done     chan struct{}
	doneOnce sync.Once
}

func newWSConn(conn *websocket.Conn, r *http.Request) *wsConn {
	c := &wsConn{
		conn:   conn,
		params: r.URL.Query(),
		remote: getClientIP(r),
		done:   make(chan struct{}),
	}
	go c.readLoop()
	return c
}

// readLoop drains incoming frames so close and ping frames are processed.
// Viewers send nothing meaningful; any read error means they are gone.
func (c *wsConn) readLoop() {
	defer c.markDone()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *wsConn) markDone() {
	c.doneOnce.Do(func() { close(c.done) })
}

func (c *wsConn) Param(name string) string {
	return c.params.Get(name)
}

func (c *wsConn) RemoteAddr() string {
	return c.remote
}

func (c *wsConn) Send(ctx context.Context, msg []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	deadline, _ := ctx.Deadline()
	if err := c.conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, msg)
}

func (c *wsConn) Done() <-chan struct{} {
	return c.done
}

// Close sends a close frame when possible and closes the socket.
func (c *wsConn) Close() error {
	c.writeMu.Lock()
	_ = c.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(wsCloseGrace),
	)
	c.writeMu.Unlock()

	err := c.conn.Close()
	c.markDone()
	return err
}

// StreamWebSocket upgrades the request and streams the selected logger.
// GET /ws/log?logger=<name>&format=html|json
func (h *Handler) StreamWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied with an HTTP error.
		log.Debugf("WebSocket upgrade failed: %v", err)
		return
	}

	if err := h.streamer.Serve(r.Context(), newWSConn(conn, r)); err != nil {
		log.Debugf("WebSocket session ended: %v", err)
	}
}
