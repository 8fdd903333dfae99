package api

import (
	"bytes"
	"context"
	stderrors "errors"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/maksimkurb/logstream/src/internal/log"
)

var errStreamClosed = stderrors.New("event stream closed")

// sseConn adapts a server-sent events response to stream.Conn.
// Every push becomes one "data:" event.
type sseConn struct {
	w      http.ResponseWriter
	rc     *http.ResponseController
	params url.Values
	remote string
	done   <-chan struct{}

	mu     sync.Mutex
	closed bool
}

func newSSEConn(w http.ResponseWriter, r *http.Request) *sseConn {
	return &sseConn{
		w:      w,
		rc:     http.NewResponseController(w),
		params: r.URL.Query(),
		remote: getClientIP(r),
		done:   r.Context().Done(),
	}
}

func (c *sseConn) Param(name string) string {
	return c.params.Get(name)
}

func (c *sseConn) RemoteAddr() string {
	return c.remote
}

func (c *sseConn) Send(ctx context.Context, msg []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errStreamClosed
	}

	deadline, _ := ctx.Deadline()
	if err := c.rc.SetWriteDeadline(deadline); err != nil && !stderrors.Is(err, http.ErrNotSupported) {
		return err
	}

	var buf bytes.Buffer
	for _, line := range bytes.Split(msg, []byte("\n")) {
		buf.WriteString("data: ")
		buf.Write(line)
		buf.WriteByte('\n')
	}
	buf.WriteByte('\n')

	if _, err := c.w.Write(buf.Bytes()); err != nil {
		return err
	}
	return c.rc.Flush()
}

func (c *sseConn) Done() <-chan struct{} {
	return c.done
}

// Close marks the stream finished. The response ends when the handler returns.
func (c *sseConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// StreamSSE streams the selected logger as server-sent events.
// GET /api/v1/logs/stream?logger=<name>&format=html|json
func (h *Handler) StreamSSE(w http.ResponseWriter, r *http.Request) {
	if _, ok := w.(http.Flusher); !ok {
		WriteStreamingUnsupported(w)
		return
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering
	w.WriteHeader(http.StatusOK)

	conn := newSSEConn(w, r)
	if err := h.streamer.Serve(r.Context(), conn); err != nil {
		log.Debugf("SSE session ended: %v", err)
	}

	// Leave the connection without a pending deadline for keep-alive reuse.
	_ = conn.rc.SetWriteDeadline(time.Time{})
}
