package stream

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/maksimkurb/logstream/src/internal/errors"
	"github.com/maksimkurb/logstream/src/internal/logtail"
)

const fallback = "No logfile configured for selected logger."

type fakeConn struct {
	params    map[string]string
	failAfter int
	closeErr  error

	// goneOnFail marks the viewer as gone when a send fails.
	goneOnFail bool

	mu       sync.Mutex
	msgs     [][]byte
	sent     chan []byte
	done     chan struct{}
	doneOnce sync.Once
	closes   atomic.Int32
}

func newFakeConn(params map[string]string) *fakeConn {
	return &fakeConn{
		params:    params,
		failAfter: -1,
		sent:      make(chan []byte, 128),
		done:      make(chan struct{}),
	}
}

func (c *fakeConn) Param(name string) string {
	return c.params[name]
}

func (c *fakeConn) Send(ctx context.Context, msg []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failAfter >= 0 && len(c.msgs) >= c.failAfter {
		if c.goneOnFail {
			c.disconnect()
		}
		return stderrors.New("broken pipe")
	}
	c.msgs = append(c.msgs, msg)
	select {
	case c.sent <- msg:
	default:
	}
	return nil
}

func (c *fakeConn) Done() <-chan struct{} {
	return c.done
}

func (c *fakeConn) Close() error {
	c.closes.Add(1)
	return c.closeErr
}

func (c *fakeConn) disconnect() {
	c.doneOnce.Do(func() { close(c.done) })
}

func (c *fakeConn) next(t *testing.T) string {
	t.Helper()
	select {
	case msg := <-c.sent:
		return string(msg)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a push")
		return ""
	}
}

type mapResolver map[string]string

func (m mapResolver) ResolveBackingFile(name string) (string, bool) {
	path, ok := m[name]
	return path, ok
}

type panicTailer struct{}

func (panicTailer) Tail(path string, n int) []logtail.Line {
	panic("read exploded")
}

func testConfig() Config {
	return Config{
		Interval:        5 * time.Millisecond,
		Window:          30,
		DefaultLogger:   "app",
		FallbackMessage: fallback,
		WriteTimeout:    time.Second,
	}
}

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.log")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write log: %v", err)
	}
	return path
}

func runSession(s *Session, ctx context.Context) <-chan error {
	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx) }()
	return errCh
}

func waitErr(t *testing.T, errCh <-chan error) error {
	t.Helper()
	select {
	case err := <-errCh:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for Run to return")
		return nil
	}
}

func TestSession_UnresolvableLoggerDegrades(t *testing.T) {
	conn := newFakeConn(map[string]string{ParamLogger: "nonexistent"})
	s := NewSession(conn, mapResolver{}, &logtail.Tailer{}, testConfig())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := runSession(s, ctx)

	for i := 0; i < 3; i++ {
		if got := conn.next(t); got != fallback {
			t.Errorf("push %d = %q, want %q", i, got, fallback)
		}
	}
	if s.State() != StateActive {
		t.Errorf("State() = %v, want active", s.State())
	}
	if !s.Info().Degraded {
		t.Error("Expected session to report degraded")
	}

	cancel()
	if err := waitErr(t, errCh); err != nil {
		t.Errorf("Run() error = %v, want nil", err)
	}
	if s.State() != StateClosed {
		t.Errorf("State() = %v, want closed", s.State())
	}
}

func TestSession_FallsBackToDefaultLogger(t *testing.T) {
	path := writeLog(t, "booted\nWARNING low memory\n")
	conn := newFakeConn(map[string]string{ParamLogger: "missing"})
	s := NewSession(conn, mapResolver{"app": path}, &logtail.Tailer{}, testConfig())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runSession(s, ctx)

	want := `booted<br/><span class="text-orange-300">WARNING low memory</span><br/>`
	if got := conn.next(t); got != want {
		t.Errorf("push = %q, want %q", got, want)
	}

	info := s.Info()
	if info.Logger != "missing" || info.Resolved != "app" || info.File != path {
		t.Errorf("Info() = %+v", info)
	}
}

func TestSession_TickOutcomes(t *testing.T) {
	path := writeLog(t, "a\nb\n")

	tests := []struct {
		name     string
		resolver mapResolver
		logger   string
		want     Outcome
	}{
		{name: "resolved logger", resolver: mapResolver{"db": path}, logger: "db", want: OutcomeDelivered},
		{name: "resolved but file missing", resolver: mapResolver{"db": path + ".gone"}, logger: "db", want: OutcomeDelivered},
		{name: "default logger", resolver: mapResolver{"app": path}, logger: "", want: OutcomeDelivered},
		{name: "nothing resolves", resolver: mapResolver{}, logger: "db", want: OutcomeDegraded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := newFakeConn(map[string]string{ParamLogger: tt.logger})
			s := NewSession(conn, tt.resolver, &logtail.Tailer{}, testConfig())
			s.activate()

			res := s.Tick(context.Background())
			if res.Outcome != tt.want || res.Err != nil {
				t.Errorf("Tick() = %v (%v), want %v", res.Outcome, res.Err, tt.want)
			}
		})
	}
}

func TestSession_PushesImmediately(t *testing.T) {
	path := writeLog(t, "ready\n")
	cfg := testConfig()
	cfg.Interval = time.Hour

	conn := newFakeConn(map[string]string{ParamLogger: "app"})
	s := NewSession(conn, mapResolver{"app": path}, &logtail.Tailer{}, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runSession(s, ctx)

	if got := conn.next(t); got != "ready<br/>" {
		t.Errorf("first push = %q", got)
	}
}

func TestSession_WindowFollowsFile(t *testing.T) {
	path := writeLog(t, "one\n")
	cfg := testConfig()
	cfg.Window = 2

	conn := newFakeConn(map[string]string{ParamLogger: "app", ParamFormat: "json"})
	s := NewSession(conn, mapResolver{"app": path}, &logtail.Tailer{}, cfg)
	s.activate()

	if res := s.Tick(context.Background()); res.Outcome != OutcomeDelivered {
		t.Fatalf("Tick() = %v", res.Outcome)
	}
	if err := os.WriteFile(path, []byte("one\ntwo\nERROR three\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if res := s.Tick(context.Background()); res.Outcome != OutcomeDelivered {
		t.Fatalf("Tick() = %v", res.Outcome)
	}

	var last struct {
		Lines []struct {
			Severity string `json:"severity"`
			Text     string `json:"text"`
		} `json:"lines"`
	}
	if err := json.Unmarshal(conn.msgs[1], &last); err != nil {
		t.Fatalf("invalid json push: %v", err)
	}
	if len(last.Lines) != 2 || last.Lines[0].Text != "two" || last.Lines[1].Severity != "error" {
		t.Errorf("unexpected window: %+v", last.Lines)
	}
}

func TestSession_ConcurrentSessionsSeeSameWindow(t *testing.T) {
	path := writeLog(t, "start\nERROR disk full\ndone\n")
	resolver := mapResolver{"app": path}
	tailer := &logtail.Tailer{}

	conns := []*fakeConn{
		newFakeConn(map[string]string{ParamLogger: "app"}),
		newFakeConn(map[string]string{ParamLogger: "app"}),
	}

	var wg sync.WaitGroup
	for _, conn := range conns {
		wg.Add(1)
		go func(conn *fakeConn) {
			defer wg.Done()
			s := NewSession(conn, resolver, tailer, testConfig())
			s.activate()
			for i := 0; i < 5; i++ {
				s.Tick(context.Background())
			}
		}(conn)
	}
	wg.Wait()

	for i := 0; i < 5; i++ {
		if string(conns[0].msgs[i]) != string(conns[1].msgs[i]) {
			t.Errorf("push %d differs: %q vs %q", i, conns[0].msgs[i], conns[1].msgs[i])
		}
	}
}

func TestSession_ViewerDisconnectsMidStream(t *testing.T) {
	path := writeLog(t, "line\n")
	conn := newFakeConn(map[string]string{ParamLogger: "app"})
	conn.failAfter = 1
	conn.goneOnFail = true
	conn.closeErr = stderrors.New("use of closed network connection")
	s := NewSession(conn, mapResolver{"app": path}, &logtail.Tailer{}, testConfig())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := runSession(s, ctx)

	conn.next(t)

	if err := waitErr(t, errCh); err != nil {
		t.Errorf("Run() error = %v, want nil for viewer disconnect", err)
	}
	if s.State() != StateClosed {
		t.Errorf("State() = %v, want closed", s.State())
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if got := conn.closes.Load(); got != 1 {
		t.Errorf("conn closed %d times, want 1", got)
	}
}

func TestSession_PushFailureTerminates(t *testing.T) {
	path := writeLog(t, "line\n")
	conn := newFakeConn(map[string]string{ParamLogger: "app"})
	conn.failAfter = 2
	s := NewSession(conn, mapResolver{"app": path}, &logtail.Tailer{}, testConfig())

	err := waitErr(t, runSession(s, context.Background()))
	if !errors.HasCode(err, errors.ErrCodeTransport) {
		t.Errorf("Run() error = %v, want TRANSPORT_ERROR", err)
	}
	if len(conn.msgs) != 2 {
		t.Errorf("Expected 2 successful pushes, got %d", len(conn.msgs))
	}
	if got := conn.closes.Load(); got != 1 {
		t.Errorf("conn closed %d times, want 1", got)
	}
}

func TestSession_PanicTerminatesOnlyThatSession(t *testing.T) {
	path := writeLog(t, "line\n")
	resolver := mapResolver{"app": path}

	badConn := newFakeConn(map[string]string{ParamLogger: "app"})
	bad := NewSession(badConn, resolver, panicTailer{}, testConfig())

	goodConn := newFakeConn(map[string]string{ParamLogger: "app"})
	good := NewSession(goodConn, resolver, &logtail.Tailer{}, testConfig())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	goodErr := runSession(good, ctx)

	err := waitErr(t, runSession(bad, ctx))
	if !errors.HasCode(err, errors.ErrCodeInternal) {
		t.Errorf("Run() error = %v, want INTERNAL_ERROR", err)
	}
	if bad.State() != StateClosed {
		t.Errorf("State() = %v, want closed", bad.State())
	}

	goodConn.next(t)
	goodConn.next(t)
	if good.State() != StateActive {
		t.Errorf("healthy session state = %v, want active", good.State())
	}

	cancel()
	waitErr(t, goodErr)
}

func TestSession_CloseIsIdempotent(t *testing.T) {
	conn := newFakeConn(nil)
	conn.closeErr = stderrors.New("already closed")
	s := NewSession(conn, mapResolver{}, &logtail.Tailer{}, testConfig())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.Close(); err != nil {
				t.Errorf("Close() error = %v", err)
			}
		}()
	}
	wg.Wait()

	if got := conn.closes.Load(); got != 1 {
		t.Errorf("conn closed %d times, want 1", got)
	}
	if s.State() != StateClosed {
		t.Errorf("State() = %v, want closed", s.State())
	}
}

func TestSession_EscapesHTML(t *testing.T) {
	path := writeLog(t, "<script>alert(1)</script>\n")
	conn := newFakeConn(map[string]string{ParamLogger: "app"})
	s := NewSession(conn, mapResolver{"app": path}, &logtail.Tailer{}, testConfig())
	s.activate()
	s.Tick(context.Background())

	got := string(conn.msgs[0])
	if strings.Contains(got, "<script>") {
		t.Errorf("Expected line text to be escaped, got %q", got)
	}
}
