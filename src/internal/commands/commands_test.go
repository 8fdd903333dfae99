package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// writeTestConfig writes a config whose log directory lives in a temp dir.
func writeTestConfig(t *testing.T) (configPath, logDir string) {
	t.Helper()
	dir := t.TempDir()
	logDir = filepath.Join(dir, "logs")
	configPath = filepath.Join(dir, "logstream.toml")

	content := fmt.Sprintf(`[server]
bind_address = "127.0.0.1:8080"
private_networks_only = false
shutdown_timeout = "2s"

[stream]
poll_interval = "20ms"
window_lines = 5

[logging]
directory = %q
to_console = false

[service]
mirror_to_app_logger = true

[[logger]]
name = "worker"
to_file = true
`, logDir)

	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return configPath, logDir
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

func TestEmitCommand(t *testing.T) {
	configPath, logDir := writeTestConfig(t)

	tests := []struct {
		name     string
		args     []string
		file     string
		contains string
	}{
		{name: "configured logger", args: []string{"-logger", "worker", "-level", "warning", "job", "failed"}, file: "worker.log", contains: "WARNING - job failed"},
		{name: "predefined logger", args: []string{"-logger", "db", "-level", "ERROR", "connection lost"}, file: "database.log", contains: "ERROR - connection lost"},
		{name: "default logger", args: []string{"hello"}, file: "app.log", contains: "INFO - hello"},
		{name: "task logger", args: []string{"-logger", "task.cleanup", "swept"}, file: "task_cleanup.log", contains: "task.cleanup - INFO - swept"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := CreateEmitCommand()
			if err := cmd.Init(tt.args, &AppContext{ConfigPath: configPath}); err != nil {
				t.Fatalf("Init() error = %v", err)
			}
			if err := cmd.Run(); err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if got := readFile(t, filepath.Join(logDir, tt.file)); !strings.Contains(got, tt.contains) {
				t.Errorf("Expected %q in %s, got %q", tt.contains, tt.file, got)
			}
		})
	}
}

func TestEmitCommand_Errors(t *testing.T) {
	configPath, _ := writeTestConfig(t)

	tests := []struct {
		name    string
		args    []string
		initErr bool
	}{
		{name: "missing message", args: []string{"-logger", "app"}, initErr: true},
		{name: "invalid level", args: []string{"-level", "LOUD", "msg"}, initErr: true},
		{name: "unknown flag", args: []string{"-nope", "msg"}, initErr: true},
		{name: "unknown logger", args: []string{"-logger", "ghost", "msg"}, initErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := CreateEmitCommand()
			cmd.fs.SetOutput(&bytes.Buffer{})
			err := cmd.Init(tt.args, &AppContext{ConfigPath: configPath})
			if tt.initErr {
				if err == nil {
					t.Fatal("Expected Init() error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Init() error = %v", err)
			}
			if err := cmd.Run(); err == nil {
				t.Error("Expected Run() error")
			}
		})
	}
}

func TestLoggersCommand(t *testing.T) {
	configPath, logDir := writeTestConfig(t)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(logDir, "worker.log"), []byte("x\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cmd := CreateLoggersCommand()
	var out bytes.Buffer
	cmd.out = &out
	if err := cmd.Init(nil, &AppContext{ConfigPath: configPath}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	// header plus api, app, db, worker
	if len(lines) != 5 {
		t.Fatalf("Expected 5 lines, got %d:\n%s", len(lines), out.String())
	}
	if !strings.HasPrefix(lines[0], "LOGGER") {
		t.Errorf("Expected header, got %q", lines[0])
	}
	order := []string{"api", "app", "db", "worker"}
	for i, name := range order {
		if !strings.HasPrefix(lines[i+1], name+" ") {
			t.Errorf("line %d = %q, want logger %s", i+1, lines[i+1], name)
		}
	}
	if !strings.HasSuffix(lines[4], "yes") || !strings.HasSuffix(lines[1], "no") {
		t.Errorf("Unexpected existence column:\n%s", out.String())
	}
}

func TestShowConfigCommand(t *testing.T) {
	configPath, _ := writeTestConfig(t)
	t.Setenv("LOGSTREAM_LOG_LEVEL", "debug")

	cmd := CreateShowConfigCommand()
	var out bytes.Buffer
	cmd.out = &out
	if err := cmd.Init(nil, &AppContext{ConfigPath: configPath}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	for _, want := range []string{"window_lines = 5", "DEBUG", "worker"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("Expected %q in output:\n%s", want, out.String())
		}
	}
}

func TestCommands_InvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[stream]\nwindow_lines = 0\n"), 0644); err != nil {
		t.Fatal(err)
	}

	runners := []Runner{CreateServerCommand(), CreateLoggersCommand(), CreateShowConfigCommand(), CreateWatchCommand()}
	for _, r := range runners {
		t.Run(r.Name(), func(t *testing.T) {
			if err := r.Init(nil, &AppContext{ConfigPath: path}); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestServerCommand(t *testing.T) {
	configPath, logDir := writeTestConfig(t)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		t.Fatal(err)
	}
	workerLog := filepath.Join(logDir, "worker.log")
	if err := os.WriteFile(workerLog, []byte("ready\nERROR broken\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cmd := &ServerCommand{}
	if err := cmd.Init([]string{"-bind", "127.0.0.1:0"}, &AppContext{ConfigPath: configPath}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := cmd.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	stopped := false
	defer func() {
		if !stopped {
			cmd.Stop()
		}
	}()

	base := "http://" + cmd.Addr()

	resp, err := http.Get(base + "/api/v1/loggers")
	if err != nil {
		t.Fatalf("GET loggers error = %v", err)
	}
	var loggers struct {
		Data []string `json:"data"`
	}
	json.NewDecoder(resp.Body).Decode(&loggers)
	resp.Body.Close()
	if strings.Join(loggers.Data, ",") != "api,app,db,worker" {
		t.Errorf("loggers = %v", loggers.Data)
	}

	resp, err = http.Get(base + "/log_viewer/")
	if err != nil {
		t.Fatalf("GET viewer error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("viewer status = %d", resp.StatusCode)
	}

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+cmd.Addr()+"/ws/log?logger=worker", nil)
	if err != nil {
		t.Fatalf("websocket dial error = %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() error = %v", err)
	}
	want := `ready<br/><span class="text-red-400">ERROR broken</span><br/>`
	if string(msg) != want {
		t.Errorf("push = %q, want %q", msg, want)
	}

	if err := cmd.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	stopped = true

	// Stop ends open sessions.
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	// Service messages were mirrored into the app logger while running.
	if got := readFile(t, filepath.Join(logDir, "app.log")); !strings.Contains(got, "Serving 4 loggers") {
		t.Errorf("Expected mirrored service log in app.log, got %q", got)
	}
}

func TestServerCommand_MirrorPrintsOnce(t *testing.T) {
	configPath, logDir := writeTestConfig(t)

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	oldStdout := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = oldStdout }()

	outCh := make(chan string)
	go func() {
		var buf bytes.Buffer
		io.Copy(&buf, r)
		outCh <- buf.String()
	}()

	cmd := &ServerCommand{}
	if err := cmd.Init([]string{"-bind", "127.0.0.1:0"}, &AppContext{ConfigPath: configPath}); err != nil {
		os.Stdout = oldStdout
		w.Close()
		t.Fatalf("Init() error = %v", err)
	}
	startErr := cmd.Start()
	if startErr == nil {
		cmd.Stop()
	}
	os.Stdout = oldStdout
	w.Close()
	stdout := <-outCh

	if startErr != nil {
		t.Fatalf("Start() error = %v", startErr)
	}
	if n := strings.Count(stdout, "Serving 4 loggers"); n != 1 {
		t.Errorf("Service message printed %d times on stdout, want 1:\n%s", n, stdout)
	}
	if got := readFile(t, filepath.Join(logDir, "app.log")); strings.Count(got, "Serving 4 loggers") != 1 {
		t.Errorf("Expected one mirrored service log in app.log, got %q", got)
	}
}
