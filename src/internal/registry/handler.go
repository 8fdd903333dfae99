package registry

import (
	"io"
	"os"
	"sync"

	"github.com/maksimkurb/logstream/src/internal/errors"
	"github.com/maksimkurb/logstream/src/internal/utils"
)

// Handler is an output sink attached to a logger.
type Handler interface {
	Handle(rec Record) error
	Close() error
}

// FileBacked is implemented by handlers that write to a file on disk.
type FileBacked interface {
	Path() string
}

// ConsoleHandler writes formatted records to a stream, stdout by default.
type ConsoleHandler struct {
	mu        sync.Mutex
	w         io.Writer
	formatter *Formatter
}

func NewConsoleHandler(w io.Writer, formatter *Formatter) *ConsoleHandler {
	if w == nil {
		w = os.Stdout
	}
	return &ConsoleHandler{w: w, formatter: formatter}
}

func (h *ConsoleHandler) Handle(rec Record) error {
	line := h.formatter.Format(rec) + "\n"

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, err := io.WriteString(h.w, line); err != nil {
		return errors.NewSinkError("failed to write to console", err)
	}
	return nil
}

// Close is a no-op; the console stream is not owned by the handler.
func (h *ConsoleHandler) Close() error {
	return nil
}

// FileHandler appends formatted records to a file. The file and its
// directory are created on the first record, never earlier.
type FileHandler struct {
	mu        sync.Mutex
	path      string
	formatter *Formatter
	file      *os.File
	closed    bool
}

func NewFileHandler(path string, formatter *Formatter) *FileHandler {
	return &FileHandler{path: path, formatter: formatter}
}

func (h *FileHandler) Path() string {
	return h.path
}

func (h *FileHandler) Handle(rec Record) error {
	line := h.formatter.Format(rec) + "\n"

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return errors.NewSinkError("file handler is closed", os.ErrClosed)
	}
	if h.file == nil {
		f, err := utils.OpenAppend(h.path)
		if err != nil {
			return errors.NewSinkError("failed to open log file", err)
		}
		h.file = f
	}
	if _, err := h.file.WriteString(line); err != nil {
		return errors.NewSinkError("failed to write log file", err)
	}
	return nil
}

func (h *FileHandler) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	if h.file == nil {
		return nil
	}
	err := h.file.Close()
	h.file = nil
	if err != nil {
		return errors.NewSinkError("failed to close log file", err)
	}
	return nil
}
