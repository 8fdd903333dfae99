package registry

import (
	stderrors "errors"
	"fmt"
	"os"
	"sync/atomic"
	"time"
)

// Logger is a named record source bound to a fixed set of handlers.
// Handlers are chosen when the logger is created and never replaced.
type Logger struct {
	name     string
	level    atomic.Int32
	handlers []Handler
	now      func() time.Time
}

func newLogger(name string, level Level, handlers []Handler) *Logger {
	l := &Logger{name: name, handlers: handlers, now: time.Now}
	l.level.Store(int32(level))
	return l
}

func (l *Logger) Name() string {
	return l.name
}

func (l *Logger) Level() Level {
	return Level(l.level.Load())
}

func (l *Logger) SetLevel(level Level) {
	l.level.Store(int32(level))
}

// Enabled reports whether records at level pass the logger threshold.
func (l *Logger) Enabled(level Level) bool {
	return level >= l.Level()
}

// Handlers returns the handlers in attachment order.
func (l *Logger) Handlers() []Handler {
	out := make([]Handler, len(l.handlers))
	copy(out, l.handlers)
	return out
}

// WithoutConsole returns an unregistered logger with the same name and
// level that writes only through l's non-console handlers. Closing the
// registry closes the shared handlers; the returned logger owns nothing.
func (l *Logger) WithoutConsole() *Logger {
	var handlers []Handler
	for _, h := range l.handlers {
		if _, ok := h.(*ConsoleHandler); ok {
			continue
		}
		handlers = append(handlers, h)
	}
	out := newLogger(l.name, l.Level(), handlers)
	out.now = l.now
	return out
}

// BackingFiles returns the paths of all file handlers in attachment order.
func (l *Logger) BackingFiles() []string {
	var files []string
	for _, h := range l.handlers {
		if fb, ok := h.(FileBacked); ok {
			files = append(files, fb.Path())
		}
	}
	return files
}

// Emit passes the record to every handler and returns their joined errors.
func (l *Logger) Emit(level Level, message string) error {
	if !l.Enabled(level) {
		return nil
	}
	rec := Record{Time: l.now(), Name: l.name, Level: level, Message: message}

	var errs []error
	for _, h := range l.handlers {
		if err := h.Handle(rec); err != nil {
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}

// emit reports handler failures on stderr directly. Going through the
// service log here could loop back into this logger via the mirror.
func (l *Logger) emit(level Level, message string) {
	if err := l.Emit(level, message); err != nil {
		fmt.Fprintf(os.Stderr, "logstream: logger %q failed to handle record: %v\n", l.name, err)
	}
}

func (l *Logger) Debugf(format string, args ...interface{}) {
	l.emit(LevelDebug, fmt.Sprintf(format, args...))
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.emit(LevelInfo, fmt.Sprintf(format, args...))
}

func (l *Logger) Warningf(format string, args ...interface{}) {
	l.emit(LevelWarning, fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.emit(LevelError, fmt.Sprintf(format, args...))
}

func (l *Logger) Criticalf(format string, args ...interface{}) {
	l.emit(LevelCritical, fmt.Sprintf(format, args...))
}

// Log writes message at the named level. Unknown names are logged at INFO.
// It lets a Logger receive mirrored service messages.
func (l *Logger) Log(level string, message string) {
	lvl, err := ParseLevel(level)
	if err != nil {
		lvl = LevelInfo
	}
	l.emit(lvl, message)
}

func (l *Logger) close() error {
	var errs []error
	for _, h := range l.handlers {
		if err := h.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}
