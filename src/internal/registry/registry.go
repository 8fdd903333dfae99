package registry

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/maksimkurb/logstream/src/internal/errors"
)

// Names of the predefined loggers.
const (
	AppLoggerName = "app"
	DBLoggerName  = "db"
	APILoggerName = "api"
	taskPrefix    = "task."
)

// Defaults apply to every option a GetLogger caller leaves unset.
type Defaults struct {
	Directory string
	Level     Level
	ToConsole bool
	ToFile    bool
	Format    string
	// Console receives console handler output; nil means stdout.
	Console io.Writer
}

// Options configure a logger on first request. Nil or empty fields fall
// back to the registry Defaults.
type Options struct {
	Level     string
	ToConsole *bool
	ToFile    *bool
	// FileName is relative to Defaults.Directory unless absolute. Defaults to
	// the last dot-separated segment of the logger name plus ".log".
	FileName string
	Format   string
	Syslog   *SyslogOptions
}

// Registry hands out named loggers. A logger is created once, on its first
// request, and lives as long as the registry.
type Registry struct {
	mu       sync.RWMutex
	defaults Defaults
	loggers  map[string]*Logger
}

func New(defaults Defaults) *Registry {
	if defaults.Level == 0 {
		defaults.Level = LevelInfo
	}
	if defaults.Format == "" {
		defaults.Format = DefaultFormat
	}
	return &Registry{
		defaults: defaults,
		loggers:  make(map[string]*Logger),
	}
}

// Defaults returns the registry defaults.
func (r *Registry) Defaults() Defaults {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defaults
}

// GetLogger returns the logger called name, creating it from opts when it
// does not exist yet. opts are ignored for an existing logger.
func (r *Registry) GetLogger(name string, opts Options) (*Logger, error) {
	if name == "" {
		return nil, errors.NewRegistryError("logger name is required", nil)
	}

	r.mu.RLock()
	existing, ok := r.loggers[name]
	r.mu.RUnlock()
	if ok {
		return existing, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.loggers[name]; ok {
		return existing, nil
	}

	logger, err := r.build(name, opts)
	if err != nil {
		return nil, err
	}
	r.loggers[name] = logger
	return logger, nil
}

func (r *Registry) build(name string, opts Options) (*Logger, error) {
	level := r.defaults.Level
	if opts.Level != "" {
		parsed, err := ParseLevel(opts.Level)
		if err != nil {
			return nil, errors.NewRegistryError(fmt.Sprintf("logger %s", name), err)
		}
		level = parsed
	}

	format := r.defaults.Format
	if opts.Format != "" {
		format = opts.Format
	}
	formatter, err := NewFormatter(format)
	if err != nil {
		return nil, errors.NewRegistryError(fmt.Sprintf("logger %s: invalid format", name), err)
	}

	toConsole := r.defaults.ToConsole
	if opts.ToConsole != nil {
		toConsole = *opts.ToConsole
	}
	toFile := r.defaults.ToFile
	if opts.ToFile != nil {
		toFile = *opts.ToFile
	}

	var handlers []Handler
	if toConsole {
		handlers = append(handlers, NewConsoleHandler(r.defaults.Console, formatter))
	}
	if toFile {
		handlers = append(handlers, NewFileHandler(r.filePath(name, opts.FileName), formatter))
	}
	if opts.Syslog != nil {
		syslogOpts := *opts.Syslog
		if syslogOpts.Tag == "" {
			syslogOpts.Tag = name
		}
		h, err := NewSyslogHandler(syslogOpts)
		if err != nil {
			return nil, err
		}
		handlers = append(handlers, h)
	}

	return newLogger(name, level, handlers), nil
}

func (r *Registry) filePath(name, fileName string) string {
	if fileName == "" {
		fileName = name[strings.LastIndex(name, ".")+1:] + ".log"
	}
	if filepath.IsAbs(fileName) {
		return fileName
	}
	return filepath.Join(r.defaults.Directory, fileName)
}

func boolPtr(b bool) *bool {
	return &b
}

// AppLogger is the primary application logger, written to app.log and the console.
func (r *Registry) AppLogger() (*Logger, error) {
	return r.GetLogger(AppLoggerName, Options{ToConsole: boolPtr(true), ToFile: boolPtr(true), FileName: "app.log"})
}

// DBLogger logs database activity to database.log and the console.
func (r *Registry) DBLogger() (*Logger, error) {
	return r.GetLogger(DBLoggerName, Options{ToConsole: boolPtr(true), ToFile: boolPtr(true), FileName: "database.log"})
}

// APILogger logs API activity to api.log and the console.
func (r *Registry) APILogger() (*Logger, error) {
	return r.GetLogger(APILoggerName, Options{ToConsole: boolPtr(true), ToFile: boolPtr(true), FileName: "api.log"})
}

// TaskLogger returns the logger of one background task, "task.<task>",
// optionally writing to task_<task>.log.
func (r *Registry) TaskLogger(task string, toFile bool) (*Logger, error) {
	if task == "" {
		return nil, errors.NewRegistryError("task name is required", nil)
	}
	opts := Options{ToFile: boolPtr(toFile)}
	if toFile {
		opts.FileName = "task_" + task + ".log"
	}
	return r.GetLogger(taskPrefix+task, opts)
}

// Lookup returns an existing logger without creating one.
func (r *Registry) Lookup(name string) (*Logger, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.loggers[name]
	return l, ok
}

// ResolveBackingFile returns the first file bound to the named logger.
// With several file handlers the earliest attached one wins.
// Unknown names and loggers without a file handler resolve to false.
// Lookups never create loggers or files.
func (r *Registry) ResolveBackingFile(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	l, ok := r.Lookup(name)
	if !ok {
		return "", false
	}
	files := l.BackingFiles()
	if len(files) == 0 {
		return "", false
	}
	return files[0], true
}

// LoggerNamesWithFiles returns the sorted names of loggers with at least one file handler.
func (r *Registry) LoggerNamesWithFiles() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.loggers))
	for name, l := range r.loggers {
		if len(l.BackingFiles()) > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Names returns the sorted names of all registered loggers.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.loggers))
	for name := range r.loggers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetLevel changes the level of every registered logger and of loggers created later.
func (r *Registry) SetLevel(level Level) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.defaults.Level = level
	for _, l := range r.loggers {
		l.SetLevel(level)
	}
}

// Close closes every handler of every logger.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var firstErr error
	for _, name := range sortedKeys(r.loggers) {
		if err := r.loggers[name].close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func sortedKeys(m map[string]*Logger) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
