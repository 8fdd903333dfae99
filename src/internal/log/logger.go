package log

import (
	"fmt"
	"os"
	"sync"
)

const (
	levelDebug = iota
	levelInfo
	levelWarn
	levelError
)

// Mirror receives a copy of every emitted service message.
// level is one of "DEBUG", "INFO", "WARNING" or "ERROR".
type Mirror interface {
	Log(level string, message string)
}

var (
	verbose     = false
	disableLogs = false
	forceStdErr = false
	logPrefixes = map[int]string{
		levelDebug: "\033[37m[DBG]\033[0m", // White
		levelInfo:  "\033[36m[INF]\033[0m", // Cyan
		levelWarn:  "\033[33m[WRN]\033[0m", // Yellow
		levelError: "\033[31m[ERR]\033[0m", // Red
	}
	levelNames = map[int]string{
		levelDebug: "DEBUG",
		levelInfo:  "INFO",
		levelWarn:  "WARNING",
		levelError: "ERROR",
	}

	mirrorMu sync.RWMutex
	mirror   Mirror
)

// SetVerbose sets the logging verbosity. If true, all log levels are displayed.
func SetVerbose(v bool) {
	verbose = v
}

// IsVerbose returns true if verbose logging is enabled.
func IsVerbose() bool {
	return verbose
}

// DisableLogs disables all logging.
func DisableLogs() {
	disableLogs = true
}

// IsDisabled returns true if logging is disabled.
func IsDisabled() bool {
	return disableLogs
}

// SetForceStdErr sends every level to stderr when enabled.
// The watch command uses it so log output does not tear the terminal UI.
func SetForceStdErr(v bool) {
	forceStdErr = v
}

// SetMirror installs m as the mirror for all subsequent messages. Pass nil to remove it.
func SetMirror(m Mirror) {
	mirrorMu.Lock()
	defer mirrorMu.Unlock()
	mirror = m
}

// Debugf logs a debug message if verbose is true.
func Debugf(format string, args ...interface{}) {
	if verbose {
		logMessage(levelDebug, format, args...)
	}
}

// Infof logs an info message.
func Infof(format string, args ...interface{}) {
	logMessage(levelInfo, format, args...)
}

// Warnf logs a warning message.
func Warnf(format string, args ...interface{}) {
	logMessage(levelWarn, format, args...)
}

// Errorf logs an error message.
func Errorf(format string, args ...interface{}) {
	logMessage(levelError, format, args...)
}

// Fatalf logs an error message and exits the program.
func Fatalf(format string, args ...interface{}) {
	logMessage(levelError, format, args...)
	os.Exit(1)
}

// logMessage formats and writes a log message with the specified log level.
func logMessage(level int, format string, args ...interface{}) {
	if disableLogs {
		return
	}
	prefix := logPrefixes[level]
	message := fmt.Sprintf(format, args...)
	output := prefix + " " + message + "\n"

	// Write the output to the appropriate stream
	if forceStdErr || level == levelError {
		_, _ = os.Stderr.WriteString(output)
	} else {
		_, _ = os.Stdout.WriteString(output)
	}

	mirrorMu.RLock()
	m := mirror
	mirrorMu.RUnlock()
	if m != nil {
		m.Log(levelNames[level], message)
	}
}
