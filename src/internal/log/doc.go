// Package log provides simple leveled logging for the logstream service itself.
//
// This is the service's diagnostic channel, separate from the named loggers the
// registry hands out to applications. Output is colored by level:
//
//   - DEBUG: shown only in verbose mode
//   - INFO and WARN: written to stdout
//   - ERROR: written to stderr
//
// A Mirror can be installed to receive a copy of every message. The server
// command mirrors into the registry's "app" logger so the service's own
// diagnostics show up in app.log and can be watched like any other logger:
//
//	log.SetMirror(appLogger)
//	log.Infof("API server listening on %s", addr)
//
// The package uses global state for simplicity; the mirror is guarded by a
// mutex and may be swapped while other goroutines log.
package log
