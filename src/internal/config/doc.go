// Package config handles configuration file parsing and validation for logstream.
//
// This package reads a TOML configuration file on top of built-in defaults and
// provides strongly-typed structures for the HTTP server, the live tailing
// streams, the logger registry defaults and the pre-registered loggers.
//
// # Configuration Structure
//
//   - [server]: bind address, private-network restriction, shutdown timeout
//   - [stream]: poll interval, window size, default logger, fallback message,
//     read limit and per-push write timeout
//   - [logging]: registry defaults (directory, level, console/file sinks, format)
//   - [service]: whether the service's own log is mirrored into the default logger
//   - [[logger]]: loggers registered at startup, optionally with a syslog sink
//
// Durations use Go syntax ("1s", "250ms"); sizes use datasize syntax ("1MB").
// The LOGSTREAM_LOG_DIR, LOGSTREAM_LOG_LEVEL, LOGSTREAM_TO_CONSOLE,
// LOGSTREAM_TO_FILE and LOGSTREAM_LOG_FORMAT environment variables override the
// [logging] section.
//
// # Example Usage
//
//	cfg, err := config.LoadConfigOrDefaults("/etc/logstream/logstream.toml")
//	if err != nil {
//	    log.Fatalf("%v", err)
//	}
//	if err := cfg.ValidateConfig(); err != nil {
//	    log.Fatalf("%v", err)
//	}
//
// Validation errors are aggregated into ValidationErrors, each naming the
// offending field by its TOML key.
package config
