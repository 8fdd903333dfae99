package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/c2h5oh/datasize"

	"github.com/maksimkurb/logstream/src/internal/utils"
)

type Config struct {
	// Server holds HTTP listener settings.
	Server ServerConfig `toml:"server" json:"server"`
	// Stream holds live tailing settings shared by every viewer session.
	Stream StreamConfig `toml:"stream" json:"stream"`
	// Logging holds registry defaults applied to loggers that do not override them.
	Logging LoggingConfig `toml:"logging" json:"logging"`
	// Service holds settings for the service's own diagnostics.
	Service ServiceConfig `toml:"service" json:"service"`
	// Loggers are registered at startup. You can add multiple loggers; each must have a unique name.
	Loggers []*LoggerConfig `toml:"logger,omitempty" json:"logger,omitempty" validate:"dive"`

	_absConfigFilePath string
}

type ServerConfig struct {
	// BindAddress is the HTTP listen address (default: 127.0.0.1:8080).
	BindAddress string `toml:"bind_address" json:"bind_address" validate:"required,hostname_port"`
	// PrivateNetworksOnly rejects requests from non-private client addresses (default: true).
	PrivateNetworksOnly bool `toml:"private_networks_only" json:"private_networks_only"`
	// ShutdownTimeout bounds graceful shutdown of the HTTP server (default: 10s).
	ShutdownTimeout Duration `toml:"shutdown_timeout" json:"shutdown_timeout" validate:"positive_duration"`
}

type StreamConfig struct {
	// PollInterval is the delay between two pushes to a viewer (default: 1s).
	PollInterval Duration `toml:"poll_interval" json:"poll_interval" validate:"positive_duration"`
	// WindowLines is how many trailing lines every push carries (default: 30).
	WindowLines int `toml:"window_lines" json:"window_lines" validate:"min=1"`
	// DefaultLogger is used when the requested logger has no backing file (default: app).
	DefaultLogger string `toml:"default_logger" json:"default_logger" validate:"required"`
	// FallbackMessage is pushed when neither the requested nor the default logger has a file.
	FallbackMessage string `toml:"fallback_message" json:"fallback_message" validate:"required"`
	// MaxReadBytes is the chunk size for reading files backwards from the end, e.g. "1MB" (0 = whole file at once).
	MaxReadBytes datasize.ByteSize `toml:"max_read_bytes" json:"max_read_bytes"`
	// WriteTimeout is the deadline for a single push to a viewer (default: 5s).
	WriteTimeout Duration `toml:"write_timeout" json:"write_timeout" validate:"positive_duration"`
}

type LoggingConfig struct {
	// Directory receives log files of loggers with a file sink (default: logs).
	Directory string `toml:"directory" json:"directory" validate:"required"`
	// Level is the default level: DEBUG, INFO, WARNING, ERROR or CRITICAL (default: INFO).
	Level string `toml:"level" json:"level" validate:"required,log_level"`
	// ToConsole attaches a stdout sink by default (default: true).
	ToConsole bool `toml:"to_console" json:"to_console"`
	// ToFile attaches a file sink by default (default: false).
	ToFile bool `toml:"to_file" json:"to_file"`
	// Format is the record template. Available variables: {{asctime}}, {{name}}, {{levelname}}, {{message}}.
	Format string `toml:"format" json:"format" validate:"required"`
}

type ServiceConfig struct {
	// MirrorToAppLogger copies the service's own log messages into the default logger (default: true).
	MirrorToAppLogger bool `toml:"mirror_to_app_logger" json:"mirror_to_app_logger"`
}

type LoggerConfig struct {
	// Name is the logger name viewers select.
	Name string `toml:"name" json:"name" validate:"required"`
	// Level overrides logging.level.
	Level string `toml:"level,omitempty" json:"level,omitempty" validate:"omitempty,log_level"`
	// ToConsole overrides logging.to_console.
	ToConsole *bool `toml:"to_console,omitempty" json:"to_console,omitempty"`
	// ToFile overrides logging.to_file.
	ToFile *bool `toml:"to_file,omitempty" json:"to_file,omitempty"`
	// FileName is the file name inside logging.directory (default: last dot-separated segment of the name + ".log").
	FileName string `toml:"file_name,omitempty" json:"file_name,omitempty" validate:"omitempty,excludesall=/\\"`
	// Format overrides logging.format.
	Format string `toml:"format,omitempty" json:"format,omitempty"`
	// Syslog adds a syslog sink.
	Syslog *SyslogConfig `toml:"syslog,omitempty" json:"syslog,omitempty"`
}

type SyslogConfig struct {
	// Address is the syslog server host:port.
	Address string `toml:"address" json:"address" validate:"required,hostname_port"`
	// Protocol is udp, tcp or tcp+tls (default: udp).
	Protocol string `toml:"protocol,omitempty" json:"protocol,omitempty" validate:"omitempty,oneof=udp tcp tcp+tls"`
	// Tag is the syslog program tag (default: logger name).
	Tag string `toml:"tag,omitempty" json:"tag,omitempty"`
	// CertBundlePath is a PEM bundle used to verify the server for tcp+tls.
	CertBundlePath string `toml:"cert_bundle_path,omitempty" json:"cert_bundle_path,omitempty"`
}

// Duration is a time.Duration written as a Go duration string ("1s", "250ms") in the config file.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			BindAddress:         "127.0.0.1:8080",
			PrivateNetworksOnly: true,
			ShutdownTimeout:     Duration(10 * time.Second),
		},
		Stream: StreamConfig{
			PollInterval:    Duration(time.Second),
			WindowLines:     30,
			DefaultLogger:   "app",
			FallbackMessage: "No logfile configured for selected logger.",
			MaxReadBytes:    datasize.MB,
			WriteTimeout:    Duration(5 * time.Second),
		},
		Logging: LoggingConfig{
			Directory: "logs",
			Level:     "INFO",
			ToConsole: true,
			ToFile:    false,
			Format:    "{{asctime}} - {{name}} - {{levelname}} - {{message}}",
		},
		Service: ServiceConfig{
			MirrorToAppLogger: true,
		},
	}
}

// GetConfigDir returns the directory of the loaded config file, or "" for built-in defaults.
func (c *Config) GetConfigDir() string {
	if c._absConfigFilePath == "" {
		return ""
	}
	return filepath.Dir(c._absConfigFilePath)
}

// GetAbsLogDirectory resolves logging.directory. Relative paths are taken relative to
// the config file directory, or to the working directory when no file was loaded.
func (c *Config) GetAbsLogDirectory() string {
	if dir := c.GetConfigDir(); dir != "" {
		return utils.GetAbsolutePath(c.Logging.Directory, dir)
	}
	if abs, err := filepath.Abs(c.Logging.Directory); err == nil {
		return abs
	}
	return c.Logging.Directory
}
