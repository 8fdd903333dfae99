package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/maksimkurb/logstream/src/internal/log"
)

// Environment variables overriding the [logging] defaults.
const (
	EnvLogDir    = "LOGSTREAM_LOG_DIR"
	EnvLogLevel  = "LOGSTREAM_LOG_LEVEL"
	EnvToConsole = "LOGSTREAM_TO_CONSOLE"
	EnvToFile    = "LOGSTREAM_TO_FILE"
	EnvLogFormat = "LOGSTREAM_LOG_FORMAT"
)

// LoadConfig reads the TOML file at configPath on top of the built-in defaults.
func LoadConfig(configPath string) (*Config, error) {
	configFile := filepath.Clean(configPath)

	if !filepath.IsAbs(configFile) {
		if path, err := filepath.Abs(configFile); err != nil {
			return nil, fmt.Errorf("failed to get absolute path: %v", err)
		} else {
			configFile = path
		}
	}

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configFile)
	}

	content, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %v", err)
	}

	config := Defaults()
	if err := toml.Unmarshal(content, config); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			log.Errorf("%s", derr.String())
			row, col := derr.Position()
			log.Errorf("Error at line %d, column %d", row, col)
			return nil, fmt.Errorf("failed to parse config file")
		}
		return nil, fmt.Errorf("failed to parse config file: %v", err)
	}

	config._absConfigFilePath = configFile

	log.Debugf("Configuration file path: %s", configFile)
	log.Debugf("Log directory: %s", config.GetAbsLogDirectory())

	return config, nil
}

// LoadConfigOrDefaults behaves like LoadConfig but falls back to the built-in
// defaults when the file does not exist. Environment overrides are applied in both cases.
func LoadConfigOrDefaults(configPath string) (*Config, error) {
	var cfg *Config
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		log.Warnf("Configuration file not found: %s, using built-in defaults", configPath)
		cfg = Defaults()
	} else {
		loaded, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides [logging] defaults from the environment. lookup is usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvLogDir); ok && v != "" {
		c.Logging.Directory = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Logging.Level = strings.ToUpper(strings.TrimSpace(v))
	}
	if v, ok := lookup(EnvToConsole); ok {
		c.Logging.ToConsole = parseBool(v)
	}
	if v, ok := lookup(EnvToFile); ok {
		c.Logging.ToFile = parseBool(v)
	}
	if v, ok := lookup(EnvLogFormat); ok && v != "" {
		c.Logging.Format = v
	}
	return nil
}

func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

// SerializeConfig renders the effective configuration as TOML.
func (c *Config) SerializeConfig() (*bytes.Buffer, error) {
	buf := bytes.Buffer{}
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	return &buf, nil
}

// FindLogger returns the [[logger]] entry with the given name, or nil.
func (c *Config) FindLogger(name string) *LoggerConfig {
	for _, l := range c.Loggers {
		if l.Name == name {
			return l
		}
	}
	return nil
}
