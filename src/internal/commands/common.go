package commands

import (
	"fmt"
	"strings"

	"github.com/maksimkurb/logstream/src/internal/config"
	"github.com/maksimkurb/logstream/src/internal/registry"
)

type Runner interface {
	Init(args []string, globalArgs *AppContext) error
	Run() error
	Name() string
}

type AppContext struct {
	ConfigPath string
	Verbose    bool
}

// loadAndValidateConfigOrFail loads configuration (or the built-in defaults when
// the file is missing), applies environment overrides and validates it.
func loadAndValidateConfigOrFail(configPath string) (*config.Config, error) {
	cfg, err := config.LoadConfigOrDefaults(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %v", err)
	}

	if err := cfg.ValidateConfig(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %v", err)
	}

	return cfg, nil
}

// loggerByName returns a registered logger, creating task loggers on demand.
func loggerByName(reg *registry.Registry, name string) (*registry.Logger, error) {
	if l, ok := reg.Lookup(name); ok {
		return l, nil
	}
	if task, ok := strings.CutPrefix(name, "task."); ok {
		return reg.TaskLogger(task, true)
	}
	return nil, fmt.Errorf("logger %q is not configured", name)
}
