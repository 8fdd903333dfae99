// Package domain wires the long-lived objects every command shares: the
// logger registry, the file tailer and the stream engine.
package domain

import (
	"fmt"

	"github.com/maksimkurb/logstream/src/internal/config"
	"github.com/maksimkurb/logstream/src/internal/logtail"
	"github.com/maksimkurb/logstream/src/internal/registry"
	"github.com/maksimkurb/logstream/src/internal/stream"
)

// AppDependencies is a dependency injection container that holds all application dependencies.
//
// Usage:
//
//	deps, err := domain.NewAppDependencies(cfg)
//	if err != nil {
//	    return err
//	}
//	defer deps.Close()
//	appLogger, _ := deps.Registry().AppLogger()
type AppDependencies struct {
	registry *registry.Registry
	tailer   *logtail.Tailer
	streamer *stream.Streamer
}

// NewAppDependencies builds the registry from cfg, registers the predefined
// loggers after the configured ones, and creates the stream engine.
func NewAppDependencies(cfg *config.Config) (*AppDependencies, error) {
	reg, err := registry.NewFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger registry: %w", err)
	}

	predefined := []func() (*registry.Logger, error){reg.AppLogger, reg.DBLogger, reg.APILogger}
	for _, get := range predefined {
		if _, err := get(); err != nil {
			_ = reg.Close()
			return nil, fmt.Errorf("failed to create predefined logger: %w", err)
		}
	}

	tailer := &logtail.Tailer{MaxReadBytes: int64(cfg.Stream.MaxReadBytes)}

	return NewTestDependencies(reg, tailer, StreamConfig(cfg)), nil
}

// NewTestDependencies creates a container around an existing registry.
func NewTestDependencies(reg *registry.Registry, tailer *logtail.Tailer, streamCfg stream.Config) *AppDependencies {
	return &AppDependencies{
		registry: reg,
		tailer:   tailer,
		streamer: stream.NewStreamer(reg, tailer, streamCfg, stream.NewTracker()),
	}
}

// StreamConfig converts the [stream] section to session settings.
func StreamConfig(cfg *config.Config) stream.Config {
	return stream.Config{
		Interval:        cfg.Stream.PollInterval.Std(),
		Window:          cfg.Stream.WindowLines,
		DefaultLogger:   cfg.Stream.DefaultLogger,
		FallbackMessage: cfg.Stream.FallbackMessage,
		WriteTimeout:    cfg.Stream.WriteTimeout.Std(),
	}
}

// Registry returns the logger registry.
func (d *AppDependencies) Registry() *registry.Registry {
	return d.registry
}

// Tailer returns the file tailer shared by sessions and the tail endpoint.
func (d *AppDependencies) Tailer() *logtail.Tailer {
	return d.tailer
}

// Streamer returns the stream engine.
func (d *AppDependencies) Streamer() *stream.Streamer {
	return d.streamer
}

// Close closes every logger. Sessions must be stopped first.
func (d *AppDependencies) Close() error {
	return d.registry.Close()
}
