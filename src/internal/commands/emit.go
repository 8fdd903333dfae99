package commands

import (
	"flag"
	"fmt"
	"strings"

	"github.com/maksimkurb/logstream/src/internal/config"
	"github.com/maksimkurb/logstream/src/internal/domain"
	"github.com/maksimkurb/logstream/src/internal/registry"
	"github.com/maksimkurb/logstream/src/internal/utils"
)

func CreateEmitCommand() *EmitCommand {
	ec := &EmitCommand{
		fs: flag.NewFlagSet("emit", flag.ContinueOnError),
	}

	ec.fs.StringVar(&ec.loggerName, "logger", registry.AppLoggerName, "Logger to write through")
	ec.fs.StringVar(&ec.levelName, "level", "INFO", "Record level: DEBUG, INFO, WARNING, ERROR or CRITICAL")

	return ec
}

// EmitCommand writes one record through a configured logger.
type EmitCommand struct {
	fs  *flag.FlagSet
	ctx *AppContext
	cfg *config.Config

	loggerName string
	levelName  string
	level      registry.Level
	message    string
}

func (e *EmitCommand) Name() string {
	return e.fs.Name()
}

func (e *EmitCommand) Init(args []string, ctx *AppContext) error {
	e.ctx = ctx

	if err := e.fs.Parse(args); err != nil {
		return err
	}

	level, err := registry.ParseLevel(e.levelName)
	if err != nil {
		return err
	}
	e.level = level

	e.message = strings.Join(e.fs.Args(), " ")
	if e.message == "" {
		return fmt.Errorf("message is required")
	}

	if cfg, err := loadAndValidateConfigOrFail(ctx.ConfigPath); err != nil {
		return err
	} else {
		e.cfg = cfg
	}

	return nil
}

func (e *EmitCommand) Run() error {
	deps, err := domain.NewAppDependencies(e.cfg)
	if err != nil {
		return err
	}
	defer utils.CloseOrWarn(deps)
	reg := deps.Registry()

	logger, err := loggerByName(reg, e.loggerName)
	if err != nil {
		return err
	}

	if err := logger.Emit(e.level, e.message); err != nil {
		return fmt.Errorf("failed to emit record: %w", err)
	}
	return nil
}
