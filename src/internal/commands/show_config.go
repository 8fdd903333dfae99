package commands

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/maksimkurb/logstream/src/internal/config"
)

func CreateShowConfigCommand() *ShowConfigCommand {
	return &ShowConfigCommand{
		fs:  flag.NewFlagSet("config", flag.ContinueOnError),
		out: os.Stdout,
	}
}

// ShowConfigCommand prints the effective configuration (file, defaults and
// environment overrides) as TOML.
type ShowConfigCommand struct {
	fs  *flag.FlagSet
	ctx *AppContext
	cfg *config.Config
	out io.Writer
}

func (s *ShowConfigCommand) Name() string {
	return s.fs.Name()
}

func (s *ShowConfigCommand) Init(args []string, ctx *AppContext) error {
	s.ctx = ctx

	if err := s.fs.Parse(args); err != nil {
		return err
	}

	if cfg, err := loadAndValidateConfigOrFail(ctx.ConfigPath); err != nil {
		return err
	} else {
		s.cfg = cfg
	}

	return nil
}

func (s *ShowConfigCommand) Run() error {
	buf, err := s.cfg.SerializeConfig()
	if err != nil {
		return fmt.Errorf("failed to serialize configuration: %w", err)
	}
	_, err = buf.WriteTo(s.out)
	return err
}
