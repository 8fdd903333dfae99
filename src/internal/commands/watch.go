package commands

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/maksimkurb/logstream/src/internal/config"
	"github.com/maksimkurb/logstream/src/internal/log"
	"github.com/maksimkurb/logstream/src/internal/viewer"
)

func CreateWatchCommand() *WatchCommand {
	wc := &WatchCommand{
		fs: flag.NewFlagSet("watch", flag.ContinueOnError),
	}

	wc.fs.StringVar(&wc.server, "server", "", "Server address (default: server.bind_address)")
	wc.fs.StringVar(&wc.loggerName, "logger", "", "Logger to watch (default: stream.default_logger)")
	wc.fs.DurationVar(&wc.dialTimeout, "timeout", 5*time.Second, "Connection timeout")

	return wc
}

// WatchCommand follows a logger of a running server in the terminal.
type WatchCommand struct {
	fs  *flag.FlagSet
	ctx *AppContext
	cfg *config.Config

	server      string
	loggerName  string
	dialTimeout time.Duration
}

func (w *WatchCommand) Name() string {
	return w.fs.Name()
}

func (w *WatchCommand) Init(args []string, ctx *AppContext) error {
	w.ctx = ctx

	if err := w.fs.Parse(args); err != nil {
		return err
	}

	if cfg, err := loadAndValidateConfigOrFail(ctx.ConfigPath); err != nil {
		return err
	} else {
		w.cfg = cfg
	}

	if w.server == "" {
		w.server = w.cfg.Server.BindAddress
	}
	if w.loggerName == "" {
		w.loggerName = w.cfg.Stream.DefaultLogger
	}

	return nil
}

func (w *WatchCommand) Run() error {
	// Service messages would tear the alternate screen.
	log.SetForceStdErr(true)

	ctx, cancel := context.WithTimeout(context.Background(), w.dialTimeout)
	defer cancel()

	client, err := viewer.Dial(ctx, w.server, w.loggerName)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer client.Close()

	return viewer.Run(client, w.loggerName, w.server)
}
