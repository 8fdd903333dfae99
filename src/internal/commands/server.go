package commands

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/coreos/go-systemd/v22/daemon"

	"github.com/maksimkurb/logstream/src/frontend"
	"github.com/maksimkurb/logstream/src/internal/api"
	"github.com/maksimkurb/logstream/src/internal/components"
	"github.com/maksimkurb/logstream/src/internal/config"
	"github.com/maksimkurb/logstream/src/internal/domain"
	"github.com/maksimkurb/logstream/src/internal/log"
)

// ServerCommand implements the server command: the logger registry plus the
// HTTP API, the viewer page and the live stream endpoints.
type ServerCommand struct {
	fs  *flag.FlagSet
	ctx *AppContext
	cfg *config.Config

	// Command-specific flags
	bindAddr string
	noViewer bool

	deps       *domain.AppDependencies
	apiServer  *components.APIServer
	components []components.Component
}

// CreateServerCommand creates a new server command.
func CreateServerCommand() Runner {
	return &ServerCommand{}
}

// Name returns the command name.
func (c *ServerCommand) Name() string {
	return "server"
}

// Init initializes the server command with arguments.
func (c *ServerCommand) Init(args []string, ctx *AppContext) error {
	c.ctx = ctx
	c.fs = flag.NewFlagSet("server", flag.ContinueOnError)

	c.fs.StringVar(&c.bindAddr, "bind", "", "Address to bind the HTTP server (overrides server.bind_address)")
	c.fs.BoolVar(&c.noViewer, "no-viewer", false, "Do not serve the HTML log viewer")

	if err := c.fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadAndValidateConfigOrFail(ctx.ConfigPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	if c.bindAddr == "" {
		c.bindAddr = cfg.Server.BindAddress
	}

	return nil
}

// Start builds the dependencies and starts every component.
func (c *ServerCommand) Start() error {
	deps, err := domain.NewAppDependencies(c.cfg)
	if err != nil {
		return err
	}
	c.deps = deps
	reg := deps.Registry()

	appLogger, _ := reg.AppLogger()
	apiLogger, _ := reg.APILogger()

	opts := api.RouterOptions{
		AccessLog:           apiLogger,
		PrivateNetworksOnly: c.cfg.Server.PrivateNetworksOnly,
	}
	if !c.noViewer {
		viewer, err := frontend.NewViewer(reg, frontend.ViewerOptions{DefaultLogger: c.cfg.Stream.DefaultLogger})
		if err != nil {
			_ = deps.Close()
			return fmt.Errorf("failed to create log viewer: %w", err)
		}
		opts.Viewer = viewer
	}

	router := api.NewRouter(api.NewHandler(reg, deps.Streamer(), deps.Tailer()), opts)
	c.apiServer = components.NewAPIServer(c.bindAddr, router, deps.Streamer().Tracker(), c.cfg.Server.ShutdownTimeout.Std())

	c.components = nil
	if c.cfg.Service.MirrorToAppLogger {
		c.components = append(c.components, components.NewLogMirror(appLogger.WithoutConsole()))
	}
	c.components = append(c.components, c.apiServer)

	for i, comp := range c.components {
		if err := comp.Start(); err != nil {
			for j := i - 1; j >= 0; j-- {
				_ = c.components[j].Stop()
			}
			_ = deps.Close()
			return fmt.Errorf("failed to start %s: %w", comp.Name(), err)
		}
	}

	if c.cfg.Server.PrivateNetworksOnly {
		log.Infof("Access restricted to private subnets only")
	}
	log.Infof("Serving %d loggers with backing files: %v", len(reg.LoggerNamesWithFiles()), reg.LoggerNamesWithFiles())
	return nil
}

// Addr returns the address the API server listens on.
func (c *ServerCommand) Addr() string {
	if c.apiServer == nil {
		return ""
	}
	return c.apiServer.Addr()
}

// Stop stops components in reverse order and closes the registry.
func (c *ServerCommand) Stop() error {
	for i := len(c.components) - 1; i >= 0; i-- {
		if err := c.components[i].Stop(); err != nil {
			log.Errorf("Failed to stop %s: %v", c.components[i].Name(), err)
		}
	}
	c.components = nil

	if c.deps != nil {
		deps := c.deps
		c.deps = nil
		if err := deps.Close(); err != nil {
			return fmt.Errorf("failed to close logger registry: %w", err)
		}
	}
	return nil
}

// Run starts the server and blocks until SIGINT or SIGTERM.
func (c *ServerCommand) Run() error {
	log.Infof("Configuration loaded from: %s", c.ctx.ConfigPath)

	if err := c.Start(); err != nil {
		return err
	}

	if ok, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		log.Warnf("Failed to notify systemd: %v", err)
	} else if ok {
		log.Debugf("Notified systemd that the service is ready")
	}

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	var runErr error
	select {
	case err := <-c.apiServer.Errors():
		if err != nil {
			runErr = fmt.Errorf("server error: %w", err)
		}
	case sig := <-shutdown:
		log.Infof("Received signal %v, shutting down server...", sig)
	}

	_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)

	if err := c.Stop(); err != nil && runErr == nil {
		runErr = err
	}
	if runErr == nil {
		log.Infof("Server stopped gracefully")
	}
	return runErr
}
