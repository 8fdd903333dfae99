package commands

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/maksimkurb/logstream/src/internal/config"
	"github.com/maksimkurb/logstream/src/internal/domain"
	"github.com/maksimkurb/logstream/src/internal/utils"
)

func CreateLoggersCommand() *LoggersCommand {
	return &LoggersCommand{
		fs:  flag.NewFlagSet("loggers", flag.ContinueOnError),
		out: os.Stdout,
	}
}

// LoggersCommand prints every logger with a backing file.
type LoggersCommand struct {
	fs  *flag.FlagSet
	ctx *AppContext
	cfg *config.Config
	out io.Writer
}

func (g *LoggersCommand) Name() string {
	return g.fs.Name()
}

func (g *LoggersCommand) Init(args []string, ctx *AppContext) error {
	g.ctx = ctx

	if err := g.fs.Parse(args); err != nil {
		return err
	}

	if cfg, err := loadAndValidateConfigOrFail(ctx.ConfigPath); err != nil {
		return err
	} else {
		g.cfg = cfg
	}

	return nil
}

func (g *LoggersCommand) Run() error {
	deps, err := domain.NewAppDependencies(g.cfg)
	if err != nil {
		return err
	}
	defer utils.CloseOrWarn(deps)
	reg := deps.Registry()

	names := reg.LoggerNamesWithFiles()
	if len(names) == 0 {
		fmt.Fprintln(g.out, "No loggers with a backing file are configured")
		return nil
	}

	w := tabwriter.NewWriter(g.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LOGGER\tFILE\tEXISTS")
	for _, name := range names {
		path, _ := reg.ResolveBackingFile(name)
		exists := "no"
		if utils.IsRegularFile(path) {
			exists = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", name, path, exists)
	}
	return w.Flush()
}
