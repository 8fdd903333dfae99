// Package commands implements CLI command handlers for logstream.
//
// Each command implements the Runner interface:
//   - Init(): Parse arguments and load configuration
//   - Run(): Execute the command
//   - Name(): Return command name for routing
//
// # Available Commands
//
//   - server: Run the logger registry with the HTTP API, viewer page and live streams
//   - loggers: List loggers with a backing file
//   - emit: Write one record through a logger
//   - watch: Follow a logger of a running server in the terminal
//   - config: Print the effective configuration
//
// # Example Usage
//
//	cmd := commands.CreateEmitCommand()
//	ctx := &commands.AppContext{ConfigPath: "/etc/logstream/logstream.toml"}
//	if err := cmd.Init([]string{"-logger", "db", "-level", "ERROR", "connection lost"}, ctx); err != nil {
//	    log.Fatal(err)
//	}
//	if err := cmd.Run(); err != nil {
//	    log.Fatal(err)
//	}
package commands
