// Package registry hands out consistently configured named loggers.
//
// A Registry is constructed explicitly and injected where it is needed.
// Each logger is created on its first GetLogger call with console, file
// and syslog handlers chosen from its Options, falling back to the
// registry Defaults. Later calls return the same logger unchanged.
//
// The registry is also the source of truth for which file a logger
// writes to:
//
//	reg := registry.New(registry.Defaults{Directory: "/var/log/app", ToConsole: true})
//	db, _ := reg.DBLogger()
//	db.Infof("connected to %s", dsn)
//
//	path, ok := reg.ResolveBackingFile("db") // "/var/log/app/database.log", true
//
// File handlers open their file lazily on the first record, so resolving
// a name never touches the filesystem.
package registry
