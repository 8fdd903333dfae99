package registry

import (
	"github.com/maksimkurb/logstream/src/internal/config"
)

// NewFromConfig builds a registry from the [logging] defaults and registers
// every [[logger]] entry in file order.
func NewFromConfig(cfg *config.Config) (*Registry, error) {
	level, err := ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}

	reg := New(Defaults{
		Directory: cfg.GetAbsLogDirectory(),
		Level:     level,
		ToConsole: cfg.Logging.ToConsole,
		ToFile:    cfg.Logging.ToFile,
		Format:    cfg.Logging.Format,
	})

	for _, lc := range cfg.Loggers {
		if _, err := reg.GetLogger(lc.Name, OptionsFromConfig(lc)); err != nil {
			_ = reg.Close()
			return nil, err
		}
	}
	return reg, nil
}

// OptionsFromConfig converts a [[logger]] entry to Options.
func OptionsFromConfig(lc *config.LoggerConfig) Options {
	opts := Options{
		Level:     lc.Level,
		ToConsole: lc.ToConsole,
		ToFile:    lc.ToFile,
		FileName:  lc.FileName,
		Format:    lc.Format,
	}
	if lc.Syslog != nil {
		opts.Syslog = &SyslogOptions{
			Address:        lc.Syslog.Address,
			Protocol:       lc.Syslog.Protocol,
			Tag:            lc.Syslog.Tag,
			CertBundlePath: lc.Syslog.CertBundlePath,
		}
	}
	return opts
}
