package registry

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"sync"

	syslogger "github.com/silverstagtech/srslog"

	"github.com/maksimkurb/logstream/src/internal/errors"
)

const (
	syslogUDP = "udp"
	syslogTCP = "tcp"
	syslogTLS = "tcp+tls"
)

// SyslogOptions configures a syslog sink.
type SyslogOptions struct {
	Address string
	// Protocol is udp (default), tcp or tcp+tls.
	Protocol string
	// Tag defaults to the logger name.
	Tag string
	// CertBundlePath is a PEM bundle of roots trusted for tcp+tls.
	CertBundlePath string
}

// SyslogHandler forwards records to a syslog server. The connection is
// dialed on the first record and re-dialed after a failed write.
type SyslogHandler struct {
	mu     sync.Mutex
	opts   SyslogOptions
	writer *syslogger.Writer
	closed bool
}

func NewSyslogHandler(opts SyslogOptions) (*SyslogHandler, error) {
	if opts.Protocol == "" {
		opts.Protocol = syslogUDP
	}
	switch opts.Protocol {
	case syslogUDP, syslogTCP, syslogTLS:
	default:
		return nil, errors.NewRegistryError(fmt.Sprintf("%s is not a valid protocol to connect to syslog", opts.Protocol), nil)
	}
	if opts.Address == "" {
		return nil, errors.NewRegistryError("syslog address is required", nil)
	}
	return &SyslogHandler{opts: opts}, nil
}

func (h *SyslogHandler) dial() (*syslogger.Writer, error) {
	priority := syslogger.LOG_INFO | syslogger.LOG_DAEMON
	if h.opts.Protocol != syslogTLS {
		return syslogger.Dial(h.opts.Protocol, h.opts.Address, priority, h.opts.Tag)
	}

	certbundle, err := os.ReadFile(h.opts.CertBundlePath)
	if err != nil {
		return nil, err
	}
	roots := x509.NewCertPool()
	if !roots.AppendCertsFromPEM(certbundle) {
		return nil, fmt.Errorf("failed to parse the given certificate bundle")
	}
	return syslogger.DialWithTLSConfig(syslogTLS, h.opts.Address, priority, h.opts.Tag, &tls.Config{RootCAs: roots})
}

func (h *SyslogHandler) Handle(rec Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return errors.NewSinkError("syslog handler is closed", os.ErrClosed)
	}
	if h.writer == nil {
		w, err := h.dial()
		if err != nil {
			return errors.NewSinkError("failed to connect to syslog server", err)
		}
		h.writer = w
	}

	var err error
	switch {
	case rec.Level >= LevelCritical:
		err = h.writer.Crit(rec.Message)
	case rec.Level >= LevelError:
		err = h.writer.Err(rec.Message)
	case rec.Level >= LevelWarning:
		err = h.writer.Warning(rec.Message)
	case rec.Level >= LevelInfo:
		err = h.writer.Info(rec.Message)
	default:
		err = h.writer.Debug(rec.Message)
	}
	if err != nil {
		_ = h.writer.Close()
		h.writer = nil
		return errors.NewSinkError("failed to write to syslog", err)
	}
	return nil
}

func (h *SyslogHandler) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	if h.writer == nil {
		return nil
	}
	err := h.writer.Close()
	h.writer = nil
	if err != nil {
		return errors.NewSinkError("failed to close syslog connection", err)
	}
	return nil
}
