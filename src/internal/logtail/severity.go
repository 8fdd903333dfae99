package logtail

import (
	"fmt"
	"strings"
)

// Severity is the coarse presentation class of a log line.
type Severity int

const (
	Normal Severity = iota
	Warning
	Error
)

const (
	errorMarker   = "ERROR"
	warningMarker = "WARNING"
)

// Classify maps a raw line to a severity. The markers are matched
// case-sensitively anywhere in the line; ERROR takes precedence over WARNING.
func Classify(line string) Severity {
	switch {
	case strings.Contains(line, errorMarker):
		return Error
	case strings.Contains(line, warningMarker):
		return Warning
	default:
		return Normal
	}
}

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "normal"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	switch string(text) {
	case "error":
		*s = Error
	case "warning":
		*s = Warning
	case "normal", "":
		*s = Normal
	default:
		return fmt.Errorf("unknown severity %q", string(text))
	}
	return nil
}
