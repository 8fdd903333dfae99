package registry

import (
	"io"
	"strings"
	"time"

	"github.com/valyala/fasttemplate"
)

// AscTimeLayout renders {{asctime}}, e.g. "2024-03-01 12:00:00,123".
const AscTimeLayout = "2006-01-02 15:04:05,000"

// DefaultFormat is used when neither the logger nor the registry defaults set one.
const DefaultFormat = "{{asctime}} - {{name}} - {{levelname}} - {{message}}"

// Record is a single log event.
type Record struct {
	Time    time.Time
	Name    string
	Level   Level
	Message string
}

// Formatter renders records through a template with the placeholders
// {{asctime}}, {{name}}, {{levelname}} and {{message}}.
// Unknown placeholders are written back unchanged.
type Formatter struct {
	format string
	tmpl   *fasttemplate.Template
}

func NewFormatter(format string) (*Formatter, error) {
	if format == "" {
		format = DefaultFormat
	}
	tmpl, err := fasttemplate.NewTemplate(format, "{{", "}}")
	if err != nil {
		return nil, err
	}
	return &Formatter{format: format, tmpl: tmpl}, nil
}

// Format returns the rendered record without a trailing newline.
func (f *Formatter) Format(rec Record) string {
	return f.tmpl.ExecuteFuncString(func(w io.Writer, tag string) (int, error) {
		switch strings.TrimSpace(tag) {
		case "asctime":
			return io.WriteString(w, rec.Time.Format(AscTimeLayout))
		case "name":
			return io.WriteString(w, rec.Name)
		case "levelname":
			return io.WriteString(w, rec.Level.String())
		case "message":
			return io.WriteString(w, rec.Message)
		default:
			return io.WriteString(w, "{{"+tag+"}}")
		}
	})
}

func (f *Formatter) String() string {
	return f.format
}
