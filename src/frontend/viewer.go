// Package frontend serves the embedded HTML log viewer.
package frontend

import (
	"html"
	"io"
	"net/http"
	"strings"

	"github.com/valyala/fasttemplate"

	"github.com/maksimkurb/logstream/src/internal/log"
)

const (
	// DefaultTitle is the page title when none is configured.
	DefaultTitle = "Streaming Log Viewer"
	// BasePath is where the viewer is mounted.
	BasePath = "/log_viewer/"
	// WebSocketPath is the endpoint the page connects to.
	WebSocketPath = "/ws/log"
)

// LoggerLister provides the selector entries.
type LoggerLister interface {
	LoggerNamesWithFiles() []string
}

// ViewerOptions configure the viewer page.
type ViewerOptions struct {
	Title         string
	DefaultLogger string
}

// Viewer renders the viewer page and serves its assets.
type Viewer struct {
	loggers LoggerLister
	opts    ViewerOptions
	page    *fasttemplate.Template
	assets  http.Handler
}

// NewViewer parses the embedded page template.
func NewViewer(loggers LoggerLister, opts ViewerOptions) (*Viewer, error) {
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}

	raw, err := ViewerFS.ReadFile("viewer/index.html")
	if err != nil {
		return nil, err
	}
	page, err := fasttemplate.NewTemplate(string(raw), "{{", "}}")
	if err != nil {
		return nil, err
	}

	assets, err := GetHTTPFileSystem()
	if err != nil {
		return nil, err
	}

	return &Viewer{
		loggers: loggers,
		opts:    opts,
		page:    page,
		assets:  http.StripPrefix(BasePath+"assets", http.FileServer(assets)),
	}, nil
}

// ServeHTTP serves the page at BasePath and assets below BasePath+"assets/".
func (v *Viewer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if asset, ok := strings.CutPrefix(r.URL.Path, BasePath+"assets/"); ok {
		// The page template is not an asset.
		if asset == "" || strings.HasSuffix(asset, ".html") {
			http.NotFound(w, r)
			return
		}
		v.assets.ServeHTTP(w, r)
		return
	}

	if r.URL.Path != BasePath {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := io.WriteString(w, v.Render()); err != nil {
		log.Debugf("Failed to write viewer page: %v", err)
	}
}

// Render returns the page with the current logger names in the selector.
func (v *Viewer) Render() string {
	names := v.loggers.LoggerNamesWithFiles()

	return v.page.ExecuteFuncString(func(w io.Writer, tag string) (int, error) {
		switch tag {
		case "title":
			return io.WriteString(w, html.EscapeString(v.opts.Title))
		case "default_logger":
			return io.WriteString(w, html.EscapeString(v.opts.DefaultLogger))
		case "base":
			return io.WriteString(w, BasePath)
		case "ws_path":
			return io.WriteString(w, WebSocketPath)
		case "options":
			var sb strings.Builder
			for _, name := range names {
				escaped := html.EscapeString(name)
				sb.WriteString(`      <option value="` + escaped + `">` + escaped + "</option>\n")
			}
			return io.WriteString(w, sb.String())
		default:
			return io.WriteString(w, "{{"+tag+"}}")
		}
	})
}
