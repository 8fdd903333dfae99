package stream

import (
	"encoding/json"
	"html"
	"io"
	"strings"

	"github.com/valyala/fasttemplate"

	"github.com/maksimkurb/logstream/src/internal/logtail"
)

// Batch is the content of one push.
type Batch struct {
	// Logger is the logger name the viewer asked for.
	Logger string
	// Resolved is the logger actually tailed. It differs from Logger after a fallback.
	Resolved string
	// File is the tailed path, empty when nothing resolved.
	File string
	// Notice replaces the lines when File is empty.
	Notice string
	Lines  []logtail.Line
}

// Renderer turns a batch into one message.
type Renderer interface {
	Render(b Batch) ([]byte, error)
}

const (
	FormatHTML = "html"
	FormatJSON = "json"
)

// RendererFor returns the renderer for a format name. Unknown names get HTML.
func RendererFor(format string) Renderer {
	if strings.EqualFold(format, FormatJSON) {
		return JSONRenderer{}
	}
	return NewHTMLRenderer()
}

// FormatName normalises a requested format to one RendererFor understands.
func FormatName(format string) string {
	if strings.EqualFold(format, FormatJSON) {
		return FormatJSON
	}
	return FormatHTML
}

// HTMLRenderer renders every line as an HTML fragment ending in <br/>,
// wrapping error and warning lines in a coloured span. Text is escaped.
type HTMLRenderer struct {
	templates map[logtail.Severity]*fasttemplate.Template
}

func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{
		templates: map[logtail.Severity]*fasttemplate.Template{
			logtail.Error:   fasttemplate.New(`<span class="text-red-400">{{text}}</span><br/>`, "{{", "}}"),
			logtail.Warning: fasttemplate.New(`<span class="text-orange-300">{{text}}</span><br/>`, "{{", "}}"),
			logtail.Normal:  fasttemplate.New(`{{text}}<br/>`, "{{", "}}"),
		},
	}
}

func (r *HTMLRenderer) Render(b Batch) ([]byte, error) {
	if b.File == "" {
		return []byte(html.EscapeString(b.Notice)), nil
	}

	var sb strings.Builder
	for _, line := range b.Lines {
		tmpl, ok := r.templates[line.Severity]
		if !ok {
			tmpl = r.templates[logtail.Normal]
		}
		text := html.EscapeString(line.Text)
		if _, err := tmpl.ExecuteFunc(&sb, func(w io.Writer, tag string) (int, error) {
			return io.WriteString(w, text)
		}); err != nil {
			return nil, err
		}
	}
	return []byte(sb.String()), nil
}

// JSONRenderer renders a batch as a JSON object:
//
//	{"logger":"db","resolved":"db","file":"/var/log/database.log","lines":[{"severity":"error","text":"..."}]}
type JSONRenderer struct{}

type jsonBatch struct {
	Logger   string         `json:"logger"`
	Resolved string         `json:"resolved,omitempty"`
	File     string         `json:"file,omitempty"`
	Notice   string         `json:"notice,omitempty"`
	Lines    []logtail.Line `json:"lines"`
}

func (JSONRenderer) Render(b Batch) ([]byte, error) {
	lines := b.Lines
	if lines == nil {
		lines = []logtail.Line{}
	}
	out := jsonBatch{
		Logger:   b.Logger,
		Resolved: b.Resolved,
		File:     b.File,
		Lines:    lines,
	}
	if b.File == "" {
		out.Notice = b.Notice
	}
	return json.Marshal(out)
}
