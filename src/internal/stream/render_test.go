package stream

import (
	"encoding/json"
	"testing"

	"github.com/maksimkurb/logstream/src/internal/logtail"
)

func TestHTMLRenderer_Render(t *testing.T) {
	tests := []struct {
		name     string
		batch    Batch
		expected string
	}{
		{
			name: "severity styling",
			batch: Batch{File: "/tmp/app.log", Lines: []logtail.Line{
				{Severity: logtail.Normal, Text: "start"},
				{Severity: logtail.Error, Text: "ERROR disk full"},
				{Severity: logtail.Warning, Text: "WARNING slow"},
			}},
			expected: `start<br/><span class="text-red-400">ERROR disk full</span><br/><span class="text-orange-300">WARNING slow</span><br/>`,
		},
		{
			name:     "empty window",
			batch:    Batch{File: "/tmp/app.log"},
			expected: "",
		},
		{
			name:     "escaping",
			batch:    Batch{File: "/tmp/app.log", Lines: []logtail.Line{{Text: `a < b & "c"`}}},
			expected: `a &lt; b &amp; &#34;c&#34;<br/>`,
		},
		{
			name:     "notice without file",
			batch:    Batch{Notice: fallback},
			expected: fallback,
		},
	}

	r := NewHTMLRenderer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Render(tt.batch)
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if string(got) != tt.expected {
				t.Errorf("Render() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestJSONRenderer_Render(t *testing.T) {
	got, err := JSONRenderer{}.Render(Batch{
		Logger:   "db",
		Resolved: "db",
		File:     "/var/log/database.log",
		Lines:    []logtail.Line{{Severity: logtail.Error, Text: "ERROR x"}},
	})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	want := `{"logger":"db","resolved":"db","file":"/var/log/database.log","lines":[{"severity":"error","text":"ERROR x"}]}`
	if string(got) != want {
		t.Errorf("Render() = %s, want %s", got, want)
	}

	got, err = JSONRenderer{}.Render(Batch{Logger: "nope", Notice: fallback})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(got, &decoded); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if decoded["notice"] != fallback {
		t.Errorf("notice = %v", decoded["notice"])
	}
	if lines, ok := decoded["lines"].([]interface{}); !ok || len(lines) != 0 {
		t.Errorf("Expected empty lines array, got %v", decoded["lines"])
	}
}

func TestRendererFor(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{format: "json", want: FormatJSON},
		{format: "JSON", want: FormatJSON},
		{format: "html", want: FormatHTML},
		{format: "", want: FormatHTML},
		{format: "xml", want: FormatHTML},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			if got := FormatName(tt.format); got != tt.want {
				t.Errorf("FormatName() = %v, want %v", got, tt.want)
			}
			_, isJSON := RendererFor(tt.format).(JSONRenderer)
			if isJSON != (tt.want == FormatJSON) {
				t.Errorf("RendererFor(%q) returned %T", tt.format, RendererFor(tt.format))
			}
		})
	}
}
