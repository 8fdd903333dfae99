package frontend

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type staticLister []string

func (s staticLister) LoggerNamesWithFiles() []string {
	return s
}

func TestViewer_Render(t *testing.T) {
	tests := []struct {
		name        string
		loggers     staticLister
		contains    []string
		notContains []string
	}{
		{
			name:     "options sorted as given",
			loggers:  staticLister{"api", "app", "db"},
			contains: []string{`<option value="api">api</option>`, `<option value="db">db</option>`, `data-default="app"`},
		},
		{
			name:        "no loggers",
			loggers:     staticLister{},
			notContains: []string{"<option"},
		},
		{
			name:        "names are escaped",
			loggers:     staticLister{`"><script>`},
			contains:    []string{`<option value="&#34;&gt;&lt;script&gt;">`},
			notContains: []string{"<script>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := NewViewer(tt.loggers, ViewerOptions{DefaultLogger: "app"})
			if err != nil {
				t.Fatalf("NewViewer() error = %v", err)
			}
			page := v.Render()

			if !strings.HasPrefix(page, "<!DOCTYPE html>") {
				t.Errorf("Expected an HTML document")
			}
			if !strings.Contains(page, DefaultTitle) {
				t.Errorf("Expected default title in page")
			}
			for _, want := range tt.contains {
				if !strings.Contains(page, want) {
					t.Errorf("Expected %q in page", want)
				}
			}
			for _, unwanted := range tt.notContains {
				if strings.Contains(page, unwanted) {
					t.Errorf("Unexpected %q in page", unwanted)
				}
			}
		})
	}
}

func TestViewer_ServeHTTP(t *testing.T) {
	v, err := NewViewer(staticLister{"app"}, ViewerOptions{Title: "Logs"})
	if err != nil {
		t.Fatalf("NewViewer() error = %v", err)
	}

	tests := []struct {
		name        string
		path        string
		wantStatus  int
		wantContain string
	}{
		{name: "page", path: "/log_viewer/", wantStatus: http.StatusOK, wantContain: "<title>Logs</title>"},
		{name: "stylesheet", path: "/log_viewer/assets/app.css", wantStatus: http.StatusOK, wantContain: ".text-red-400"},
		{name: "script", path: "/log_viewer/assets/app.js", wantStatus: http.StatusOK, wantContain: "WebSocket"},
		{name: "template not exposed", path: "/log_viewer/assets/index.html", wantStatus: http.StatusNotFound},
		{name: "assets root", path: "/log_viewer/assets/", wantStatus: http.StatusNotFound},
		{name: "unknown page", path: "/log_viewer/other", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			v.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantContain != "" && !strings.Contains(rec.Body.String(), tt.wantContain) {
				t.Errorf("Expected %q in body", tt.wantContain)
			}
		})
	}
}
