package viewer

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/maksimkurb/logstream/src/internal/logtail"
)

type styles struct {
	header lipgloss.Style
	faint  lipgloss.Style
	status lipgloss.Style
	err    lipgloss.Style
	warn   lipgloss.Style
	normal lipgloss.Style
	notice lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#005F87", Dark: "#8AD"}),
		faint:  lipgloss.NewStyle().Faint(true),
		status: lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#5B8", Dark: "#5B8"}),
		err:    lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#C00000", Dark: "#FF6B6B"}),
		warn:   lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#C77D00", Dark: "#FFB020"}),
		normal: lipgloss.NewStyle(),
		notice: lipgloss.NewStyle().Italic(true).Faint(true),
	}
}

func (s styles) line(l logtail.Line) string {
	switch l.Severity {
	case logtail.Error:
		return s.err.Render(l.Text)
	case logtail.Warning:
		return s.warn.Render(l.Text)
	default:
		return s.normal.Render(l.Text)
	}
}
