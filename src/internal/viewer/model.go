package viewer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

type (
	batchMsg Batch
	errMsg   struct{ err error }
)

// Model is the bubbletea model of the terminal viewer.
type Model struct {
	source Source
	logger string
	server string

	batch    Batch
	received bool
	follow   bool
	err      error

	vp     viewport.Model
	ready  bool
	width  int
	height int

	keys   keyMap
	help   help.Model
	styles styles
}

// NewModel creates a viewer reading from source. logger and server are shown
// in the header only.
func NewModel(source Source, logger, server string) Model {
	return Model{
		source: source,
		logger: logger,
		server: server,
		follow: true,
		keys:   defaultKeyMap(),
		help:   help.New(),
		styles: defaultStyles(),
	}
}

// Err returns the error that ended the connection, if any.
func (m Model) Err() error {
	return m.err
}

func waitForBatch(src Source) tea.Cmd {
	return func() tea.Msg {
		b, err := src.Next()
		if err != nil {
			return errMsg{err: err}
		}
		return batchMsg(b)
	}
}

func (m Model) Init() tea.Cmd {
	return waitForBatch(m.source)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		// header and footer take one line each
		bodyHeight := max(msg.Height-2, 1)
		if !m.ready {
			m.vp = viewport.New(msg.Width, bodyHeight)
			m.ready = true
		} else {
			m.vp.Width = msg.Width
			m.vp.Height = bodyHeight
		}
		m.refresh()
		return m, nil

	case batchMsg:
		m.batch = Batch(msg)
		m.received = true
		m.refresh()
		return m, waitForBatch(m.source)

	case errMsg:
		m.err = msg.err
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Follow):
		m.follow = !m.follow
		if m.follow {
			m.vp.GotoBottom()
		}
		return m, nil
	case key.Matches(msg, m.keys.Top):
		m.follow = false
		m.vp.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.vp.GotoBottom()
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.follow = false
	}

	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

// refresh rebuilds the viewport content from the latest push.
func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.vp.SetContent(m.body())
	if m.follow {
		m.vp.GotoBottom()
	}
}

func (m Model) body() string {
	if !m.received {
		return m.styles.faint.Render("waiting for the first push...")
	}
	if m.batch.File == "" {
		return m.styles.notice.Render(m.batch.Notice)
	}
	rendered := make([]string, len(m.batch.Lines))
	for i, l := range m.batch.Lines {
		rendered[i] = m.styles.line(l)
	}
	return strings.Join(rendered, "\n")
}

func (m Model) header() string {
	title := m.styles.header.Render(fmt.Sprintf("logstream · %s", m.logger))
	var detail string
	switch {
	case !m.received:
		detail = "connecting to " + m.server
	case m.batch.File == "":
		detail = "no backing file"
	case m.batch.Resolved != "" && m.batch.Resolved != m.batch.Logger:
		detail = fmt.Sprintf("%s (via %s)", m.batch.File, m.batch.Resolved)
	default:
		detail = m.batch.File
	}
	return title + " " + m.styles.faint.Render(detail)
}

func (m Model) footer() string {
	state := "follow on"
	if !m.follow {
		state = "follow off"
	}
	return m.styles.status.Render(state) + "  " + m.help.ShortHelpView(m.keys.help())
}

func (m Model) View() string {
	if !m.ready {
		return m.header() + "\n"
	}
	return m.header() + "\n" + m.vp.View() + "\n" + m.footer()
}

// Run shows pushes from source until the user quits or the
// connection ends.
func Run(source Source, logger, server string) error {
	p := tea.NewProgram(NewModel(source, logger, server), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(Model); ok && m.err != nil {
		return fmt.Errorf("connection closed: %w", m.err)
	}
	return nil
}
