package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/bctl/internal/logtail"
)

// logState holds the client log view.
type logState struct {
	viewport    viewport.Model
	lines       []string
	follow      bool
	lastRefresh time.Time
}

func newLogState() logState {
	return logState{
		viewport: viewport.New(0, 0),
		follow:   true,
	}
}

func (m *Model) resizeLogViewport() {
	m.logState.viewport.Width = m.width
	m.logState.viewport.Height = m.contentHeight()
	m.renderLogContent()
}

func (m *Model) setLogLines(lines []string) {
	m.logState.lines = lines
	m.renderLogContent()
}

func (m *Model) renderLogContent() {
	styles := m.theme.Styles()
	var b strings.Builder
	for i, raw := range m.logState.lines {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(colorizeLogLine(raw, styles))
	}
	m.logState.viewport.SetContent(b.String())
	if m.logState.follow {
		m.logState.viewport.GotoBottom()
	}
}

// colorizeLogLine styles a console log line by level.
func colorizeLogLine(raw string, styles Styles) string {
	line := logtail.ParseLine(raw)
	if line.Level == "" {
		return styles.MutedText.Render(line.Message)
	}

	level := styles.InfoText
	switch line.Level {
	case "INF":
		level = styles.SuccessText
	case "WRN":
		level = styles.WarningText
	case "ERR", "FTL", "PNC":
		level = styles.DangerText
	}
	return styles.FaintText.Render(line.Time) + " " +
		level.Render(line.Level) + " " +
		styles.Text.Render(line.Message)
}

// handleLogsKey processes keyboard input for the log view.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ToggleFollow):
		m.logState.follow = !m.logState.follow
		if m.logState.follow {
			m.logState.viewport.GotoBottom()
		}
		return m, nil
	case key.Matches(msg, m.keys.Top):
		m.logState.follow = false
		m.logState.viewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.logState.viewport.GotoBottom()
		return m, nil
	}

	// Scrolling by hand stops following.
	if key.Matches(msg, m.keys.Up) {
		m.logState.follow = false
	}
	var cmd tea.Cmd
	m.logState.viewport, cmd = m.logState.viewport.Update(msg)
	return m, cmd
}

// renderLogs renders the log view.
func (m Model) renderLogs() string {
	if len(m.logState.lines) == 0 {
		return m.theme.Styles().MutedText.Render("  No log output yet (" + m.logPath + ")")
	}
	return m.logState.viewport.View()
}

// Messages

type logLinesMsg struct {
	lines []string
}

type logErrorMsg struct {
	err error
}

// refreshLogs reads the tail of the client log.
func (m Model) refreshLogs() tea.Cmd {
	path := m.logPath
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		lines, err := logtail.Read(path, logTailLines)
		if err != nil {
			return logErrorMsg{err: err}
		}
		return logLinesMsg{lines: lines}
	}
}
