package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the logo, server liveness and the latest notice.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	snap := m.snapshot

	parts := []string{styles.Logo.Render("bctl")}

	switch label := snap.ConnectionLabel(); label {
	case "Connected":
		parts = append(parts, styles.SuccessText.Render(label))
	case "Disconnected":
		parts = append(parts, styles.DangerText.Render(label))
	default:
		parts = append(parts, styles.FaintText.Render("Connecting..."))
	}

	switch {
	case m.notice != "":
		parts = append(parts, styles.InfoText.Render(m.notice))
	case snap.CatalogError != nil:
		parts = append(parts, styles.WarningText.Render(truncate(snap.CatalogError.Error(), m.width/2)))
	}

	right := styles.FaintText.Render(fmt.Sprintf("%d tracks", len(snap.Playback.Tracks)))
	content := padBetween(strings.Join(parts, "  "), right, max(0, m.width-2))

	return styles.Header.Width(m.width).Render(content)
}

// renderCommandBar renders the view tabs and the library breadcrumb.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles()

	tabs := make([]string, len(viewNames))
	for i, name := range viewNames {
		label := fmt.Sprintf("%d %s", i+1, name)
		if View(i) == m.currentView {
			tabs[i] = styles.AccentText.Bold(true).Underline(true).Render(label)
		} else {
			tabs[i] = styles.MutedText.Render(label)
		}
	}

	left := " " + strings.Join(tabs, "  ")
	var right string
	switch m.currentView {
	case ViewLibrary:
		right = m.browser.breadcrumb()
	case ViewLogs:
		if m.logState.follow {
			right = "following"
		}
	}
	return padBetween(left, styles.FaintText.Render(right)+" ", m.width)
}

// renderFooter renders the short key help.
func (m Model) renderFooter() string {
	return m.theme.Styles().Footer.Width(m.width).Render(m.help.ShortHelpView(m.keys.ShortHelp()))
}

// renderHelp renders the help overlay.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Keyboard Shortcuts"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 30)))
	b.WriteString("\n\n")
	b.WriteString(m.help.FullHelpView(m.keys.FullHelp()))
	b.WriteString("\n\n")
	b.WriteString(styles.FaintText.Render("Theme: " + m.theme.Name + "  ·  any key closes"))

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.BorderFocus)).
		Padding(1, 2)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}
