package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/bctl/internal/progress"
	"github.com/five82/bctl/internal/queue"
)

// handlePlaylistKey processes keyboard input for the playlist view.
func (m Model) handlePlaylistKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.snapshot.Playback.Tracks)

	if key.Matches(msg, m.keys.Clear) {
		m.dispatch("clear", func(p Player) { p.ClearQueue() })
		m.playlistRow = 0
		return m, nil
	}

	if n == 0 {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.playlistRow > 0 {
			m.playlistRow--
		}
	case key.Matches(msg, m.keys.Down):
		if m.playlistRow < n-1 {
			m.playlistRow++
		}
	case key.Matches(msg, m.keys.Top):
		m.playlistRow = 0
	case key.Matches(msg, m.keys.Bottom):
		m.playlistRow = n - 1

	case key.Matches(msg, m.keys.Select):
		idx := m.playlistRow
		log := m.log
		m.dispatch("play", func(p Player) {
			if err := p.PlayAt(idx); err != nil {
				log.Warn().Err(err).Msg("play selected track")
			}
		})

	case key.Matches(msg, m.keys.Remove):
		idx := m.playlistRow
		log := m.log
		m.dispatch("remove", func(p Player) {
			if err := p.RemoveFromQueue(idx); err != nil {
				log.Warn().Err(err).Msg("remove track")
			}
		})
	}
	return m, nil
}

// Playlist column widths, in cells.
const (
	colNumber = 4
	colLength = 8
)

// renderPlaylist renders the queue with the current track highlighted.
func (m Model) renderPlaylist(height int) string {
	styles := m.theme.Styles()
	pb := m.snapshot.Playback
	if len(pb.Tracks) == 0 {
		return styles.MutedText.Render("  Playlist is empty. Add songs from the library (1).")
	}

	header := styles.FaintText.Render(m.playlistColumns("#", "Title", "Album", "Artist", "Length"))
	lines := []string{header}
	lines = append(lines, renderWindow(len(pb.Tracks), m.playlistRow, height-1, func(i int, selected bool) string {
		text := m.playlistLine(i, pb.Tracks[i])
		current := pb.HasCursor && pb.Cursor == i
		switch {
		case selected && current:
			return styles.Selected.Bold(true).Width(m.width).Render(text)
		case selected:
			return styles.Selected.Width(m.width).Render(text)
		case current:
			return styles.Current.Render(text)
		default:
			return styles.Text.Render(text)
		}
	})...)
	return strings.Join(lines, "\n")
}

func (m Model) playlistLine(i int, t queue.Track) string {
	return m.playlistColumns(
		fmt.Sprintf("%d", i+1),
		t.Title,
		t.Album,
		t.Artist,
		progress.FormatSeconds(t.Duration),
	)
}

// playlistColumns lays out one row: number, title, album, artist, length.
// Title gets half of the flexible width, album and artist a quarter each.
func (m Model) playlistColumns(num, title, album, artist, length string) string {
	flex := max(12, m.width-colNumber-colLength-4)
	titleW := flex / 2
	albumW := flex / 4
	artistW := flex - titleW - albumW

	cell := func(s string, w int) string {
		return lipgloss.NewStyle().Width(w).MaxWidth(w).Render(truncate(s, w-1))
	}
	return " " +
		lipgloss.NewStyle().Width(colNumber).Align(lipgloss.Right).Render(num) + " " +
		cell(title, titleW) +
		cell(album, albumW) +
		cell(artist, artistW) +
		lipgloss.NewStyle().Width(colLength).Align(lipgloss.Right).Render(length)
}
