package ui

import (
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"

	"github.com/five82/bctl/internal/playback"
	"github.com/five82/bctl/internal/progress"
)

// barState animates the played portion of the progress bar and tracks the
// pointer hovering over it.
type barState struct {
	spring harmonica.Spring
	pos    float64
	vel    float64

	preview  progress.Preview
	hovering bool
}

func newBarState() barState {
	return barState{spring: harmonica.NewSpring(harmonica.FPS(frameRate), 8.0, 1.0)}
}

func (m Model) barGeometry() progress.Geometry {
	return progress.Geometry{
		Left:     0,
		Pad:      barPad,
		Width:    m.width,
		BoxWidth: previewBoxWidth,
	}
}

func (m Model) targetBars() progress.Bars {
	pb := m.snapshot.Playback
	return progress.ComputeBars(pb.CurrentTime, pb.Duration, pb.BufferedEnd, m.barGeometry().BarWidth())
}

// stepBar moves the animated fill one frame toward the played width. A jump
// back to zero (new track) snaps instead of sliding.
func (m *Model) stepBar() {
	target := float64(m.targetBars().Played)
	if target == 0 {
		m.bar.pos, m.bar.vel = 0, 0
		return
	}
	m.bar.pos, m.bar.vel = m.bar.spring.Update(m.bar.pos, m.bar.vel, target)
}

// playedCells is the animated fill clamped to the bar.
func (m Model) playedCells(width int) int {
	cells := int(math.Round(m.bar.pos))
	return max(0, min(cells, width))
}

// handleMouse shows the seek preview while hovering the bar and seeks on click.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	if msg.Y != m.barRow() {
		m.bar.hovering = false
		return
	}

	pb := m.snapshot.Playback
	g := m.barGeometry()
	m.bar.preview, m.bar.hovering = progress.ComputePreview(msg.X, g, pb.Duration, pb.SeekableEnd)

	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && m.bar.hovering {
		frac := progress.SeekFraction(msg.X, g)
		m.dispatch("seek", func(p Player) { p.SeekTo(frac) })
	}
}

// renderTransport renders the now-playing line, the preview row and the bar.
func (m Model) renderTransport() string {
	return m.renderNowPlaying() + "\n" + m.renderPreviewRow() + "\n" + m.renderBar()
}

func (m Model) renderNowPlaying() string {
	styles := m.theme.Styles()
	pb := m.snapshot.Playback

	st := pb.State.String()
	parts := []string{styles.StateStyle(st).Render(st)}
	if pb.State == playback.Pending || pb.State == playback.Loading {
		parts = append(parts, m.spinner.View())
	}

	title := truncate(pb.NowPlaying, max(10, m.width/2))
	if pb.State == playback.Errored && pb.LastError != nil {
		title = styles.DangerText.Render(pb.LastError.Kind.String()) + " " + styles.MutedText.Render(title)
	} else {
		title = styles.Text.Render(title)
	}
	parts = append(parts, title)

	right := m.modeFlags()
	if pb.Duration > 0 {
		right += "  " + progress.FormatSeconds(int(pb.CurrentTime)) + " / " + progress.FormatSeconds(int(pb.Duration))
	}

	left := " " + strings.Join(parts, " ")
	return padBetween(left, styles.MutedText.Render(right)+" ", m.width)
}

func (m Model) modeFlags() string {
	var flags []string
	if m.repeat {
		flags = append(flags, "[repeat]")
	}
	if m.random {
		flags = append(flags, "[random]")
	}
	return strings.Join(flags, " ")
}

func (m Model) renderPreviewRow() string {
	if !m.bar.hovering {
		return ""
	}
	g := m.barGeometry()
	return strings.Repeat(" ", g.Left+m.bar.preview.X) + m.theme.Styles().Tooltip.Render(m.bar.preview.Label)
}

func (m Model) renderBar() string {
	styles := m.theme.Styles()
	g := m.barGeometry()
	width := g.BarWidth()
	if width <= 0 {
		return ""
	}

	played := m.playedCells(width)
	buffered := max(played, m.targetBars().Buffered)

	pad := strings.Repeat(" ", g.Pad)
	return pad +
		styles.BarPlayed.Render(strings.Repeat("━", played)) +
		styles.BarBuffered.Render(strings.Repeat("━", buffered-played)) +
		styles.BarEmpty.Render(strings.Repeat("─", width-buffered)) +
		pad
}
