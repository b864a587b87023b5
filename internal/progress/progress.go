package progress

import (
	"fmt"
	"math"
)

// Bars holds the filled widths of the progress and buffered bars.
type Bars struct {
	Played   int
	Buffered int
}

// Geometry describes the bar's container: its left edge, the padding between
// the container and the bar on each side, the container's full width and the
// width of the seek preview box. All values share one unit (cells or pixels).
type Geometry struct {
	Left     int
	Pad      int
	Width    int
	BoxWidth int
}

// BarWidth is the usable track width inside the padding.
func (g Geometry) BarWidth() int {
	return g.Width - 2*g.Pad
}

// Preview is the hover tooltip shown above the bar.
type Preview struct {
	X       int
	Seconds int
	Label   string
}

// ComputeBars returns the played and buffered widths for a bar of width
// cells. An unknown or zero duration yields empty bars.
func ComputeBars(currentTime, duration, bufferedEnd float64, width int) Bars {
	if width <= 0 || !usable(duration) {
		return Bars{}
	}
	played := math.Floor(float64(width) * currentTime / duration)
	buffered := math.Round(float64(width) * bufferedEnd / duration)
	return Bars{
		Played:   clamp(played, width),
		Buffered: clamp(buffered, width),
	}
}

// SeekFraction maps a pointer x coordinate to a position along the bar.
// The result is clamped to [0, 1].
func SeekFraction(pointerX int, g Geometry) float64 {
	bw := g.BarWidth()
	if bw <= 0 {
		return 0
	}
	f := float64(pointerX-g.Left-g.Pad) / float64(bw)
	return math.Max(0, math.Min(1, f))
}

// ComputePreview derives the seek preview for a pointer at pointerX. It
// reports false when the source has no seekable range yet.
func ComputePreview(pointerX int, g Geometry, duration, seekableEnd float64) (Preview, bool) {
	if seekableEnd <= 0 || !usable(duration) {
		return Preview{}, false
	}
	bw := g.BarWidth()
	if bw <= 0 {
		return Preview{}, false
	}
	pos := pointerX - g.Left - g.Pad
	secs := int(math.Round(float64(pos) / float64(bw) * duration))
	secs = max(0, min(secs, int(math.Floor(duration))))

	x := pos
	if hi := bw - g.BoxWidth + g.Pad; x > hi {
		x = hi
	}
	if x < g.Pad {
		x = g.Pad
	}
	return Preview{X: x, Seconds: secs, Label: FormatSeconds(secs)}, true
}

// FormatSeconds renders a duration as m:ss, or h:m:ss when at least an hour.
// The minutes field is not padded when hours are shown.
func FormatSeconds(sec int) string {
	if sec < 0 {
		sec = 0
	}
	h := sec / 3600
	m := (sec % 3600) / 60
	s := sec % 60
	if h > 0 {
		return fmt.Sprintf("%d:%d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

func usable(duration float64) bool {
	return !math.IsNaN(duration) && !math.IsInf(duration, 0) && duration > 0
}

func clamp(v float64, width int) int {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > float64(width) {
		return width
	}
	return int(v)
}
