package progress

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatSeconds(t *testing.T) {
	cases := map[int]string{
		0:    "0:00",
		9:    "0:09",
		65:   "1:05",
		600:  "10:00",
		3600: "1:0:00",
		3661: "1:1:01",
		7325: "2:2:05",
		-4:   "0:00",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatSeconds(in), "FormatSeconds(%d)", in)
	}
}

func TestComputeBars(t *testing.T) {
	b := ComputeBars(90, 180, 120, 100)
	assert.Equal(t, Bars{Played: 50, Buffered: 67}, b)

	// floor for played, round for buffered
	b = ComputeBars(1.99, 10, 0.06, 10)
	assert.Equal(t, 1, b.Played)
	assert.Equal(t, 0, b.Buffered)
}

func TestComputeBarsUnknownDuration(t *testing.T) {
	assert.Equal(t, Bars{}, ComputeBars(10, math.NaN(), 5, 80))
	assert.Equal(t, Bars{}, ComputeBars(10, 0, 5, 80))
	assert.Equal(t, Bars{}, ComputeBars(10, 100, 5, 0))
}

func TestComputeBarsClamps(t *testing.T) {
	b := ComputeBars(250, 200, 400, 40)
	assert.Equal(t, Bars{Played: 40, Buffered: 40}, b)

	b = ComputeBars(-3, 200, math.NaN(), 40)
	assert.Equal(t, Bars{}, b)
}

func TestSeekFraction(t *testing.T) {
	g := Geometry{Left: 10, Pad: 2, Width: 104}
	assert.Equal(t, 100, g.BarWidth())
	assert.InDelta(t, 0.5, SeekFraction(62, g), 1e-9)
	assert.Equal(t, 0.0, SeekFraction(0, g))
	assert.Equal(t, 1.0, SeekFraction(500, g))
	assert.Equal(t, 0.0, SeekFraction(5, Geometry{Width: 2, Pad: 1}))
}

func TestComputePreview(t *testing.T) {
	g := Geometry{Left: 0, Pad: 2, Width: 104, BoxWidth: 6}

	p, ok := ComputePreview(52, g, 200, 200)
	assert.True(t, ok)
	assert.Equal(t, 100, p.Seconds)
	assert.Equal(t, "1:40", p.Label)
	assert.Equal(t, 50, p.X)
}

func TestComputePreviewClampsBox(t *testing.T) {
	g := Geometry{Left: 0, Pad: 2, Width: 104, BoxWidth: 6}

	p, ok := ComputePreview(0, g, 200, 200)
	assert.True(t, ok)
	assert.Equal(t, 0, p.Seconds)
	assert.Equal(t, 2, p.X)

	p, ok = ComputePreview(200, g, 200, 200)
	assert.True(t, ok)
	assert.Equal(t, 200, p.Seconds)
	assert.Equal(t, 96, p.X)
}

func TestComputePreviewNotApplicable(t *testing.T) {
	g := Geometry{Pad: 2, Width: 104, BoxWidth: 6}

	_, ok := ComputePreview(40, g, 200, 0)
	assert.False(t, ok)
	_, ok = ComputePreview(40, g, math.NaN(), 30)
	assert.False(t, ok)
}
