package audio

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rawSource serves fixed interleaved PCM samples.
type rawSource struct {
	*bytes.Reader
	rate     int
	channels int
}

func newRawSource(rate, channels int, samples ...int16) *rawSource {
	buf := make([]byte, 0, len(samples)*2)
	for _, s := range samples {
		buf = binary.LittleEndian.AppendUint16(buf, uint16(s))
	}
	return &rawSource{Reader: bytes.NewReader(buf), rate: rate, channels: channels}
}

func (s *rawSource) Length() int64     { return s.Size() }
func (s *rawSource) SampleRate() int   { return s.rate }
func (s *rawSource) ChannelCount() int { return s.channels }

func readFrames(t *testing.T, src io.Reader) [][2]int16 {
	t.Helper()
	data, err := io.ReadAll(src)
	require.NoError(t, err)
	require.Zero(t, len(data)%frameSize)
	frames := make([][2]int16, 0, len(data)/frameSize)
	for off := 0; off < len(data); off += frameSize {
		frames = append(frames, [2]int16{
			int16(binary.LittleEndian.Uint16(data[off:])),
			int16(binary.LittleEndian.Uint16(data[off+2:])),
		})
	}
	return frames
}

func TestNormalizePassesThroughNativeFormat(t *testing.T) {
	src := newRawSource(sampleRate, 2, 1, 2, 3, 4)
	got, err := normalize(src)
	require.NoError(t, err)
	assert.Same(t, src, got)
}

func TestNormalizeRejectsSurroundAndBadRate(t *testing.T) {
	_, err := normalize(newRawSource(sampleRate, 6, make([]int16, 12)...))
	assert.ErrorIs(t, err, errUnsupported)
	_, err = normalize(newRawSource(0, 2, 1, 2))
	assert.ErrorIs(t, err, errUnsupported)
}

func TestResamplerUpmixesMono(t *testing.T) {
	norm, err := normalize(newRawSource(sampleRate, 1, 10, -20, 30))
	require.NoError(t, err)
	assert.Equal(t, int64(3*frameSize), norm.Length())
	assert.Equal(t, [][2]int16{{10, 10}, {-20, -20}, {30, 30}}, readFrames(t, norm))
}

func TestResamplerInterpolatesUpsampled(t *testing.T) {
	// 22.05 kHz doubles: every other output frame sits halfway between
	// two source frames.
	norm, err := normalize(newRawSource(sampleRate/2, 2, 0, 0, 100, -100, 200, -200))
	require.NoError(t, err)
	assert.Equal(t, sampleRate, norm.SampleRate())
	assert.Equal(t, int64(6*frameSize), norm.Length())
	assert.Equal(t, [][2]int16{
		{0, 0}, {50, -50}, {100, -100}, {150, -150}, {200, -200}, {200, -200},
	}, readFrames(t, norm))
}

func TestResamplerDownsamplesLength(t *testing.T) {
	samples := make([]int16, 48000*2)
	norm, err := normalize(newRawSource(48000, 2, samples...))
	require.NoError(t, err)
	assert.Equal(t, int64(sampleRate*frameSize), norm.Length())
	assert.Len(t, readFrames(t, norm), sampleRate)
}

func TestResamplerSeek(t *testing.T) {
	samples := make([]int16, 0, 40)
	for i := range 20 {
		samples = append(samples, int16(i*100), int16(-i*100))
	}
	norm, err := normalize(newRawSource(sampleRate/2, 2, samples...))
	require.NoError(t, err)

	pos, err := norm.Seek(10*frameSize+1, io.SeekStart)
	require.NoError(t, err)
	assert.Equal(t, int64(10*frameSize), pos, "aligned to a frame")

	buf := make([]byte, frameSize)
	_, err = io.ReadFull(norm, buf)
	require.NoError(t, err)
	assert.Equal(t, int16(500), int16(binary.LittleEndian.Uint16(buf)))
	assert.Equal(t, int16(-500), int16(binary.LittleEndian.Uint16(buf[2:])))

	cur, err := norm.Seek(0, io.SeekCurrent)
	require.NoError(t, err)
	assert.Equal(t, int64(11*frameSize), cur)

	end, err := norm.Seek(0, io.SeekEnd)
	require.NoError(t, err)
	assert.Equal(t, norm.Length(), end)
	_, err = norm.Read(buf)
	assert.ErrorIs(t, err, io.EOF)
}
