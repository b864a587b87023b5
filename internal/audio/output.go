package audio

import (
	"io"
	"sync"

	"github.com/ebitengine/oto/v3"
)

const (
	sampleRate   = 44100
	channelCount = 2
	bytesPerSec  = sampleRate * channelCount * 2
)

// Voice is one playback stream on the output device.
type Voice interface {
	Play()
	Pause()
}

// Output creates voices that pull PCM from r.
type Output interface {
	NewVoice(r io.Reader) (Voice, error)
}

// DeviceOutput plays through the system audio device. The device is opened
// on first use and shared by every voice.
type DeviceOutput struct{}

var (
	otoCtx     *oto.Context
	otoOnce    sync.Once
	otoInitErr error
)

func initOto() (*oto.Context, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: channelCount,
			Format:       oto.FormatSignedInt16LE,
		}
		var ready chan struct{}
		otoCtx, ready, otoInitErr = oto.NewContext(op)
		if otoInitErr == nil {
			<-ready
		}
	})
	return otoCtx, otoInitErr
}

// NewVoice implements Output.
func (DeviceOutput) NewVoice(r io.Reader) (Voice, error) {
	ctx, err := initOto()
	if err != nil {
		return nil, err
	}
	return ctx.NewPlayer(r), nil
}

// countingReader tracks how many PCM bytes the output has consumed. Reads
// and seeks are serialized because the output pulls from its own goroutine.
type countingReader struct {
	mu     sync.Mutex
	reader io.ReadSeeker
	pos    int64
}

func (cr *countingReader) Read(p []byte) (int, error) {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	n, err := cr.reader.Read(p)
	cr.pos += int64(n)
	return n, err
}

func (cr *countingReader) SeekTo(pos int64) (int64, error) {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	got, err := cr.reader.Seek(pos, io.SeekStart)
	if err != nil {
		return cr.pos, err
	}
	cr.pos = got
	return got, nil
}

func (cr *countingReader) Pos() int64 {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	return cr.pos
}
