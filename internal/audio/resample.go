package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	frameSize = channelCount * 2
	// fillFrames is how many source frames a resampler reads at a time.
	fillFrames = 2048
)

// normalize presents src as 44.1 kHz stereo. Sources already in that shape
// are returned unchanged.
func normalize(src pcmSource) (pcmSource, error) {
	rate, channels := src.SampleRate(), src.ChannelCount()
	if rate <= 0 {
		return nil, fmt.Errorf("%w: sample rate %d Hz", errUnsupported, rate)
	}
	if channels < 1 || channels > channelCount {
		return nil, fmt.Errorf("%w: %d channels", errUnsupported, channels)
	}
	if rate == sampleRate && channels == channelCount {
		return src, nil
	}

	srcFrame := channels * 2
	totalSrc := src.Length() / int64(srcFrame)
	totalOut := totalSrc * sampleRate / int64(rate)
	if totalSrc > 0 && totalOut == 0 {
		totalOut = 1
	}
	return &resampler{
		src:      src,
		rate:     int64(rate),
		channels: channels,
		srcFrame: srcFrame,
		totalSrc: totalSrc,
		totalOut: totalOut,
	}, nil
}

// resampler converts a mono or stereo source at any rate to 44.1 kHz stereo
// by linear interpolation between neighbouring source frames.
type resampler struct {
	src      pcmSource
	rate     int64
	channels int
	srcFrame int

	totalSrc int64
	totalOut int64
	outPos   int64 // output frame
	// phase is outPos*rate; the source frame is phase/sampleRate and the
	// interpolation weight is phase%sampleRate.
	phase int64

	// window holds decoded stereo samples starting at source frame base.
	window  []int16
	base    int64
	pending []byte
	scratch []byte
}

func (r *resampler) Length() int64     { return r.totalOut * frameSize }
func (r *resampler) SampleRate() int   { return sampleRate }
func (r *resampler) ChannelCount() int { return channelCount }

func (r *resampler) Read(p []byte) (int, error) {
	if len(r.pending) > 0 {
		n := copy(p, r.pending)
		r.pending = r.pending[n:]
		return n, nil
	}
	if r.outPos >= r.totalOut {
		return 0, io.EOF
	}

	frames := max(int64(len(p)/frameSize), 1)
	frames = min(frames, r.totalOut-r.outPos)
	out := make([]byte, 0, frames*frameSize)
	var err error
	for range frames {
		f := r.phase / sampleRate
		if f >= r.totalSrc {
			break
		}
		var l0, r0 int16
		if l0, r0, err = r.frame(f); err != nil {
			break
		}
		l1, r1 := l0, r0
		if f+1 < r.totalSrc {
			if l1, r1, err = r.frame(f + 1); err != nil {
				// The length was an estimate; hold the last frame.
				l1, r1, err = l0, r0, nil
			}
		}
		frac := r.phase % sampleRate
		out = binary.LittleEndian.AppendUint16(out, uint16(lerp(l0, l1, frac)))
		out = binary.LittleEndian.AppendUint16(out, uint16(lerp(r0, r1, frac)))
		r.outPos++
		r.phase += r.rate
	}
	if len(out) == 0 {
		if err == nil {
			err = io.EOF
		}
		return 0, err
	}

	n := copy(p, out)
	r.pending = out[n:]
	return n, nil
}

func (r *resampler) Seek(offset int64, whence int) (int64, error) {
	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = r.outPos*frameSize - int64(len(r.pending)) + offset
	case io.SeekEnd:
		target = r.Length() + offset
	default:
		return 0, fmt.Errorf("invalid seek whence: %d", whence)
	}
	target = max(0, min(target, r.Length()))
	target -= target % frameSize

	outFrame := target / frameSize
	srcFrame := outFrame * r.rate / sampleRate
	if _, err := r.src.Seek(srcFrame*int64(r.srcFrame), io.SeekStart); err != nil {
		return 0, err
	}
	r.outPos = outFrame
	r.phase = outFrame * r.rate
	r.window = r.window[:0]
	r.base = srcFrame
	r.pending = nil
	return target, nil
}

// frame returns the stereo sample pair of source frame f, decoding ahead as
// needed. Frames before f-1 are discarded.
func (r *resampler) frame(f int64) (int16, int16, error) {
	if drop := min(f-1-r.base, int64(len(r.window)/2)); drop > 0 {
		kept := copy(r.window, r.window[drop*2:])
		r.window = r.window[:kept]
		r.base += drop
	}
	for f >= r.base+int64(len(r.window)/2) {
		if err := r.fill(); err != nil {
			return 0, 0, err
		}
	}
	if f < r.base {
		return 0, 0, fmt.Errorf("source frame %d already discarded", f)
	}
	i := (f - r.base) * 2
	return r.window[i], r.window[i+1], nil
}

func (r *resampler) fill() error {
	size := fillFrames * r.srcFrame
	if cap(r.scratch) < size {
		r.scratch = make([]byte, size)
	}
	buf := r.scratch[:size]
	n, err := io.ReadFull(r.src, buf)
	n -= n % r.srcFrame
	if n == 0 {
		if err == nil || errors.Is(err, io.ErrUnexpectedEOF) {
			err = io.EOF
		}
		return err
	}

	for off := 0; off < n; off += r.srcFrame {
		left := int16(binary.LittleEndian.Uint16(buf[off:]))
		right := left
		if r.channels == 2 {
			right = int16(binary.LittleEndian.Uint16(buf[off+2:]))
		}
		r.window = append(r.window, left, right)
	}
	return nil
}

// lerp moves from a toward b by frac/sampleRate, rounding half away from zero.
func lerp(a, b int16, frac int64) int16 {
	if frac == 0 || a == b {
		return a
	}
	step := (int64(b) - int64(a)) * frac
	if step < 0 {
		step -= sampleRate / 2
	} else {
		step += sampleRate / 2
	}
	return int16(int64(a) + step/sampleRate)
}
