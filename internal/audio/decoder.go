package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"mime"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"
)

// errUnsupported marks sources this package cannot render.
var errUnsupported = errors.New("unsupported audio format")

type format string

const (
	formatMP3  format = "mp3"
	formatOGG  format = "ogg"
	formatFLAC format = "flac"
	formatWAV  format = "wav"
)

// detectFormat picks a decoder from the response content type, falling back
// to the stream's magic bytes.
func detectFormat(contentType string, head []byte) (format, error) {
	mediaType, _, _ := mime.ParseMediaType(contentType)
	switch strings.ToLower(mediaType) {
	case "audio/mpeg", "audio/mp3", "audio/mpeg3":
		return formatMP3, nil
	case "audio/ogg", "application/ogg", "audio/vorbis":
		return formatOGG, nil
	case "audio/flac", "audio/x-flac":
		return formatFLAC, nil
	case "audio/wav", "audio/x-wav", "audio/wave", "audio/vnd.wave":
		return formatWAV, nil
	}
	switch {
	case bytes.HasPrefix(head, []byte("fLaC")):
		return formatFLAC, nil
	case bytes.HasPrefix(head, []byte("OggS")):
		return formatOGG, nil
	case len(head) >= 12 && bytes.Equal(head[:4], []byte("RIFF")) && bytes.Equal(head[8:12], []byte("WAVE")):
		return formatWAV, nil
	case bytes.HasPrefix(head, []byte("ID3")), len(head) >= 2 && head[0] == 0xFF && head[1]&0xE0 == 0xE0:
		return formatMP3, nil
	}
	return "", fmt.Errorf("%w: content type %q", errUnsupported, contentType)
}

// pcmSource yields 16-bit little-endian PCM.
type pcmSource interface {
	io.ReadSeeker
	// Length is the total PCM size in bytes.
	Length() int64
	SampleRate() int
	ChannelCount() int
}

func newDecoder(f format, r io.ReadSeeker) (pcmSource, error) {
	var (
		src pcmSource
		err error
	)
	switch f {
	case formatMP3:
		src, err = newMP3Source(r)
	case formatWAV:
		src, err = newWAVSource(r)
	case formatFLAC:
		src, err = newFLACSource(r)
	case formatOGG:
		src, err = newOGGSource(r)
	default:
		return nil, fmt.Errorf("%w: %s", errUnsupported, f)
	}
	if err != nil {
		return nil, err
	}
	return normalize(src)
}

type mp3Source struct {
	dec *mp3.Decoder
}

func newMP3Source(r io.Reader) (*mp3Source, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("decode mp3: %w", err)
	}
	return &mp3Source{dec: dec}, nil
}

func (d *mp3Source) Read(p []byte) (int, error) { return d.dec.Read(p) }

func (d *mp3Source) Seek(offset int64, whence int) (int64, error) {
	return d.dec.Seek(offset, whence)
}

func (d *mp3Source) Length() int64 { return d.dec.Length() }

func (d *mp3Source) SampleRate() int { return d.dec.SampleRate() }

// go-mp3 always produces stereo.
func (d *mp3Source) ChannelCount() int { return 2 }

// frameReader converts decoded frames to PCM on demand. Format decoders fill
// it through next and implement seeking through seekFrame.
type frameReader struct {
	pending   []byte
	pos       int64
	total     int64
	rate      int
	channels  int
	next      func() ([]byte, error)
	seekFrame func(frame int64) error
}

func (f *frameReader) Read(p []byte) (int, error) {
	for len(f.pending) == 0 {
		chunk, err := f.next()
		if len(chunk) > 0 {
			f.pending = chunk
			break
		}
		if err != nil {
			return 0, err
		}
	}
	n := copy(p, f.pending)
	f.pending = f.pending[n:]
	f.pos += int64(n)
	return n, nil
}

func (f *frameReader) Seek(offset int64, whence int) (int64, error) {
	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = f.pos + offset
	case io.SeekEnd:
		target = f.total + offset
	default:
		return f.pos, fmt.Errorf("seek: invalid whence %d", whence)
	}
	target = max(0, min(target, f.total))
	frameSize := int64(f.channels) * 2
	target -= target % frameSize
	if err := f.seekFrame(target / frameSize); err != nil {
		return f.pos, err
	}
	f.pending = nil
	f.pos = target
	return target, nil
}

func (f *frameReader) Length() int64     { return f.total }
func (f *frameReader) SampleRate() int   { return f.rate }
func (f *frameReader) ChannelCount() int { return f.channels }

func putSample(dst []byte, v int) {
	v = max(-32768, min(32767, v))
	binary.LittleEndian.PutUint16(dst, uint16(int16(v)))
}

func newWAVSource(r io.ReadSeeker) (*frameReader, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("decode wav: invalid file")
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("decode wav: %w", err)
	}
	depth := int(dec.BitDepth)
	channels := int(dec.NumChans)
	if depth%8 != 0 || depth == 0 || depth > 32 || channels == 0 {
		return nil, fmt.Errorf("%w: %d-bit wav", errUnsupported, depth)
	}
	width := depth / 8
	srcFrame := int64(channels * width)
	frames := dec.PCMLen() / srcFrame
	start, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("decode wav: %w", err)
	}

	fr := &frameReader{
		total:    frames * int64(channels) * 2,
		rate:     int(dec.SampleRate),
		channels: channels,
	}
	remaining := frames * srcFrame
	raw := make([]byte, 4096*srcFrame)
	fr.next = func() ([]byte, error) {
		if remaining <= 0 {
			return nil, io.EOF
		}
		n, err := io.ReadFull(r, raw[:min(int64(len(raw)), remaining)])
		samples := n / width
		remaining -= int64(samples * width)
		out := make([]byte, samples*2)
		for i := range samples {
			putSample(out[i*2:], wavSample(raw[i*width:], depth))
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			err = io.EOF
		}
		return out, err
	}
	fr.seekFrame = func(frame int64) error {
		if _, err := r.Seek(start+frame*srcFrame, io.SeekStart); err != nil {
			return err
		}
		remaining = (frames - frame) * srcFrame
		return nil
	}
	return fr, nil
}

func wavSample(b []byte, depth int) int {
	switch depth {
	case 8:
		return (int(b[0]) - 128) << 8
	case 16:
		return int(int16(binary.LittleEndian.Uint16(b)))
	case 24:
		s := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
		if s&0x800000 != 0 {
			s |= ^0xFFFFFF
		}
		return int(s >> 8)
	default:
		return int(int32(binary.LittleEndian.Uint32(b)) >> 16)
	}
}

func newFLACSource(r io.ReadSeeker) (*frameReader, error) {
	stream, err := flac.NewSeek(r)
	if err != nil {
		return nil, fmt.Errorf("decode flac: %w", err)
	}
	info := stream.Info
	channels := int(info.NChannels)
	bps := int(info.BitsPerSample)
	fr := &frameReader{
		total:    int64(info.NSamples) * int64(channels) * 2,
		rate:     int(info.SampleRate),
		channels: channels,
	}
	fr.next = func() ([]byte, error) {
		frame, err := stream.ParseNext()
		if err != nil {
			return nil, err
		}
		n := int(frame.Subframes[0].NSamples)
		out := make([]byte, n*channels*2)
		for i := range n {
			for ch := range channels {
				v := int(frame.Subframes[ch].Samples[i])
				if bps > 16 {
					v >>= bps - 16
				} else if bps < 16 {
					v <<= 16 - bps
				}
				putSample(out[(i*channels+ch)*2:], v)
			}
		}
		return out, nil
	}
	fr.seekFrame = func(frame int64) error {
		_, err := stream.Seek(uint64(frame))
		return err
	}
	return fr, nil
}

func newOGGSource(r io.Reader) (*frameReader, error) {
	reader, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("decode ogg: %w", err)
	}
	channels := reader.Channels()
	fr := &frameReader{
		total:    reader.Length() * int64(channels) * 2,
		rate:     reader.SampleRate(),
		channels: channels,
	}
	samples := make([]float32, 4096*channels)
	fr.next = func() ([]byte, error) {
		n, err := reader.Read(samples)
		out := make([]byte, n*2)
		for i := range n {
			s := max(-1, min(1, samples[i]))
			putSample(out[i*2:], int(s*32767))
		}
		return out, err
	}
	fr.seekFrame = func(frame int64) error {
		return reader.SetPosition(frame)
	}
	return fr, nil
}
