package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/bctl/internal/media"
)

const (
	defaultMonitorInterval = 200 * time.Millisecond
	progressEvery          = 1 << 20
	readChunk              = 64 << 10
)

// Options configure an Element.
type Options struct {
	HTTPClient *http.Client
	// Output defaults to the system audio device.
	Output Output
	Logger zerolog.Logger
	// Sink receives every event. It is called without locks held.
	Sink            media.Sink
	MonitorInterval time.Duration
}

// Element is a media.Surface that downloads a stream over HTTP, decodes it
// in memory and plays it through an Output.
type Element struct {
	http         *http.Client
	out          Output
	log          zerolog.Logger
	sink         media.Sink
	monitorEvery time.Duration

	mu          sync.Mutex
	src         string
	gen         uint64
	monitored   uint64
	cancel      context.CancelFunc
	counter     *countingReader
	pcmLen      int64
	voice       Voice
	paused      bool
	ended       bool
	wantPlay    bool
	duration    float64
	bufferedEnd float64
	pendingSeek float64
}

var _ media.Surface = (*Element)(nil)

// New creates an Element with no source.
func New(opts Options) *Element {
	e := &Element{
		http:         opts.HTTPClient,
		out:          opts.Output,
		log:          opts.Logger,
		sink:         opts.Sink,
		monitorEvery: opts.MonitorInterval,
		paused:       true,
		duration:     math.NaN(),
		pendingSeek:  -1,
	}
	if e.http == nil {
		e.http = &http.Client{}
	}
	if e.out == nil {
		e.out = DeviceOutput{}
	}
	if e.monitorEvery <= 0 {
		e.monitorEvery = defaultMonitorInterval
	}
	return e
}

// SetSink replaces the event sink. Call it before the first command.
func (e *Element) SetSink(sink media.Sink) {
	e.mu.Lock()
	e.sink = sink
	e.mu.Unlock()
}

// SetSource assigns a new stream URL, abandoning whatever was loaded.
func (e *Element) SetSource(locator string) {
	e.mu.Lock()
	var events []media.Event
	if e.cancel != nil {
		events = append(events, media.Event{Type: media.EventAbort, Source: e.src})
	}
	e.resetLocked()
	e.src = locator
	e.mu.Unlock()
	e.emit(events...)
}

func (e *Element) resetLocked() {
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	if e.voice != nil {
		e.voice.Pause()
		e.voice = nil
	}
	e.gen++
	e.counter = nil
	e.pcmLen = 0
	e.paused = true
	e.ended = false
	e.wantPlay = false
	e.duration = math.NaN()
	e.bufferedEnd = 0
	e.pendingSeek = -1
}

// Source returns the assigned stream URL.
func (e *Element) Source() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.src
}

// Load starts fetching the source in the background.
func (e *Element) Load() {
	e.mu.Lock()
	if e.src == "" {
		e.mu.Unlock()
		return
	}
	src, want, seek := e.src, e.wantPlay, e.pendingSeek
	e.resetLocked()
	e.src, e.wantPlay, e.pendingSeek = src, want, seek
	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	gen := e.gen
	e.mu.Unlock()

	e.log.Debug().Str("src", src).Msg("fetching stream")
	go e.fetch(ctx, gen, src)
}

func (e *Element) fetch(ctx context.Context, gen uint64, src string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		e.fail(gen, media.ErrSrcNotSupported, fmt.Errorf("create request: %w", err))
		return
	}
	resp, err := e.http.Do(req)
	if err != nil {
		if ctx.Err() == nil {
			e.fail(gen, media.ErrNetwork, fmt.Errorf("fetch stream: %w", err))
		}
		return
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode >= 500:
		e.fail(gen, media.ErrNetwork, fmt.Errorf("stream returned status %d", resp.StatusCode))
		return
	case resp.StatusCode >= 400:
		e.fail(gen, media.ErrSrcNotSupported, fmt.Errorf("stream returned status %d", resp.StatusCode))
		return
	}

	var buf bytes.Buffer
	if resp.ContentLength > 0 {
		buf.Grow(int(resp.ContentLength))
	}
	chunk := make([]byte, readChunk)
	sinceProgress := 0
	for {
		n, err := resp.Body.Read(chunk)
		buf.Write(chunk[:n])
		sinceProgress += n
		if sinceProgress >= progressEvery {
			sinceProgress = 0
			e.emitIfCurrent(gen, media.EventProgress)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if ctx.Err() == nil {
				e.fail(gen, media.ErrNetwork, fmt.Errorf("read stream: %w", err))
			}
			return
		}
	}

	data := buf.Bytes()
	f, err := detectFormat(resp.Header.Get("Content-Type"), data[:min(len(data), 16)])
	if err != nil {
		e.fail(gen, media.ErrSrcNotSupported, err)
		return
	}
	dec, err := newDecoder(f, bytes.NewReader(data))
	if err != nil {
		code := media.ErrDecode
		if errors.Is(err, errUnsupported) {
			code = media.ErrSrcNotSupported
		}
		e.fail(gen, code, err)
		return
	}
	e.ready(gen, dec)
}

func (e *Element) ready(gen uint64, dec pcmSource) {
	e.mu.Lock()
	if gen != e.gen {
		e.mu.Unlock()
		return
	}
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	e.counter = &countingReader{reader: dec}
	e.pcmLen = dec.Length()
	e.duration = float64(e.pcmLen) / bytesPerSec
	e.bufferedEnd = e.duration
	if e.pendingSeek > 0 {
		e.seekLocked(e.pendingSeek)
	}
	e.pendingSeek = -1
	var err error
	if e.wantPlay && !e.paused {
		err = e.startVoiceLocked()
	}
	src, duration := e.src, e.duration
	e.mu.Unlock()

	e.log.Debug().Str("src", src).Float64("duration", duration).Msg("stream decoded")
	e.emit(
		media.Event{Type: media.EventDurationChange, Source: src},
		media.Event{Type: media.EventLoadedData, Source: src},
		media.Event{Type: media.EventProgress, Source: src},
	)
	if err != nil {
		e.fail(gen, media.ErrUnknown, err)
	}
}

func (e *Element) startVoiceLocked() error {
	if e.voice == nil {
		v, err := e.out.NewVoice(e.counter)
		if err != nil {
			return fmt.Errorf("open audio output: %w", err)
		}
		e.voice = v
	}
	e.voice.Play()
	if e.monitored != e.gen {
		e.monitored = e.gen
		go e.monitor(e.gen)
	}
	return nil
}

// monitor watches for the end of the stream.
func (e *Element) monitor(gen uint64) {
	ticker := time.NewTicker(e.monitorEvery)
	defer ticker.Stop()
	for range ticker.C {
		e.mu.Lock()
		if gen != e.gen {
			e.mu.Unlock()
			return
		}
		if e.paused || e.counter == nil || e.counter.Pos() < e.pcmLen {
			e.mu.Unlock()
			continue
		}
		e.paused = true
		e.ended = true
		e.wantPlay = false
		e.monitored = 0
		if e.voice != nil {
			e.voice.Pause()
		}
		src := e.src
		e.mu.Unlock()

		e.emit(
			media.Event{Type: media.EventPause, Source: src},
			media.Event{Type: media.EventEnded, Source: src},
		)
		return
	}
}

// Play starts or resumes playback. The play event fires immediately, before
// any audio is available.
func (e *Element) Play() {
	e.mu.Lock()
	if e.src == "" || !e.paused {
		e.mu.Unlock()
		return
	}
	if e.ended && e.counter != nil {
		e.seekLocked(0)
	}
	e.ended = false
	e.paused = false
	e.wantPlay = true
	var err error
	if e.counter != nil {
		err = e.startVoiceLocked()
	}
	gen, src := e.gen, e.src
	e.mu.Unlock()

	e.emit(media.Event{Type: media.EventPlay, Source: src})
	if err != nil {
		e.fail(gen, media.ErrUnknown, err)
	}
}

// Pause halts playback.
func (e *Element) Pause() {
	e.mu.Lock()
	if e.paused {
		e.mu.Unlock()
		return
	}
	e.paused = true
	e.wantPlay = false
	if e.voice != nil {
		e.voice.Pause()
	}
	src := e.src
	e.mu.Unlock()
	e.emit(media.Event{Type: media.EventPause, Source: src})
}

// SetCurrentTime seeks. Before the stream is decoded the position is
// remembered and applied once it is.
func (e *Element) SetCurrentTime(seconds float64) {
	if math.IsNaN(seconds) {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.counter == nil {
		if e.src != "" {
			e.pendingSeek = seconds
		}
		return
	}
	e.ended = false
	e.seekLocked(seconds)
}

func (e *Element) seekLocked(seconds float64) {
	pos := int64(seconds * bytesPerSec)
	pos = max(0, min(pos, e.pcmLen))
	pos -= pos % (channelCount * 2)
	if _, err := e.counter.SeekTo(pos); err != nil {
		e.log.Warn().Err(err).Float64("seconds", seconds).Msg("seek failed")
		return
	}
	if e.voice == nil {
		return
	}
	// A fresh voice drops whatever the old one had buffered.
	e.voice.Pause()
	e.voice = nil
	if !e.paused {
		if err := e.startVoiceLocked(); err != nil {
			e.log.Error().Err(err).Msg("restart output after seek")
		}
	}
}

// CurrentTime returns the playback position in seconds.
func (e *Element) CurrentTime() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.counter == nil {
		return max(e.pendingSeek, 0)
	}
	return float64(e.counter.Pos()) / bytesPerSec
}

// Duration returns the track length in seconds, or NaN before decoding.
func (e *Element) Duration() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.duration
}

// Paused reports whether playback is halted.
func (e *Element) Paused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.paused
}

// Buffered returns the downloaded span.
func (e *Element) Buffered() media.TimeRanges {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.bufferedEnd <= 0 {
		return nil
	}
	return media.TimeRanges{{Start: 0, End: e.bufferedEnd}}
}

// Seekable returns the span that can be seeked to.
func (e *Element) Seekable() media.TimeRanges {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.counter == nil {
		return nil
	}
	return media.TimeRanges{{Start: 0, End: e.duration}}
}

// Close stops playback and abandons any download.
func (e *Element) Close() {
	e.mu.Lock()
	e.resetLocked()
	e.src = ""
	e.mu.Unlock()
}

func (e *Element) fail(gen uint64, code media.ErrorCode, err error) {
	e.mu.Lock()
	if gen != e.gen {
		e.mu.Unlock()
		return
	}
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	if e.voice != nil {
		e.voice.Pause()
	}
	e.paused = true
	e.wantPlay = false
	src := e.src
	e.mu.Unlock()

	e.log.Warn().Err(err).Str("code", code.String()).Str("src", src).Msg("media error")
	e.emit(media.Event{Type: media.EventError, Source: src, Err: &media.Error{Code: code, Err: err}})
}

func (e *Element) emitIfCurrent(gen uint64, typ media.EventType) {
	e.mu.Lock()
	if gen != e.gen {
		e.mu.Unlock()
		return
	}
	src := e.src
	e.mu.Unlock()
	e.emit(media.Event{Type: typ, Source: src})
}

func (e *Element) emit(events ...media.Event) {
	e.mu.Lock()
	sink := e.sink
	e.mu.Unlock()
	if sink == nil {
		return
	}
	for _, ev := range events {
		sink(ev)
	}
}
