package playback

import (
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/bctl/internal/eventloop"
	"github.com/five82/bctl/internal/media"
	"github.com/five82/bctl/internal/queue"
)

const (
	DefaultPlayDelay        = 750 * time.Millisecond
	DefaultProgressInterval = time.Second
)

// Locator resolves a track to the URL the media surface should load.
type Locator interface {
	StreamLocatorFor(id queue.TrackID) string
}

// Options configure a Controller. Queue, Surface, Locator and Clock are
// required.
type Options struct {
	Queue            *queue.Queue
	Surface          media.Surface
	Locator          Locator
	Clock            eventloop.Clock
	Logger           zerolog.Logger
	PlayDelay        time.Duration
	ProgressInterval time.Duration
	Repeat           bool
	Random           bool
	// Intn returns a uniform value in [0, n). Defaults to math/rand/v2.
	Intn func(n int) int
	// OnChange is called after every state, queue or progress change.
	OnChange func(Status)
	// OnError is called when a track fails to play.
	OnError func(*MediaError)
}

// Controller drives a media surface from a queue. All methods, including
// HandleEvent, must be called from the same event loop goroutine.
type Controller struct {
	queue    *queue.Queue
	surface  media.Surface
	locator  Locator
	clock    eventloop.Clock
	log      zerolog.Logger
	intn     func(int) int
	onChange func(Status)
	onError  func(*MediaError)

	playDelay        time.Duration
	progressInterval time.Duration

	state      State
	repeat     bool
	random     bool
	intent     Intent
	seq        uint64
	debounce   eventloop.Timer
	tick       eventloop.Timer
	nowPlaying string
	lastErr    *MediaError
}

// New builds a Controller in the Idle state.
func New(opts Options) (*Controller, error) {
	if opts.Queue == nil || opts.Surface == nil || opts.Locator == nil || opts.Clock == nil {
		return nil, errors.New("playback: queue, surface, locator and clock are required")
	}
	c := &Controller{
		queue:            opts.Queue,
		surface:          opts.Surface,
		locator:          opts.Locator,
		clock:            opts.Clock,
		log:              opts.Logger,
		intn:             opts.Intn,
		onChange:         opts.OnChange,
		onError:          opts.OnError,
		playDelay:        opts.PlayDelay,
		progressInterval: opts.ProgressInterval,
		repeat:           opts.Repeat,
		random:           opts.Random,
	}
	if c.intn == nil {
		c.intn = rand.IntN
	}
	if c.playDelay <= 0 {
		c.playDelay = DefaultPlayDelay
	}
	if c.progressInterval <= 0 {
		c.progressInterval = DefaultProgressInterval
	}
	return c, nil
}

// State returns the current lifecycle state.
func (c *Controller) State() State { return c.state }

// Intent returns the most recent play request.
func (c *Controller) Intent() Intent { return c.intent }

// Play resumes a paused track, or starts the current one (index 0 when
// nothing has played yet) after the debounce delay.
func (c *Controller) Play() {
	if _, ok := c.queue.Cursor(); ok && c.surface.Paused() && (c.state == Paused || c.state == Ended) {
		c.log.Debug().Msg("resuming playback")
		c.surface.Play()
		return
	}
	if c.queue.Len() == 0 {
		return
	}
	idx, ok := c.queue.Cursor()
	if !ok {
		idx = 0
	}
	c.schedule(idx)
}

// PlayAt moves the cursor to index and starts it after the debounce delay.
// Calls arriving within the delay replace each other.
func (c *Controller) PlayAt(index int) error {
	if err := c.queue.SetCursor(index); err != nil {
		return err
	}
	c.schedule(index)
	return nil
}

func (c *Controller) schedule(index int) {
	track, ok := c.queue.Get(index)
	if !ok {
		return
	}
	_ = c.queue.SetCursor(index)
	c.seq++
	c.intent = Intent{Index: index, TrackID: track.ID, seq: c.seq}
	if c.debounce != nil {
		c.debounce.Stop()
	}
	seq := c.seq
	c.debounce = c.clock.AfterFunc(c.playDelay, func() { c.commit(seq) })
	c.setState(Pending)
}

func (c *Controller) commit(seq uint64) {
	if seq != c.intent.seq {
		return
	}
	c.debounce = nil
	src := c.locator.StreamLocatorFor(c.intent.TrackID)
	c.log.Info().
		Str("track", string(c.intent.TrackID)).
		Int("index", c.intent.Index).
		Msg("loading track")
	c.lastErr = nil
	c.setState(Loading)
	c.surface.SetSource(src)
	c.surface.Load()
	c.surface.Play()
}

// Pause pauses the surface. The pause event moves the state to Paused.
func (c *Controller) Pause() {
	c.surface.Pause()
}

// TogglePlayPause pauses while playing and plays otherwise.
func (c *Controller) TogglePlayPause() {
	if c.state == Playing {
		c.Pause()
		return
	}
	c.Play()
}

// Next advances to the following track. auto marks calls made because the
// previous track ended; those stop at the end of the queue unless repeat is on.
func (c *Controller) Next(auto bool) {
	n := c.queue.Len()
	if n == 0 || (n == 1 && !c.surface.Paused()) {
		return
	}
	cur, has := c.queue.Cursor()
	if c.random && n > 1 {
		_ = c.PlayAt(c.pickRandom(cur, has, n))
		return
	}
	target := 0
	if has {
		target = cur + 1
	}
	if target >= n {
		target = 0
		if auto && !c.repeat {
			c.log.Debug().Msg("end of queue reached")
			c.notify()
			return
		}
	}
	_ = c.PlayAt(target)
}

// Prev steps back one track, wrapping to the end of the queue.
func (c *Controller) Prev() {
	n := c.queue.Len()
	if n == 0 || (n == 1 && !c.surface.Paused()) {
		return
	}
	cur, has := c.queue.Cursor()
	if c.random && n > 1 {
		_ = c.PlayAt(c.pickRandom(cur, has, n))
		return
	}
	target := n - 1
	if has && cur > 0 {
		target = cur - 1
	}
	_ = c.PlayAt(target)
}

func (c *Controller) pickRandom(cur int, has bool, n int) int {
	idx := c.intn(n)
	for has && idx == cur {
		idx = c.intn(n)
	}
	return idx
}

// Append adds tracks to the end of the queue.
func (c *Controller) Append(tracks ...queue.Track) {
	if len(tracks) == 0 {
		return
	}
	c.queue.Append(tracks...)
	c.notify()
}

// RemoveFromQueue deletes the entry at index. Removing the current track
// starts its successor; removing an earlier one leaves playback untouched.
func (c *Controller) RemoveFromQueue(index int) error {
	res, err := c.queue.RemoveAt(index)
	if err != nil {
		return err
	}
	if !res.CurrentRemoved {
		c.notify()
		return nil
	}
	n := c.queue.Len()
	if n == 0 {
		c.stop()
		return nil
	}
	return c.PlayAt(min(index, n-1))
}

// ClearQueue empties the queue and stops playback.
func (c *Controller) ClearQueue() {
	c.queue.Clear()
	c.stop()
}

func (c *Controller) stop() {
	if c.debounce != nil {
		c.debounce.Stop()
		c.debounce = nil
	}
	c.seq++
	c.intent = Intent{seq: c.seq}
	c.queue.ClearCursor()
	c.nowPlaying = ""
	if !c.surface.Paused() {
		c.surface.Pause()
	}
	c.setState(Idle)
	c.notify()
}

// ToggleRepeat flips repeat mode and returns the new value.
func (c *Controller) ToggleRepeat() bool {
	c.repeat = !c.repeat
	c.notify()
	return c.repeat
}

// ToggleRandom flips random mode and returns the new value.
func (c *Controller) ToggleRandom() bool {
	c.random = !c.random
	c.notify()
	return c.random
}

// SetRepeat sets repeat mode.
func (c *Controller) SetRepeat(on bool) {
	c.repeat = on
	c.notify()
}

// SetRandom sets random mode.
func (c *Controller) SetRandom(on bool) {
	c.random = on
	c.notify()
}

// SeekTo jumps to fraction (0..1) of the current track. It does nothing
// while the duration is unknown.
func (c *Controller) SeekTo(fraction float64) {
	fraction = math.Max(0, math.Min(1, fraction))
	target := c.surface.Duration() * fraction
	if math.IsNaN(target) || math.IsInf(target, 0) {
		return
	}
	c.surface.SetCurrentTime(target)
	c.notify()
}

// HandleEvent applies a media surface event.
func (c *Controller) HandleEvent(ev media.Event) {
	if ev.Source != "" && ev.Source != c.surface.Source() {
		c.log.Debug().Str("event", string(ev.Type)).Str("source", ev.Source).Msg("dropping stale media event")
		return
	}
	c.log.Debug().Str("event", string(ev.Type)).Str("state", c.state.String()).Msg("media event received")

	switch ev.Type {
	case media.EventPlay:
		if c.state == Pending || c.state == Idle {
			return
		}
		if track, ok := c.queue.Current(); ok {
			c.nowPlaying = nowPlayingLabel(track)
		}
		c.setState(Playing)
	case media.EventPause:
		if c.state == Playing || c.state == Loading {
			c.setState(Paused)
		}
	case media.EventEnded:
		if c.state == Pending || c.state == Idle {
			return
		}
		c.setState(Ended)
		c.Next(true)
	case media.EventError, media.EventAbort:
		if ev.Err == nil && ev.Type == media.EventAbort {
			c.notify()
			return
		}
		if c.state == Pending {
			// The failing source is being replaced.
			c.log.Warn().Str("event", string(ev.Type)).Msg("ignoring media error while a new track is pending")
			return
		}
		c.fail(ev.Err)
	default:
		c.notify()
	}
}

func (c *Controller) fail(mediaErr *media.Error) {
	code := media.ErrUnknown
	var cause error
	if mediaErr != nil {
		code = mediaErr.Code
		cause = mediaErr
	}
	err := &MediaError{Kind: classify(code), TrackID: c.intent.TrackID, Err: cause}
	c.lastErr = err
	c.log.Error().
		Str("code", code.String()).
		Str("track", string(err.TrackID)).
		Err(cause).
		Msg("media playback failed")
	c.setState(Errored)
	c.surface.Pause()
	if c.onError != nil {
		c.onError(err)
	}
}

// setState switches state and owns the progress ticker: it runs only while
// Playing.
func (c *Controller) setState(s State) {
	prev := c.state
	c.state = s
	if s == Playing {
		if c.tick == nil {
			c.tick = c.clock.Every(c.progressInterval, c.notify)
		}
	} else if c.tick != nil {
		c.tick.Stop()
		c.tick = nil
	}
	if prev != s {
		c.log.Debug().Str("from", prev.String()).Str("to", s.String()).Msg("playback state changed")
	}
	c.notify()
}

func (c *Controller) notify() {
	if c.onChange != nil {
		c.onChange(c.Status())
	}
}

// Status returns a snapshot of the controller and a progress sample.
func (c *Controller) Status() Status {
	cur, has := c.queue.Cursor()
	return Status{
		State:       c.state,
		Tracks:      c.queue.Tracks(),
		Cursor:      cur,
		HasCursor:   has,
		NowPlaying:  c.nowPlaying,
		Repeat:      c.repeat,
		Random:      c.random,
		CurrentTime: c.surface.CurrentTime(),
		Duration:    c.surface.Duration(),
		BufferedEnd: c.surface.Buffered().LastEnd(),
		SeekableEnd: c.surface.Seekable().LastEnd(),
		LastError:   c.lastErr,
	}
}

func nowPlayingLabel(t queue.Track) string {
	if t.Artist == "" {
		return t.Title
	}
	return t.Title + " / " + t.Artist
}
