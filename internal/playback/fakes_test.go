package playback

import (
	"math"
	"sort"
	"time"

	"github.com/five82/bctl/internal/eventloop"
	"github.com/five82/bctl/internal/media"
	"github.com/five82/bctl/internal/queue"
)

type manualTimer struct {
	at     time.Duration
	every  time.Duration
	fn     func()
	active bool
	order  int
}

func (t *manualTimer) Stop() bool {
	was := t.active
	t.active = false
	return was
}

// manualClock fires timers synchronously from Advance.
type manualClock struct {
	now    time.Duration
	timers []*manualTimer
}

var _ eventloop.Clock = (*manualClock)(nil)

func (c *manualClock) AfterFunc(d time.Duration, fn func()) eventloop.Timer {
	return c.add(&manualTimer{at: c.now + d, fn: fn, active: true})
}

func (c *manualClock) Every(d time.Duration, fn func()) eventloop.Timer {
	return c.add(&manualTimer{at: c.now + d, every: d, fn: fn, active: true})
}

func (c *manualClock) add(t *manualTimer) *manualTimer {
	t.order = len(c.timers)
	c.timers = append(c.timers, t)
	return t
}

func (c *manualClock) Advance(d time.Duration) {
	end := c.now + d
	for {
		due := c.due(end)
		if due == nil {
			break
		}
		c.now = due.at
		if due.every > 0 {
			due.at += due.every
		} else {
			due.active = false
		}
		due.fn()
	}
	c.now = end
}

func (c *manualClock) due(end time.Duration) *manualTimer {
	var ready []*manualTimer
	for _, t := range c.timers {
		if t.active && t.at <= end {
			ready = append(ready, t)
		}
	}
	if len(ready) == 0 {
		return nil
	}
	sort.Slice(ready, func(i, j int) bool {
		if ready[i].at != ready[j].at {
			return ready[i].at < ready[j].at
		}
		return ready[i].order < ready[j].order
	})
	return ready[0]
}

func (c *manualClock) activeTickers() int {
	n := 0
	for _, t := range c.timers {
		if t.active && t.every > 0 {
			n++
		}
	}
	return n
}

// fakeSurface records commands and never emits events on its own.
type fakeSurface struct {
	src      string
	sources  []string
	loads    int
	plays    int
	pauses   int
	paused   bool
	current  float64
	duration float64
	seeks    []float64
	buffered media.TimeRanges
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{paused: true, duration: math.NaN()}
}

func (s *fakeSurface) SetSource(locator string) {
	s.src = locator
	s.sources = append(s.sources, locator)
	s.current = 0
}

func (s *fakeSurface) Source() string {
	return s.src
}

func (s *fakeSurface) Load() {
	s.loads++
}

func (s *fakeSurface) Play() {
	s.plays++
	s.paused = false
}

func (s *fakeSurface) Pause() {
	s.pauses++
	s.paused = true
}

func (s *fakeSurface) SetCurrentTime(sec float64) {
	s.current = sec
	s.seeks = append(s.seeks, sec)
}

func (s *fakeSurface) CurrentTime() float64 {
	return s.current
}

func (s *fakeSurface) Duration() float64 {
	return s.duration
}

func (s *fakeSurface) Paused() bool {
	return s.paused
}

func (s *fakeSurface) Buffered() media.TimeRanges {
	return s.buffered
}

func (s *fakeSurface) Seekable() media.TimeRanges {
	return s.buffered
}

type prefixLocator string

func (p prefixLocator) StreamLocatorFor(id queue.TrackID) string {
	return string(p) + string(id)
}
