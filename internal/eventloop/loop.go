package eventloop

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Timer is a handle to a pending AfterFunc or Every callback.
type Timer interface {
	// Stop prevents any further callbacks. It reports whether the timer was
	// still active. A fire already posted to the loop is dropped.
	Stop() bool
}

// Clock schedules callbacks. Loop is the production implementation; tests
// substitute a manual clock.
type Clock interface {
	AfterFunc(d time.Duration, fn func()) Timer
	Every(d time.Duration, fn func()) Timer
}

var _ Clock = (*Loop)(nil)

// Loop runs posted closures one at a time, in the order they were posted.
// Everything that mutates playback state goes through a single Loop.
type Loop struct {
	mu      sync.Mutex
	pending []func()
	wake    chan struct{}
	closed  bool
	done    chan struct{}
	stopped sync.Once
}

// New creates an idle Loop. Call Run to start processing.
func New() *Loop {
	return &Loop{wake: make(chan struct{}, 1), done: make(chan struct{})}
}

// Post queues fn. It never blocks and is safe from any goroutine, including
// from inside a running callback. It reports false once the loop has stopped.
func (l *Loop) Post(fn func()) bool {
	if fn == nil {
		return false
	}
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return false
	}
	l.pending = append(l.pending, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

// Run processes posted closures until ctx is cancelled. Closures still queued
// at that point are discarded and Every tickers shut down.
func (l *Loop) Run(ctx context.Context) {
	defer func() {
		l.mu.Lock()
		l.closed = true
		l.pending = nil
		l.mu.Unlock()
		l.stopped.Do(func() { close(l.done) })
	}()
	for {
		for _, fn := range l.take() {
			if ctx.Err() != nil {
				return
			}
			fn()
		}
		select {
		case <-ctx.Done():
			return
		case <-l.wake:
		}
	}
}

// Done is closed once Run has returned.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

func (l *Loop) take() []func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	batch := l.pending
	l.pending = nil
	return batch
}

// AfterFunc posts fn to the loop once d has elapsed.
func (l *Loop) AfterFunc(d time.Duration, fn func()) Timer {
	t := &timer{}
	t.active.Store(true)
	t.t = time.AfterFunc(d, func() {
		l.Post(func() {
			if t.active.CompareAndSwap(true, false) {
				fn()
			}
		})
	})
	return t
}

// Every posts fn to the loop every d until stopped or until Run returns.
func (l *Loop) Every(d time.Duration, fn func()) Timer {
	t := &ticker{stop: make(chan struct{}), exited: make(chan struct{})}
	t.active.Store(true)
	tk := time.NewTicker(d)
	go func() {
		defer close(t.exited)
		defer tk.Stop()
		for {
			select {
			case <-t.stop:
				return
			case <-l.done:
				return
			case <-tk.C:
				l.Post(func() {
					if t.active.Load() {
						fn()
					}
				})
			}
		}
	}()
	return t
}

type timer struct {
	t      *time.Timer
	active atomic.Bool
}

func (t *timer) Stop() bool {
	if !t.active.CompareAndSwap(true, false) {
		return false
	}
	t.t.Stop()
	return true
}

type ticker struct {
	stop   chan struct{}
	exited chan struct{}
	active atomic.Bool
}

func (t *ticker) Stop() bool {
	if !t.active.CompareAndSwap(true, false) {
		return false
	}
	close(t.stop)
	return true
}
