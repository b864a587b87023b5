package catalog

import (
	"context"
	"net/http"
	"net/url"
	"slices"
	"sync"
	"time"
)

// DefaultPollInterval is how often StartPoller probes the server.
const DefaultPollInterval = 10 * time.Second

type connState int

const (
	connUnknown connState = iota
	connUp
	connDown
)

// connectivity tracks the last observed server state and notifies listeners
// on transitions only. The first observation always counts as a transition.
type connectivity struct {
	mu        sync.Mutex
	state     connState
	listeners []func(bool)
}

func (c *connectivity) subscribe(fn func(bool)) {
	c.mu.Lock()
	c.listeners = append(c.listeners, fn)
	c.mu.Unlock()
}

func (c *connectivity) set(up bool) {
	next := connDown
	if up {
		next = connUp
	}
	c.mu.Lock()
	if c.state == next {
		c.mu.Unlock()
		return
	}
	c.state = next
	listeners := slices.Clone(c.listeners)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(up)
	}
}

func (c *connectivity) connected() (up, known bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == connUp, c.state != connUnknown
}

// OnConnectivityChange registers fn to be called whenever the server flips
// between reachable and unreachable. fn runs on the goroutine that observed
// the change and must not block.
func (c *Client) OnConnectivityChange(fn func(connected bool)) {
	if fn == nil {
		return
	}
	c.conn.subscribe(fn)
}

// Connected reports the last observed server state. known is false until
// the first request completes.
func (c *Client) Connected() (connected, known bool) {
	return c.conn.connected()
}

// Poll probes the status endpoint once.
func (c *Client) Poll(ctx context.Context) error {
	rel := &url.URL{Path: c.prefix + "/status"}
	if err := c.doURL(ctx, http.MethodGet, rel, nil); err != nil {
		c.log.Debug().Err(err).Msg("status poll failed")
		c.conn.set(false)
		return &ConnectivityError{Op: "status", Err: err}
	}
	c.conn.set(true)
	return nil
}

// StartPoller probes the server immediately and then every interval until
// ctx is cancelled. It returns immediately.
func (c *Client) StartPoller(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			_ = c.Poll(ctx)
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}
