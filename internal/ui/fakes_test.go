package ui

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/five82/bctl/internal/catalog"
	"github.com/five82/bctl/internal/queue"
)

// syncLoop runs posted closures immediately.
type syncLoop struct {
	closed bool
}

func (l *syncLoop) Post(fn func()) bool {
	if l.closed {
		return false
	}
	fn()
	return true
}

type fakePlayer struct {
	mu       sync.Mutex
	calls    []string
	appended []queue.Track
	seeks    []float64
}

func (p *fakePlayer) record(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, fmt.Sprintf(format, args...))
}

func (p *fakePlayer) TogglePlayPause() { p.record("toggle") }
func (p *fakePlayer) Next(auto bool) { p.record("next(%v)", auto) }
func (p *fakePlayer) Prev() { p.record("prev") }
func (p *fakePlayer) ClearQueue() { p.record("clear") }
func (p *fakePlayer) SetRepeat(on bool) { p.record("repeat(%v)", on) }
func (p *fakePlayer) SetRandom(on bool) { p.record("random(%v)", on) }

func (p *fakePlayer) PlayAt(index int) error {
	p.record("playAt(%d)", index)
	return nil
}

func (p *fakePlayer) RemoveFromQueue(index int) error {
	p.record("remove(%d)", index)
	return nil
}

func (p *fakePlayer) Append(tracks ...queue.Track) {
	p.record("append(%d)", len(tracks))
	p.appended = append(p.appended, tracks...)
}

func (p *fakePlayer) SeekTo(fraction float64) {
	p.record("seek")
	p.seeks = append(p.seeks, fraction)
}

type fakeCatalog struct {
	artists []string
	albums  map[string][]string
	songs   map[string][]catalog.Song
	fail    bool
}

var errOffline = errors.New("offline")

func (c *fakeCatalog) Artists(ctx context.Context) ([]string, error) {
	if c.fail {
		return nil, errOffline
	}
	return c.artists, nil
}

func (c *fakeCatalog) Albums(ctx context.Context, artist string) ([]string, error) {
	if c.fail {
		return nil, errOffline
	}
	return c.albums[artist], nil
}

func (c *fakeCatalog) Songs(ctx context.Context, artist, album string) ([]catalog.Song, error) {
	if c.fail {
		return nil, errOffline
	}
	return c.songs[artist+"/"+album], nil
}
