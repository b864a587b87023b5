package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/bctl/internal/playback"
	"github.com/five82/bctl/internal/queue"
)

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Playback    playback.Status
	HasPlayback bool

	// Connected is meaningful only when ConnectionKnown is set; before the
	// first liveness probe the header shows neither label.
	Connected       bool
	ConnectionKnown bool

	// CatalogError is the most recent catalog failure, cleared when the
	// server is seen again.
	CatalogError error

	LastUpdated time.Time
}

// ConnectionLabel returns the header text for the server liveness state.
func (s Snapshot) ConnectionLabel() string {
	switch {
	case !s.ConnectionKnown:
		return ""
	case s.Connected:
		return "Connected"
	default:
		return "Disconnected"
	}
}

// Store coordinates updates from the event loop and the catalog poller with
// reads from the UI.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// SetPlayback replaces the playback status.
func (s *Store) SetPlayback(status playback.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()

	status.Tracks = cloneTracks(status.Tracks)
	s.snapshot.Playback = status
	s.snapshot.HasPlayback = true
	s.snapshot.LastUpdated = time.Now()
}

// SetConnected records a liveness transition. Coming back online clears the
// last catalog error.
func (s *Store) SetConnected(connected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Connected = connected
	s.snapshot.ConnectionKnown = true
	if connected {
		s.snapshot.CatalogError = nil
	}
	s.snapshot.LastUpdated = time.Now()
}

// SetCatalogError records a catalog failure for display. A nil error clears it.
func (s *Store) SetCatalogError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.CatalogError = err
	s.snapshot.LastUpdated = time.Now()
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Playback.Tracks = cloneTracks(s.snapshot.Playback.Tracks)
	if s.snapshot.CatalogError != nil {
		snap.CatalogError = fmt.Errorf("%w", s.snapshot.CatalogError)
	}
	return snap
}

func cloneTracks(tracks []queue.Track) []queue.Track {
	if len(tracks) == 0 {
		return nil
	}
	dup := make([]queue.Track, len(tracks))
	copy(dup, tracks)
	return dup
}
