package playback

import (
	"fmt"

	"github.com/five82/bctl/internal/media"
	"github.com/five82/bctl/internal/queue"
)

// State is the controller's position in the playback lifecycle.
type State int

const (
	Idle State = iota
	Pending
	Loading
	Playing
	Paused
	Ended
	Errored
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Loading:
		return "loading"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Ended:
		return "ended"
	case Errored:
		return "errored"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ErrorKind classifies a media failure.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindAborted
	KindNetwork
	KindDecode
	KindUnsupported
)

func (k ErrorKind) String() string {
	switch k {
	case KindAborted:
		return "aborted"
	case KindNetwork:
		return "network"
	case KindDecode:
		return "decode"
	case KindUnsupported:
		return "unsupported source"
	default:
		return "unknown"
	}
}

// MediaError is reported when the surface fails to load or play a track.
// Playback is paused; the queue and cursor are left as they were.
type MediaError struct {
	Kind    ErrorKind
	TrackID queue.TrackID
	Err     error
}

func (e *MediaError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("media error (%s)", e.Kind)
	}
	return fmt.Sprintf("media error (%s): %v", e.Kind, e.Err)
}

func (e *MediaError) Unwrap() error { return e.Err }

func classify(code media.ErrorCode) ErrorKind {
	switch code {
	case media.ErrAborted:
		return KindAborted
	case media.ErrNetwork:
		return KindNetwork
	case media.ErrDecode:
		return KindDecode
	case media.ErrSrcNotSupported:
		return KindUnsupported
	default:
		return KindUnknown
	}
}

// Intent records the most recent play request. A debounce fire whose
// sequence number no longer matches is ignored.
type Intent struct {
	Index   int
	TrackID queue.TrackID
	seq     uint64
}

// Status is an immutable view of the controller for rendering.
type Status struct {
	State       State
	Tracks      []queue.Track
	Cursor      int
	HasCursor   bool
	NowPlaying  string
	Repeat      bool
	Random      bool
	CurrentTime float64
	Duration    float64
	BufferedEnd float64
	SeekableEnd float64
	LastError   *MediaError
}

// ShowPause reports whether the transport control should offer "pause"
// rather than "play".
func (s Status) ShowPause() bool {
	return s.State == Playing
}
