package media

import "fmt"

// EventType names a lifecycle notification emitted by a Surface.
type EventType string

const (
	EventPlay           EventType = "play"
	EventPause          EventType = "pause"
	EventEnded          EventType = "ended"
	EventProgress       EventType = "progress"
	EventLoadedData     EventType = "loadeddata"
	EventDurationChange EventType = "durationchange"
	EventAbort          EventType = "abort"
	EventError          EventType = "error"
)

// ErrorCode enumerates why a surface failed to load or play a source.
type ErrorCode int

const (
	ErrUnknown ErrorCode = iota
	ErrAborted
	ErrNetwork
	ErrDecode
	ErrSrcNotSupported
)

// String returns the canonical media error name.
func (c ErrorCode) String() string {
	switch c {
	case ErrAborted:
		return "MEDIA_ERR_ABORTED"
	case ErrNetwork:
		return "MEDIA_ERR_NETWORK"
	case ErrDecode:
		return "MEDIA_ERR_DECODE"
	case ErrSrcNotSupported:
		return "MEDIA_ERR_SRC_NOT_SUPPORTED"
	default:
		return "MEDIA_ERR_UNKNOWN"
	}
}

// Error is attached to error and abort events.
type Error struct {
	Code ErrorCode
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Code.String()
	}
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Event is a single notification from a Surface. Source is the locator that
// was assigned when the event was produced.
type Event struct {
	Type   EventType
	Source string
	Err    *Error
}

// Sink receives surface events. Implementations must not block.
type Sink func(Event)

// Range is a half-open span of media time in seconds.
type Range struct {
	Start float64
	End   float64
}

// TimeRanges is an ordered list of time spans, shaped like the buffered and
// seekable attributes of an HTML media element.
type TimeRanges []Range

// Len returns the number of ranges.
func (r TimeRanges) Len() int { return len(r) }

// End returns the end of range i, or 0 when i is out of bounds.
func (r TimeRanges) End(i int) float64 {
	if i < 0 || i >= len(r) {
		return 0
	}
	return r[i].End
}

// LastEnd returns the end of the final range, or 0 when empty.
func (r TimeRanges) LastEnd() float64 {
	return r.End(len(r) - 1)
}

// Surface is the audio rendering element driven by transport commands.
// Commands return immediately; outcomes arrive as events on the Sink.
type Surface interface {
	SetSource(locator string)
	Source() string
	Load()
	Play()
	Pause()
	SetCurrentTime(seconds float64)
	CurrentTime() float64
	// Duration is NaN until the source's length is known.
	Duration() float64
	Paused() bool
	Buffered() TimeRanges
	Seekable() TimeRanges
}
