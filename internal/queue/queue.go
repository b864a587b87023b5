package queue

import (
	"errors"
	"fmt"
)

// ErrIndexOutOfRange is returned when a queue operation names an index that
// does not exist. Correct controller logic never triggers it.
var ErrIndexOutOfRange = errors.New("queue index out of range")

// TrackID identifies a song on the library server (the server's song hash).
type TrackID string

// Track is a single queue entry. Artist and album are copied from the
// catalog at insertion time so the queue never has to look them up again.
type Track struct {
	ID       TrackID
	Title    string
	Duration int // seconds
	Artist   string
	Album    string
}

// Removal describes the outcome of RemoveAt.
type Removal struct {
	Track Track
	// CurrentRemoved is set when the removed entry was the cursor. The
	// cursor is left unset and the caller decides what plays next.
	CurrentRemoved bool
	Cursor         int
	HasCursor      bool
}

// Queue is an ordered list of tracks plus an optional cursor. It is not safe
// for concurrent use; the playback controller owns it on the event loop.
type Queue struct {
	tracks    []Track
	cursor    int
	hasCursor bool
}

// New creates a Queue holding tracks.
func New(tracks ...Track) *Queue {
	q := &Queue{}
	q.Append(tracks...)
	return q
}

// Append adds tracks at the tail.
func (q *Queue) Append(tracks ...Track) {
	q.tracks = append(q.tracks, tracks...)
}

// RemoveAt deletes the entry at index and shifts later entries down.
func (q *Queue) RemoveAt(index int) (Removal, error) {
	if index < 0 || index >= len(q.tracks) {
		return Removal{}, fmt.Errorf("remove %d of %d: %w", index, len(q.tracks), ErrIndexOutOfRange)
	}
	removed := q.tracks[index]
	q.tracks = append(q.tracks[:index], q.tracks[index+1:]...)

	res := Removal{Track: removed}
	if q.hasCursor {
		switch {
		case index == q.cursor:
			res.CurrentRemoved = true
			q.hasCursor = false
			q.cursor = 0
		case index < q.cursor:
			q.cursor--
		}
	}
	res.Cursor, res.HasCursor = q.cursor, q.hasCursor
	return res, nil
}

// Clear empties the queue and unsets the cursor.
func (q *Queue) Clear() {
	q.tracks = nil
	q.cursor = 0
	q.hasCursor = false
}

// Get returns the track at index.
func (q *Queue) Get(index int) (Track, bool) {
	if index < 0 || index >= len(q.tracks) {
		return Track{}, false
	}
	return q.tracks[index], true
}

// Len returns the number of queued tracks.
func (q *Queue) Len() int {
	return len(q.tracks)
}

// Cursor returns the current index and whether one is set.
func (q *Queue) Cursor() (int, bool) {
	return q.cursor, q.hasCursor
}

// SetCursor points the cursor at index.
func (q *Queue) SetCursor(index int) error {
	if index < 0 || index >= len(q.tracks) {
		return fmt.Errorf("set cursor %d of %d: %w", index, len(q.tracks), ErrIndexOutOfRange)
	}
	q.cursor = index
	q.hasCursor = true
	return nil
}

// ClearCursor unsets the cursor without touching the tracks.
func (q *Queue) ClearCursor() {
	q.cursor = 0
	q.hasCursor = false
}

// Current returns the track under the cursor.
func (q *Queue) Current() (Track, bool) {
	if !q.hasCursor {
		return Track{}, false
	}
	return q.Get(q.cursor)
}

// Tracks returns a copy of the queued tracks.
func (q *Queue) Tracks() []Track {
	if len(q.tracks) == 0 {
		return nil
	}
	dup := make([]Track, len(q.tracks))
	copy(dup, q.tracks)
	return dup
}
