package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func abc() []Track {
	return []Track{
		{ID: "a", Title: "A", Duration: 180},
		{ID: "b", Title: "B", Duration: 200},
		{ID: "c", Title: "C", Duration: 90},
	}
}

func TestRemoveAtKeepsIndicesDense(t *testing.T) {
	for i := range 3 {
		q := New(abc()...)
		_, err := q.RemoveAt(i)
		require.NoError(t, err)
		assert.Equal(t, 2, q.Len())
		for j := range q.Len() {
			_, ok := q.Get(j)
			assert.True(t, ok, "index %d missing after removing %d", j, i)
		}
		_, ok := q.Get(2)
		assert.False(t, ok)
	}
}

func TestRemoveAtBelowCursorShiftsCursor(t *testing.T) {
	q := New(abc()...)
	require.NoError(t, q.SetCursor(2))

	res, err := q.RemoveAt(0)
	require.NoError(t, err)
	assert.False(t, res.CurrentRemoved)
	assert.Equal(t, 1, res.Cursor)

	cur, ok := q.Current()
	require.True(t, ok)
	assert.Equal(t, TrackID("c"), cur.ID)
}

func TestRemoveAtAboveCursorLeavesCursor(t *testing.T) {
	q := New(abc()...)
	require.NoError(t, q.SetCursor(0))

	res, err := q.RemoveAt(2)
	require.NoError(t, err)
	assert.False(t, res.CurrentRemoved)
	assert.True(t, res.HasCursor)
	assert.Equal(t, 0, res.Cursor)
}

func TestRemoveAtCursorUnsetsIt(t *testing.T) {
	q := New(abc()...)
	require.NoError(t, q.SetCursor(1))

	res, err := q.RemoveAt(1)
	require.NoError(t, err)
	assert.True(t, res.CurrentRemoved)
	assert.False(t, res.HasCursor)
	assert.Equal(t, TrackID("b"), res.Track.ID)

	_, ok := q.Cursor()
	assert.False(t, ok)
}

func TestRemoveAtOutOfRange(t *testing.T) {
	q := New(abc()...)
	_, err := q.RemoveAt(3)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = q.RemoveAt(-1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.Equal(t, 3, q.Len())
}

func TestSetCursorValidates(t *testing.T) {
	q := New()
	assert.ErrorIs(t, q.SetCursor(0), ErrIndexOutOfRange)

	q.Append(abc()...)
	require.NoError(t, q.SetCursor(2))
	idx, ok := q.Cursor()
	assert.True(t, ok)
	assert.Equal(t, 2, idx)
}

func TestClear(t *testing.T) {
	q := New(abc()...)
	require.NoError(t, q.SetCursor(1))
	q.Clear()

	assert.Zero(t, q.Len())
	_, ok := q.Cursor()
	assert.False(t, ok)
	assert.Nil(t, q.Tracks())
}

func TestTracksReturnsCopy(t *testing.T) {
	q := New(abc()...)
	tracks := q.Tracks()
	tracks[0].Title = "changed"

	got, _ := q.Get(0)
	assert.Equal(t, "A", got.Title)
}
