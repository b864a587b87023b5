// Package queue holds the playback queue: an ordered, densely indexed list
// of tracks and an optional cursor naming the current one.
//
// Removal reindexes the tail. Removing an entry below the cursor shifts the
// cursor down by one; removing the cursor itself unsets it and reports
// CurrentRemoved so the playback controller can pick a successor. The
// package never touches audio output.
package queue
