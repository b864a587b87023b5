// Package logtail reads the tail of the bctl client log for the log view.
//
// Read extracts the last N lines of a file in a single pass using a ring
// buffer, so memory stays proportional to N rather than to the file size.
// A missing file yields no lines and no error; the log is created lazily on
// first write.
//
// ParseLine splits a line written by the console logger into its timestamp,
// level and message so the UI can color it:
//
//	2026-10-17 21:01:05 INF track committed component=playback track=abc
//
// Lines that do not match (stack traces, wrapped output) come back with an
// empty Level and the whole text as Message.
package logtail
