// Package progress turns playback timing into bar widths, seek positions and
// time labels. Everything here is pure arithmetic so the terminal UI and its
// tests share the same numbers.
package progress
