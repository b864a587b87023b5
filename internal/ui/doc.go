// Package ui implements the bctl terminal interface on Bubble Tea.
//
// # Layout
//
//	┌ header ──── logo · Connected/Disconnected · notice ───── N tracks ┐
//	│ 1 Library  2 Playlist  3 Logs                       breadcrumb   │
//	│                                                                   │
//	│ content: library browser, playlist table or client log            │
//	│                                                                   │
//	│ [playing] Title / Artist                 [repeat]  1:05 / 3:20   │
//	│             1:42                     (seek preview on hover)     │
//	│   ━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━────────────────────────────     │
//	└ footer ──── short key help ───────────────────────────────────────┘
//
// # Threading
//
// The Model never touches the playback controller directly. Every transport
// or playlist action is wrapped in a closure and handed to the Dispatcher,
// which runs it on the event loop that owns the controller. The Model reads
// the result back from the state.Store on each frame tick.
//
// Catalog listings run as tea.Cmds on Bubble Tea's goroutines. Responses are
// matched against the browser's current level so a slow reply for an artist
// the user already left is dropped.
//
// # Progress bar
//
// Bar widths, seek fractions and the hover preview come from the progress
// package. The played fill is animated with a critically damped harmonica
// spring stepped once per frame, so seeks glide rather than jump. The
// preview row above the bar appears while the mouse hovers the bar; a left
// click seeks.
//
// # Preferences
//
// Theme cycling and the repeat/random toggles are written back to the prefs
// file immediately.
package ui
