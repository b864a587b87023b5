// Package state provides the thread-safe snapshot the bctl UI renders from.
//
// # Overview
//
// Three producers write into the Store and one consumer reads from it:
//
//	event loop ───── SetPlayback ─────┐
//	catalog poller ─ SetConnected ────┼──→ Store ──→ Snapshot() ──→ UI tick
//	UI commands ──── SetCatalogError ─┘
//
// The playback controller runs on the event loop and publishes a
// playback.Status after every transition. The catalog poller reports
// liveness edges. Catalog command failures from the UI are recorded so the
// header can show them until the server is reachable again.
//
// # Concurrency
//
// Writers take the write lock for the duration of a copy; Snapshot takes the
// read lock. Track slices are cloned on the way in and on the way out, so a
// snapshot held by the UI never aliases controller state.
//
// # Zero value
//
// A zero Store is ready to use. Its snapshot reports HasPlayback false and an
// unknown connection state, which the header renders as neither
// "Connected" nor "Disconnected".
package state
