// Package eventloop provides the single logical thread the player runs on.
//
// Keyboard and mouse input, media surface events, debounce fires and
// progress ticks are all posted as closures to one Loop and executed in
// arrival order, so the playback controller and queue need no locks.
//
// Timers created through AfterFunc and Every deliver their callbacks through
// the same Loop. Stopping a timer from a loop callback is final: a fire that
// was already queued behind the Stop call is discarded when it runs.
package eventloop
