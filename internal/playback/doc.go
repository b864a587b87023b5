// Package playback implements the player's state machine.
//
// A Controller owns a queue and drives a media surface through the states
// Idle, Pending, Loading, Playing, Paused, Ended and Errored:
//
//	Play/PlayAt ──► Pending ──(debounce)──► Loading ──play──► Playing
//	                   ▲                                       │  ▲
//	                   │                                 pause │  │ play
//	                   │                                       ▼  │
//	        Next(auto) └──────────── Ended ◄──ended──────── Paused
//
// Play requests are debounced: each call restarts a single-slot timer and
// only the last request within the delay assigns a source. Every fire carries
// a sequence number so a fire that lost the race with a newer request does
// nothing.
//
// The progress ticker exists only while Playing. Media errors move the
// controller to Errored, pause the surface and report a MediaError; the
// queue and cursor are kept so the user can retry or skip.
//
// Controller is not safe for concurrent use. The application posts every
// call, including surface events, onto one eventloop.Loop.
package playback
