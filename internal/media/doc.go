// Package media defines the contract between the playback controller and
// whatever renders audio: transport commands, readable timing attributes and
// asynchronous lifecycle events modeled on the HTML media element.
package media
