// Package app is the composition root of bctl.
//
// Run loads the config file and user preferences, opens the log file and
// builds the long-lived components before handing control to the TUI:
//
//	Run()
//	  ├─> config.Load()          ~/.config/bctl/config.toml
//	  ├─> logging.New()          append-only log file
//	  ├─> prefs.Load()           theme, repeat and random
//	  ├─> start()
//	  │     ├─> catalog.NewClient()   REST client + liveness poller
//	  │     ├─> eventloop.New()       controller thread
//	  │     ├─> audio.New()           stream element
//	  │     └─> playback.New()        queue controller
//	  └─> ui.Run()               blocks until quit
//
// The playback controller is owned by the event loop. Media events from the
// audio element and UI commands are both posted to the loop; the controller
// publishes status to state.Store, which the UI polls once per frame.
// Connectivity changes from the catalog poller go straight to the store.
//
// Only configuration and client construction errors are fatal. A server that
// is down at startup is reported in the header and the poller keeps probing.
package app
