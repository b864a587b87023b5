// Package config loads the bctl client configuration.
//
// # Overview
//
// Settings live in a small TOML file. Every field is optional and a missing
// file is not an error, so the client runs against a local server without
// any setup.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/bctl/config.toml (default)
//  3. If the config file doesn't exist, fall back to Default()
//  4. If the file exists but fields are missing, empty or non-positive, use defaults
//
// # TOML Format
//
//	api_bind = "127.0.0.1:8080"     # library server host:port or URL
//	api_prefix = "/bctl"            # path prefix of the catalog endpoints
//	poll_seconds = 10               # liveness probe interval
//	play_delay_ms = 750             # debounce before a play request loads
//	progress_interval_ms = 1000     # progress bar refresh while playing
//	log_dir = "~/.local/share/bctl"
//	log_level = "info"              # debug, info, warn or error
//
// Tilde expansion is performed for log_dir and the config path.
//
// # Error Handling
//
// Load returns errors for path expansion failures, read errors other than
// os.ErrNotExist, and TOML parse errors ("parse config: ...").
package config
