// Package catalog provides an HTTP client for the library server.
//
// # Endpoints
//
// The client reads four JSON endpoints below an optional prefix and builds
// stream URLs for the player:
//
//	GET <prefix>/status                         liveness probe
//	GET <prefix>/artists                        ["artist", ...]
//	GET <prefix>/albums?artist=<name>           ["album", ...]
//	GET <prefix>/songs?artist=<a>&album=<b>     [[title, seconds, id], ...]
//	GET /stream?song=<id>                       audio bytes
//
// Song listings are accepted either as tuples or as objects with title,
// length and hash fields.
//
// # Caching
//
// Artist, album and song listings are cached for the life of the Client and
// never invalidated. Concurrent requests for the same listing share a single
// request through singleflight; each caller may stop waiting via its own
// context without cancelling the shared fetch.
//
// # Connectivity
//
// Every failed request is returned as a *ConnectivityError and marks the
// server as disconnected. StartPoller probes the status endpoint on a fixed
// interval (10s by default). Listeners registered with OnConnectivityChange
// hear about transitions only; the first observation always counts as one.
package catalog
