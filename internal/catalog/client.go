package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/five82/bctl/internal/queue"
)

// Fetcher is the read side of the catalog used by the UI.
type Fetcher interface {
	Artists(ctx context.Context) ([]string, error)
	Albums(ctx context.Context, artist string) ([]string, error)
	Songs(ctx context.Context, artist, album string) ([]Song, error)
}

var _ Fetcher = (*Client)(nil)

const (
	defaultAPIBind   = "127.0.0.1:8080"
	defaultUserAgent = "bctl/0.1"
	requestTimeout   = 5 * time.Second
)

// Options configure a Client.
type Options struct {
	// APIBind is the server's host:port or base URL.
	APIBind string
	// Prefix is prepended to the catalog endpoints, e.g. "/bctl".
	Prefix     string
	Logger     zerolog.Logger
	HTTPClient *http.Client
}

type albumKey struct {
	artist string
	album  string
}

// Client talks to the library server. Listings are cached for the life of
// the client and concurrent requests for the same listing share one fetch.
type Client struct {
	baseURL   *url.URL
	prefix    string
	http      *http.Client
	userAgent string
	log       zerolog.Logger

	mu         sync.Mutex
	artists    []string
	hasArtists bool
	albums     map[string][]string
	songs      map[albumKey][]Song
	group      singleflight.Group

	conn connectivity
}

// NewClient builds a Client for the server at opts.APIBind.
func NewClient(opts Options) (*Client, error) {
	base, err := parseBaseURL(opts.APIBind)
	if err != nil {
		return nil, err
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: requestTimeout}
	}
	return &Client{
		baseURL:   base,
		prefix:    normalizePrefix(opts.Prefix),
		http:      httpClient,
		userAgent: defaultUserAgent,
		log:       opts.Logger,
		albums:    make(map[string][]string),
		songs:     make(map[albumKey][]Song),
	}, nil
}

// BaseURL returns the server root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Artists returns every artist in the library.
func (c *Client) Artists(ctx context.Context) ([]string, error) {
	return cached(ctx, c, "artists",
		func() ([]string, bool) { return c.artists, c.hasArtists },
		func(v []string) { c.artists, c.hasArtists = v, true },
		func(ctx context.Context) ([]string, error) {
			var names []string
			err := c.get(ctx, "artists", nil, &names)
			return names, err
		})
}

// Albums returns the albums of artist.
func (c *Client) Albums(ctx context.Context, artist string) ([]string, error) {
	return cached(ctx, c, "albums\x00"+artist,
		func() ([]string, bool) {
			v, ok := c.albums[artist]
			return v, ok
		},
		func(v []string) { c.albums[artist] = v },
		func(ctx context.Context) ([]string, error) {
			var names []string
			err := c.get(ctx, "albums", url.Values{"artist": {artist}}, &names)
			return names, err
		})
}

// Songs returns the tracks of an album in server order.
func (c *Client) Songs(ctx context.Context, artist, album string) ([]Song, error) {
	key := albumKey{artist: artist, album: album}
	return cached(ctx, c, "songs\x00"+artist+"\x00"+album,
		func() ([]Song, bool) {
			v, ok := c.songs[key]
			return v, ok
		},
		func(v []Song) { c.songs[key] = v },
		func(ctx context.Context) ([]Song, error) {
			var songs []Song
			err := c.get(ctx, "songs", url.Values{"artist": {artist}, "album": {album}}, &songs)
			return songs, err
		})
}

// StreamLocatorFor returns the URL that streams the given track.
func (c *Client) StreamLocatorFor(id queue.TrackID) string {
	rel := &url.URL{Path: "/stream", RawQuery: "song=" + url.QueryEscape(string(id))}
	return c.baseURL.ResolveReference(rel).String()
}

// cached serves a listing from the cache or joins the single in-flight
// fetch for key. The fetch itself outlives any one caller's context; each
// caller stops waiting when its own context ends.
func cached[S ~[]E, E any](
	ctx context.Context,
	c *Client,
	key string,
	lookup func() (S, bool),
	store func(S),
	fetch func(context.Context) (S, error),
) (S, error) {
	c.mu.Lock()
	if v, ok := lookup(); ok {
		c.mu.Unlock()
		return slices.Clone(v), nil
	}
	c.mu.Unlock()

	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		v, err := fetch(shared)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		store(v)
		c.mu.Unlock()
		return v, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			c.log.Debug().Str("key", strings.ReplaceAll(key, "\x00", "/")).Msg("joined in-flight catalog fetch")
		}
		return slices.Clone(res.Val.(S)), nil
	}
}

func (c *Client) get(ctx context.Context, endpoint string, query url.Values, dest any) error {
	rel := &url.URL{Path: c.prefix + "/" + endpoint}
	if len(query) > 0 {
		rel.RawQuery = query.Encode()
	}
	err := c.doURL(ctx, http.MethodGet, rel, dest)
	if err != nil {
		c.log.Warn().Err(err).Str("endpoint", endpoint).Msg("catalog request failed")
		c.conn.set(false)
		return &ConnectivityError{Op: endpoint, Err: err}
	}
	c.conn.set(true)
	return nil
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("api %s returned status %d", rel.String(), resp.StatusCode)
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(apiBind string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiBind)
	if trimmed == "" {
		trimmed = defaultAPIBind
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_bind %q: %w", apiBind, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

func normalizePrefix(prefix string) string {
	p := strings.Trim(strings.TrimSpace(prefix), "/")
	if p == "" {
		return ""
	}
	return "/" + p
}
