package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" {
		t.Fatalf("scheme = %q, want http", u.Scheme)
	}
	if u.Host != defaultAPIBind {
		t.Fatalf("host = %q, want %q", u.Host, defaultAPIBind)
	}

	u, err = parseBaseURL("http://example.com:1234/path?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}
}

func TestNormalizePrefix(t *testing.T) {
	cases := map[string]string{
		"":        "",
		"/":       "",
		"bctl":    "/bctl",
		"/bctl/":  "/bctl",
		" /api  ": "/api",
	}
	for in, want := range cases {
		if got := normalizePrefix(in); got != want {
			t.Fatalf("normalizePrefix(%q) = %q, want %q", in, got, want)
		}
	}
}

func newTestClient(t *testing.T, serverURL, prefix string) *Client {
	t.Helper()
	c, err := NewClient(Options{APIBind: serverURL, Prefix: prefix, Logger: zerolog.Nop()})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	return c
}

func TestClient_FetchesEndpointsAndEncodesQueries(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	gotQueries := map[string]url.Values{}
	var gotAgent, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		gotQueries[r.URL.Path] = r.URL.Query()
		gotAgent = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/bctl/artists":
			_, _ = w.Write([]byte(`["AC/DC","Björk"]`))
		case "/bctl/albums":
			_, _ = w.Write([]byte(`["Homogenic","Post"]`))
		case "/bctl/songs":
			_, _ = w.Write([]byte(`[["Hunter",255,"h1"],{"title":"Joga","length":305,"hash":"h2"}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c := newTestClient(t, server.URL, "/bctl")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	artists, err := c.Artists(ctx)
	if err != nil {
		t.Fatalf("Artists returned error: %v", err)
	}
	if len(artists) != 2 || artists[0] != "AC/DC" {
		t.Fatalf("Artists = %v, want [AC/DC Björk]", artists)
	}

	albums, err := c.Albums(ctx, "Björk")
	if err != nil {
		t.Fatalf("Albums returned error: %v", err)
	}
	if len(albums) != 2 || albums[0] != "Homogenic" {
		t.Fatalf("Albums = %v", albums)
	}

	songs, err := c.Songs(ctx, "Björk", "Homogenic & more")
	if err != nil {
		t.Fatalf("Songs returned error: %v", err)
	}
	if len(songs) != 2 {
		t.Fatalf("Songs len = %d, want 2", len(songs))
	}
	if songs[0] != (Song{Title: "Hunter", Length: 255, ID: "h1"}) {
		t.Fatalf("Songs[0] = %#v", songs[0])
	}
	if songs[1] != (Song{Title: "Joga", Length: 305, ID: "h2"}) {
		t.Fatalf("Songs[1] = %#v", songs[1])
	}

	mu.Lock()
	defer mu.Unlock()
	if got := gotQueries["/bctl/albums"].Get("artist"); got != "Björk" {
		t.Fatalf("albums artist = %q, want Björk", got)
	}
	if got := gotQueries["/bctl/songs"].Get("album"); got != "Homogenic & more" {
		t.Fatalf("songs album = %q, want %q", got, "Homogenic & more")
	}
	if gotAgent != defaultUserAgent {
		t.Fatalf("User-Agent = %q, want %q", gotAgent, defaultUserAgent)
	}
	if gotAccept != "application/json" {
		t.Fatalf("Accept = %q, want application/json", gotAccept)
	}
}

func TestClient_CachesListings(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`["A","B"]`))
	}))
	t.Cleanup(server.Close)

	c := newTestClient(t, server.URL, "")
	ctx := context.Background()

	first, err := c.Albums(ctx, "X")
	if err != nil {
		t.Fatalf("Albums returned error: %v", err)
	}
	first[0] = "mutated"

	second, err := c.Albums(ctx, "X")
	if err != nil {
		t.Fatalf("Albums returned error: %v", err)
	}
	if second[0] != "A" {
		t.Fatalf("cached listing was mutated through a returned slice: %v", second)
	}
	if _, err := c.Albums(ctx, "Y"); err != nil {
		t.Fatalf("Albums returned error: %v", err)
	}
	if got := hits.Load(); got != 2 {
		t.Fatalf("server hits = %d, want 2 (one per artist)", got)
	}
}

func TestClient_SharesInFlightFetch(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-release
		_, _ = w.Write([]byte(`["A"]`))
	}))
	t.Cleanup(server.Close)

	c := newTestClient(t, server.URL, "")

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Artists(context.Background())
			errs <- err
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("Artists returned error: %v", err)
		}
	}
	if got := hits.Load(); got != 1 {
		t.Fatalf("server hits = %d, want 1", got)
	}
}

func TestClient_WaiterCanGiveUp(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-release
		_, _ = w.Write([]byte(`["A"]`))
	}))
	t.Cleanup(server.Close)

	c := newTestClient(t, server.URL, "")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	if _, err := c.Artists(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Artists error = %v, want deadline exceeded", err)
	}

	close(release)
	artists, err := c.Artists(context.Background())
	if err != nil {
		t.Fatalf("Artists returned error: %v", err)
	}
	if len(artists) != 1 {
		t.Fatalf("Artists = %v", artists)
	}
	if got := hits.Load(); got != 1 {
		t.Fatalf("server hits = %d, want 1", got)
	}
}

func TestClient_FailureReportsDisconnect(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	addr := server.URL
	server.Close()

	c := newTestClient(t, addr, "")
	var changes []bool
	c.OnConnectivityChange(func(up bool) { changes = append(changes, up) })

	_, err := c.Artists(context.Background())
	var connErr *ConnectivityError
	if !errors.As(err, &connErr) {
		t.Fatalf("Artists error = %v, want *ConnectivityError", err)
	}
	if connErr.Op != "artists" {
		t.Fatalf("Op = %q, want artists", connErr.Op)
	}
	if _, err := c.Albums(context.Background(), "X"); err == nil {
		t.Fatal("Albums succeeded against a closed server")
	}
	if len(changes) != 1 || changes[0] {
		t.Fatalf("connectivity changes = %v, want [false]", changes)
	}
	if up, known := c.Connected(); up || !known {
		t.Fatalf("Connected() = %v, %v; want false, true", up, known)
	}
}

func TestClient_StatusErrorIsNotCached(t *testing.T) {
	t.Parallel()

	var fail atomic.Bool
	fail.Store(true)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`["A"]`))
	}))
	t.Cleanup(server.Close)

	c := newTestClient(t, server.URL, "")
	if _, err := c.Artists(context.Background()); err == nil {
		t.Fatal("expected error for 500 response")
	}
	fail.Store(false)
	artists, err := c.Artists(context.Background())
	if err != nil || len(artists) != 1 {
		t.Fatalf("Artists = %v, %v; want [A]", artists, err)
	}
}

func TestPoll_NotifiesOnlyOnChange(t *testing.T) {
	t.Parallel()

	var down atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bctl/status" {
			http.NotFound(w, r)
			return
		}
		if down.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("Alive"))
	}))
	t.Cleanup(server.Close)

	c := newTestClient(t, server.URL, "bctl")
	var changes []bool
	c.OnConnectivityChange(func(up bool) { changes = append(changes, up) })

	ctx := context.Background()
	steps := []bool{false, false, true, true, false}
	for _, isDown := range steps {
		down.Store(isDown)
		_ = c.Poll(ctx)
	}

	want := []bool{true, false, true}
	if len(changes) != len(want) {
		t.Fatalf("changes = %v, want %v", changes, want)
	}
	for i := range want {
		if changes[i] != want[i] {
			t.Fatalf("changes = %v, want %v", changes, want)
		}
	}
}

func TestPoll_NotifiesEveryListener(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("Alive"))
	}))
	t.Cleanup(server.Close)

	c := newTestClient(t, server.URL, "")
	var first, second []bool
	c.OnConnectivityChange(func(up bool) {
		first = append(first, up)
		// Subscribing from inside a callback must not affect this round.
		c.OnConnectivityChange(func(up bool) { second = append(second, up) })
	})

	if err := c.Poll(context.Background()); err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if len(first) != 1 || !first[0] {
		t.Fatalf("first listener = %v, want [true]", first)
	}
	if len(second) != 0 {
		t.Fatalf("late listener = %v, want no calls", second)
	}
	if up, known := c.Connected(); !up || !known {
		t.Fatalf("Connected = %v, %v; want true, true", up, known)
	}
}

func TestStartPoller_PollsUntilCancelled(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	t.Cleanup(server.Close)

	c := newTestClient(t, server.URL, "")
	ctx, cancel := context.WithCancel(context.Background())
	c.StartPoller(ctx, 10*time.Millisecond)

	deadline := time.Now().Add(2 * time.Second)
	for hits.Load() < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("poller made %d requests, want at least 3", hits.Load())
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
}

func TestStreamLocatorFor(t *testing.T) {
	c := newTestClient(t, "music.local:8080", "/bctl")
	got := c.StreamLocatorFor("a/b c")
	want := "http://music.local:8080/stream?song=a%2Fb+c"
	if got != want {
		t.Fatalf("StreamLocatorFor = %q, want %q", got, want)
	}
}
