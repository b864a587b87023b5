package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/bctl/internal/catalog"
	"github.com/five82/bctl/internal/progress"
	"github.com/five82/bctl/internal/queue"
)

// level is the depth of the library browser.
type level int

const (
	levelArtists level = iota
	levelAlbums
	levelSongs
)

// entry is one visible browser row. index points into the slice of the
// current level; up marks the ".." row.
type entry struct {
	label string
	index int
	up    bool
}

// browserState holds the artists → albums → songs drill-down.
type browserState struct {
	level   level
	artist  string
	album   string
	artists []string
	albums  []string
	songs   []catalog.Song
	loaded  bool
	loading bool
	row     int

	filter    textinput.Model
	filtering bool
}

func newBrowserState() browserState {
	ti := textinput.New()
	ti.Placeholder = "Filter..."
	ti.Prompt = "/"
	ti.CharLimit = 100
	return browserState{filter: ti}
}

func (b browserState) needsArtists() bool {
	return !b.loaded && !b.loading
}

func (b *browserState) setArtists(artists []string) {
	b.artists = artists
	b.loaded = true
	b.loading = false
	if b.level == levelArtists {
		b.clampRow()
	}
}

func (b *browserState) setAlbums(artist string, albums []string) {
	if b.level != levelAlbums || b.artist != artist {
		return
	}
	b.albums = albums
	b.loading = false
	b.clampRow()
}

func (b *browserState) setSongs(artist, album string, songs []catalog.Song) {
	if b.level != levelSongs || b.artist != artist || b.album != album {
		return
	}
	b.songs = songs
	b.loading = false
	b.clampRow()
}

// entries returns the visible rows after filtering. The ".." row is never
// filtered out.
func (b browserState) entries() []entry {
	var labels []string
	switch b.level {
	case levelArtists:
		labels = b.artists
	case levelAlbums:
		labels = b.albums
	case levelSongs:
		labels = make([]string, len(b.songs))
		for i, s := range b.songs {
			labels[i] = s.Title
		}
	}

	out := make([]entry, 0, len(labels)+1)
	if b.level != levelArtists {
		out = append(out, entry{label: "..", up: true})
	}
	needle := strings.ToLower(strings.TrimSpace(b.filter.Value()))
	for i, label := range labels {
		if needle != "" && !strings.Contains(strings.ToLower(label), needle) {
			continue
		}
		out = append(out, entry{label: label, index: i})
	}
	return out
}

func (b browserState) selected() (entry, bool) {
	entries := b.entries()
	if b.row < 0 || b.row >= len(entries) {
		return entry{}, false
	}
	return entries[b.row], true
}

func (b *browserState) clampRow() {
	n := len(b.entries())
	if b.row >= n {
		b.row = n - 1
	}
	if b.row < 0 {
		b.row = 0
	}
}

func (b *browserState) resetFilter() {
	b.filter.Reset()
	b.filter.Blur()
	b.filtering = false
}

// descend moves one level down into the given row.
func (b *browserState) descend(e entry) {
	b.resetFilter()
	b.row = 0
	switch b.level {
	case levelArtists:
		b.level = levelAlbums
		b.artist = b.artists[e.index]
		b.albums = nil
	case levelAlbums:
		b.level = levelSongs
		b.album = b.albums[e.index]
		b.songs = nil
	}
	b.loading = true
}

// ascend moves one level up, keeping the cursor on the entry we came from.
func (b *browserState) ascend() {
	b.resetFilter()
	b.loading = false
	switch b.level {
	case levelSongs:
		b.level = levelAlbums
		b.row = indexOf(b.albums, b.album) + 1
		b.album = ""
		b.songs = nil
	case levelAlbums:
		b.level = levelArtists
		b.row = indexOf(b.artists, b.artist)
		b.artist = ""
		b.albums = nil
	}
	b.clampRow()
}

// updateFilter feeds a key to the filter input.
func (b *browserState) updateFilter(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		b.resetFilter()
		b.clampRow()
		return nil
	case tea.KeyEnter:
		b.filtering = false
		b.filter.Blur()
		return nil
	}
	var cmd tea.Cmd
	b.filter, cmd = b.filter.Update(msg)
	b.row = 0
	b.clampRow()
	return cmd
}

func (b browserState) breadcrumb() string {
	switch b.level {
	case levelAlbums:
		return b.artist
	case levelSongs:
		return b.artist + " ▸ " + b.album
	default:
		return "Artists"
	}
}

// handleLibraryKey processes keyboard input for the library view.
func (m Model) handleLibraryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	b := &m.browser
	switch {
	case key.Matches(msg, m.keys.Filter):
		b.filtering = true
		return m, b.filter.Focus()

	case key.Matches(msg, m.keys.Back):
		if b.level != levelArtists {
			b.ascend()
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if b.row > 0 {
			b.row--
		}
	case key.Matches(msg, m.keys.Down):
		if b.row < len(b.entries())-1 {
			b.row++
		}
	case key.Matches(msg, m.keys.Top):
		b.row = 0
	case key.Matches(msg, m.keys.Bottom):
		b.row = max(0, len(b.entries())-1)

	case key.Matches(msg, m.keys.Select):
		return m.openEntry()

	case key.Matches(msg, m.keys.Enqueue):
		return m.enqueueEntry()
	}
	return m, nil
}

// openEntry drills into the selected row, or adds the selected song.
func (m Model) openEntry() (tea.Model, tea.Cmd) {
	b := &m.browser
	e, ok := b.selected()
	if !ok {
		return m, nil
	}
	if e.up {
		b.ascend()
		return m, nil
	}
	switch b.level {
	case levelArtists:
		b.descend(e)
		return m, m.fetchAlbumsCmd(b.artist)
	case levelAlbums:
		b.descend(e)
		return m, m.fetchSongsCmd(b.artist, b.album)
	default:
		song := b.songs[e.index]
		m.enqueue([]queue.Track{song.Track(b.artist, b.album)}, song.Title)
		return m, nil
	}
}

// enqueueEntry adds the selected song, or every song of the selected album.
func (m Model) enqueueEntry() (tea.Model, tea.Cmd) {
	b := &m.browser
	e, ok := b.selected()
	if !ok || e.up {
		return m, nil
	}
	switch b.level {
	case levelAlbums:
		return m, m.fetchAlbumTracksCmd(b.artist, b.albums[e.index])
	case levelSongs:
		song := b.songs[e.index]
		m.enqueue([]queue.Track{song.Track(b.artist, b.album)}, song.Title)
	}
	return m, nil
}

// renderLibrary renders the browser list.
func (m Model) renderLibrary(height int) string {
	styles := m.theme.Styles()
	b := m.browser

	var lines []string
	if b.filtering || b.filter.Value() != "" {
		lines = append(lines, b.filter.View())
		height--
	}

	entries := b.entries()
	lines = append(lines, renderWindow(len(entries), b.row, height, func(i int, selected bool) string {
		text := " " + m.browserLine(entries[i], m.width-2) + " "
		if selected {
			return styles.Selected.Width(m.width).Render(text)
		}
		if entries[i].up {
			return styles.MutedText.Render(text)
		}
		return styles.Text.Render(text)
	})...)

	if len(entries) == 0 || (len(entries) == 1 && entries[0].up) {
		switch {
		case b.loading:
			lines = append(lines, "  "+m.spinner.View()+" Loading...")
		case b.level == levelArtists && !b.loaded:
			lines = append(lines, styles.MutedText.Render("  Waiting for server..."))
		default:
			lines = append(lines, styles.MutedText.Render("  No entries"))
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) browserLine(e entry, width int) string {
	if e.up || m.browser.level != levelSongs {
		return truncate(e.label, width)
	}
	song := m.browser.songs[e.index]
	length := progress.FormatSeconds(song.Length)
	return padBetween(truncate(song.Title, width-len(length)-1), length, width)
}

// Commands

type artistsMsg struct {
	artists []string
}

type albumsMsg struct {
	artist string
	albums []string
}

type songsMsg struct {
	artist string
	album  string
	songs  []catalog.Song
}

type enqueueMsg struct {
	tracks []queue.Track
	label  string
}

type catalogErrMsg struct {
	op  string
	err error
}

func (m Model) fetchArtistsCmd() tea.Cmd {
	cat, parent := m.catalog, m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, catalogTimeout)
		defer cancel()
		artists, err := cat.Artists(ctx)
		if err != nil {
			return catalogErrMsg{op: "list artists", err: err}
		}
		return artistsMsg{artists: artists}
	}
}

func (m Model) fetchAlbumsCmd(artist string) tea.Cmd {
	cat, parent := m.catalog, m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, catalogTimeout)
		defer cancel()
		albums, err := cat.Albums(ctx, artist)
		if err != nil {
			return catalogErrMsg{op: "list albums", err: err}
		}
		return albumsMsg{artist: artist, albums: albums}
	}
}

func (m Model) fetchSongsCmd(artist, album string) tea.Cmd {
	cat, parent := m.catalog, m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, catalogTimeout)
		defer cancel()
		songs, err := cat.Songs(ctx, artist, album)
		if err != nil {
			return catalogErrMsg{op: "list songs", err: err}
		}
		return songsMsg{artist: artist, album: album, songs: songs}
	}
}

func (m Model) fetchAlbumTracksCmd(artist, album string) tea.Cmd {
	cat, parent := m.catalog, m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, catalogTimeout)
		defer cancel()
		songs, err := cat.Songs(ctx, artist, album)
		if err != nil {
			return catalogErrMsg{op: "add album", err: err}
		}
		tracks := make([]queue.Track, len(songs))
		for i, s := range songs {
			tracks[i] = s.Track(artist, album)
		}
		return enqueueMsg{tracks: tracks, label: fmt.Sprintf("%s (%d tracks)", album, len(tracks))}
	}
}

func indexOf(values []string, target string) int {
	for i, v := range values {
		if v == target {
			return i
		}
	}
	return 0
}
