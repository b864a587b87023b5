package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/five82/bctl/internal/catalog"
	"github.com/five82/bctl/internal/prefs"
	"github.com/five82/bctl/internal/queue"
	"github.com/five82/bctl/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewLibrary View = iota
	ViewPlaylist
	ViewLogs
)

var viewNames = []string{"Library", "Playlist", "Logs"}

// Player is the part of the playback controller the UI drives. Its methods
// are only ever invoked on the event loop through a Dispatcher.
type Player interface {
	TogglePlayPause()
	PlayAt(index int) error
	Next(auto bool)
	Prev()
	Append(tracks ...queue.Track)
	RemoveFromQueue(index int) error
	ClearQueue()
	SetRepeat(on bool)
	SetRandom(on bool)
	SeekTo(fraction float64)
}

// Dispatcher runs closures on the event loop that owns the Player.
type Dispatcher interface {
	Post(fn func()) bool
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Catalog   catalog.Fetcher
	Player    Player
	Loop      Dispatcher
	Store     *state.Store
	Logger    zerolog.Logger
	LogPath   string
	PrefsPath string
	Prefs     prefs.Prefs
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	catalog   catalog.Fetcher
	player    Player
	loop      Dispatcher
	store     *state.Store
	log       zerolog.Logger
	logPath   string
	prefsPath string

	// UI state
	keys        keyMap
	help        help.Model
	spinner     spinner.Model
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool

	// Data state
	snapshot  state.Snapshot
	wasOnline bool

	// Modes as last requested by the user
	repeat bool
	random bool

	// Transient message shown in the header
	notice   string
	noticeAt time.Time

	browser     browserState
	playlistRow int
	bar         barState
	logState    logState
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:         ctx,
		catalog:     opts.Catalog,
		player:      opts.Player,
		loop:        opts.Loop,
		store:       opts.Store,
		log:         opts.Logger,
		logPath:     opts.LogPath,
		prefsPath:   prefsPath,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		spinner:     sp,
		theme:       GetTheme(opts.Prefs.Theme),
		currentView: ViewLibrary,
		repeat:      opts.Prefs.Repeat,
		random:      opts.Prefs.Random,
		browser:     newBrowserState(),
		bar:         newBarState(),
		logState:    newLogState(),
	}
	// Init issues the first artists request.
	m.browser.loading = opts.Catalog != nil
	m.applyTheme()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.SetWindowTitle("bctl"),
		frameCmd(),
		m.spinner.Tick,
	}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.catalog != nil {
		cmds = append(cmds, m.fetchArtistsCmd())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width - 2
		m.ready = true
		m.resizeLogViewport()
		return m, nil

	case frameMsg:
		return m.handleFrame(time.Time(msg))

	case snapshotMsg:
		m.applySnapshot(state.Snapshot(msg))
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case artistsMsg:
		m.browser.setArtists(msg.artists)
		return m, nil

	case albumsMsg:
		m.browser.setAlbums(msg.artist, msg.albums)
		return m, nil

	case songsMsg:
		m.browser.setSongs(msg.artist, msg.album, msg.songs)
		return m, nil

	case enqueueMsg:
		m.enqueue(msg.tracks, msg.label)
		return m, nil

	case catalogErrMsg:
		m.browser.loading = false
		m.log.Warn().Err(msg.err).Str("op", msg.op).Msg("catalog request failed")
		if m.store != nil {
			m.store.SetCatalogError(msg.err)
		}
		m.setNotice(msg.op + " failed")
		return m, nil

	case logLinesMsg:
		m.setLogLines(msg.lines)
		return m, nil

	case logErrorMsg:
		m.log.Debug().Err(msg.err).Msg("read client log")
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	// The filter input swallows everything but its own controls.
	if m.currentView == ViewLibrary && m.browser.filtering {
		cmd := m.browser.updateFilter(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.applyTheme()
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		return m.switchView((m.currentView + 1) % View(len(viewNames)))

	case key.Matches(msg, m.keys.ShiftTab):
		return m.switchView((m.currentView + View(len(viewNames)) - 1) % View(len(viewNames)))

	case key.Matches(msg, m.keys.ViewLibrary):
		return m.switchView(ViewLibrary)

	case key.Matches(msg, m.keys.ViewPlaylist):
		return m.switchView(ViewPlaylist)

	case key.Matches(msg, m.keys.ViewLogs):
		return m.switchView(ViewLogs)

	case key.Matches(msg, m.keys.PlayPause):
		m.dispatch("toggle play", func(p Player) { p.TogglePlayPause() })
		return m, nil

	case key.Matches(msg, m.keys.Next):
		m.dispatch("next", func(p Player) { p.Next(false) })
		return m, nil

	case key.Matches(msg, m.keys.Prev):
		m.dispatch("prev", func(p Player) { p.Prev() })
		return m, nil

	case key.Matches(msg, m.keys.SeekBack):
		m.seekBy(-seekStep)
		return m, nil

	case key.Matches(msg, m.keys.SeekForward):
		m.seekBy(seekStep)
		return m, nil

	case key.Matches(msg, m.keys.ToggleRepeat):
		m.repeat = !m.repeat
		on := m.repeat
		m.dispatch("repeat", func(p Player) { p.SetRepeat(on) })
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.ToggleRandom):
		m.random = !m.random
		on := m.random
		m.dispatch("random", func(p Player) { p.SetRandom(on) })
		m.savePrefs()
		return m, nil
	}

	// View-specific keys
	switch m.currentView {
	case ViewLibrary:
		return m.handleLibraryKey(msg)
	case ViewPlaylist:
		return m.handlePlaylistKey(msg)
	case ViewLogs:
		return m.handleLogsKey(msg)
	}

	return m, nil
}

func (m Model) switchView(v View) (tea.Model, tea.Cmd) {
	m.currentView = v
	if v == ViewLogs {
		return m, m.refreshLogs()
	}
	return m, nil
}

// handleFrame advances animations and pulls the latest snapshot.
func (m Model) handleFrame(now time.Time) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{frameCmd()}

	if m.store != nil {
		m.applySnapshot(m.store.Snapshot())
	}

	if m.snapshot.ConnectionKnown && m.snapshot.Connected && !m.wasOnline {
		if m.catalog != nil && m.browser.needsArtists() {
			m.browser.loading = true
			cmds = append(cmds, m.fetchArtistsCmd())
		}
	}
	m.wasOnline = m.snapshot.ConnectionKnown && m.snapshot.Connected

	m.stepBar()

	if m.currentView == ViewLogs && m.logState.follow && now.Sub(m.logState.lastRefresh) >= logRefreshInterval {
		m.logState.lastRefresh = now
		if cmd := m.refreshLogs(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	if m.notice != "" && now.Sub(m.noticeAt) > noticeTTL {
		m.notice = ""
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) applySnapshot(snap state.Snapshot) {
	m.snapshot = snap
	if n := len(snap.Playback.Tracks); m.playlistRow >= n {
		m.playlistRow = max(0, n-1)
	}
}

// dispatch posts a controller call to the event loop.
func (m Model) dispatch(op string, fn func(Player)) {
	if m.player == nil || m.loop == nil {
		return
	}
	p := m.player
	if !m.loop.Post(func() { fn(p) }) {
		m.log.Warn().Str("op", op).Msg("event loop stopped; command dropped")
	}
}

// seekBy moves the play position by delta seconds.
func (m Model) seekBy(delta float64) {
	pb := m.snapshot.Playback
	if pb.Duration <= 0 || pb.SeekableEnd <= 0 {
		return
	}
	frac := (pb.CurrentTime + delta) / pb.Duration
	frac = max(0, min(1, frac))
	m.dispatch("seek", func(p Player) { p.SeekTo(frac) })
}

func (m *Model) enqueue(tracks []queue.Track, label string) {
	if len(tracks) == 0 {
		return
	}
	m.dispatch("append", func(p Player) { p.Append(tracks...) })
	m.setNotice("Added " + label)
}

func (m *Model) setNotice(text string) {
	m.notice = text
	m.noticeAt = time.Now()
}

func (m *Model) applyTheme() {
	styles := m.theme.Styles()
	m.help.Styles.ShortKey = styles.WarningText
	m.help.Styles.ShortDesc = styles.MutedText
	m.help.Styles.ShortSeparator = styles.FaintText
	m.help.Styles.FullKey = styles.WarningText
	m.help.Styles.FullDesc = styles.Text
	m.help.Styles.FullSeparator = styles.FaintText
	m.help.Styles.Ellipsis = styles.FaintText
	m.spinner.Style = styles.AccentText
	m.renderLogContent()
}

func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name, Repeat: m.repeat, Random: m.random}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.log.Warn().Err(err).Msg("save prefs")
	}
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	b.WriteString("\n")
	b.WriteString(m.renderTransport())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	height := m.contentHeight()
	var body string
	switch m.currentView {
	case ViewLibrary:
		body = m.renderLibrary(height)
	case ViewPlaylist:
		body = m.renderPlaylist(height)
	case ViewLogs:
		body = m.renderLogs()
	}
	return fitHeight(body, height)
}

// Messages

type frameMsg time.Time

type snapshotMsg state.Snapshot

// Commands

func frameCmd() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// Run starts the Bubble Tea program and blocks until it exits or ctx is done.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(m.ctx),
	)
	_, err := p.Run()
	if err != nil && m.ctx.Err() != nil {
		return nil
	}
	return err
}
