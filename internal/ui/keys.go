package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Tab        key.Binding
	ShiftTab   key.Binding

	// View switching
	ViewLibrary  key.Binding
	ViewPlaylist key.Binding
	ViewLogs     key.Binding

	// Transport
	PlayPause    key.Binding
	Next         key.Binding
	Prev         key.Binding
	SeekBack     key.Binding
	SeekForward  key.Binding
	ToggleRepeat key.Binding
	ToggleRandom key.Binding

	// Lists
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding
	Select key.Binding
	Back   key.Binding

	// Library
	Filter  key.Binding
	Enqueue key.Binding

	// Playlist
	Remove key.Binding
	Clear  key.Binding

	// Logs
	ToggleFollow key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Cycle views"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Cycle views (reverse)"),
		),

		ViewLibrary: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "Library"),
		),
		ViewPlaylist: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "Playlist"),
		),
		ViewLogs: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "Logs"),
		),

		PlayPause: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "Play/pause"),
		),
		Next: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "Next track"),
		),
		Prev: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "Previous track"),
		),
		SeekBack: key.NewBinding(
			key.WithKeys("left", ","),
			key.WithHelp("←/,", "Seek back"),
		),
		SeekForward: key.NewBinding(
			key.WithKeys("right", "."),
			key.WithHelp("→/.", "Seek forward"),
		),
		ToggleRepeat: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Toggle repeat"),
		),
		ToggleRandom: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Toggle random"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Open/play"),
		),
		Back: key.NewBinding(
			key.WithKeys("backspace", "h"),
			key.WithHelp("h", "Up one level"),
		),

		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Filter list"),
		),
		Enqueue: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Add song/album"),
		),

		Remove: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "Remove track"),
		),
		Clear: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "Clear playlist"),
		),

		ToggleFollow: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Toggle follow"),
		),
	}
}

// ShortHelp returns key bindings for the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PlayPause, k.Next, k.Prev, k.Tab, k.Help, k.Quit}
}

// FullHelp returns key bindings for the help overlay.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		// Views
		{k.Tab, k.ViewLibrary, k.ViewPlaylist, k.ViewLogs},
		// Transport
		{k.PlayPause, k.Next, k.Prev, k.SeekBack, k.SeekForward, k.ToggleRepeat, k.ToggleRandom},
		// Lists
		{k.Up, k.Down, k.Top, k.Bottom, k.Select, k.Back},
		// Library and playlist
		{k.Filter, k.Enqueue, k.Remove, k.Clear, k.ToggleFollow},
		// General
		{k.CycleTheme, k.Help, k.Quit},
	}
}
