package ui

import "time"

// Screen rows outside the content area: header, command bar, now-playing
// line, seek preview row, progress bar and footer.
const chromeRows = 6

// Progress bar geometry, in cells.
const (
	barPad          = 2
	previewBoxWidth = 9
)

// Timing constants.
const (
	// frameRate drives the progress spring and snapshot refresh.
	frameRate     = 20
	frameInterval = time.Second / frameRate

	// catalogTimeout bounds a single library listing request.
	catalogTimeout = 5 * time.Second

	// logRefreshInterval is the minimum time between log file reads.
	logRefreshInterval = time.Second

	// noticeTTL is how long a header notice stays visible.
	noticeTTL = 4 * time.Second
)

// seekStep is the keyboard seek distance in seconds.
const seekStep = 10.0

// logTailLines is the number of client log lines kept in the log view.
const logTailLines = 500

func (m Model) contentHeight() int {
	return max(1, m.height-chromeRows)
}

// barRow is the screen row of the progress bar.
func (m Model) barRow() int {
	return m.height - 2
}
