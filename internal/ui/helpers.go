package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderWindow renders the slice of n rows that keeps row visible within
// height lines.
func renderWindow(n, row, height int, render func(i int, selected bool) string) []string {
	if n == 0 || height <= 0 {
		return nil
	}
	start := 0
	if row >= height {
		start = row - height + 1
	}
	end := min(n, start+height)
	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		lines = append(lines, render(i, i == row))
	}
	return lines
}

// truncate shortens value to at most limit display cells, ending in an
// ellipsis when cut.
func truncate(value string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if lipgloss.Width(value) <= limit {
		return value
	}
	runes := []rune(value)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > limit {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}

// padBetween places left and right at the edges of a width-cell line.
func padBetween(left, right string, width int) string {
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

// fitHeight pads or cuts content to exactly height lines.
func fitHeight(content string, height int) string {
	lines := strings.Split(content, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
