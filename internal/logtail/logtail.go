package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Read returns at most maxLines from the end of the file at path.
// A non-positive maxLines returns the whole file.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Line is one parsed log line.
type Line struct {
	Time    string
	Level   string
	Message string
}

var levels = map[string]struct{}{
	"TRC": {},
	"DBG": {},
	"INF": {},
	"WRN": {},
	"ERR": {},
	"FTL": {},
	"PNC": {},
}

// ParseLine splits "<date> <time> <LVL> <message>" into its parts.
func ParseLine(raw string) Line {
	fields := strings.SplitN(raw, " ", 4)
	if len(fields) < 3 {
		return Line{Message: raw}
	}
	if _, ok := levels[fields[2]]; !ok {
		return Line{Message: raw}
	}
	line := Line{
		Time:  fields[0] + " " + fields[1],
		Level: fields[2],
	}
	if len(fields) == 4 {
		line.Message = fields[3]
	}
	return line
}
