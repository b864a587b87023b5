package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/five82/bctl/internal/queue"
)

// Song is one entry of an album listing.
type Song struct {
	Title  string
	Length int // seconds
	ID     queue.TrackID
}

// Track converts the song into a queue entry tagged with its artist and album.
func (s Song) Track(artist, album string) queue.Track {
	return queue.Track{
		ID:       s.ID,
		Title:    s.Title,
		Duration: s.Length,
		Artist:   artist,
		Album:    album,
	}
}

// UnmarshalJSON accepts both the tuple form [title, seconds, id] and the
// object form {"title", "length", "hash"}.
func (s *Song) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var tuple []json.RawMessage
		if err := json.Unmarshal(trimmed, &tuple); err != nil {
			return err
		}
		if len(tuple) < 3 {
			return fmt.Errorf("song tuple has %d fields, want 3", len(tuple))
		}
		var (
			title  string
			length json.Number
		)
		if err := json.Unmarshal(tuple[0], &title); err != nil {
			return fmt.Errorf("song title: %w", err)
		}
		if err := json.Unmarshal(tuple[1], &length); err != nil {
			return fmt.Errorf("song length: %w", err)
		}
		id, err := decodeID(tuple[2])
		if err != nil {
			return err
		}
		secs, err := seconds(length)
		if err != nil {
			return err
		}
		*s = Song{Title: title, Length: secs, ID: id}
		return nil
	}

	var obj struct {
		Title  string          `json:"title"`
		Length json.Number     `json:"length"`
		Hash   json.RawMessage `json:"hash"`
	}
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return err
	}
	id, err := decodeID(obj.Hash)
	if err != nil {
		return err
	}
	secs, err := seconds(obj.Length)
	if err != nil {
		return err
	}
	*s = Song{Title: obj.Title, Length: secs, ID: id}
	return nil
}

func decodeID(raw json.RawMessage) (queue.TrackID, error) {
	if len(raw) == 0 {
		return "", fmt.Errorf("song id missing")
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return queue.TrackID(str), nil
	}
	var num json.Number
	if err := json.Unmarshal(raw, &num); err != nil {
		return "", fmt.Errorf("song id: %w", err)
	}
	return queue.TrackID(num.String()), nil
}

func seconds(n json.Number) (int, error) {
	if n == "" {
		return 0, nil
	}
	f, err := n.Float64()
	if err != nil {
		return 0, fmt.Errorf("song length %q: %w", n, err)
	}
	return int(math.Round(f)), nil
}
