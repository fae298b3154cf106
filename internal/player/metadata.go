package player

import (
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2/v2"
)

// Metadata is what the status line shows about a track.
type Metadata struct {
	Title  string
	Artist string
}

// ReadMetadata reads the ID3v2 title and artist of path. Files without a
// title tag (including every non-MP3 format) fall back to the file name.
func ReadMetadata(path string) Metadata {
	var m Metadata
	if tag, err := id3v2.Open(path, id3v2.Options{Parse: true}); err == nil {
		m.Title = strings.TrimSpace(tag.Title())
		m.Artist = strings.TrimSpace(tag.Artist())
		tag.Close()
	}
	if m.Title == "" {
		base := filepath.Base(path)
		m.Title = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return m
}

// String joins artist and title for display.
func (m Metadata) String() string {
	if m.Artist == "" {
		return m.Title
	}
	return m.Artist + " - " + m.Title
}
