package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/olivier-w/climpviz/internal/player"
)

func TestCheckFileReportsLoadErrors(t *testing.T) {
	dir := t.TempDir()

	missing := filepath.Join(dir, "sound.wav")
	err := checkFile(missing)
	var le *player.LoadError
	if !errors.As(err, &le) {
		t.Fatalf("expected *player.LoadError for a missing file, got %T %v", err, err)
	}
	if le.Path != missing || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error for %s, got %v", missing, err)
	}

	if err := checkFile(dir); !errors.As(err, &le) {
		t.Fatalf("expected *player.LoadError for a directory, got %v", err)
	}

	notes := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(notes, []byte("hello"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := checkFile(notes); !errors.As(err, &le) {
		t.Fatalf("expected *player.LoadError for an unsupported format, got %v", err)
	}

	track := filepath.Join(dir, "track.mp3")
	if err := os.WriteFile(track, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := checkFile(track); err != nil {
		t.Fatalf("expected a supported file to pass, got %v", err)
	}
}
