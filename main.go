package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"

	"github.com/olivier-w/climpviz/internal/analysis"
	"github.com/olivier-w/climpviz/internal/config"
	"github.com/olivier-w/climpviz/internal/palette"
	"github.com/olivier-w/climpviz/internal/player"
	"github.com/olivier-w/climpviz/internal/render"
	"github.com/olivier-w/climpviz/internal/ui"
	"github.com/olivier-w/climpviz/internal/visualizer"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Parse(args, os.Getenv)
	if err != nil {
		return err
	}

	closeLog, err := setupLogging(cfg.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	slog.Info("starting", "file", cfg.File, "palette", cfg.Palette, "fps", cfg.FPS, "tick", cfg.Tick)
	if !cfg.KnownPalette() {
		slog.Warn("unknown palette, using default", "palette", cfg.Palette, "default", palette.Default)
	}

	if err := checkFile(cfg.File); err != nil {
		return err
	}

	start := time.Now()
	track, err := player.Load(cfg.File)
	if err != nil {
		return err
	}
	slog.Info("decoded track", "rate", track.Rate, "channels", track.Channels,
		"samples", track.Buffer.Len(), "duration", track.Duration(), "elapsed", time.Since(start))

	acfg := analysis.DefaultConfig()
	acfg.FPS = cfg.FPS
	start = time.Now()
	res, err := analysis.Run(track.Buffer, acfg)
	if err != nil {
		return errors.Wrap(err, "failed to analyze track")
	}
	slog.Info("analysis complete", "frames", res.Spectrogram.Frames(), "bins", res.Spectrogram.Bins(),
		"hop", res.Spectrogram.Hop(), "elapsed", time.Since(start))

	meta := player.ReadMetadata(cfg.File)

	p, err := player.New(track, cfg.Volume)
	if err != nil {
		return errors.Wrap(err, "failed to create player")
	}
	defer p.Close()

	vcfg := visualizer.DefaultConfig()
	vcfg.Palette = cfg.Palette
	session := visualizer.NewSession(res, p, vcfg)

	model := ui.New(session, p, meta, render.NewRenderer(), cfg.Tick)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := program.Run(); err != nil {
		return err
	}
	slog.Info("exited")
	return nil
}

// setupLogging sends slog output to path. The terminal belongs to the UI, so
// without a path logs are discarded.
func setupLogging(path string) (func(), error) {
	if path == "" {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return func() {}, nil
	}
	f, err := tea.LogToFile(path, config.AppName)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open log file")
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})))
	return func() { f.Close() }, nil
}

// checkFile rejects paths Load cannot read before any decoding starts.
func checkFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return &player.LoadError{Path: path, Err: err}
	}
	if info.IsDir() {
		return &player.LoadError{Path: path, Err: errors.New("is a directory")}
	}
	if !player.IsSupported(path) {
		ext := strings.ToLower(filepath.Ext(path))
		return &player.LoadError{
			Path: path,
			Err:  errors.Errorf("unsupported format %s (supported: %s)", ext, strings.Join(player.SupportedExts(), ", ")),
		}
	}
	return nil
}
