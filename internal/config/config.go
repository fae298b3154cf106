// Package config holds the command line and environment settings.
package config

import (
	"strings"
	"time"

	"github.com/integrii/flaggy"
	"github.com/pkg/errors"

	"github.com/olivier-w/climpviz/internal/palette"
)

const (
	AppName = "climpviz"
	AppDesc = "play an audio file with a reactive spectrum visualization"

	// PaletteEnv selects the trace palette when --palette is not given.
	PaletteEnv = "COLOR"

	DefaultFile = "sound.wav"

	MaxFPS  = 1000
	MinTick = time.Millisecond
)

// Config is everything the program reads from its arguments and
// environment.
type Config struct {
	// File is the audio file to play.
	File string
	// Palette names the trace color map.
	Palette string
	// FPS is the analysis frame rate; it sets the STFT window length.
	FPS float64
	// Tick is the redraw interval.
	Tick time.Duration
	// Volume is the starting volume in [0, 1].
	Volume float64
	// LogFile receives structured logs. Empty discards them.
	LogFile string
}

// NewDefault returns the settings used when nothing is given.
func NewDefault() Config {
	return Config{
		File:    DefaultFile,
		Palette: palette.Default,
		FPS:     60,
		Tick:    50 * time.Millisecond,
		Volume:  0.5,
	}
}

// Parse reads args (without the program name) over the defaults. The
// palette is taken from the environment first so the flag can override it.
func Parse(args []string, getenv func(string) string) (Config, error) {
	cfg := NewDefault()
	if v := strings.TrimSpace(getenv(PaletteEnv)); v != "" {
		cfg.Palette = v
	}

	parser := flaggy.NewParser(AppName)
	parser.Description = AppDesc

	parser.AddPositionalValue(&cfg.File, "file", 1, false, "audio file to play (mp3, wav, flac, ogg)")
	parser.String(&cfg.Palette, "p", "palette", "trace palette ("+strings.Join(palette.Names(), ", ")+"), overrides $"+PaletteEnv)
	parser.Float64(&cfg.FPS, "f", "fps", "analysis frames per second")
	parser.Duration(&cfg.Tick, "t", "tick", "redraw interval")
	parser.Float64(&cfg.Volume, "vol", "volume", "starting volume [0, 1]")
	parser.String(&cfg.LogFile, "l", "log", "write logs to this file")

	if err := parser.ParseArgs(args); err != nil {
		return Config{}, errors.Wrap(err, "failed to parse arguments")
	}

	cfg.Sanitize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Sanitize normalizes values that have a sensible fallback.
func (cfg *Config) Sanitize() {
	cfg.Palette = strings.ToLower(strings.TrimSpace(cfg.Palette))
	if cfg.Palette == "" {
		cfg.Palette = palette.Default
	}
	cfg.File = strings.TrimSpace(cfg.File)
	if cfg.File == "" {
		cfg.File = DefaultFile
	}
}

// Validate rejects settings the program cannot run with.
func (cfg *Config) Validate() error {
	switch {
	case cfg.FPS <= 0:
		return errors.Errorf("fps must be positive, got %v", cfg.FPS)
	case cfg.FPS > MaxFPS:
		return errors.Errorf("fps too large (%d max)", MaxFPS)
	case cfg.Tick < MinTick:
		return errors.Errorf("tick too short (%v min)", MinTick)
	case cfg.Volume < 0 || cfg.Volume > 1:
		return errors.Errorf("volume must be within [0, 1], got %v", cfg.Volume)
	}
	return nil
}

// KnownPalette reports whether Palette names a palette rather than falling
// back to the default.
func (cfg Config) KnownPalette() bool {
	return palette.Known(cfg.Palette)
}
