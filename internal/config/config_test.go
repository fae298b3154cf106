package config

import (
	"testing"
	"time"

	"github.com/olivier-w/climpviz/internal/palette"
)

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(nil, env(nil))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if cfg != NewDefault() {
		t.Fatalf("expected defaults %+v, got %+v", NewDefault(), cfg)
	}
	if cfg.File != "sound.wav" || cfg.Palette != "rainbow" {
		t.Fatalf("expected sound.wav with rainbow, got %q with %q", cfg.File, cfg.Palette)
	}
}

func TestParseFlags(t *testing.T) {
	args := []string{"--palette", "Trans", "--fps", "30", "--tick", "20ms", "--volume", "0.8", "--log", "viz.log", "song.flac"}
	cfg, err := Parse(args, env(nil))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	want := Config{File: "song.flac", Palette: "trans", FPS: 30, Tick: 20 * time.Millisecond, Volume: 0.8, LogFile: "viz.log"}
	if cfg != want {
		t.Fatalf("expected %+v, got %+v", want, cfg)
	}
}

func TestPaletteEnvironmentAndOverride(t *testing.T) {
	cfg, err := Parse(nil, env(map[string]string{PaletteEnv: "ENBY"}))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if cfg.Palette != "enby" {
		t.Fatalf("expected palette from environment, got %q", cfg.Palette)
	}

	cfg, err = Parse([]string{"-p", "pan"}, env(map[string]string{PaletteEnv: "enby"}))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if cfg.Palette != "pan" {
		t.Fatalf("expected flag to win over environment, got %q", cfg.Palette)
	}
}

func TestUnknownPaletteIsNotAnError(t *testing.T) {
	cfg, err := Parse(nil, env(map[string]string{PaletteEnv: "plaid"}))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if cfg.KnownPalette() {
		t.Fatalf("expected %q to be reported unknown", cfg.Palette)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero fps", func(c *Config) { c.FPS = 0 }},
		{"huge fps", func(c *Config) { c.FPS = 5000 }},
		{"zero tick", func(c *Config) { c.Tick = 0 }},
		{"negative volume", func(c *Config) { c.Volume = -0.1 }},
		{"loud volume", func(c *Config) { c.Volume = 1.5 }},
	}
	for _, tt := range tests {
		cfg := NewDefault()
		tt.modify(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", tt.name)
		}
	}

	cfg := NewDefault()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
}

func TestSanitize(t *testing.T) {
	cfg := Config{File: "  ", Palette: "  "}
	cfg.Sanitize()
	if cfg.File != DefaultFile || cfg.Palette != palette.Default {
		t.Fatalf("expected fallbacks, got %+v", cfg)
	}
}
