package visualizer

import (
	"log/slog"
	"math/rand/v2"

	"github.com/olivier-w/climpviz/internal/analysis"
	"github.com/olivier-w/climpviz/internal/palette"
)

// DefaultVolumeStep is the volume change per scroll unit.
const DefaultVolumeStep = 0.1

// Config configures a Session.
type Config struct {
	Palette        string
	ShapeThreshold float64
	ColorThreshold float64
	VolumeStep     float64
	Composer       ComposerConfig

	// Seed makes color and shape choices reproducible. Zero picks a random
	// seed.
	Seed uint64
}

// DefaultConfig returns the thresholds and layout used by the terminal UI.
func DefaultConfig() Config {
	return Config{
		Palette:        palette.Default,
		ShapeThreshold: DefaultShapeThreshold,
		ColorThreshold: DefaultColorThreshold,
		VolumeStep:     DefaultVolumeStep,
		Composer:       TerminalComposerConfig(),
	}
}

// Session ties one analyzed track to its playback. It is not safe for
// concurrent use; the render loop owns it.
type Session struct {
	res        *analysis.Result
	playback   Playback
	machine    *StateMachine
	composer   *Composer
	volumeStep float64
	done       bool
}

var _ EventHandler = (*Session)(nil)

// NewSession returns a session rendering res while pb plays it.
func NewSession(res *analysis.Result, pb Playback, cfg Config) *Session {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed>>1|1))

	pal := palette.Lookup(cfg.Palette, res.Spectrogram.Bins())
	return &Session{
		res:        res,
		playback:   pb,
		machine:    NewStateMachine(cfg.ShapeThreshold, cfg.ColorThreshold, rng),
		composer:   NewComposer(cfg.Composer, res.Spectrogram, res.Envelope, pal),
		volumeStep: cfg.VolumeStep,
	}
}

// OnTick reads the playback clock, advances the visual state and draws one
// frame on c. Once playback has completed it draws nothing and returns false.
func (s *Session) OnTick(c Canvas, width, height int) bool {
	if s.done {
		return false
	}
	if s.playback.Complete() {
		s.done = true
		slog.Info("playback complete, ending session")
		return false
	}

	pos := s.playback.Position()
	idx, err := s.res.Mapper.Map(pos)
	if err != nil {
		slog.Warn("clamping playback position", "err", err)
	}

	level := s.res.Envelope.At(idx.Sample)
	if t := s.machine.Step(level, s.playback.Playing()); t.Shape || t.Color {
		slog.Debug("envelope onset", "level", level, "shape", t.Shape, "color", t.Color, "sample", idx.Sample)
	}

	var progress float64
	if d := s.playback.Duration(); d > 0 {
		progress = pos.Seconds() / d.Seconds()
	}

	if width <= 0 || height <= 0 {
		return true
	}
	s.composer.Compose(idx, width, height, s.machine.State(), progress).Draw(c)
	return true
}

// OnPointer recolors on the left button and picks a random shape on the
// right one.
func (s *Session) OnPointer(b PointerButton) {
	switch b {
	case PointerLeft:
		s.machine.Recolor()
	case PointerRight:
		s.machine.RandomShape()
	}
}

// OnScroll changes the volume by one step per unit, clamped to [0, 1].
func (s *Session) OnScroll(units float64) {
	v := s.playback.Volume() + units*s.volumeStep
	s.playback.SetVolume(min(max(v, 0), 1))
}

// OnKey handles play/pause.
func (s *Session) OnKey(k Key) {
	if k == KeyPlayPause {
		s.playback.TogglePause()
	}
}

// State returns the current visual state.
func (s *Session) State() VisualState { return s.machine.State() }

// Done reports whether the session has ended.
func (s *Session) Done() bool { return s.done }

// Close ends the session; later ticks draw nothing.
func (s *Session) Close() { s.done = true }
