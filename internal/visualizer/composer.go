package visualizer

import (
	"image/color"
	"math"

	"github.com/olivier-w/climpviz/internal/analysis"
	"github.com/olivier-w/climpviz/internal/palette"
)

// ComposerConfig holds the fixed layout of a frame. Lengths are in canvas
// pixels; y grows downwards.
type ComposerConfig struct {
	Background    color.RGBA
	ProgressColor color.RGBA

	ProgressHeight float64
	RectHeight     float64

	// The circle radius is level*CircleScale at a RefWidth x RefHeight
	// viewport and scales with the viewport area.
	CircleScale float64
	RefWidth    float64
	RefHeight   float64

	// The trace baseline sits TraceOffset of the height above the bottom
	// edge and every dB above the floor lifts it by TraceScale of the height.
	TraceOffset float64
	TraceScale  float64
}

// DefaultComposerConfig lays frames out for a 1080x600 pixel window.
func DefaultComposerConfig() ComposerConfig {
	return ComposerConfig{
		Background:     color.RGBA{R: 54, G: 57, B: 62, A: 255},
		ProgressColor:  color.RGBA{G: 128, A: 255},
		ProgressHeight: 20,
		RectHeight:     20,
		CircleScale:    100,
		RefWidth:       1080,
		RefHeight:      600,
		TraceOffset:    0.25,
		TraceScale:     1.0 / 200,
	}
}

// TerminalComposerConfig is DefaultComposerConfig scaled for a half-block
// terminal raster, where a full-screen terminal is a couple hundred pixels
// wide.
func TerminalComposerConfig() ComposerConfig {
	cfg := DefaultComposerConfig()
	cfg.ProgressHeight = 2
	cfg.RectHeight = 4
	cfg.CircleScale = 16
	cfg.RefWidth = 160
	cfg.RefHeight = 80
	return cfg
}

// Rect is an axis-aligned rectangle with its top-left corner at X, Y.
type Rect struct{ X, Y, W, H float64 }

// Disc is a filled circle centered on X, Y.
type Disc struct{ X, Y, R float64 }

// Segment is a line from (X1, Y1) to (X2, Y2).
type Segment struct{ X1, Y1, X2, Y2 float64 }

// TraceSegment is one colored piece of the spectrogram trace.
type TraceSegment struct {
	Segment
	Color color.RGBA
}

// RenderFrame is the geometry of one tick. Trace is owned by the Composer
// and is overwritten by the next Compose call.
type RenderFrame struct {
	Width, Height int
	Background    color.RGBA

	Shape      Shape
	Rect       Rect
	Disc       Disc
	ShapeColor color.RGBA

	Progress      Rect
	ProgressColor color.RGBA

	Trace []TraceSegment
}

// Draw sends the frame to c: shape, then progress bar, then trace.
func (f RenderFrame) Draw(c Canvas) {
	c.Begin(f.Width, f.Height, f.Background)
	if f.Shape == Rectangle {
		c.FillRect(f.Rect, f.ShapeColor)
	} else {
		c.FillCircle(f.Disc, f.ShapeColor)
	}
	c.FillRect(f.Progress, f.ProgressColor)
	for _, s := range f.Trace {
		c.Line(s.Segment, s.Color)
	}
	c.End()
}

// Composer turns analysis values and visual state into frame geometry. It
// only reads the analysis buffers.
type Composer struct {
	cfg     ComposerConfig
	spec    *analysis.Spectrogram
	env     analysis.Envelope
	palette palette.Func
	trace   []TraceSegment
}

// NewComposer returns a composer reading spec and env, coloring the trace
// with pal.
func NewComposer(cfg ComposerConfig, spec *analysis.Spectrogram, env analysis.Envelope, pal palette.Func) *Composer {
	return &Composer{
		cfg:     cfg,
		spec:    spec,
		env:     env,
		palette: pal,
		trace:   make([]TraceSegment, max(spec.Bins()-1, 0)),
	}
}

// Compose lays out the frame for idx on a width x height canvas. progress is
// the played fraction of the track.
func (c *Composer) Compose(idx analysis.Indices, width, height int, st VisualState, progress float64) RenderFrame {
	w, h := float64(width), float64(height)
	level := c.env.At(idx.Sample)

	f := RenderFrame{
		Width:         width,
		Height:        height,
		Background:    c.cfg.Background,
		Shape:         st.Shape,
		ProgressColor: c.cfg.ProgressColor,
	}

	switch st.Shape {
	case Rectangle:
		rw := math.Abs(level) * w / 2
		f.Rect = Rect{X: (w - rw) / 2, Y: (h - c.cfg.RectHeight) / 2, W: rw, H: c.cfg.RectHeight}
		f.ShapeColor = st.ShapeColor
	default:
		area := w * h / (c.cfg.RefWidth * c.cfg.RefHeight)
		f.Disc = Disc{X: w / 2, Y: h / 2, R: math.Max(level, 0) * c.cfg.CircleScale * area}
		f.ShapeColor = st.AccentColor
	}

	progress = math.Min(math.Max(progress, 0), 1)
	f.Progress = Rect{X: 0, Y: h - c.cfg.ProgressHeight, W: progress * w, H: c.cfg.ProgressHeight}

	f.Trace = c.composeTrace(idx, w, h)
	return f
}

// composeTrace connects the dB value of every adjacent bin pair, reading
// between frame idx.Frame and the next one by idx.Fraction.
func (c *Composer) composeTrace(idx analysis.Indices, w, h float64) []TraceSegment {
	bins := c.spec.Bins()
	frames := c.spec.Frames()
	if bins < 2 || frames == 0 {
		return nil
	}

	f0 := min(max(idx.Frame, 0), frames-1)
	f1 := min(f0+1, frames-1)
	cur, next := c.spec.Decibels(f0), c.spec.Decibels(f1)
	frac := idx.Fraction

	y := func(bin int) float64 {
		db := float64(cur[bin]) + (float64(next[bin])-float64(cur[bin]))*frac
		up := h*c.cfg.TraceOffset + (db+analysis.TopDB)*h*c.cfg.TraceScale
		return h - up
	}

	n := float64(bins)
	prev := y(0)
	for i := 1; i < bins; i++ {
		cy := y(i)
		c.trace[i-1] = TraceSegment{
			Segment: Segment{X1: w * float64(i) / n, Y1: prev, X2: w * float64(i+1) / n, Y2: cy},
			Color:   c.palette(i),
		}
		prev = cy
	}
	return c.trace
}
