package analysis

import (
	"math"
	"time"
)

// Indices locates a playback position in the analysis buffers.
type Indices struct {
	Sample int // index into the envelope
	Frame  int // spectrogram frame; Frame+1 is always a valid frame when Frames > 1

	// Fraction is how far Sample lies between Frame and Frame+1, in [0, 1].
	Fraction float64
}

// FrameMapper converts playback positions to buffer indices. Its hop length
// comes from the spectrogram it was built from, so the envelope and the
// spectrogram stay aligned on the same audible moment.
type FrameMapper struct {
	rate    int
	hop     int
	samples int
	frames  int
}

// NewFrameMapper returns a mapper for buf and its spectrogram.
func NewFrameMapper(buf SampleBuffer, spec *Spectrogram) FrameMapper {
	return FrameMapper{
		rate:    buf.Rate,
		hop:     spec.Hop(),
		samples: len(buf.Samples),
		frames:  spec.Frames(),
	}
}

// Map returns the sample and frame under pos. Out-of-range positions are
// clamped; a negative position also returns an *OutOfRangeError alongside
// the zero indices.
func (m FrameMapper) Map(pos time.Duration) (Indices, error) {
	if pos < 0 {
		return Indices{}, &OutOfRangeError{Position: pos}
	}

	sample := int(math.Floor(pos.Seconds() * float64(m.rate)))
	sample = clampIndex(sample, m.samples-1)

	hop := max(m.hop, 1)
	frame := clampIndex(sample/hop, m.frames-2)

	var frac float64
	if m.frames > 1 {
		frac = float64(sample-frame*hop) / float64(hop)
		frac = math.Min(math.Max(frac, 0), 1)
	}

	return Indices{Sample: sample, Frame: frame, Fraction: frac}, nil
}

// Hop returns the hop length shared with the spectrogram.
func (m FrameMapper) Hop() int { return m.hop }

func clampIndex(i, hi int) int {
	if i > hi {
		i = hi
	}
	if i < 0 {
		i = 0
	}
	return i
}
